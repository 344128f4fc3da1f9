package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/kumarsparkz/sql-server-audit-dashboard-api/internal/config"
	"github.com/kumarsparkz/sql-server-audit-dashboard-api/internal/database"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	action := flag.String("action", "up", "Migration action: up, down, version, force")
	version := flag.Int("version", 0, "Target version (for force action)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// golang-migrate wants a database/sql handle, not pgxpool
	db, err := database.NewPool(database.DefaultPoolConfig(cfg.DatabaseURL))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() { _ = db.Close() }()

	migrator, err := database.NewMigrator(db, "audit_dashboard")
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	defer func() { _ = migrator.Close() }()

	switch *action {
	case "up":
		log.Println("running migrations")
		if err := migrator.Up(); err != nil {
			return fmt.Errorf("migration up: %w", err)
		}
		log.Println("migrations applied")

	case "down":
		log.Println("rolling back last migration")
		if err := migrator.Down(); err != nil {
			return fmt.Errorf("migration down: %w", err)
		}
		log.Println("migration rolled back")

	case "version":
		v, dirty, err := migrator.Version()
		if err != nil {
			return fmt.Errorf("get version: %w", err)
		}
		if dirty {
			log.Printf("current version: %d (dirty, migration incomplete)", v)
		} else {
			log.Printf("current version: %d", v)
		}

	case "force":
		if *version == 0 {
			return fmt.Errorf("version flag is required for force action")
		}
		log.Printf("forcing migration version %d", *version)
		if err := migrator.Force(*version); err != nil {
			return fmt.Errorf("force version: %w", err)
		}
		log.Println("migration version forced")

	default:
		return fmt.Errorf("invalid action: %s (use: up, down, version, force)", *action)
	}

	return nil
}
