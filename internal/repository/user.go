package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/kumarsparkz/sql-server-audit-dashboard-api/internal/domain"
)

const userColumns = `user_id, username, password_hash, email, role, is_active, created_date, last_login_date`

type UserRepository struct {
	pool PgxPool
}

func NewUserRepository(pool PgxPool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.DashboardUser, error) {
	query := `
		SELECT ` + userColumns + `
		FROM dashboard_users
		WHERE username = $1
	`

	var u domain.DashboardUser
	err := r.pool.QueryRow(ctx, query, username).Scan(
		&u.ID, &u.Username, &u.PasswordHash, &u.Email,
		&u.Role, &u.IsActive, &u.CreatedDate, &u.LastLoginDate,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user by username: %w", err)
	}

	return &u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *domain.DashboardUser) error {
	query := `
		INSERT INTO dashboard_users (username, password_hash, email, role, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING user_id, created_date
	`

	err := r.pool.QueryRow(ctx, query,
		u.Username, u.PasswordHash, u.Email, u.Role, u.IsActive,
	).Scan(&u.ID, &u.CreatedDate)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

func (r *UserRepository) UpdateLastLogin(ctx context.Context, id int, at time.Time) error {
	query := `UPDATE dashboard_users SET last_login_date = $2 WHERE user_id = $1`

	result, err := r.pool.Exec(ctx, query, id, at)
	if err != nil {
		return fmt.Errorf("update last login: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}

	return nil
}
