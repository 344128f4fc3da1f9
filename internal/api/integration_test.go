//go:build integration

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/kumarsparkz/sql-server-audit-dashboard-api/internal/alerting"
	"github.com/kumarsparkz/sql-server-audit-dashboard-api/internal/auth"
	"github.com/kumarsparkz/sql-server-audit-dashboard-api/internal/collector"
	"github.com/kumarsparkz/sql-server-audit-dashboard-api/internal/dashboard"
	"github.com/kumarsparkz/sql-server-audit-dashboard-api/internal/database"
	"github.com/kumarsparkz/sql-server-audit-dashboard-api/internal/repository"
	"github.com/kumarsparkz/sql-server-audit-dashboard-api/internal/security"
)

var testDB *pgxpool.Pool

func TestMain(m *testing.M) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "audit_dashboard_test",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		fmt.Printf("Failed to start container: %v\n", err)
		os.Exit(1)
	}

	defer func() {
		if err := container.Terminate(ctx); err != nil {
			fmt.Printf("Failed to terminate container: %v\n", err)
		}
	}()

	host, _ := container.Host(ctx)
	port, _ := container.MappedPort(ctx, "5432")

	connStr := fmt.Sprintf("postgres://test:test@%s:%s/audit_dashboard_test?sslmode=disable", host, port.Port())

	sqlDB, err := database.NewPool(database.DefaultPoolConfig(connStr))
	if err != nil {
		fmt.Printf("Failed to connect to database: %v\n", err)
		os.Exit(1)
	}

	migrator, err := database.NewMigrator(sqlDB, "audit_dashboard_test")
	if err != nil {
		fmt.Printf("Failed to create migrator: %v\n", err)
		os.Exit(1)
	}
	if err := migrator.Up(); err != nil {
		fmt.Printf("Failed to run migrations: %v\n", err)
		os.Exit(1)
	}

	testDB, err = database.NewPgxPool(ctx, connStr)
	if err != nil {
		fmt.Printf("Failed to open pgx pool: %v\n", err)
		os.Exit(1)
	}
	defer testDB.Close()

	code := m.Run()
	os.Exit(code)
}

// newTestRouter wires the full API against the container database,
// seeding the admin account on first use.
func newTestRouter(t *testing.T) *Router {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	serverRepo := repository.NewServerRepository(testDB)
	alertRepo := repository.NewAlertRepository(testDB)
	metricRepo := repository.NewMetricRepository(testDB)
	securityRepo := repository.NewSecurityEventRepository(testDB)
	userRepo := repository.NewUserRepository(testDB)

	jwtService := auth.NewJWTService("integration-test-secret", "audit-dashboard", time.Hour)
	authService := auth.NewService(userRepo, jwtService, logger)
	if err := authService.EnsureAdmin(context.Background(), "admin", "admin123"); err != nil {
		t.Fatalf("EnsureAdmin failed: %v", err)
	}

	lifecycle := alerting.NewLifecycle(alertRepo, alerting.SinkList{}, logger)
	evaluator := alerting.NewEvaluator(metricRepo)
	evaluation := alerting.NewScheduler(alertRepo, evaluator, lifecycle, logger, time.Minute)
	sampler := collector.NewSampler(serverRepo, metricRepo, collector.NewSeededDemoSource(1), nil, logger)

	deps := &Dependencies{
		DB:           testDB,
		JWTService:   jwtService,
		AuthService:  authService,
		AlertQueries: alerting.NewQueryService(alertRepo, logger),
		Lifecycle:    lifecycle,
		Evaluation:   evaluation,
		Sampler:      sampler,
		Overview:     dashboard.NewService(serverRepo, alertRepo, metricRepo, securityRepo, logger),
		Status:       dashboard.NewStatusService(serverRepo, alertRepo, logger),
		Security:     security.NewService(securityRepo, logger),
		ServerRepo:   serverRepo,
		MetricRepo:   metricRepo,
	}

	router := NewRouter(logger, deps)
	router.Setup()
	return router
}

func loginToken(t *testing.T, router *Router) string {
	t.Helper()

	body, _ := json.Marshal(map[string]string{"username": "admin", "password": "admin123"})
	req := httptest.NewRequest("POST", "/api/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := router.App().Test(req, -1)
	if err != nil {
		t.Fatalf("Login request failed: %v", err)
	}
	if resp.StatusCode != 200 {
		raw, _ := io.ReadAll(resp.Body)
		t.Fatalf("Login status = %d, body: %s", resp.StatusCode, raw)
	}

	var result struct {
		Token string `json:"token"`
	}
	raw, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(raw, &result); err != nil {
		t.Fatalf("Failed to parse login response: %v", err)
	}
	if result.Token == "" {
		t.Fatal("Login returned empty token")
	}
	return result.Token
}

func authedRequest(method, url string, body []byte, token string) *http.Request {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, url, reader)
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func TestIntegration_HealthEndpoint(t *testing.T) {
	router := newTestRouter(t)

	resp, err := router.App().Test(httptest.NewRequest("GET", "/health", nil), -1)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Errorf("Status = %d, want 200", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	var result map[string]interface{}
	if err := json.Unmarshal(body, &result); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if result["status"] != "ok" {
		t.Errorf("status = %v, want ok", result["status"])
	}
}

func TestIntegration_ReadyEndpoint(t *testing.T) {
	router := newTestRouter(t)

	resp, err := router.App().Test(httptest.NewRequest("GET", "/ready", nil), -1)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Errorf("Status = %d, want 200", resp.StatusCode)
	}
}

func TestIntegration_RequiresToken(t *testing.T) {
	router := newTestRouter(t)

	resp, err := router.App().Test(httptest.NewRequest("GET", "/api/servers", nil), -1)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if resp.StatusCode != 401 {
		t.Errorf("Status = %d, want 401", resp.StatusCode)
	}
}

func TestIntegration_ServerCRUD(t *testing.T) {
	router := newTestRouter(t)
	token := loginToken(t, router)

	payload, _ := json.Marshal(map[string]interface{}{
		"server_name":       "SQL-INT-01",
		"connection_string": "Server=sql-int-01;Database=master",
		"environment":       "Staging",
		"description":       "integration test server",
	})
	resp, err := router.App().Test(authedRequest("POST", "/api/servers", payload, token), -1)
	if err != nil {
		t.Fatalf("Create request failed: %v", err)
	}
	if resp.StatusCode != 201 {
		raw, _ := io.ReadAll(resp.Body)
		t.Fatalf("Create status = %d, body: %s", resp.StatusCode, raw)
	}

	var created map[string]interface{}
	raw, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(raw, &created); err != nil {
		t.Fatalf("Failed to parse create response: %v", err)
	}
	id := int(created["id"].(float64))
	if id <= 0 {
		t.Fatalf("Created server id = %d, want > 0", id)
	}

	resp, err = router.App().Test(authedRequest("GET", fmt.Sprintf("/api/servers/%d", id), nil, token), -1)
	if err != nil {
		t.Fatalf("Get request failed: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Errorf("Get status = %d, want 200", resp.StatusCode)
	}

	resp, err = router.App().Test(authedRequest("DELETE", fmt.Sprintf("/api/servers/%d", id), nil, token), -1)
	if err != nil {
		t.Fatalf("Delete request failed: %v", err)
	}
	if resp.StatusCode != 204 {
		t.Errorf("Delete status = %d, want 204", resp.StatusCode)
	}

	resp, err = router.App().Test(authedRequest("GET", fmt.Sprintf("/api/servers/%d", id), nil, token), -1)
	if err != nil {
		t.Fatalf("Get request failed: %v", err)
	}
	if resp.StatusCode != 404 {
		t.Errorf("Get after delete status = %d, want 404", resp.StatusCode)
	}
}

func TestIntegration_AlertDefinitionsSeeded(t *testing.T) {
	router := newTestRouter(t)
	token := loginToken(t, router)

	resp, err := router.App().Test(authedRequest("GET", "/api/alerts/definitions", nil, token), -1)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("Status = %d, want 200", resp.StatusCode)
	}

	var defs []map[string]interface{}
	raw, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(raw, &defs); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if len(defs) == 0 {
		t.Error("Expected seeded alert definitions, got none")
	}
}

func TestIntegration_CollectAndOverview(t *testing.T) {
	router := newTestRouter(t)
	token := loginToken(t, router)

	payload, _ := json.Marshal(map[string]interface{}{
		"server_name": "SQL-INT-COLLECT",
	})
	resp, err := router.App().Test(authedRequest("POST", "/api/servers", payload, token), -1)
	if err != nil {
		t.Fatalf("Create request failed: %v", err)
	}
	if resp.StatusCode != 201 {
		t.Fatalf("Create status = %d, want 201", resp.StatusCode)
	}

	resp, err = router.App().Test(authedRequest("POST", "/api/monitoring/collect", nil, token), -1)
	if err != nil {
		t.Fatalf("Collect request failed: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Errorf("Collect status = %d, want 200", resp.StatusCode)
	}

	resp, err = router.App().Test(authedRequest("GET", "/api/dashboard/overview", nil, token), -1)
	if err != nil {
		t.Fatalf("Overview request failed: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Errorf("Overview status = %d, want 200", resp.StatusCode)
	}

	var overview map[string]interface{}
	raw, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(raw, &overview); err != nil {
		t.Fatalf("Failed to parse overview: %v", err)
	}
	if _, ok := overview["total_servers"]; !ok {
		t.Error("Overview missing total_servers")
	}
}
