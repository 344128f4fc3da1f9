package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/kumarsparkz/sql-server-audit-dashboard-api/internal/api/middleware"
	"github.com/kumarsparkz/sql-server-audit-dashboard-api/internal/domain"
)

// MockAlertQueries is a mock implementation of AlertQueries
type MockAlertQueries struct {
	mock.Mock
}

func (m *MockAlertQueries) GetActiveAlerts(ctx context.Context, serverID *int) []*domain.ActiveAlert {
	args := m.Called(ctx, serverID)
	return args.Get(0).([]*domain.ActiveAlert)
}

func (m *MockAlertQueries) GetAlertDefinitions(ctx context.Context) []*domain.AlertDefinition {
	args := m.Called(ctx)
	return args.Get(0).([]*domain.AlertDefinition)
}

// MockAlertLifecycle is a mock implementation of AlertLifecycle
type MockAlertLifecycle struct {
	mock.Mock
}

func (m *MockAlertLifecycle) Acknowledge(ctx context.Context, alertID int64, by string, notes *string) (*domain.ActiveAlert, error) {
	args := m.Called(ctx, alertID, by, notes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ActiveAlert), args.Error(1)
}

func (m *MockAlertLifecycle) Resolve(ctx context.Context, alertID int64, by string, notes *string) (*domain.ActiveAlert, error) {
	args := m.Called(ctx, alertID, by, notes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ActiveAlert), args.Error(1)
}

// testLogger returns a logger that discards all output
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newAlertsApp mounts the alert routes behind an error handler and a
// stub auth middleware that injects the given username.
func newAlertsApp(queries *MockAlertQueries, lifecycle *MockAlertLifecycle, username string) *fiber.App {
	app := fiber.New()

	app.Use(func(c *fiber.Ctx) error {
		err := c.Next()
		if err != nil {
			if appErr, ok := err.(*domain.AppError); ok {
				return c.Status(appErr.StatusCode).JSON(appErr)
			}
			return c.Status(500).SendString(err.Error())
		}
		return nil
	})

	if username != "" {
		app.Use(func(c *fiber.Ctx) error {
			c.Locals(middleware.LocalUsername, username)
			return c.Next()
		})
	}

	h := NewAlertsHandler(queries, lifecycle, testLogger())
	app.Get("/alerts/active", h.List)
	app.Get("/alerts/definitions", h.Definitions)
	app.Post("/alerts/:id/acknowledge", h.Acknowledge)
	app.Post("/alerts/:id/resolve", h.Resolve)

	return app
}

func TestAlertsHandler_List(t *testing.T) {
	queries := &MockAlertQueries{}
	queries.On("GetActiveAlerts", mock.Anything, (*int)(nil)).Return([]*domain.ActiveAlert{
		{ID: 1, ServerID: 2, Status: domain.AlertStatusActive},
	})

	app := newAlertsApp(queries, &MockAlertLifecycle{}, "admin")

	resp, err := app.Test(httptest.NewRequest("GET", "/alerts/active", nil))
	assert.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var alerts []*domain.ActiveAlert
	body, _ := io.ReadAll(resp.Body)
	assert.NoError(t, json.Unmarshal(body, &alerts))
	assert.Len(t, alerts, 1)

	queries.AssertExpectations(t)
}

func TestAlertsHandler_List_ServerFilter(t *testing.T) {
	serverID := 3
	queries := &MockAlertQueries{}
	queries.On("GetActiveAlerts", mock.Anything, &serverID).Return([]*domain.ActiveAlert{})

	app := newAlertsApp(queries, &MockAlertLifecycle{}, "admin")

	resp, err := app.Test(httptest.NewRequest("GET", "/alerts/active?server_id=3", nil))
	assert.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	queries.AssertExpectations(t)
}

func TestAlertsHandler_List_BadServerID(t *testing.T) {
	app := newAlertsApp(&MockAlertQueries{}, &MockAlertLifecycle{}, "admin")

	resp, err := app.Test(httptest.NewRequest("GET", "/alerts/active?server_id=abc", nil))
	assert.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestAlertsHandler_Acknowledge(t *testing.T) {
	notes := "Checking with DBA team"
	acked := &domain.ActiveAlert{
		ID:              100,
		ServerID:        1,
		Status:          domain.AlertStatusAcknowledged,
		OccurrenceCount: 2,
		CurrentValue:    decimal.RequireFromString("92.5"),
	}

	lifecycle := &MockAlertLifecycle{}
	lifecycle.On("Acknowledge", mock.Anything, int64(100), "admin", &notes).Return(acked, nil)

	app := newAlertsApp(&MockAlertQueries{}, lifecycle, "admin")

	payload, _ := json.Marshal(map[string]string{"notes": notes})
	req := httptest.NewRequest("POST", "/alerts/100/acknowledge", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var got domain.ActiveAlert
	body, _ := io.ReadAll(resp.Body)
	assert.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, domain.AlertStatusAcknowledged, got.Status)

	lifecycle.AssertExpectations(t)
}

func TestAlertsHandler_Acknowledge_Errors(t *testing.T) {
	tests := []struct {
		name           string
		url            string
		username       string
		serviceErr     error
		expectedStatus int
	}{
		{
			name:           "unknown alert",
			url:            "/alerts/999/acknowledge",
			username:       "admin",
			serviceErr:     domain.ErrAlertNotFound,
			expectedStatus: 404,
		},
		{
			name:           "already resolved",
			url:            "/alerts/100/acknowledge",
			username:       "admin",
			serviceErr:     domain.ErrAlertResolved,
			expectedStatus: 409,
		},
		{
			name:           "bad alert id",
			url:            "/alerts/abc/acknowledge",
			username:       "admin",
			expectedStatus: 400,
		},
		{
			name:           "no authenticated user",
			url:            "/alerts/100/acknowledge",
			username:       "",
			expectedStatus: 401,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lifecycle := &MockAlertLifecycle{}
			if tt.serviceErr != nil {
				lifecycle.On("Acknowledge", mock.Anything, mock.Anything, tt.username, (*string)(nil)).Return(nil, tt.serviceErr)
			}

			app := newAlertsApp(&MockAlertQueries{}, lifecycle, tt.username)

			resp, err := app.Test(httptest.NewRequest("POST", tt.url, nil))
			assert.NoError(t, err)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
		})
	}
}

func TestAlertsHandler_Resolve(t *testing.T) {
	resolved := &domain.ActiveAlert{
		ID:     100,
		Status: domain.AlertStatusResolved,
	}

	lifecycle := &MockAlertLifecycle{}
	lifecycle.On("Resolve", mock.Anything, int64(100), "admin", (*string)(nil)).Return(resolved, nil)

	app := newAlertsApp(&MockAlertQueries{}, lifecycle, "admin")

	resp, err := app.Test(httptest.NewRequest("POST", "/alerts/100/resolve", nil))
	assert.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var got domain.ActiveAlert
	body, _ := io.ReadAll(resp.Body)
	assert.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, domain.AlertStatusResolved, got.Status)

	lifecycle.AssertExpectations(t)
}

func TestAlertsHandler_Definitions(t *testing.T) {
	queries := &MockAlertQueries{}
	queries.On("GetAlertDefinitions", mock.Anything).Return([]*domain.AlertDefinition{
		{ID: 1, Name: "High CPU Usage", AlertType: "PERFORMANCE"},
	})

	app := newAlertsApp(queries, &MockAlertLifecycle{}, "admin")

	resp, err := app.Test(httptest.NewRequest("GET", "/alerts/definitions", nil))
	assert.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var defs []*domain.AlertDefinition
	body, _ := io.ReadAll(resp.Body)
	assert.NoError(t, json.Unmarshal(body, &defs))
	assert.Len(t, defs, 1)
}
