package docs

import (
	"github.com/go-swagno/swagno"
	"github.com/go-swagno/swagno/components/endpoint"
	"github.com/go-swagno/swagno/components/http/response"
	"github.com/go-swagno/swagno/components/mime"
	"github.com/go-swagno/swagno/components/parameter"
)

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Code    string `json:"code" example:"VALIDATION_FAILED"`
	Message string `json:"message" example:"Request validation failed"`
}

// EmptyResponse represents no content response (204)
type EmptyResponse struct{}

// LoginRequest represents the login payload
type LoginRequest struct {
	Username string `json:"username" example:"admin"`
	Password string `json:"password" example:"admin123"`
}

// UserData represents an operator account in responses
type UserData struct {
	UserID   int    `json:"user_id" example:"1"`
	Username string `json:"username" example:"admin"`
	Role     string `json:"role" example:"Admin"`
}

// MeResponse represents the authenticated caller identity
type MeResponse struct {
	ID       int    `json:"id" example:"1"`
	Username string `json:"username" example:"admin"`
	Role     string `json:"role" example:"Admin"`
}

// ConnectionTestResponse represents the outcome of a connectivity check
type ConnectionTestResponse struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message" example:"Connection successful"`
}

// LoginResponse represents a successful authentication
type LoginResponse struct {
	Token string   `json:"token" example:"eyJhbGciOiJIUzI1NiIs..."`
	User  UserData `json:"user"`
}

// ServerRequest represents a server create/update payload
type ServerRequest struct {
	ServerName        string `json:"server_name" example:"SQL-PROD-01"`
	ConnectionString  string `json:"connection_string" example:"Server=sql-prod-01;Database=master"`
	Environment       string `json:"environment" example:"Production"`
	IsActive          bool   `json:"is_active" example:"true"`
	MonitoringEnabled bool   `json:"monitoring_enabled" example:"true"`
	Description       string `json:"description" example:"Primary production instance"`
}

// ServerResponse represents a monitored server
type ServerResponse struct {
	ServerID          int    `json:"server_id" example:"1"`
	ServerName        string `json:"server_name" example:"SQL-PROD-01"`
	Environment       string `json:"environment" example:"Production"`
	IsActive          bool   `json:"is_active" example:"true"`
	MonitoringEnabled bool   `json:"monitoring_enabled" example:"true"`
	LastHeartbeat     string `json:"last_heartbeat,omitempty" example:"2026-03-10T12:00:00Z"`
	CreatedDate       string `json:"created_date" example:"2026-01-01T00:00:00Z"`
	Description       string `json:"description" example:"Primary production instance"`
}

// ActiveAlertResponse represents one active alert row
type ActiveAlertResponse struct {
	AlertID           int64  `json:"alert_id" example:"100"`
	ServerID          int    `json:"server_id" example:"1"`
	AlertDefinitionID int    `json:"alert_definition_id" example:"1"`
	AlertMessage      string `json:"alert_message" example:"High CPU usage: 92.5% (threshold: 80%)"`
	Severity          string `json:"severity" example:"Warning"`
	CurrentValue      string `json:"current_value" example:"92.5"`
	ThresholdValue    string `json:"threshold_value" example:"80"`
	FirstOccurrence   string `json:"first_occurrence" example:"2026-03-10T12:00:00Z"`
	LastOccurrence    string `json:"last_occurrence" example:"2026-03-10T12:05:00Z"`
	OccurrenceCount   int    `json:"occurrence_count" example:"2"`
	Status            string `json:"status" example:"ACTIVE"`
}

// AlertActionRequest represents an acknowledge/resolve payload
type AlertActionRequest struct {
	Notes string `json:"notes,omitempty" example:"Rebalanced workload"`
}

// SecurityEventResponse represents one security event
type SecurityEventResponse struct {
	SecurityEventID int64  `json:"security_event_id" example:"10"`
	ServerID        int    `json:"server_id" example:"1"`
	EventType       string `json:"event_type" example:"Failed Login"`
	Description     string `json:"description" example:"Login failed for user sa"`
	Severity        string `json:"severity" example:"High"`
	EventTime       string `json:"event_time" example:"2026-03-10T12:00:00Z"`
}

// SecurityEventsPage represents one page of security events
type SecurityEventsPage struct {
	Events   []SecurityEventResponse `json:"events"`
	Total    int                     `json:"total" example:"120"`
	Page     int                     `json:"page" example:"1"`
	PageSize int                     `json:"page_size" example:"50"`
}

// OverviewResponse represents the dashboard overview payload
type OverviewResponse struct {
	TotalServers        int            `json:"total_servers" example:"5"`
	ActiveServers       int            `json:"active_servers" example:"4"`
	CriticalAlerts      int            `json:"critical_alerts" example:"1"`
	WarningAlerts       int            `json:"warning_alerts" example:"3"`
	SecurityEventCounts map[string]int `json:"security_event_counts"`
}

// ServerStatusResponse represents one per-server health row
type ServerStatusResponse struct {
	ServerID     int    `json:"server_id" example:"1"`
	ServerName   string `json:"server_name" example:"SQL-PROD-01"`
	Environment  string `json:"environment" example:"Production"`
	IsOnline     bool   `json:"is_online" example:"true"`
	ActiveAlerts int    `json:"active_alerts" example:"2"`
}

// ServerMetricResponse represents one metric sample
type ServerMetricResponse struct {
	ServerMetricID int    `json:"server_metric_id" example:"1000"`
	ServerID       int    `json:"server_id" example:"1"`
	MetricType     string `json:"metric_type" example:"Performance"`
	MetricName     string `json:"metric_name" example:"CPU_Percent"`
	MetricValue    string `json:"metric_value" example:"42.5"`
	UnitOfMeasure  string `json:"unit_of_measure" example:"%"`
	CollectionTime string `json:"collection_time" example:"2026-03-10T12:00:00Z"`
}

// MessageResponse represents a simple confirmation message
type MessageResponse struct {
	Message string `json:"message" example:"collection pass completed"`
}

var (
	unauthorized = response.New(ErrorResponse{Code: "UNAUTHORIZED", Message: "Invalid or missing token"}, "401", "Unauthorized")
	badRequest   = response.New(ErrorResponse{Code: "BAD_REQUEST", Message: "Invalid request"}, "400", "Bad Request")
	internal     = response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error")
)

// NewSwagger creates and configures the Swagger documentation
func NewSwagger() *swagno.Swagger {
	sw := swagno.New(swagno.Config{
		Title:       "SQL Server Audit Dashboard API",
		Version:     "v1.0.0",
		Description: "Fleet monitoring and alerting engine for SQL Server instances: scheduled metric collection, rule evaluation and a stateful alert lifecycle",
		Host:        "localhost:7001",
		Path:        "/api",
	})

	endpoints := []*endpoint.EndPoint{
		// POST /api/auth/login
		endpoint.New(
			endpoint.POST,
			"/auth/login",
			endpoint.WithTags("Auth"),
			endpoint.WithSummary("Authenticate an operator"),
			endpoint.WithDescription("Verifies username/password and returns a signed JWT"),
			endpoint.WithBody(LoginRequest{}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(LoginResponse{}, "200", "Authenticated"),
			}),
			endpoint.WithErrors([]response.Response{
				badRequest,
				response.New(ErrorResponse{Code: "INVALID_CREDENTIALS", Message: "Invalid username or password"}, "401", "Unauthorized"),
				internal,
			}),
		),

		// POST /api/auth/refresh
		endpoint.New(
			endpoint.POST,
			"/auth/refresh",
			endpoint.WithTags("Auth"),
			endpoint.WithSummary("Refresh a token"),
			endpoint.WithDescription("Exchanges a still-valid JWT for a fresh one"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(LoginResponse{}, "200", "Refreshed"),
			}),
			endpoint.WithErrors([]response.Response{unauthorized, internal}),
			endpoint.WithSecurity([]map[string][]string{{"BearerAuth": {}}}),
		),

		// GET /api/auth/me
		endpoint.New(
			endpoint.GET,
			"/auth/me",
			endpoint.WithTags("Auth"),
			endpoint.WithSummary("Current operator identity"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(MeResponse{}, "200", "Caller identity"),
			}),
			endpoint.WithErrors([]response.Response{unauthorized, internal}),
			endpoint.WithSecurity([]map[string][]string{{"BearerAuth": {}}}),
		),

		// GET /api/servers
		endpoint.New(
			endpoint.GET,
			"/servers",
			endpoint.WithTags("Servers"),
			endpoint.WithSummary("List monitored servers"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New([]ServerResponse{}, "200", "Servers"),
			}),
			endpoint.WithErrors([]response.Response{unauthorized, internal}),
			endpoint.WithSecurity([]map[string][]string{{"BearerAuth": {}}}),
		),

		// POST /api/servers
		endpoint.New(
			endpoint.POST,
			"/servers",
			endpoint.WithTags("Servers"),
			endpoint.WithSummary("Register a monitored server"),
			endpoint.WithBody(ServerRequest{}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(ServerResponse{}, "201", "Server registered"),
			}),
			endpoint.WithErrors([]response.Response{
				badRequest,
				unauthorized,
				response.New(ErrorResponse{Code: "SERVER_ALREADY_EXISTS", Message: "Server already registered"}, "409", "Conflict"),
				response.New(ErrorResponse{Code: "VALIDATION_FAILED", Message: "Request validation failed"}, "422", "Unprocessable Entity"),
				internal,
			}),
			endpoint.WithSecurity([]map[string][]string{{"BearerAuth": {}}}),
		),

		// GET /api/servers/:id
		endpoint.New(
			endpoint.GET,
			"/servers/{id}",
			endpoint.WithTags("Servers"),
			endpoint.WithSummary("Get one monitored server"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.IntParam("id", parameter.Path, parameter.WithDescription("Server identifier")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(ServerResponse{}, "200", "Server"),
			}),
			endpoint.WithErrors([]response.Response{
				unauthorized,
				response.New(ErrorResponse{Code: "SERVER_NOT_FOUND", Message: "Server not found"}, "404", "Not Found"),
				internal,
			}),
			endpoint.WithSecurity([]map[string][]string{{"BearerAuth": {}}}),
		),

		// PUT /api/servers/:id
		endpoint.New(
			endpoint.PUT,
			"/servers/{id}",
			endpoint.WithTags("Servers"),
			endpoint.WithSummary("Update a monitored server"),
			endpoint.WithBody(ServerRequest{}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.IntParam("id", parameter.Path, parameter.WithDescription("Server identifier")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(ServerResponse{}, "200", "Server updated"),
			}),
			endpoint.WithErrors([]response.Response{
				badRequest,
				unauthorized,
				response.New(ErrorResponse{Code: "SERVER_NOT_FOUND", Message: "Server not found"}, "404", "Not Found"),
				internal,
			}),
			endpoint.WithSecurity([]map[string][]string{{"BearerAuth": {}}}),
		),

		// DELETE /api/servers/:id
		endpoint.New(
			endpoint.DELETE,
			"/servers/{id}",
			endpoint.WithTags("Servers"),
			endpoint.WithSummary("Delete a monitored server"),
			endpoint.WithDescription("Deletes the server; its metrics, alerts and security events cascade"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.IntParam("id", parameter.Path, parameter.WithDescription("Server identifier")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(EmptyResponse{}, "204", "Server deleted"),
			}),
			endpoint.WithErrors([]response.Response{
				unauthorized,
				response.New(ErrorResponse{Code: "SERVER_NOT_FOUND", Message: "Server not found"}, "404", "Not Found"),
				internal,
			}),
			endpoint.WithSecurity([]map[string][]string{{"BearerAuth": {}}}),
		),

		// POST /api/servers/:id/test
		endpoint.New(
			endpoint.POST,
			"/servers/{id}/test",
			endpoint.WithTags("Servers"),
			endpoint.WithSummary("Test connectivity to a monitored server"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.IntParam("id", parameter.Path, parameter.WithDescription("Server identifier")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(ConnectionTestResponse{}, "200", "Test result"),
			}),
			endpoint.WithErrors([]response.Response{
				unauthorized,
				response.New(ErrorResponse{Code: "SERVER_NOT_FOUND", Message: "Server not found"}, "404", "Not Found"),
				internal,
			}),
			endpoint.WithSecurity([]map[string][]string{{"BearerAuth": {}}}),
		),

		// GET /api/alerts/active
		endpoint.New(
			endpoint.GET,
			"/alerts/active",
			endpoint.WithTags("Alerts"),
			endpoint.WithSummary("List active alerts"),
			endpoint.WithDescription("Returns unresolved alerts (ACTIVE and ACKNOWLEDGED), most recent occurrence first"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.IntParam("server_id", parameter.Query, parameter.WithDescription("Limit to one server")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New([]ActiveAlertResponse{}, "200", "Active alerts"),
			}),
			endpoint.WithErrors([]response.Response{unauthorized, internal}),
			endpoint.WithSecurity([]map[string][]string{{"BearerAuth": {}}}),
		),

		// GET /api/alerts/definitions
		endpoint.New(
			endpoint.GET,
			"/alerts/definitions",
			endpoint.WithTags("Alerts"),
			endpoint.WithSummary("List enabled alert definitions"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New([]ActiveAlertResponse{}, "200", "Alert definitions"),
			}),
			endpoint.WithErrors([]response.Response{unauthorized, internal}),
			endpoint.WithSecurity([]map[string][]string{{"BearerAuth": {}}}),
		),

		// POST /api/alerts/:id/acknowledge
		endpoint.New(
			endpoint.POST,
			"/alerts/{id}/acknowledge",
			endpoint.WithTags("Alerts"),
			endpoint.WithSummary("Acknowledge an alert"),
			endpoint.WithDescription("Marks the alert ACKNOWLEDGED with the caller's username; breaches keep accumulating on the row"),
			endpoint.WithBody(AlertActionRequest{}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.IntParam("id", parameter.Path, parameter.WithDescription("Alert identifier")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(ActiveAlertResponse{}, "200", "Alert acknowledged"),
			}),
			endpoint.WithErrors([]response.Response{
				badRequest,
				unauthorized,
				response.New(ErrorResponse{Code: "ALERT_NOT_FOUND", Message: "Alert not found"}, "404", "Not Found"),
				response.New(ErrorResponse{Code: "ALERT_RESOLVED", Message: "Alert is already resolved"}, "409", "Conflict"),
				internal,
			}),
			endpoint.WithSecurity([]map[string][]string{{"BearerAuth": {}}}),
		),

		// POST /api/alerts/:id/resolve
		endpoint.New(
			endpoint.POST,
			"/alerts/{id}/resolve",
			endpoint.WithTags("Alerts"),
			endpoint.WithSummary("Resolve an alert"),
			endpoint.WithDescription("Marks the alert RESOLVED; the next breach for the pair opens a fresh row"),
			endpoint.WithBody(AlertActionRequest{}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.IntParam("id", parameter.Path, parameter.WithDescription("Alert identifier")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(ActiveAlertResponse{}, "200", "Alert resolved"),
			}),
			endpoint.WithErrors([]response.Response{
				badRequest,
				unauthorized,
				response.New(ErrorResponse{Code: "ALERT_NOT_FOUND", Message: "Alert not found"}, "404", "Not Found"),
				internal,
			}),
			endpoint.WithSecurity([]map[string][]string{{"BearerAuth": {}}}),
		),

		// GET /api/security/events
		endpoint.New(
			endpoint.GET,
			"/security/events",
			endpoint.WithTags("Security"),
			endpoint.WithSummary("List security events"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.IntParam("server_id", parameter.Query, parameter.WithDescription("Limit to one server")),
				parameter.StrParam("severity", parameter.Query, parameter.WithDescription("Filter by severity")),
				parameter.IntParam("page", parameter.Query, parameter.WithDescription("Page number (default 1)")),
				parameter.IntParam("page_size", parameter.Query, parameter.WithDescription("Page size (default 50, max 200)")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(SecurityEventsPage{}, "200", "Security events"),
			}),
			endpoint.WithErrors([]response.Response{unauthorized, internal}),
			endpoint.WithSecurity([]map[string][]string{{"BearerAuth": {}}}),
		),

		// GET /api/security/events/recent
		endpoint.New(
			endpoint.GET,
			"/security/events/recent",
			endpoint.WithTags("Security"),
			endpoint.WithSummary("List recent security events"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.IntParam("server_id", parameter.Query, parameter.WithDescription("Limit to one server")),
				parameter.IntParam("hours", parameter.Query, parameter.WithDescription("Trailing window in hours (default 24)")),
				parameter.IntParam("limit", parameter.Query, parameter.WithDescription("Maximum rows (default 20)")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New([]SecurityEventResponse{}, "200", "Recent events"),
			}),
			endpoint.WithErrors([]response.Response{unauthorized, internal}),
			endpoint.WithSecurity([]map[string][]string{{"BearerAuth": {}}}),
		),

		// GET /api/security/events/high-risk
		endpoint.New(
			endpoint.GET,
			"/security/events/high-risk",
			endpoint.WithTags("Security"),
			endpoint.WithSummary("List high-risk security events"),
			endpoint.WithDescription("Returns recent Critical and High severity events"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New([]SecurityEventResponse{}, "200", "High-risk events"),
			}),
			endpoint.WithErrors([]response.Response{unauthorized, internal}),
			endpoint.WithSecurity([]map[string][]string{{"BearerAuth": {}}}),
		),

		// GET /api/dashboard/overview
		endpoint.New(
			endpoint.GET,
			"/dashboard/overview",
			endpoint.WithTags("Dashboard"),
			endpoint.WithSummary("Fleet overview"),
			endpoint.WithDescription("Aggregated server, alert, metric and security panels; failed panels come back empty"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.IntParam("server_id", parameter.Query, parameter.WithDescription("Limit to one server")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(OverviewResponse{}, "200", "Overview"),
			}),
			endpoint.WithErrors([]response.Response{unauthorized, internal}),
			endpoint.WithSecurity([]map[string][]string{{"BearerAuth": {}}}),
		),

		// GET /api/dashboard/servers
		endpoint.New(
			endpoint.GET,
			"/dashboard/servers",
			endpoint.WithTags("Dashboard"),
			endpoint.WithSummary("Per-server health"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New([]ServerStatusResponse{}, "200", "Server statuses"),
			}),
			endpoint.WithErrors([]response.Response{unauthorized, internal}),
			endpoint.WithSecurity([]map[string][]string{{"BearerAuth": {}}}),
		),

		// GET /api/metrics/servers/:id
		endpoint.New(
			endpoint.GET,
			"/metrics/servers/{id}",
			endpoint.WithTags("Metrics"),
			endpoint.WithSummary("Server metric history"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.IntParam("id", parameter.Path, parameter.WithDescription("Server identifier")),
				parameter.StrParam("from", parameter.Query, parameter.WithDescription("RFC3339 lower bound")),
				parameter.StrParam("to", parameter.Query, parameter.WithDescription("RFC3339 upper bound")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New([]ServerMetricResponse{}, "200", "Metric samples"),
			}),
			endpoint.WithErrors([]response.Response{badRequest, unauthorized, internal}),
			endpoint.WithSecurity([]map[string][]string{{"BearerAuth": {}}}),
		),

		// POST /api/monitoring/collect
		endpoint.New(
			endpoint.POST,
			"/monitoring/collect",
			endpoint.WithTags("Monitoring"),
			endpoint.WithSummary("Run a collection pass now"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(MessageResponse{}, "200", "Pass completed"),
			}),
			endpoint.WithErrors([]response.Response{unauthorized, internal}),
			endpoint.WithSecurity([]map[string][]string{{"BearerAuth": {}}}),
		),

		// POST /api/monitoring/evaluate
		endpoint.New(
			endpoint.POST,
			"/monitoring/evaluate",
			endpoint.WithTags("Monitoring"),
			endpoint.WithSummary("Run an evaluation pass now"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(MessageResponse{}, "200", "Pass completed"),
			}),
			endpoint.WithErrors([]response.Response{unauthorized, internal}),
			endpoint.WithSecurity([]map[string][]string{{"BearerAuth": {}}}),
		),
	}

	sw.AddEndpoints(endpoints)

	return sw
}
