package handler

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/kumarsparkz/sql-server-audit-dashboard-api/internal/domain"
)

// ServerStore interface for monitored-server management
type ServerStore interface {
	GetByID(ctx context.Context, id int) (*domain.MonitoredServer, error)
	List(ctx context.Context) ([]*domain.MonitoredServer, error)
	Create(ctx context.Context, s *domain.MonitoredServer) error
	Update(ctx context.Context, s *domain.MonitoredServer) error
	Delete(ctx context.Context, id int) error
}

// ConnectionTester checks reachability of a monitored instance
type ConnectionTester interface {
	TestConnection(ctx context.Context, server *domain.MonitoredServer) error
}

// ServersHandler handles monitored-server CRUD
type ServersHandler struct {
	servers ServerStore
	tester  ConnectionTester
	logger  *slog.Logger
}

func NewServersHandler(servers ServerStore, tester ConnectionTester, logger *slog.Logger) *ServersHandler {
	return &ServersHandler{servers: servers, tester: tester, logger: logger}
}

type ServerRequest struct {
	ServerName        string `json:"server_name"`
	ConnectionString  string `json:"connection_string"`
	Environment       string `json:"environment"`
	IsActive          *bool  `json:"is_active,omitempty"`
	MonitoringEnabled *bool  `json:"monitoring_enabled,omitempty"`
	Description       string `json:"description"`
}

func (r *ServerRequest) validate() error {
	r.ServerName = strings.TrimSpace(r.ServerName)
	if r.ServerName == "" {
		return domain.ErrValidationFailed.WithError(errors.New("server_name is required"))
	}
	if r.Environment == "" {
		r.Environment = "Development"
	}
	return nil
}

// List GET /api/servers
func (h *ServersHandler) List(c *fiber.Ctx) error {
	servers, err := h.servers.List(c.Context())
	if err != nil {
		return err
	}
	if servers == nil {
		servers = []*domain.MonitoredServer{}
	}

	return c.JSON(servers)
}

// Get GET /api/servers/:id
func (h *ServersHandler) Get(c *fiber.Ctx) error {
	id, err := serverIDParam(c)
	if err != nil {
		return err
	}

	server, err := h.servers.GetByID(c.Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(server)
}

// Create POST /api/servers
func (h *ServersHandler) Create(c *fiber.Ctx) error {
	var req ServerRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrBadRequest.WithError(err)
	}
	if err := req.validate(); err != nil {
		return err
	}

	now := time.Now()
	server := &domain.MonitoredServer{
		Name:              req.ServerName,
		ConnectionString:  req.ConnectionString,
		Environment:       req.Environment,
		IsActive:          true,
		MonitoringEnabled: true,
		LastHeartbeat:     &now,
		Description:       req.Description,
	}
	if req.IsActive != nil {
		server.IsActive = *req.IsActive
	}
	if req.MonitoringEnabled != nil {
		server.MonitoringEnabled = *req.MonitoringEnabled
	}

	if err := h.servers.Create(c.Context(), server); err != nil {
		return err
	}

	h.logger.Info("server registered", "server_id", server.ID, "name", server.Name)

	return c.Status(fiber.StatusCreated).JSON(server)
}

// Update PUT /api/servers/:id
func (h *ServersHandler) Update(c *fiber.Ctx) error {
	id, err := serverIDParam(c)
	if err != nil {
		return err
	}

	var req ServerRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrBadRequest.WithError(err)
	}
	if err := req.validate(); err != nil {
		return err
	}

	server, err := h.servers.GetByID(c.Context(), id)
	if err != nil {
		return err
	}

	server.Name = req.ServerName
	if req.ConnectionString != "" {
		server.ConnectionString = req.ConnectionString
	}
	server.Environment = req.Environment
	server.Description = req.Description
	if req.IsActive != nil {
		server.IsActive = *req.IsActive
	}
	if req.MonitoringEnabled != nil {
		server.MonitoringEnabled = *req.MonitoringEnabled
	}

	if err := h.servers.Update(c.Context(), server); err != nil {
		return err
	}

	return c.JSON(server)
}

// Delete DELETE /api/servers/:id
func (h *ServersHandler) Delete(c *fiber.Ctx) error {
	id, err := serverIDParam(c)
	if err != nil {
		return err
	}

	if err := h.servers.Delete(c.Context(), id); err != nil {
		return err
	}

	h.logger.Info("server deleted", "server_id", id)

	return c.SendStatus(fiber.StatusNoContent)
}

// TestConnection POST /api/servers/:id/test
func (h *ServersHandler) TestConnection(c *fiber.Ctx) error {
	id, err := serverIDParam(c)
	if err != nil {
		return err
	}

	server, err := h.servers.GetByID(c.Context(), id)
	if err != nil {
		return err
	}

	if err := h.tester.TestConnection(c.Context(), server); err != nil {
		h.logger.Warn("connection test failed", "server_id", id, "error", err)
		return c.JSON(fiber.Map{"success": false, "message": err.Error()})
	}

	return c.JSON(fiber.Map{"success": true, "message": "Connection successful"})
}

func serverIDParam(c *fiber.Ctx) (int, error) {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil || id <= 0 {
		return 0, domain.ErrBadRequest
	}
	return id, nil
}
