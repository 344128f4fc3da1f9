package ws

import (
	"time"

	"github.com/kumarsparkz/sql-server-audit-dashboard-api/internal/domain"
)

// Publisher bridges the background workers onto the hub. Broadcast is
// non-blocking, so workers never stall on slow websocket clients.
type Publisher struct {
	hub *Hub
}

func NewPublisher(hub *Hub) *Publisher {
	return &Publisher{hub: hub}
}

func (p *Publisher) AlertCreated(a *domain.ActiveAlert) {
	p.hub.Broadcast(EventAlertCreated, a)
}

func (p *Publisher) AlertUpdated(a *domain.ActiveAlert) {
	p.hub.Broadcast(EventAlertUpdated, a)
}

func (p *Publisher) MetricsCollected(serverID int, at time.Time) {
	p.hub.Broadcast(EventMetricsCollected, map[string]interface{}{
		"server_id":    serverID,
		"collected_at": at,
	})
}
