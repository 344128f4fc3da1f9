package domain

import "time"

// MonitoredServer is a SQL Server instance under observation. Metric,
// alert and security-event rows reference it by id; deleting a server
// cascades all of them at the storage layer.
type MonitoredServer struct {
	ID                int        `json:"server_id"`
	Name              string     `json:"server_name"`
	ConnectionString  string     `json:"-"`
	Environment       string     `json:"environment"`
	IsActive          bool       `json:"is_active"`
	MonitoringEnabled bool       `json:"monitoring_enabled"`
	LastHeartbeat     *time.Time `json:"last_heartbeat,omitempty"`
	CreatedDate       time.Time  `json:"created_date"`
	Description       string     `json:"description"`
}

// HeartbeatFresh reports whether the server checked in within the given
// window. A nil heartbeat is always stale.
func (s *MonitoredServer) HeartbeatFresh(now time.Time, within time.Duration) bool {
	if s.LastHeartbeat == nil {
		return false
	}
	return s.LastHeartbeat.After(now.Add(-within))
}
