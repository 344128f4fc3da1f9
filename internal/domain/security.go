package domain

import "time"

// SecurityEvent is an audit-relevant occurrence captured on a server
// (failed login, permission change, ...).
type SecurityEvent struct {
	ID          int64     `json:"security_event_id"`
	ServerID    int       `json:"server_id"`
	ServerName  string    `json:"server_name,omitempty"`
	EventType   string    `json:"event_type"`
	Description string    `json:"description"`
	UserName    *string   `json:"user_name,omitempty"`
	Details     *string   `json:"details,omitempty"`
	Severity    string    `json:"severity"`
	EventTime   time.Time `json:"event_time"`
}

// SecurityEventSummary groups events by type and severity for dashboards.
type SecurityEventSummary struct {
	EventType   string    `json:"event_type"`
	Description string    `json:"description"`
	UserName    string    `json:"user_name"`
	Severity    string    `json:"severity"`
	EventTime   time.Time `json:"event_time"`
	ServerName  string    `json:"server_name"`
	Count       int       `json:"count"`
}
