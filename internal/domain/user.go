package domain

import "time"

// DashboardUser is an operator account for the dashboard API.
type DashboardUser struct {
	ID            int        `json:"user_id"`
	Username      string     `json:"username"`
	PasswordHash  string     `json:"-"`
	Email         *string    `json:"email,omitempty"`
	Role          string     `json:"role"`
	IsActive      bool       `json:"is_active"`
	CreatedDate   time.Time  `json:"created_date"`
	LastLoginDate *time.Time `json:"last_login_date,omitempty"`
}
