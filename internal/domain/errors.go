package domain

import (
	"fmt"
)

type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Err        error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func (e *AppError) WithError(err error) *AppError {
	return &AppError{
		Code:       e.Code,
		Message:    e.Message,
		StatusCode: e.StatusCode,
		Err:        err,
	}
}

// Pre-defined errors
var (
	ErrInternal = &AppError{
		Code:       "INTERNAL_ERROR",
		Message:    "An unexpected error occurred",
		StatusCode: 500,
	}

	ErrBadRequest = &AppError{
		Code:       "BAD_REQUEST",
		Message:    "Invalid request",
		StatusCode: 400,
	}

	ErrUnauthorized = &AppError{
		Code:       "UNAUTHORIZED",
		Message:    "Invalid or missing credentials",
		StatusCode: 401,
	}

	ErrForbidden = &AppError{
		Code:       "FORBIDDEN",
		Message:    "Access denied",
		StatusCode: 403,
	}

	ErrNotFound = &AppError{
		Code:       "NOT_FOUND",
		Message:    "Resource not found",
		StatusCode: 404,
	}

	ErrAlertNotFound = &AppError{
		Code:       "ALERT_NOT_FOUND",
		Message:    "Alert not found",
		StatusCode: 404,
	}

	// ErrAlertResolved rejects state transitions out of the terminal
	// RESOLVED status.
	ErrAlertResolved = &AppError{
		Code:       "ALERT_RESOLVED",
		Message:    "Alert is already resolved",
		StatusCode: 409,
	}

	ErrServerNotFound = &AppError{
		Code:       "SERVER_NOT_FOUND",
		Message:    "Monitored server not found",
		StatusCode: 404,
	}

	ErrUserNotFound = &AppError{
		Code:       "USER_NOT_FOUND",
		Message:    "User not found",
		StatusCode: 404,
	}

	ErrInvalidCredentials = &AppError{
		Code:       "INVALID_CREDENTIALS",
		Message:    "Invalid username or password",
		StatusCode: 401,
	}

	ErrUserInactive = &AppError{
		Code:       "USER_INACTIVE",
		Message:    "User account is inactive",
		StatusCode: 403,
	}

	ErrServerExists = &AppError{
		Code:       "SERVER_ALREADY_EXISTS",
		Message:    "A monitored server with this name already exists",
		StatusCode: 409,
	}

	// ErrServerUnreachable marks a failed collection attempt. Transient:
	// the heartbeat stays stale and the next tick retries.
	ErrServerUnreachable = &AppError{
		Code:       "SERVER_UNREACHABLE",
		Message:    "Could not connect to the monitored server",
		StatusCode: 502,
	}

	ErrValidationFailed = &AppError{
		Code:       "VALIDATION_FAILED",
		Message:    "Request validation failed",
		StatusCode: 422,
	}
)
