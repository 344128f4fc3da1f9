package notify

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kumarsparkz/sql-server-audit-dashboard-api/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSign(t *testing.T) {
	tests := []struct {
		name    string
		secret  string
		payload []byte
	}{
		{
			name:    "simple payload",
			secret:  "my-secret-key",
			payload: []byte(`{"type":"alert.created"}`),
		},
		{
			name:    "empty payload",
			secret:  "my-secret-key",
			payload: []byte{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			signature := Sign(tt.secret, tt.payload)
			assert.Contains(t, signature, "sha256=")
			assert.True(t, Verify(tt.secret, tt.payload, signature))
		})
	}
}

func TestVerify_Rejects(t *testing.T) {
	secret := "test-secret"
	payload := []byte(`{"test":"data"}`)
	valid := Sign(secret, payload)

	assert.False(t, Verify("wrong-secret", payload, valid))
	assert.False(t, Verify(secret, []byte(`tampered`), valid))
	assert.False(t, Verify(secret, payload, "sha256=deadbeef"))
}

func TestNotifier_Send(t *testing.T) {
	var (
		gotSignature string
		gotEvent     string
		gotBody      []byte
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSignature = r.Header.Get("X-Audit-Signature")
		gotEvent = r.Header.Get("X-Audit-Event")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	notifier := NewNotifier(server.URL, "test-secret", testLogger())

	alert := &domain.ActiveAlert{
		ID:           1,
		ServerID:     2,
		AlertMessage: "High CPU usage: 92.5% (threshold: 80%)",
		Severity:     domain.SeverityWarning,
		CurrentValue: decimal.RequireFromString("92.5"),
		Status:       domain.AlertStatusActive,
	}
	require.NoError(t, notifier.Send(context.Background(), "alert.created", alert))

	assert.Equal(t, "alert.created", gotEvent)
	assert.True(t, Verify("test-secret", gotBody, gotSignature))

	var payload Payload
	require.NoError(t, json.Unmarshal(gotBody, &payload))
	assert.Equal(t, "alert.created", payload.Type)
	assert.False(t, payload.Timestamp.IsZero())
}

func TestNotifier_Send_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	notifier := NewNotifier(server.URL, "test-secret", testLogger())
	err := notifier.Send(context.Background(), "alert.created", map[string]int{"alert_id": 1})
	assert.ErrorContains(t, err, "HTTP 500")
}

func TestNotifier_Disabled(t *testing.T) {
	notifier := NewNotifier("", "secret", testLogger())
	assert.False(t, notifier.Enabled())

	// No panic, no delivery attempt.
	notifier.AlertCreated(&domain.ActiveAlert{ID: 1})
	notifier.AlertUpdated(&domain.ActiveAlert{ID: 1})
}
