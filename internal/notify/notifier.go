package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/kumarsparkz/sql-server-audit-dashboard-api/internal/domain"
)

const deliverTimeout = 10 * time.Second

// Payload is the wire shape posted to the configured endpoint.
type Payload struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

// Notifier posts alert lifecycle events to a single operator-configured
// webhook URL. Delivery is fire-and-forget: a failed POST is logged and
// dropped, never retried, and never blocks the alerting pipeline.
type Notifier struct {
	url    string
	secret string
	client *http.Client
	logger *slog.Logger
}

func NewNotifier(url, secret string, logger *slog.Logger) *Notifier {
	return &Notifier{
		url:    url,
		secret: secret,
		client: &http.Client{
			Timeout: deliverTimeout,
		},
		logger: logger,
	}
}

// Enabled reports whether a webhook URL is configured.
func (n *Notifier) Enabled() bool {
	return n.url != ""
}

func (n *Notifier) AlertCreated(a *domain.ActiveAlert) {
	n.dispatch("alert.created", a)
}

func (n *Notifier) AlertUpdated(a *domain.ActiveAlert) {
	n.dispatch("alert.updated", a)
}

func (n *Notifier) dispatch(eventType string, data interface{}) {
	if !n.Enabled() {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), deliverTimeout)
		defer cancel()

		if err := n.Send(ctx, eventType, data); err != nil {
			n.logger.Error("webhook delivery failed", "event", eventType, "error", err)
		}
	}()
}

// Send posts one signed event and waits for the response.
func (n *Notifier) Send(ctx context.Context, eventType string, data interface{}) error {
	payload, err := json.Marshal(Payload{
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now(),
	})
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Audit-Signature", Sign(n.secret, payload))
	req.Header.Set("X-Audit-Event", eventType)
	req.Header.Set("User-Agent", "AuditDashboard-Webhook/1.0")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook returned HTTP %d", resp.StatusCode)
	}

	return nil
}
