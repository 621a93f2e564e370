// Package notify observes pipeline events and reports them: structured log
// lines always, an optional webhook POST when one is configured.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/tier3tech/hectic-ai-support/internal/config"
	"github.com/tier3tech/hectic-ai-support/internal/events"
)

// Notifier handles emitting notifications for pipeline events.
type Notifier struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
	httpCli    *http.Client
}

// NewNotifier creates the notifier.
func NewNotifier(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *Notifier {
	return &Notifier{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
		httpCli:    &http.Client{Timeout: 10 * time.Second},
	}
}

// RegisterHandlers subscribes to pipeline events.
func (n *Notifier) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTicketIngested, n.handleTicketIngested)
	n.dispatcher.Subscribe(events.EventTicketTriaged, n.handleTicketTriaged)
	n.dispatcher.Subscribe(events.EventTriageFailed, n.handleTriageFailed)
}

func (n *Notifier) handleTicketIngested(ctx context.Context, event events.Event) error {
	n.logger.Info("TicketIngested", zap.Int("ticket_id", event.TicketID), zap.Any("payload", event.Payload))
	return nil
}

func (n *Notifier) handleTicketTriaged(ctx context.Context, event events.Event) error {
	n.logger.Info("TicketTriaged", zap.Int("ticket_id", event.TicketID), zap.Any("payload", event.Payload))
	n.sendWebhook(ctx, event)
	return nil
}

func (n *Notifier) handleTriageFailed(ctx context.Context, event events.Event) error {
	n.logger.Warn("TriageFailed", zap.Int("ticket_id", event.TicketID), zap.Any("payload", event.Payload))
	n.sendWebhook(ctx, event)
	return nil
}

func (n *Notifier) sendWebhook(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}

	body, err := json.Marshal(event)
	if err != nil {
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.cfg.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpCli.Do(req)
	if err != nil {
		n.logger.Debug("webhook notification failed", zap.Error(err))
		return
	}
	defer resp.Body.Close()

	n.logger.Debug("webhook notification sent",
		zap.String("url", n.cfg.WebhookURL),
		zap.Int("status", resp.StatusCode),
		zap.String("event_type", string(event.Type)))
}
