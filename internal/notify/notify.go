// Package notify announces catalog activity on an ntfy topic.
package notify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dgnsrekt/catalog-stream/internal/broadcast"
	"github.com/dgnsrekt/catalog-stream/internal/config"
	"github.com/dgnsrekt/catalog-stream/internal/importer"
	"github.com/dgnsrekt/catalog-stream/internal/store"
)

// Notifier is the interface for sending catalog notifications.
type Notifier interface {
	RecordCreated(ctx context.Context, rec store.Record) error
	ImportFinished(ctx context.Context, result *importer.BatchResult, duration time.Duration, err error) error
}

// Client implements the ntfy notification client.
type Client struct {
	httpClient *http.Client
	config     config.NotifyConfig
	logger     *zap.Logger
}

// NewClient creates a new ntfy client.
func NewClient(cfg config.NotifyConfig, logger *zap.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		config: cfg,
		logger: logger,
	}
}

// RecordCreated announces a new record.
func (c *Client) RecordCreated(ctx context.Context, rec store.Record) error {
	title := fmt.Sprintf("New record: %s", rec.Name)
	return c.send(ctx, title, FormatRecordMessage(rec), c.config.Tags, c.config.Priority)
}

// ImportFinished sends an import summary. Failed imports are sent with high
// priority.
func (c *Client) ImportFinished(ctx context.Context, result *importer.BatchResult, duration time.Duration, err error) error {
	message := FormatImportMessage(result, duration, err)
	if err != nil || result.Failed > 0 {
		return c.send(ctx, "Import failed", message, c.config.Tags+",x", "high")
	}
	return c.send(ctx, "Import complete", message, c.config.Tags+",white_check_mark", c.config.Priority)
}

func (c *Client) send(ctx context.Context, title, message, tags, priority string) error {
	url := fmt.Sprintf("%s/%s", strings.TrimSuffix(c.config.Server, "/"), c.config.Topic)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(message))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Title", title)
	req.Header.Set("Priority", priority)
	req.Header.Set("Tags", tags)

	if c.config.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("failed to send notification", zap.Error(err))
		return fmt.Errorf("sending notification: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	// Drain response body to allow connection reuse
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("notification failed",
			zap.Int("status", resp.StatusCode),
			zap.String("url", url),
		)
		return fmt.Errorf("notification failed with status: %d", resp.StatusCode)
	}

	c.logger.Debug("notification sent", zap.String("title", title))
	return nil
}

// NoopNotifier is a no-op implementation for when notifications are disabled.
type NoopNotifier struct{}

// RecordCreated is a no-op.
func (n *NoopNotifier) RecordCreated(_ context.Context, _ store.Record) error {
	return nil
}

// ImportFinished is a no-op.
func (n *NoopNotifier) ImportFinished(_ context.Context, _ *importer.BatchResult, _ time.Duration, _ error) error {
	return nil
}

// New creates the appropriate notifier based on config.
func New(cfg config.NotifyConfig, logger *zap.Logger) Notifier {
	if !cfg.Enabled {
		return &NoopNotifier{}
	}
	return NewClient(cfg, logger)
}

// Watch subscribes to b and sends one notification per created record until
// ctx is cancelled or b is closed. Delivery failures are logged and skipped.
func Watch(ctx context.Context, b *broadcast.Broadcaster, n Notifier, logger *zap.Logger) error {
	sub, err := b.Subscribe()
	if err != nil {
		return fmt.Errorf("subscribing to broadcaster: %w", err)
	}
	defer sub.Close()

	logger.Info("notifier watching for new records", zap.Uint64("subscription", sub.ID()))

	for {
		ev, err := sub.Next(ctx)
		if err != nil {
			if errors.Is(err, broadcast.ErrSubscriptionClosed) || errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
		if err := n.RecordCreated(ctx, ev.Record); err != nil {
			logger.Warn("record notification failed",
				zap.String("id", ev.Record.ID),
				zap.Uint64("sequence", ev.Sequence),
				zap.Error(err),
			)
		}
	}
}
