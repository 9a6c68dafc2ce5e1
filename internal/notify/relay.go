// Package notify relays plain-text notifications (order confirmations, order
// updates, new reviews) to the store's form-submission endpoint.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// ErrRelayRejected is returned when the endpoint answers with a non-2xx status.
var ErrRelayRejected = errors.New("notification relay rejected the message")

// Notification is a single message to deliver.
type Notification struct {
	Subject string
	Message string
}

// Relay delivers notifications.
type Relay interface {
	Send(ctx context.Context, n Notification) error
}

type payload struct {
	AccessKey string `json:"access_key"`
	Subject   string `json:"subject"`
	FromName  string `json:"from_name"`
	Message   string `json:"message"`
}

// HTTPRelay posts notifications as JSON to a single endpoint.
type HTTPRelay struct {
	url       string
	accessKey string
	fromName  string
	client    *http.Client
	logger    *zap.Logger
}

// Config configures an HTTPRelay.
type Config struct {
	URL       string
	AccessKey string
	FromName  string
	Timeout   time.Duration
	Logger    *zap.Logger
}

func NewHTTPRelay(cfg Config) *HTTPRelay {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &HTTPRelay{
		url:       cfg.URL,
		accessKey: cfg.AccessKey,
		fromName:  cfg.FromName,
		client:    &http.Client{Timeout: cfg.Timeout},
		logger:    cfg.Logger,
	}
}

// Send posts n once. Any 2xx response counts as delivered.
func (r *HTTPRelay) Send(ctx context.Context, n Notification) error {
	body, err := json.Marshal(payload{
		AccessKey: r.accessKey,
		Subject:   n.Subject,
		FromName:  r.fromName,
		Message:   n.Message,
	})
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.Warn("notification relay failed", zap.String("subject", n.Subject), zap.Error(err))
		return fmt.Errorf("post notification: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		r.logger.Warn("notification relay rejected", zap.String("subject", n.Subject), zap.Int("status", resp.StatusCode))
		return fmt.Errorf("%w: status %d", ErrRelayRejected, resp.StatusCode)
	}
	r.logger.Info("notification relayed", zap.String("subject", n.Subject), zap.Int("status", resp.StatusCode))
	return nil
}

// LogRelay only logs notifications. It is used when no endpoint is configured.
type LogRelay struct {
	Logger *zap.Logger
}

func (r LogRelay) Send(_ context.Context, n Notification) error {
	logger := r.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Info("notification (no relay configured)", zap.String("subject", n.Subject), zap.Int("bytes", len(n.Message)))
	return nil
}
