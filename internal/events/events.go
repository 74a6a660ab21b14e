// Package events publishes build lifecycle notifications over NATS, so
// deployment automation can react to finished conversions without polling.
package events

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

// BuildEvent is the payload published for each finished version build.
type BuildEvent struct {
	BuildID    string    `json:"build_id"`
	Version    string    `json:"version"`
	Success    bool      `json:"success"`
	FilesTotal int       `json:"files_total"`
	FilesOK    int       `json:"files_ok"`
	Error      string    `json:"error,omitempty"`
	FinishedAt time.Time `json:"finished_at"`
}

// Publisher emits build events. The noop implementation keeps event wiring
// optional for plain CLI runs.
type Publisher interface {
	PublishBuild(event BuildEvent) error
	Close()
}

// NoopPublisher discards all events.
type NoopPublisher struct{}

func (NoopPublisher) PublishBuild(BuildEvent) error { return nil }
func (NoopPublisher) Close()                        {}

// NATSPublisher publishes build events to a fixed subject.
type NATSPublisher struct {
	conn    *nats.Conn
	subject string
}

// NewNATSPublisher connects to the NATS server. Connection failure is an
// error here rather than at publish time, so misconfiguration surfaces at
// startup.
func NewNATSPublisher(url, subject string) (*NATSPublisher, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	slog.Info("NATS publisher initialized", "url", url, "subject", subject)
	return &NATSPublisher{conn: conn, subject: subject}, nil
}

// PublishBuild sends one build event.
func (p *NATSPublisher) PublishBuild(event BuildEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal build event: %w", err)
	}
	if err := p.conn.Publish(p.subject, data); err != nil {
		return fmt.Errorf("failed to publish build event: %w", err)
	}
	slog.Debug("Published build event",
		"subject", p.subject, "version", event.Version, "success", event.Success)
	return nil
}

// Close flushes and closes the connection.
func (p *NATSPublisher) Close() {
	if p.conn == nil {
		return
	}
	_ = p.conn.Drain()
}
