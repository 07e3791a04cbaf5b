package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
)

// Conn is the subset of *nats.Conn used by NATSPublisher.
type Conn interface {
	Publish(subject string, data []byte) error
	Drain() error
}

// NATSPublisher publishes events as JSON on "<prefix>.<kind>" subjects.
type NATSPublisher struct {
	conn   Conn
	prefix string
}

// Connect dials the NATS server at url and returns a publisher on it.
func Connect(url, name, prefix string) (*NATSPublisher, error) {
	conn, err := nats.Connect(url,
		nats.Name(name),
		nats.Timeout(5*time.Second),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, fmt.Errorf("connecting to nats at %s: %w", url, err)
	}
	return NewNATSPublisher(conn, prefix), nil
}

// NewNATSPublisher publishes on conn. An empty prefix selects DefaultSubjectPrefix.
func NewNATSPublisher(conn Conn, prefix string) *NATSPublisher {
	if prefix == "" {
		prefix = DefaultSubjectPrefix
	}
	return &NATSPublisher{conn: conn, prefix: prefix}
}

// Subject returns the subject events of kind are published on.
func (p *NATSPublisher) Subject(kind Kind) string {
	return p.prefix + "." + string(kind)
}

// Publish implements Publisher.
func (p *NATSPublisher) Publish(ctx context.Context, ev Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encoding %s event: %w", ev.Kind, err)
	}
	if err := p.conn.Publish(p.Subject(ev.Kind), data); err != nil {
		return fmt.Errorf("publishing %s event: %w", ev.Kind, err)
	}
	return nil
}

// Close flushes pending messages and closes the connection.
func (p *NATSPublisher) Close() error {
	return p.conn.Drain()
}
