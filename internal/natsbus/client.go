package natsbus

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/zap"
)

type conn interface {
	Publish(subj string, data []byte) error
	Drain() error
}

// Client publishes msgpack-encoded events on core NATS subjects.
type Client struct {
	nc  conn
	log *zap.Logger
}

// Connect establishes the NATS connection.
func Connect(url string, log *zap.Logger) (*Client, error) {
	if url == "" {
		url = nats.DefaultURL
	}

	opts := []nats.Option{
		nats.Name("hrportal-backend"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(1 * time.Second),
		nats.ReconnectJitter(500*time.Millisecond, 2*time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Warn("NATS disconnected", zap.Error(err))
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info("NATS reconnected", zap.String("url", nc.ConnectedUrl()))
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			log.Info("NATS connection closed")
		}),
		nats.ErrorHandler(func(nc *nats.Conn, sub *nats.Subscription, err error) {
			log.Error("NATS error", zap.Error(err))
		}),
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	log.Info("Connected to NATS", zap.String("url", nc.ConnectedUrl()))

	return &Client{nc: nc, log: log}, nil
}

// Publish encodes event with msgpack and publishes it on subject.
func (c *Client) Publish(_ context.Context, subject string, event any) error {
	payload, err := msgpack.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", subject, err)
	}
	if err := c.nc.Publish(subject, payload); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	c.log.Debug("Event published", zap.String("subject", subject), zap.Int("bytes", len(payload)))
	return nil
}

// Close drains and closes the NATS connection.
func (c *Client) Close() error {
	return c.nc.Drain()
}
