package events

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
)

type NATSPublisher struct {
	nc *nats.Conn
}

func NewNATSPublisher(url, name string) (*NATSPublisher, error) {
	if url == "" {
		url = nats.DefaultURL
	}
	nc, err := nats.Connect(url,
		nats.Name(name),
		nats.Timeout(5*time.Second),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, fmt.Errorf("nats: connect %s: %w", url, err)
	}
	return &NATSPublisher{nc: nc}, nil
}

// PublishEvent uses the topic as the subject and carries the key in a header.
func (p *NATSPublisher) PublishEvent(ctx context.Context, topic, key string, event any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if p.nc == nil || !p.nc.IsConnected() {
		return nats.ErrConnectionClosed
	}

	data, err := encode(event)
	if err != nil {
		return err
	}
	msg := &nats.Msg{Subject: topic, Data: data, Header: nats.Header{}}
	if key != "" {
		msg.Header.Set("Key", key)
	}
	if err := p.nc.PublishMsg(msg); err != nil {
		return fmt.Errorf("nats: publish to %s failed: %w", topic, err)
	}
	return nil
}

func (p *NATSPublisher) Close() error {
	return p.nc.Drain()
}
