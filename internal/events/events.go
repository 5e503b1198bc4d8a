// Package events publishes domain events to a message broker. Publishing is
// best effort: callers log failures and carry on.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

const (
	TopicProduct = "product_events"
	TopicCart    = "cart_events"
	TopicUser    = "user_events"
)

const (
	TypeProductCreated  = "product_created"
	TypeCartItemAdded   = "cart_item_added"
	TypeCartItemDecr    = "cart_item_decremented"
	TypeCartItemRemoved = "cart_item_removed"
	TypeUserRegistered  = "user_registered"
	TypeUserLoggedIn    = "user_logged_in"
)

type Event struct {
	Type       string    `json:"type"`
	UserID     string    `json:"user_id,omitempty"`
	Username   string    `json:"username,omitempty"`
	ProductID  string    `json:"product_id,omitempty"`
	Name       string    `json:"name,omitempty"`
	Quantity   uint      `json:"quantity,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

type Publisher interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
	Close() error
}

func encode(event any) ([]byte, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("events: json.Marshal failed: %w", err)
	}
	return data, nil
}

// Nop drops every event. It is used when no broker is configured.
type Nop struct{}

func (Nop) PublishEvent(context.Context, string, string, any) error { return nil }

func (Nop) Close() error { return nil }
