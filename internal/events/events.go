// Package events announces domain events to other services.
package events

import (
	"context"
	"encoding/json"
	"time"
)

const RoutingKeyItemLinked = "item.linked"

// ItemLinked is published after a user links an institution and the
// access token has been stored. It never carries the token itself.
type ItemLinked struct {
	UserID   string    `json:"user_id"`
	ItemID   string    `json:"item_id"`
	LinkedAt time.Time `json:"linked_at"`
}

func (m ItemLinked) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

type Publisher interface {
	PublishItemLinked(ctx context.Context, msg ItemLinked) error
	Close() error
}

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) PublishItemLinked(context.Context, ItemLinked) error { return nil }

func (NopPublisher) Close() error { return nil }
