// Package events announces committed order changes to the kitchen.
package events

import (
	"context"
	"time"
)

const (
	OrderPlaced       = "order.placed"
	OrderCancelled    = "order.cancelled"
	OrderPaid         = "order.paid"
	ItemStatusChanged = "order.status"
)

// Event describes one committed change to an order.
type Event struct {
	Kind    string    `json:"kind"`
	OrderID int64     `json:"order_id"`
	Login   string    `json:"login,omitempty"`
	Items   []string  `json:"items,omitempty"`
	Total   string    `json:"total,omitempty"`
	Status  string    `json:"status,omitempty"`
	At      time.Time `json:"at"`
}

// Publisher delivers events. Implementations must not block indefinitely.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// Nop drops every event.
type Nop struct{}

// Publish discards ev.
func (Nop) Publish(context.Context, Event) error { return nil }
