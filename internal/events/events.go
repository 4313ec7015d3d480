// Package events announces bill lifecycle changes to other systems.
package events

import (
	"context"
	"encoding/json"
	"time"
)

// Type names a bill lifecycle event.
type Type string

const (
	BillSaved   Type = "bill.saved"
	BillDeleted Type = "bill.deleted"
)

// BillEvent is the message body published for every bill change.
type BillEvent struct {
	Type       Type      `json:"type"`
	BillID     string    `json:"bill_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewBillEvent stamps an event with the current time.
func NewBillEvent(t Type, billID string) BillEvent {
	return BillEvent{Type: t, BillID: billID, OccurredAt: time.Now().UTC()}
}

// ToJSON encodes the event.
func (e BillEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// Publisher delivers bill events.
type Publisher interface {
	Publish(ctx context.Context, event BillEvent) error
	Close() error
}

// Nop discards every event. Used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, BillEvent) error { return nil }
func (Nop) Close() error                             { return nil }
