package events

import (
	"context"
	"time"
)

const (
	ScheduleCreated       = "schedule.created"
	ScheduleAmountUpdated = "schedule.amount_updated"
	PaymentRecorded       = "payment.recorded"
	PaymentCancelled      = "payment.cancelled"
	PaymentsMarkedLate    = "payments.marked_late"
)

// Event is the envelope written to the payments topic.
type Event struct {
	Type       string      `json:"event_type"`
	Key        string      `json:"-"`
	OccurredAt time.Time   `json:"occurred_at"`
	Data       interface{} `json:"data"`
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }

func (NopPublisher) Close() error { return nil }
