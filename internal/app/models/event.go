package models

import "time"

// BillingStatusChangedEvent is published after a status change is committed.
type BillingStatusChangedEvent struct {
	ID             string        `json:"id"`
	Type           string        `json:"type"`
	BatchID        string        `json:"lote_id"`
	TargetKind     TargetKind    `json:"target_kind"`
	TargetID       string        `json:"target_id"`
	PreviousStatus PaymentStatus `json:"previous_status"`
	NewStatus      PaymentStatus `json:"new_status"`
	DisputeID      string        `json:"dispute_id,omitempty"`
	RequestID      string        `json:"request_id,omitempty"`
	OccurredAt     time.Time     `json:"occurred_at"`
}
