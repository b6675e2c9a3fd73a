package models

import "time"

// RecordOperation names a store mutation.
type RecordOperation string

const (
	RecordCreated RecordOperation = "record.created"
	RecordUpdated RecordOperation = "record.updated"
	RecordDeleted RecordOperation = "record.deleted"
)

// RecordEvent is published after a successful store mutation.
type RecordEvent struct {
	Type       RecordOperation `json:"type"`
	Collection Collection      `json:"collection"`
	RecordID   int             `json:"record_id"`
	OccurredAt time.Time       `json:"occurred_at"`
}
