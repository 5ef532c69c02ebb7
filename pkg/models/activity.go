package models

import (
	"time"
)

// ActivityRecord is the durable form of the activity signal
type ActivityRecord struct {
	SignalID    string    `dynamodbav:"signal_id"`
	Pending     bool      `dynamodbav:"pending"`
	EventCount  int64     `dynamodbav:"event_count"`
	LastEventAt time.Time `dynamodbav:"last_event_at"`
	UpdatedAt   time.Time `dynamodbav:"updated_at"`
	TTL         int64     `dynamodbav:"ttl"` // Unix timestamp (7 days after the last event)
}

// DefaultSignalID keys the single process-wide activity record
const DefaultSignalID = "timeline"

// ActivityTTL is how long an idle activity record is kept
const ActivityTTL = 7 * 24 * time.Hour

// NewActivityRecord creates a pending record for an event seen at now
func NewActivityRecord(signalID string, now time.Time) *ActivityRecord {
	return &ActivityRecord{
		SignalID:    signalID,
		Pending:     true,
		EventCount:  1,
		LastEventAt: now,
		UpdatedAt:   now,
		TTL:         now.Add(ActivityTTL).Unix(),
	}
}

// Expired reports whether the record is past its TTL
func (r *ActivityRecord) Expired(now time.Time) bool {
	return r.TTL > 0 && now.Unix() > r.TTL
}
