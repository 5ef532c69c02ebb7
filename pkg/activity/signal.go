// Package activity tracks whether new messages arrived since the last poll.
// The signal is level-triggered: any number of notifications between two
// polls collapse into a single true.
package activity

import (
	"context"
	"sync/atomic"
)

// Signal is set by inbound events and consumed by pollers
type Signal interface {
	// Notify marks that new activity happened
	Notify(ctx context.Context) error

	// PollAndReset returns whether activity happened since the previous poll
	// and clears the flag in the same step
	PollAndReset(ctx context.Context) (bool, error)
}

// Memory is a process-local Signal. The zero value is ready to use.
type Memory struct {
	pending atomic.Bool
}

var _ Signal = (*Memory)(nil)

// NewMemory creates an unset in-memory signal
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Notify(ctx context.Context) error {
	m.pending.Store(true)
	return nil
}

func (m *Memory) PollAndReset(ctx context.Context) (bool, error) {
	return m.pending.Swap(false), nil
}
