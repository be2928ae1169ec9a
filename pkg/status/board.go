// Package status keeps the transient, user-visible outcome of the latest run.
package status

import (
	"sync"
	"time"

	"github.com/dukex/timely/pkg/models"
)

// DefaultTTL is how long a status stays visible before it clears itself.
const DefaultTTL = 5 * time.Second

// Board holds at most one status. Setting a new status cancels the pending
// clear of the previous one.
type Board struct {
	mu         sync.Mutex
	ttl        time.Duration
	current    models.ExecutionStatus
	generation uint64
	timer      *time.Timer
	listeners  []func(models.ExecutionStatus)
}

// Option configures a Board.
type Option func(*Board)

// WithTTL overrides DefaultTTL.
func WithTTL(ttl time.Duration) Option {
	return func(b *Board) {
		b.ttl = ttl
	}
}

// WithListener registers fn to be called, outside the board lock, after
// every change including automatic clears.
func WithListener(fn func(models.ExecutionStatus)) Option {
	return func(b *Board) {
		b.listeners = append(b.listeners, fn)
	}
}

// NewBoard creates an empty board.
func NewBoard(opts ...Option) *Board {
	b := &Board{ttl: DefaultTTL, current: models.NoStatus}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Success shows a success message.
func (b *Board) Success(message string) {
	b.Set(models.ExecutionStatus{Kind: models.StatusSuccess, Message: message})
}

// Error shows an error message.
func (b *Board) Error(message string) {
	b.Set(models.ExecutionStatus{Kind: models.StatusError, Message: message})
}

// Set replaces the current status and schedules its clear.
func (b *Board) Set(status models.ExecutionStatus) {
	b.mu.Lock()

	b.stopLocked()
	b.current = status

	if status.Kind != models.StatusNone {
		generation := b.generation
		b.timer = time.AfterFunc(b.ttl, func() {
			b.expire(generation)
		})
	}

	b.mu.Unlock()

	b.notify(status)
}

// Dismiss clears the current status immediately.
func (b *Board) Dismiss() {
	b.Set(models.NoStatus)
}

// Current returns the visible status.
func (b *Board) Current() models.ExecutionStatus {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.current
}

func (b *Board) expire(generation uint64) {
	b.mu.Lock()

	// A newer status was set after this timer was armed.
	if generation != b.generation {
		b.mu.Unlock()

		return
	}

	b.generation++
	b.timer = nil
	b.current = models.NoStatus
	b.mu.Unlock()

	b.notify(models.NoStatus)
}

func (b *Board) stopLocked() {
	b.generation++

	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
}

func (b *Board) notify(status models.ExecutionStatus) {
	for _, listener := range b.listeners {
		listener(status)
	}
}
