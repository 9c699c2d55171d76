// Package boundary holds the lifecycle bookkeeping shared by every LedgerStore
// implementation: the single writer slot and the open/committed/aborted state of
// a unit of work.
package boundary

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrMisuse is the panic value raised when a boundary is finished twice or used
// after it finished. It signals a programming error, not a business outcome.
var ErrMisuse = errors.New("boundary misuse")

type State int

const (
	StateOpen State = iota
	StateCommitted
	StateAborted
)

func (s State) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateCommitted:
		return "committed"
	case StateAborted:
		return "aborted"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// WriterSlot admits one boundary at a time across the whole store.
type WriterSlot struct {
	ch chan struct{}
}

func NewWriterSlot() *WriterSlot {
	return &WriterSlot{ch: make(chan struct{}, 1)}
}

// Acquire blocks until the slot is free. Waiting ends early only when ctx is done
// before the slot is granted.
func (s *WriterSlot) Acquire(ctx context.Context) error {
	select {
	case s.ch <- struct{}{}:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("wait for ledger writer slot: %w", ctx.Err())
	}
}

func (s *WriterSlot) release() {
	select {
	case <-s.ch:
	default:
		panic(fmt.Errorf("%w: writer slot released while free", ErrMisuse))
	}
}

// Guard tracks one boundary. It hands the writer slot back exactly once, when the
// boundary finishes.
type Guard struct {
	mu    sync.Mutex
	state State
	slot  *WriterSlot
}

// NewGuard returns a guard for a boundary that already holds slot.
func NewGuard(slot *WriterSlot) *Guard {
	return &Guard{slot: slot}
}

func (g *Guard) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// MustBeOpen panics unless the boundary is still open.
func (g *Guard) MustBeOpen(op string) {
	if s := g.State(); s != StateOpen {
		panic(fmt.Errorf("%w: %s on %s boundary", ErrMisuse, op, s))
	}
}

// Finish moves the boundary to its terminal state, runs fn and releases the
// writer slot. fn runs while the slot is still held. Finishing twice panics.
// A commit whose fn fails leaves the boundary aborted.
func (g *Guard) Finish(to State, fn func() error) error {
	g.mu.Lock()
	if g.state != StateOpen {
		from := g.state
		g.mu.Unlock()
		panic(fmt.Errorf("%w: %s requested on %s boundary", ErrMisuse, to, from))
	}
	g.state = to
	g.mu.Unlock()

	defer g.slot.release()
	if fn == nil {
		return nil
	}

	err := fn()
	if err != nil && to == StateCommitted {
		g.mu.Lock()
		g.state = StateAborted
		g.mu.Unlock()
	}
	return err
}

// TryFinish finishes the boundary as aborted unless it already finished.
// It reports whether it did anything.
func (g *Guard) TryFinish(fn func() error) (bool, error) {
	g.mu.Lock()
	if g.state != StateOpen {
		g.mu.Unlock()
		return false, nil
	}
	g.state = StateAborted
	g.mu.Unlock()

	defer g.slot.release()
	if fn == nil {
		return true, nil
	}
	return true, fn()
}
