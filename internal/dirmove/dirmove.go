// Package dirmove relocates application directories. Moves of the main data
// directory run on a background goroutine behind a bounded wait; cache moves
// are best effort, file by file.
package dirmove

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/juju/clock"
)

// ErrTimeout is returned by RunBounded when fn does not finish in time.
var ErrTimeout = errors.New("directory move timed out")

// DefaultTimeout bounds how long a caller waits on a directory move.
const DefaultTimeout = 30 * time.Second

// RunBounded runs fn on a new goroutine and waits for it, for timeout
// measured on clk, or for ctx. fn keeps running after a timeout; its result
// is discarded.
func RunBounded(ctx context.Context, clk clock.Clock, timeout time.Duration, fn func() error) error {
	done := make(chan error, 1)
	go func() {
		done <- fn()
	}()

	select {
	case err := <-done:
		return err
	case <-clk.After(timeout):
		return ErrTimeout
	case <-ctx.Done():
		return ctx.Err()
	}
}

// State is the lifecycle of a Move.
type State int

const (
	Idle State = iota
	Pending
	Moving
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Pending:
		return "pending"
	case Moving:
		return "moving"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Move tracks a single directory relocation from selection to outcome.
// The zero value is Idle.
type Move struct {
	mu     sync.Mutex
	state  State
	target string
	err    error
}

// Choose records target as the pending destination. Choosing again before
// Run replaces the target.
func (m *Move) Choose(target string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == Moving {
		return
	}
	m.state = Pending
	m.target = target
	m.err = nil
}

// Target returns the chosen destination, or "" when none was chosen.
func (m *Move) Target() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.target
}

// State returns the current state.
func (m *Move) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Err returns the failure recorded by Run.
func (m *Move) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.err
}

// Run moves to the pending target with fn, bounded by timeout on clk.
// It returns nil without calling fn when nothing is pending.
func (m *Move) Run(ctx context.Context, clk clock.Clock, timeout time.Duration, fn func(target string) error) error {
	m.mu.Lock()
	if m.state != Pending {
		m.mu.Unlock()
		return nil
	}
	m.state = Moving
	target := m.target
	m.mu.Unlock()

	err := RunBounded(ctx, clk, timeout, func() error {
		return fn(target)
	})

	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		m.state = Failed
		m.err = err
		return err
	}
	m.state = Succeeded
	return nil
}
