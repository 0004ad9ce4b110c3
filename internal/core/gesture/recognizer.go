// Package gesture turns raw touch phases into press state for one
// interactive button and drives the button's repeat timer.
package gesture

import (
	"errors"
	"sync"
	"time"

	"github.com/baditaflorin/go_keyboard_behavior/internal/core/domain"
	"github.com/baditaflorin/go_keyboard_behavior/internal/core/repeat"
	"github.com/baditaflorin/go_keyboard_behavior/internal/ports"
)

// State is the recognizer phase.
type State int

const (
	StatePossible State = iota
	StateBegan
	StateChanged
	StateEnded
	StateCancelled
	StateFailed
)

func (s State) String() string {
	switch s {
	case StatePossible:
		return "possible"
	case StateBegan:
		return "began"
	case StateChanged:
		return "changed"
	case StateEnded:
		return "ended"
	case StateCancelled:
		return "cancelled"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Handler receives each fire of a press: a tap for the first, a repeat
// press for every later one.
type Handler func(g domain.Gesture)

// Recognizer tracks one button's press. It owns its timer; Close must be
// called when the button goes away.
type Recognizer struct {
	mu      sync.Mutex
	timer   *repeat.Timer
	logger  ports.Logger
	handler Handler
	state   State
	outcome State
	fires   int
	closed  bool
}

// NewRecognizer creates a recognizer that drives timer and reports fires to
// handler.
func NewRecognizer(timer *repeat.Timer, handler Handler, logger ports.Logger) (*Recognizer, error) {
	if timer == nil {
		return nil, errors.New("timer is required")
	}
	if handler == nil {
		return nil, errors.New("handler is required")
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}
	return &Recognizer{
		timer:   timer,
		logger:  logger,
		handler: handler,
		state:   StatePossible,
		outcome: StatePossible,
	}, nil
}

// TouchesBegan starts a press. The handler fires immediately and then
// repeats while the press is held. A press already in progress is kept.
func (r *Recognizer) TouchesBegan() {
	r.mu.Lock()
	if r.closed || r.state == StateBegan || r.state == StateChanged {
		r.mu.Unlock()
		return
	}
	r.state = StateBegan
	r.fires = 0
	r.mu.Unlock()

	r.timer.Start(r.fire)
}

func (r *Recognizer) fire() {
	r.mu.Lock()
	if r.closed || (r.state != StateBegan && r.state != StateChanged) {
		r.mu.Unlock()
		return
	}
	r.fires++
	g := domain.GestureRepeatPress
	if r.fires == 1 {
		g = domain.GestureTap
	}
	r.mu.Unlock()

	r.handler(g)
}

// TouchesMoved records movement of an active press.
func (r *Recognizer) TouchesMoved() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == StateBegan || r.state == StateChanged {
		r.state = StateChanged
	}
}

// TouchesEnded finishes the press normally.
func (r *Recognizer) TouchesEnded() { r.finish(StateEnded) }

// TouchesCancelled finishes the press because the host took the touch away.
func (r *Recognizer) TouchesCancelled() { r.finish(StateCancelled) }

// Fail finishes the press because it did not qualify as a button press.
func (r *Recognizer) Fail() { r.finish(StateFailed) }

func (r *Recognizer) finish(outcome State) {
	r.mu.Lock()
	if r.state != StateBegan && r.state != StateChanged {
		r.mu.Unlock()
		return
	}
	r.outcome = outcome
	r.state = StatePossible
	fires := r.fires
	r.mu.Unlock()

	hold := r.timer.Stop()
	r.logger.Debug("Press finished", "outcome", outcome.String(), "hold", hold, "fires", fires)
}

// State returns the current phase.
func (r *Recognizer) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// LastOutcome returns how the most recent press finished, or StatePossible
// if none has.
func (r *Recognizer) LastOutcome() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.outcome
}

// ElapsedHoldDuration returns how long the current press has lasted, or the
// length of the last press when idle.
func (r *Recognizer) ElapsedHoldDuration() time.Duration {
	return r.timer.Duration()
}

// Close cancels the timer, even mid-press. After Close the recognizer
// ignores touches.
func (r *Recognizer) Close() {
	r.mu.Lock()
	r.closed = true
	r.state = StatePossible
	r.mu.Unlock()

	r.timer.Invalidate()
}
