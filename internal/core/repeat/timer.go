// Package repeat implements the press-and-hold clock behind key repeat: the
// bound action fires once on press, and after an initial delay keeps firing
// at a fixed interval until the press ends.
package repeat

import (
	"errors"
	"sync"
	"time"

	"github.com/baditaflorin/go_keyboard_behavior/internal/ports"
)

// Config holds the repeat timings.
type Config struct {
	InitialDelay   time.Duration
	RepeatInterval time.Duration
}

// DefaultConfig returns the default timings.
func DefaultConfig() Config {
	return Config{
		InitialDelay:   800 * time.Millisecond,
		RepeatInterval: 100 * time.Millisecond,
	}
}

// Validate checks if the configuration is valid.
func (c Config) Validate() error {
	if c.InitialDelay < 0 {
		return errors.New("initial delay must not be negative")
	}
	if c.RepeatInterval <= 0 {
		return errors.New("repeat interval must be greater than 0")
	}
	return nil
}

// Timer drives one button's repeat. It is safe to call from any goroutine;
// the action never runs while the timer's lock is held, so it may query the
// timer.
type Timer struct {
	mu      sync.Mutex
	clock   ports.Clock
	config  Config
	logger  ports.Logger
	action  func()
	pending ports.Timer
	// generation is the cancellation token: callbacks carry the value that
	// was current when they were scheduled and do nothing once it changes.
	generation uint64
	active     bool
	startedAt  time.Time
	lastHold   time.Duration
	fires      int
}

// NewTimer creates a repeat timer.
func NewTimer(config Config, clock ports.Clock, logger ports.Logger) (*Timer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if clock == nil {
		return nil, errors.New("clock is required")
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}
	return &Timer{
		clock:  clock,
		config: config,
		logger: logger,
	}, nil
}

// Start begins a hold: action runs once now, then repeatedly once the
// initial delay has passed. Starting an active timer restarts it.
func (t *Timer) Start(action func()) {
	t.mu.Lock()
	t.cancelLocked()
	t.action = action
	t.active = true
	t.startedAt = t.clock.Now()
	t.lastHold = 0
	t.fires = 0
	token := t.generation
	t.pending = t.clock.AfterFunc(t.config.InitialDelay, func() { t.beginRepeating(token) })
	t.mu.Unlock()

	t.logger.Debug("Repeat timer started", "initial_delay", t.config.InitialDelay)
	t.fire(token)
}

func (t *Timer) beginRepeating(token uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if token != t.generation || !t.active {
		return
	}
	t.scheduleTickLocked(token)
}

func (t *Timer) scheduleTickLocked(token uint64) {
	t.pending = t.clock.AfterFunc(t.config.RepeatInterval, func() { t.tick(token) })
}

func (t *Timer) tick(token uint64) {
	if !t.fire(token) {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if token != t.generation || !t.active {
		return
	}
	t.scheduleTickLocked(token)
}

// fire runs the action if token is still current and reports whether it did.
func (t *Timer) fire(token uint64) bool {
	t.mu.Lock()
	if token != t.generation || !t.active || t.action == nil {
		t.mu.Unlock()
		return false
	}
	action := t.action
	t.fires++
	t.mu.Unlock()

	action()
	return true
}

// Stop ends the hold and returns how long it lasted. Stopping an idle timer
// returns the previous hold duration.
func (t *Timer) Stop() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.active {
		return t.lastHold
	}
	t.lastHold = t.clock.Now().Sub(t.startedAt)
	t.cancelLocked()
	t.logger.Debug("Repeat timer stopped", "hold", t.lastHold, "fires", t.fires)
	return t.lastHold
}

// Invalidate cancels any scheduled fire. It is idempotent and safe in any
// state; owners call it on teardown.
func (t *Timer) Invalidate() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cancelLocked()
	t.action = nil
}

func (t *Timer) cancelLocked() {
	t.generation++
	t.active = false
	if t.pending != nil {
		t.pending.Stop()
		t.pending = nil
	}
}

// Duration returns the elapsed time of the current hold, or the length of
// the last hold when idle.
func (t *Timer) Duration() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.active {
		return t.lastHold
	}
	return t.clock.Now().Sub(t.startedAt)
}

// IsActive reports whether a hold is in progress.
func (t *Timer) IsActive() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}

// Fires returns how many times the action ran during the current or last
// hold.
func (t *Timer) Fires() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.fires
}
