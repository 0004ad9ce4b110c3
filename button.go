// button.go
package keyboardbehavior

import (
	"fmt"
	"sync"
	"time"

	"github.com/baditaflorin/go_keyboard_behavior/internal/core/domain"
	"github.com/baditaflorin/go_keyboard_behavior/internal/core/gesture"
	"github.com/baditaflorin/go_keyboard_behavior/internal/core/repeat"
)

// Button binds one key action to the session. The first fire of a press
// is handled as a tap, every repeat as a repeat press, and the live hold
// duration selects the backspace range. Close the button when its view
// goes away.
type Button struct {
	session    *Session
	action     KeyboardAction
	tc         TextContext
	recognizer *gesture.Recognizer

	mu        sync.Mutex
	decisions []Decision
	onDecide  func(Decision)
}

// NewButton creates a button for action editing tc.
func (s *Session) NewButton(action KeyboardAction, tc TextContext) (*Button, error) {
	timer, err := repeat.NewTimer(s.config.RepeatConfig, s.config.Clock, s.logger)
	if err != nil {
		return nil, fmt.Errorf("create repeat timer: %w", err)
	}
	b := &Button{session: s, action: action, tc: tc}
	r, err := gesture.NewRecognizer(timer, b.fire, s.logger)
	if err != nil {
		return nil, err
	}
	b.recognizer = r
	return b, nil
}

func (b *Button) fire(g domain.Gesture) {
	hold := time.Duration(0)
	if g == domain.GestureRepeatPress {
		hold = b.recognizer.ElapsedHoldDuration()
	}
	d := b.session.Handle(b.tc, g, b.action, hold)

	b.mu.Lock()
	b.decisions = append(b.decisions, d)
	cb := b.onDecide
	b.mu.Unlock()
	if cb != nil {
		cb(d)
	}
}

// OnDecision registers a callback for every decision the button produces.
func (b *Button) OnDecision(cb func(Decision)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onDecide = cb
}

// Decisions returns the decisions of the button's presses so far.
func (b *Button) Decisions() []Decision {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Decision(nil), b.decisions...)
}

// TouchesBegan presses the button.
func (b *Button) TouchesBegan() { b.recognizer.TouchesBegan() }

// TouchesMoved records finger movement during a press.
func (b *Button) TouchesMoved() { b.recognizer.TouchesMoved() }

// TouchesEnded releases the button.
func (b *Button) TouchesEnded() { b.recognizer.TouchesEnded() }

// TouchesCancelled aborts the press.
func (b *Button) TouchesCancelled() { b.recognizer.TouchesCancelled() }

// ElapsedHoldDuration returns how long the current or last press lasted.
func (b *Button) ElapsedHoldDuration() time.Duration {
	return b.recognizer.ElapsedHoldDuration()
}

// Close cancels any pending repeat. It is safe to call more than once.
func (b *Button) Close() { b.recognizer.Close() }
