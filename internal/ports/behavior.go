package ports

import (
	"time"

	"github.com/baditaflorin/go_keyboard_behavior/internal/core/domain"
)

// KeyboardBehavior decides how the keyboard reacts to a gesture. Methods
// that measure time between taps update the implementation's state, so each
// gesture should be evaluated once.
type KeyboardBehavior interface {
	// Decide evaluates every rule for one gesture.
	Decide(tc TextContext, ev domain.KeyEvent) domain.Decision

	BackspaceDeleteRange(hold time.Duration) domain.DeleteRange
	ShouldSwitchToCapsLock(g domain.Gesture, a domain.KeyboardAction) bool
	ShouldEndSentence(g domain.Gesture, a domain.KeyboardAction, tc TextContext) bool
	ShouldSwitchToPreferredKeyboardType(g domain.Gesture, a domain.KeyboardAction, tc TextContext, current domain.KeyboardType) bool
	PreferredKeyboardType(g domain.Gesture, a domain.KeyboardAction, tc TextContext, current domain.KeyboardType) domain.KeyboardType
}
