package behavior

import (
	"time"

	"github.com/baditaflorin/go_keyboard_behavior/internal/core/domain"
	"github.com/baditaflorin/go_keyboard_behavior/internal/ports"
)

// Static never adapts: the keyboard type stays as it is, sentences are not
// closed, caps never locks and backspace always deletes one character.
type Static struct{}

var _ ports.KeyboardBehavior = Static{}

// NewStatic returns the non-adaptive behavior.
func NewStatic() Static { return Static{} }

func (Static) Decide(_ ports.TextContext, ev domain.KeyEvent) domain.Decision {
	return domain.Decision{PreferredType: ev.KeyboardType, DeleteRange: domain.DeleteCharacter}
}

func (Static) BackspaceDeleteRange(time.Duration) domain.DeleteRange {
	return domain.DeleteCharacter
}

func (Static) ShouldSwitchToCapsLock(domain.Gesture, domain.KeyboardAction) bool { return false }

func (Static) ShouldEndSentence(domain.Gesture, domain.KeyboardAction, ports.TextContext) bool {
	return false
}

func (Static) ShouldSwitchToPreferredKeyboardType(domain.Gesture, domain.KeyboardAction, ports.TextContext, domain.KeyboardType) bool {
	return false
}

func (Static) PreferredKeyboardType(_ domain.Gesture, _ domain.KeyboardAction, _ ports.TextContext, current domain.KeyboardType) domain.KeyboardType {
	return current
}
