package ports

import "github.com/baditaflorin/go_keyboard_behavior/internal/core/domain"

// TextContext is the host's editable text buffer as seen from the keyboard.
// Query methods report ok == false when the host cannot provide the value.
// Offsets and counts are in user-perceived characters; implementations
// clamp out-of-range values instead of failing.
type TextContext interface {
	TextBeforeCursor() (string, bool)
	TextAfterCursor() (string, bool)
	SelectedText() (string, bool)
	AutocapitalizationHint() (domain.AutocapitalizationHint, bool)

	Insert(text string)
	DeleteBackward(count int)
	MoveCursor(offset int)
}
