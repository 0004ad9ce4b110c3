package keyboardbehavior

import (
	"github.com/baditaflorin/go_keyboard_behavior/internal/adapters/locale"
	"github.com/baditaflorin/go_keyboard_behavior/internal/adapters/textbuffer"
	"github.com/baditaflorin/go_keyboard_behavior/internal/core/behavior"
	"github.com/baditaflorin/go_keyboard_behavior/internal/core/domain"
	"github.com/baditaflorin/go_keyboard_behavior/internal/core/repeat"
	"github.com/baditaflorin/go_keyboard_behavior/internal/ports"
)

type (
	Gesture                = domain.Gesture
	Casing                 = domain.Casing
	KeyboardType           = domain.KeyboardType
	KeyboardAction         = domain.KeyboardAction
	DeleteRange            = domain.DeleteRange
	AutocapitalizationHint = domain.AutocapitalizationHint
	KeyEvent               = domain.KeyEvent
	Decision               = domain.Decision
	LocaleDelimiters       = domain.LocaleDelimiters

	// TextContext is implemented by the host's text buffer.
	TextContext = ports.TextContext
	// Behavior is a pluggable decision engine.
	Behavior   = ports.KeyboardBehavior
	Clock      = ports.Clock
	Logger     = ports.Logger
	Normalizer = ports.Normalizer

	BehaviorConfig = behavior.Config
	RepeatConfig   = repeat.Config
	LocaleRegistry = locale.Registry

	// TextBuffer is an in-memory TextContext for tests and tools.
	TextBuffer = textbuffer.Buffer
)

const (
	GestureTap         = domain.GestureTap
	GestureDoubleTap   = domain.GestureDoubleTap
	GestureLongPress   = domain.GestureLongPress
	GestureRepeatPress = domain.GestureRepeatPress

	CasingAuto       = domain.CasingAuto
	CasingLowercased = domain.CasingLowercased
	CasingUppercased = domain.CasingUppercased
	CasingCapsLocked = domain.CasingCapsLocked

	DeleteCharacter = domain.DeleteCharacter
	DeleteWord      = domain.DeleteWord

	HintNone          = domain.HintNone
	HintWords         = domain.HintWords
	HintSentences     = domain.HintSentences
	HintAllCharacters = domain.HintAllCharacters
)

var (
	Alphabetic = domain.Alphabetic
	Numeric    = domain.Numeric
	Symbolic   = domain.Symbolic
	Email      = domain.Email
	Emojis     = domain.Emojis
	Custom     = domain.Custom

	Character          = domain.ActionCharacter
	Space              = domain.ActionSpace
	Backspace          = domain.ActionBackspace
	Shift              = domain.ActionShift
	SwitchKeyboardType = domain.ActionKeyboardType
	OtherAction        = domain.ActionOther

	NewTextBuffer = textbuffer.New
)

// NewStandardBehavior creates the adaptive behavior with its own state.
func NewStandardBehavior(config BehaviorConfig, clock Clock, logger Logger) (Behavior, error) {
	return behavior.NewStandard(config, clock, logger, nil)
}

// NewStaticBehavior returns a behavior that never adapts.
func NewStaticBehavior() Behavior { return behavior.NewStatic() }

// NewLocaleRegistry creates a registry with the built-in locale tables.
func NewLocaleRegistry(logger Logger) (*LocaleRegistry, error) {
	return locale.NewRegistry(logger)
}
