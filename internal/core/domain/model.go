package domain

import (
	"fmt"
	"time"
)

// Gesture identifies how a key was interacted with.
type Gesture int

const (
	GestureTap Gesture = iota
	GestureDoubleTap
	GestureLongPress
	GestureRepeatPress
)

func (g Gesture) String() string {
	switch g {
	case GestureTap:
		return "tap"
	case GestureDoubleTap:
		return "doubleTap"
	case GestureLongPress:
		return "longPress"
	case GestureRepeatPress:
		return "repeatPress"
	default:
		return fmt.Sprintf("gesture(%d)", int(g))
	}
}

// Casing is the casing state of an alphabetic keyboard.
type Casing int

const (
	CasingAuto Casing = iota
	CasingLowercased
	CasingUppercased
	CasingCapsLocked
)

func (c Casing) String() string {
	switch c {
	case CasingAuto:
		return "auto"
	case CasingLowercased:
		return "lowercased"
	case CasingUppercased:
		return "uppercased"
	case CasingCapsLocked:
		return "capsLocked"
	default:
		return fmt.Sprintf("casing(%d)", int(c))
	}
}

// KeyboardTypeKind enumerates the keyboard families.
type KeyboardTypeKind int

const (
	KindAlphabetic KeyboardTypeKind = iota
	KindNumeric
	KindSymbolic
	KindEmail
	KindEmojis
	KindCustom
)

// KeyboardType is a keyboard family plus its payload. Casing is only
// meaningful for KindAlphabetic, Name only for KindCustom.
type KeyboardType struct {
	Kind   KeyboardTypeKind
	Casing Casing
	Name   string
}

func Alphabetic(c Casing) KeyboardType { return KeyboardType{Kind: KindAlphabetic, Casing: c} }
func Numeric() KeyboardType            { return KeyboardType{Kind: KindNumeric} }
func Symbolic() KeyboardType           { return KeyboardType{Kind: KindSymbolic} }
func Email() KeyboardType              { return KeyboardType{Kind: KindEmail} }
func Emojis() KeyboardType             { return KeyboardType{Kind: KindEmojis} }
func Custom(name string) KeyboardType  { return KeyboardType{Kind: KindCustom, Name: name} }

// IsAlphabetic reports whether the type is an alphabetic keyboard.
func (t KeyboardType) IsAlphabetic() bool { return t.Kind == KindAlphabetic }

// IsCapsLocked reports whether the type is an alphabetic keyboard in caps lock.
func (t KeyboardType) IsCapsLocked() bool {
	return t.Kind == KindAlphabetic && t.Casing == CasingCapsLocked
}

// Equal compares two keyboard types, ignoring payload fields that do not
// apply to the kind.
func (t KeyboardType) Equal(o KeyboardType) bool {
	if t.Kind != o.Kind {
		return false
	}
	switch t.Kind {
	case KindAlphabetic:
		return t.Casing == o.Casing
	case KindCustom:
		return t.Name == o.Name
	default:
		return true
	}
}

func (t KeyboardType) String() string {
	switch t.Kind {
	case KindAlphabetic:
		return "alphabetic(" + t.Casing.String() + ")"
	case KindNumeric:
		return "numeric"
	case KindSymbolic:
		return "symbolic"
	case KindEmail:
		return "email"
	case KindEmojis:
		return "emojis"
	case KindCustom:
		return "custom(" + t.Name + ")"
	default:
		return fmt.Sprintf("keyboardType(%d)", int(t.Kind))
	}
}

// ActionKind enumerates the keyboard actions the engine reasons about.
type ActionKind int

const (
	ActionKindCharacter ActionKind = iota
	ActionKindSpace
	ActionKindBackspace
	ActionKindShift
	ActionKindKeyboardType
	ActionKindOther
)

// KeyboardAction is a tagged union over the actions relevant to typing
// behavior. Only the field matching Kind carries a value.
type KeyboardAction struct {
	Kind         ActionKind
	Text         string
	Casing       Casing
	KeyboardType KeyboardType
	Name         string
}

func ActionCharacter(text string) KeyboardAction {
	return KeyboardAction{Kind: ActionKindCharacter, Text: text}
}

func ActionSpace() KeyboardAction     { return KeyboardAction{Kind: ActionKindSpace} }
func ActionBackspace() KeyboardAction { return KeyboardAction{Kind: ActionKindBackspace} }

func ActionShift(current Casing) KeyboardAction {
	return KeyboardAction{Kind: ActionKindShift, Casing: current}
}

func ActionKeyboardType(t KeyboardType) KeyboardAction {
	return KeyboardAction{Kind: ActionKindKeyboardType, KeyboardType: t}
}

func ActionOther(name string) KeyboardAction {
	return KeyboardAction{Kind: ActionKindOther, Name: name}
}

// IsShift reports whether the action is a shift press.
func (a KeyboardAction) IsShift() bool { return a.Kind == ActionKindShift }

// InsertsSpace reports whether performing the action types a single space.
func (a KeyboardAction) InsertsSpace() bool {
	return a.Kind == ActionKindSpace || (a.Kind == ActionKindCharacter && a.Text == " ")
}

func (a KeyboardAction) String() string {
	switch a.Kind {
	case ActionKindCharacter:
		return fmt.Sprintf("character(%q)", a.Text)
	case ActionKindSpace:
		return "space"
	case ActionKindBackspace:
		return "backspace"
	case ActionKindShift:
		return "shift(" + a.Casing.String() + ")"
	case ActionKindKeyboardType:
		return "keyboardType(" + a.KeyboardType.String() + ")"
	default:
		return "other(" + a.Name + ")"
	}
}

// DeleteRange is how much a backspace removes.
type DeleteRange int

const (
	DeleteCharacter DeleteRange = iota
	DeleteWord
)

func (r DeleteRange) String() string {
	if r == DeleteWord {
		return "word"
	}
	return "character"
}

// AutocapitalizationHint is the host's hint about how the next character
// should be cased.
type AutocapitalizationHint int

const (
	HintNone AutocapitalizationHint = iota
	HintWords
	HintSentences
	HintAllCharacters
)

// KeyEvent is everything the behavior engine needs about one gesture,
// besides the text context.
type KeyEvent struct {
	Gesture      Gesture
	Action       KeyboardAction
	KeyboardType KeyboardType
	HoldDuration time.Duration
}

// Decision is the outcome of a behavior evaluation.
type Decision struct {
	PreferredType     KeyboardType
	ShouldEndSentence bool
	ShouldCapsLock    bool
	DeleteRange       DeleteRange
}
