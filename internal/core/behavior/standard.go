// Package behavior decides how the keyboard reacts to gestures: which
// keyboard type to show next, when a double space closes a sentence, when a
// double shift tap locks caps, and how much a held backspace deletes.
package behavior

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/baditaflorin/go_keyboard_behavior/internal/core/delimiter"
	"github.com/baditaflorin/go_keyboard_behavior/internal/core/domain"
	"github.com/baditaflorin/go_keyboard_behavior/internal/core/word"
	"github.com/baditaflorin/go_keyboard_behavior/internal/ports"
)

// Config holds the timing thresholds of the standard behavior.
type Config struct {
	// DoubleTapThreshold is the longest gap between two shift taps that
	// still locks caps.
	DoubleTapThreshold time.Duration
	// EndSentenceThreshold is the longest gap between two space taps that
	// still closes the sentence.
	EndSentenceThreshold time.Duration
	// WordDeleteThreshold is how long backspace must be held before it
	// deletes whole words.
	WordDeleteThreshold time.Duration
}

// DefaultConfig returns the default thresholds.
func DefaultConfig() Config {
	return Config{
		DoubleTapThreshold:   200 * time.Millisecond,
		EndSentenceThreshold: 3 * time.Second,
		WordDeleteThreshold:  3 * time.Second,
	}
}

// Validate checks if the configuration is valid.
func (c Config) Validate() error {
	if c.DoubleTapThreshold <= 0 {
		return errors.New("double tap threshold must be greater than 0")
	}
	if c.EndSentenceThreshold <= 0 {
		return errors.New("end sentence threshold must be greater than 0")
	}
	if c.WordDeleteThreshold <= 0 {
		return errors.New("word delete threshold must be greater than 0")
	}
	return nil
}

// State is the mutable part of a behavior. Timestamps never move backwards.
type State struct {
	LastShiftTap     time.Time
	LastSpaceTap     time.Time
	CurrentHoldStart time.Time
}

// Standard is the adaptive keyboard behavior. One instance belongs to one
// keyboard session.
type Standard struct {
	mu     sync.Mutex
	config Config
	clock  ports.Clock
	logger ports.Logger
	delims *delimiter.Analyzer
	words  *word.Resolver
	state  State
}

var _ ports.KeyboardBehavior = (*Standard)(nil)

// NewStandard creates a standard behavior. A nil analyzer uses the default
// locale tables.
func NewStandard(config Config, clock ports.Clock, logger ports.Logger, delims *delimiter.Analyzer) (*Standard, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if clock == nil {
		return nil, errors.New("clock is required")
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}
	if delims == nil {
		delims = delimiter.Default()
	}
	return &Standard{
		config: config,
		clock:  clock,
		logger: logger,
		delims: delims,
		words:  word.NewResolver(delims),
	}, nil
}

// SetDelimiters switches the locale tables used for later decisions.
func (b *Standard) SetDelimiters(delims *delimiter.Analyzer) {
	if delims == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.delims = delims
	b.words = word.NewResolver(delims)
}

// State returns a copy of the behavior state.
func (b *Standard) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// advance moves *ts to now unless that would move it backwards.
func advance(ts *time.Time, now time.Time) {
	if now.After(*ts) {
		*ts = now
	}
}

// within reports whether now follows last by less than threshold. A zero
// last means there was no previous tap.
func within(last, now time.Time, threshold time.Duration) bool {
	if last.IsZero() {
		return false
	}
	d := now.Sub(last)
	return d >= 0 && d < threshold
}

// BackspaceDeleteRange returns DeleteWord once backspace has been held
// longer than the word delete threshold.
func (b *Standard) BackspaceDeleteRange(hold time.Duration) domain.DeleteRange {
	if hold > b.config.WordDeleteThreshold {
		return domain.DeleteWord
	}
	return domain.DeleteCharacter
}

// ShouldSwitchToCapsLock reports whether a shift tap follows the previous
// shift tap closely enough to lock caps. Every shift evaluation becomes the
// new baseline, so the third tap of a triple tap is measured against the
// second.
func (b *Standard) ShouldSwitchToCapsLock(g domain.Gesture, a domain.KeyboardAction) bool {
	if !a.IsShift() {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	now := b.clock.Now()
	hit := g == domain.GestureTap && within(b.state.LastShiftTap, now, b.config.DoubleTapThreshold)
	advance(&b.state.LastShiftTap, now)
	if hit {
		b.logger.Debug("Double shift tap locks caps")
	}
	return hit
}

// ShouldEndSentence reports whether a space tap should close the sentence:
// the text before the cursor ends in two spaces after an unfinished
// sentence and the previous space tap was recent. Every space evaluation
// becomes the new baseline.
func (b *Standard) ShouldEndSentence(g domain.Gesture, a domain.KeyboardAction, tc ports.TextContext) bool {
	if !a.InsertsSpace() {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	now := b.clock.Now()
	recent := within(b.state.LastSpaceTap, now, b.config.EndSentenceThreshold)
	advance(&b.state.LastSpaceTap, now)
	if g != domain.GestureTap || !recent {
		return false
	}
	before, _ := tc.TextBeforeCursor()
	return strings.HasSuffix(before, "  ") &&
		b.words.IsCursorAtNewWord(tc) &&
		!b.words.IsCursorAtNewSentence(tc)
}

// PreferredCasing returns the casing the host's autocapitalization hint
// asks for at the cursor. An absent hint counts as none.
func (b *Standard) PreferredCasing(tc ports.TextContext) domain.Casing {
	b.mu.Lock()
	words := b.words
	b.mu.Unlock()
	return preferredCasing(words, tc)
}

func preferredCasing(words *word.Resolver, tc ports.TextContext) domain.Casing {
	hint, ok := tc.AutocapitalizationHint()
	if !ok {
		hint = domain.HintNone
	}
	upperIf := func(cond bool) domain.Casing {
		if cond {
			return domain.CasingUppercased
		}
		return domain.CasingLowercased
	}
	switch hint {
	case domain.HintAllCharacters:
		return domain.CasingUppercased
	case domain.HintSentences:
		return upperIf(words.IsCursorAtNewSentence(tc))
	case domain.HintWords:
		return upperIf(words.IsCursorAtNewWord(tc))
	default:
		return domain.CasingLowercased
	}
}

// contextPreferredType is the type the text context asks for when the
// keyboard shows current. Caps lock is sticky; only alphabetic keyboards
// follow autocapitalization.
func contextPreferredType(words *word.Resolver, tc ports.TextContext, current domain.KeyboardType) domain.KeyboardType {
	if current.IsCapsLocked() || !current.IsAlphabetic() {
		return current
	}
	return domain.Alphabetic(preferredCasing(words, tc))
}

// ShouldSwitchToPreferredKeyboardType reports whether the keyboard should
// move to the type the context prefers after the gesture.
func (b *Standard) ShouldSwitchToPreferredKeyboardType(g domain.Gesture, a domain.KeyboardAction, tc ports.TextContext, current domain.KeyboardType) bool {
	b.mu.Lock()
	words := b.words
	b.mu.Unlock()
	return shouldSwitchToPreferred(words, g, a, tc, current)
}

func shouldSwitchToPreferred(words *word.Resolver, g domain.Gesture, a domain.KeyboardAction, tc ports.TextContext, current domain.KeyboardType) bool {
	switch a.Kind {
	case domain.ActionKindShift:
		return true
	case domain.ActionKindKeyboardType:
		return a.KeyboardType.Equal(domain.Alphabetic(domain.CasingAuto))
	default:
		return g == domain.GestureTap && !current.Equal(contextPreferredType(words, tc, current))
	}
}

// PreferredKeyboardType returns the keyboard type to show after the
// gesture. It evaluates the caps lock rule, which updates the shift tap
// baseline.
func (b *Standard) PreferredKeyboardType(g domain.Gesture, a domain.KeyboardAction, tc ports.TextContext, current domain.KeyboardType) domain.KeyboardType {
	capsLock := b.ShouldSwitchToCapsLock(g, a)
	return b.preferredType(capsLock, g, a, tc, current)
}

func (b *Standard) preferredType(capsLock bool, g domain.Gesture, a domain.KeyboardAction, tc ports.TextContext, current domain.KeyboardType) domain.KeyboardType {
	b.mu.Lock()
	delims, words := b.delims, b.words
	b.mu.Unlock()

	switch {
	case capsLock:
		return domain.Alphabetic(domain.CasingCapsLocked)
	case a.Kind == domain.ActionKindCharacter && delims.IsAlternateQuotationDelimiter(a.Text):
		return domain.Alphabetic(domain.CasingLowercased)
	case a.IsShift():
		return current
	case !shouldSwitchToPreferred(words, g, a, tc, current):
		return current
	case a.Kind == domain.ActionKindKeyboardType:
		return contextPreferredType(words, tc, a.KeyboardType)
	default:
		return contextPreferredType(words, tc, current)
	}
}

// Decide evaluates every rule for one gesture. Each timing rule is
// evaluated exactly once.
func (b *Standard) Decide(tc ports.TextContext, ev domain.KeyEvent) domain.Decision {
	capsLock := b.ShouldSwitchToCapsLock(ev.Gesture, ev.Action)
	endSentence := b.ShouldEndSentence(ev.Gesture, ev.Action, tc)
	decision := domain.Decision{
		PreferredType:     b.preferredType(capsLock, ev.Gesture, ev.Action, tc, ev.KeyboardType),
		ShouldEndSentence: endSentence,
		ShouldCapsLock:    capsLock,
		DeleteRange:       domain.DeleteCharacter,
	}

	if ev.Action.Kind == domain.ActionKindBackspace {
		decision.DeleteRange = b.BackspaceDeleteRange(ev.HoldDuration)
		b.recordHold(ev.HoldDuration)
	}

	b.logger.Debug("Behavior decision",
		"gesture", ev.Gesture.String(),
		"action", ev.Action.String(),
		"current_type", ev.KeyboardType.String(),
		"preferred_type", decision.PreferredType.String(),
		"end_sentence", decision.ShouldEndSentence,
		"caps_lock", decision.ShouldCapsLock,
		"delete_range", decision.DeleteRange.String(),
	)
	return decision
}

func (b *Standard) recordHold(hold time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()
	advance(&b.state.CurrentHoldStart, b.clock.Now().Add(-hold))
}
