// handler.go
package keyboardbehavior

import (
	"strings"
	"time"
	"unicode"

	"github.com/baditaflorin/go_keyboard_behavior/internal/core/domain"
	"github.com/baditaflorin/go_keyboard_behavior/internal/core/word"
)

// Handle performs action for gesture on the host text, evaluates the
// behavior and applies the decision to the session's keyboard type. hold is
// how long the key has been held; it selects the backspace range.
//
// Taps, double taps and repeat presses edit the text. Long presses only
// update the decision state.
func (s *Session) Handle(tc TextContext, g Gesture, a KeyboardAction, hold time.Duration) Decision {
	s.mu.Lock()
	defer s.mu.Unlock()

	if g != domain.GestureLongPress {
		s.performLocked(tc, a, hold)
	}

	ev := domain.KeyEvent{Gesture: g, Action: a, KeyboardType: s.keyboardType, HoldDuration: hold}
	decision := s.behavior.Decide(tc, ev)

	if decision.ShouldEndSentence {
		s.endSentenceLocked(tc)
		// The closed sentence changes what the context prefers.
		decision.PreferredType = s.behavior.PreferredKeyboardType(g, a, tc, s.keyboardType)
		s.logger.Info("Sentence closed by double space", "session", s.id)
	}
	if decision.ShouldCapsLock {
		s.logger.Info("Caps lock enabled", "session", s.id)
	}
	if a.Kind == domain.ActionKindBackspace && decision.DeleteRange == domain.DeleteWord {
		s.logger.Debug("Backspace deletes words", "session", s.id, "hold", hold)
	}

	s.setKeyboardTypeLocked(decision.PreferredType)
	return decision
}

func (s *Session) performLocked(tc TextContext, a KeyboardAction, hold time.Duration) {
	switch a.Kind {
	case domain.ActionKindCharacter:
		s.insertLocked(tc, a.Text)
	case domain.ActionKindSpace:
		tc.Insert(" ")
	case domain.ActionKindBackspace:
		if s.behavior.BackspaceDeleteRange(hold) == domain.DeleteWord {
			s.words.DeleteWordBackward(tc)
		} else {
			tc.DeleteBackward(1)
		}
	case domain.ActionKindShift:
		s.setKeyboardTypeLocked(toggledShift(s.keyboardType))
	case domain.ActionKindKeyboardType:
		s.setKeyboardTypeLocked(a.KeyboardType)
	}
}

// insertLocked types text, replacing straight or locale quotation marks
// with the mark the context calls for.
func (s *Session) insertLocked(tc TextContext, text string) {
	if text == "" {
		return
	}
	text = s.config.Normalizer.Normalize(text)
	before, _ := tc.TextBeforeCursor()
	if replacement, ok := s.delims.PreferredQuotationReplacement(before, text); ok {
		text = replacement
	}
	tc.Insert(text)
}

// toggledShift is the type a shift press moves to before the behavior
// weighs in: lowercase goes up, anything else comes down.
func toggledShift(current KeyboardType) KeyboardType {
	if !current.IsAlphabetic() {
		return domain.Alphabetic(domain.CasingLowercased)
	}
	switch current.Casing {
	case domain.CasingLowercased, domain.CasingAuto:
		return domain.Alphabetic(domain.CasingUppercased)
	default:
		return domain.Alphabetic(domain.CasingLowercased)
	}
}

// endSentenceLocked replaces the trailing whitespace with ". ".
func (s *Session) endSentenceLocked(tc TextContext) {
	if s.words.IsCursorAtNewSentence(tc) {
		return
	}
	before, _ := tc.TextBeforeCursor()
	trimmed := strings.TrimRightFunc(before, unicode.IsSpace)
	if n := word.Count(before) - word.Count(trimmed); n > 0 {
		tc.DeleteBackward(n)
	}
	tc.Insert(". ")
}

// InsertSuggestion replaces the current word with an autocomplete
// suggestion, cased like the word being replaced, and adds a space.
func (s *Session) InsertSuggestion(tc TextContext, suggestion string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	text := s.config.Normalizer.Normalize(suggestion)
	current, _ := s.words.CurrentWord(tc)
	if current != "" {
		text = s.casing.CaseAdjusted(text, current)
		s.words.ReplaceCurrentWord(tc, text)
	} else {
		tc.Insert(text)
	}
	tc.Insert(" ")

	preferred := s.behavior.PreferredKeyboardType(domain.GestureTap, domain.ActionOther("suggestion"), tc, s.keyboardType)
	s.setKeyboardTypeLocked(preferred)
	s.logger.Debug("Suggestion inserted", "session", s.id, "replaced", current, "inserted", text)
}
