// Package word extracts and replaces the word under the cursor of a
// ports.TextContext and answers cursor-position questions the behavior
// engine needs.
package word

import (
	"strings"
	"unicode"

	"github.com/rivo/uniseg"

	"github.com/baditaflorin/go_keyboard_behavior/internal/core/delimiter"
	"github.com/baditaflorin/go_keyboard_behavior/internal/ports"
)

// Resolver finds word boundaries with the delimiters of one locale.
type Resolver struct {
	delims *delimiter.Analyzer
}

// NewResolver creates a Resolver. A nil analyzer uses the default tables.
func NewResolver(delims *delimiter.Analyzer) *Resolver {
	if delims == nil {
		delims = delimiter.Default()
	}
	return &Resolver{delims: delims}
}

// Characters splits s into user-perceived characters.
func Characters(s string) []string {
	out := make([]string, 0, len(s))
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		out = append(out, g.Str())
	}
	return out
}

// Count returns the number of user-perceived characters in s.
func Count(s string) int {
	return uniseg.GraphemeClusterCount(s)
}

// trailingRun returns the run of non-delimiter characters at the end of s.
func (r *Resolver) trailingRun(s string) []string {
	chars := Characters(s)
	i := len(chars)
	for i > 0 && !r.delims.IsWordDelimiter(chars[i-1]) {
		i--
	}
	return chars[i:]
}

// leadingRun returns the run of non-delimiter characters at the start of s.
func (r *Resolver) leadingRun(s string) []string {
	chars := Characters(s)
	i := 0
	for i < len(chars) && !r.delims.IsWordDelimiter(chars[i]) {
		i++
	}
	return chars[:i]
}

// CurrentWord returns the word the cursor is in or touches. It reports
// false only when the host provides neither side of the cursor; an empty
// word with ok == true means the cursor sits between delimiters.
func (r *Resolver) CurrentWord(tc ports.TextContext) (string, bool) {
	before, okBefore := tc.TextBeforeCursor()
	after, okAfter := tc.TextAfterCursor()
	if !okBefore && !okAfter {
		return "", false
	}
	pre := strings.Join(r.trailingRun(before), "")
	post := strings.Join(r.leadingRun(after), "")
	return pre + post, true
}

// WordBeforeCursor returns the part of the current word before the cursor.
func (r *Resolver) WordBeforeCursor(tc ports.TextContext) string {
	before, _ := tc.TextBeforeCursor()
	return strings.Join(r.trailingRun(before), "")
}

// ReplaceCurrentWord replaces the current word with replacement and leaves
// the cursor after it. It does nothing when there is no current word.
func (r *Resolver) ReplaceCurrentWord(tc ports.TextContext, replacement string) {
	before, okBefore := tc.TextBeforeCursor()
	after, okAfter := tc.TextAfterCursor()
	if !okBefore && !okAfter {
		return
	}
	pre, post := len(r.trailingRun(before)), len(r.leadingRun(after))
	if pre+post == 0 {
		return
	}
	if post > 0 {
		tc.MoveCursor(post)
	}
	tc.DeleteBackward(pre + post)
	tc.Insert(replacement)
}

// DeleteWordBackward removes the whitespace and delimiters right before the
// cursor, then the word fragment before them, and returns how many
// characters were removed. It removes at least one character when there is
// text before the cursor.
func (r *Resolver) DeleteWordBackward(tc ports.TextContext) int {
	before, _ := tc.TextBeforeCursor()
	chars := Characters(before)
	i := len(chars)
	for i > 0 && r.isSeparator(chars[i-1]) {
		i--
	}
	for i > 0 && !r.isSeparator(chars[i-1]) {
		i--
	}
	n := len(chars) - i
	if n > 0 {
		tc.DeleteBackward(n)
	}
	return n
}

func (r *Resolver) isSeparator(c string) bool {
	if r.delims.IsWordDelimiter(c) {
		return true
	}
	return strings.TrimFunc(c, unicode.IsSpace) == ""
}

// IsCursorAtNewWord reports whether the next character starts a new word:
// the document is empty before the cursor or ends in a word delimiter.
func (r *Resolver) IsCursorAtNewWord(tc ports.TextContext) bool {
	before, _ := tc.TextBeforeCursor()
	if before == "" {
		return true
	}
	chars := Characters(before)
	return r.delims.IsWordDelimiter(chars[len(chars)-1])
}

// IsCursorAtNewSentence reports whether the next character starts a new
// sentence: nothing but whitespace before the cursor, or a finished
// sentence followed by whitespace.
func (r *Resolver) IsCursorAtNewSentence(tc ports.TextContext) bool {
	before, _ := tc.TextBeforeCursor()
	return r.delims.IsLastSentenceEndedWithTrailingWhitespace(before)
}
