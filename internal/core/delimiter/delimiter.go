// Package delimiter detects word and sentence boundaries and unbalanced
// quotations in text, using per-locale delimiter tables.
package delimiter

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/baditaflorin/go_keyboard_behavior/internal/core/domain"
)

// Analyzer answers boundary questions for one set of locale tables.
// It is immutable and safe for concurrent use.
type Analyzer struct {
	locale   domain.LocaleDelimiters
	word     map[string]struct{}
	sentence map[string]struct{}
}

// New creates an Analyzer for the given tables. Empty delimiter lists fall
// back to the defaults.
func New(d domain.LocaleDelimiters) *Analyzer {
	if len(d.WordDelimiters) == 0 {
		d.WordDelimiters = domain.SplitCharacters(domain.DefaultWordDelimiters)
	}
	if len(d.SentenceDelimiters) == 0 {
		d.SentenceDelimiters = domain.SplitCharacters(domain.DefaultSentenceDelimiters)
	}
	return &Analyzer{
		locale:   d,
		word:     toSet(d.WordDelimiters),
		sentence: toSet(d.SentenceDelimiters),
	}
}

var defaultAnalyzer = New(domain.DefaultLocaleDelimiters())

// Default returns the analyzer for the default (English) tables.
func Default() *Analyzer { return defaultAnalyzer }

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[item] = struct{}{}
	}
	return set
}

// Locale returns the tables the analyzer was built from.
func (a *Analyzer) Locale() domain.LocaleDelimiters { return a.locale }

// IsWordDelimiter reports whether s is a single word delimiter.
func (a *Analyzer) IsWordDelimiter(s string) bool {
	_, ok := a.word[s]
	return ok
}

// IsSentenceDelimiter reports whether s is a single sentence delimiter.
func (a *Analyzer) IsSentenceDelimiter(s string) bool {
	_, ok := a.sentence[s]
	return ok
}

// IsAlternateQuotationDelimiter reports whether s is the locale's alternate
// opening or closing quotation mark.
func (a *Analyzer) IsAlternateQuotationDelimiter(s string) bool {
	if s == "" {
		return false
	}
	return s == a.locale.AlternateQuotationBegin || s == a.locale.AlternateQuotationEnd
}

func (a *Analyzer) isSentenceRune(r rune) bool {
	return a.IsSentenceDelimiter(string(r))
}

// IsLastSentenceEnded reports whether the last non-whitespace character of
// text is a sentence delimiter.
func (a *Analyzer) IsLastSentenceEnded(text string) bool {
	trimmed := strings.TrimRightFunc(text, unicode.IsSpace)
	if trimmed == "" {
		return false
	}
	r, _ := utf8.DecodeLastRuneInString(trimmed)
	return a.isSentenceRune(r)
}

// IsLastSentenceEndedWithTrailingWhitespace reports whether text is empty,
// whitespace only, or a finished sentence followed by whitespace.
func (a *Analyzer) IsLastSentenceEndedWithTrailingWhitespace(text string) bool {
	trimmed := strings.TrimRightFunc(text, unicode.IsSpace)
	if trimmed == "" {
		return true
	}
	return len(trimmed) < len(text) && a.IsLastSentenceEnded(trimmed)
}

// LastSentence returns the sentence that text ends with, without its
// delimiters. It reports false unless text ends directly in a sentence
// delimiter.
func (a *Analyzer) LastSentence(text string) (string, bool) {
	last, size := utf8.DecodeLastRuneInString(text)
	if size == 0 || !a.isSentenceRune(last) {
		return "", false
	}
	body := text[:len(text)-size]
	idx := strings.LastIndexFunc(body, a.isSentenceRune)
	if idx < 0 {
		return body, true
	}
	_, prevSize := utf8.DecodeRuneInString(body[idx:])
	return body[idx+prevSize:], true
}

// HasUnclosedQuotation reports whether text opens a quotation with the
// locale's primary marks that it does not close.
func (a *Analyzer) HasUnclosedQuotation(text string) bool {
	return HasUnclosedQuotation(text, a.locale.QuotationBegin, a.locale.QuotationEnd)
}

// HasUnclosedAlternateQuotation is HasUnclosedQuotation for the alternate
// marks.
func (a *Analyzer) HasUnclosedAlternateQuotation(text string) bool {
	return HasUnclosedQuotation(text, a.locale.AlternateQuotationBegin, a.locale.AlternateQuotationEnd)
}

// HasUnclosedQuotation reports whether text has more opening marks than
// closing ones. When both marks are the same character every occurrence
// toggles the state, so an odd count is unclosed.
func HasUnclosedQuotation(text, begin, end string) bool {
	if begin == "" || end == "" {
		return false
	}
	if begin == end {
		return strings.Count(text, begin)%2 == 1
	}
	return strings.Count(text, begin) > strings.Count(text, end)
}

// PreferredQuotationReplacement returns the mark that should be inserted
// instead of typed, given the text before the cursor. A straight double
// quote or either primary mark becomes the opening or closing mark
// depending on whether a quotation is open. An alternate opening mark
// becomes the closing mark inside an open alternate quotation; the
// alternate closing mark is left alone because it doubles as apostrophe.
func (a *Analyzer) PreferredQuotationReplacement(before, typed string) (string, bool) {
	l := a.locale
	if typed == "" {
		return "", false
	}
	if l.QuotationBegin != "" && (typed == `"` || typed == l.QuotationBegin || typed == l.QuotationEnd) {
		want := l.QuotationBegin
		if a.HasUnclosedQuotation(before) {
			want = l.QuotationEnd
		}
		return want, want != typed
	}
	if l.AlternateQuotationBegin != "" && typed == l.AlternateQuotationBegin &&
		l.AlternateQuotationBegin != l.AlternateQuotationEnd && a.HasUnclosedAlternateQuotation(before) {
		return l.AlternateQuotationEnd, true
	}
	return "", false
}

// IsLastSentenceEnded uses the default tables.
func IsLastSentenceEnded(text string) bool {
	return defaultAnalyzer.IsLastSentenceEnded(text)
}

// IsLastSentenceEndedWithTrailingWhitespace uses the default tables.
func IsLastSentenceEndedWithTrailingWhitespace(text string) bool {
	return defaultAnalyzer.IsLastSentenceEndedWithTrailingWhitespace(text)
}

// LastSentence uses the default tables.
func LastSentence(text string) (string, bool) {
	return defaultAnalyzer.LastSentence(text)
}
