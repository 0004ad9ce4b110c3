// Package textanalysis exposes the keyboard's text analysis as plain
// functions over strings: casing checks, sentence and quotation boundaries,
// and current-word extraction for a locale.
package textanalysis

import (
	"golang.org/x/text/language"

	"github.com/baditaflorin/go_keyboard_behavior/internal/adapters/locale"
	"github.com/baditaflorin/go_keyboard_behavior/internal/adapters/logger"
	"github.com/baditaflorin/go_keyboard_behavior/internal/adapters/textbuffer"
	"github.com/baditaflorin/go_keyboard_behavior/internal/core/casing"
	"github.com/baditaflorin/go_keyboard_behavior/internal/core/delimiter"
	"github.com/baditaflorin/go_keyboard_behavior/internal/core/word"
	"github.com/baditaflorin/go_keyboard_behavior/internal/ports"
	"github.com/baditaflorin/l"
)

// IsCapitalized reports whether s equals its title-cased form.
func IsCapitalized(s string) bool { return casing.IsCapitalized(s) }

// IsLowercased reports whether s is lower case with at least one cased letter.
func IsLowercased(s string) bool { return casing.IsLowercased(s) }

// IsUppercased reports whether s is upper case with at least one cased letter.
func IsUppercased(s string) bool { return casing.IsUppercased(s) }

// CaseAdjusted returns template cased like reference.
func CaseAdjusted(template, reference string) string {
	return casing.CaseAdjusted(template, reference)
}

// IsLastSentenceEnded reports whether the last non-whitespace character of
// text ends a sentence.
func IsLastSentenceEnded(text string) bool { return delimiter.IsLastSentenceEnded(text) }

// LastSentence returns the sentence text ends with, if text ends directly
// in a sentence delimiter.
func LastSentence(text string) (string, bool) { return delimiter.LastSentence(text) }

// HasUnclosedQuotation reports whether text opens a quotation with begin
// that end does not close.
func HasUnclosedQuotation(text, begin, end string) bool {
	return delimiter.HasUnclosedQuotation(text, begin, end)
}

// Analyzer applies one locale's delimiter tables and casing rules.
type Analyzer struct {
	localeID string
	delims   *delimiter.Analyzer
	words    *word.Resolver
	casing   *casing.Analyzer
}

// Option defines a functional option for configuring an Analyzer.
type Option func(*analyzerConfig)

type analyzerConfig struct {
	Locale string
	Logger ports.Logger
}

// WithLocale sets the locale identifier.
func WithLocale(id string) Option {
	return func(cfg *analyzerConfig) {
		cfg.Locale = id
	}
}

// WithLogger sets a custom logger.
func WithLogger(lg l.Logger) Option {
	return func(cfg *analyzerConfig) {
		cfg.Logger = logger.FromExisting(lg)
	}
}

// New creates an analyzer. The locale defaults to English.
func New(opts ...Option) (*Analyzer, error) {
	config := &analyzerConfig{Locale: locale.DefaultID}
	for _, opt := range opts {
		opt(config)
	}
	if config.Logger == nil {
		config.Logger = logger.NewNopLogger()
	}

	registry, err := locale.NewRegistry(config.Logger)
	if err != nil {
		return nil, err
	}
	d := registry.Resolve(config.Locale)
	tag, err := language.Parse(d.ID)
	if err != nil {
		tag = language.Und
	}
	delims := delimiter.New(d)
	return &Analyzer{
		localeID: d.ID,
		delims:   delims,
		words:    word.NewResolver(delims),
		casing:   casing.For(tag),
	}, nil
}

// Locale returns the identifier of the resolved locale.
func (a *Analyzer) Locale() string { return a.localeID }

// CurrentWord returns the word around a cursor placed between before and
// after.
func (a *Analyzer) CurrentWord(before, after string) string {
	w, _ := a.words.CurrentWord(textbuffer.New(before, after))
	return w
}

// IsWordDelimiter reports whether s ends a word in this locale.
func (a *Analyzer) IsWordDelimiter(s string) bool { return a.delims.IsWordDelimiter(s) }

// IsSentenceDelimiter reports whether s ends a sentence in this locale.
func (a *Analyzer) IsSentenceDelimiter(s string) bool { return a.delims.IsSentenceDelimiter(s) }

// IsLastSentenceEnded is the package function with this locale's tables.
func (a *Analyzer) IsLastSentenceEnded(text string) bool {
	return a.delims.IsLastSentenceEnded(text)
}

// HasUnclosedQuotation reports whether text opens one of this locale's
// quotations without closing it.
func (a *Analyzer) HasUnclosedQuotation(text string) bool {
	return a.delims.HasUnclosedQuotation(text)
}

// PreferredQuotation returns the mark to insert instead of typed after
// before, or typed itself when no replacement applies.
func (a *Analyzer) PreferredQuotation(before, typed string) string {
	if r, ok := a.delims.PreferredQuotationReplacement(before, typed); ok {
		return r
	}
	return typed
}

// CaseAdjusted is the package function with this locale's casing rules.
func (a *Analyzer) CaseAdjusted(template, reference string) string {
	return a.casing.CaseAdjusted(template, reference)
}
