package delimiter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/baditaflorin/go_keyboard_behavior/internal/core/domain"
)

func TestIsLastSentenceEnded(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected bool
	}{
		{name: "empty", text: "", expected: false},
		{name: "whitespace only", text: "  \n", expected: false},
		{name: "ended", text: "some text.", expected: true},
		{name: "not ended", text: "some text", expected: false},
		{name: "ended with trailing space", text: "some text. ", expected: true},
		{name: "ended with newline", text: "some text!\n", expected: true},
		{name: "question", text: "really?", expected: true},
		{name: "comma is not a sentence delimiter", text: "well,", expected: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, IsLastSentenceEnded(tc.text))
		})
	}
}

func TestIsLastSentenceEndedWithTrailingWhitespace(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected bool
	}{
		{name: "empty", text: "", expected: true},
		{name: "whitespace only", text: "   ", expected: true},
		{name: "ended without whitespace", text: "Done.", expected: false},
		{name: "ended with space", text: "Done. ", expected: true},
		{name: "ended with newline", text: "Done?\n", expected: true},
		{name: "open sentence with space", text: "Done ", expected: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, IsLastSentenceEndedWithTrailingWhitespace(tc.text))
		})
	}
}

func TestLastSentence(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
		ok       bool
	}{
		{name: "single sentence", text: "sentence.", expected: "sentence", ok: true},
		{name: "trailing whitespace", text: "sentence. ", ok: false},
		{name: "not ended", text: "sentence", ok: false},
		{name: "empty", text: "", ok: false},
		{name: "second sentence", text: "First one. Second one!", expected: " Second one", ok: true},
		{name: "repeated delimiter", text: "Wait!!", expected: "", ok: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := LastSentence(tc.text)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestHasUnclosedQuotation(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		begin    string
		end      string
		expected bool
	}{
		{name: "distinct open", text: "He said “hi", begin: "“", end: "”", expected: true},
		{name: "distinct closed", text: "He said “hi”", begin: "“", end: "”", expected: false},
		{name: "distinct ends in opening", text: "“", begin: "“", end: "”", expected: true},
		{name: "distinct reopened", text: "“a” “b", begin: "“", end: "”", expected: true},
		{name: "same mark odd", text: "”hej", begin: "”", end: "”", expected: true},
		{name: "same mark even", text: "”hej”", begin: "”", end: "”", expected: false},
		{name: "no marks", text: "plain", begin: "«", end: "»", expected: false},
		{name: "empty marks", text: "“", begin: "", end: "", expected: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, HasUnclosedQuotation(tc.text, tc.begin, tc.end))
		})
	}
}

func TestAnalyzerQuotationPairs(t *testing.T) {
	a := Default()
	assert.True(t, a.HasUnclosedQuotation("say “"))
	assert.False(t, a.HasUnclosedQuotation("say “x”"))
	assert.True(t, a.HasUnclosedAlternateQuotation("‘x"))
	assert.False(t, a.HasUnclosedAlternateQuotation("‘x’"))
	assert.True(t, a.IsAlternateQuotationDelimiter("‘"))
	assert.True(t, a.IsAlternateQuotationDelimiter("’"))
	assert.False(t, a.IsAlternateQuotationDelimiter("“"))
	assert.False(t, a.IsAlternateQuotationDelimiter(""))
}

func TestPreferredQuotationReplacement(t *testing.T) {
	a := Default()
	tests := []struct {
		name     string
		before   string
		typed    string
		expected string
		ok       bool
	}{
		{name: "straight quote opens", before: "He said ", typed: `"`, expected: "“", ok: true},
		{name: "straight quote closes", before: "He said “hi", typed: `"`, expected: "”", ok: true},
		{name: "opening mark inside quotation closes", before: "“hi", typed: "“", expected: "”", ok: true},
		{name: "closing mark outside quotation opens", before: "", typed: "”", expected: "“", ok: true},
		{name: "already correct", before: "", typed: "“", ok: false},
		{name: "alternate opening closes", before: "‘hi", typed: "‘", expected: "’", ok: true},
		{name: "apostrophe kept", before: "don", typed: "’", ok: false},
		{name: "unrelated character", before: "", typed: "a", ok: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := a.PreferredQuotationReplacement(tc.before, tc.typed)
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.Equal(t, tc.expected, got)
			}
		})
	}
}

func TestLocaleOverrides(t *testing.T) {
	a := New(domain.LocaleDelimiters{
		ID:                 "ja",
		SentenceDelimiters: []string{"。", "！", "？"},
	})
	assert.True(t, a.IsLastSentenceEnded("終わり。"))
	assert.False(t, a.IsLastSentenceEnded("done."))
	assert.True(t, a.IsWordDelimiter(" "), "empty word list falls back to defaults")

	got, ok := a.LastSentence("一つ。二つ。")
	assert.True(t, ok)
	assert.Equal(t, "二つ", got)
}
