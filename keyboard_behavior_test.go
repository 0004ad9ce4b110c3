// keyboard_behavior_test.go
package keyboardbehavior

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baditaflorin/go_keyboard_behavior/internal/adapters/clock"
	"github.com/baditaflorin/go_keyboard_behavior/internal/adapters/logger"
	"github.com/baditaflorin/go_keyboard_behavior/internal/adapters/textbuffer"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func newTestSession(t *testing.T, opts ...Option) (*Session, *clock.Manual) {
	t.Helper()
	c := clock.NewManual(epoch)
	base := []Option{WithLogger(logger.NewNopLogger()), WithClock(c)}
	s, err := New(append(base, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, c
}

func sentenceBuffer(before string) *textbuffer.Buffer {
	buf := textbuffer.New(before, "")
	buf.SetAutocapitalizationHint(HintSentences)
	return buf
}

func typeText(s *Session, buf *textbuffer.Buffer, text string) {
	for _, r := range text {
		s.Handle(buf, GestureTap, Character(string(r)), 0)
	}
}

func TestNewDefaults(t *testing.T) {
	s, _ := newTestSession(t)
	assert.NotEmpty(t, s.ID())
	assert.Equal(t, "en", s.Locale().ID)
	assert.Equal(t, Alphabetic(CasingAuto), s.KeyboardType())
}

func TestNewWithDefaultLogger(t *testing.T) {
	s, err := New()
	require.NoError(t, err)
	assert.NoError(t, s.Close())
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	_, err := New(WithLogger(logger.NewNopLogger()), WithDoubleTapThreshold(0))
	assert.Error(t, err)
	_, err = New(WithLogger(logger.NewNopLogger()), WithRepeatConfig(RepeatConfig{RepeatInterval: 0}))
	assert.Error(t, err)
}

func TestTypingSentences(t *testing.T) {
	s, c := newTestSession(t, WithKeyboardType(Alphabetic(CasingUppercased)))
	buf := sentenceBuffer("")

	typeText(s, buf, "Hello")
	assert.Equal(t, "Hello", buf.Text())
	assert.Equal(t, Alphabetic(CasingLowercased), s.KeyboardType(), "lowercase after the first letter")

	c.Advance(time.Second)
	d := s.Handle(buf, GestureTap, Space(), 0)
	assert.False(t, d.ShouldEndSentence)

	c.Advance(500 * time.Millisecond)
	d = s.Handle(buf, GestureTap, Space(), 0)
	assert.True(t, d.ShouldEndSentence)
	assert.Equal(t, "Hello. ", buf.Text())
	assert.Equal(t, Alphabetic(CasingUppercased), s.KeyboardType(), "new sentence uppercases")
}

func TestDoubleSpaceTooSlow(t *testing.T) {
	s, c := newTestSession(t)
	buf := sentenceBuffer("Hello")

	s.Handle(buf, GestureTap, Space(), 0)
	c.Advance(4 * time.Second)
	d := s.Handle(buf, GestureTap, Space(), 0)

	assert.False(t, d.ShouldEndSentence)
	assert.Equal(t, "Hello  ", buf.Text())
}

func TestShiftAndCapsLock(t *testing.T) {
	s, c := newTestSession(t, WithKeyboardType(Alphabetic(CasingLowercased)))
	buf := sentenceBuffer("Hi ")

	s.Handle(buf, GestureTap, Shift(CasingLowercased), 0)
	assert.Equal(t, Alphabetic(CasingUppercased), s.KeyboardType())

	c.Advance(100 * time.Millisecond)
	d := s.Handle(buf, GestureTap, Shift(CasingUppercased), 0)
	assert.True(t, d.ShouldCapsLock)
	assert.Equal(t, Alphabetic(CasingCapsLocked), s.KeyboardType())

	c.Advance(time.Second)
	typeText(s, buf, "ABC")
	assert.Equal(t, Alphabetic(CasingCapsLocked), s.KeyboardType(), "caps lock is sticky")

	c.Advance(time.Second)
	s.Handle(buf, GestureTap, Shift(CasingCapsLocked), 0)
	assert.Equal(t, Alphabetic(CasingLowercased), s.KeyboardType())
}

func TestBackspaceRanges(t *testing.T) {
	s, _ := newTestSession(t)
	buf := textbuffer.New("Hello world", "")

	d := s.Handle(buf, GestureTap, Backspace(), 0)
	assert.Equal(t, DeleteCharacter, d.DeleteRange)
	assert.Equal(t, "Hello worl", buf.Text())

	d = s.Handle(buf, GestureRepeatPress, Backspace(), 2900*time.Millisecond)
	assert.Equal(t, DeleteCharacter, d.DeleteRange)
	assert.Equal(t, "Hello wor", buf.Text())

	d = s.Handle(buf, GestureRepeatPress, Backspace(), 3100*time.Millisecond)
	assert.Equal(t, DeleteWord, d.DeleteRange)
	assert.Equal(t, "Hello ", buf.Text())

	s.Handle(buf, GestureRepeatPress, Backspace(), 3200*time.Millisecond)
	assert.Equal(t, "", buf.Text())
}

func TestLongPressDoesNotEdit(t *testing.T) {
	s, _ := newTestSession(t)
	buf := textbuffer.New("abc", "")
	s.Handle(buf, GestureLongPress, Backspace(), 0)
	s.Handle(buf, GestureLongPress, Character("x"), 0)
	assert.Equal(t, "abc", buf.Text())
}

func TestSmartQuotes(t *testing.T) {
	tests := []struct {
		locale string
		want   string
	}{
		{locale: "en", want: "“hi”"},
		{locale: "de-AT", want: "„hi“"},
		{locale: "fr", want: "«hi»"},
	}

	for _, tc := range tests {
		t.Run(tc.locale, func(t *testing.T) {
			s, _ := newTestSession(t, WithLocale(tc.locale))
			buf := textbuffer.New("", "")
			typeText(s, buf, `"hi"`)
			assert.Equal(t, tc.want, buf.Text())
		})
	}
}

func TestInsertedTextIsNormalized(t *testing.T) {
	s, _ := newTestSession(t)
	buf := textbuffer.New("caf", "")
	s.Handle(buf, GestureTap, Character("e\u0301"), 0)
	assert.Equal(t, "caf\u00e9", buf.Text())
}

func TestKeyboardTypeActions(t *testing.T) {
	s, _ := newTestSession(t)
	buf := sentenceBuffer("")

	s.Handle(buf, GestureTap, SwitchKeyboardType(Numeric()), 0)
	assert.Equal(t, Numeric(), s.KeyboardType())

	typeText(s, buf, "42")
	assert.Equal(t, Numeric(), s.KeyboardType(), "numeric keyboards ignore autocapitalization")

	s.Handle(buf, GestureTap, SwitchKeyboardType(Alphabetic(CasingAuto)), 0)
	assert.Equal(t, Alphabetic(CasingLowercased), s.KeyboardType(), "auto resolves from the context")
}

func TestInsertSuggestion(t *testing.T) {
	tests := []struct {
		name   string
		before string
		after  string
		want   string
	}{
		{name: "capitalized", before: "Say Hel", want: "Say Hello "},
		{name: "uppercased", before: "Say HEL", want: "Say HELLO "},
		{name: "lowercased", before: "say hel", want: "say hello "},
		{name: "cursor inside word", before: "say he", after: "lo!", want: "say hello !"},
		{name: "no current word", before: "say ", want: "say hello "},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s, _ := newTestSession(t)
			buf := textbuffer.New(tc.before, tc.after)
			s.InsertSuggestion(buf, "hello")
			assert.Equal(t, tc.want, buf.Text())
		})
	}
}

func TestCurrentWord(t *testing.T) {
	s, _ := newTestSession(t)
	word, ok := s.CurrentWord(textbuffer.New("Hello wor", "ld!"))
	require.True(t, ok)
	assert.Equal(t, "world", word)

	_, ok = s.CurrentWord(textbuffer.NewUnavailable())
	assert.False(t, ok)
}

func TestStaticBehavior(t *testing.T) {
	s, c := newTestSession(t, WithBehavior(NewStaticBehavior()), WithKeyboardType(Alphabetic(CasingLowercased)))
	buf := sentenceBuffer("Hello")

	s.Handle(buf, GestureTap, Space(), 0)
	c.Advance(100 * time.Millisecond)
	d := s.Handle(buf, GestureTap, Space(), 0)

	assert.False(t, d.ShouldEndSentence)
	assert.Equal(t, "Hello  ", buf.Text())
	assert.Equal(t, CasingLowercased, s.PreferredCasing(buf))
}

func TestDecideLeavesTextAlone(t *testing.T) {
	s, _ := newTestSession(t, WithKeyboardType(Alphabetic(CasingLowercased)))
	buf := sentenceBuffer("")

	d := s.Decide(GestureTap, Character("a"), buf, 0)
	assert.Equal(t, Alphabetic(CasingUppercased), d.PreferredType)
	assert.Equal(t, "", buf.Text())
	assert.Equal(t, Alphabetic(CasingLowercased), s.KeyboardType())
}

func TestSetLocale(t *testing.T) {
	s, _ := newTestSession(t)
	s.SetLocale("ja-JP")
	assert.Equal(t, "ja", s.Locale().ID)

	s.SetLocale("xx-unknown")
	assert.Equal(t, "en", s.Locale().ID)
}

func TestCustomLocaleRegistry(t *testing.T) {
	registry, err := NewLocaleRegistry(logger.NewNopLogger())
	require.NoError(t, err)
	cs := LocaleDelimiters{ID: "cs", QuotationBegin: "„", QuotationEnd: "“"}
	require.NoError(t, registry.Register(cs))

	s, _ := newTestSession(t, WithLocaleRegistry(registry), WithLocale("cs-CZ"))
	assert.Equal(t, "cs", s.Locale().ID)

	buf := textbuffer.New("", "")
	typeText(s, buf, `"a"`)
	assert.Equal(t, "„a“", buf.Text())
}

func TestNewFromConfigFile(t *testing.T) {
	dir := t.TempDir()
	localePath := filepath.Join(dir, "locales.yaml")
	require.NoError(t, os.WriteFile(localePath, []byte("locale:\n  - id: cs\n    quotation_begin: „\n    quotation_end: “\n"), 0o644))

	cfgPath := filepath.Join(dir, "kbb.toml")
	cfg := strings.Join([]string{
		`locale = "cs"`,
		`locale_file = "` + filepath.ToSlash(localePath) + `"`,
		`normalizer = "nfc"`,
		`warm_up = true`,
		`[behavior]`,
		`double_tap_threshold = "300ms"`,
	}, "\n")
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))

	c := clock.NewManual(epoch)
	s, err := NewFromConfigFile(cfgPath, WithLogger(logger.NewNopLogger()), WithClock(c))
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, "cs", s.Locale().ID)
	assert.NotNil(t, s.LocaleErrors())

	buf := textbuffer.New("", "")
	s.Handle(buf, GestureTap, Shift(CasingLowercased), 0)
	c.Advance(250 * time.Millisecond)
	d := s.Handle(buf, GestureTap, Shift(CasingUppercased), 0)
	assert.True(t, d.ShouldCapsLock, "file threshold applies")
}

func TestNewFromConfigFileErrors(t *testing.T) {
	_, err := NewFromConfigFile(filepath.Join(t.TempDir(), "missing.toml"), WithLogger(logger.NewNopLogger()))
	assert.Error(t, err)
}

func TestNewWithWarmUp(t *testing.T) {
	s, _ := newTestSession(t, WithWarmUp(true), WithLocale("de"))
	buf := textbuffer.New("", "")
	typeText(s, buf, `"ja"`)
	assert.Equal(t, "„ja“", buf.Text())
}

func TestTextBufferAlias(t *testing.T) {
	s, _ := newTestSession(t)
	buf := NewTextBuffer("Hi", "")
	s.Handle(buf, GestureTap, Character("!"), 0)
	assert.Equal(t, "Hi!", buf.Text())
}

func TestInjectedStandardBehaviorFollowsLocale(t *testing.T) {
	c := clock.NewManual(epoch)
	cfg := BehaviorConfig{
		DoubleTapThreshold:   200 * time.Millisecond,
		EndSentenceThreshold: 3 * time.Second,
		WordDeleteThreshold:  3 * time.Second,
	}
	std, err := NewStandardBehavior(cfg, c, logger.NewNopLogger())
	require.NoError(t, err)

	s, err := New(
		WithLogger(logger.NewNopLogger()),
		WithClock(c),
		WithBehavior(std),
		WithLocale("de"),
		WithKeyboardType(Alphabetic(CasingUppercased)),
	)
	require.NoError(t, err)
	defer s.Close()

	buf := textbuffer.New("", "")
	buf.SetAutocapitalizationHint(HintAllCharacters)
	assert.Equal(t, CasingUppercased, s.PreferredCasing(buf), "casing follows the hint")

	s.Handle(buf, GestureTap, Character("‚"), 0)
	assert.Equal(t, Alphabetic(CasingLowercased), s.KeyboardType(), "German alternate quote lowercases")

	s.SetLocale("en")
	s.SetKeyboardType(Alphabetic(CasingUppercased))
	s.Handle(buf, GestureTap, Character("‚"), 0)
	assert.Equal(t, Alphabetic(CasingUppercased), s.KeyboardType(), "not a quote mark in English")
}

func TestDecideUsesHoldDuration(t *testing.T) {
	s, _ := newTestSession(t)
	buf := textbuffer.New("Hello world", "")

	d := s.Decide(GestureRepeatPress, Backspace(), buf, 3100*time.Millisecond)
	assert.Equal(t, DeleteWord, d.DeleteRange)
	d = s.Decide(GestureRepeatPress, Backspace(), buf, time.Second)
	assert.Equal(t, DeleteCharacter, d.DeleteRange)
	assert.Equal(t, "Hello world", buf.Text())
}
