package replay

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	keyboardbehavior "github.com/baditaflorin/go_keyboard_behavior"
	"github.com/baditaflorin/go_keyboard_behavior/internal/adapters/logger"
	"github.com/baditaflorin/go_keyboard_behavior/internal/core/domain"
)

const sentenceScript = `
locale = "en"
keyboard_type = "uppercased"
hint = "sentences"

[[steps]]
action = "character"
text = "H"

[[steps]]
action = "character"
text = "i"

[[steps]]
advance = "1s"
action = "space"

[[steps]]
advance = "400ms"
action = "space"
`

func newPlayer(t *testing.T, sc *Script) *Player {
	t.Helper()
	p, err := NewPlayer(sc, keyboardbehavior.WithLogger(logger.NewNopLogger()))
	require.NoError(t, err)
	t.Cleanup(func() { p.Close() })
	return p
}

func TestRunSentenceScript(t *testing.T) {
	sc, err := Decode([]byte(sentenceScript), ".toml")
	require.NoError(t, err)

	p := newPlayer(t, sc)
	var out bytes.Buffer
	results, err := p.Run(context.Background(), &out)
	require.NoError(t, err)

	require.Len(t, results, 4)
	assert.Equal(t, domain.Alphabetic(domain.CasingLowercased), results[1].KeyboardType)
	assert.False(t, results[2].Decision.ShouldEndSentence)
	assert.True(t, results[3].Decision.ShouldEndSentence)
	assert.Equal(t, "Hi. ", p.Text())
	assert.Equal(t, 4, strings.Count(out.String(), "\n"))
}

func TestRunPressedBackspace(t *testing.T) {
	sc := &Script{
		Before: strings.Repeat("word ", 10),
		Steps:  []Step{{Action: "backspace", Press: true}},
	}
	sc.Steps[0].Hold.Duration = 3200 * time.Millisecond

	p := newPlayer(t, sc)
	results, err := p.Run(context.Background(), nil)
	require.NoError(t, err)

	require.Len(t, results, 25)
	assert.Equal(t, domain.GestureTap, results[0].Gesture)
	assert.Equal(t, domain.GestureRepeatPress, results[1].Gesture)
	assert.Equal(t, domain.DeleteWord, results[24].Decision.DeleteRange)
	assert.Equal(t, "word word word word ", p.Text())
}

func TestRunShiftUsesSessionCasing(t *testing.T) {
	sc := &Script{
		KeyboardType: "lowercased",
		Steps: []Step{
			{Action: "shift"},
			{Action: "shift"},
		},
	}
	sc.Steps[1].Advance.Duration = 100 * time.Millisecond

	p := newPlayer(t, sc)
	results, err := p.Run(context.Background(), nil)
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Equal(t, domain.CasingLowercased, results[0].Action.Casing)
	assert.True(t, results[1].Decision.ShouldCapsLock)
	assert.Equal(t, domain.Alphabetic(domain.CasingCapsLocked), p.Session().KeyboardType())
}

func TestRunSuggestion(t *testing.T) {
	sc := &Script{
		Before: "Say Hel",
		Steps:  []Step{{Action: "suggestion", Text: "hello"}},
	}
	p := newPlayer(t, sc)
	_, err := p.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "Say Hello ", p.Text())
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	sc := &Script{Steps: []Step{{Action: "space"}}}
	p := newPlayer(t, sc)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	results, err := p.Run(ctx, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, results)
}

func TestLoadFileYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "script.yaml")
	data := "locale: de\nsteps:\n  - action: character\n    text: '\"'\n  - action: character\n    text: a\n  - action: character\n    text: '\"'\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	sc, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, sc.Steps, 3)

	p := newPlayer(t, sc)
	_, err = p.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "„a“", p.Text())
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "unknown action", data: "[[steps]]\naction = \"jump\"\n"},
		{name: "unknown gesture", data: "[[steps]]\naction = \"space\"\ngesture = \"swipe\"\n"},
		{name: "character without text", data: "[[steps]]\naction = \"character\"\n"},
		{name: "bad keyboard type", data: "keyboard_type = \"qwerty\"\n"},
		{name: "bad hint", data: "hint = \"shout\"\n"},
		{name: "bad duration", data: "[[steps]]\naction = \"space\"\nadvance = \"soon\"\n"},
		{name: "malformed", data: "[[steps"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode([]byte(tc.data), ".toml")
			assert.Error(t, err)
		})
	}
}

func TestParseNames(t *testing.T) {
	g, err := ParseGesture("double_tap")
	require.NoError(t, err)
	assert.Equal(t, domain.GestureDoubleTap, g)

	g, err = ParseGesture("repeatPress")
	require.NoError(t, err)
	assert.Equal(t, domain.GestureRepeatPress, g)

	kt, err := ParseKeyboardType("custom:dvorak")
	require.NoError(t, err)
	assert.Equal(t, domain.Custom("dvorak"), kt)

	kt, err = ParseKeyboardType("caps_locked")
	require.NoError(t, err)
	assert.True(t, kt.IsCapsLocked())

	h, err := ParseHint("")
	require.NoError(t, err)
	assert.Equal(t, domain.HintNone, h)
}
