package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 200*time.Millisecond, cfg.BehaviorSettings().DoubleTapThreshold)
	assert.Equal(t, 3*time.Second, cfg.BehaviorSettings().EndSentenceThreshold)
	assert.Equal(t, 800*time.Millisecond, cfg.RepeatSettings().InitialDelay)
}

func TestLoadFormats(t *testing.T) {
	tests := []struct {
		name string
		file string
		data string
	}{
		{
			name: "toml",
			file: "kbb.toml",
			data: "locale = \"de\"\n[behavior]\ndouble_tap_threshold = \"250ms\"\n[repeat]\nrepeat_interval = \"50ms\"\n",
		},
		{
			name: "yaml",
			file: "kbb.yaml",
			data: "locale: de\nbehavior:\n  double_tap_threshold: 250ms\nrepeat:\n  repeat_interval: 50ms\n",
		},
		{
			name: "json",
			file: "kbb.json",
			data: `{"locale":"de","behavior":{"double_tap_threshold":"250ms"},"repeat":{"repeat_interval":"50ms"}}`,
		},
		{
			name: "autodetect",
			file: "kbb.conf",
			data: "locale = \"de\"\n[behavior]\ndouble_tap_threshold = \"250ms\"\n[repeat]\nrepeat_interval = \"50ms\"\n",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := Load(writeFile(t, tc.file, tc.data))
			require.NoError(t, err)
			assert.Equal(t, "de", cfg.Locale)
			assert.Equal(t, 250*time.Millisecond, cfg.Behavior.DoubleTapThreshold.Duration)
			assert.Equal(t, 50*time.Millisecond, cfg.Repeat.RepeatInterval.Duration)
			assert.Equal(t, 3*time.Second, cfg.Behavior.EndSentenceThreshold.Duration, "unset keys keep defaults")
		})
	}
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "en", cfg.Locale)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "bad.toml", "[behavior]\ndouble_tap_threshold = \"soon\"\n"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "invalid.toml", "[repeat]\nrepeat_interval = \"0s\"\n"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "norm.toml", "normalizer = \"soundex\"\n"))
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("KBB_LOCALE", "fr")
	t.Setenv("KBB_DOUBLE_TAP_THRESHOLD", "300ms")
	t.Setenv("KBB_INITIAL_DELAY", "1s")
	t.Setenv("KBB_LOG_JSON", "true")

	cfg, err := Load(writeFile(t, "kbb.toml", "locale = \"de\"\n"))
	require.NoError(t, err)
	assert.Equal(t, "fr", cfg.Locale)
	assert.Equal(t, 300*time.Millisecond, cfg.Behavior.DoubleTapThreshold.Duration)
	assert.Equal(t, time.Second, cfg.Repeat.InitialDelay.Duration)
	assert.True(t, cfg.Logging.JSON)
}

func TestEnvOverrideErrors(t *testing.T) {
	t.Setenv("KBB_LOG_JSON", "sometimes")
	_, err := Load("")
	assert.Error(t, err)
}

func TestDurationText(t *testing.T) {
	var d Duration
	require.NoError(t, d.UnmarshalText([]byte(" 1m30s ")))
	assert.Equal(t, 90*time.Second, d.Duration)

	text, err := d.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "1m30s", string(text))
}
