// Package config loads session configuration from TOML, YAML or JSON files
// and applies KBB_* environment overrides.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joeshaw/envdecode"
	"gopkg.in/yaml.v3"

	"github.com/baditaflorin/go_keyboard_behavior/internal/adapters/normalizer"
	"github.com/baditaflorin/go_keyboard_behavior/internal/core/behavior"
	"github.com/baditaflorin/go_keyboard_behavior/internal/core/repeat"
)

// Duration is a time.Duration written as a string such as "200ms".
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", text, err)
	}
	d.Duration = v
	return nil
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// UnmarshalYAML parses a duration scalar.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	return d.UnmarshalText([]byte(value.Value))
}

// Config is the file form of a session configuration.
type Config struct {
	Locale     string         `toml:"locale" yaml:"locale" json:"locale"`
	LocaleFile string         `toml:"locale_file" yaml:"locale_file" json:"locale_file"`
	Normalizer string         `toml:"normalizer" yaml:"normalizer" json:"normalizer"`
	Behavior   BehaviorConfig `toml:"behavior" yaml:"behavior" json:"behavior"`
	Repeat     RepeatConfig   `toml:"repeat" yaml:"repeat" json:"repeat"`
	Logging    LoggingConfig  `toml:"logging" yaml:"logging" json:"logging"`
	// WarmUp exercises the analyzers when the session is created.
	WarmUp     bool           `toml:"warm_up" yaml:"warm_up" json:"warm_up"`
}

// BehaviorConfig holds the behavior thresholds.
type BehaviorConfig struct {
	DoubleTapThreshold   Duration `toml:"double_tap_threshold" yaml:"double_tap_threshold" json:"double_tap_threshold"`
	EndSentenceThreshold Duration `toml:"end_sentence_threshold" yaml:"end_sentence_threshold" json:"end_sentence_threshold"`
	WordDeleteThreshold  Duration `toml:"word_delete_threshold" yaml:"word_delete_threshold" json:"word_delete_threshold"`
}

// RepeatConfig holds the press-and-hold timings.
type RepeatConfig struct {
	InitialDelay   Duration `toml:"initial_delay" yaml:"initial_delay" json:"initial_delay"`
	RepeatInterval Duration `toml:"repeat_interval" yaml:"repeat_interval" json:"repeat_interval"`
}

// LoggingConfig selects the log output.
type LoggingConfig struct {
	JSON bool `toml:"json" yaml:"json" json:"json"`
	// Output is "stdout", "stderr" or a file path.
	Output string `toml:"output" yaml:"output" json:"output"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	b := behavior.DefaultConfig()
	r := repeat.DefaultConfig()
	return &Config{
		Locale:     "en",
		Normalizer: "nfc",
		Behavior: BehaviorConfig{
			DoubleTapThreshold:   Duration{b.DoubleTapThreshold},
			EndSentenceThreshold: Duration{b.EndSentenceThreshold},
			WordDeleteThreshold:  Duration{b.WordDeleteThreshold},
		},
		Repeat: RepeatConfig{
			InitialDelay:   Duration{r.InitialDelay},
			RepeatInterval: Duration{r.RepeatInterval},
		},
		Logging: LoggingConfig{Output: "stdout"},
	}
}

// BehaviorSettings converts the thresholds for the behavior engine.
func (c *Config) BehaviorSettings() behavior.Config {
	return behavior.Config{
		DoubleTapThreshold:   c.Behavior.DoubleTapThreshold.Duration,
		EndSentenceThreshold: c.Behavior.EndSentenceThreshold.Duration,
		WordDeleteThreshold:  c.Behavior.WordDeleteThreshold.Duration,
	}
}

// RepeatSettings converts the timings for the repeat timer.
func (c *Config) RepeatSettings() repeat.Config {
	return repeat.Config{
		InitialDelay:   c.Repeat.InitialDelay.Duration,
		RepeatInterval: c.Repeat.RepeatInterval.Duration,
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Locale) == "" {
		errs = append(errs, errors.New("locale must not be empty"))
	}
	if _, err := normalizer.ParseType(c.Normalizer); err != nil {
		errs = append(errs, err)
	}
	if err := c.BehaviorSettings().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("behavior: %w", err))
	}
	if err := c.RepeatSettings().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("repeat: %w", err))
	}
	return errors.Join(errs...)
}

// env holds the KBB_* overrides. Unset variables leave the file values alone.
type env struct {
	Locale               string        `env:"KBB_LOCALE"`
	LocaleFile           string        `env:"KBB_LOCALE_FILE"`
	Normalizer           string        `env:"KBB_NORMALIZER"`
	DoubleTapThreshold   time.Duration `env:"KBB_DOUBLE_TAP_THRESHOLD"`
	EndSentenceThreshold time.Duration `env:"KBB_END_SENTENCE_THRESHOLD"`
	WordDeleteThreshold  time.Duration `env:"KBB_WORD_DELETE_THRESHOLD"`
	InitialDelay         time.Duration `env:"KBB_INITIAL_DELAY"`
	RepeatInterval       time.Duration `env:"KBB_REPEAT_INTERVAL"`
	LogJSON              string        `env:"KBB_LOG_JSON"`
	LogOutput            string        `env:"KBB_LOG_OUTPUT"`
}

// ApplyEnvOverrides applies the KBB_* environment variables.
func (c *Config) ApplyEnvOverrides() error {
	var e env
	if err := envdecode.Decode(&e); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return fmt.Errorf("decode environment: %w", err)
	}

	setString := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	setDuration := func(dst *Duration, v time.Duration) {
		if v != 0 {
			dst.Duration = v
		}
	}

	setString(&c.Locale, e.Locale)
	setString(&c.LocaleFile, e.LocaleFile)
	setString(&c.Normalizer, e.Normalizer)
	setString(&c.Logging.Output, e.LogOutput)
	setDuration(&c.Behavior.DoubleTapThreshold, e.DoubleTapThreshold)
	setDuration(&c.Behavior.EndSentenceThreshold, e.EndSentenceThreshold)
	setDuration(&c.Behavior.WordDeleteThreshold, e.WordDeleteThreshold)
	setDuration(&c.Repeat.InitialDelay, e.InitialDelay)
	setDuration(&c.Repeat.RepeatInterval, e.RepeatInterval)
	if e.LogJSON != "" {
		v, err := strconv.ParseBool(e.LogJSON)
		if err != nil {
			return fmt.Errorf("KBB_LOG_JSON: %w", err)
		}
		c.Logging.JSON = v
	}
	return nil
}

// Load reads the configuration at path, applies environment overrides and
// validates the result. An empty path yields the defaults plus overrides.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := decode(data, filepath.Ext(path), cfg); err != nil {
			return nil, err
		}
	}
	if err := cfg.ApplyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	return cfg, nil
}

func decode(data []byte, ext string, cfg *Config) error {
	switch strings.ToLower(ext) {
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return fmt.Errorf("decode TOML: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("decode JSON: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("decode YAML: %w", err)
		}
	default:
		if _, err := toml.Decode(string(data), cfg); err == nil {
			return nil
		}
		if err := json.Unmarshal(data, cfg); err == nil {
			return nil
		}
		if err := yaml.Unmarshal(data, cfg); err == nil {
			return nil
		}
		return errors.New("unable to parse config file (tried TOML, JSON, YAML)")
	}
	return nil
}
