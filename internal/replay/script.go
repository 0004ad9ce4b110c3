// Package replay plays scripted key sequences against a session on a
// manual clock, so typing behavior can be reproduced step by step.
package replay

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/baditaflorin/go_keyboard_behavior/internal/config"
	"github.com/baditaflorin/go_keyboard_behavior/internal/core/domain"
)

// Script is a key sequence plus the text it starts from.
type Script struct {
	Locale       string `toml:"locale" yaml:"locale" json:"locale"`
	KeyboardType string `toml:"keyboard_type" yaml:"keyboard_type" json:"keyboard_type"`
	Hint         string `toml:"hint" yaml:"hint" json:"hint"`
	Before       string `toml:"before" yaml:"before" json:"before"`
	After        string `toml:"after" yaml:"after" json:"after"`
	Steps        []Step `toml:"steps" yaml:"steps" json:"steps"`
}

// Step is one key event. Advance moves the clock before the event. A step
// with Press set holds the key for Hold on a button instead of sending a
// single gesture.
type Step struct {
	Advance      config.Duration `toml:"advance" yaml:"advance" json:"advance"`
	Gesture      string          `toml:"gesture" yaml:"gesture" json:"gesture"`
	Action       string          `toml:"action" yaml:"action" json:"action"`
	Text         string          `toml:"text" yaml:"text" json:"text"`
	KeyboardType string          `toml:"keyboard_type" yaml:"keyboard_type" json:"keyboard_type"`
	Hold         config.Duration `toml:"hold" yaml:"hold" json:"hold"`
	Press        bool            `toml:"press" yaml:"press" json:"press"`
}

// LoadFile reads a script, choosing the format by extension.
func LoadFile(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return Decode(data, filepath.Ext(path))
}

// Decode parses a TOML, YAML or JSON script and validates it.
func Decode(data []byte, ext string) (*Script, error) {
	var sc Script
	var err error
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &sc)
	case ".json":
		err = json.Unmarshal(data, &sc)
	default:
		_, err = toml.Decode(string(data), &sc)
	}
	if err != nil {
		return nil, fmt.Errorf("decode script: %w", err)
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// Validate checks every name in the script.
func (sc *Script) Validate() error {
	var errs []error
	if sc.KeyboardType != "" {
		if _, err := ParseKeyboardType(sc.KeyboardType); err != nil {
			errs = append(errs, err)
		}
	}
	if _, err := ParseHint(sc.Hint); err != nil {
		errs = append(errs, err)
	}
	for i, st := range sc.Steps {
		if _, err := st.KeyEvent(); err != nil {
			errs = append(errs, fmt.Errorf("step %d: %w", i+1, err))
		}
		if st.Advance.Duration < 0 || st.Hold.Duration < 0 {
			errs = append(errs, fmt.Errorf("step %d: durations must not be negative", i+1))
		}
	}
	return errors.Join(errs...)
}

// KeyEvent converts the step's names. The keyboard type of the result is
// left for the session to fill in.
func (st Step) KeyEvent() (domain.KeyEvent, error) {
	g := domain.GestureTap
	if st.Gesture != "" {
		var err error
		if g, err = ParseGesture(st.Gesture); err != nil {
			return domain.KeyEvent{}, err
		}
	}
	a, err := st.action()
	if err != nil {
		return domain.KeyEvent{}, err
	}
	return domain.KeyEvent{Gesture: g, Action: a, HoldDuration: st.Hold.Duration}, nil
}

func (st Step) action() (domain.KeyboardAction, error) {
	switch key(st.Action) {
	case "character", "char":
		if st.Text == "" {
			return domain.KeyboardAction{}, errors.New("character action needs text")
		}
		return domain.ActionCharacter(st.Text), nil
	case "space":
		return domain.ActionSpace(), nil
	case "backspace":
		return domain.ActionBackspace(), nil
	case "shift":
		return domain.ActionShift(domain.CasingAuto), nil
	case "keyboardtype":
		t, err := ParseKeyboardType(st.KeyboardType)
		if err != nil {
			return domain.KeyboardAction{}, err
		}
		return domain.ActionKeyboardType(t), nil
	case "suggestion":
		if st.Text == "" {
			return domain.KeyboardAction{}, errors.New("suggestion action needs text")
		}
		return domain.ActionOther("suggestion"), nil
	default:
		return domain.KeyboardAction{}, fmt.Errorf("unknown action %q", st.Action)
	}
}

// IsSuggestion reports whether the step inserts an autocomplete suggestion.
func (st Step) IsSuggestion() bool { return key(st.Action) == "suggestion" }

func key(name string) string {
	r := strings.NewReplacer("_", "", "-", "", " ", "")
	return strings.ToLower(r.Replace(name))
}

// ParseGesture accepts tap, double_tap, long_press and repeat_press, in
// snake or camel case.
func ParseGesture(name string) (domain.Gesture, error) {
	switch key(name) {
	case "tap":
		return domain.GestureTap, nil
	case "doubletap":
		return domain.GestureDoubleTap, nil
	case "longpress":
		return domain.GestureLongPress, nil
	case "repeatpress":
		return domain.GestureRepeatPress, nil
	}
	return 0, fmt.Errorf("unknown gesture %q", name)
}

// ParseKeyboardType accepts a casing (auto, lowercased, uppercased,
// caps_locked) for alphabetic keyboards, a family name, or custom:<name>.
func ParseKeyboardType(name string) (domain.KeyboardType, error) {
	if rest, ok := strings.CutPrefix(name, "custom:"); ok && rest != "" {
		return domain.Custom(rest), nil
	}
	switch key(name) {
	case "alphabetic", "auto":
		return domain.Alphabetic(domain.CasingAuto), nil
	case "lowercased", "lower":
		return domain.Alphabetic(domain.CasingLowercased), nil
	case "uppercased", "upper":
		return domain.Alphabetic(domain.CasingUppercased), nil
	case "capslocked", "capslock":
		return domain.Alphabetic(domain.CasingCapsLocked), nil
	case "numeric":
		return domain.Numeric(), nil
	case "symbolic":
		return domain.Symbolic(), nil
	case "email":
		return domain.Email(), nil
	case "emojis", "emoji":
		return domain.Emojis(), nil
	}
	return domain.KeyboardType{}, fmt.Errorf("unknown keyboard type %q", name)
}

// ParseHint accepts none, words, sentences and all_characters. Empty is
// none.
func ParseHint(name string) (domain.AutocapitalizationHint, error) {
	switch key(name) {
	case "", "none":
		return domain.HintNone, nil
	case "words":
		return domain.HintWords, nil
	case "sentences":
		return domain.HintSentences, nil
	case "allcharacters", "all":
		return domain.HintAllCharacters, nil
	}
	return 0, fmt.Errorf("unknown autocapitalization hint %q", name)
}
