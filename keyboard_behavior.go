// keyboard_behavior.go
// Package keyboardbehavior is the typing-behavior engine of a software
// keyboard. A Session turns gestures on keys into edits of the host's text
// and into keyboard-state decisions: which keyboard type to show next,
// when a double space closes a sentence, when a double shift tap locks
// caps, and how much a held backspace deletes.
//
// The host supplies a TextContext per keystroke; the session never owns
// it. Text analysis is parameterized by locale delimiter tables.
package keyboardbehavior

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/language"

	"github.com/baditaflorin/go_keyboard_behavior/internal/adapters/clock"
	"github.com/baditaflorin/go_keyboard_behavior/internal/adapters/locale"
	"github.com/baditaflorin/go_keyboard_behavior/internal/adapters/normalizer"
	"github.com/baditaflorin/go_keyboard_behavior/internal/config"
	"github.com/baditaflorin/go_keyboard_behavior/internal/core/behavior"
	"github.com/baditaflorin/go_keyboard_behavior/internal/core/casing"
	"github.com/baditaflorin/go_keyboard_behavior/internal/core/delimiter"
	"github.com/baditaflorin/go_keyboard_behavior/internal/core/domain"
	"github.com/baditaflorin/go_keyboard_behavior/internal/core/repeat"
	"github.com/baditaflorin/go_keyboard_behavior/internal/core/word"
	"github.com/baditaflorin/go_keyboard_behavior/internal/warmup"
)

// Config holds the session configuration.
type Config struct {
	// Locale selects the delimiter tables and casing rules.
	Locale string
	// LocaleRegistry supplies the tables. A registry with the built-in
	// tables is created when nil.
	LocaleRegistry *LocaleRegistry
	// Behavior replaces the standard behavior. BehaviorConfig is ignored
	// when it is set.
	Behavior       Behavior
	BehaviorConfig BehaviorConfig
	RepeatConfig   RepeatConfig
	Clock          Clock
	Logger         Logger
	Normalizer     Normalizer
	// KeyboardType is the type shown when the session starts.
	KeyboardType KeyboardType
	// WarmUp exercises the locale's analyzers before New returns, so the
	// first keystroke does not pay for pool and table setup.
	WarmUp bool
}

// Option defines a functional option for configuring a session.
type Option func(*Config)

// WithLogger sets a custom logger.
func WithLogger(logger Logger) Option {
	return func(cfg *Config) {
		cfg.Logger = logger
	}
}

// WithLocale sets the locale identifier, such as "de" or "en-GB".
func WithLocale(id string) Option {
	return func(cfg *Config) {
		cfg.Locale = id
	}
}

// WithLocaleRegistry sets the registry the locale is resolved from.
func WithLocaleRegistry(r *LocaleRegistry) Option {
	return func(cfg *Config) {
		cfg.LocaleRegistry = r
	}
}

// WithBehavior replaces the standard behavior.
func WithBehavior(b Behavior) Option {
	return func(cfg *Config) {
		cfg.Behavior = b
	}
}

// WithClock sets the clock used for tap timing and key repeat.
func WithClock(c Clock) Option {
	return func(cfg *Config) {
		cfg.Clock = c
	}
}

// WithRepeatConfig sets the press-and-hold timings of buttons.
func WithRepeatConfig(rc RepeatConfig) Option {
	return func(cfg *Config) {
		cfg.RepeatConfig = rc
	}
}

// WithBehaviorConfig sets all thresholds of the standard behavior.
func WithBehaviorConfig(bc BehaviorConfig) Option {
	return func(cfg *Config) {
		cfg.BehaviorConfig = bc
	}
}

// WithDoubleTapThreshold sets the shift double-tap window.
func WithDoubleTapThreshold(d time.Duration) Option {
	return func(cfg *Config) {
		cfg.BehaviorConfig.DoubleTapThreshold = d
	}
}

// WithEndSentenceThreshold sets the double-space window.
func WithEndSentenceThreshold(d time.Duration) Option {
	return func(cfg *Config) {
		cfg.BehaviorConfig.EndSentenceThreshold = d
	}
}

// WithNormalizer sets the normalizer applied to inserted text.
func WithNormalizer(n Normalizer) Option {
	return func(cfg *Config) {
		cfg.Normalizer = n
	}
}

// WithKeyboardType sets the initial keyboard type.
func WithKeyboardType(t KeyboardType) Option {
	return func(cfg *Config) {
		cfg.KeyboardType = t
	}
}

// WithWarmUp enables or disables warm-up on creation.
func WithWarmUp(enabled bool) Option {
	return func(cfg *Config) {
		cfg.WarmUp = enabled
	}
}

// Session is one keyboard session: it owns the behavior state and the
// current keyboard type. Its methods are safe for concurrent use; gestures
// are handled one at a time.
type Session struct {
	id     string
	config Config
	logger Logger

	mu           sync.Mutex
	behavior     Behavior
	standard     *behavior.Standard
	delims       *delimiter.Analyzer
	words        *word.Resolver
	casing       *casing.Analyzer
	keyboardType KeyboardType
	watcher      *locale.Watcher
	closers      []io.Closer
}

// New creates a session with the provided functional options.
// If no logger is provided, a default logger is created.
func New(opts ...Option) (*Session, error) {
	cfg := Config{
		Locale:         locale.DefaultID,
		BehaviorConfig: behavior.DefaultConfig(),
		RepeatConfig:   repeat.DefaultConfig(),
		KeyboardType:   domain.Alphabetic(domain.CasingAuto),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return newSession(cfg)
}

func newSession(cfg Config) (*Session, error) {
	var closers []io.Closer
	if cfg.Logger == nil {
		logger, err := createDefaultLogger()
		if err != nil {
			return nil, fmt.Errorf("create logger: %w", err)
		}
		cfg.Logger = logger
		closers = append(closers, logger)
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.NewSystem()
	}
	if cfg.Normalizer == nil {
		cfg.Normalizer = normalizer.NewDefaultNormalizer()
	}
	if err := cfg.RepeatConfig.Validate(); err != nil {
		closeAll(closers)
		return nil, fmt.Errorf("repeat config: %w", err)
	}
	if cfg.LocaleRegistry == nil {
		r, err := locale.NewRegistry(cfg.Logger)
		if err != nil {
			closeAll(closers)
			return nil, err
		}
		cfg.LocaleRegistry = r
	}

	s := &Session{
		id:           uuid.NewString(),
		config:       cfg,
		logger:       cfg.Logger,
		behavior:     cfg.Behavior,
		keyboardType: cfg.KeyboardType,
		closers:      closers,
	}
	if std, ok := cfg.Behavior.(*behavior.Standard); ok {
		s.standard = std
	}
	s.applyLocaleLocked(cfg.LocaleRegistry.Resolve(cfg.Locale))

	if s.behavior == nil {
		std, err := behavior.NewStandard(cfg.BehaviorConfig, cfg.Clock, cfg.Logger, s.delims)
		if err != nil {
			closeAll(closers)
			return nil, fmt.Errorf("behavior config: %w", err)
		}
		s.behavior, s.standard = std, std
	}

	if cfg.WarmUp {
		wm := warmup.NewManager(s.logger, warmup.DefaultWarmupConfig())
		wm.RegisterNormalizer(cfg.Normalizer)
		wm.RegisterCaser(s.casing)
		wm.RegisterDelimiters(s.delims)
		wm.WarmUp(context.Background())
	}

	s.logger.Info("Keyboard session created",
		"session", s.id,
		"locale", s.delims.Locale().ID,
		"keyboard_type", s.keyboardType.String(),
	)
	return s, nil
}

// NewFromConfigFile creates a session from a TOML, YAML or JSON file plus
// KBB_* environment overrides. An empty path uses the defaults. Options
// are applied after the file.
func NewFromConfigFile(path string, opts ...Option) (*Session, error) {
	fileCfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	cfg := Config{
		Locale:         fileCfg.Locale,
		BehaviorConfig: fileCfg.BehaviorSettings(),
		RepeatConfig:   fileCfg.RepeatSettings(),
		KeyboardType:   domain.Alphabetic(domain.CasingAuto),
		WarmUp:         fileCfg.WarmUp,
	}
	typ, err := normalizer.ParseType(fileCfg.Normalizer)
	if err != nil {
		return nil, err
	}
	cfg.Normalizer = normalizer.NewNormalizerFactory().CreateNormalizer(typ)

	// Only build the file-configured logger when no option supplies one.
	var probe Config
	for _, opt := range opts {
		opt(&probe)
	}
	var closers []io.Closer
	if probe.Logger == nil {
		log, fileCloser, err := newConfiguredLogger(fileCfg.Logging.Output, fileCfg.Logging.JSON)
		if err != nil {
			return nil, err
		}
		cfg.Logger = log
		closers = append(closers, log)
		if fileCloser != nil {
			closers = append(closers, fileCloser)
		}
	}

	for _, opt := range opts {
		opt(&cfg)
	}
	s, err := newSession(cfg)
	if err != nil {
		closeAll(closers)
		return nil, err
	}
	s.closers = append(s.closers, closers...)

	if fileCfg.LocaleFile != "" {
		if err := s.WatchLocaleFile(fileCfg.LocaleFile); err != nil {
			s.Close()
			return nil, err
		}
	}
	return s, nil
}

func (s *Session) applyLocaleLocked(d LocaleDelimiters) {
	s.delims = delimiter.New(d)
	s.words = word.NewResolver(s.delims)
	tag, err := language.Parse(d.ID)
	if err != nil {
		tag = language.Und
	}
	s.casing = casing.For(tag)
	if s.standard != nil {
		s.standard.SetDelimiters(s.delims)
	}
}

// ID returns the session identifier used in log records.
func (s *Session) ID() string { return s.id }

// Locale returns the delimiter tables in use.
func (s *Session) Locale() LocaleDelimiters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.delims.Locale()
}

// SetLocale switches to the tables for id, falling back along the locale
// hierarchy and finally to English.
func (s *Session) SetLocale(id string) {
	d := s.config.LocaleRegistry.Resolve(id)
	s.mu.Lock()
	s.config.Locale = id
	s.applyLocaleLocked(d)
	s.mu.Unlock()
	s.logger.Info("Locale changed", "session", s.id, "requested", id, "resolved", d.ID)
}

// WatchLocaleFile loads the locale tables in path and reloads them when the
// file changes. The session's locale is re-resolved after every reload.
func (s *Session) WatchLocaleFile(path string) error {
	w := locale.NewWatcher(path, s.config.LocaleRegistry)
	w.OnChange(func([]domain.LocaleDelimiters) {
		s.mu.Lock()
		id := s.config.Locale
		s.mu.Unlock()
		s.SetLocale(id)
	})
	if err := w.Watch(); err != nil {
		return err
	}

	s.mu.Lock()
	previous := s.watcher
	s.watcher = w
	id := s.config.Locale
	s.mu.Unlock()
	if previous != nil {
		previous.Close()
	}
	s.SetLocale(id)
	return nil
}

// LocaleErrors returns reload errors of the watched locale file, or nil
// when no file is watched.
func (s *Session) LocaleErrors() <-chan error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.watcher == nil {
		return nil
	}
	return s.watcher.Errors()
}

// Behavior returns the behavior in use.
func (s *Session) Behavior() Behavior { return s.behavior }

// KeyboardType returns the keyboard type currently shown.
func (s *Session) KeyboardType() KeyboardType {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.keyboardType
}

// SetKeyboardType shows t.
func (s *Session) SetKeyboardType(t KeyboardType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setKeyboardTypeLocked(t)
}

func (s *Session) setKeyboardTypeLocked(t KeyboardType) {
	if s.keyboardType.Equal(t) {
		return
	}
	s.logger.Debug("Keyboard type changed", "session", s.id, "from", s.keyboardType.String(), "to", t.String())
	s.keyboardType = t
}

// Decide evaluates the behavior for a gesture without touching the text or
// the keyboard type. hold is how long the key has been held. Timing state
// is still updated.
func (s *Session) Decide(g Gesture, a KeyboardAction, tc TextContext, hold time.Duration) Decision {
	s.mu.Lock()
	current := s.keyboardType
	s.mu.Unlock()
	return s.behavior.Decide(tc, domain.KeyEvent{Gesture: g, Action: a, KeyboardType: current, HoldDuration: hold})
}

// PreferredCasing returns the casing the text context asks for.
func (s *Session) PreferredCasing(tc TextContext) Casing {
	if s.standard != nil {
		return s.standard.PreferredCasing(tc)
	}
	return s.KeyboardType().Casing
}

// CurrentWord returns the word at the cursor.
func (s *Session) CurrentWord(tc TextContext) (string, bool) {
	s.mu.Lock()
	words := s.words
	s.mu.Unlock()
	return words.CurrentWord(tc)
}

// Close stops the locale watcher and releases the logger the session
// created.
func (s *Session) Close() error {
	s.mu.Lock()
	w := s.watcher
	s.watcher = nil
	closers := s.closers
	s.closers = nil
	s.mu.Unlock()

	var errs []error
	if w != nil {
		errs = append(errs, w.Close())
	}
	errs = append(errs, closeAll(closers))
	return errors.Join(errs...)
}

func closeAll(closers []io.Closer) error {
	var errs []error
	for _, c := range closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}
