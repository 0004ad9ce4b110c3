package locale

import (
	_ "embed"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/text/language"

	"github.com/baditaflorin/go_keyboard_behavior/internal/core/domain"
	"github.com/baditaflorin/go_keyboard_behavior/internal/ports"
)

//go:embed data/locales.toml
var builtinTables []byte

// DefaultID is the locale used when nothing better matches.
const DefaultID = "en"

// Registry maps locale identifiers to delimiter tables. Lookups fall back
// from a regional identifier to its parents and then to its base language,
// so "de-AT" finds "de".
type Registry struct {
	mu     sync.RWMutex
	tables map[string]domain.LocaleDelimiters
	logger ports.Logger
}

// NewRegistry creates a registry holding the built-in tables.
func NewRegistry(logger ports.Logger) (*Registry, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	r := &Registry{
		tables: make(map[string]domain.LocaleDelimiters),
		logger: logger,
	}
	builtin, err := Decode(builtinTables, ".toml")
	if err != nil {
		return nil, fmt.Errorf("load built-in locales: %w", err)
	}
	if err := r.Register(builtin...); err != nil {
		return nil, err
	}
	return r, nil
}

func canonical(id string) (string, language.Tag, error) {
	tag, err := language.Parse(id)
	if err != nil {
		return "", language.Und, fmt.Errorf("parse locale %q: %w", id, err)
	}
	return tag.String(), tag, nil
}

// Register adds or replaces tables. Either every table is registered or
// none is.
func (r *Registry) Register(tables ...domain.LocaleDelimiters) error {
	keyed := make(map[string]domain.LocaleDelimiters, len(tables))
	for _, t := range tables {
		key, _, err := canonical(t.ID)
		if err != nil {
			return err
		}
		t.ID = key
		keyed[key] = t
	}

	r.mu.Lock()
	for key, t := range keyed {
		r.tables[key] = t
	}
	r.mu.Unlock()
	return nil
}

// LoadFile registers every table in the file at path.
func (r *Registry) LoadFile(path string) error {
	tables, err := LoadFile(path)
	if err != nil {
		return err
	}
	if err := r.Register(tables...); err != nil {
		return err
	}
	r.logger.Info("Locale tables loaded", "path", path, "count", len(tables))
	return nil
}

// Lookup returns the table for id or its closest registered ancestor.
func (r *Registry) Lookup(id string) (domain.LocaleDelimiters, bool) {
	key, tag, err := canonical(id)
	if err != nil {
		return domain.LocaleDelimiters{}, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if t, ok := r.tables[key]; ok {
		return t, true
	}
	for p := tag.Parent(); p != language.Und; p = p.Parent() {
		if t, ok := r.tables[p.String()]; ok {
			return t, true
		}
	}
	if base, conf := tag.Base(); conf != language.No {
		if t, ok := r.tables[base.String()]; ok {
			return t, true
		}
	}
	return domain.LocaleDelimiters{}, false
}

// Resolve returns the table for id, falling back to DefaultID and then to
// the built-in English delimiters.
func (r *Registry) Resolve(id string) domain.LocaleDelimiters {
	if t, ok := r.Lookup(id); ok {
		if t.ID != id {
			r.logger.Debug("Locale resolved by fallback", "requested", id, "resolved", t.ID)
		}
		return t
	}
	r.logger.Warn("Unknown locale, using default", "requested", id, "default", DefaultID)
	if t, ok := r.Lookup(DefaultID); ok {
		return t
	}
	return domain.DefaultLocaleDelimiters()
}

// IDs returns the registered identifiers in sorted order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.tables))
	for id := range r.tables {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
