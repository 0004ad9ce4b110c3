// Package locale provides the per-locale delimiter tables consumed by the
// text analyzers: a registry with built-in tables, file loading in TOML,
// YAML or JSON, and hot reload of a user table file.
package locale

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/baditaflorin/go_keyboard_behavior/internal/core/domain"
)

// Table is the on-disk form of one locale's delimiters.
type Table struct {
	ID                      string   `toml:"id" yaml:"id" json:"id"`
	SentenceDelimiters      []string `toml:"sentence_delimiters" yaml:"sentence_delimiters" json:"sentence_delimiters"`
	WordDelimiters          []string `toml:"word_delimiters" yaml:"word_delimiters" json:"word_delimiters"`
	QuotationBegin          string   `toml:"quotation_begin" yaml:"quotation_begin" json:"quotation_begin"`
	QuotationEnd            string   `toml:"quotation_end" yaml:"quotation_end" json:"quotation_end"`
	AlternateQuotationBegin string   `toml:"alternate_quotation_begin" yaml:"alternate_quotation_begin" json:"alternate_quotation_begin"`
	AlternateQuotationEnd   string   `toml:"alternate_quotation_end" yaml:"alternate_quotation_end" json:"alternate_quotation_end"`
}

type tableFile struct {
	Locales []Table `toml:"locale" yaml:"locale" json:"locale"`
}

// Validate checks if the table is usable.
func (t Table) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return errors.New("locale id must not be empty")
	}
	if _, err := language.Parse(t.ID); err != nil {
		return fmt.Errorf("locale id %q: %w", t.ID, err)
	}
	if (t.QuotationBegin == "") != (t.QuotationEnd == "") {
		return fmt.Errorf("locale %s: quotation marks must be set in pairs", t.ID)
	}
	if (t.AlternateQuotationBegin == "") != (t.AlternateQuotationEnd == "") {
		return fmt.Errorf("locale %s: alternate quotation marks must be set in pairs", t.ID)
	}
	return nil
}

// Delimiters converts the table to the domain form. Missing delimiter
// lists take the defaults.
func (t Table) Delimiters() domain.LocaleDelimiters {
	d := domain.LocaleDelimiters{
		ID:                      t.ID,
		SentenceDelimiters:      t.SentenceDelimiters,
		WordDelimiters:          t.WordDelimiters,
		QuotationBegin:          t.QuotationBegin,
		QuotationEnd:            t.QuotationEnd,
		AlternateQuotationBegin: t.AlternateQuotationBegin,
		AlternateQuotationEnd:   t.AlternateQuotationEnd,
	}
	if len(d.SentenceDelimiters) == 0 {
		d.SentenceDelimiters = domain.SplitCharacters(domain.DefaultSentenceDelimiters)
	}
	if len(d.WordDelimiters) == 0 {
		d.WordDelimiters = domain.SplitCharacters(domain.DefaultWordDelimiters)
	}
	return d
}

// LoadFile reads locale tables from path. The format follows the file
// extension; unknown extensions are auto-detected.
func LoadFile(path string) ([]domain.LocaleDelimiters, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read locale file: %w", err)
	}
	return Decode(data, filepath.Ext(path))
}

// Decode parses locale tables in the format named by ext (".toml",
// ".yaml", ".yml" or ".json"). Any other ext tries each format in turn.
func Decode(data []byte, ext string) ([]domain.LocaleDelimiters, error) {
	var f tableFile
	switch strings.ToLower(ext) {
	case ".toml":
		if _, err := toml.Decode(string(data), &f); err != nil {
			return nil, fmt.Errorf("decode TOML: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("decode JSON: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("decode YAML: %w", err)
		}
	default:
		if err := autoDetectAndParse(data, &f); err != nil {
			return nil, fmt.Errorf("parse locale file: %w", err)
		}
	}

	if len(f.Locales) == 0 {
		return nil, errors.New("no locale tables found")
	}
	out := make([]domain.LocaleDelimiters, 0, len(f.Locales))
	for _, t := range f.Locales {
		if err := t.Validate(); err != nil {
			return nil, err
		}
		out = append(out, t.Delimiters())
	}
	return out, nil
}

func autoDetectAndParse(data []byte, f *tableFile) error {
	if _, err := toml.Decode(string(data), f); err == nil {
		return nil
	}
	if err := json.Unmarshal(data, f); err == nil {
		return nil
	}
	if err := yaml.Unmarshal(data, f); err == nil {
		return nil
	}
	return errors.New("unable to parse locale file (tried TOML, JSON, YAML)")
}
