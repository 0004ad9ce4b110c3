// Package casing detects the casing of strings and adjusts one string to the
// casing of another. All functions are total: the empty string is a valid
// input everywhere.
package casing

import (
	"golang.org/x/text/language"

	"github.com/baditaflorin/go_keyboard_behavior/internal/pool"
)

// Analyzer performs casing analysis with the rules of one language.
type Analyzer struct {
	casers *pool.CaserSet
}

// For returns an Analyzer using the casing rules of tag.
func For(tag language.Tag) *Analyzer {
	return &Analyzer{casers: pool.NewCaserSet(tag)}
}

var und = For(language.Und)

// Tag returns the language the analyzer applies.
func (a *Analyzer) Tag() language.Tag {
	return a.casers.Upper.Tag()
}

// Upper returns s in upper case.
func (a *Analyzer) Upper(s string) string { return a.casers.Upper.String(s) }

// Lower returns s in lower case.
func (a *Analyzer) Lower(s string) string { return a.casers.Lower.String(s) }

// Title returns s with the first letter of each word upper-cased and the
// rest lower-cased.
func (a *Analyzer) Title(s string) string { return a.casers.Title.String(s) }

// IsCapitalized reports whether s equals its title-cased form.
func (a *Analyzer) IsCapitalized(s string) bool {
	return s == a.Title(s)
}

// IsLowercased reports whether s is all lower case and has at least one
// cased letter.
func (a *Analyzer) IsLowercased(s string) bool {
	return s == a.Lower(s) && s != a.Upper(s)
}

// IsUppercased reports whether s is all upper case and has at least one
// cased letter.
func (a *Analyzer) IsUppercased(s string) bool {
	return s == a.Upper(s) && s != a.Lower(s)
}

// CaseAdjusted returns template cased like reference. A single upper-case
// letter counts as capitalized, so capitalization is checked first.
func (a *Analyzer) CaseAdjusted(template, reference string) string {
	switch {
	case a.IsCapitalized(reference):
		return a.Title(template)
	case a.IsUppercased(reference):
		return a.Upper(template)
	case a.IsLowercased(reference):
		return a.Lower(template)
	default:
		return template
	}
}

// IsCapitalized reports whether s equals its title-cased form.
func IsCapitalized(s string) bool { return und.IsCapitalized(s) }

// IsLowercased reports whether s is all lower case with at least one cased letter.
func IsLowercased(s string) bool { return und.IsLowercased(s) }

// IsUppercased reports whether s is all upper case with at least one cased letter.
func IsUppercased(s string) bool { return und.IsUppercased(s) }

// CaseAdjusted returns template cased like reference.
func CaseAdjusted(template, reference string) string {
	return und.CaseAdjusted(template, reference)
}
