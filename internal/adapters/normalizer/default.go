package normalizer

import (
	"golang.org/x/text/unicode/norm"

	"github.com/baditaflorin/go_keyboard_behavior/internal/ports"
)

// FormNormalizer applies one Unicode normalization form to text before it
// reaches the host buffer, so that a typed "é" and a suggested "é" produce
// the same grapheme.
type FormNormalizer struct {
	form norm.Form
}

// NewDefaultNormalizer creates the NFC normalizer used by sessions.
func NewDefaultNormalizer() ports.Normalizer {
	return &FormNormalizer{form: norm.NFC}
}

// NewFormNormalizer creates a normalizer for the given form.
func NewFormNormalizer(form norm.Form) ports.Normalizer {
	return &FormNormalizer{form: form}
}

// Normalize returns text in the normalizer's form.
func (n *FormNormalizer) Normalize(text string) string {
	// ASCII is invariant under every form.
	if isASCII(text) || n.form.IsNormalString(text) {
		return text
	}
	return n.form.String(text)
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}

// IdentityNormalizer passes text through unchanged.
type IdentityNormalizer struct{}

// Normalize returns text unchanged.
func (IdentityNormalizer) Normalize(text string) string { return text }
