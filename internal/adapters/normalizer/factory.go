package normalizer

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/baditaflorin/go_keyboard_behavior/internal/ports"
)

// NormalizerType selects the normalization applied to inserted text.
type NormalizerType int

const (
	// NFCType composes characters. It is the default.
	NFCType NormalizerType = iota
	// NFDType decomposes characters.
	NFDType
	// NFKCType composes and folds compatibility characters.
	NFKCType
	// IdentityType leaves text as typed.
	IdentityType
)

// NormalizerFactory creates normalizers by type or by name.
type NormalizerFactory struct{}

// NewNormalizerFactory creates a new normalizer factory
func NewNormalizerFactory() *NormalizerFactory {
	return &NormalizerFactory{}
}

// CreateNormalizer creates a normalizer of the specified type
func (f *NormalizerFactory) CreateNormalizer(normalizerType NormalizerType) ports.Normalizer {
	switch normalizerType {
	case NFDType:
		return NewFormNormalizer(norm.NFD)
	case NFKCType:
		return NewFormNormalizer(norm.NFKC)
	case IdentityType:
		return IdentityNormalizer{}
	default:
		return NewDefaultNormalizer()
	}
}

// ParseType maps a configuration name ("nfc", "nfd", "nfkc", "none") to a
// normalizer type. The empty name selects NFC.
func ParseType(name string) (NormalizerType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "nfc":
		return NFCType, nil
	case "nfd":
		return NFDType, nil
	case "nfkc":
		return NFKCType, nil
	case "none", "identity":
		return IdentityType, nil
	default:
		return NFCType, fmt.Errorf("unknown normalizer %q", name)
	}
}
