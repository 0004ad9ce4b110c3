package ports

// Normalizer defines the interface for normalizing text before it is
// inserted into a host document.
type Normalizer interface {
	Normalize(text string) string
}
