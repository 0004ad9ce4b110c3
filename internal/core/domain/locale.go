package domain

// Default delimiter sets used when a locale does not override them.
const (
	DefaultWordDelimiters     = "!.?,;:()[]{}<> \n"
	DefaultSentenceDelimiters = "!.?"
)

// LocaleDelimiters holds the read-only, per-locale character tables used by
// the text analyzers.
type LocaleDelimiters struct {
	ID                      string
	SentenceDelimiters      []string
	WordDelimiters          []string
	QuotationBegin          string
	QuotationEnd            string
	AlternateQuotationBegin string
	AlternateQuotationEnd   string
}

// DefaultLocaleDelimiters returns the English tables.
func DefaultLocaleDelimiters() LocaleDelimiters {
	return LocaleDelimiters{
		ID:                      "en",
		SentenceDelimiters:      SplitCharacters(DefaultSentenceDelimiters),
		WordDelimiters:          SplitCharacters(DefaultWordDelimiters),
		QuotationBegin:          "“",
		QuotationEnd:            "”",
		AlternateQuotationBegin: "‘",
		AlternateQuotationEnd:   "’",
	}
}

// SplitCharacters splits s into one string per rune.
func SplitCharacters(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
