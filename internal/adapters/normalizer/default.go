package normalizer

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/baditaflorin/go_document_similarity/internal/ports"
)

// DefaultNormalizer implements the default text normalization strategy.
type DefaultNormalizer struct{}

// NewDefaultNormalizer creates a new default normalizer.
func NewDefaultNormalizer() ports.Normalizer {
	return &DefaultNormalizer{}
}

// Normalize applies Unicode lower casing and replaces punctuation and
// symbols with spaces.
func (n *DefaultNormalizer) Normalize(text string) string {
	if text == "" {
		return ""
	}
	// A Caser keeps state, so each call gets its own.
	text = cases.Lower(language.Und).String(text)
	var sb strings.Builder
	sb.Grow(len(text))
	for _, r := range text {
		if unicode.IsPunct(r) || unicode.IsSymbol(r) {
			sb.WriteRune(' ')
		} else {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
