package tokenizer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/baditaflorin/go_document_similarity/internal/ports"
)

// DefaultMinLength drops single character tokens such as "a" or "i".
const DefaultMinLength = 2

// WordTokenizer splits text on every rune that is neither a letter nor a digit.
type WordTokenizer struct {
	minLength int
}

// NewWordTokenizer creates a tokenizer that keeps tokens of at least
// minLength runes. Values below 1 are treated as 1.
func NewWordTokenizer(minLength int) ports.Tokenizer {
	if minLength < 1 {
		minLength = 1
	}
	return &WordTokenizer{minLength: minLength}
}

// Tokenize returns the word tokens of text in order of appearance.
func (t *WordTokenizer) Tokenize(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if t.minLength == 1 {
		return fields
	}
	tokens := fields[:0]
	for _, f := range fields {
		if utf8.RuneCountInString(f) >= t.minLength {
			tokens = append(tokens, f)
		}
	}
	return tokens
}
