package ports

// Normalizer defines the interface for text normalization.
type Normalizer interface {
	Normalize(text string) string
}

// Tokenizer splits normalized text into terms.
type Tokenizer interface {
	Tokenize(text string) []string
}
