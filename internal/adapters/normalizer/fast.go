package normalizer

import (
	"unicode"
	"unicode/utf8"

	"github.com/baditaflorin/go_document_similarity/internal/pool"
	"github.com/baditaflorin/go_document_similarity/internal/ports"
)

// FastNormalizer lowercases and strips punctuation using a precomputed
// table for ASCII and pooled buffers. Non-ASCII runes fall back to the
// unicode package.
type FastNormalizer struct {
	// Pre-computed output byte for ASCII characters (0-127)
	asciiTable [128]byte

	bytePool *pool.BufferPool
}

// NewFastNormalizer creates a new fast normalizer with precomputed tables
func NewFastNormalizer() ports.Normalizer {
	n := &FastNormalizer{
		bytePool: pool.NewBufferPool(8192),
	}

	for i := 0; i < 128; i++ {
		r := rune(i)
		switch {
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			n.asciiTable[i] = ' '
		case unicode.IsUpper(r):
			n.asciiTable[i] = byte(unicode.ToLower(r))
		default:
			n.asciiTable[i] = byte(i)
		}
	}

	return n
}

// Normalize performs fast normalization with pre-computed decisions for ASCII
func (n *FastNormalizer) Normalize(text string) string {
	if len(text) == 0 {
		return ""
	}

	buffer := n.bytePool.Get()
	defer n.bytePool.Put(buffer)

	if cap(*buffer) < len(text) {
		*buffer = make([]byte, 0, len(text))
	}

	for i := 0; i < len(text); {
		b := text[i]
		if b < utf8.RuneSelf {
			*buffer = append(*buffer, n.asciiTable[b])
			i++
			continue
		}
		r, size := utf8.DecodeRuneInString(text[i:])
		if unicode.IsPunct(r) || unicode.IsSymbol(r) {
			*buffer = append(*buffer, ' ')
		} else {
			*buffer = utf8.AppendRune(*buffer, unicode.ToLower(r))
		}
		i += size
	}

	return string(*buffer)
}

// NormalizerType selects a normalizer implementation.
type NormalizerType int

const (
	// DefaultNormalizerType uses golang.org/x/text case mapping
	DefaultNormalizerType NormalizerType = iota
	// FastNormalizerType uses precomputed tables and is optimized for ASCII
	FastNormalizerType
)

// NormalizerFactory creates the appropriate normalizer based on performance requirements
type NormalizerFactory struct{}

// NewNormalizerFactory creates a new normalizer factory
func NewNormalizerFactory() *NormalizerFactory {
	return &NormalizerFactory{}
}

// CreateNormalizer creates a normalizer of the specified type
func (f *NormalizerFactory) CreateNormalizer(normalizerType NormalizerType) ports.Normalizer {
	switch normalizerType {
	case FastNormalizerType:
		return NewFastNormalizer()
	default:
		return NewDefaultNormalizer()
	}
}

// ParseNormalizerType maps "default" or "fast" to a NormalizerType.
func ParseNormalizerType(name string) (NormalizerType, bool) {
	switch name {
	case "", "default":
		return DefaultNormalizerType, true
	case "fast":
		return FastNormalizerType, true
	}
	return DefaultNormalizerType, false
}
