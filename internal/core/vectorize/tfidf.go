package vectorize

import (
	"errors"
	"math"
	"sort"

	"github.com/baditaflorin/go_document_similarity/internal/core/domain"
	"github.com/baditaflorin/go_document_similarity/internal/ports"
)

// Config holds configuration for the TF-IDF vectorizer.
type Config struct {
	// SmoothIDF adds one to every document frequency, as if an extra
	// document contained each term once. Prevents zero divisions.
	SmoothIDF bool
	// SublinearTF replaces raw counts with 1 + ln(count).
	SublinearTF bool
	// Normalize scales every vector to unit L2 length.
	Normalize bool
}

// DefaultConfig returns a default configuration.
func DefaultConfig() Config {
	return Config{
		SmoothIDF: true,
		Normalize: true,
	}
}

// TFIDF builds term-frequency, inverse-document-frequency vectors over the
// combined vocabulary of one batch.
type TFIDF struct {
	config     Config
	logger     ports.Logger
	normalizer ports.Normalizer
	tokenizer  ports.Tokenizer
}

// New creates a new TF-IDF vectorizer.
func New(config Config, logger ports.Logger, normalizer ports.Normalizer, tokenizer ports.Tokenizer) (*TFIDF, error) {
	if logger == nil {
		return nil, errors.New("logger is required")
	}
	if normalizer == nil {
		return nil, errors.New("normalizer is required")
	}
	if tokenizer == nil {
		return nil, errors.New("tokenizer is required")
	}
	return &TFIDF{
		config:     config,
		logger:     logger,
		normalizer: normalizer,
		tokenizer:  tokenizer,
	}, nil
}

// Vectorize returns the sorted batch vocabulary and one vector per text.
// Texts without terms yield zero vectors.
func (v *TFIDF) Vectorize(texts []string) (domain.Vocabulary, []domain.FeatureVector) {
	v.logger.Debug("Starting vectorization", "documents", len(texts))

	counts := make([]map[string]int, len(texts))
	docFreq := make(map[string]int)
	for i, text := range texts {
		terms := v.tokenizer.Tokenize(v.normalizer.Normalize(text))
		tf := make(map[string]int, len(terms))
		for _, term := range terms {
			if tf[term] == 0 {
				docFreq[term]++
			}
			tf[term]++
		}
		counts[i] = tf
	}

	vocab := make(domain.Vocabulary, 0, len(docFreq))
	for term := range docFreq {
		vocab = append(vocab, term)
	}
	sort.Strings(vocab)

	idf := v.inverseDocumentFrequencies(vocab, docFreq, len(texts))

	vectors := make([]domain.FeatureVector, len(texts))
	for i, tf := range counts {
		vec := make(domain.FeatureVector, len(vocab))
		for j, term := range vocab {
			c := tf[term]
			if c == 0 {
				continue
			}
			w := float64(c)
			if v.config.SublinearTF {
				w = 1 + math.Log(w)
			}
			vec[j] = w * idf[j]
		}
		if v.config.Normalize {
			normalizeL2(vec)
		}
		vectors[i] = vec
	}

	v.logger.Debug("Vectorization complete",
		"documents", len(texts),
		"vocabulary_size", len(vocab),
	)
	return vocab, vectors
}

func (v *TFIDF) inverseDocumentFrequencies(vocab domain.Vocabulary, docFreq map[string]int, n int) []float64 {
	smooth := 0.0
	if v.config.SmoothIDF {
		smooth = 1
	}
	idf := make([]float64, len(vocab))
	for j, term := range vocab {
		idf[j] = math.Log((float64(n)+smooth)/(float64(docFreq[term])+smooth)) + 1
	}
	return idf
}

func normalizeL2(vec domain.FeatureVector) {
	var sum float64
	for _, x := range vec {
		sum += x * x
	}
	if sum == 0 {
		return
	}
	norm := math.Sqrt(sum)
	for i := range vec {
		vec[i] /= norm
	}
}
