package ports

import (
	"context"

	"github.com/baditaflorin/go_document_similarity/internal/core/domain"
)

// Vectorizer turns a batch of texts into feature vectors sharing one vocabulary.
type Vectorizer interface {
	Vectorize(texts []string) (domain.Vocabulary, []domain.FeatureVector)
}

// PairScorer computes labelled similarities for every unordered pair of vectors.
type PairScorer interface {
	ScorePairs(names []string, vectors []domain.FeatureVector, threshold float64) ([]domain.PairResult, error)
}

// BatchScorer runs a full scoring pass over a batch of documents.
type BatchScorer interface {
	Score(ctx context.Context, docs []domain.Document, threshold float64) ([]domain.PairResult, error)
}
