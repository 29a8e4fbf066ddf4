// Package documentsimilarity flags pairs of documents whose TF-IDF cosine
// similarity reaches a threshold percentage.
//
// Every document of a batch is lowercased, split into word tokens and
// weighted with smoothed inverse document frequencies computed over that
// batch only:
//
//	idf(t) = ln((1 + n) / (1 + df(t))) + 1
//
// Vectors are L2 normalised and every unordered pair (i, j), i < j, is
// scored as 100 * cos(v_i, v_j). A pair is HIGH when its score is at least
// the threshold. Documents without tokens score 0 against everything.
//
// Score is a pure function of its inputs; use pkg/similarity for logging,
// tuning options and upload decoding.
package documentsimilarity

import (
	"context"

	"github.com/baditaflorin/go_document_similarity/internal/adapters/logger"
	"github.com/baditaflorin/go_document_similarity/pkg/similarity"
	"github.com/baditaflorin/l"
)

// Score returns the labelled similarity of every unordered pair of docs,
// in input order. It does not log.
func Score(docs []similarity.Document, threshold float64) ([]similarity.PairResult, error) {
	ds, err := similarity.New(similarity.WithPortLogger(logger.NewNopLogger()))
	if err != nil {
		return nil, err
	}
	return ds.Score(context.Background(), docs, threshold)
}

// ScoreWithDefaults scores docs against similarity.DefaultThreshold.
func ScoreWithDefaults(docs []similarity.Document) ([]similarity.PairResult, error) {
	return Score(docs, similarity.DefaultThreshold)
}

// ScoreWithLogger is Score with each stage traced to lg.
func ScoreWithLogger(lg l.Logger, docs []similarity.Document, threshold float64) ([]similarity.PairResult, error) {
	ds, err := similarity.New(similarity.WithLogger(lg))
	if err != nil {
		return nil, err
	}
	return ds.Score(context.Background(), docs, threshold)
}
