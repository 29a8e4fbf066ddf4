package score

import (
	"fmt"
	"math"

	"github.com/baditaflorin/go_document_similarity/internal/core/domain"
	"github.com/baditaflorin/go_document_similarity/internal/ports"
)

const (
	// MinThreshold is the lowest accepted threshold percentage.
	MinThreshold = 0.0
	// MaxThreshold is the highest accepted threshold percentage.
	MaxThreshold = 100.0
)

// ValidateThreshold checks that t is a percentage in [0, 100].
func ValidateThreshold(t float64) error {
	if math.IsNaN(t) || t < MinThreshold || t > MaxThreshold {
		return fmt.Errorf("%w: got %v", domain.ErrInvalidThreshold, t)
	}
	return nil
}

// DefaultPrecision is the number of decimal places scores are rounded to.
// Rounding absorbs floating point noise so identical documents score
// exactly 100.
const DefaultPrecision = 6

// MaxPrecision is the most decimals a float64 percentage can carry.
const MaxPrecision = 15

// ValidatePrecision rejects precisions that float64 cannot round to.
// Negative values are accepted and disable rounding.
func ValidatePrecision(p int) error {
	if p > MaxPrecision {
		return fmt.Errorf("%w: got %d", domain.ErrInvalidPrecision, p)
	}
	return nil
}

// Scorer computes pairwise cosine similarities as percentages.
type Scorer struct {
	logger    ports.Logger
	precision int
}

// NewScorer creates a new pairwise scorer. A negative precision disables
// rounding.
func NewScorer(logger ports.Logger, precision int) *Scorer {
	return &Scorer{logger: logger, precision: precision}
}

// ScorePairs compares every unordered pair (i, j), i < j, in input order
// and labels each one against threshold.
func (s *Scorer) ScorePairs(names []string, vectors []domain.FeatureVector, threshold float64) ([]domain.PairResult, error) {
	if err := ValidateThreshold(threshold); err != nil {
		return nil, err
	}
	if len(names) != len(vectors) {
		return nil, fmt.Errorf("%w: %d names for %d vectors", domain.ErrDimensionMismatch, len(names), len(vectors))
	}
	n := len(vectors)
	if n < 2 {
		s.logger.Debug("Fewer than two documents, nothing to compare", "documents", n)
		return []domain.PairResult{}, nil
	}

	dim := len(vectors[0])
	norms := make([]float64, n)
	for i, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("%w: vector %d has %d entries, want %d", domain.ErrDimensionMismatch, i, len(v), dim)
		}
		norms[i] = Magnitude(v)
	}

	results := make([]domain.PairResult, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			pct := round(Percent(cosine(vectors[i], vectors[j], norms[i], norms[j])), s.precision)
			results = append(results, domain.PairResult{
				NameA:      names[i],
				NameB:      names[j],
				Similarity: pct,
				Label:      Classify(pct, threshold),
			})
		}
	}

	s.logger.Debug("Scored document pairs",
		"documents", n,
		"pairs", len(results),
		"threshold", threshold,
	)
	return results, nil
}

// Cosine returns the cosine similarity of a and b, or 0 when either has
// zero magnitude or the lengths differ.
func Cosine(a, b domain.FeatureVector) float64 {
	if len(a) != len(b) {
		return 0
	}
	return cosine(a, b, Magnitude(a), Magnitude(b))
}

func cosine(a, b domain.FeatureVector, normA, normB float64) float64 {
	if normA == 0 || normB == 0 {
		return 0
	}
	var dot float64
	for i := range a {
		dot += a[i] * b[i]
	}
	return dot / (normA * normB)
}

// Magnitude returns the L2 norm of v.
func Magnitude(v domain.FeatureVector) float64 {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum)
}

// Percent scales a cosine value to [0, 100]. Negative cosines, only
// possible with signed weights, map to 0.
func Percent(cos float64) float64 {
	pct := cos * 100
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

func round(x float64, precision int) float64 {
	if precision < 0 {
		return x
	}
	factor := math.Pow(10, float64(precision))
	return math.Round(x*factor) / factor
}

// Classify labels a score against threshold: HIGH iff score >= threshold.
func Classify(score, threshold float64) domain.Label {
	if score >= threshold {
		return domain.LabelHigh
	}
	return domain.LabelLow
}
