package documentsimilarity

import (
	"errors"
	"io"
	"testing"

	"github.com/baditaflorin/go_document_similarity/internal/adapters/logger"
	"github.com/baditaflorin/go_document_similarity/pkg/similarity"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name      string
		docs      []similarity.Document
		threshold float64
		wantPairs int
		wantHigh  int
	}{
		{
			name: "Identical texts",
			docs: []similarity.Document{
				{Name: "a.txt", Content: "The quick brown fox jumps over the lazy dog."},
				{Name: "b.txt", Content: "The quick brown fox jumps over the lazy dog."},
			},
			threshold: 75,
			wantPairs: 1,
			wantHigh:  1,
		},
		{
			name: "Disjoint texts",
			docs: []similarity.Document{
				{Name: "a.txt", Content: "the cat sat"},
				{Name: "b.txt", Content: "dog ran far"},
			},
			threshold: 75,
			wantPairs: 1,
			wantHigh:  0,
		},
		{
			name: "Single document",
			docs: []similarity.Document{
				{Name: "a.txt", Content: "alone"},
			},
			threshold: 75,
			wantPairs: 0,
		},
		{
			name: "Four documents",
			docs: []similarity.Document{
				{Name: "a.txt", Content: "one two three"},
				{Name: "b.txt", Content: "one two three"},
				{Name: "c.txt", Content: "four five six"},
				{Name: "d.txt", Content: ""},
			},
			threshold: 90,
			wantPairs: 6,
			wantHigh:  1,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			results, err := Score(tc.docs, tc.threshold)
			if err != nil {
				t.Fatalf("Score: %v", err)
			}
			if len(results) != tc.wantPairs {
				t.Fatalf("got %d pairs, want %d", len(results), tc.wantPairs)
			}
			high := 0
			for _, r := range results {
				if r.Label == similarity.LabelHigh {
					high++
				}
			}
			if high != tc.wantHigh {
				t.Errorf("got %d HIGH pairs, want %d: %+v", high, tc.wantHigh, results)
			}
		})
	}
}

func TestScoreWithDefaults(t *testing.T) {
	results, err := ScoreWithDefaults([]similarity.Document{
		{Name: "a", Content: "shared words only"},
		{Name: "b", Content: "shared words only"},
	})
	if err != nil {
		t.Fatalf("ScoreWithDefaults: %v", err)
	}
	if len(results) != 1 || results[0].Label != similarity.LabelHigh {
		t.Errorf("results = %+v", results)
	}
}

func TestScoreWithLogger(t *testing.T) {
	lg, err := logger.New(io.Discard, false)
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	defer lg.Close()

	pairs, err := ScoreWithLogger(lg, []similarity.Document{
		{Name: "a.txt", Content: "the cat sat"},
		{Name: "b.txt", Content: "the cat sat"},
		{Name: "c.txt", Content: "dog ran far"},
	}, 75)
	if err != nil {
		t.Fatalf("ScoreWithLogger: %v", err)
	}
	if len(pairs) != 3 {
		t.Fatalf("got %d pairs, want 3", len(pairs))
	}
	if pairs[0].Label != similarity.LabelHigh || pairs[1].Label != similarity.LabelLow {
		t.Errorf("labels = %v, %v; want HIGH, LOW", pairs[0].Label, pairs[1].Label)
	}
}

func TestScoreRejectsDuplicateNames(t *testing.T) {
	_, err := ScoreWithDefaults([]similarity.Document{
		{Name: "same.txt", Content: "first"},
		{Name: "same.txt", Content: "second"},
	})
	if !errors.Is(err, similarity.ErrDuplicateName) {
		t.Errorf("error = %v, want ErrDuplicateName", err)
	}
}
