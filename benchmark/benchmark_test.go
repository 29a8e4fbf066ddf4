package benchmark

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/baditaflorin/go_document_similarity/internal/adapters/logger"
	"github.com/baditaflorin/go_document_similarity/internal/adapters/normalizer"
	"github.com/baditaflorin/go_document_similarity/pkg/similarity"
)

var words = strings.Fields("the quick brown fox jumps over the lazy dog this sentence contains all letters " +
	"of the english alphabet and is commonly used for testing text processing algorithms and systems")

// generateText creates a text of roughly size bytes. seed rotates the word
// order so generated documents overlap without being identical.
func generateText(size, seed int) string {
	if size <= 0 {
		return ""
	}
	var sb strings.Builder
	sb.Grow(size + 16)
	for i := 0; sb.Len() < size; i++ {
		sb.WriteString(words[(i*(seed+1)+seed)%len(words)])
		sb.WriteByte(' ')
	}
	return sb.String()
}

func generateBatch(n, size int) []similarity.Document {
	docs := make([]similarity.Document, n)
	for i := range docs {
		docs[i] = similarity.Document{Name: fmt.Sprintf("doc%d.txt", i), Content: generateText(size, i)}
	}
	return docs
}

// BenchmarkNormalizers compares the performance of different normalizers
func BenchmarkNormalizers(b *testing.B) {
	factory := normalizer.NewNormalizerFactory()
	normalizers := map[string]normalizer.NormalizerType{
		"Default": normalizer.DefaultNormalizerType,
		"Fast":    normalizer.FastNormalizerType,
	}

	for _, size := range []int{100, 10000, 100000} {
		text := generateText(size, 0)
		for name, typ := range normalizers {
			n := factory.CreateNormalizer(typ)
			b.Run(fmt.Sprintf("%s/%dB", name, size), func(b *testing.B) {
				b.SetBytes(int64(len(text)))
				b.ReportAllocs()
				for i := 0; i < b.N; i++ {
					_ = n.Normalize(text)
				}
			})
		}
	}
}

// BenchmarkScore measures a full scoring pass for growing batches.
func BenchmarkScore(b *testing.B) {
	ds, err := similarity.New(similarity.WithPortLogger(logger.NewNopLogger()))
	if err != nil {
		b.Fatal(err)
	}
	ctx := context.Background()

	for _, n := range []int{2, 10, 50} {
		batch := generateBatch(n, 5000)
		b.Run(fmt.Sprintf("%ddocs", n), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := ds.Score(ctx, batch, similarity.DefaultThreshold); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func TestGeneratedBatchIsScorable(t *testing.T) {
	ds, err := similarity.New(similarity.WithPortLogger(logger.NewNopLogger()))
	if err != nil {
		t.Fatal(err)
	}
	results, err := ds.Score(context.Background(), generateBatch(4, 500), similarity.DefaultThreshold)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 6 {
		t.Errorf("got %d pairs, want 6", len(results))
	}
}
