package warmup

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/baditaflorin/go_document_similarity/internal/core/domain"
	"github.com/baditaflorin/go_document_similarity/internal/ports"
)

// WarmupConfig defines configuration for warming up the system
type WarmupConfig struct {
	// Number of concurrent warmup routines to run
	Concurrency int
	// Number of iterations per routine
	Iterations int
	// Number of documents in each generated batch
	BatchSize int
	// Sample text size for warmup
	SampleTextSize int
	// Warmup duration (0 means no time limit)
	Duration time.Duration
	// Whether to perform GC after warmup
	ForceGC bool
}

// DefaultWarmupConfig returns the default warmup configuration
func DefaultWarmupConfig() WarmupConfig {
	return WarmupConfig{
		Concurrency:    runtime.NumCPU(),
		Iterations:     100,
		BatchSize:      5,
		SampleTextSize: 1000,
		Duration:       5 * time.Second,
		ForceGC:        true,
	}
}

// Stats summarises a warmup run.
type Stats struct {
	Batches  int64
	Duration time.Duration
}

// Manager handles system warmup operations
type Manager struct {
	logger      ports.Logger
	scorers     []ports.BatchScorer
	normalizers []ports.Normalizer
	config      WarmupConfig
}

// NewManager creates a new warmup manager
func NewManager(logger ports.Logger, config WarmupConfig) *Manager {
	if config.Concurrency < 1 {
		config.Concurrency = 1
	}
	if config.BatchSize < 2 {
		config.BatchSize = 2
	}
	return &Manager{
		logger: logger,
		config: config,
	}
}

// RegisterScorer adds a batch scorer to be warmed up
func (wm *Manager) RegisterScorer(s ports.BatchScorer) {
	wm.scorers = append(wm.scorers, s)
}

// RegisterNormalizer adds a normalizer to be warmed up
func (wm *Manager) RegisterNormalizer(norm ports.Normalizer) {
	wm.normalizers = append(wm.normalizers, norm)
}

// WarmUp runs the warmup process for all registered components
func (wm *Manager) WarmUp(ctx context.Context) Stats {
	startTime := time.Now()
	wm.logger.Info("Starting system warmup",
		"components", len(wm.scorers)+len(wm.normalizers),
		"concurrency", wm.config.Concurrency,
		"iterations", wm.config.Iterations,
	)

	warmupCtx := ctx
	if wm.config.Duration > 0 {
		var cancel context.CancelFunc
		warmupCtx, cancel = context.WithTimeout(ctx, wm.config.Duration)
		defer cancel()
	}

	wm.warmUpNormalizers(warmupCtx)
	batches := wm.warmUpScorers(warmupCtx)

	if wm.config.ForceGC {
		wm.logger.Debug("Forcing garbage collection after warmup")
		runtime.GC()
	}

	stats := Stats{Batches: batches, Duration: time.Since(startTime)}
	wm.logger.Info("System warmup completed",
		"batches", stats.Batches,
		"duration", stats.Duration,
	)
	return stats
}

// warmUpNormalizers runs warmup for all registered normalizers
func (wm *Manager) warmUpNormalizers(ctx context.Context) {
	if len(wm.normalizers) == 0 {
		return
	}

	wm.logger.Debug("Warming up normalizers", "count", len(wm.normalizers))

	sampleText := generateSampleText(wm.config.SampleTextSize, 0)

	wm.run(ctx, func(int) {
		for _, normalizer := range wm.normalizers {
			_ = normalizer.Normalize(sampleText)
		}
	})
}

// warmUpScorers scores generated batches with every registered scorer
// and returns the number of batches processed.
func (wm *Manager) warmUpScorers(ctx context.Context) int64 {
	if len(wm.scorers) == 0 {
		return 0
	}

	wm.logger.Debug("Warming up scorers", "count", len(wm.scorers))

	batch := generateBatch(wm.config.BatchSize, wm.config.SampleTextSize)

	var batches atomic.Int64
	wm.run(ctx, func(j int) {
		for _, s := range wm.scorers {
			threshold := float64((j * 25) % 101)
			if _, err := s.Score(ctx, batch, threshold); err != nil {
				return
			}
			batches.Add(1)
		}
	})
	return batches.Load()
}

// run calls fn Iterations times on each of Concurrency goroutines until
// ctx is done.
func (wm *Manager) run(ctx context.Context, fn func(iteration int)) {
	eg, egCtx := errgroup.WithContext(ctx)
	for i := 0; i < wm.config.Concurrency; i++ {
		eg.Go(func() error {
			for j := 0; j < wm.config.Iterations; j++ {
				if egCtx.Err() != nil {
					return nil
				}
				fn(j)
			}
			return nil
		})
	}
	_ = eg.Wait()
}

// Helper functions for generating test data

var sampleWords = []string{
	"the", "quick", "brown", "fox", "jumps", "over", "lazy", "dog",
	"hello", "world", "lorem", "ipsum", "dolor", "sit", "amet", "consectetur",
	"adipiscing", "elit", "sed", "do", "eiusmod", "tempor", "incididunt",
	"ut", "labore", "et", "dolore", "magna", "aliqua",
}

// generateSampleText creates sample text of roughly the specified size,
// starting at word offset so batches get overlapping but distinct texts.
func generateSampleText(size, offset int) string {
	var sb strings.Builder
	wordsNeeded := size / 5 // Assuming average word length of 5

	for i := 0; i < wordsNeeded; i++ {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(sampleWords[(i*(offset+1)+offset)%len(sampleWords)])
	}

	result := sb.String()
	if len(result) > size {
		return result[:size]
	}
	return result
}

func generateBatch(n, size int) []domain.Document {
	docs := make([]domain.Document, n)
	for i := range docs {
		docs[i] = domain.Document{
			Name:    fmt.Sprintf("warmup-%d.txt", i),
			Content: generateSampleText(size, i),
		}
	}
	return docs
}
