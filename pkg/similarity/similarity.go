// Package similarity scores every pair of documents in a batch by the
// cosine similarity of their TF-IDF vectors and flags pairs at or above a
// threshold percentage.
package similarity

import (
	"context"
	"fmt"

	"github.com/baditaflorin/go_document_similarity/internal/adapters/decoder"
	"github.com/baditaflorin/go_document_similarity/internal/adapters/logger"
	"github.com/baditaflorin/go_document_similarity/internal/adapters/normalizer"
	"github.com/baditaflorin/go_document_similarity/internal/adapters/tokenizer"
	"github.com/baditaflorin/go_document_similarity/internal/core/domain"
	"github.com/baditaflorin/go_document_similarity/internal/core/score"
	"github.com/baditaflorin/go_document_similarity/internal/core/vectorize"
	"github.com/baditaflorin/go_document_similarity/internal/ports"
	"github.com/baditaflorin/go_document_similarity/internal/warmup"
	"github.com/baditaflorin/l"
)

// Re-exported domain types.
type (
	Document      = domain.Document
	RawDocument   = domain.RawDocument
	PairResult    = domain.PairResult
	Report        = domain.Report
	Label         = domain.Label
	Vocabulary    = domain.Vocabulary
	FeatureVector = domain.FeatureVector
	EncodingError = domain.EncodingError
	DocumentError = domain.DocumentError
)

// Labels.
const (
	LabelLow  = domain.LabelLow
	LabelHigh = domain.LabelHigh
)

// Errors.
var (
	ErrInvalidThreshold  = domain.ErrInvalidThreshold
	ErrInvalidPrecision  = domain.ErrInvalidPrecision
	ErrDimensionMismatch = domain.ErrDimensionMismatch
	ErrDuplicateName     = domain.ErrDuplicateName
	ErrUnsupportedFormat = domain.ErrUnsupportedFormat
)

// DefaultThreshold is the percentage at which pairs are flagged by default.
const DefaultThreshold = 75.0

// DocumentSimilarity computes labelled pairwise similarities for batches of documents.
type DocumentSimilarity struct {
	vectorizer ports.Vectorizer
	scorer     ports.PairScorer
	decoder    *decoder.Decoder
	logger     ports.Logger
	normalizer ports.Normalizer
	warmed     bool
}

// Option defines a functional option for configuring DocumentSimilarity.
type Option func(*config)

type config struct {
	Logger         ports.Logger
	Normalizer     ports.Normalizer
	MinTokenLength int
	Precision      int
	Vectorizer     vectorize.Config
	Extensions     []string
	WarmUp         bool
	WarmUpConfig   warmup.WarmupConfig
}

// WithLogger sets a custom logger.
func WithLogger(l l.Logger) Option {
	return func(cfg *config) {
		cfg.Logger = logger.FromExisting(l)
	}
}

// WithPortLogger sets a logger implementing the internal logging port.
func WithPortLogger(lg ports.Logger) Option {
	return func(cfg *config) {
		cfg.Logger = lg
	}
}

// WithNormalizer sets a custom normalizer.
func WithNormalizer(n ports.Normalizer) Option {
	return func(cfg *config) {
		cfg.Normalizer = n
	}
}

// WithFastNormalizer sets the table driven ASCII normalizer.
func WithFastNormalizer() Option {
	return func(cfg *config) {
		cfg.Normalizer = normalizer.NewNormalizerFactory().CreateNormalizer(normalizer.FastNormalizerType)
	}
}

// WithMinTokenLength sets the shortest token, in runes, kept by the tokenizer.
func WithMinTokenLength(n int) Option {
	return func(cfg *config) {
		cfg.MinTokenLength = n
	}
}

// WithPrecision sets the number of decimals scores are rounded to.
// A negative value disables rounding; values above 15 make New fail.
func WithPrecision(p int) Option {
	return func(cfg *config) {
		cfg.Precision = p
	}
}

// WithSublinearTF replaces raw term counts with 1 + ln(count).
func WithSublinearTF(enable bool) Option {
	return func(cfg *config) {
		cfg.Vectorizer.SublinearTF = enable
	}
}

// WithExtensions restricts Check to uploads with these file extensions.
func WithExtensions(exts ...string) Option {
	return func(cfg *config) {
		cfg.Extensions = exts
	}
}

// WithWarmUp enables system warm-up on initialization.
func WithWarmUp(enable bool) Option {
	return func(cfg *config) {
		cfg.WarmUp = enable
	}
}

// WithWarmUpConfig sets a custom warm-up configuration.
func WithWarmUpConfig(wc warmup.WarmupConfig) Option {
	return func(cfg *config) {
		cfg.WarmUpConfig = wc
		cfg.WarmUp = true
	}
}

// New creates a new DocumentSimilarity instance.
func New(opts ...Option) (*DocumentSimilarity, error) {
	cfg := &config{
		MinTokenLength: tokenizer.DefaultMinLength,
		Precision:      score.DefaultPrecision,
		Vectorizer:     vectorize.DefaultConfig(),
		WarmUpConfig:   warmup.DefaultWarmupConfig(),
	}

	for _, opt := range opts {
		opt(cfg)
	}

	if err := score.ValidatePrecision(cfg.Precision); err != nil {
		return nil, err
	}

	if cfg.Logger == nil {
		var err error
		cfg.Logger, err = logger.NewStdLogger()
		if err != nil {
			return nil, err
		}
	}

	if cfg.Normalizer == nil {
		cfg.Normalizer = normalizer.NewDefaultNormalizer()
	}

	vec, err := vectorize.New(cfg.Vectorizer, cfg.Logger, cfg.Normalizer, tokenizer.NewWordTokenizer(cfg.MinTokenLength))
	if err != nil {
		return nil, err
	}

	ds := &DocumentSimilarity{
		vectorizer: vec,
		scorer:     score.NewScorer(cfg.Logger, cfg.Precision),
		decoder:    decoder.New(cfg.Logger, cfg.Extensions...),
		logger:     cfg.Logger,
		normalizer: cfg.Normalizer,
	}

	if cfg.WarmUp {
		ds.WarmUp(context.Background(), cfg.WarmUpConfig)
	}

	return ds, nil
}

// Vectorize returns the batch vocabulary and one TF-IDF vector per text.
func (ds *DocumentSimilarity) Vectorize(ctx context.Context, texts []string) (Vocabulary, []FeatureVector, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	vocab, vectors := ds.vectorizer.Vectorize(texts)
	return vocab, vectors, nil
}

// Score compares every unordered pair of docs and labels each pair HIGH
// when its similarity percentage is at least threshold. Batches with fewer
// than two documents yield an empty result. Document names must be unique,
// otherwise ErrDuplicateName is returned.
func (ds *DocumentSimilarity) Score(ctx context.Context, docs []Document, threshold float64) ([]PairResult, error) {
	if err := score.ValidateThreshold(threshold); err != nil {
		return nil, err
	}
	names := make([]string, len(docs))
	texts := make([]string, len(docs))
	seen := make(map[string]struct{}, len(docs))
	for i, d := range docs {
		if _, dup := seen[d.Name]; dup {
			return nil, fmt.Errorf("%w: %q", domain.ErrDuplicateName, d.Name)
		}
		seen[d.Name] = struct{}{}
		names[i] = d.Name
		texts[i] = d.Content
	}

	_, vectors, err := ds.Vectorize(ctx, texts)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return ds.scorer.ScorePairs(names, vectors, threshold)
}

// Check decodes raw uploads, drops the ones that are not valid text and
// scores the rest. Per-document failures are listed in the report rather
// than returned as an error.
func (ds *DocumentSimilarity) Check(ctx context.Context, raws []RawDocument, threshold float64) (Report, error) {
	if err := score.ValidateThreshold(threshold); err != nil {
		return Report{}, err
	}
	docs, failures := ds.decoder.DecodeAll(raws)

	names := make([]string, len(docs))
	for i, d := range docs {
		names[i] = d.Name
	}

	pairs, err := ds.Score(ctx, docs, threshold)
	if err != nil {
		return Report{}, fmt.Errorf("score documents: %w", err)
	}

	report := Report{
		Threshold: threshold,
		Documents: names,
		Pairs:     pairs,
		Failures:  failures,
	}
	ds.logger.Info("Similarity check complete",
		"documents", len(docs),
		"failed", len(failures),
		"pairs", len(pairs),
		"high", report.HighCount(),
		"threshold", threshold,
	)
	return report, nil
}

// WarmUp performs system warm-up to optimize performance.
func (ds *DocumentSimilarity) WarmUp(ctx context.Context, wc warmup.WarmupConfig) {
	if ds.warmed {
		ds.logger.Debug("System already warmed up, skipping")
		return
	}

	warmupMgr := warmup.NewManager(ds.logger, wc)
	warmupMgr.RegisterScorer(ds)
	warmupMgr.RegisterNormalizer(ds.normalizer)

	warmupMgr.WarmUp(ctx)
	ds.warmed = true
}

// Close releases the logger.
func (ds *DocumentSimilarity) Close() error {
	return ds.logger.Close()
}
