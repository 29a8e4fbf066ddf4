package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/baditaflorin/go_document_similarity/internal/adapters/logger"
	"github.com/baditaflorin/go_document_similarity/internal/adapters/normalizer"
	"github.com/baditaflorin/go_document_similarity/internal/adapters/tokenizer"
	"github.com/baditaflorin/go_document_similarity/pkg/similarity"
)

var errNoReadableContent = errors.New("no readable content detected in the given files")

type checkOptions struct {
	threshold      float64
	minTokenLength int
	normalizer     string
	output         string
	verbose        bool
}

func newCheckCommand(ctx *commandContext) *cobra.Command {
	var opts checkOptions

	cmd := &cobra.Command{
		Use:   "check FILE...",
		Short: "Score every pair of text files and flag similar ones",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("threshold") {
				opts.threshold = cfg.Similarity.Threshold
			}
			if !cmd.Flags().Changed("min-token-length") {
				opts.minTokenLength = cfg.Similarity.MinTokenLength
			}
			if !cmd.Flags().Changed("normalizer") {
				opts.normalizer = cfg.Similarity.Normalizer
			}
			if opts.output != "table" && opts.output != "json" {
				return fmt.Errorf("unknown output format %q (want table or json)", opts.output)
			}

			normType, ok := normalizer.ParseNormalizerType(opts.normalizer)
			if !ok {
				return fmt.Errorf("unknown normalizer %q", opts.normalizer)
			}

			lg := logger.NewNopLogger()
			if opts.verbose {
				l, err := logger.New(cmd.ErrOrStderr(), false)
				if err != nil {
					return err
				}
				lg = logger.FromExisting(l)
			}

			simOpts := []similarity.Option{
				similarity.WithPortLogger(lg),
				similarity.WithNormalizer(normalizer.NewNormalizerFactory().CreateNormalizer(normType)),
				similarity.WithMinTokenLength(opts.minTokenLength),
				similarity.WithExtensions(cfg.Upload.Extensions...),
			}
			if cfg.Similarity.Precision != nil {
				simOpts = append(simOpts, similarity.WithPrecision(*cfg.Similarity.Precision))
			}
			ds, err := similarity.New(simOpts...)
			if err != nil {
				return err
			}
			defer ds.Close()

			raws, readFailures := readFiles(args)
			report, err := ds.Check(cmd.Context(), raws, opts.threshold)
			if err != nil {
				return err
			}
			report.Failures = append(readFailures, report.Failures...)

			for _, f := range report.Failures {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error reading %s: %v\n", f.Name, f.Err)
			}

			if opts.output == "json" {
				if err := writeJSON(cmd, report); err != nil {
					return err
				}
			} else {
				renderReport(cmd, report)
			}

			if len(report.Documents) == 0 {
				return errNoReadableContent
			}
			return nil
		},
	}

	cmd.Flags().Float64VarP(&opts.threshold, "threshold", "t", similarity.DefaultThreshold, "Flag pairs at or above this similarity percentage (0-100)")
	cmd.Flags().IntVar(&opts.minTokenLength, "min-token-length", tokenizer.DefaultMinLength, "Ignore words shorter than this many characters")
	cmd.Flags().StringVar(&opts.normalizer, "normalizer", "default", "Text normalizer: default or fast")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "table", "Output format: table or json")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log each processing stage to stderr")

	return cmd
}

// readFiles loads every path. Unreadable files are returned as failures
// and do not stop the others.
func readFiles(paths []string) ([]similarity.RawDocument, []similarity.DocumentError) {
	raws := make([]similarity.RawDocument, 0, len(paths))
	var failures []similarity.DocumentError
	for _, p := range paths {
		data, err := os.ReadFile(filepath.Clean(p))
		if err != nil {
			failures = append(failures, similarity.DocumentError{Name: filepath.Base(p), Err: err})
			continue
		}
		raws = append(raws, similarity.RawDocument{Name: filepath.Base(p), Data: data})
	}
	return raws, failures
}

func renderReport(cmd *cobra.Command, report similarity.Report) {
	out := cmd.OutOrStdout()
	if len(report.Documents) == 0 {
		return
	}
	if len(report.Pairs) == 0 {
		fmt.Fprintln(out, "No pairs to compare: at least two readable documents are needed.")
		return
	}

	colorize := shouldColorize(out)
	rows := make([][]string, 0, len(report.Pairs))
	for _, p := range report.Pairs {
		level := p.Label.Description()
		if colorize && p.Label == similarity.LabelHigh {
			level = highColors.Sprint(level)
		}
		rows = append(rows, []string{
			p.NameA,
			p.NameB,
			fmt.Sprintf("%.1f%%", p.Similarity),
			level,
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"File 1", "File 2", "Similarity (%)", "Similarity Level"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft},
	))
	fmt.Fprintf(out, "%d of %d pairs at or above %.0f%% similarity\n", report.HighCount(), len(report.Pairs), report.Threshold)
}
