package compare

import (
	"context"
	"log/slog"

	"github.com/LdDl/mot-compare/logging"
	"github.com/LdDl/mot-compare/measurements"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Options of a single comparison
type Options struct {
	// Label which maps to motion model index 0
	MinState int
	// Log2 score a best match must exceed
	Threshold float64
	// Mapping inference strategy
	Strategy Strategy
}

// DefaultOptions returns options the comparison is normally run with
func DefaultOptions() Options {
	return Options{
		MinState:  DefaultMinState,
		Threshold: DefaultThreshold,
		Strategy:  StrategyGreedy,
	}
}

type checker interface {
	Check() error
}

// Run compares tables A and B, both sorted by (frame, label, secondary).
// modelA must be fitted on A and modelB on B. Cancellation is checked between passes.
func Run(ctx context.Context, a, b measurements.Table, modelA, modelB Oracle, opts Options) (*Report, error) {
	runID := uuid.New()
	logger := logging.New("compare").With(slog.String("run_id", runID.String()))

	for i, model := range []Oracle{modelA, modelB} {
		if c, ok := model.(checker); ok {
			if err := c.Check(); err != nil {
				return nil, errors.Wrapf(err, "model %c", 'A'+i)
			}
		}
	}

	numA, numB := a.NumLabels(), b.NumLabels()
	logger.Debug("label slots", slog.Int("n_a", numA), slog.Int("n_b", numB))

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ms, err := MatchTables(a, b, modelA, modelB, opts.MinState, opts.Threshold)
	if err != nil {
		return nil, errors.Wrap(err, "Can't match tables")
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	matrix, err := BuildCorrespondence(ms, numA, numB)
	if err != nil {
		return nil, errors.Wrap(err, "Can't build correspondence matrix")
	}

	mapping, err := Infer(matrix, opts.Strategy)
	if err != nil {
		return nil, err
	}

	result := HistogramMismatches(ms, mapping)
	for _, m := range result.Mismatches {
		if m.BLabel == measurements.Unlabeled {
			continue
		}
		logger.Debug("mismatch",
			slog.Int("frame", m.Frame),
			slog.Int("a_label", m.ALabel),
			slog.Int("b_label", m.BLabel),
			slog.Int("a_secondary", m.ASecondary),
			slog.Int("b_secondary", m.BSecondary),
		)
	}
	logger.Info("comparison done",
		slog.Int("frames", len(result.Frames)),
		slog.Int("mismatches", result.TotalMismatches),
		slog.Int("max_per_frame", result.MaxMismatches),
		slog.Int("missing", result.TotalMissing),
	)

	return &Report{
		RunID:    runID,
		Strategy: opts.Strategy,
		LabeledA: a.NumLabeled(),
		Matrix:   matrix,
		Mapping:  mapping,
		Result:   result,
	}, nil
}
