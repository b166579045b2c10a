package compare

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Report is everything a comparison produced
type Report struct {
	RunID    uuid.UUID
	Strategy Strategy
	// Number of labeled records in A
	LabeledA int
	Matrix   *Matrix
	Mapping  *Mapping
	Result   *MismatchResult
}

// errWriter keeps the first write error so formatting code stays flat
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

// WriteText renders contingency matrix, inferred mapping, summary and histogram of mismatches per frame.
// Up to worstN frames with most mismatches are listed as well.
func (report *Report) WriteText(w io.Writer, worstN int) error {
	ew := &errWriter{w: w}
	ew.printf("Run: %s\n\n", report.RunID)

	ew.printf("Identity correspondence matrix (rows: B label, columns: A label):\n")
	ew.printf("%5s ", "")
	for i := 0; i < report.Matrix.NumA; i++ {
		ew.printf("%5d ", i-labelShift)
	}
	ew.printf("\n")
	for j := 0; j < report.Matrix.NumB; j++ {
		ew.printf("%5d ", j-labelShift)
		for i := 0; i < report.Matrix.NumA; i++ {
			ew.printf("%5d ", report.Matrix.At(j, i))
		}
		ew.printf("\n")
	}

	ew.printf("\nIdentity correspondence (%s)\n  A      B\n ---    ---\n", report.Strategy)
	for _, pair := range report.Mapping.Pairs() {
		if pair.B == Unmapped {
			ew.printf("%3d  ->  -\n", pair.A)
			continue
		}
		ew.printf("%3d  ->%3d\n", pair.A, pair.B)
	}

	res := report.Result
	ew.printf("\nLabeled records in A: %d\n", report.LabeledA)
	ew.printf("Mismatches: %d total, %d max per frame, %.4f mean per frame\n", res.TotalMismatches, res.MaxMismatches, res.Histogram.Mean())
	ew.printf("Missing matches: %d\n", res.TotalMissing)
	ew.printf("Longest streaks: mismatch %d, missing %d, ok %d\n", res.Streaks.Mismatch, res.Streaks.Missing, res.Streaks.OK)

	if worst := WorstFrames(res.Frames, worstN); len(worst) > 0 {
		ew.printf("\nWorst frames:\n")
		for _, f := range worst {
			ew.printf("Frame %5d: %d mismatches of %d labeled, %d missing\n", f.Frame, f.Mismatches, f.Labeled, f.Missing)
		}
	}

	ew.printf("\nHistogram of # differences per frame.\n")
	total := 0
	for n := res.MaxMismatches; n >= 0; n-- {
		total += res.Histogram.At(n)
		ew.printf("%5d: %8d\n", n, res.Histogram.At(n))
	}
	ew.printf("Total: %8d\n", total)
	return errors.Wrap(ew.err, "Can't write report")
}

type jsonMatrix struct {
	NumA   int   `json:"n_a"`
	NumB   int   `json:"n_b"`
	Counts []int `json:"counts"`
}

type jsonReport struct {
	RunID           string       `json:"run_id"`
	Strategy        Strategy     `json:"strategy"`
	LabeledA        int          `json:"labeled_a"`
	Matrix          jsonMatrix   `json:"matrix"`
	Mapping         []Pair       `json:"mapping"`
	Histogram       []int        `json:"histogram"`
	TotalMismatches int          `json:"total_mismatches"`
	MaxMismatches   int          `json:"max_mismatches"`
	MeanMismatches  float64      `json:"mean_mismatches"`
	TotalMissing    int          `json:"total_missing"`
	Streaks         Streaks      `json:"streaks"`
	WorstFrames     []FrameStats `json:"worst_frames,omitempty"`
	Mismatches      []Mismatch   `json:"mismatches,omitempty"`
}

// WriteJSON renders the report as a single JSON document
func (report *Report) WriteJSON(w io.Writer, worstN int) error {
	res := report.Result
	doc := jsonReport{
		RunID:    report.RunID.String(),
		Strategy: report.Strategy,
		LabeledA: report.LabeledA,
		Matrix: jsonMatrix{
			NumA:   report.Matrix.NumA,
			NumB:   report.Matrix.NumB,
			Counts: report.Matrix.Counts,
		},
		Mapping:         report.Mapping.Pairs(),
		Histogram:       res.Histogram.Buckets(),
		TotalMismatches: res.TotalMismatches,
		MaxMismatches:   res.MaxMismatches,
		MeanMismatches:  res.Histogram.Mean(),
		TotalMissing:    res.TotalMissing,
		Streaks:         res.Streaks,
		WorstFrames:     WorstFrames(res.Frames, worstN),
		Mismatches:      res.Mismatches,
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(doc), "Can't write report")
}
