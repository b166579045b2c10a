// Package motion builds per-label motion models: histogram densities of
// feature differences between consecutive observations of the same label.
// Models are evaluated in log2 domain.
package motion

import (
	"math"

	"github.com/LdDl/mot-compare/measurements"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

// FloorLog2 is the log2 density assigned to empty bins, out-of-range
// differences and labels without observed transitions.
const FloorLog2 = -1000.0

// DefaultBins is the default number of bins per feature dimension.
// Bins are narrow so that only nearly equal transitions share one.
const DefaultBins = 8096

// edgeTolerance is how far past the upper edge (in bins) a difference still counts as on the edge
const edgeTolerance = 1e-9

var (
	// ErrNotLog2 is returned when a model is evaluated before ApplyLog2
	ErrNotLog2 = errors.New("model is not in log2 form")
	// ErrOrder is returned when a table passed to Build is not in (label, frame) order
	ErrOrder = errors.New("table must be sorted by (label, frame)")
)

type modelState uint8

const (
	stateCounts modelState = iota
	stateNormalized
	stateLog2
)

// Model holds per-label, per-dimension histograms over feature differences.
// Histograms are indexed by (label - minState).
type Model struct {
	bins     int
	minState int
	dims     int
	lo       []float64
	width    []float64
	// [label index][dimension][bin]
	hist        [][][]float64
	transitions int
	state       modelState
}

// Build collects differences between consecutive records of the same label.
// Table must be sorted by (label, frame); see measurements.Table.SortByLabelTime.
//
// Every label present in the table also gets a rest prior: the bin holding the
// zero difference receives (transitions of the label + 1) extra counts. The zero
// bin is then strictly the heaviest one of each histogram, so a record compared
// against an identical record at the same frame always gets the best score
// its label can give.
func Build(table measurements.Table, bins int, minState int) (*Model, error) {
	if bins <= 0 {
		return nil, errors.Errorf("bins must be positive, got %d", bins)
	}
	model := &Model{
		bins:     bins,
		minState: minState,
		state:    stateCounts,
	}
	if len(table) == 0 {
		return model, nil
	}
	model.dims = len(table[0].Features)
	maxLabel := minState
	for i := range table {
		rec := &table[i]
		if len(rec.Features) != model.dims {
			return nil, errors.Errorf("record %d has %d features, expected %d", i, len(rec.Features), model.dims)
		}
		if rec.Label < minState {
			return nil, errors.Errorf("record %d has label %d below min state %d", i, rec.Label, minState)
		}
		if i > 0 {
			prev := &table[i-1]
			if prev.Label > rec.Label || (prev.Label == rec.Label && prev.Frame > rec.Frame) {
				return nil, errors.Wrapf(ErrOrder, "record %d", i)
			}
		}
		if rec.Label > maxLabel {
			maxLabel = rec.Label
		}
	}
	present := make([]bool, maxLabel-minState+1)
	perLabel := make([]float64, maxLabel-minState+1)
	for i := range table {
		present[table[i].Label-minState] = true
	}

	// Differences per dimension, in pair order
	indices := make([]int, 0, len(table))
	deltas := make([][]float64, model.dims)
	for i := 1; i < len(table); i++ {
		prev, cur := &table[i-1], &table[i]
		if prev.Label != cur.Label {
			continue
		}
		indices = append(indices, cur.Label-minState)
		perLabel[cur.Label-minState]++
		for d := 0; d < model.dims; d++ {
			deltas[d] = append(deltas[d], cur.Features[d]-prev.Features[d])
		}
	}
	model.transitions = len(indices)

	model.lo = make([]float64, model.dims)
	model.width = make([]float64, model.dims)
	for d := 0; d < model.dims; d++ {
		lo, hi := 0.0, 0.0
		if len(deltas[d]) > 0 {
			lo = math.Min(lo, floats.Min(deltas[d]))
			hi = math.Max(hi, floats.Max(deltas[d]))
		}
		if hi-lo == 0 {
			lo -= 0.5
			hi += 0.5
		}
		model.lo[d] = lo
		model.width[d] = (hi - lo) / float64(bins)
	}

	model.hist = make([][][]float64, maxLabel-minState+1)
	for idx := range model.hist {
		model.hist[idx] = make([][]float64, model.dims)
		for d := range model.hist[idx] {
			model.hist[idx][d] = make([]float64, bins)
		}
	}
	for p, idx := range indices {
		for d := 0; d < model.dims; d++ {
			bin := model.bin(d, deltas[d][p])
			if bin >= 0 {
				model.hist[idx][d][bin]++
			}
		}
	}
	for idx := range model.hist {
		if !present[idx] {
			continue
		}
		for d := 0; d < model.dims; d++ {
			// Bin edges always span 0
			model.hist[idx][d][model.bin(d, 0)] += perLabel[idx] + 1
		}
	}
	return model, nil
}

// bin returns histogram bin of difference v along dimension d, or -1 when out of range
func (model *Model) bin(d int, v float64) int {
	if math.IsNaN(v) {
		return -1
	}
	pos := (v - model.lo[d]) / model.width[d]
	if pos < 0 {
		return -1
	}
	bin := int(pos)
	if bin >= model.bins {
		// Upper edge belongs to the last bin, up to rounding of pos
		if pos <= float64(model.bins)+edgeTolerance {
			return model.bins - 1
		}
		return -1
	}
	return bin
}

// Normalize scales every (label, dimension) histogram to unit mass. Empty histograms stay empty
func (model *Model) Normalize() {
	if model.state != stateCounts {
		return
	}
	for idx := range model.hist {
		for d := range model.hist[idx] {
			h := model.hist[idx][d]
			sum := floats.Sum(h)
			if sum > 0 {
				floats.Scale(1.0/sum, h)
			}
		}
	}
	model.state = stateNormalized
}

// ApplyLog2 turns probabilities into log2 densities. Empty bins get FloorLog2.
// Model is normalized first if needed.
func (model *Model) ApplyLog2() {
	if model.state == stateLog2 {
		return
	}
	model.Normalize()
	for idx := range model.hist {
		for d := range model.hist[idx] {
			h := model.hist[idx][d]
			for b, p := range h {
				if p > 0 {
					h[b] = math.Log2(p)
				} else {
					h[b] = FloorLog2
				}
			}
		}
	}
	model.state = stateLog2
}

// IsLog2 reports whether model is ready for evaluation
func (model *Model) IsLog2() bool {
	return model.state == stateLog2
}

// Check returns ErrNotLog2 if model can't be evaluated yet
func (model *Model) Check() error {
	if !model.IsLog2() {
		return ErrNotLog2
	}
	return nil
}

// EvalLog2Likelihood returns log2 probability of moving from 'from' to 'to' for the
// label with given index (label - minState). Dimensions are treated as independent.
// Unknown indices, missing dimensions, and out-of-range differences contribute FloorLog2 per dimension.
func (model *Model) EvalLog2Likelihood(from, to []float64, index int) float64 {
	if model.dims == 0 {
		return 0
	}
	known := index >= 0 && index < len(model.hist)
	total := 0.0
	for d := 0; d < model.dims; d++ {
		if !known || d >= len(from) || d >= len(to) {
			total += FloorLog2
			continue
		}
		bin := model.bin(d, to[d]-from[d])
		if bin < 0 {
			total += FloorLog2
			continue
		}
		total += model.hist[index][d][bin]
	}
	return total
}

// Bins returns number of bins per dimension
func (model *Model) Bins() int {
	return model.bins
}

// Dims returns feature dimensionality
func (model *Model) Dims() int {
	return model.dims
}

// Labels returns number of label slots the model has histograms for
func (model *Model) Labels() int {
	return len(model.hist)
}

// Transitions returns number of consecutive same-label pairs the model was built from
func (model *Model) Transitions() int {
	return model.transitions
}

// MinState returns label which maps to index 0
func (model *Model) MinState() int {
	return model.minState
}
