package compare

import (
	"github.com/LdDl/mot-compare/measurements"
	"github.com/pkg/errors"
)

const (
	// NoMatch marks a labeled A record for which no B record was accepted
	NoMatch = -1
	// Skipped marks an Unlabeled A record which never takes part in matching
	Skipped = -2
)

// labelShift moves Unlabeled to index 0 of the contingency matrix
const labelShift = -measurements.Unlabeled

// FrameSpan is a run of records sharing one frame id in both tables
type FrameSpan struct {
	Frame  int
	AStart int
	AEnd   int
	BStart int
	BEnd   int
}

// MatchSet holds best matches of every A record against its frame in B.
// It is computed once and reused by both the correspondence matrix and the mismatch histogram.
type MatchSet struct {
	A measurements.Table
	B measurements.Table
	// Per A record: index into B, NoMatch or Skipped
	Matches []int
	// Per A record: score of accepted match, zero otherwise
	Scores []float64
	// Frame runs of A in order
	Frames []FrameSpan
}

// MatchTables walks both tables frame by frame and runs FindMatch for every labeled A record
// against all B records of the same frame. Tables must be sorted by (frame, label, secondary).
// B's cursor only moves forward: B frames missing in A are skipped, A frames missing in B have no candidates.
func MatchTables(a, b measurements.Table, modelA, modelB Oracle, minState int, threshold float64) (*MatchSet, error) {
	if err := a.Validate(); err != nil {
		return nil, errors.Wrap(err, "table A")
	}
	if err := b.Validate(); err != nil {
		return nil, errors.Wrap(err, "table B")
	}
	ms := &MatchSet{
		A:       a,
		B:       b,
		Matches: make([]int, len(a)),
		Scores:  make([]float64, len(a)),
		Frames:  make([]FrameSpan, 0, a.Frames()),
	}
	rowA, rowB := 0, 0
	for rowA < len(a) {
		cur := a[rowA].Frame
		for rowB < len(b) && b[rowB].Frame < cur {
			rowB++
		}
		markA, markB := rowA, rowB
		for rowB < len(b) && b[rowB].Frame == cur {
			rowB++
		}
		candidates := b[markB:rowB]
		for ; rowA < len(a) && a[rowA].Frame == cur; rowA++ {
			query := &a[rowA]
			if !query.IsLabeled() {
				ms.Matches[rowA] = Skipped
				continue
			}
			match, ok := FindMatch(modelA, query, modelB, candidates, minState, threshold)
			if !ok {
				ms.Matches[rowA] = NoMatch
				continue
			}
			ms.Matches[rowA] = markB + match.Index
			ms.Scores[rowA] = match.Score
		}
		ms.Frames = append(ms.Frames, FrameSpan{
			Frame:  cur,
			AStart: markA,
			AEnd:   rowA,
			BStart: markB,
			BEnd:   rowB,
		})
	}
	return ms, nil
}

// Matched returns B record matched to A record i, or nil
func (ms *MatchSet) Matched(i int) *measurements.Record {
	if ms.Matches[i] < 0 {
		return nil
	}
	return &ms.B[ms.Matches[i]]
}

// Matrix is the identity contingency table. Rows are shifted B labels, columns are shifted A labels.
// Row 0 (B index of Unlabeled) counts A records for which no match was found.
type Matrix struct {
	NumA   int
	NumB   int
	Counts []int
}

// NewMatrix allocates zeroed matrix for given label slot counts
func NewMatrix(numA, numB int) *Matrix {
	return &Matrix{
		NumA:   numA,
		NumB:   numB,
		Counts: make([]int, numA*numB),
	}
}

// At returns count for shifted B index j and shifted A index i
func (m *Matrix) At(j, i int) int {
	return m.Counts[m.NumA*j+i]
}

// Total returns sum of all counts
func (m *Matrix) Total() int {
	total := 0
	for _, v := range m.Counts {
		total += v
	}
	return total
}

// BuildCorrespondence accumulates co-occurrence counts of (A label, matched B label) over a match set.
// Unmatched queries count into row 0.
func BuildCorrespondence(ms *MatchSet, numA, numB int) (*Matrix, error) {
	m := NewMatrix(numA, numB)
	for i := range ms.A {
		if ms.Matches[i] == Skipped {
			continue
		}
		col := ms.A[i].Label + labelShift
		if col < 0 || col >= numA {
			return nil, errors.Errorf("A label %d does not fit into %d label slots", ms.A[i].Label, numA)
		}
		row := 0
		if match := ms.Matched(i); match != nil {
			row = match.Label + labelShift
			if row < 0 || row >= numB {
				return nil, errors.Errorf("B label %d does not fit into %d label slots", match.Label, numB)
			}
		}
		m.Counts[numA*row+col]++
	}
	return m, nil
}
