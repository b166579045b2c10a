package measurements

import (
	"sort"

	"github.com/pkg/errors"
)

// Unlabeled is the label of a record which is not a real object. Such records
// are never matched or scored.
const Unlabeled = -1

var (
	// ErrUnsorted is returned when frame ids of a table are not non-decreasing
	ErrUnsorted = errors.New("frame ids are not non-decreasing")
	// ErrBadLabel is returned for labels below Unlabeled
	ErrBadLabel = errors.New("label must be >= -1")
)

// Record is a single tracked-object observation in a single frame.
type Record struct {
	// Frame index. Not unique across the table
	Frame int
	// Identity assigned by the producing tracker. Unlabeled (-1) for non-objects
	Label int
	// Auxiliary identifier. Used for diagnostics only
	Secondary int
	// Feature vector consumed by motion models. Opaque to the comparison itself
	Features []float64
}

// IsLabeled reports whether record takes part in matching
func (rec *Record) IsLabeled() bool {
	return rec.Label != Unlabeled
}

// Center returns first two features as a point. Zero point if there are fewer than two features
func (rec *Record) Center() Point {
	if len(rec.Features) < 2 {
		return Point{}
	}
	return Point{X: rec.Features[0], Y: rec.Features[1]}
}

// Table is an ordered sequence of measurement records
type Table []Record

// SortByLabelTime orders table by (label, frame). This is the order motion models are built in
func (table Table) SortByLabelTime() {
	sort.SliceStable(table, func(i, j int) bool {
		if table[i].Label != table[j].Label {
			return table[i].Label < table[j].Label
		}
		return table[i].Frame < table[j].Frame
	})
}

// SortByFrameLabelSecondary orders table by (frame, label, secondary). Frame-synchronous passes expect this order
func (table Table) SortByFrameLabelSecondary() {
	sort.SliceStable(table, func(i, j int) bool {
		if table[i].Frame != table[j].Frame {
			return table[i].Frame < table[j].Frame
		}
		if table[i].Label != table[j].Label {
			return table[i].Label < table[j].Label
		}
		return table[i].Secondary < table[j].Secondary
	})
}

// Validate checks that frame ids never decrease and that every label is valid
func (table Table) Validate() error {
	for i := range table {
		if table[i].Label < Unlabeled {
			return errors.Wrapf(ErrBadLabel, "row %d has label %d", i, table[i].Label)
		}
		if i > 0 && table[i].Frame < table[i-1].Frame {
			return errors.Wrapf(ErrUnsorted, "row %d: frame %d follows frame %d", i, table[i].Frame, table[i-1].Frame)
		}
	}
	return nil
}

// NumLabels returns number of label slots needed to index labels shifted by one,
// i.e. max label + 2. The extra slot holds Unlabeled.
func (table Table) NumLabels() int {
	maxLabel := Unlabeled
	for i := range table {
		if table[i].Label > maxLabel {
			maxLabel = table[i].Label
		}
	}
	return maxLabel + 2
}

// NumLabeled returns number of records taking part in matching
func (table Table) NumLabeled() int {
	n := 0
	for i := range table {
		if table[i].IsLabeled() {
			n++
		}
	}
	return n
}

// Frames returns number of distinct frame runs. Table must be sorted by frame
func (table Table) Frames() int {
	n := 0
	for i := range table {
		if i == 0 || table[i].Frame != table[i-1].Frame {
			n++
		}
	}
	return n
}

// Clone returns deep copy of the table
func (table Table) Clone() Table {
	cloned := make(Table, len(table))
	for i := range table {
		cloned[i] = table[i]
		cloned[i].Features = append([]float64(nil), table[i].Features...)
	}
	return cloned
}
