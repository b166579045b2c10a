package compare

import (
	"github.com/arthurkushman/go-hungarian"
)

// InferMappingHungarian finds an injective mapping between labeled A and labeled B labels
// maximizing total co-occurrence (Kuhn-Munkres). The "no match" row and Unlabeled column don't
// take part in the assignment. A labels assigned to nothing or to a zero count stay Unmapped.
func InferMappingHungarian(m *Matrix) *Mapping {
	mapping := newMapping(m.NumA)
	numA := m.NumA - labelShift
	numB := m.NumB - labelShift
	if numA <= 0 || numB <= 0 {
		return mapping
	}

	// Rectangular matrix - pad to make it square. Padding is done with zero counts
	paddedSize := maxInt(numA, numB)
	paddedMatrix := make([][]float64, paddedSize)
	for i := 0; i < paddedSize; i++ {
		paddedMatrix[i] = make([]float64, paddedSize)
	}
	for i := 0; i < numA; i++ {
		for j := 0; j < numB; j++ {
			paddedMatrix[i][j] = float64(m.At(j+labelShift, i+labelShift))
		}
	}

	assignmentsMap := hungarian.SolveMax(paddedMatrix)
	for aIndex, rowMap := range assignmentsMap {
		// Inner map holds exactly one entry: {bIndex: count}
		for bIndex := range rowMap {
			if aIndex < numA && bIndex < numB && m.At(bIndex+labelShift, aIndex+labelShift) > 0 {
				mapping.shifted[aIndex+labelShift] = bIndex + labelShift
			}
			break
		}
	}
	return mapping
}
