package compare

import (
	"strings"

	"github.com/pkg/errors"
)

// Unmapped marks an A label which never co-occurred with any B label
const Unmapped = -2

// Strategy selects how the A to B label mapping is inferred
type Strategy string

const (
	// StrategyGreedy picks the most frequent B label per A label. Not injective
	StrategyGreedy Strategy = "greedy"
	// StrategyHungarian picks an injective mapping maximizing total co-occurrence
	StrategyHungarian Strategy = "hungarian"
)

// ParseStrategy converts string to Strategy
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case StrategyGreedy, "":
		return StrategyGreedy, nil
	case StrategyHungarian:
		return StrategyHungarian, nil
	default:
		return "", errors.Errorf("unknown mapping strategy '%s'", s)
	}
}

// Mapping maps A labels to B labels. Internally both sides are shifted so Unlabeled is index 0.
type Mapping struct {
	shifted []int
}

func newMapping(numA int) *Mapping {
	shifted := make([]int, numA)
	for i := range shifted {
		shifted[i] = Unmapped
	}
	return &Mapping{shifted: shifted}
}

// Lookup returns B label mapped to A label. ok is false for unmapped or unknown labels
func (mapping *Mapping) Lookup(aLabel int) (int, bool) {
	i := aLabel + labelShift
	if i < 0 || i >= len(mapping.shifted) || mapping.shifted[i] == Unmapped {
		return Unmapped, false
	}
	return mapping.shifted[i] - labelShift, true
}

// Len returns number of A label slots
func (mapping *Mapping) Len() int {
	return len(mapping.shifted)
}

// Pair is a single A label to B label entry of a mapping. B is Unmapped when there is no mapping
type Pair struct {
	A int `json:"a"`
	B int `json:"b"`
}

// Pairs returns every A label slot with its mapped B label, in A label order
func (mapping *Mapping) Pairs() []Pair {
	pairs := make([]Pair, len(mapping.shifted))
	for i := range mapping.shifted {
		b, ok := mapping.Lookup(i - labelShift)
		if !ok {
			b = Unmapped
		}
		pairs[i] = Pair{A: i - labelShift, B: b}
	}
	return pairs
}

// InferMapping maps each A label to the B label it co-occurred with most.
// Ties keep the lowest B label. A labels whose counts are all zero stay Unmapped.
func InferMapping(m *Matrix) *Mapping {
	mapping := newMapping(m.NumA)
	for i := 0; i < m.NumA; i++ {
		maxCount := 0
		for j := 0; j < m.NumB; j++ {
			v := m.Counts[m.NumA*j+i]
			if v > maxCount {
				maxCount = v
				mapping.shifted[i] = j
			}
		}
	}
	return mapping
}

// Infer dispatches to mapping inference of given strategy
func Infer(m *Matrix, strategy Strategy) (*Mapping, error) {
	switch strategy {
	case StrategyGreedy, "":
		return InferMapping(m), nil
	case StrategyHungarian:
		return InferMappingHungarian(m), nil
	default:
		return nil, errors.Errorf("unknown mapping strategy '%s'", strategy)
	}
}
