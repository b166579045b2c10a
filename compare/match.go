package compare

import (
	"math"

	"github.com/LdDl/mot-compare/measurements"
)

const (
	// DefaultThreshold is the log2 score a best match must exceed to be accepted.
	// It only rejects near-impossible pairings.
	DefaultThreshold = -5000.0
	// DefaultMinState maps the Unlabeled label to model index 0
	DefaultMinState = measurements.Unlabeled
)

// Oracle evaluates log2 likelihood of a transition between two feature vectors
// for the label with given model index.
type Oracle interface {
	EvalLog2Likelihood(from, to []float64, index int) float64
}

// Match is the accepted best candidate for a query record
type Match struct {
	// Index of the candidate in the pool passed to FindMatch
	Index int
	// Joint log2 score
	Score float64
}

// FindMatch searches candidates (all from the query's frame) for the one with the highest joint score:
// likelihood of candidate following query under domainModel (indexed by candidate's label)
// plus likelihood of query following candidate under queryModel (indexed by query's label).
// Ties keep the first candidate seen. The best candidate is accepted only if its score is strictly above threshold.
func FindMatch(queryModel Oracle, query *measurements.Record, domainModel Oracle, candidates []measurements.Record, minState int, threshold float64) (Match, bool) {
	maxScore := -math.MaxFloat64
	argmax := -1
	for i := range candidates {
		c := &candidates[i]
		score := domainModel.EvalLog2Likelihood(query.Features, c.Features, c.Label-minState) +
			queryModel.EvalLog2Likelihood(c.Features, query.Features, query.Label-minState)
		if score > maxScore {
			maxScore = score
			argmax = i
		}
	}
	if argmax < 0 || !(maxScore > threshold) {
		return Match{Index: -1, Score: maxScore}, false
	}
	return Match{Index: argmax, Score: maxScore}, true
}
