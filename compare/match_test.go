package compare

import (
	"math"
	"math/rand"
	"testing"

	"github.com/LdDl/mot-compare/measurements"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// distanceOracle scores transitions by negative L1 distance plus a per-index bias
type distanceOracle struct {
	scale float64
	bias  map[int]float64
	calls [][2]int
}

func (o *distanceOracle) EvalLog2Likelihood(from, to []float64, index int) float64 {
	o.calls = append(o.calls, [2]int{len(o.calls), index})
	score := o.bias[index]
	for d := range from {
		score -= o.scale * math.Abs(to[d]-from[d])
	}
	return score
}

// constOracle gives the same score to everything
type constOracle float64

func (o constOracle) EvalLog2Likelihood(from, to []float64, index int) float64 {
	return float64(o)
}

func rec(frame, label, secondary int, features ...float64) measurements.Record {
	return measurements.Record{Frame: frame, Label: label, Secondary: secondary, Features: features}
}

func TestFindMatchEmptyPool(t *testing.T) {
	oracle := &distanceOracle{scale: 1}
	query := rec(0, 1, 0, 1, 2)
	for _, threshold := range []float64{math.Inf(-1), -math.MaxFloat64, DefaultThreshold, 0, 10} {
		_, ok := FindMatch(oracle, &query, oracle, nil, DefaultMinState, threshold)
		assert.False(t, ok, "threshold %v", threshold)
		_, ok = FindMatch(oracle, &query, oracle, []measurements.Record{}, DefaultMinState, threshold)
		assert.False(t, ok, "threshold %v", threshold)
	}
}

func TestFindMatchPicksBest(t *testing.T) {
	oracle := &distanceOracle{scale: 1}
	query := rec(0, 1, 0, 10, 10)
	candidates := []measurements.Record{
		rec(0, 4, 0, 30, 30),
		rec(0, 5, 1, 11, 10),
		rec(0, 6, 2, 10, 13),
	}
	match, ok := FindMatch(oracle, &query, oracle, candidates, DefaultMinState, DefaultThreshold)
	require.True(t, ok)
	assert.Equal(t, 1, match.Index)
	assert.InDelta(t, -2.0, match.Score, 1e-12)
}

func TestFindMatchModelIndices(t *testing.T) {
	queryModel := &distanceOracle{scale: 1}
	domainModel := &distanceOracle{scale: 1}
	query := rec(0, 3, 0, 0)
	candidates := []measurements.Record{rec(0, 7, 0, 0), rec(0, -1, 0, 0)}
	FindMatch(queryModel, &query, domainModel, candidates, -1, DefaultThreshold)
	// Domain model is indexed by candidate label, query model by query label
	require.Len(t, domainModel.calls, 2)
	assert.Equal(t, 8, domainModel.calls[0][1])
	assert.Equal(t, 0, domainModel.calls[1][1])
	require.Len(t, queryModel.calls, 2)
	assert.Equal(t, 4, queryModel.calls[0][1])
	assert.Equal(t, 4, queryModel.calls[1][1])
}

func TestFindMatchTieKeepsFirst(t *testing.T) {
	query := rec(0, 1, 0, 0)
	candidates := []measurements.Record{rec(0, 2, 0, 5), rec(0, 3, 0, 6), rec(0, 4, 0, 7)}
	match, ok := FindMatch(constOracle(-1), &query, constOracle(-1), candidates, DefaultMinState, DefaultThreshold)
	require.True(t, ok)
	assert.Equal(t, 0, match.Index)
}

func TestFindMatchThresholdIsStrict(t *testing.T) {
	query := rec(0, 1, 0, 0)
	candidates := []measurements.Record{rec(0, 2, 0, 0)}
	_, ok := FindMatch(constOracle(-2500), &query, constOracle(-2500), candidates, DefaultMinState, DefaultThreshold)
	assert.False(t, ok, "score equal to threshold must be rejected")
	_, ok = FindMatch(constOracle(-2499), &query, constOracle(-2500), candidates, DefaultMinState, DefaultThreshold)
	assert.True(t, ok)
	_, ok = FindMatch(constOracle(math.Inf(-1)), &query, constOracle(0), candidates, DefaultMinState, math.Inf(-1))
	assert.False(t, ok, "impossible candidates are never accepted")
}

func TestFindMatchThresholdMonotonic(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	oracle := &distanceOracle{scale: 3, bias: map[int]float64{0: -50, 1: -10, 2: 0, 3: -5}}
	thresholds := []float64{-400, -200, -100, -50, -20, -5, 0}
	for trial := 0; trial < 200; trial++ {
		query := rec(0, rnd.Intn(3), 0, rnd.Float64()*40, rnd.Float64()*40)
		pool := make([]measurements.Record, rnd.Intn(5))
		for i := range pool {
			pool[i] = rec(0, rnd.Intn(4)-1, i, rnd.Float64()*40, rnd.Float64()*40)
		}
		prevOK := true
		prevIndex := -1
		for k, threshold := range thresholds {
			match, ok := FindMatch(oracle, &query, oracle, pool, DefaultMinState, threshold)
			if ok && k > 0 {
				assert.True(t, prevOK, "accepted at %v but not at lower threshold", threshold)
				assert.Equal(t, prevIndex, match.Index)
			}
			prevOK, prevIndex = ok, match.Index
		}
	}
}
