package compare

import (
	"testing"

	"github.com/LdDl/mot-compare/measurements"
	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTables() (measurements.Table, measurements.Table) {
	a := measurements.Table{
		rec(1, -1, 0, 500, 500),
		rec(1, 0, 0, 0, 0),
		rec(1, 1, 0, 100, 0),
		rec(2, 0, 0, 1, 0),
		rec(2, 1, 0, 101, 0),
		rec(3, 1, 0, 102, 0), // frame 3 is absent in B
		rec(5, 0, 0, 3, 0),
		rec(5, 1, 1, 103, 0),
	}
	b := measurements.Table{
		rec(0, 2, 0, 7, 7), // frame 0 is absent in A
		rec(1, 1, 0, 0, 0),
		rec(1, 2, 0, 100, 0),
		rec(2, 1, 0, 1, 0),
		rec(2, 2, 0, 101, 0),
		rec(4, 1, 0, 2, 0),
		rec(5, -1, 0, 3, 0),
		rec(5, 2, 0, 103, 0),
	}
	return a, b
}

func TestMatchTablesFrameWalk(t *testing.T) {
	a, b := sampleTables()
	oracle := &distanceOracle{scale: 1}
	ms, err := MatchTables(a, b, oracle, oracle, DefaultMinState, -10)
	require.NoError(t, err)

	wantFrames := []FrameSpan{
		{Frame: 1, AStart: 0, AEnd: 3, BStart: 1, BEnd: 3},
		{Frame: 2, AStart: 3, AEnd: 5, BStart: 3, BEnd: 5},
		{Frame: 3, AStart: 5, AEnd: 6, BStart: 5, BEnd: 5},
		{Frame: 5, AStart: 6, AEnd: 8, BStart: 6, BEnd: 8},
	}
	if diff := cmp.Diff(wantFrames, ms.Frames); diff != "" {
		t.Errorf("unexpected frame spans (-want +got):\n%s", diff)
	}
	wantMatches := []int{Skipped, 1, 2, 3, 4, NoMatch, 6, 7}
	if diff := cmp.Diff(wantMatches, ms.Matches); diff != "" {
		t.Errorf("unexpected matches (-want +got):\n%s", diff)
	}
	assert.Nil(t, ms.Matched(0))
	assert.Equal(t, 2, ms.Matched(2).Label)
}

func TestBuildCorrespondence(t *testing.T) {
	a, b := sampleTables()
	oracle := &distanceOracle{scale: 1}
	ms, err := MatchTables(a, b, oracle, oracle, DefaultMinState, -10)
	require.NoError(t, err)
	numA, numB := a.NumLabels(), b.NumLabels()
	m, err := BuildCorrespondence(ms, numA, numB)
	require.NoError(t, err)

	assert.Equal(t, a.NumLabeled(), m.Total())
	// A label 0: B label 1 twice, then B's Unlabeled record in frame 5
	assert.Equal(t, 2, m.At(1+labelShift, 0+labelShift))
	assert.Equal(t, 1, m.At(0, 0+labelShift))
	// A label 1: B label 2 three times, unmatched once in frame 3
	assert.Equal(t, 3, m.At(2+labelShift, 1+labelShift))
	assert.Equal(t, 1, m.At(0, 1+labelShift))
	// Unlabeled A column stays empty
	for j := 0; j < numB; j++ {
		assert.Zero(t, m.At(j, 0))
	}
}

func TestBuildCorrespondenceIdempotent(t *testing.T) {
	a, b := sampleTables()
	oracle := &distanceOracle{scale: 1}
	build := func() *Matrix {
		ms, err := MatchTables(a, b, oracle, oracle, DefaultMinState, -10)
		require.NoError(t, err)
		m, err := BuildCorrespondence(ms, a.NumLabels(), b.NumLabels())
		require.NoError(t, err)
		return m
	}
	first, second := build(), build()
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("matrices differ (-first +second):\n%s", diff)
	}
}

func TestBuildCorrespondenceLabelBounds(t *testing.T) {
	a, b := sampleTables()
	oracle := &distanceOracle{scale: 1}
	ms, err := MatchTables(a, b, oracle, oracle, DefaultMinState, -10)
	require.NoError(t, err)
	_, err = BuildCorrespondence(ms, 2, b.NumLabels())
	assert.Error(t, err)
	_, err = BuildCorrespondence(ms, a.NumLabels(), 2)
	assert.Error(t, err)
}

func TestMatchTablesRejectsUnsorted(t *testing.T) {
	a := measurements.Table{rec(2, 0, 0, 0), rec(1, 0, 0, 0)}
	b := measurements.Table{rec(1, 0, 0, 0)}
	oracle := &distanceOracle{scale: 1}
	_, err := MatchTables(a, b, oracle, oracle, DefaultMinState, DefaultThreshold)
	assert.True(t, errors.Is(err, measurements.ErrUnsorted))
	_, err = MatchTables(b, a, oracle, oracle, DefaultMinState, DefaultThreshold)
	assert.True(t, errors.Is(err, measurements.ErrUnsorted))
}

func TestMatchTablesEmpty(t *testing.T) {
	oracle := &distanceOracle{scale: 1}
	ms, err := MatchTables(nil, nil, oracle, oracle, DefaultMinState, DefaultThreshold)
	require.NoError(t, err)
	assert.Empty(t, ms.Frames)
	m, err := BuildCorrespondence(ms, 1, 1)
	require.NoError(t, err)
	assert.Zero(t, m.Total())
}
