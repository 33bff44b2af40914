package correction

import (
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sfkit/internal/binning"
)

func TestBuild_TrivialGridRoundTrip(t *testing.T) {
	corr, err := Build("sf_pass", "data-MC SF", []float64{0, 1}, []float64{0, 1}, []float64{0.9})
	require.NoError(t, err)

	set := NewSet(corr)
	data, err := set.Encode()
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "trivial_set", data)

	var back Set
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, set, back)
	assert.Equal(t, 2, back.SchemaVersion)
	assert.Equal(t, "clamp", back.Corrections[0].Data.Flow)
}

// Content length follows the display grid: a gap-augmented eta axis has
// six columns, and a high-momentum overflow row grows the table from 4x6
// to 5x6.
func TestBuild_ContentLength(t *testing.T) {
	ptEdges := []float64{20, 35, 50, 70, 100}
	ptEdgesHigh := []float64{20, 35, 50, 70, 100, 500}
	etaEdges := []float64{-2.5, -1.566, -1.4442, 0, 1.4442, 1.566, 2.5}

	_, err := Build("effdata", "data eff", ptEdges, etaEdges, make([]float64, 24))
	assert.NoError(t, err)

	_, err = Build("effdata", "data eff", ptEdgesHigh, etaEdges, make([]float64, 30))
	assert.NoError(t, err)

	_, err = Build("effdata", "data eff", ptEdgesHigh, etaEdges, make([]float64, 24))
	require.Error(t, err)
	assert.True(t, IsShapeMismatch(err))

	var se *ShapeMismatchError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 30, se.Want)
	assert.Equal(t, 24, se.Got)
}

func TestBuild_RejectsNonMonotonicEdges(t *testing.T) {
	_, err := Build("effmc", "MC eff", []float64{20, 20}, []float64{0, 1}, []float64{1.0})
	require.Error(t, err)
	assert.True(t, binning.IsInvalidBinning(err))

	_, err = Build("effmc", "MC eff", []float64{20, 50}, []float64{1, 0}, []float64{1.0})
	require.Error(t, err)
	assert.True(t, binning.IsInvalidBinning(err))
}

func TestCorrection_EvaluateClamps(t *testing.T) {
	// 2x2 grid, content momentum-major: row 0 is {1, 2}, row 1 is {3, 4}.
	corr, err := Build("sf_pass", "data-MC SF",
		[]float64{20, 50, 100}, []float64{-1, 0, 1},
		[]float64{1, 2, 3, 4})
	require.NoError(t, err)

	testCases := []struct {
		name string
		pt   float64
		eta  float64
		want float64
	}{
		{"interior low row", 30, -0.5, 1},
		{"interior high row", 75, 0.5, 4},
		{"pt below range clamps to first row", 5, 0.5, 2},
		{"pt above range clamps to last row", 500, -0.5, 3},
		{"eta below range clamps to first column", 75, -3, 3},
		{"eta above range clamps to last column", 30, 3, 2},
		{"upper edges clamp inward", 100, 1, 4},
		{"lower edges are inclusive", 20, -1, 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, corr.Evaluate(tc.pt, tc.eta))
		})
	}
}
