package binning

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAugmentEta_SplicesGapBins(t *testing.T) {
	etaEdges := []float64{-2.5, -2.0, -1.5, -0.8, 0.0, 0.8, 1.5, 2.0, 2.5}

	axis, err := AugmentEta(etaEdges, StandardGap)
	require.NoError(t, err)

	assert.Equal(t, []float64{
		-2.5, -2.0, -1.566, -1.4442, -0.8, 0.0, 0.8, 1.4442, 1.566, 2.0, 2.5,
	}, axis.Edges)
	assert.Equal(t, 2, axis.NegGapIndex)
	assert.Equal(t, 7, axis.PosGapIndex)
}

func TestAugmentEta_GrowsByExactlyTwoEdges(t *testing.T) {
	grids := [][]float64{
		{-2.5, -1.5, 0.0, 1.5, 2.5},
		{-2.5, -2.0, -1.5, -0.8, 0.0, 0.8, 1.5, 2.0, 2.5},
		{-1.6, -1.5, 1.5, 1.6},
	}

	for _, etaEdges := range grids {
		axis, err := AugmentEta(etaEdges, StandardGap)
		require.NoError(t, err)

		assert.Len(t, axis.Edges, len(etaEdges)+2)
		assert.Less(t, axis.NegGapIndex, axis.PosGapIndex)
		for i := 1; i < len(axis.Edges); i++ {
			assert.Greater(t, axis.Edges[i], axis.Edges[i-1],
				"augmented edges must stay strictly increasing")
		}
	}
}

func TestAugmentEta_RecordsReplacedEdgeAsSplit(t *testing.T) {
	t.Run("standard grid", func(t *testing.T) {
		axis, err := AugmentEta([]float64{-2.5, -1.5, 0.0, 1.5, 2.5}, StandardGap)
		require.NoError(t, err)
		assert.Equal(t, 1.5, axis.Split)
	})

	t.Run("edge off the interval midpoint", func(t *testing.T) {
		// The split is the regular edge the splice replaced, not the midpoint
		// of the gap interval.
		axis, err := AugmentEta([]float64{-2.5, -1.55, 0.0, 1.55, 2.5}, StandardGap)
		require.NoError(t, err)
		assert.Equal(t, 1.55, axis.Split)
	})
}

func TestAugmentEta_GapNotBracketed(t *testing.T) {
	// No edge inside either gap interval.
	etaEdges := []float64{-2.5, -1.0, 0.0, 1.0, 2.5}

	_, err := AugmentEta(etaEdges, StandardGap)
	require.Error(t, err)
	assert.True(t, IsInvalidBinning(err))

	var be *InvalidBinningError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, ErrCodeGapNotBracketed, be.Code)
}

func TestAugmentEta_RejectsNonMonotonicEdges(t *testing.T) {
	etaEdges := []float64{-2.5, -1.5, -1.5, 0.0, 1.5, 2.5}

	_, err := AugmentEta(etaEdges, StandardGap)
	require.Error(t, err)

	var be *InvalidBinningError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, ErrCodeNonMonotonic, be.Code)
}

func TestAppendOverflow(t *testing.T) {
	ptEdges := []float64{20.0, 35.0, 50.0, 100.0}

	t.Run("high only", func(t *testing.T) {
		edges, err := AppendOverflow(ptEdges, nil, &OverflowRange{Lo: 100.0, Hi: 500.0})
		require.NoError(t, err)
		assert.Equal(t, []float64{20.0, 35.0, 50.0, 100.0, 500.0}, edges)
	})

	t.Run("low and high", func(t *testing.T) {
		edges, err := AppendOverflow(ptEdges,
			&OverflowRange{Lo: 10.0, Hi: 20.0},
			&OverflowRange{Lo: 100.0, Hi: 500.0})
		require.NoError(t, err)
		assert.Equal(t, []float64{10.0, 20.0, 35.0, 50.0, 100.0, 500.0}, edges)
	})

	t.Run("nil ranges are a no-op", func(t *testing.T) {
		edges, err := AppendOverflow(ptEdges, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, ptEdges, edges)
	})

	t.Run("detached high range rejected", func(t *testing.T) {
		_, err := AppendOverflow(ptEdges, nil, &OverflowRange{Lo: 120.0, Hi: 500.0})
		require.Error(t, err)
		var be *InvalidBinningError
		require.ErrorAs(t, err, &be)
		assert.Equal(t, ErrCodeOverflowMismatch, be.Code)
	})

	t.Run("detached low range rejected", func(t *testing.T) {
		_, err := AppendOverflow(ptEdges, &OverflowRange{Lo: 10.0, Hi: 15.0}, nil)
		require.Error(t, err)
		var be *InvalidBinningError
		require.ErrorAs(t, err, &be)
		assert.Equal(t, ErrCodeOverflowMismatch, be.Code)
	})
}

func TestFindBin_ClosedOpenIntervals(t *testing.T) {
	edges := []float64{20.0, 50.0, 100.0}

	testCases := []struct {
		name  string
		value float64
		want  int
	}{
		{"first edge is inclusive", 20.0, 0},
		{"interior of first bin", 42.5, 0},
		{"shared edge belongs to upper bin", 50.0, 1},
		{"interior of last bin", 60.0, 1},
		{"last edge clamps to last bin", 100.0, 1},
		{"beyond last edge clamps to last bin", 250.0, 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := findBin("gap_pt", edges, tc.value)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	t.Run("below first edge is invalid", func(t *testing.T) {
		_, err := findBin("gap_pt", edges, 19.9)
		require.Error(t, err)
		var be *InvalidBinningError
		require.ErrorAs(t, err, &be)
		assert.Equal(t, ErrCodeBelowRange, be.Code)
	})
}
