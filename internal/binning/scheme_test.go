package binning

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Shared fixture: 4 interior pt bins, 4 interior eta bins, 2 gap-momentum
// sub-bins. Overflow ranges are added per layout.
func testSpec(layout string) GridSpec {
	spec := GridSpec{
		Layout:   layout,
		PtEdges:  []float64{20.0, 35.0, 50.0, 70.0, 100.0},
		EtaEdges: []float64{-2.5, -1.5, 0.0, 1.5, 2.5},
		PtVar:    "el_pt",
		EtaVar:   "el_sc_eta",
	}
	if layout != LayoutStandard {
		spec.GapPtEdges = []float64{20.0, 50.0, 100.0}
		spec.Gap = StandardGap
	}
	if layout == LayoutGapHighPt || layout == LayoutGapHighLowPt {
		spec.HighPt = &OverflowRange{Lo: 100.0, Hi: 500.0}
	}
	if layout == LayoutGapHighLowPt {
		spec.LowPt = &OverflowRange{Lo: 10.0, Hi: 20.0}
	}
	return spec
}

func TestNewScheme_BinCounts(t *testing.T) {
	testCases := []struct {
		layout   string
		wantBins int
	}{
		{LayoutStandard, 16},         // 4x4 interior
		{LayoutGap, 20},              // + 2 gap-momentum sub-bins x 2 sides
		{LayoutGapHighPt, 22},        // + 2 high-pt super-region bins
		{LayoutGapHighLowPt, 26},     // + 4 low-pt super-region bins
	}

	for _, tc := range testCases {
		t.Run(tc.layout, func(t *testing.T) {
			s, err := NewScheme(testSpec(tc.layout))
			require.NoError(t, err)
			assert.Equal(t, tc.wantBins, s.NumBins())
			assert.Len(t, s.Bins(), tc.wantBins)
		})
	}
}

func TestNewScheme_CanonicalOrdering(t *testing.T) {
	s, err := NewScheme(testSpec(LayoutGapHighLowPt))
	require.NoError(t, err)

	bins := s.Bins()

	// Low-pt overflow bins occupy the lowest offsets.
	for i := 0; i < 4; i++ {
		assert.Equal(t, KindLowPt, bins[i].Kind)
		assert.Equal(t, i, bins[i].Region)
	}

	// Interior bins are row-major in (pt, eta), shifted by the low-pt count.
	for ipt := 0; ipt < 4; ipt++ {
		for ieta := 0; ieta < 4; ieta++ {
			b := bins[4+ipt*4+ieta]
			require.Equal(t, KindInterior, b.Kind)
			assert.Equal(t, ipt, b.PtBin)
			assert.Equal(t, ieta, b.EtaBin)
		}
	}

	// Gap bins follow, ordered by gap-momentum sub-bin then side.
	gapBase := 4 + 16
	for gp := 0; gp < 2; gp++ {
		for side := 0; side < 2; side++ {
			b := bins[gapBase+gp*2+side]
			require.Equal(t, KindGap, b.Kind)
			assert.Equal(t, gp, b.PtBin)
			assert.Equal(t, side, b.Side)
		}
	}

	// High-pt overflow bins close the enumeration.
	assert.Equal(t, KindHighPt, bins[24].Kind)
	assert.Equal(t, 0, bins[24].Region)
	assert.Equal(t, KindHighPt, bins[25].Kind)
	assert.Equal(t, 1, bins[25].Region)
}

func TestNewScheme_SelectionsAndLabels(t *testing.T) {
	s, err := NewScheme(testSpec(LayoutGapHighPt))
	require.NoError(t, err)

	first, err := s.Bin(0)
	require.NoError(t, err)
	assert.Equal(t, "20<el_pt&&el_pt<35&&-2.5<el_sc_eta&&el_sc_eta<-1.5", first.Selection)
	assert.Equal(t, "20<pT<35 GeV, -2.5<eta<-1.5", first.Label)
	assert.False(t, first.HighPt)

	gap, err := s.Bin(16)
	require.NoError(t, err)
	assert.Equal(t, "20<el_pt&&el_pt<50&&-1.566<el_sc_eta&&el_sc_eta<-1.4442", gap.Selection)

	high, err := s.Bin(21)
	require.NoError(t, err)
	assert.Equal(t, "100<el_pt&&el_pt<500&&1.5<fabs(el_sc_eta)&&fabs(el_sc_eta)<2.5", high.Selection)
	assert.Equal(t, "100<pT<500 GeV, 1.5<|eta|<2.5", high.Label)
	assert.True(t, high.HighPt)
}

func TestNewScheme_HighPtFlagFollowsMomentumEdge(t *testing.T) {
	s, err := NewScheme(testSpec(LayoutGap))
	require.NoError(t, err)

	for _, b := range s.Bins() {
		// Fixture momentum edges top out at 100; only bins starting above the
		// 70 GeV threshold are flagged.
		assert.Equal(t, b.PtLo > 70.0, b.HighPt, "bin %d", b.Index)
	}
}

func TestNewScheme_DisplayGridDimensions(t *testing.T) {
	testCases := []struct {
		layout  string
		ptRows  int
		etaCols int
	}{
		{LayoutStandard, 4, 4},
		{LayoutGap, 4, 6},
		{LayoutGapHighPt, 5, 6},
		{LayoutGapHighLowPt, 6, 6},
	}

	for _, tc := range testCases {
		t.Run(tc.layout, func(t *testing.T) {
			s, err := NewScheme(testSpec(tc.layout))
			require.NoError(t, err)
			assert.Len(t, s.DisplayPtEdges(), tc.ptRows+1)
			assert.Len(t, s.DisplayEtaEdges(), tc.etaCols+1)
		})
	}
}

func TestNewScheme_RejectsLayoutMismatches(t *testing.T) {
	t.Run("unknown layout", func(t *testing.T) {
		spec := testSpec(LayoutStandard)
		spec.Layout = "diagonal"
		_, err := NewScheme(spec)
		assert.Error(t, err)
	})

	t.Run("standard layout with gap edges", func(t *testing.T) {
		spec := testSpec(LayoutStandard)
		spec.GapPtEdges = []float64{20.0, 100.0}
		_, err := NewScheme(spec)
		assert.Error(t, err)
	})

	t.Run("gap_highpt without high range", func(t *testing.T) {
		spec := testSpec(LayoutGapHighPt)
		spec.HighPt = nil
		_, err := NewScheme(spec)
		assert.Error(t, err)
	})

	t.Run("gap_highpt_lowpt without low range", func(t *testing.T) {
		spec := testSpec(LayoutGapHighLowPt)
		spec.LowPt = nil
		_, err := NewScheme(spec)
		assert.Error(t, err)
	})
}

func TestNewScheme_UnrepresentableGapMomentumBin(t *testing.T) {
	// Gap momentum binning finer than the interior grid: sub-bin [20,25)
	// contains no interior momentum-bin center, so no display cell can ever
	// select it and the scheme must be rejected up front.
	spec := testSpec(LayoutGap)
	spec.GapPtEdges = []float64{20.0, 25.0, 100.0}

	_, err := NewScheme(spec)
	require.Error(t, err)

	var be *InvalidBinningError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, ErrCodeUnrepresentable, be.Code)
}
