package binning

// GapSpec describes a detector seam as two fixed eta intervals, one on each
// side of the detector. The standard EB-EE seam is (-1.566, -1.4442) and
// (1.4442, 1.566).
type GapSpec struct {
	NegLo float64
	NegHi float64
	PosLo float64
	PosHi float64
}

// StandardGap is the EB-EE transition region seam.
var StandardGap = GapSpec{NegLo: -1.566, NegHi: -1.4442, PosLo: 1.4442, PosHi: 1.566}

// AugmentedEtaAxis is an eta axis with the two gap sub-bins spliced in.
// NegGapIndex and PosGapIndex give the display-axis position of each gap bin.
// Split is the regular edge the positive-side splice replaced; it separates
// the central and outer super-regions (1.5 on the standard grids). Built once
// per analysis configuration; read-only afterward.
type AugmentedEtaAxis struct {
	Edges       []float64
	NegGapIndex int
	PosGapIndex int
	Split       float64
}

// AugmentEta splices the gap sub-bins into an eta axis.
//
// The input axis must contain, among its edges, one value strictly inside the
// negative gap interval and one strictly inside the positive gap interval
// (the standard grids place an edge at -1.5 and +1.5). Each bracketing edge
// is replaced by the exact gap boundary pair, growing the axis by one edge
// and one bin per side.
func AugmentEta(etaEdges []float64, gap GapSpec) (AugmentedEtaAxis, error) {
	if err := checkEdges("eta", etaEdges); err != nil {
		return AugmentedEtaAxis{}, err
	}

	negLoc := -1
	posLoc := -1
	for i := 0; i < len(etaEdges)-1; i++ {
		if etaEdges[i] > gap.NegLo && etaEdges[i] < gap.NegHi {
			negLoc = i
		}
		if etaEdges[i] > gap.PosLo && etaEdges[i] < gap.PosHi {
			posLoc = i
		}
	}
	if negLoc == -1 || posLoc == -1 {
		return AugmentedEtaAxis{}, newBinningError(ErrCodeGapNotBracketed, "eta",
			"gap boundary not bracketed: axis needs an edge inside (%g,%g) and (%g,%g)",
			gap.NegLo, gap.NegHi, gap.PosLo, gap.PosHi)
	}

	split := etaEdges[posLoc]

	edges := make([]float64, 0, len(etaEdges)+2)
	edges = append(edges, etaEdges...)

	// Negative side: insert the outer boundary before the bracketing edge and
	// snap that edge to the inner boundary.
	edges = append(edges[:negLoc], append([]float64{gap.NegLo}, edges[negLoc:]...)...)
	edges[negLoc+1] = gap.NegHi

	// Positive side, shifted by the insertion above.
	posLoc++
	edges = append(edges[:posLoc], append([]float64{gap.PosLo}, edges[posLoc:]...)...)
	edges[posLoc+1] = gap.PosHi

	axis := AugmentedEtaAxis{
		Edges:       edges,
		NegGapIndex: negLoc,
		PosGapIndex: posLoc,
		Split:       split,
	}
	if err := checkEdges("eta", axis.Edges); err != nil {
		return AugmentedEtaAxis{}, err
	}
	return axis, nil
}

// OverflowRange is one coarse momentum bin appended to (or prepended to) the
// regular momentum axis, used where sparse statistics at the phase-space
// extremes force coarser binning than the interior grid.
type OverflowRange struct {
	Lo float64
	Hi float64
}

// AppendOverflow extends a momentum axis with optional coarse overflow
// ranges. A low range must end exactly at the first pt edge; a high range
// must start exactly at the last pt edge. Nil ranges are skipped.
func AppendOverflow(ptEdges []float64, low, high *OverflowRange) ([]float64, error) {
	if err := checkEdges("pt", ptEdges); err != nil {
		return nil, err
	}

	edges := make([]float64, 0, len(ptEdges)+2)
	if low != nil {
		if low.Hi != ptEdges[0] {
			return nil, newBinningError(ErrCodeOverflowMismatch, "pt",
				"low overflow range must end at first pt edge %g, got %g",
				ptEdges[0], low.Hi)
		}
		edges = append(edges, low.Lo)
	}
	edges = append(edges, ptEdges...)
	if high != nil {
		if high.Lo != ptEdges[len(ptEdges)-1] {
			return nil, newBinningError(ErrCodeOverflowMismatch, "pt",
				"high overflow range must start at last pt edge %g, got %g",
				ptEdges[len(ptEdges)-1], high.Lo)
		}
		edges = append(edges, high.Hi)
	}
	if err := checkEdges("pt", edges); err != nil {
		return nil, err
	}
	return edges, nil
}
