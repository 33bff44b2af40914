package binning

import "math"

// This file holds the bidirectional mapping between canonical bin indices and
// display-grid positions. The mapping is purely combinatorial, but it is the
// most error-prone part of the package: an off-by-one corrupts specific rows
// or columns of the exported table without crashing, so each of the four
// layouts is exercised independently by the round-trip tests.

// DisplayToCanonical converts a display-grid cell (momentum row, eta column)
// to the canonical bin index that fills it.
func (s *Scheme) DisplayToCanonical(iptDisp, ietaDisp int) (int, error) {
	nPtRows := len(s.displayPt) - 1
	nEtaCols := len(s.DisplayEtaEdges()) - 1
	if iptDisp < 0 || iptDisp >= nPtRows {
		return 0, newBinningError(ErrCodeOutOfRange, "pt",
			"display row %d outside [0,%d)", iptDisp, nPtRows)
	}
	if ietaDisp < 0 || ietaDisp >= nEtaCols {
		return 0, newBinningError(ErrCodeOutOfRange, "eta",
			"display column %d outside [0,%d)", ietaDisp, nEtaCols)
	}

	// Overflow rows bypass the gap markers entirely: the eta column selects a
	// coarse super-region bin by its cell center.
	if s.lowPt != nil && iptDisp == 0 {
		return s.lowRegion(binCenter(s.DisplayEtaEdges(), ietaDisp)), nil
	}
	if s.highPt != nil && iptDisp == s.nLowRows()+s.nPt() {
		r := s.highRegion(binCenter(s.DisplayEtaEdges(), ietaDisp))
		return s.nLow() + s.nPt()*s.nEta() + 2*s.nGapPt() + r, nil
	}

	ipt := iptDisp - s.nLowRows()
	if s.layout == LayoutStandard {
		return ipt*s.nEta() + ietaDisp, nil
	}

	// Gap layouts: decode the eta column against the gap markers. Columns at
	// a marker select the gap bin whose momentum sub-bin contains the display
	// row's momentum-bin center.
	switch {
	case ietaDisp == s.eta.NegGapIndex || ietaDisp == s.eta.PosGapIndex:
		side := 0
		if ietaDisp == s.eta.PosGapIndex {
			side = 1
		}
		gp, err := findBin("gap_pt", s.gapPtEdges, binCenter(s.ptEdges, ipt))
		if err != nil {
			return 0, err
		}
		return s.nLow() + s.nPt()*s.nEta() + gp*2 + side, nil
	case ietaDisp < s.eta.NegGapIndex:
		return s.nLow() + ipt*s.nEta() + ietaDisp, nil
	case ietaDisp < s.eta.PosGapIndex:
		return s.nLow() + ipt*s.nEta() + (ietaDisp - 1), nil
	default:
		return s.nLow() + ipt*s.nEta() + (ietaDisp - 2), nil
	}
}

// CanonicalToDisplay converts a canonical bin index to a display-grid cell
// covered by that bin. Gap and overflow bins span several display cells; the
// first covering cell is returned, which is enough for the round-trip law.
func (s *Scheme) CanonicalToDisplay(bin int) (iptDisp, ietaDisp int, err error) {
	b, err := s.Bin(bin)
	if err != nil {
		return 0, 0, err
	}

	switch b.Kind {
	case KindInterior:
		return s.nLowRows() + b.PtBin, s.displayEtaFor(b.EtaBin), nil

	case KindGap:
		row, err := s.gapRowFor(b.PtBin)
		if err != nil {
			return 0, 0, err
		}
		col := s.eta.NegGapIndex
		if b.Side == 1 {
			col = s.eta.PosGapIndex
		}
		return row, col, nil

	case KindHighPt:
		col, err := s.highEtaCellFor(b.Region)
		if err != nil {
			return 0, 0, err
		}
		return s.nLowRows() + s.nPt(), col, nil

	case KindLowPt:
		col, err := s.lowEtaCellFor(b.Region)
		if err != nil {
			return 0, 0, err
		}
		return 0, col, nil
	}
	return 0, 0, newBinningError(ErrCodeOutOfRange, "", "unknown bin kind %d", b.Kind)
}

// displayEtaFor maps an interior eta bin to its display column, skipping the
// spliced-in gap columns.
func (s *Scheme) displayEtaFor(ieta int) int {
	if s.layout == LayoutStandard {
		return ieta
	}
	switch {
	case ieta < s.eta.NegGapIndex:
		return ieta
	case ieta+1 < s.eta.PosGapIndex:
		return ieta + 1
	default:
		return ieta + 2
	}
}

// gapRowFor returns the first interior display row whose momentum-bin center
// falls inside gap-momentum sub-bin gp.
func (s *Scheme) gapRowFor(gp int) (int, error) {
	for ipt := 0; ipt < s.nPt(); ipt++ {
		got, err := findBin("gap_pt", s.gapPtEdges, binCenter(s.ptEdges, ipt))
		if err != nil {
			return 0, err
		}
		if got == gp {
			return s.nLowRows() + ipt, nil
		}
	}
	return 0, newBinningError(ErrCodeUnrepresentable, "gap_pt",
		"gap momentum sub-bin %d contains no interior momentum-bin center", gp)
}

// highEtaCellFor returns the first display eta column whose center lies in
// high-pt super-region r.
func (s *Scheme) highEtaCellFor(r int) (int, error) {
	edges := s.DisplayEtaEdges()
	for col := 0; col < len(edges)-1; col++ {
		if s.highRegion(binCenter(edges, col)) == r {
			return col, nil
		}
	}
	return 0, newBinningError(ErrCodeUnrepresentable, "eta",
		"high-pt super-region %d contains no display cell center", r)
}

// lowEtaCellFor returns the first display eta column whose center lies in
// low-pt super-region r.
func (s *Scheme) lowEtaCellFor(r int) (int, error) {
	edges := s.DisplayEtaEdges()
	for col := 0; col < len(edges)-1; col++ {
		if s.lowRegion(binCenter(edges, col)) == r {
			return col, nil
		}
	}
	return 0, newBinningError(ErrCodeUnrepresentable, "eta",
		"low-pt super-region %d contains no display cell center", r)
}

// highRegion classifies an eta value into the two high-pt super-regions:
// 0 central (|eta| below the split), 1 outer.
func (s *Scheme) highRegion(eta float64) int {
	if math.Abs(eta) < s.split {
		return 0
	}
	return 1
}

// lowRegion classifies an eta value into the four low-pt super-regions,
// ordered negative-outer, negative-central, positive-central, positive-outer.
// The central/outer boundary uses the same |eta| comparison as highRegion, so
// both overflow rows agree on which side of the split a value falls.
func (s *Scheme) lowRegion(eta float64) int {
	central := math.Abs(eta) < s.split
	switch {
	case eta < 0 && !central:
		return 0
	case eta < 0:
		return 1
	case central:
		return 2
	default:
		return 3
	}
}
