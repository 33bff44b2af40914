package binning

import (
	"fmt"
	"math"
)

// Layout names for the supported grid configurations.
const (
	LayoutStandard     = "standard"
	LayoutGap          = "gap"
	LayoutGapHighPt    = "gap_highpt"
	LayoutGapHighLowPt = "gap_highpt_lowpt"
)

// ValidLayouts defines allowed layout names.
var ValidLayouts = map[string]bool{
	LayoutStandard:     true,
	LayoutGap:          true,
	LayoutGapHighPt:    true,
	LayoutGapHighLowPt: true,
}

// Momentum bins starting above this value fit too few failing probes for a
// stable background shape; the fit engine treats them specially.
const highPtThreshold = 70.0

// BinKind categorizes canonical bins.
type BinKind int

const (
	// KindInterior is a regular (pt, eta) grid bin.
	KindInterior BinKind = iota
	// KindGap is a detector-seam sub-bin, one per gap-momentum bin and side.
	KindGap
	// KindHighPt is a merged high-momentum overflow bin (one per super-region).
	KindHighPt
	// KindLowPt is a merged low-momentum overflow bin (one per super-region).
	KindLowPt
)

// Bin is one canonical measurement category. Canonical indices are assigned
// once at scheme construction in a fixed deterministic order and never
// renumbered; the fitting engine produces one efficiency per bin per
// systematic category under exactly this ordering.
type Bin struct {
	Index int
	Kind  BinKind

	// PtBin is the interior momentum bin (KindInterior) or the gap-momentum
	// sub-bin (KindGap). Side is 0 for the negative-eta gap bin, 1 for the
	// positive one. EtaBin is the interior eta bin (KindInterior). Region is
	// the super-region of an overflow bin.
	PtBin  int
	EtaBin int
	Side   int
	Region int

	PtLo, PtHi   float64
	EtaLo, EtaHi float64

	// Selection is the event selection for this bin in the fit engine's
	// expression syntax; Label is the human-readable name used in reports.
	Selection string
	Label     string

	// HighPt marks bins where the failing leg is statistically degenerate.
	HighPt bool
}

// GridSpec collects everything needed to construct a Scheme.
type GridSpec struct {
	Layout     string
	PtEdges    []float64
	EtaEdges   []float64
	GapPtEdges []float64
	Gap        GapSpec
	LowPt      *OverflowRange
	HighPt     *OverflowRange

	// Variable names used in generated bin selections.
	PtVar  string
	EtaVar string
}

// Scheme is the immutable binning for one analysis configuration: the
// augmented display grid, the canonical bin enumeration, and the bidirectional
// mapping between the two. Build once, share by reference.
type Scheme struct {
	layout     string
	ptEdges    []float64
	etaEdges   []float64
	gapPtEdges []float64
	gap        GapSpec
	lowPt      *OverflowRange
	highPt     *OverflowRange

	eta       AugmentedEtaAxis // zero value for LayoutStandard
	displayPt []float64
	split     float64
	bins      []Bin
}

// NewScheme validates a GridSpec and constructs the canonical enumeration.
func NewScheme(spec GridSpec) (*Scheme, error) {
	if !ValidLayouts[spec.Layout] {
		return nil, fmt.Errorf("invalid layout %q", spec.Layout)
	}
	if err := checkEdges("pt", spec.PtEdges); err != nil {
		return nil, err
	}
	if err := checkEdges("eta", spec.EtaEdges); err != nil {
		return nil, err
	}

	s := &Scheme{
		layout:     spec.Layout,
		ptEdges:    spec.PtEdges,
		etaEdges:   spec.EtaEdges,
		gapPtEdges: spec.GapPtEdges,
		gap:        spec.Gap,
		lowPt:      spec.LowPt,
		highPt:     spec.HighPt,
	}

	if spec.Layout == LayoutStandard {
		if spec.GapPtEdges != nil || spec.LowPt != nil || spec.HighPt != nil {
			return nil, fmt.Errorf("layout %q takes no gap or overflow binning", spec.Layout)
		}
		s.displayPt = spec.PtEdges
		s.enumerate(spec.PtVar, spec.EtaVar)
		return s, nil
	}

	// Gap layouts.
	if err := checkEdges("gap_pt", spec.GapPtEdges); err != nil {
		return nil, err
	}
	axis, err := AugmentEta(spec.EtaEdges, spec.Gap)
	if err != nil {
		return nil, err
	}
	s.eta = axis
	s.split = axis.Split

	switch spec.Layout {
	case LayoutGap:
		if spec.LowPt != nil || spec.HighPt != nil {
			return nil, fmt.Errorf("layout %q takes no overflow binning", spec.Layout)
		}
	case LayoutGapHighPt:
		if spec.HighPt == nil {
			return nil, fmt.Errorf("layout %q requires a high-pt overflow range", spec.Layout)
		}
		if spec.LowPt != nil {
			return nil, fmt.Errorf("layout %q takes no low-pt overflow range", spec.Layout)
		}
	case LayoutGapHighLowPt:
		if spec.HighPt == nil || spec.LowPt == nil {
			return nil, fmt.Errorf("layout %q requires both overflow ranges", spec.Layout)
		}
	}
	s.displayPt, err = AppendOverflow(spec.PtEdges, spec.LowPt, spec.HighPt)
	if err != nil {
		return nil, err
	}

	s.enumerate(spec.PtVar, spec.EtaVar)
	if err := s.checkRepresentable(); err != nil {
		return nil, err
	}
	return s, nil
}

// Dimension helpers. nPt/nEta count interior bins only.
func (s *Scheme) nPt() int    { return len(s.ptEdges) - 1 }
func (s *Scheme) nEta() int   { return len(s.etaEdges) - 1 }
func (s *Scheme) nGapPt() int { return len(s.gapPtEdges) - 1 }

func (s *Scheme) nLow() int {
	if s.lowPt != nil {
		return 4
	}
	return 0
}

func (s *Scheme) nHigh() int {
	if s.highPt != nil {
		return 2
	}
	return 0
}

// nLowRows is the number of display rows prepended for low-pt overflow.
func (s *Scheme) nLowRows() int {
	if s.lowPt != nil {
		return 1
	}
	return 0
}

// NumBins returns the total canonical bin count.
func (s *Scheme) NumBins() int { return len(s.bins) }

// Layout returns the layout name.
func (s *Scheme) Layout() string { return s.layout }

// Bins returns the canonical bin table in index order.
func (s *Scheme) Bins() []Bin { return s.bins }

// Bin returns the bin with the given canonical index.
func (s *Scheme) Bin(i int) (Bin, error) {
	if i < 0 || i >= len(s.bins) {
		return Bin{}, newBinningError(ErrCodeOutOfRange, "",
			"canonical bin %d outside [0,%d)", i, len(s.bins))
	}
	return s.bins[i], nil
}

// DisplayPtEdges returns the momentum edges of the display grid, including
// any overflow rows.
func (s *Scheme) DisplayPtEdges() []float64 { return s.displayPt }

// DisplayEtaEdges returns the eta edges of the display grid: the augmented
// axis for gap layouts, the interior axis otherwise.
func (s *Scheme) DisplayEtaEdges() []float64 {
	if s.layout == LayoutStandard {
		return s.etaEdges
	}
	return s.eta.Edges
}

// GapIndices returns the display positions of the two gap bins.
// Valid only for gap layouts.
func (s *Scheme) GapIndices() (neg, pos int) {
	return s.eta.NegGapIndex, s.eta.PosGapIndex
}

// enumerate builds the canonical bin table: low-pt overflow bins first (when
// configured), then interior bins row-major, then gap bins ordered by
// gap-momentum sub-bin and side, then high-pt overflow bins.
func (s *Scheme) enumerate(ptVar, etaVar string) {
	etaMin := s.etaEdges[0]
	etaMax := s.etaEdges[s.nEta()]

	if s.lowPt != nil {
		regions := [4][2]float64{
			{etaMin, -s.split},
			{-s.split, 0.0},
			{0.0, s.split},
			{s.split, etaMax},
		}
		for r, bounds := range regions {
			s.bins = append(s.bins, Bin{
				Index:  len(s.bins),
				Kind:   KindLowPt,
				Region: r,
				PtLo:   s.lowPt.Lo, PtHi: s.lowPt.Hi,
				EtaLo: bounds[0], EtaHi: bounds[1],
				Selection: rangeSelection(ptVar, s.lowPt.Lo, s.lowPt.Hi,
					etaVar, bounds[0], bounds[1]),
				Label: binLabel(s.lowPt.Lo, s.lowPt.Hi, bounds[0], bounds[1]),
			})
		}
	}

	for ipt := 0; ipt < s.nPt(); ipt++ {
		for ieta := 0; ieta < s.nEta(); ieta++ {
			ptLo, ptHi := s.ptEdges[ipt], s.ptEdges[ipt+1]
			etaLo, etaHi := s.etaEdges[ieta], s.etaEdges[ieta+1]
			s.bins = append(s.bins, Bin{
				Index: len(s.bins),
				Kind:  KindInterior,
				PtBin: ipt, EtaBin: ieta,
				PtLo: ptLo, PtHi: ptHi,
				EtaLo: etaLo, EtaHi: etaHi,
				Selection: rangeSelection(ptVar, ptLo, ptHi, etaVar, etaLo, etaHi),
				Label:     binLabel(ptLo, ptHi, etaLo, etaHi),
				HighPt:    ptLo > highPtThreshold,
			})
		}
	}

	if s.layout != LayoutStandard {
		sides := [2][2]float64{
			{s.gap.NegLo, s.gap.NegHi},
			{s.gap.PosLo, s.gap.PosHi},
		}
		for gp := 0; gp < s.nGapPt(); gp++ {
			for side, bounds := range sides {
				ptLo, ptHi := s.gapPtEdges[gp], s.gapPtEdges[gp+1]
				s.bins = append(s.bins, Bin{
					Index: len(s.bins),
					Kind:  KindGap,
					PtBin: gp, Side: side,
					PtLo: ptLo, PtHi: ptHi,
					EtaLo: bounds[0], EtaHi: bounds[1],
					Selection: rangeSelection(ptVar, ptLo, ptHi, etaVar, bounds[0], bounds[1]),
					Label:     binLabel(ptLo, ptHi, bounds[0], bounds[1]),
					HighPt:    ptLo > highPtThreshold,
				})
			}
		}
	}

	if s.highPt != nil {
		absMax := math.Max(math.Abs(etaMin), etaMax)
		regions := [2][2]float64{
			{0.0, s.split},
			{s.split, absMax},
		}
		for r, bounds := range regions {
			s.bins = append(s.bins, Bin{
				Index:  len(s.bins),
				Kind:   KindHighPt,
				Region: r,
				PtLo:   s.highPt.Lo, PtHi: s.highPt.Hi,
				EtaLo: -bounds[1], EtaHi: bounds[1],
				Selection: absRangeSelection(ptVar, s.highPt.Lo, s.highPt.Hi,
					etaVar, bounds[0], bounds[1]),
				Label: fmt.Sprintf("%g<pT<%g GeV, %g<|eta|<%g",
					s.highPt.Lo, s.highPt.Hi, bounds[0], bounds[1]),
				HighPt: true,
			})
		}
	}
}

// checkRepresentable verifies that every gap and overflow bin is reachable
// from at least one display cell, so the canonical/display mapping round-trips
// for the whole enumeration.
func (s *Scheme) checkRepresentable() error {
	for gp := 0; gp < s.nGapPt(); gp++ {
		if _, err := s.gapRowFor(gp); err != nil {
			return err
		}
	}
	if s.highPt != nil {
		for r := 0; r < 2; r++ {
			if _, err := s.highEtaCellFor(r); err != nil {
				return err
			}
		}
	}
	if s.lowPt != nil {
		for r := 0; r < 4; r++ {
			if _, err := s.lowEtaCellFor(r); err != nil {
				return err
			}
		}
	}
	return nil
}

// rangeSelection renders a rectangular cut in the fit engine's expression
// syntax, e.g. "20<el_pt&&el_pt<35&&-0.8<el_sc_eta&&el_sc_eta<0".
func rangeSelection(ptVar string, ptLo, ptHi float64, etaVar string, etaLo, etaHi float64) string {
	return fmt.Sprintf("%g<%s&&%s<%g&&%g<%s&&%s<%g",
		ptLo, ptVar, ptVar, ptHi, etaLo, etaVar, etaVar, etaHi)
}

// absRangeSelection renders a cut on |eta| for the merged overflow bins.
func absRangeSelection(ptVar string, ptLo, ptHi float64, etaVar string, absLo, absHi float64) string {
	return fmt.Sprintf("%g<%s&&%s<%g&&%g<fabs(%s)&&fabs(%s)<%g",
		ptLo, ptVar, ptVar, ptHi, absLo, etaVar, etaVar, absHi)
}

func binLabel(ptLo, ptHi, etaLo, etaHi float64) string {
	return fmt.Sprintf("%g<pT<%g GeV, %g<eta<%g", ptLo, ptHi, etaLo, etaHi)
}
