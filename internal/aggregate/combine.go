package aggregate

import (
	"log/slog"
	"math"

	"gonum.org/v1/gonum/stat"
)

// Category identifies one of the six measurement variants the fitting
// engine produces per canonical bin.
type Category string

const (
	// DataNominal is the data fit with nominal signal and background models.
	DataNominal Category = "data_nom"
	// DataAltSignal is the data fit with the alternative signal model.
	DataAltSignal Category = "data_altsig"
	// DataAltBackground is the data fit with the alternative background model.
	DataAltBackground Category = "data_altbkg"
	// DataAltSignalBackground is the data fit with both alternatives.
	DataAltSignalBackground Category = "data_altsigbkg"
	// SimNominal is the nominal simulation count-and-count efficiency.
	SimNominal Category = "sim_nom"
	// SimAlternate is the alternative-sample simulation efficiency.
	SimAlternate Category = "sim_alt"
)

// Categories lists every variant in canonical order.
var Categories = []Category{
	DataNominal,
	DataAltSignal,
	DataAltBackground,
	DataAltSignalBackground,
	SimNominal,
	SimAlternate,
}

// ValidCategory reports whether c names one of the six variants.
func ValidCategory(c Category) bool {
	for _, k := range Categories {
		if c == k {
			return true
		}
	}
	return false
}

// Measurement is one fitted efficiency with its statistical uncertainty.
type Measurement struct {
	Eff float64
	Unc float64
}

// BinInputs carries the six measurements for one canonical bin.
type BinInputs struct {
	DataNom       Measurement
	DataAltSig    Measurement
	DataAltBkg    Measurement
	DataAltSigBkg Measurement
	SimNom        Measurement
	SimAlt        Measurement
}

// Result is the combined output for one canonical bin.
type Result struct {
	DataEff float64
	DataUnc float64
	SimEff  float64
	SimUnc  float64
	PassSF  float64
	PassUnc float64
	FailSF  float64
	FailUnc float64
}

// Spread normalization constants of the RMS method. They are fixed design
// choices of the combination, not derived from sample statistics.
const (
	dataSpreadNorm  = 3.4641016151377544 // sqrt(12)
	ratioSpreadNorm = 1.7320508075688772 // sqrt(3)
)

// Combine merges the six measurements of one bin into final efficiencies
// and scale factors. It is total over efficiencies in [0,1]: degenerate
// simulation inputs select fallback branches and log a warning rather
// than returning an error.
func Combine(in BinInputs) Result {
	var out Result

	e := [4]float64{in.DataNom.Eff, in.DataAltSig.Eff, in.DataAltBkg.Eff, in.DataAltSigBkg.Eff}
	uncDat := in.DataNom.Unc
	s1, s2 := in.SimNom.Eff, in.SimAlt.Eff
	uncSim1, uncSim2 := in.SimNom.Unc, in.SimAlt.Unc

	out.DataEff = stat.Mean(e[:], nil)
	out.DataUnc = math.Hypot(uncDat, math.Sqrt(
		sq(e[0]-out.DataEff)+sq(e[1]-out.DataEff)+sq(e[2]-out.DataEff)+sq(e[3]-out.DataEff))/dataSpreadNorm)

	// Simulation: prefer the nominal variant when it lies strictly inside
	// (0,1); the variant difference enters as an envelope systematic.
	if s1 > 0.0 && s1 < 1.0 {
		out.SimEff = s1
		out.SimUnc = math.Max(uncSim1, math.Abs(s1-s2))
	} else {
		out.SimEff = s2
		out.SimUnc = math.Max(uncSim2, math.Abs(s1-s2))
	}

	out.PassSF, out.PassUnc = passScaleFactor(e, uncDat, s1, s2, uncSim1, uncSim2)
	out.FailSF, out.FailUnc = failScaleFactor(e, uncDat, s1, s2, uncSim1, uncSim2)
	return out
}

func passScaleFactor(e [4]float64, uncDat, s1, s2, uncSim1, uncSim2 float64) (float64, float64) {
	switch {
	case s1 > 0.0 && s2 > 0.0:
		r := ratios(e, s1)
		mean, spread := meanAndSpread(r)
		statTerm := r[0] * uncDat / e[0]
		simTerm := r[0] * uncSim1 / s1
		altTerm := math.Abs(r[0] - e[0]/s2)
		return mean, math.Hypot(spread/2.0, math.Hypot(statTerm, math.Max(simTerm, altTerm)))
	case s1 > 0.0 || s2 > 0.0:
		s, uncS := s1, uncSim1
		if s2 > 0.0 {
			s, uncS = s2, uncSim2
		}
		r := ratios(e, s)
		mean, spread := meanAndSpread(r)
		statTerm := r[0] * uncDat / e[0]
		simTerm := r[0] * uncS / s
		return mean, math.Hypot(spread/2.0, math.Hypot(statTerm, simTerm))
	default:
		// Both variants report zero efficiency. The nominal uncertainty
		// stands in as the ratio denominator so the bin still yields a
		// flagged, finite value.
		slog.Warn("zero simulation efficiency on both variants",
			"sim_nom", s1, "sim_alt", s2)
		s := uncSim1
		r := ratios(e, s)
		mean, spread := meanAndSpread(r)
		statTerm := r[0] * uncDat / e[0]
		simTerm := r[0] * uncSim1 / s
		return mean, math.Hypot(spread/2.0, math.Hypot(statTerm, simTerm))
	}
}

func failScaleFactor(e [4]float64, uncDat, s1, s2, uncSim1, uncSim2 float64) (float64, float64) {
	c := [4]float64{1.0 - e[0], 1.0 - e[1], 1.0 - e[2], 1.0 - e[3]}
	switch {
	case s1 < 1.0 && s2 < 1.0:
		r := ratios(c, 1.0-s1)
		mean, spread := meanAndSpread(r)
		statTerm := r[0] * uncDat / c[0]
		simTerm := r[0] * uncSim1 / (1.0 - s1)
		altTerm := math.Abs(r[0] - c[0]/(1.0-s2))
		return mean, math.Hypot(spread/2.0, math.Hypot(statTerm, math.Max(simTerm, altTerm)))
	case s1 < 1.0 || s2 < 1.0:
		s, uncS := s1, uncSim1
		if s2 < 1.0 {
			s, uncS = s2, uncSim2
		}
		r := ratios(c, 1.0-s)
		mean, spread := meanAndSpread(r)
		statTerm := r[0] * uncDat / c[0]
		simTerm := r[0] * uncS / (1.0 - s)
		return mean, math.Hypot(spread/2.0, math.Hypot(statTerm, simTerm))
	default:
		// Both variants report unity efficiency; no complementary ratio
		// exists. 1.0 +- 1.0 marks the bin without distorting downstream
		// products.
		slog.Warn("unity simulation efficiency on both variants",
			"sim_nom", s1, "sim_alt", s2)
		return 1.0, 1.0
	}
}

func ratios(e [4]float64, denom float64) [4]float64 {
	return [4]float64{e[0] / denom, e[1] / denom, e[2] / denom, e[3] / denom}
}

// meanAndSpread returns the mean of the four ratios and their RMS about it,
// normalized by sqrt(3).
func meanAndSpread(r [4]float64) (float64, float64) {
	mean := stat.Mean(r[:], nil)
	spread := math.Sqrt(sq(r[0]-mean)+sq(r[1]-mean)+sq(r[2]-mean)+sq(r[3]-mean)) / ratioSpreadNorm
	return mean, spread
}

func sq(x float64) float64 { return x * x }
