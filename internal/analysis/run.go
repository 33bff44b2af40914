package analysis

import (
	"log/slog"

	"sfkit/internal/aggregate"
	"sfkit/internal/binning"
	"sfkit/internal/correction"
)

// Measurements holds the fit engine's output: per canonical bin, one
// efficiency measurement per systematic category.
type Measurements map[int]map[aggregate.Category]aggregate.Measurement

// Output bundles the two exported correctionlib documents.
type Output struct {
	// Efficiencies carries effdata, systdata, effmc, systmc.
	Efficiencies correction.Set

	// ScaleFactors carries sf_pass, unc_pass, sf_fail, unc_fail.
	ScaleFactors correction.Set
}

// Run combines the stored measurements of one analysis into its final
// correction documents. Every canonical bin must have all six categories
// with efficiencies in [0,1]; a missing or malformed measurement fails
// the run naming the bin.
func Run(cfg *Config, m Measurements) (*Output, error) {
	scheme, err := cfg.Scheme()
	if err != nil {
		return nil, err
	}
	return runScheme(cfg.Name, scheme, m)
}

func runScheme(name string, scheme *binning.Scheme, m Measurements) (*Output, error) {
	results := make([]aggregate.Result, scheme.NumBins())
	for b := range results {
		in, err := binInputs(b, m)
		if err != nil {
			return nil, err
		}
		results[b] = aggregate.Combine(in)
	}

	ptEdges := scheme.DisplayPtEdges()
	etaEdges := scheme.DisplayEtaEdges()

	// Reorder canonical results into the momentum-major display layout.
	flatten := func(pick func(aggregate.Result) float64) ([]float64, error) {
		nRows := len(ptEdges) - 1
		nCols := len(etaEdges) - 1
		content := make([]float64, 0, nRows*nCols)
		for ipt := 0; ipt < nRows; ipt++ {
			for ieta := 0; ieta < nCols; ieta++ {
				b, err := scheme.DisplayToCanonical(ipt, ieta)
				if err != nil {
					return nil, err
				}
				content = append(content, pick(results[b]))
			}
		}
		return content, nil
	}

	tables := []struct {
		name string
		desc string
		pick func(aggregate.Result) float64
	}{
		{"effdata", "data eff", func(r aggregate.Result) float64 { return r.DataEff }},
		{"systdata", "data unc", func(r aggregate.Result) float64 { return r.DataUnc }},
		{"effmc", "MC eff", func(r aggregate.Result) float64 { return r.SimEff }},
		{"systmc", "MC unc", func(r aggregate.Result) float64 { return r.SimUnc }},
		{"sf_pass", "data-MC SF", func(r aggregate.Result) float64 { return r.PassSF }},
		{"unc_pass", "data-MC unc", func(r aggregate.Result) float64 { return r.PassUnc }},
		{"sf_fail", "data-MC SF", func(r aggregate.Result) float64 { return r.FailSF }},
		{"unc_fail", "data-MC unc", func(r aggregate.Result) float64 { return r.FailUnc }},
	}

	corrections := make([]correction.Correction, 0, len(tables))
	for _, tbl := range tables {
		content, err := flatten(tbl.pick)
		if err != nil {
			return nil, err
		}
		corr, err := correction.Build(tbl.name, tbl.desc, ptEdges, etaEdges, content)
		if err != nil {
			return nil, err
		}
		corrections = append(corrections, corr)
	}

	slog.Info("analysis combined",
		"analysis", name,
		"layout", scheme.Layout(),
		"bins", scheme.NumBins())

	return &Output{
		Efficiencies: correction.NewSet(corrections[0], corrections[1], corrections[2], corrections[3]),
		ScaleFactors: correction.NewSet(corrections[4], corrections[5], corrections[6], corrections[7]),
	}, nil
}

func binInputs(b int, m Measurements) (aggregate.BinInputs, error) {
	bm, ok := m[b]
	if !ok {
		return aggregate.BinInputs{}, &MeasurementError{Bin: b, Reason: "no measurements"}
	}

	var in aggregate.BinInputs
	slots := map[aggregate.Category]*aggregate.Measurement{
		aggregate.DataNominal:             &in.DataNom,
		aggregate.DataAltSignal:           &in.DataAltSig,
		aggregate.DataAltBackground:       &in.DataAltBkg,
		aggregate.DataAltSignalBackground: &in.DataAltSigBkg,
		aggregate.SimNominal:              &in.SimNom,
		aggregate.SimAlternate:            &in.SimAlt,
	}
	for _, cat := range aggregate.Categories {
		meas, ok := bm[cat]
		if !ok {
			return aggregate.BinInputs{}, &MeasurementError{Bin: b, Category: cat, Reason: "missing"}
		}
		if meas.Eff < 0 || meas.Eff > 1 {
			return aggregate.BinInputs{}, &MeasurementError{Bin: b, Category: cat,
				Reason: "efficiency outside [0,1]"}
		}
		if meas.Unc < 0 {
			return aggregate.BinInputs{}, &MeasurementError{Bin: b, Category: cat,
				Reason: "negative uncertainty"}
		}
		*slots[cat] = meas
	}
	return in, nil
}
