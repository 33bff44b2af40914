package analysis

// EraInfo holds the running conditions of one data-taking era, used in
// report labels.
type EraInfo struct {
	// Lumi is the integrated luminosity in inverse femtobarns.
	Lumi float64

	// ComEnergy is the center-of-mass energy in TeV.
	ComEnergy float64
}

// Eras lists the supported data-taking eras. The config schema accepts
// exactly these keys.
var Eras = map[string]EraInfo{
	"2016APV":      {Lumi: 20, ComEnergy: 13},
	"2016":         {Lumi: 17, ComEnergy: 13},
	"2017":         {Lumi: 41, ComEnergy: 13},
	"2018":         {Lumi: 60, ComEnergy: 13},
	"2022":         {Lumi: 8, ComEnergy: 13.6},
	"2022EE":       {Lumi: 27, ComEnergy: 13.6},
	"2023":         {Lumi: 18, ComEnergy: 13.6},
	"2023BPix":     {Lumi: 10, ComEnergy: 13.6},
	"2023BPixHole": {Lumi: 10, ComEnergy: 13.6},
}

// KnownEra reports whether era names a supported data-taking period.
func KnownEra(era string) bool {
	_, ok := Eras[era]
	return ok
}
