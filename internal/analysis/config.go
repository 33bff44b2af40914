package analysis

import (
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"

	"sfkit/internal/binning"
)

//go:embed schema.cue
var configSchema string

// OverflowRange is a coarse momentum range merged into overflow bins.
type OverflowRange struct {
	Lo float64 `json:"lo"`
	Hi float64 `json:"hi"`
}

// GapConfig is the detector-seam interval spliced into the eta axis.
type GapConfig struct {
	NegLo float64 `json:"neg_lo"`
	NegHi float64 `json:"neg_hi"`
	PosLo float64 `json:"pos_lo"`
	PosHi float64 `json:"pos_hi"`
}

// Config describes one scale-factor analysis: its identity, data-taking
// era, and the full binning layout. Load fills defaults and validates
// structure; binning invariants are checked when the Scheme is built.
type Config struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Era         string `json:"era"`
	Layout      string `json:"layout"`

	PtVar  string `json:"pt_var"`
	EtaVar string `json:"eta_var"`

	PtEdges    []float64 `json:"pt_edges"`
	EtaEdges   []float64 `json:"eta_edges"`
	GapPtEdges []float64 `json:"gap_pt_edges"`

	LowPt  *OverflowRange `json:"low_pt"`
	HighPt *OverflowRange `json:"high_pt"`

	Gap GapConfig `json:"gap"`
}

// Load reads a YAML analysis configuration, validates it against the
// embedded schema, and applies schema defaults.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{Code: ErrCodeConfigRead, Path: path, Message: err.Error()}
	}

	var doc map[string]any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, &ConfigError{Code: ErrCodeConfigParse, Path: path, Message: err.Error()}
	}

	ctx := cuecontext.New()
	schema := ctx.CompileString(configSchema)
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compiling config schema: %w", err)
	}

	unified := schema.Unify(ctx.Encode(doc))
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, &ConfigError{Code: ErrCodeConfigInvalid, Path: path, Message: err.Error()}
	}

	var cfg Config
	if err := unified.Decode(&cfg); err != nil {
		return nil, &ConfigError{Code: ErrCodeConfigInvalid, Path: path, Message: err.Error()}
	}
	return &cfg, nil
}

// Scheme builds the binning scheme this configuration describes.
func (c *Config) Scheme() (*binning.Scheme, error) {
	spec := binning.GridSpec{
		Layout:     c.Layout,
		PtEdges:    c.PtEdges,
		EtaEdges:   c.EtaEdges,
		GapPtEdges: c.GapPtEdges,
		Gap: binning.GapSpec{
			NegLo: c.Gap.NegLo,
			NegHi: c.Gap.NegHi,
			PosLo: c.Gap.PosLo,
			PosHi: c.Gap.PosHi,
		},
		PtVar:  c.PtVar,
		EtaVar: c.EtaVar,
	}
	if c.LowPt != nil {
		spec.LowPt = &binning.OverflowRange{Lo: c.LowPt.Lo, Hi: c.LowPt.Hi}
	}
	if c.HighPt != nil {
		spec.HighPt = &binning.OverflowRange{Lo: c.HighPt.Lo, Hi: c.HighPt.Hi}
	}
	return binning.NewScheme(spec)
}
