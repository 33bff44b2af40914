// Package correction builds and serializes correctionlib schema-version-2
// lookup tables: piecewise-constant binned functions over momentum and
// pseudorapidity, bundled into a shared envelope document.
package correction

import (
	"encoding/json"
	"sort"

	"sfkit/internal/binning"
)

// Variable describes one named input or output axis of a correction.
type Variable struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

// MultiBinning is the binned-function payload of a correction: a flat
// content array over the cross product of the edge arrays, flattened in
// the order the inputs list declares (momentum-major here).
type MultiBinning struct {
	NodeType string      `json:"nodetype"`
	Inputs   []string    `json:"inputs"`
	Edges    [][]float64 `json:"edges"`
	Content  []float64   `json:"content"`
	Flow     string      `json:"flow"`
}

// Correction is one named schema-v2 lookup table.
type Correction struct {
	Name    string       `json:"name"`
	Version int          `json:"version"`
	Inputs  []Variable   `json:"inputs"`
	Output  Variable     `json:"output"`
	Data    MultiBinning `json:"data"`
}

// Set is the top-level schema-v2 envelope bundling several corrections
// that share the same edge arrays.
type Set struct {
	SchemaVersion int          `json:"schema_version"`
	Description   string       `json:"description"`
	Corrections   []Correction `json:"corrections"`
}

// NewSet wraps corrections in a schema-version-2 envelope.
func NewSet(corrections ...Correction) Set {
	return Set{
		SchemaVersion: 2,
		Description:   "",
		Corrections:   corrections,
	}
}

// Encode serializes the envelope with two-space indentation, the layout
// downstream correctionlib consumers expect.
func (s Set) Encode() ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// Build assembles one correction table over the given display-grid edges.
// Content must hold exactly (len(ptEdges)-1)*(len(etaEdges)-1) values in
// momentum-major order; a wrong length is a ShapeMismatchError. Edge
// monotonicity is re-checked here because the edges travel separately from
// the schemes that produced them.
func Build(name, desc string, ptEdges, etaEdges []float64, content []float64) (Correction, error) {
	for _, axis := range []struct {
		name  string
		edges []float64
	}{{"pt", ptEdges}, {"eta", etaEdges}} {
		if err := checkEdges(axis.name, axis.edges); err != nil {
			return Correction{}, err
		}
	}

	want := (len(ptEdges) - 1) * (len(etaEdges) - 1)
	if len(content) != want {
		return Correction{}, &ShapeMismatchError{Name: name, Want: want, Got: len(content)}
	}

	return Correction{
		Name:    name,
		Version: 1,
		Inputs: []Variable{
			{Name: "pt", Type: "real", Description: "pt"},
			{Name: "eta", Type: "real", Description: "eta"},
		},
		Output: Variable{Name: "sf", Type: "real", Description: desc},
		Data: MultiBinning{
			NodeType: "multibinning",
			Inputs:   []string{"pt", "eta"},
			Edges:    [][]float64{ptEdges, etaEdges},
			Content:  content,
			Flow:     "clamp",
		},
	}, nil
}

// Evaluate looks up the table value at (pt, eta). Out-of-domain inputs
// clamp to the nearest edge bin; evaluation never errors.
func (c Correction) Evaluate(pt, eta float64) float64 {
	ptEdges, etaEdges := c.Data.Edges[0], c.Data.Edges[1]
	ipt := clampBin(ptEdges, pt)
	ieta := clampBin(etaEdges, eta)
	return c.Data.Content[ipt*(len(etaEdges)-1)+ieta]
}

func clampBin(edges []float64, v float64) int {
	n := len(edges) - 1
	i := sort.SearchFloat64s(edges, v)
	// SearchFloat64s returns the insertion point; shift to the bin whose
	// half-open interval [e_i, e_{i+1}) holds v, then clamp.
	if i < len(edges) && edges[i] == v {
		i++
	}
	i--
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

func checkEdges(axis string, edges []float64) error {
	if len(edges) < 2 {
		return &binning.InvalidBinningError{
			Code:    binning.ErrCodeNonMonotonic,
			Message: "axis needs at least two edges",
			Axis:    axis,
		}
	}
	for i := 1; i < len(edges); i++ {
		if edges[i] <= edges[i-1] {
			return &binning.InvalidBinningError{
				Code:    binning.ErrCodeNonMonotonic,
				Message: "edges are not strictly increasing",
				Axis:    axis,
			}
		}
	}
	return nil
}
