package binning

// checkEdges verifies that edges form a valid axis: at least two values,
// strictly increasing. Malformed axes are rejected eagerly, never reordered.
func checkEdges(axis string, edges []float64) error {
	if len(edges) < 2 {
		return newBinningError(ErrCodeNonMonotonic, axis,
			"axis needs at least 2 edges, got %d", len(edges))
	}
	for i := 1; i < len(edges); i++ {
		if edges[i] <= edges[i-1] {
			return newBinningError(ErrCodeNonMonotonic, axis,
				"edges not strictly increasing at index %d (%g >= %g)",
				i-1, edges[i-1], edges[i])
		}
	}
	return nil
}

// binCenter returns the midpoint of bin i on the axis.
func binCenter(edges []float64, i int) float64 {
	return (edges[i] + edges[i+1]) / 2.0
}

// findBin locates the bin containing value using closed-open intervals
// [edge_i, edge_{i+1}). A value below the first edge is an error; a value at
// or above the last edge clamps to the last bin.
func findBin(axis string, edges []float64, value float64) (int, error) {
	if value < edges[0] {
		return 0, newBinningError(ErrCodeBelowRange, axis,
			"value %g below first edge %g", value, edges[0])
	}
	for i := 0; i < len(edges)-1; i++ {
		if value >= edges[i] && value < edges[i+1] {
			return i, nil
		}
	}
	return len(edges) - 2, nil
}
