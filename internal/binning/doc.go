// Package binning implements the irregular tag-and-probe phase-space grid:
// a regular momentum × pseudorapidity rectangle augmented with detector-seam
// gap sub-bins and optional merged overflow bins at the momentum extremes.
//
// Two orderings coexist. The canonical ordering is the flat order bins were
// created in; the fitting engine produces one efficiency measurement per
// canonical bin per systematic category. The display grid is the augmented 2D
// grid used for the exported lookup table. Scheme owns both and the mapping
// between them, built once per analysis configuration and immutable after.
package binning
