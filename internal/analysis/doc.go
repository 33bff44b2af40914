// Package analysis orchestrates one tag-and-probe scale-factor analysis:
// it loads and validates the analysis configuration, builds the binning
// scheme, combines the stored per-bin efficiency measurements, and emits
// the correctionlib documents.
package analysis
