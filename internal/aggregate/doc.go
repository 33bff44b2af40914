// Package aggregate combines the six per-bin efficiency measurements
// produced by the fitting engine into final data/simulation efficiencies
// and pass/fail scale factors.
//
// The combination uses the RMS method: the four data variants are averaged,
// their spread enters the uncertainty with fixed normalization constants,
// and the simulation variant pair supplies an envelope systematic. Combine
// is a pure function over in-memory values; degenerate inputs (simulation
// efficiency pinned at 0 or 1 on both variants) fall back to documented
// placeholder formulas with a logged warning instead of failing, so one
// anomalous bin never aborts a whole table.
package aggregate
