// Package store provides durable storage for fitted efficiency
// measurements.
//
// The fit engine produces one (efficiency, uncertainty) pair per canonical
// bin per systematic category; ingests land here keyed by analysis name so
// the export step can combine them later. Writes are idempotent upserts:
// re-ingesting a category replaces its rows under a fresh batch id.
package store
