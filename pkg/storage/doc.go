// Package storage persists crawl results: a BOM-prefixed CSV table for
// spreadsheet tools and the analyzer, and an optional sqlite archive
// that accumulates posts across runs.
package storage
