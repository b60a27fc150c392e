// Package store persists completed simulation runs to SQLite.
//
// A run is written in a single transaction: one row in runs, one row per
// outcome in completion order, and one row per simulated day
// in stock_levels. Reads are limited to the aggregate queries the CLI and
// tests need; the store is an export target, not an input to the simulation.
package store
