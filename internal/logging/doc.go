// Package logging assembles structured slog loggers used across gamedex.
//
// It centralizes level and output plumbing for the console and JSON handlers
// and exposes context-aware helpers so source adapters and the aggregator can
// automatically tag log lines with correlation IDs and source names. The
// package also provides a no-op logger for tests and wiring code that cannot
// fail.
//
// Prefer these constructors over hand-rolled slog setup so every component
// emits data with the same shape.
package logging
