// Package pipeline orchestrates the ingestion run: a fixed pool of workers,
// one per source directory, each driving its files through hash → dedup →
// transcode → admission → upload. The dedup gate and the handoff queue are
// the only structures shared between workers; everything else is
// worker-local.
package pipeline
