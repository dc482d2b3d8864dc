// Package metrics registers prometheus counters for every per-file terminal
// state and exposes the /metrics handler. Counters are package-level via
// promauto; the pipeline increments them alongside its RunStats so a long
// run can be watched without scraping logs.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	FilesDiscovered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vidfeed_files_discovered_total",
		Help: "Video files found across all source directories",
	})
	HashFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vidfeed_hash_failures_total",
		Help: "Files skipped because their content could not be hashed",
	})
	Duplicates = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vidfeed_duplicates_total",
		Help: "Files skipped as byte-identical to already-admitted content",
	})
	Transcodes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vidfeed_transcodes_total",
		Help: "Files successfully re-encoded by the external tool",
	})
	Passthroughs = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vidfeed_passthroughs_total",
		Help: "Files forwarded unmodified after a failed transcode",
	})
	AdmissionRejections = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vidfeed_admission_rejections_total",
		Help: "Artifacts dropped because the handoff queue was at capacity",
	})
	Transmissions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vidfeed_transmissions_total",
		Help: "Artifacts fully streamed to the consumer",
	})
	TransmitFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vidfeed_transmit_failures_total",
		Help: "Transfers that failed at dial, write, or local read",
	})
	BytesSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vidfeed_bytes_sent_total",
		Help: "Payload bytes written to the consumer (name lines excluded)",
	})
)

// Handler returns the HTTP handler serving the default registry.
func Handler() http.Handler { return promhttp.Handler() }
