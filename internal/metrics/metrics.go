// Package metrics provides Prometheus instrumentation for the replay worker.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Job outcomes used as the "outcome" label.
const (
	OutcomeOK      = "ok"
	OutcomeMissing = "missing"
	OutcomeFailed  = "failed"
	OutcomeInvalid = "invalid"
)

var (
	// JobsTotal counts handled queue jobs by outcome.
	JobsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "replay_jobs_total",
		Help: "Replay analysis jobs handled, by outcome",
	}, []string{"outcome"})

	// JobDuration tracks end-to-end job time per stage.
	JobDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "replay_job_stage_duration_seconds",
		Help:    "Time spent per replay job stage",
		Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	}, []string{"stage"})

	// EventsTotal counts ingested replay events by result.
	EventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "replay_events_total",
		Help: "Replay events seen during ingestion, by result",
	}, []string{"result"})

	// LedgersPruned counts unit supply ledgers dropped for never exceeding zero.
	LedgersPruned = promauto.NewCounter(prometheus.CounterOpts{
		Name: "replay_ledgers_pruned_total",
		Help: "Unit supply ledgers pruned after ingestion",
	})

	// QueueRetries counts jobs pushed back to the retry list or the DLQ.
	QueueRetries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "replay_queue_requeues_total",
		Help: "Jobs requeued after a failure, by destination",
	}, []string{"destination"})

	// ViewRefreshFailures counts materialized views that failed to refresh.
	ViewRefreshFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "replay_view_refresh_failures_total",
		Help: "Dashboard materialized view refreshes that failed",
	})
)

// ObserveStage records how long a job stage took since start.
func ObserveStage(stage string, start time.Time) {
	JobDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}

// RecordIngest adds one replay's ingestion counters.
func RecordIngest(applied, skipped, ignored, pruned int) {
	EventsTotal.WithLabelValues("applied").Add(float64(applied))
	EventsTotal.WithLabelValues("skipped").Add(float64(skipped))
	EventsTotal.WithLabelValues("ignored").Add(float64(ignored))
	LedgersPruned.Add(float64(pruned))
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
