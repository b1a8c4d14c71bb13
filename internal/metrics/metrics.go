// Package metrics exposes Prometheus metrics for matching runs and HTTP.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"bom-sourcing/internal/matching/model"
)

var (
	BomLinesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bom_lines_total",
			Help: "BOM lines matched, by result status",
		},
		[]string{"status"},
	)

	MatchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "bom_match_duration_seconds",
			Help:    "Time taken to match one BOM against the catalog",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60},
		},
	)

	Candidates = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "bom_candidates",
			Help: "Candidate pool size of the last matching run",
		},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests served",
		},
		[]string{"method", "route", "status"},
	)
)

// RecordMatch records the outcome of one matching run.
func RecordMatch(res model.Result, d time.Duration) {
	for _, r := range res.Rows {
		BomLinesTotal.WithLabelValues(string(r.Status)).Inc()
	}
	Candidates.Set(float64(res.Candidates))
	MatchDuration.Observe(d.Seconds())
}
