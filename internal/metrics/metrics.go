// Package metrics defines the Prometheus collectors of the search service.
// Collectors are registered on a caller-supplied Registerer, never the
// global default.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "doublesearch"

// Search outcomes.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Stages timed by StageDuration.
const (
	StageCompile  = "compile"
	StageCount    = "count"
	StagePage     = "page"
	StageSemantic = "semantic"
)

// Metrics holds the search collectors. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	Searches         *prometheus.CounterVec
	StageDuration    *prometheus.HistogramVec
	Diagnostics      *prometheus.CounterVec
	Matches          prometheus.Histogram
	SemanticFailures prometheus.Counter
	HistoryFailures  prometheus.Counter
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Searches: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "search",
				Name:      "total",
				Help:      "Total number of searches by language and outcome",
			},
			[]string{"language", "outcome"},
		),
		StageDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "search",
				Name:      "stage_duration_seconds",
				Help:      "Duration of each search stage in seconds",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"stage"},
		),
		Diagnostics: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "filter",
				Name:      "diagnostics_total",
				Help:      "Filter diagnostics raised during compilation, by code",
			},
			[]string{"code"},
		),
		Matches: f.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "search",
				Name:      "matches",
				Help:      "Number of matching profiles per search",
				Buckets:   prometheus.ExponentialBuckets(1, 10, 7),
			},
		),
		SemanticFailures: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "semantic",
				Name:      "failures_total",
				Help:      "Semantic searches that failed and were skipped",
			},
		),
		HistoryFailures: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "history",
				Name:      "failures_total",
				Help:      "Searches that could not be recorded in the history",
			},
		),
	}
}

// ObserveSearch counts one finished search.
func (m *Metrics) ObserveSearch(language, outcome string, total int64) {
	if m == nil {
		return
	}
	m.Searches.WithLabelValues(language, outcome).Inc()
	if outcome == OutcomeOK {
		m.Matches.Observe(float64(total))
	}
}

// ObserveStage records how long stage took since start.
func (m *Metrics) ObserveStage(stage string, start time.Time) {
	if m == nil {
		return
	}
	m.StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}

// ObserveDiagnostic counts one filter diagnostic.
func (m *Metrics) ObserveDiagnostic(code string) {
	if m == nil {
		return
	}
	m.Diagnostics.WithLabelValues(code).Inc()
}

// SemanticFailed counts a skipped semantic search.
func (m *Metrics) SemanticFailed() {
	if m == nil {
		return
	}
	m.SemanticFailures.Inc()
}

// HistoryFailed counts a search that was not recorded.
func (m *Metrics) HistoryFailed() {
	if m == nil {
		return
	}
	m.HistoryFailures.Inc()
}

// WriteTextfile writes every metric gathered by g to path in the text
// exposition format, for the node_exporter textfile collector.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	return prometheus.WriteToTextfile(path, g)
}
