package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveSearch(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveSearch("en", OutcomeOK, 12)
	m.ObserveSearch("en", OutcomeOK, 0)
	m.ObserveSearch("de", OutcomeError, 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Searches.WithLabelValues("en", OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Searches.WithLabelValues("de", OutcomeError)))

	var matches dto.Metric
	require.NoError(t, m.Matches.Write(&matches))
	assert.Equal(t, uint64(2), matches.GetHistogram().GetSampleCount(), "errors are not observed")
}

func TestObserveDiagnosticAndFailures(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveDiagnostic("D006")
	m.ObserveDiagnostic("D006")
	m.ObserveDiagnostic("D001")
	m.SemanticFailed()
	m.HistoryFailed()
	m.HistoryFailed()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Diagnostics.WithLabelValues("D006")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Diagnostics.WithLabelValues("D001")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SemanticFailures))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.HistoryFailures))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveSearch("en", OutcomeOK, 1)
		m.ObserveStage(StageCompile, time.Now())
		m.ObserveDiagnostic("D001")
		m.SemanticFailed()
		m.HistoryFailed()
	})
}

func TestNew_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	assert.Panics(t, func() { New(reg) })
}

func TestWriteTextfile(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.ObserveSearch("de", OutcomeOK, 3)
	m.ObserveStage(StageCount, time.Now())

	path := filepath.Join(t.TempDir(), "doublesearch.prom")
	require.NoError(t, WriteTextfile(path, reg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `doublesearch_search_total{language="de",outcome="ok"} 1`)
	assert.Contains(t, string(data), `doublesearch_search_stage_duration_seconds_count{stage="count"} 1`)
}
