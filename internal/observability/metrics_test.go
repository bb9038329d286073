package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func findMetric(t *testing.T, family string, labels map[string]string) *dto.Metric {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)

	for _, mf := range families {
		if mf.GetName() != family {
			continue
		}
	metrics:
		for _, m := range mf.GetMetric() {
			for _, pair := range m.GetLabel() {
				if want, ok := labels[pair.GetName()]; ok && want != pair.GetValue() {
					continue metrics
				}
			}
			return m
		}
	}
	t.Fatalf("metric %s %v not found", family, labels)
	return nil
}

func TestRecordSignupAndUnregisterCounters(t *testing.T) {
	signups := testutil.ToFloat64(signupsCounter.WithLabelValues("Metrics Club"))
	unregistrations := testutil.ToFloat64(unregistrationsCounter.WithLabelValues("Metrics Club"))

	RecordSignup("Metrics Club")
	RecordUnregister("Metrics Club")

	require.Equal(t, signups+1, testutil.ToFloat64(signupsCounter.WithLabelValues("Metrics Club")))
	require.Equal(t, unregistrations+1, testutil.ToFloat64(unregistrationsCounter.WithLabelValues("Metrics Club")))
}

func TestRosterCollectorReadsSizesAtScrape(t *testing.T) {
	sizes := map[string]int{"Chess Club": 2, "Gym Class": 0}
	registry := prometheus.NewRegistry()
	registry.MustRegister(NewRosterCollector(func() map[string]int { return sizes }))

	require.Equal(t, 2, testutil.CollectAndCount(registry, "signup_service_roster_participants"))

	sizes = map[string]int{"Chess Club": 5, "Gym Class": 1}
	families, err := registry.Gather()
	require.NoError(t, err)
	require.Len(t, families, 1)

	got := make(map[string]float64)
	for _, m := range families[0].GetMetric() {
		got[m.GetLabel()[0].GetValue()] = m.GetGauge().GetValue()
	}
	require.Equal(t, map[string]float64{"Chess Club": 5, "Gym Class": 1}, got)
}

func TestRecordRejectedLabels(t *testing.T) {
	before := testutil.ToFloat64(rejectedCounter.WithLabelValues("signup", "already_registered"))
	RecordRejected("signup", "already_registered")
	require.Equal(t, before+1, testutil.ToFloat64(rejectedCounter.WithLabelValues("signup", "already_registered")))
}

func TestObserveRequest(t *testing.T) {
	ObserveRequest("GET /activities", "GET", "200", 3*time.Millisecond)

	metric := findMetric(t, "signup_service_http_request_duration_seconds", map[string]string{
		"route":  "GET /activities",
		"method": "GET",
		"status": "200",
	})
	require.GreaterOrEqual(t, metric.GetHistogram().GetSampleCount(), uint64(1))
}

func TestParseLevel(t *testing.T) {
	require.Equal(t, zapcore.DebugLevel, parseLevel("DEBUG"))
	require.Equal(t, zapcore.WarnLevel, parseLevel(" warn "))
	require.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	require.Equal(t, zapcore.InfoLevel, parseLevel("verbose"))
}

func TestNewLogger(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		logger, err := NewLogger("debug", format)
		require.NoError(t, err)
		require.True(t, logger.Core().Enabled(zapcore.DebugLevel))
	}
}
