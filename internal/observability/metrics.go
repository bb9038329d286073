package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	signupsCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "signup_service",
		Subsystem: "roster",
		Name:      "signups_total",
		Help:      "Number of successful signups, labeled by activity.",
	}, []string{"activity"})

	unregistrationsCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "signup_service",
		Subsystem: "roster",
		Name:      "unregistrations_total",
		Help:      "Number of successful unregistrations, labeled by activity.",
	}, []string{"activity"})

	rejectedCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "signup_service",
		Subsystem: "roster",
		Name:      "transitions_rejected_total",
		Help:      "Roster transitions rejected, labeled by operation and reason.",
	}, []string{"operation", "reason"})

	requestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "signup_service",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "Time spent serving HTTP requests, labeled by route pattern, method and status code.",
		Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
	}, []string{"route", "method", "status"})
)

func init() {
	prometheus.MustRegister(signupsCounter, unregistrationsCounter, rejectedCounter, requestDuration)
}

// RecordSignup counts a successful signup.
func RecordSignup(activity string) {
	signupsCounter.WithLabelValues(activity).Inc()
}

// RecordUnregister counts a successful unregistration.
func RecordUnregister(activity string) {
	unregistrationsCounter.WithLabelValues(activity).Inc()
}

// RecordRejected counts a roster transition that failed validation.
func RecordRejected(operation, reason string) {
	rejectedCounter.WithLabelValues(operation, reason).Inc()
}

// RosterSizes reports the current participant count keyed by activity name.
type RosterSizes func() map[string]int

var participantsDesc = prometheus.NewDesc(
	prometheus.BuildFQName("signup_service", "roster", "participants"),
	"Current number of participants per activity.",
	[]string{"activity"}, nil,
)

// RosterCollector exports roster sizes read from the store at scrape time, so the value
// always reflects committed state.
type RosterCollector struct {
	sizes RosterSizes
}

// NewRosterCollector constructs a RosterCollector.
func NewRosterCollector(sizes RosterSizes) *RosterCollector {
	return &RosterCollector{sizes: sizes}
}

// Describe implements prometheus.Collector.
func (c *RosterCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- participantsDesc
}

// Collect implements prometheus.Collector.
func (c *RosterCollector) Collect(ch chan<- prometheus.Metric) {
	for activity, count := range c.sizes() {
		ch <- prometheus.MustNewConstMetric(participantsDesc, prometheus.GaugeValue, float64(count), activity)
	}
}

// ObserveRequest records the latency of a served HTTP request.
func ObserveRequest(route, method, status string, elapsed time.Duration) {
	requestDuration.WithLabelValues(route, method, status).Observe(elapsed.Seconds())
}
