// Package metrics holds the Prometheus collectors of both services.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "lega"

// Metrics tracks ingestion outcomes, account provisioning and HTTP traffic.
type Metrics struct {
	SubmissionsTotal    *prometheus.CounterVec
	FilesTotal          *prometheus.CounterVec
	FileDuration        prometheus.Histogram
	AccountsTotal       *prometheus.CounterVec
	ProvisionDuration   prometheus.Histogram
	MessagesTotal       *prometheus.CounterVec
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// New registers all collectors on reg. Passing a fresh prometheus.NewRegistry
// keeps tests independent of the global registry.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		SubmissionsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_total",
			Help:      "Submissions received by the ingestion service",
		}, []string{"result"}),
		FilesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ingested_files_total",
			Help:      "Files processed by the ingestion service, by outcome",
		}, []string{"outcome"}),
		FileDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "ingest_file_duration_seconds",
			Help:      "Time spent verifying, staging and publishing one file",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 300},
		}),
		AccountsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "accounts_provisioned_total",
			Help:      "Account requests handled, by final state",
		}, []string{"state"}),
		ProvisionDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "account_provision_duration_seconds",
			Help:      "Duration of one account provisioning run",
			Buckets:   prometheus.DefBuckets,
		}),
		MessagesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "broker_messages_total",
			Help:      "Broker messages, by direction and result",
		}, []string{"direction", "result"}),
		HTTPRequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests served",
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),
	}
}

// ObserveSubmission counts a submission as accepted or rejected.
func (m *Metrics) ObserveSubmission(accepted bool) {
	if m == nil {
		return
	}
	result := "accepted"
	if !accepted {
		result = "rejected"
	}
	m.SubmissionsTotal.WithLabelValues(result).Inc()
}

// ObserveFile records one file outcome and the time since start.
func (m *Metrics) ObserveFile(outcome string, start time.Time) {
	if m == nil {
		return
	}
	m.FilesTotal.WithLabelValues(outcome).Inc()
	m.FileDuration.Observe(time.Since(start).Seconds())
}

// ObserveProvision records the final state of one provisioning run.
func (m *Metrics) ObserveProvision(state string, start time.Time) {
	if m == nil {
		return
	}
	m.AccountsTotal.WithLabelValues(state).Inc()
	m.ProvisionDuration.Observe(time.Since(start).Seconds())
}

// ObserveMessage counts a consumed ("in") or published ("out") message.
func (m *Metrics) ObserveMessage(direction string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.MessagesTotal.WithLabelValues(direction, result).Inc()
}
