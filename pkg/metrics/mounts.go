package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MountTableMetrics provides observability for mount-table captures.
//
// The exporter records one observation set per capture: per-filesystem-type
// mount counts, propagation tag counts, capture timing, and failures. This
// interface is optional - pass nil where a MountTableMetrics is accepted and
// a no-op implementation is used with zero overhead.
type MountTableMetrics interface {
	// RecordCapture records a completed capture of the mount table.
	//
	// Parameters:
	//   - records: Number of mount records in the captured table
	//   - duration: Time taken to read and parse the table
	RecordCapture(records int, duration time.Duration)

	// RecordCaptureError increments the capture failure counter.
	// Called for both read failures and parse failures.
	RecordCaptureError()

	// SetMountCount sets the current number of mounts for one filesystem
	// type. Called once per fstype per capture.
	SetMountCount(fstype string, count int)

	// SetPropagationCount sets the current number of mounts carrying the
	// given propagation tag kind (shared, master, unbindable).
	SetPropagationCount(kind string, count int)

	// RecordRateLimited increments the counter of scrapes served from the
	// cached table because the /proc re-read budget was exhausted.
	RecordRateLimited()
}

// mountTableMetrics is the Prometheus implementation of MountTableMetrics.
type mountTableMetrics struct {
	capturesTotal    prometheus.Counter
	captureErrors    prometheus.Counter
	captureDuration  prometheus.Histogram
	tableRecords     prometheus.Gauge
	mountsByType     *prometheus.GaugeVec
	propagationKinds *prometheus.GaugeVec
	rateLimitedTotal prometheus.Counter
}

// NewMountTableMetrics creates a new Prometheus-backed MountTableMetrics.
//
// Returns a no-op implementation if the global registry is not initialized.
func NewMountTableMetrics() MountTableMetrics {
	reg := GetRegistry()
	if reg == nil {
		return &noopMountTableMetrics{}
	}

	factory := promauto.With(reg)
	return &mountTableMetrics{
		capturesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "mountscope_captures_total",
			Help: "Total number of successful mount table captures",
		}),
		captureErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "mountscope_capture_errors_total",
			Help: "Total number of failed mount table captures",
		}),
		captureDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "mountscope_capture_duration_seconds",
			Help:    "Time taken to read and parse the mount table",
			Buckets: prometheus.DefBuckets,
		}),
		tableRecords: factory.NewGauge(prometheus.GaugeOpts{
			Name: "mountscope_mount_records",
			Help: "Number of records in the last captured mount table",
		}),
		mountsByType: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "mountscope_mounts",
			Help: "Current number of mounts by filesystem type",
		}, []string{"fstype"}),
		propagationKinds: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "mountscope_propagation_mounts",
			Help: "Current number of mounts by propagation tag kind",
		}, []string{"kind"}),
		rateLimitedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "mountscope_scrapes_rate_limited_total",
			Help: "Scrapes served from the cached table due to rate limiting",
		}),
	}
}

func (m *mountTableMetrics) RecordCapture(records int, duration time.Duration) {
	m.capturesTotal.Inc()
	m.captureDuration.Observe(duration.Seconds())
	m.tableRecords.Set(float64(records))
}

func (m *mountTableMetrics) RecordCaptureError() {
	m.captureErrors.Inc()
}

func (m *mountTableMetrics) SetMountCount(fstype string, count int) {
	m.mountsByType.WithLabelValues(fstype).Set(float64(count))
}

func (m *mountTableMetrics) SetPropagationCount(kind string, count int) {
	m.propagationKinds.WithLabelValues(kind).Set(float64(count))
}

func (m *mountTableMetrics) RecordRateLimited() {
	m.rateLimitedTotal.Inc()
}

// noopMountTableMetrics is used when metrics are disabled.
type noopMountTableMetrics struct{}

func (*noopMountTableMetrics) RecordCapture(int, time.Duration) {}
func (*noopMountTableMetrics) RecordCaptureError()              {}
func (*noopMountTableMetrics) SetMountCount(string, int)        {}
func (*noopMountTableMetrics) SetPropagationCount(string, int)  {}
func (*noopMountTableMetrics) RecordRateLimited()               {}
