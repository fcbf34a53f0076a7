// Package metrics provides Prometheus metrics for journal loads.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Load operation names used as the "op" label.
const (
	OpLineCount = "line_count"
	OpBoot      = "boot"
	OpBootList  = "boot_list"
)

// Metrics holds the load metrics. Each instance owns its registry so
// commands and tests do not share counters.
type Metrics struct {
	Registry *prometheus.Registry

	LoadsTotal          *prometheus.CounterVec
	LoadDuration        *prometheus.HistogramVec
	RecordsDecodedTotal prometheus.Counter
	DecodeFailuresTotal prometheus.Counter
	BootSessionsLoaded  prometheus.Gauge
}

// New creates and registers all load metrics on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		LoadsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "journalview_loads_total",
			Help: "Total number of journal load operations by operation and result",
		}, []string{"op", "result"}),
		LoadDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "journalview_load_duration_seconds",
			Help:    "Duration of journal load operations",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 14), // 5ms to ~40s
		}, []string{"op"}),
		RecordsDecodedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "journalview_records_decoded_total",
			Help: "Total number of journal records decoded",
		}),
		DecodeFailuresTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "journalview_decode_failures_total",
			Help: "Total number of journal lines skipped because they could not be decoded",
		}),
		BootSessionsLoaded: factory.NewGauge(prometheus.GaugeOpts{
			Name: "journalview_boot_sessions",
			Help: "Number of boot sessions in the last boot list",
		}),
	}
}

// RecordLoad records a load operation with its duration and outcome.
func (m *Metrics) RecordLoad(op string, duration time.Duration, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	m.LoadsTotal.WithLabelValues(op, result).Inc()
	m.LoadDuration.WithLabelValues(op).Observe(duration.Seconds())
}

// RecordDecoded adds n successfully decoded records.
func (m *Metrics) RecordDecoded(n int) {
	m.RecordsDecodedTotal.Add(float64(n))
}

// RecordDecodeFailure counts one skipped line.
func (m *Metrics) RecordDecodeFailure() {
	m.DecodeFailuresTotal.Inc()
}

// SetBootSessions records the size of the last boot list.
func (m *Metrics) SetBootSessions(n int) {
	m.BootSessionsLoaded.Set(float64(n))
}

// WriteTextfile writes all metrics in the Prometheus text format, suitable
// for the node_exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.Registry); err != nil {
		return fmt.Errorf("writing metrics to %s: %w", path, err)
	}
	return nil
}
