package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the service-level collectors. A nil *Metrics records nothing.
type Metrics struct {
	MerchantOperations  *prometheus.CounterVec
	DBOperationDuration *prometheus.HistogramVec
	MerchantIDConflicts prometheus.Counter
	SummarySize         prometheus.Histogram
}

// InitMetrics creates the service collectors under prefix and registers them with reg
func InitMetrics(prefix string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		MerchantOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_merchant_operations_total",
				Help: "Total number of merchant operations",
			},
			[]string{"operation"},
		),
		DBOperationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_db_operation_duration_seconds",
				Help:    "Duration of database operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		MerchantIDConflicts: factory.NewCounter(
			prometheus.CounterOpts{
				Name: prefix + "_merchant_id_conflicts_total",
				Help: "Total number of merchant id allocations retried after a key conflict",
			},
		),
		SummarySize: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    prefix + "_transaction_summary_size",
				Help:    "Number of transactions aggregated per summary",
				Buckets: prometheus.ExponentialBuckets(1, 4, 8),
			},
		),
	}
}

// TrackDBOperation returns a function that records the duration of a database operation.
// Usage: defer m.TrackDBOperation("query")(time.Now())
func (m *Metrics) TrackDBOperation(operation string) func(startTime time.Time) {
	return func(startTime time.Time) {
		if m == nil {
			return
		}
		m.DBOperationDuration.WithLabelValues(operation).Observe(time.Since(startTime).Seconds())
	}
}

// RecordMerchantOperation increments the counter for merchant operations
func (m *Metrics) RecordMerchantOperation(operation string) {
	if m == nil {
		return
	}
	m.MerchantOperations.WithLabelValues(operation).Inc()
}

// RecordMerchantIDConflict counts an id allocation that lost a race
func (m *Metrics) RecordMerchantIDConflict() {
	if m == nil {
		return
	}
	m.MerchantIDConflicts.Inc()
}

// ObserveSummarySize records how many transactions a summary covered
func (m *Metrics) ObserveSummarySize(n int) {
	if m == nil {
		return
	}
	m.SummarySize.Observe(float64(n))
}
