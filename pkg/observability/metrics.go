// Package observability provides application metrics for monitoring.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics handles application metrics and monitoring
type Metrics struct {
	syncCycles    *prometheus.CounterVec
	syncedRows    prometheus.Counter
	storeDuration *prometheus.HistogramVec
	importBatches *prometheus.CounterVec
	importedRows  prometheus.Counter
}

// NewMetrics creates a new metrics instance registered against the given registerer.
// Pass prometheus.DefaultRegisterer for normal operation.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		syncCycles: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sync_cycles_total",
			Help:      "Sync cycles by outcome (committed, skipped, failed, partial).",
		}, []string{"outcome"}),
		syncedRows: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sync_entities_total",
			Help:      "Entities whose tag links were reconciled successfully.",
		}),
		storeDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "store_request_duration_seconds",
			Help:      "Latency of persisted-store round trips by operation.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation", "status"}),
		importBatches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "import_batches_total",
			Help:      "Bulk import batches by outcome.",
		}, []string{"outcome"}),
		importedRows: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "import_rows_total",
			Help:      "Entity rows upserted by bulk import.",
		}),
	}
}

// RecordSyncCycle records the outcome of one sync tick.
func (m *Metrics) RecordSyncCycle(outcome string, syncedRows int) {
	if m == nil {
		return
	}
	m.syncCycles.WithLabelValues(outcome).Inc()
	if syncedRows > 0 {
		m.syncedRows.Add(float64(syncedRows))
	}
}

// RecordStoreCall records latency for one persisted-store round trip.
func (m *Metrics) RecordStoreCall(operation string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "failure"
	}
	m.storeDuration.WithLabelValues(operation, status).Observe(duration.Seconds())
}

// RecordImportBatch records the outcome of one import batch.
func (m *Metrics) RecordImportBatch(err error, rows int) {
	if m == nil {
		return
	}
	if err != nil {
		m.importBatches.WithLabelValues("failure").Inc()
		return
	}
	m.importBatches.WithLabelValues("success").Inc()
	m.importedRows.Add(float64(rows))
}
