package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and histograms for the ingestion
// service.
type Metrics struct {
	FilesIngested   prometheus.Counter
	RecordsUpserted prometheus.Counter
	RowsSkipped     prometheus.Counter
	IngestErrors    *prometheus.CounterVec // label: kind={empty_input,blob_store,upsert_store}

	IngestDuration prometheus.Histogram
	BatchRecords   prometheus.Histogram
}

// NewMetrics creates and registers all ingestion metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		FilesIngested: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weather_ingest",
			Name:      "files_ingested_total",
			Help:      "Total station files successfully ingested.",
		}),
		RecordsUpserted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weather_ingest",
			Name:      "records_upserted_total",
			Help:      "Total observation records written to the store.",
		}),
		RowsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weather_ingest",
			Name:      "rows_skipped_total",
			Help:      "Total source rows dropped during normalization.",
		}),
		IngestErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_ingest",
			Name:      "ingest_errors_total",
			Help:      "Failed ingestions by error kind.",
		}, []string{"kind"}),
		IngestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "weather_ingest",
			Name:      "ingest_duration_seconds",
			Help:      "End-to-end duration of one file ingestion.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}),
		BatchRecords: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "weather_ingest",
			Name:      "batch_records",
			Help:      "Deduplicated records per ingested file.",
			Buckets:   []float64{1, 24, 168, 744, 2232, 4464, 8784},
		}),
	}

	prometheus.MustRegister(
		m.FilesIngested,
		m.RecordsUpserted,
		m.RowsSkipped,
		m.IngestErrors,
		m.IngestDuration,
		m.BatchRecords,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		FilesIngested:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: "weather_ingest", Name: "files_ingested_total"}),
		RecordsUpserted: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "weather_ingest", Name: "records_upserted_total"}),
		RowsSkipped:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "weather_ingest", Name: "rows_skipped_total"}),
		IngestErrors:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "weather_ingest", Name: "ingest_errors_total"}, []string{"kind"}),
		IngestDuration:  prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "weather_ingest", Name: "ingest_duration_seconds"}),
		BatchRecords:    prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "weather_ingest", Name: "batch_records"}),
	}
}
