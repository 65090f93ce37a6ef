package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"PredEval/internal/domain/models"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	rowsTotal    *prometheus.CounterVec
	reportsBuilt *prometheus.CounterVec
	errorsTotal  *prometheus.CounterVec
	accuracy     *prometheus.GaugeVec
	latency      *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		rowsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "predeval_rows_total",
				Help: "Prediction log rows by ingest classification",
			},
			[]string{"class"},
		),
		reportsBuilt: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "predeval_reports_built_total",
				Help: "Evaluation reports built per source",
			},
			[]string{"source"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "predeval_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		accuracy: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "predeval_component_accuracy",
				Help: "Last computed directional accuracy per model component",
			},
			[]string{"component"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "predeval_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordRows records the ingest classification counts of one load.
func (r *Recorder) RecordRows(stats models.IngestStats) {
	r.rowsTotal.WithLabelValues("dropped").Add(float64(stats.Dropped))
	r.rowsTotal.WithLabelValues("unresolved").Add(float64(stats.Unresolved))
	r.rowsTotal.WithLabelValues("resolved").Add(float64(stats.Resolved))
}

// RecordReportBuilt records a completed report build.
func (r *Recorder) RecordReportBuilt(source string) {
	r.reportsBuilt.WithLabelValues(source).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}

// RecordAccuracy records the last computed accuracy for a component.
func (r *Recorder) RecordAccuracy(component string, accuracy float64) {
	r.accuracy.WithLabelValues(component).Set(accuracy)
}
