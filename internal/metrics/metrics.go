package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "riskdash"

// Render outcomes
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Recorder holds the dashboard's collectors on a private registry
type Recorder struct {
	registry *prometheus.Registry

	renders        *prometheus.CounterVec
	renderDuration prometheus.Histogram
	predictions    *prometheus.CounterVec
	accuracy       prometheus.Gauge
	datasetRows    prometheus.Gauge
	stage          prometheus.Gauge
}

// NewRecorder registers all collectors, plus Go runtime and process collectors
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "renders_total",
			Help:      "Report renders by outcome.",
		}, []string{"outcome"}),
		renderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Time spent rendering one report.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
		}),
		predictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "predictions_total",
			Help:      "Predictions served by label.",
		}, []string{"label"}),
		accuracy: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "model_accuracy",
			Help:      "Held-out accuracy of the trained model.",
		}),
		datasetRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_rows",
			Help:      "Rows in the loaded dataset.",
		}),
		stage: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "session_stage",
			Help:      "Current bootstrap stage as an ordinal.",
		}),
	}

	r.registry.MustRegister(
		r.renders,
		r.renderDuration,
		r.predictions,
		r.accuracy,
		r.datasetRows,
		r.stage,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// Registry exposes the underlying registry for tests and extra collectors
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// ObserveRender records one render attempt
func (r *Recorder) ObserveRender(elapsed time.Duration, err error) {
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
	}
	r.renders.WithLabelValues(outcome).Inc()
	r.renderDuration.Observe(elapsed.Seconds())
}

// ObservePrediction counts a served prediction by its display label
func (r *Recorder) ObservePrediction(label string) {
	r.predictions.WithLabelValues(label).Inc()
}

// SetAccuracy records the held-out accuracy
func (r *Recorder) SetAccuracy(acc float64) {
	r.accuracy.Set(acc)
}

// SetDatasetRows records the dataset size
func (r *Recorder) SetDatasetRows(n int) {
	r.datasetRows.Set(float64(n))
}

// SetStage records the bootstrap stage ordinal
func (r *Recorder) SetStage(ordinal int) {
	r.stage.Set(float64(ordinal))
}
