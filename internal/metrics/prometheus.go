package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "cmslayout"

// PrometheusRecorder implements Recorder with Prometheus collectors.
type PrometheusRecorder struct {
	duration *prom.HistogramVec
	results  *prom.CounterVec
	inflight prom.Gauge
}

// NewPrometheusRecorder builds the collectors and registers them on reg. A
// nil reg gets a private registry.
func NewPrometheusRecorder(reg prom.Registerer) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		duration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "sync_duration_seconds",
			Help:      "Duration of backend operations issued by the sync coordinator",
			Buckets:   prom.DefBuckets,
		}, []string{"operation", "result"}),
		results: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "sync_results_total",
			Help:      "Sync outcomes by operation",
		}, []string{"operation", "result"}),
		inflight: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "sync_inflight",
			Help:      "Backend operations currently in flight",
		}),
	}
	reg.MustRegister(pr.duration, pr.results, pr.inflight)
	return pr
}

func (p *PrometheusRecorder) ObserveDuration(op Operation, d time.Duration, success bool) {
	if p == nil || p.duration == nil {
		return
	}
	result := ResultFailed
	if success {
		result = ResultSuccess
	}
	p.duration.WithLabelValues(string(op), string(result)).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncResult(op Operation, result ResultLabel) {
	if p == nil || p.results == nil {
		return
	}
	p.results.WithLabelValues(string(op), string(result)).Inc()
}

func (p *PrometheusRecorder) SetInflight(n int) {
	if p == nil || p.inflight == nil {
		return
	}
	p.inflight.Set(float64(n))
}
