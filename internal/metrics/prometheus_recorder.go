package metrics

import (
	"net/http"
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusRecorder implements Recorder on a Prometheus registry.
type PrometheusRecorder struct {
	once            sync.Once
	registry        *prom.Registry
	versionDuration *prom.HistogramVec
	fileDuration    prom.Histogram
	fileResults     *prom.CounterVec
	versionOutcome  *prom.CounterVec
	workerCount     prom.Gauge
}

// NewPrometheusRecorder constructs and registers the conversion metrics.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{registry: reg}
	pr.once.Do(func() {
		pr.versionDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "texsite",
			Name:      "version_duration_seconds",
			Help:      "Duration of full version conversions",
			Buckets:   prom.DefBuckets,
		}, []string{"version"})
		pr.fileDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "texsite",
			Name:      "file_duration_seconds",
			Help:      "Duration of single file conversions",
			Buckets:   prom.DefBuckets,
		})
		pr.fileResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "texsite",
			Name:      "file_results_total",
			Help:      "File conversion results per documentation set",
		}, []string{"set", "result"})
		pr.versionOutcome = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "texsite",
			Name:      "version_outcomes_total",
			Help:      "Version conversion outcomes by final status",
		}, []string{"outcome"})
		pr.workerCount = prom.NewGauge(prom.GaugeOpts{
			Namespace: "texsite",
			Name:      "workers",
			Help:      "Configured conversion worker count",
		})
		reg.MustRegister(pr.versionDuration, pr.fileDuration, pr.fileResults, pr.versionOutcome, pr.workerCount)
	})
	return pr
}

// Handler returns an HTTP handler exposing the registry.
func (p *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

func (p *PrometheusRecorder) ObserveVersionDuration(version string, d time.Duration) {
	if p == nil || p.versionDuration == nil {
		return
	}
	p.versionDuration.WithLabelValues(version).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveFileDuration(d time.Duration) {
	if p == nil || p.fileDuration == nil {
		return
	}
	p.fileDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncFileResult(set string, success bool) {
	if p == nil || p.fileResults == nil {
		return
	}
	result := "failed"
	if success {
		result = "success"
	}
	p.fileResults.WithLabelValues(set, result).Inc()
}

func (p *PrometheusRecorder) IncVersionOutcome(outcome string) {
	if p == nil || p.versionOutcome == nil {
		return
	}
	p.versionOutcome.WithLabelValues(outcome).Inc()
}

func (p *PrometheusRecorder) SetWorkerCount(n int) {
	if p == nil || p.workerCount == nil {
		return
	}
	p.workerCount.Set(float64(n))
}
