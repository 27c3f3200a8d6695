package metrics

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// registry is private to the process so tests and /metrics see only our series.
var registry = prometheus.NewRegistry()

var (
	generationStarted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "generation_started_total",
		Help: "Generation calls sent upstream",
	})
	generationCompleted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "generation_completed_total",
		Help: "Generation calls that returned text",
	})
	generationFailed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "generation_failed_total",
		Help: "Generation calls that failed",
	})
	resumeUploads = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "resume_uploads_total",
		Help: "Resume files stored through the upload endpoint",
	})
	generationDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "generation_duration_ms",
		Help:    "Upstream generation latency in milliseconds",
		Buckets: []float64{250, 500, 1000, 2000, 5000, 10000, 30000, 60000, 120000},
	})
)

func init() {
	registry.MustRegister(
		generationStarted,
		generationCompleted,
		generationFailed,
		resumeUploads,
		generationDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

func IncGenerationStarted()   { generationStarted.Inc() }
func IncGenerationCompleted() { generationCompleted.Inc() }
func IncGenerationFailed()    { generationFailed.Inc() }

// IncResumeUploads counts successful uploads.
func IncResumeUploads() { resumeUploads.Inc() }

// ObserveGenerationDuration records the latency of one upstream call.
func ObserveGenerationDuration(d time.Duration) {
	generationDuration.Observe(max(float64(d)/float64(time.Millisecond), 0))
}

// Handler serves the registry in the Prometheus text exposition format.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
}
