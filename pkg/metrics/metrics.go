// Package metrics holds the Prometheus collectors shared by the plotting
// session and the HTTP agent.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/runningwild/grapher/pkg/analyze"
	"github.com/runningwild/grapher/pkg/expr"
)

var (
	compileTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "grapher_compile_total",
		Help: "Expression compilations by result (ok or error kind)",
	}, []string{"result"})

	detectDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "grapher_detect_duration_seconds",
		Help:    "Duration of one feature detection pass",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
	})

	featuresFound = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "grapher_features_found_total",
		Help: "Detected features by type",
	}, []string{"type"})

	evaluationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "grapher_evaluations_total",
		Help: "Point evaluations served",
	})

	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "grapher_http_requests_total",
		Help: "HTTP requests by route and status code",
	}, []string{"route", "code"})
)

// ObserveCompile counts one compilation. err is the result of expr.Parse.
func ObserveCompile(err error) {
	result := "ok"
	if err != nil {
		result = expr.KindName(err)
	}
	compileTotal.WithLabelValues(result).Inc()
}

// ObserveDetect records a finished detection pass.
func ObserveDetect(elapsed time.Duration, fs analyze.Features) {
	detectDuration.Observe(elapsed.Seconds())
	for _, t := range []analyze.FeatureType{analyze.VerticalAsymptote, analyze.HorizontalAsymptote, analyze.Hole} {
		if n := fs.Count(t); n > 0 {
			featuresFound.WithLabelValues(t.String()).Add(float64(n))
		}
	}
}

func AddEvaluations(n int) {
	evaluationsTotal.Add(float64(n))
}

func ObserveRequest(route string, code string) {
	requestsTotal.WithLabelValues(route, code).Inc()
}
