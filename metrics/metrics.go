// Package metrics exposes analyzer activity to Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rustyeddy/tigre/game"
	"github.com/rustyeddy/tigre/ledger"
)

var (
	OutcomesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "tigre_outcomes_total", Help: "Outcomes recorded"},
		[]string{"outcome"},
	)
	SignalsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "tigre_signals_total", Help: "Signals emitted per pattern"},
		[]string{"pattern", "prediction"},
	)
	ResolutionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "tigre_resolutions_total", Help: "Signals resolved"},
		[]string{"resolution"},
	)
	Performance = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{Name: "tigre_performance", Help: "Current performance counters"},
		[]string{"counter"},
	)
	Accuracy = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "tigre_accuracy_percent", Help: "Hits over resolved signals"},
	)
	LogLength = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "tigre_log_length", Help: "Outcomes currently in the log"},
	)
)

func init() {
	prometheus.MustRegister(OutcomesTotal, SignalsTotal, ResolutionsTotal, Performance, Accuracy, LogLength)
}

// Observer feeds the package collectors. The zero value is ready to use.
type Observer struct{}

func (Observer) ObserveOutcome(o game.Outcome) {
	OutcomesTotal.WithLabelValues(o.String()).Inc()
}

func (Observer) ObserveSignal(pattern string, prediction game.Outcome) {
	SignalsTotal.WithLabelValues(pattern, prediction.String()).Inc()
}

func (Observer) ObserveResolution(r ledger.Resolution) {
	ResolutionsTotal.WithLabelValues(r.String()).Inc()
}

func (Observer) ObservePerformance(c ledger.Counters, outcomes int) {
	Performance.WithLabelValues("total").Set(float64(c.Total))
	Performance.WithLabelValues("hits").Set(float64(c.Hits))
	Performance.WithLabelValues("misses").Set(float64(c.Misses))
	Accuracy.Set(c.Accuracy())
	LogLength.Set(float64(outcomes))
}

// Serve starts a /metrics endpoint in the background.
func Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() { _ = srv.ListenAndServe() }()
	return srv
}
