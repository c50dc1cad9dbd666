package utils

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	Registry = prometheus.NewRegistry()

	checkUp = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "domaincheck_check_passing",
		Help: "1 if the check passed on its latest run, 0 otherwise.",
	}, []string{"check"})

	checkDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "domaincheck_check_duration_seconds",
		Help:    "Time spent running a single check.",
		Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
	}, []string{"check"})

	checkResults = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "domaincheck_check_results_total",
		Help: "Check outcomes by status and failure kind.",
	}, []string{"status", "kind"})

	suiteRuns = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "domaincheck_suite_runs_total",
		Help: "Completed suite runs.",
	})
)

func init() {
	Registry.MustRegister(checkUp, checkDuration, checkResults, suiteRuns)
}

func ObserveCheck(name, status, kind string, seconds float64) {
	up := 0.0
	if status == "pass" {
		up = 1
	}
	checkUp.WithLabelValues(name).Set(up)
	checkDuration.WithLabelValues(name).Observe(seconds)
	checkResults.WithLabelValues(status, kind).Inc()
}

func ObserveRun() {
	suiteRuns.Inc()
}
