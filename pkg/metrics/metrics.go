// Package metrics holds the Prometheus collectors of table builds.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeOK            = "ok"
	OutcomeNotFound      = "not_found"
	OutcomeInvalidConfig = "invalid_config"
	OutcomeError         = "error"
)

var (
	buildsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tablebundle",
			Name:      "builds_total",
			Help:      "Number of table view builds by table and outcome.",
		},
		[]string{"table", "outcome"},
	)
	buildDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tablebundle",
			Name:      "build_duration_seconds",
			Help:      "Duration of table view builds, data source queries included.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"table"},
	)
	rowsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tablebundle",
			Name:      "rows_total",
			Help:      "Number of rows materialized into table views.",
		},
		[]string{"table"},
	)
)

// Register registers the collectors with reg. Collectors already registered are not an error.
func Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{buildsTotal, buildDuration, rowsTotal} {
		if err := reg.Register(c); err != nil {
			var already prometheus.AlreadyRegisteredError
			if errors.As(err, &already) {
				continue
			}
			return err
		}
	}
	return nil
}

// ObserveBuild records one build of table.
func ObserveBuild(table, outcome string, rows int, duration time.Duration) {
	buildsTotal.WithLabelValues(table, outcome).Inc()
	buildDuration.WithLabelValues(table).Observe(duration.Seconds())
	if rows > 0 {
		rowsTotal.WithLabelValues(table).Add(float64(rows))
	}
}
