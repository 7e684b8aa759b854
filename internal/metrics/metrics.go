package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Counters for the timer engine and catalog cache, exported on /metrics.
var (
	TimerStarts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "timelog_timer_starts_total",
		Help: "Number of timers started, including switches.",
	})

	TimerStops = promauto.NewCounter(prometheus.CounterOpts{
		Name: "timelog_timer_stops_total",
		Help: "Number of timers explicitly stopped.",
	})

	CatalogRefreshes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "timelog_catalog_refreshes_total",
		Help: "Number of catalog fetches from the issue tracker.",
	})

	CatalogRefreshErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "timelog_catalog_refresh_errors_total",
		Help: "Number of failed catalog fetches.",
	})
)
