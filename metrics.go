package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//**********************************************************
// metrics
//**********************************************************

var (
	metric_plans = promauto.NewCounter(prometheus.CounterOpts{
		Name: "transit_plans_total",
		Help: "Planning requests served.",
	})
	metric_plan_failures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "transit_plan_failures_total",
		Help: "Planning requests that returned a typed failure.",
	}, []string{"kind"})
	metric_reroutes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "transit_reroutes_total",
		Help: "Tracking sessions that adopted a replacement route.",
	})
	metric_delay_notices = promauto.NewCounter(prometheus.CounterOpts{
		Name: "transit_delay_notices_total",
		Help: "Reroute attempts that kept the original route.",
	})
	metric_snapshot_swaps = promauto.NewCounter(prometheus.CounterOpts{
		Name: "transit_snapshot_swaps_total",
		Help: "Network snapshot replacements.",
	})
	metric_overlay_updates = promauto.NewCounter(prometheus.CounterOpts{
		Name: "transit_overlay_updates_total",
		Help: "Dynamic overlay upserts.",
	})
	metric_search_duration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "transit_search_duration_seconds",
		Help:    "Wall time of multi-profile path searches.",
		Buckets: prometheus.DefBuckets,
	})
)
