package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	BoostSubmissionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "boost_submissions_total",
			Help: "Total number of boost request submissions",
		},
		[]string{"boost_type", "outcome"},
	)
	SweepExpirationsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "boost_sweep_expirations_total",
			Help: "Total number of boost requests expired by the reconciliation sweep",
		},
	)
	ImpressionsTrackedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "boost_impressions_tracked_total",
			Help: "Total number of impression increments applied",
		},
	)
	ClicksTrackedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "boost_clicks_tracked_total",
			Help: "Total number of click increments applied",
		},
	)
	PriorityResolutionsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "boost_priority_resolutions_total",
			Help: "Total number of priority resolution calls",
		},
	)
)

func Register() {
	prometheus.MustRegister(
		BoostSubmissionsTotal,
		SweepExpirationsTotal,
		ImpressionsTrackedTotal,
		ClicksTrackedTotal,
		PriorityResolutionsTotal,
	)
}
