package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CheckInsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crewtrack_checkins_total",
			Help: "Total number of check-ins by geofence result",
		},
		[]string{"tenant_id", "within_geofence"},
	)

	CheckOutsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crewtrack_checkouts_total",
			Help: "Total number of check-outs",
		},
		[]string{"tenant_id"},
	)

	TimeRecordDecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crewtrack_time_record_decisions_total",
			Help: "Approve/reject/contest decisions on time records",
		},
		[]string{"tenant_id", "decision"},
	)

	LeaveDecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crewtrack_leave_decisions_total",
			Help: "Leave request decisions by outcome",
		},
		[]string{"tenant_id", "decision"},
	)

	ToolTransactionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crewtrack_tool_transactions_total",
			Help: "Tool checkout/checkin transactions",
		},
		[]string{"tenant_id", "type"},
	)

	BillingCalcDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "crewtrack_billing_calc_duration_seconds",
			Help:    "Service order calculation duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
		[]string{"tenant_id"},
	)

	ImpersonationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crewtrack_impersonations_total",
			Help: "Superadmin impersonation starts and stops",
		},
		[]string{"action"},
	)
)
