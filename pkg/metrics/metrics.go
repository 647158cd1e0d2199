package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "aba_admin", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "aba_admin", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
	BackendSelected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "aba_admin", Name: "backend_selected_total", Help: "Backend chosen per storage call."},
		[]string{"backend"},
	)
	StorageOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "aba_admin", Name: "storage_ops_total", Help: "Storage operations by operation and backend."},
		[]string{"op", "backend"},
	)
	SubmissionsReceived = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "aba_admin", Name: "submissions_received_total", Help: "Public form submissions by kind."},
		[]string{"kind"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
	reg.MustRegister(BackendSelected)
	reg.MustRegister(StorageOps)
	reg.MustRegister(SubmissionsReceived)
}
