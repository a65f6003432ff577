package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	SavesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "sylman", Name: "saves_total", Help: "Completed syllabus saves by operation and trigger."},
		[]string{"op", "trigger"},
	)
	SaveFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "sylman", Name: "save_failures_total", Help: "Failed syllabus saves by trigger."},
		[]string{"trigger"},
	)
	AutosaveSkipped = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "sylman", Name: "autosave_skipped_total", Help: "Autosave ticks skipped because the document was unchanged."},
	)
	AutosaveDropped = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "sylman", Name: "autosave_dropped_total", Help: "Autosave ticks dropped because a save was already in flight."},
	)
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "sylman", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "sylman", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(SavesTotal)
	reg.MustRegister(SaveFailures)
	reg.MustRegister(AutosaveSkipped)
	reg.MustRegister(AutosaveDropped)
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
}
