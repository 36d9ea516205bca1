package store

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	sessionsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "disha_assessment_sessions_started_total",
		Help: "Number of assessment sessions created.",
	})

	// SessionsSubmitted is incremented by the submission path once an
	// assessment is finalized.
	SessionsSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "disha_assessment_sessions_submitted_total",
		Help: "Number of assessment sessions submitted.",
	})
)
