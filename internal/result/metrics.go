package result

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	pollsIssued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "disha_result_polls_total",
		Help: "Number of status queries issued to the counselor backend.",
	})
	fallbacksServed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "disha_result_fallbacks_total",
		Help: "Number of result sessions resolved with the local fallback payload.",
	})
)
