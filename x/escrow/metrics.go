package escrow

import (
	"github.com/prometheus/client_golang/prometheus"
)

var transitions = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "escrow",
		Name:      "transitions_total",
		Help:      "Number of escrow transitions, by operation and result.",
	},
	[]string{"op", "result"},
)

func init() {
	prometheus.MustRegister(transitions)
}

// observe counts a transition attempt.
func observe(op string, err error) {
	result := "ok"
	if err != nil {
		result = "rejected"
	}
	transitions.WithLabelValues(op, result).Inc()
}
