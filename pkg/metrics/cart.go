package metrics

import "github.com/prometheus/client_golang/prometheus"

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// CartMetrics counts cart mutations by operation and outcome.
type CartMetrics struct {
	mutations *prometheus.CounterVec
}

func NewCartMetrics(reg prometheus.Registerer) *CartMetrics {
	if reg == nil {
		return &CartMetrics{}
	}
	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_cart_mutations_total",
		Help: "Cart mutations, by operation and outcome.",
	}, []string{"op", "outcome"})
	reg.MustRegister(mutations)
	return &CartMetrics{mutations: mutations}
}

// Record increments the counter for op, deriving the outcome from err.
func (c *CartMetrics) Record(op string, err error) {
	if c == nil || c.mutations == nil {
		return
	}
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}
	c.mutations.WithLabelValues(normalizeLabel(op), outcome).Inc()
}
