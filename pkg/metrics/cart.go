package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// CartMetrics records cart operation outcomes and persistence health.
type CartMetrics struct {
	operations   *prometheus.CounterVec
	saveFailures prometheus.Counter
}

// NewCartMetrics registers the cart metrics on the provided registerer.
func NewCartMetrics(reg prometheus.Registerer) *CartMetrics {
	if reg == nil {
		return &CartMetrics{}
	}
	operations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_operations_total",
		Help: "Cart mutations grouped by operation and result.",
	}, []string{"operation", "result"})
	saveFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cart_save_failures_total",
		Help: "Background cart persistence attempts that failed.",
	})
	reg.MustRegister(operations, saveFailures)
	return &CartMetrics{
		operations:   operations,
		saveFailures: saveFailures,
	}
}

// IncOperation counts a cart mutation with its result ("ok" or "error").
func (c *CartMetrics) IncOperation(operation, result string) {
	if c == nil || c.operations == nil {
		return
	}
	c.operations.WithLabelValues(normalizeLabel(operation), normalizeLabel(result)).Inc()
}

// IncSaveFailure counts a failed background cart save.
func (c *CartMetrics) IncSaveFailure() {
	if c == nil || c.saveFailures == nil {
		return
	}
	c.saveFailures.Inc()
}
