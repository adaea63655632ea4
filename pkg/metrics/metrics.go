package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// CartMetrics — counters for the command loop and its diagnostic paths.
type CartMetrics struct {
	Commands           *prometheus.CounterVec
	AdjustSkipped      prometheus.Counter
	StockCheckFailures prometheus.Counter
}

func NewCartMetrics(service string) *CartMetrics {
	commands := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cartsvc",
		Subsystem: service,
		Name:      "commands_total",
		Help:      "Total number of processed cart commands.",
	}, []string{"command"})
	adjustSkipped := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "cartsvc",
		Subsystem: service,
		Name:      "adjust_skipped_total",
		Help:      "Adjust corrections referencing products absent from the cart.",
	})
	stockFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "cartsvc",
		Subsystem: service,
		Name:      "stockcheck_failures_total",
		Help:      "Stock-check calls swallowed during restore.",
	})

	prometheus.MustRegister(commands, adjustSkipped, stockFailures)
	return &CartMetrics{Commands: commands, AdjustSkipped: adjustSkipped, StockCheckFailures: stockFailures}
}

// CommandProcessed is nil-safe so tests can run without a registry.
func (m *CartMetrics) CommandProcessed(kind string) {
	if m == nil {
		return
	}
	m.Commands.WithLabelValues(kind).Inc()
}

func (m *CartMetrics) AdjustSkippedInc() {
	if m == nil {
		return
	}
	m.AdjustSkipped.Inc()
}

func (m *CartMetrics) StockCheckFailed() {
	if m == nil {
		return
	}
	m.StockCheckFailures.Inc()
}

func Handler() http.Handler {
	return promhttp.Handler()
}
