package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PricingMetrics records counters for the pricing engine: order ingestion
// and the periodic decay tick.
type PricingMetrics struct {
	ordersProcessed prometheus.Counter
	itemsRepriced   prometheus.Counter
	itemsSkipped    *prometheus.CounterVec
	batchCommits    *prometheus.CounterVec
	decayUpdated    prometheus.Counter
}

// NewPricingMetrics registers the pricing engine metrics on the provided registerer.
func NewPricingMetrics(reg prometheus.Registerer) *PricingMetrics {
	if reg == nil {
		return &PricingMetrics{}
	}
	ordersProcessed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pricing_orders_processed",
		Help: "Order creation events processed by the pricing engine.",
	})
	itemsRepriced := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pricing_items_repriced",
		Help: "Order line items that produced a price update.",
	})
	itemsSkipped := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pricing_items_skipped",
		Help: "Order line items skipped during ingestion.",
	}, []string{"reason"})
	batchCommits := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pricing_batch_commits",
		Help: "Atomic ledger batch commit outcomes.",
	}, []string{"outcome"})
	decayUpdated := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pricing_decay_drinks_updated",
		Help: "Drinks whose price moved during a decay tick.",
	})
	reg.MustRegister(ordersProcessed, itemsRepriced, itemsSkipped, batchCommits, decayUpdated)
	return &PricingMetrics{
		ordersProcessed: ordersProcessed,
		itemsRepriced:   itemsRepriced,
		itemsSkipped:    itemsSkipped,
		batchCommits:    batchCommits,
		decayUpdated:    decayUpdated,
	}
}

// IncOrdersProcessed increments the processed order events counter.
func (p *PricingMetrics) IncOrdersProcessed() {
	if p == nil || p.ordersProcessed == nil {
		return
	}
	p.ordersProcessed.Inc()
}

// IncItemsRepriced increments the repriced line item counter.
func (p *PricingMetrics) IncItemsRepriced() {
	if p == nil || p.itemsRepriced == nil {
		return
	}
	p.itemsRepriced.Inc()
}

// IncItemsSkipped increments the skipped line item counter for the reason.
func (p *PricingMetrics) IncItemsSkipped(reason string) {
	if p == nil || p.itemsSkipped == nil {
		return
	}
	p.itemsSkipped.WithLabelValues(normalizeLabel(reason)).Inc()
}

// IncBatchCommit increments the batch commit counter for the outcome.
func (p *PricingMetrics) IncBatchCommit(outcome string) {
	if p == nil || p.batchCommits == nil {
		return
	}
	p.batchCommits.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// AddDecayUpdated adds the number of drinks moved by a decay tick.
func (p *PricingMetrics) AddDecayUpdated(count int) {
	if p == nil || p.decayUpdated == nil || count <= 0 {
		return
	}
	p.decayUpdated.Add(float64(count))
}
