package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Fetch outcomes recorded by CatalogFetched.
const (
	OutcomeSuccess   = "success"
	OutcomeFailure   = "failure"
	OutcomeDiscarded = "discarded"
)

// Storefront records cart activity and catalog fetch outcomes.
type Storefront struct {
	cartAdds    prometheus.Counter
	cartRemoves prometheus.Counter
	cartLines   prometheus.Gauge
	fetches     *prometheus.CounterVec
}

// New registers the storefront metrics on reg. A nil registerer yields a
// recorder whose methods are no-ops.
func New(reg prometheus.Registerer) *Storefront {
	if reg == nil {
		return &Storefront{}
	}
	cartAdds := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "storefront_cart_adds_total",
		Help: "Products added to the cart.",
	})
	cartRemoves := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "storefront_cart_removes_total",
		Help: "Cart lines removed.",
	})
	cartLines := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "storefront_cart_lines",
		Help: "Distinct products currently in the cart.",
	})
	fetches := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_catalog_fetches_total",
		Help: "Catalog fetches by outcome.",
	}, []string{"outcome"})
	reg.MustRegister(cartAdds, cartRemoves, cartLines, fetches)
	return &Storefront{
		cartAdds:    cartAdds,
		cartRemoves: cartRemoves,
		cartLines:   cartLines,
		fetches:     fetches,
	}
}

// CartAdded counts one add and records the resulting line count.
func (m *Storefront) CartAdded(lines int) {
	if m == nil || m.cartAdds == nil {
		return
	}
	m.cartAdds.Inc()
	m.cartLines.Set(float64(lines))
}

// CartRemoved counts one effective removal and records the resulting line count.
func (m *Storefront) CartRemoved(lines int) {
	if m == nil || m.cartRemoves == nil {
		return
	}
	m.cartRemoves.Inc()
	m.cartLines.Set(float64(lines))
}

// CatalogFetched counts a catalog fetch by outcome.
func (m *Storefront) CatalogFetched(outcome string) {
	if m == nil || m.fetches == nil {
		return
	}
	m.fetches.WithLabelValues(outcome).Inc()
}
