package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestStorefrontMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.CartAdded(1)
	m.CartAdded(2)
	m.CartRemoved(1)
	m.CatalogFetched(OutcomeSuccess)
	m.CatalogFetched(OutcomeFailure)
	m.CatalogFetched(OutcomeFailure)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.cartAdds))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cartRemoves))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cartLines))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.fetches.WithLabelValues(OutcomeFailure)))
}

func TestStorefrontMetricsNilSafe(t *testing.T) {
	var m *Storefront
	m.CartAdded(1)
	m.CartRemoved(0)
	m.CatalogFetched(OutcomeSuccess)

	unregistered := New(nil)
	unregistered.CartAdded(3)
	unregistered.CatalogFetched(OutcomeDiscarded)
}
