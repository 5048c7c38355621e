package catalog

import (
	"context"

	"storefront/internal/domain"
)

// Provider is a read-only source of catalog products.
type Provider interface {
	Products(ctx context.Context) ([]domain.Product, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context) ([]domain.Product, error)

func (f ProviderFunc) Products(ctx context.Context) ([]domain.Product, error) {
	return f(ctx)
}

// Result is the outcome of one catalog fetch.
type Result struct {
	Products []domain.Product
	Err      error
}

// Fetch runs a single catalog retrieval in the background. The returned
// channel delivers exactly one Result and is then closed. Cancelling ctx
// aborts the retrieval when the provider honors it; the Result then carries
// the provider's error.
func Fetch(ctx context.Context, p Provider) <-chan Result {
	out := make(chan Result, 1)
	go func() {
		defer close(out)
		products, err := p.Products(ctx)
		if err == nil {
			err = ctx.Err()
		}
		if err != nil {
			out <- Result{Err: err}
			return
		}
		out <- Result{Products: products}
	}()
	return out
}
