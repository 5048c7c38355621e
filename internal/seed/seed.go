package seed

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"storefront/internal/domain"
)

type productWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

// DemoProducts is a small catalog for manual testing.
func DemoProducts() []domain.Product {
	return []domain.Product{
		{
			ID:          1,
			Title:       "Shirt",
			Price:       decimal.NewFromInt(20),
			Description: "Soft cotton tee",
			Image:       "https://fakestoreapi.com/img/71YXzeOuslL._AC_UY879_.jpg",
		},
		{
			ID:          2,
			Title:       "Hat",
			Price:       decimal.NewFromInt(15),
			Description: "Wide brim straw hat",
			Image:       "https://fakestoreapi.com/img/71li-ujtlUL._AC_UX679_.jpg",
		},
		{
			ID:          3,
			Title:       "Demo Mug",
			Price:       decimal.RequireFromString("12.99"),
			Description: "Ceramic mug with demo logo",
		},
	}
}

// Apply upserts the demo catalog. It is idempotent.
func Apply(ctx context.Context, repo productWriter) error {
	for _, p := range DemoProducts() {
		if _, err := repo.Upsert(ctx, p); err != nil {
			return fmt.Errorf("upsert product %d: %w", p.ID, err)
		}
	}
	return nil
}
