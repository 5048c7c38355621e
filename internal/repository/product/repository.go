package product

import (
	"context"

	"storefront/internal/domain"
)

// Repository stores an imported catalog snapshot.
type Repository interface {
	List(ctx context.Context) ([]domain.Product, error)
	GetByID(ctx context.Context, id domain.ProductID) (*domain.Product, error)
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}
