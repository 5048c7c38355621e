package product

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"storefront/internal/domain"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger zerolog.Logger) Repository {
	return &postgresRepo{pool: pool, logger: logger}
}

// List returns the whole catalog ordered by id.
func (r *postgresRepo) List(ctx context.Context) ([]domain.Product, error) {
	const q = `
SELECT id, title, price::text, description, image
FROM products
ORDER BY id
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Error().Err(err).Msg("product repo: list")
		return nil, err
	}
	defer rows.Close()

	var result []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("product repo: list rows")
		return nil, err
	}
	r.logger.Debug().Int("count", len(result)).Msg("product repo: list")
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id domain.ProductID) (*domain.Product, error) {
	const q = `
SELECT id, title, price::text, description, image
FROM products
WHERE id = $1
`
	p, err := scanProduct(r.pool.QueryRow(ctx, q, int64(id)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error().Err(err).Int64("id", int64(id)).Msg("product repo: get")
		return nil, err
	}
	return &p, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, product domain.Product) (*domain.Product, error) {
	const q = `
INSERT INTO products (id, title, price, description, image)
VALUES ($1, $2, $3::numeric, $4, $5)
ON CONFLICT (id) DO UPDATE SET
    title = EXCLUDED.title,
    price = EXCLUDED.price,
    description = EXCLUDED.description,
    image = EXCLUDED.image,
    updated_at = now()
RETURNING id, title, price::text, description, image
`
	res, err := scanProduct(r.pool.QueryRow(ctx, q,
		int64(product.ID),
		product.Title,
		product.Price.String(),
		product.Description,
		product.Image,
	))
	if err != nil {
		r.logger.Error().Err(err).Int64("id", int64(product.ID)).Msg("product repo: upsert")
		return nil, err
	}
	r.logger.Debug().Int64("id", int64(res.ID)).Msg("product repo: upserted")
	return &res, nil
}

func scanProduct(row pgx.Row) (domain.Product, error) {
	var (
		p     domain.Product
		id    int64
		price string
	)
	if err := row.Scan(&id, &p.Title, &price, &p.Description, &p.Image); err != nil {
		return domain.Product{}, err
	}
	amount, err := decimal.NewFromString(price)
	if err != nil {
		return domain.Product{}, fmt.Errorf("product %d: parse price %q: %w", id, price, err)
	}
	p.ID = domain.ProductID(id)
	p.Price = amount
	return p, nil
}
