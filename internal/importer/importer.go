package importer

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/gocarina/gocsv"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"storefront/internal/catalog"
	"storefront/internal/domain"
)

const defaultWorkers = 4

type ProductWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

// Importer loads catalog products into a ProductWriter, either from a CSV
// export or from a live catalog provider.
type Importer struct {
	repo    ProductWriter
	workers int
	logger  zerolog.Logger
}

func New(repo ProductWriter, logger zerolog.Logger) *Importer {
	return &Importer{repo: repo, workers: defaultWorkers, logger: logger}
}

// csvRow is one line of an id,title,price,description,image export.
type csvRow struct {
	ID          string `csv:"id"`
	Title       string `csv:"title"`
	Price       string `csv:"price"`
	Description string `csv:"description"`
	Image       string `csv:"image"`
}

// ImportCSV parses every row before writing anything; a bad row aborts the
// import. An empty price imports as zero.
func (i *Importer) ImportCSV(ctx context.Context, r io.Reader) (int, error) {
	var rows []*csvRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return 0, fmt.Errorf("read csv: %w", err)
	}

	products := make([]domain.Product, 0, len(rows))
	for n, row := range rows {
		p, err := row.product()
		if err != nil {
			// +2: header line and 1-based numbering.
			return 0, fmt.Errorf("csv line %d: %w", n+2, err)
		}
		products = append(products, p)
	}
	return i.save(ctx, products)
}

// Sync copies the provider's current catalog.
func (i *Importer) Sync(ctx context.Context, src catalog.Provider) (int, error) {
	products, err := src.Products(ctx)
	if err != nil {
		return 0, fmt.Errorf("fetch catalog: %w", err)
	}
	return i.save(ctx, products)
}

func (i *Importer) save(ctx context.Context, products []domain.Product) (int, error) {
	var imported atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(i.workers)
	for _, p := range products {
		p := p
		g.Go(func() error {
			if _, err := i.repo.Upsert(gctx, p); err != nil {
				return fmt.Errorf("upsert product %d: %w", p.ID, err)
			}
			imported.Add(1)
			return nil
		})
	}
	err := g.Wait()

	n := int(imported.Load())
	i.logger.Info().Int("imported", n).Int("total", len(products)).Msg("importer: done")
	return n, err
}

func (r *csvRow) product() (domain.Product, error) {
	idStr := strings.TrimSpace(r.ID)
	if idStr == "" {
		return domain.Product{}, fmt.Errorf("id: %w", catalog.ErrMissingField)
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return domain.Product{}, fmt.Errorf("id %q: %w", idStr, err)
	}

	price := decimal.Zero
	if s := strings.TrimSpace(r.Price); s != "" {
		price, err = decimal.NewFromString(s)
		if err != nil {
			return domain.Product{}, fmt.Errorf("price %q: %w", s, err)
		}
	}

	return catalog.NewProduct(id, strings.TrimSpace(r.Title), price, r.Description, strings.TrimSpace(r.Image))
}
