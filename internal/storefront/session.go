package storefront

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"storefront/internal/cart"
	"storefront/internal/catalog"
	"storefront/internal/domain"
	"storefront/internal/metrics"
)

// LoadState tracks the catalog fetch lifecycle.
type LoadState string

const (
	StateIdle    LoadState = "idle"
	StateLoading LoadState = "loading"
	StateLoaded  LoadState = "loaded"
	StateFailed  LoadState = "failed"
)

// Status describes the catalog as currently held by the session.
type Status struct {
	State LoadState
	Err   error
	Count int
}

// CartLine is a cart item with its derived subtotal.
type CartLine struct {
	domain.CartItem
	Subtotal decimal.Decimal
}

// CartView is the read-only cart observation handed to presentation code.
type CartView struct {
	Lines         []CartLine
	Total         decimal.Decimal
	TotalQuantity int
	Version       uint64
}

// Session joins the catalog snapshot, the current search query and the cart.
// It accepts the presentation intents and exposes read-only views.
type Session struct {
	provider catalog.Provider
	cart     *cart.Store
	logger   zerolog.Logger
	metrics  *metrics.Storefront

	mu       sync.RWMutex
	products []domain.Product
	query    string
	state    LoadState
	loadErr  error
	gen      uint64
	cancel   context.CancelFunc
	closed   bool
}

// New builds a session over provider and store. m may be nil.
func New(provider catalog.Provider, store *cart.Store, logger zerolog.Logger, m *metrics.Storefront) *Session {
	return &Session{
		provider: provider,
		cart:     store,
		logger:   logger,
		metrics:  m,
		state:    StateIdle,
	}
}

// Load starts an asynchronous catalog fetch and returns a channel that is
// closed once its result has been applied or discarded. A newer Load cancels
// and supersedes an in-flight one. A failed fetch keeps the previous products.
func (s *Session) Load(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		close(done)
		return done
	}
	if s.cancel != nil {
		s.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	s.gen++
	gen := s.gen
	s.cancel = cancel
	s.state = StateLoading
	s.mu.Unlock()

	results := catalog.Fetch(ctx, s.provider)
	go func() {
		defer close(done)
		defer cancel()
		s.apply(gen, <-results)
	}()
	return done
}

func (s *Session) apply(gen uint64, res catalog.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || gen != s.gen {
		s.metrics.CatalogFetched(metrics.OutcomeDiscarded)
		s.logger.Debug().Uint64("generation", gen).Msg("catalog: discarded stale fetch result")
		return
	}
	s.cancel = nil
	if res.Err != nil {
		s.state = StateFailed
		s.loadErr = res.Err
		s.metrics.CatalogFetched(metrics.OutcomeFailure)
		s.logger.Error().Err(res.Err).Int("kept", len(s.products)).Msg("catalog: fetch failed")
		return
	}
	s.products = res.Products
	s.state = StateLoaded
	s.loadErr = nil
	s.metrics.CatalogFetched(metrics.OutcomeSuccess)
	s.logger.Info().Int("count", len(res.Products)).Msg("catalog: loaded")
}

// Close cancels any in-flight fetch. Results arriving afterwards are dropped.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// Status reports the catalog load state.
func (s *Session) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Status{State: s.state, Err: s.loadErr, Count: len(s.products)}
}

// SetSearchQuery replaces the query used by Products.
func (s *Session) SetSearchQuery(query string) {
	s.mu.Lock()
	s.query = query
	s.mu.Unlock()
}

// SearchQuery returns the current query.
func (s *Session) SearchQuery() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.query
}

// Products returns the catalog filtered by the current search query.
func (s *Session) Products() []domain.Product {
	s.mu.RLock()
	products, query := s.products, s.query
	s.mu.RUnlock()
	return slices.Clone(catalog.Filter(products, query))
}

// Search filters the catalog by query without touching the session query.
func (s *Session) Search(query string) []domain.Product {
	s.mu.RLock()
	products := s.products
	s.mu.RUnlock()
	return slices.Clone(catalog.Filter(products, query))
}

// Product looks id up in the current catalog snapshot.
func (s *Session) Product(id domain.ProductID) (domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.products {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Product{}, fmt.Errorf("product %d: %w", id, domain.ErrNotFound)
}

// AddToCart adds one unit of p to the cart.
func (s *Session) AddToCart(p domain.Product) {
	s.cart.Add(p)
}

// AddToCartByID adds the catalog product with id to the cart.
func (s *Session) AddToCartByID(id domain.ProductID) (domain.Product, error) {
	p, err := s.Product(id)
	if err != nil {
		return domain.Product{}, err
	}
	s.cart.Add(p)
	return p, nil
}

// RemoveFromCart drops the whole cart line for id, if any.
func (s *Session) RemoveFromCart(id domain.ProductID) {
	s.cart.Remove(id)
}

// Cart returns the cart lines with subtotals and the grand total.
func (s *Session) Cart() CartView {
	snap, version := s.cart.Snapshot()
	lines := make([]CartLine, 0, len(snap.Items))
	for _, item := range snap.Items {
		lines = append(lines, CartLine{CartItem: item, Subtotal: item.Subtotal()})
	}
	return CartView{
		Lines:         lines,
		Total:         snap.Total(),
		TotalQuantity: snap.TotalQuantity(),
		Version:       version,
	}
}
