package cart

import (
	"slices"
	"sync"

	eventbus "github.com/asaskevich/EventBus"

	"storefront/internal/domain"
	"storefront/internal/metrics"
)

// TopicChanged is published with the new domain.Cart after every change.
const TopicChanged = "cart:changed"

// Store owns the cart lines. Lines are unique per product id and kept in
// first-add order.
type Store struct {
	// cmdMu serializes commands so change notifications are delivered in the
	// order the commands were applied.
	cmdMu sync.Mutex

	mu      sync.RWMutex
	items   []domain.CartItem
	index   map[domain.ProductID]int
	version uint64

	bus     eventbus.Bus
	metrics *metrics.Storefront
}

// NewStore returns an empty cart. m may be nil.
func NewStore(m *metrics.Storefront) *Store {
	return &Store{
		index:   make(map[domain.ProductID]int),
		bus:     eventbus.New(),
		metrics: m,
	}
}

// Add puts one unit of p in the cart. A product already present keeps its
// position and its originally stored attributes; only the quantity grows.
func (s *Store) Add(p domain.Product) {
	s.cmdMu.Lock()
	defer s.cmdMu.Unlock()

	s.mu.Lock()
	if i, ok := s.index[p.ID]; ok {
		s.items[i].Quantity++
	} else {
		s.index[p.ID] = len(s.items)
		s.items = append(s.items, domain.CartItem{Product: p, Quantity: 1})
	}
	s.version++
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.metrics.CartAdded(len(snap.Items))
	s.bus.Publish(TopicChanged, snap)
}

// Remove drops the whole line for id regardless of its quantity. Removing an
// id that is not in the cart does nothing.
func (s *Store) Remove(id domain.ProductID) {
	s.cmdMu.Lock()
	defer s.cmdMu.Unlock()

	s.mu.Lock()
	i, ok := s.index[id]
	if !ok {
		s.mu.Unlock()
		return
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	delete(s.index, id)
	for j := i; j < len(s.items); j++ {
		s.index[s.items[j].Product.ID] = j
	}
	s.version++
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.metrics.CartRemoved(len(snap.Items))
	s.bus.Publish(TopicChanged, snap)
}

// Items returns a copy of the cart lines in insertion order.
func (s *Store) Items() []domain.CartItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.copyItemsLocked()
}

// Snapshot returns the current cart and the version it was taken at. The
// version increases with every change.
func (s *Store) Snapshot() (domain.Cart, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked(), s.version
}

// Subscribe registers fn to receive the cart after every change. fn runs on
// the goroutine that issued the command and must not call Add or Remove.
// Each subscriber gets its own copy of the lines.
func (s *Store) Subscribe(fn func(domain.Cart)) error {
	return s.bus.Subscribe(TopicChanged, func(c domain.Cart) {
		fn(domain.Cart{Items: slices.Clone(c.Items)})
	})
}

func (s *Store) snapshotLocked() domain.Cart {
	return domain.Cart{Items: s.copyItemsLocked()}
}

func (s *Store) copyItemsLocked() []domain.CartItem {
	out := make([]domain.CartItem, len(s.items))
	copy(out, s.items)
	return out
}
