package store

import (
	"errors"
	"fmt"
	"sync"

	"github.com/grocerhq/storefront/internal/models"
)

var (
	// ErrProductNotFound is returned when an operation names a product
	// that is not in the current catalog.
	ErrProductNotFound = errors.New("product not found")

	// ErrOutOfStock is returned when AddToCart is invoked on a product
	// with zero availability. The cart is left unchanged.
	ErrOutOfStock = errors.New("product is out of stock")

	// ErrDuplicateIdentity is returned when an ingested snapshot set
	// contains two products with the same name. The previous catalog
	// is retained.
	ErrDuplicateIdentity = errors.New("duplicate product name")
)

// Store holds the product catalog and the cart ledger for one session.
// The catalog is replaced wholesale on each ingestion; cart entries
// reference catalog products by name and are resolved at read time.
//
// All operations are safe for concurrent use: mutations perform
// read-then-write on the ledger, so they are serialized behind a mutex.
type Store struct {
	mu         sync.Mutex
	catalog    []models.Product
	index      map[string]int // product name -> catalog position
	cart       []cartItem
	filterType string
	filtered   bool
}

// cartItem is a ledger entry. It holds the product's identity rather
// than a pointer into the catalog, so a catalog replacement can never
// leave a dangling reference behind.
type cartItem struct {
	productName string
	quantity    int
}

// New creates a store with an empty catalog and cart.
func New() *Store {
	return &Store{
		index: make(map[string]int),
	}
}

// NewFromSnapshots creates a store and ingests the given catalog snapshot.
func NewFromSnapshots(snapshots []models.ProductSnapshot) (*Store, error) {
	s := New()
	if _, err := s.ReplaceCatalog(snapshots); err != nil {
		return nil, err
	}
	return s, nil
}

// ReplaceCatalog replaces the entire catalog with the given snapshot set.
// This is a full replace, not an upsert: products absent from the new set
// are gone, and cart entries referencing them are dropped. The names of
// dropped entries are returned so the caller can report them.
//
// If two snapshots share a name the ingestion is rejected wholesale with
// ErrDuplicateIdentity and the previous catalog and cart are retained.
func (s *Store) ReplaceCatalog(snapshots []models.ProductSnapshot) ([]string, error) {
	catalog := make([]models.Product, 0, len(snapshots))
	index := make(map[string]int, len(snapshots))

	for _, snapshot := range snapshots {
		if _, exists := index[snapshot.Name]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateIdentity, snapshot.Name)
		}
		index[snapshot.Name] = len(catalog)
		catalog = append(catalog, snapshot.Product())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.catalog = catalog
	s.index = index

	// Drop cart entries whose product vanished from the new catalog.
	var dropped []string
	kept := s.cart[:0]
	for _, item := range s.cart {
		if _, ok := index[item.productName]; ok {
			kept = append(kept, item)
		} else {
			dropped = append(dropped, item.productName)
		}
	}
	s.cart = kept

	return dropped, nil
}

// AddToCart adds one unit of the named product to the cart. If the
// product is already in the cart its quantity is incremented; otherwise
// a new entry with quantity 1 is appended.
//
// Adding is not bounded by availability: the cart tracks desired
// quantity, and oversell is surfaced through the cart entry's
// IsProductFinished and AvailableQuantity fields rather than blocked.
// Only a product with zero availability is refused, with ErrOutOfStock.
func (s *Store) AddToCart(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos, ok := s.index[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrProductNotFound, name)
	}
	if s.catalog[pos].QuantityAvailable <= 0 {
		return fmt.Errorf("%w: %q", ErrOutOfStock, name)
	}

	for i := range s.cart {
		if s.cart[i].productName == name {
			s.cart[i].quantity++
			return nil
		}
	}

	s.cart = append(s.cart, cartItem{productName: name, quantity: 1})
	return nil
}

// ReduceCart decrements the named product's cart quantity by one,
// removing the entry entirely when the quantity drops to zero.
// It is a no-op if the product is not in the cart.
func (s *Store) ReduceCart(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.cart {
		if s.cart[i].productName != name {
			continue
		}
		s.cart[i].quantity--
		if s.cart[i].quantity <= 0 {
			s.cart = append(s.cart[:i], s.cart[i+1:]...)
		}
		return
	}
}

// RemoveFromCart removes the named product's cart entry regardless of
// quantity. It is a no-op if the product is not in the cart.
func (s *Store) RemoveFromCart(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.cart {
		if s.cart[i].productName == name {
			s.cart = append(s.cart[:i], s.cart[i+1:]...)
			return
		}
	}
}

// SetFilterType activates filtering by the given product type.
func (s *Store) SetFilterType(productType string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.filterType = productType
	s.filtered = true
}

// ClearFilter deactivates filtering.
func (s *Store) ClearFilter() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.filterType = ""
	s.filtered = false
}

// ToggleFilter activates filtering by the given type, or clears the
// filter if that type is already active. Mirrors tapping a filter chip
// in the storefront UI.
func (s *Store) ToggleFilter(productType string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.filtered && s.filterType == productType {
		s.filterType = ""
		s.filtered = false
		return
	}
	s.filterType = productType
	s.filtered = true
}

// FilterType returns the active filter type, or "" when no filter is set.
func (s *Store) FilterType() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filterType
}

// Filtered reports whether a filter is active.
func (s *Store) Filtered() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filtered
}
