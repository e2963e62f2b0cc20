package store

import (
	"github.com/shopspring/decimal"

	"github.com/grocerhq/storefront/internal/models"
)

// CartEntry is a read-only view of one cart ledger entry with its
// product resolved against the current catalog. The embedded product is
// a copy: mutating it has no effect on the store.
type CartEntry struct {
	Product  models.Product
	Quantity int
}

// Total is the entry's price contribution: product price times quantity.
func (e CartEntry) Total() decimal.Decimal {
	return e.Product.Price.Mul(decimal.NewFromInt(int64(e.Quantity)))
}

// DisplayedTotal returns the entry total formatted for display.
func (e CartEntry) DisplayedTotal() string {
	return models.FormatAmount(e.Total())
}

// IsProductFinished reports whether the cart demands more units than
// are currently available.
func (e CartEntry) IsProductFinished() bool {
	return e.Product.QuantityAvailable < e.Quantity
}

// AvailableQuantity is the stock remaining after the cart's claim.
// Negative values signal oversell.
func (e CartEntry) AvailableQuantity() int {
	return e.Product.QuantityAvailable - e.Quantity
}

// Every view below is a pure function of the current catalog and cart:
// each call recomputes from live state, so a view can never be stale.

// Catalog returns a copy of the full catalog in ingestion order.
func (s *Store) Catalog() []models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Product, len(s.catalog))
	copy(out, s.catalog)
	return out
}

// ProductsForList returns the products to show in the storefront list:
// catalog entries with stock, restricted to the active filter type when
// a filter is set. Catalog order is preserved.
func (s *Store) ProductsForList() []models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Product, 0, len(s.catalog))
	for _, product := range s.catalog {
		if product.QuantityAvailable <= 0 {
			continue
		}
		if s.filtered && product.Type != s.filterType {
			continue
		}
		out = append(out, product)
	}
	return out
}

// CategorisedProducts returns one representative product per distinct
// type, in first-seen catalog order. Used to build filter controls.
func (s *Store) CategorisedProducts() []models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]bool)
	var out []models.Product
	for _, product := range s.catalog {
		if seen[product.Type] {
			continue
		}
		seen[product.Type] = true
		out = append(out, product)
	}
	return out
}

// FilterList returns every product's type in catalog order, duplicates
// included.
func (s *Store) FilterList() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, len(s.catalog))
	for i, product := range s.catalog {
		out[i] = product.Type
	}
	return out
}

// CartItems returns the cart ledger in add order, with each entry's
// product resolved against the current catalog.
func (s *Store) CartItems() []CartEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]CartEntry, 0, len(s.cart))
	for _, item := range s.cart {
		pos, ok := s.index[item.productName]
		if !ok {
			// Unreachable while ReplaceCatalog drops vanished entries.
			continue
		}
		out = append(out, CartEntry{
			Product:  s.catalog[pos],
			Quantity: item.quantity,
		})
	}
	return out
}

// TotalCartPrice sums price times quantity over the whole cart.
func (s *Store) TotalCartPrice() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalLocked()
}

// FormattedTotalCartPrice returns the cart total formatted for display.
// The second return value is false when there is nothing to show: an
// empty cart yields no formatted total rather than a formatted zero.
func (s *Store) FormattedTotalCartPrice() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := s.totalLocked()
	if !total.IsPositive() {
		return "", false
	}
	return models.FormatAmount(total), true
}

func (s *Store) totalLocked() decimal.Decimal {
	total := decimal.Zero
	for _, item := range s.cart {
		pos, ok := s.index[item.productName]
		if !ok {
			continue
		}
		price := s.catalog[pos].Price
		total = total.Add(price.Mul(decimal.NewFromInt(int64(item.quantity))))
	}
	return total
}
