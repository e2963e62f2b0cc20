package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// currencyPrefix is the symbol prepended to displayed amounts (South African Rand).
const currencyPrefix = "R"

// Product represents a grocery item available in the storefront catalog.
// The Name field is the product's identity: two products with the same
// name are the same logical entity.
type Product struct {
	Name              string          `json:"name"`
	Price             decimal.Decimal `json:"price"`
	QuantityAvailable int             `json:"quantity_available"`
	Image             string          `json:"image"`
	Type              string          `json:"type"`
}

// IsAvailable reports whether the product can be added to a cart.
func (p Product) IsAvailable() bool {
	return p.QuantityAvailable > 0
}

// IsOutOfStock reports whether the product has no stock left.
func (p Product) IsOutOfStock() bool {
	return p.QuantityAvailable == 0
}

// DisplayedPrice returns the price formatted for display, e.g. "R1.50".
func (p Product) DisplayedPrice() string {
	return FormatAmount(p.Price)
}

// FormatAmount renders a monetary amount with the currency prefix and
// two decimal places.
func FormatAmount(amount decimal.Decimal) string {
	return currencyPrefix + amount.StringFixed(2)
}

// ProductSnapshot is the wire shape consumed by catalog ingestion.
// All fields are required; there are no defaults.
type ProductSnapshot struct {
	Name              string          `json:"name"`
	Price             decimal.Decimal `json:"price"`
	QuantityAvailable int             `json:"quantity_available"`
	Image             string          `json:"image"`
	Type              string          `json:"type"`
}

// Validate checks that every snapshot field is present and in range.
func (s ProductSnapshot) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("product snapshot: name is required")
	}
	if s.Price.IsNegative() {
		return fmt.Errorf("product snapshot %q: price must not be negative", s.Name)
	}
	if s.QuantityAvailable < 0 {
		return fmt.Errorf("product snapshot %q: quantity_available must not be negative", s.Name)
	}
	if s.Image == "" {
		return fmt.Errorf("product snapshot %q: image is required", s.Name)
	}
	if s.Type == "" {
		return fmt.Errorf("product snapshot %q: type is required", s.Name)
	}
	return nil
}

// Product converts the snapshot into a catalog entry.
func (s ProductSnapshot) Product() Product {
	return Product{
		Name:              s.Name,
		Price:             s.Price,
		QuantityAvailable: s.QuantityAvailable,
		Image:             s.Image,
		Type:              s.Type,
	}
}
