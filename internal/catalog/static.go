package catalog

import (
	"context"
	"encoding/json"
	_ "embed"
	"fmt"

	"github.com/grocerhq/storefront/internal/models"
)

//go:embed data/products.json
var productsJSON []byte

// StaticSource serves the embedded grocery dataset. It stands in for a
// real backend in development and demos.
type StaticSource struct{}

// NewStaticSource creates a source backed by the embedded dataset.
func NewStaticSource() *StaticSource {
	return &StaticSource{}
}

// Fetch decodes and validates the embedded dataset.
func (s *StaticSource) Fetch(ctx context.Context) ([]models.ProductSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var body payload
	if err := json.Unmarshal(productsJSON, &body); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadData, err)
	}

	return validate(body)
}
