package handlers

import (
	"log/slog"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/grocerhq/storefront/internal/middleware"
	"github.com/grocerhq/storefront/internal/models"
)

// ProductHandler serves the storefront's product views for a session.
type ProductHandler struct {
	log *slog.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(log *slog.Logger) *ProductHandler {
	return &ProductHandler{
		log: log,
	}
}

// productResponse is a product with its display-derived fields resolved.
type productResponse struct {
	Name              string          `json:"name"`
	Price             decimal.Decimal `json:"price"`
	DisplayedPrice    string          `json:"displayed_price"`
	QuantityAvailable int             `json:"quantity_available"`
	Image             string          `json:"image"`
	Type              string          `json:"type"`
	IsAvailable       bool            `json:"is_available"`
}

func toProductResponse(p models.Product) productResponse {
	return productResponse{
		Name:              p.Name,
		Price:             p.Price,
		DisplayedPrice:    p.DisplayedPrice(),
		QuantityAvailable: p.QuantityAvailable,
		Image:             p.Image,
		Type:              p.Type,
		IsAvailable:       p.IsAvailable(),
	}
}

func toProductResponses(products []models.Product) []productResponse {
	out := make([]productResponse, len(products))
	for i, p := range products {
		out[i] = toProductResponse(p)
	}
	return out
}

// ListProducts handles GET /api/products.
// Returns in-stock products, restricted by the active filter.
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	s := middleware.StoreFrom(r.Context())

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"products":    toProductResponses(s.ProductsForList()),
		"filtered":    s.Filtered(),
		"filter_type": s.FilterType(),
	})
}

// Categories handles GET /api/products/categories.
// Returns one representative product per type, for filter controls.
func (h *ProductHandler) Categories(w http.ResponseWriter, r *http.Request) {
	s := middleware.StoreFrom(r.Context())

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"categories": toProductResponses(s.CategorisedProducts()),
	})
}

// Filters handles GET /api/products/filters.
// Returns every product's type in catalog order, duplicates included.
func (h *ProductHandler) Filters(w http.ResponseWriter, r *http.Request) {
	s := middleware.StoreFrom(r.Context())

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"filters": s.FilterList(),
	})
}
