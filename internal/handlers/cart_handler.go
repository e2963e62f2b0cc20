package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/grocerhq/storefront/internal/config"
	"github.com/grocerhq/storefront/internal/middleware"
	"github.com/grocerhq/storefront/internal/store"
)

// CartHandler serves cart reads and mutations for a session.
type CartHandler struct {
	log               *slog.Logger
	minCheckoutTotal  decimal.Decimal
	freeDeliveryTotal decimal.Decimal
}

// NewCartHandler creates a new cart handler with the configured
// advisory thresholds.
func NewCartHandler(cfg config.CartConfig, log *slog.Logger) *CartHandler {
	return &CartHandler{
		log:               log,
		minCheckoutTotal:  decimal.NewFromFloat(cfg.MinCheckoutTotal),
		freeDeliveryTotal: decimal.NewFromFloat(cfg.FreeDeliveryTotal),
	}
}

// cartItemRequest names the product a mutation applies to.
type cartItemRequest struct {
	Name string `json:"name"`
}

type cartEntryResponse struct {
	Product           productResponse `json:"product"`
	Quantity          int             `json:"quantity"`
	Total             decimal.Decimal `json:"total"`
	DisplayedTotal    string          `json:"displayed_total"`
	IsProductFinished bool            `json:"is_product_finished"`
	AvailableQuantity int             `json:"available_quantity"`
}

type cartResponse struct {
	Items      []cartEntryResponse `json:"items"`
	TotalPrice decimal.Decimal     `json:"total_price"`
	// DisplayedTotalPrice is omitted entirely on an empty cart; the UI
	// shows an empty state rather than a formatted zero.
	DisplayedTotalPrice string `json:"displayed_total_price,omitempty"`
	CheckoutEnabled     bool   `json:"checkout_enabled"`
	FreeDelivery        bool   `json:"free_delivery"`
}

func (h *CartHandler) toCartResponse(s *store.Store) cartResponse {
	entries := s.CartItems()
	items := make([]cartEntryResponse, len(entries))
	for i, entry := range entries {
		items[i] = cartEntryResponse{
			Product:           toProductResponse(entry.Product),
			Quantity:          entry.Quantity,
			Total:             entry.Total(),
			DisplayedTotal:    entry.DisplayedTotal(),
			IsProductFinished: entry.IsProductFinished(),
			AvailableQuantity: entry.AvailableQuantity(),
		}
	}

	total := s.TotalCartPrice()
	displayed, _ := s.FormattedTotalCartPrice()

	return cartResponse{
		Items:               items,
		TotalPrice:          total,
		DisplayedTotalPrice: displayed,
		CheckoutEnabled:     total.GreaterThanOrEqual(h.minCheckoutTotal) && total.IsPositive(),
		FreeDelivery:        total.GreaterThanOrEqual(h.freeDeliveryTotal) && total.IsPositive(),
	}
}

// GetCart handles GET /api/cart.
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	s := middleware.StoreFrom(r.Context())
	writeJSON(w, http.StatusOK, h.toCartResponse(s))
}

// AddItem handles POST /api/cart/add.
// Adds one unit of the named product:
// - 200: updated cart
// - 400: malformed request
// - 404: product not in the catalog
// - 409: product is out of stock (cart unchanged)
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	s := middleware.StoreFrom(r.Context())

	req, ok := h.decodeItemRequest(w, r)
	if !ok {
		return
	}

	if err := s.AddToCart(req.Name); err != nil {
		switch {
		case errors.Is(err, store.ErrProductNotFound):
			h.log.Warn("add to cart for unknown product", "product", req.Name)
			writeError(w, http.StatusNotFound, "Product not found")
		case errors.Is(err, store.ErrOutOfStock):
			h.log.Info("product is out of stock", "product", req.Name)
			writeError(w, http.StatusConflict, "Product is out of stock")
		default:
			h.log.Error("failed to add to cart", "product", req.Name, "error", err)
			writeError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	writeJSON(w, http.StatusOK, h.toCartResponse(s))
}

// ReduceItem handles POST /api/cart/reduce.
// Decrements the named product's quantity, removing the entry at zero.
// Reducing a product that is not in the cart is a no-op.
func (h *CartHandler) ReduceItem(w http.ResponseWriter, r *http.Request) {
	s := middleware.StoreFrom(r.Context())

	req, ok := h.decodeItemRequest(w, r)
	if !ok {
		return
	}

	s.ReduceCart(req.Name)
	writeJSON(w, http.StatusOK, h.toCartResponse(s))
}

// RemoveItem handles POST /api/cart/remove.
// Removes the named product's entry regardless of quantity; removing a
// product that is not in the cart is a no-op.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	s := middleware.StoreFrom(r.Context())

	req, ok := h.decodeItemRequest(w, r)
	if !ok {
		return
	}

	s.RemoveFromCart(req.Name)
	writeJSON(w, http.StatusOK, h.toCartResponse(s))
}

func (h *CartHandler) decodeItemRequest(w http.ResponseWriter, r *http.Request) (cartItemRequest, bool) {
	var req cartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error("failed to decode cart request", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return cartItemRequest{}, false
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Product name is required")
		return cartItemRequest{}, false
	}
	return req, true
}
