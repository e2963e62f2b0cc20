package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/grocerhq/storefront/internal/models"
)

func TestCreateSession(t *testing.T) {
	router := newTestRouter(t, &fakeSource{snapshots: defaultSnapshots()})

	req := httptest.NewRequest(http.MethodPost, "/api/session", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", w.Code)
	}

	var resp struct {
		SessionID   string `json:"session_id"`
		CatalogSize int    `json:"catalog_size"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.SessionID == "" {
		t.Error("session_id is empty")
	}
	if resp.CatalogSize != len(defaultSnapshots()) {
		t.Errorf("catalog_size = %d, want %d", resp.CatalogSize, len(defaultSnapshots()))
	}
}

func TestCreateSession_FetchFailure(t *testing.T) {
	router := newTestRouter(t, &fakeSource{err: errors.New("connection refused")})

	req := httptest.NewRequest(http.MethodPost, "/api/session", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", w.Code)
	}
}

func TestCreateSession_DuplicateCatalogNames(t *testing.T) {
	source := &fakeSource{snapshots: defaultSnapshots()}
	source.snapshots = append(source.snapshots, testSnapshot("Apple", 1.6, 3, "fruit"))
	router := newTestRouter(t, source)

	req := httptest.NewRequest(http.MethodPost, "/api/session", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", w.Code)
	}
}

func TestDeleteSession(t *testing.T) {
	router := newTestRouter(t, &fakeSource{snapshots: defaultSnapshots()})
	id := newSession(t, router)

	w := doSession(t, router, id, http.MethodDelete, "/api/session", "")
	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", w.Code)
	}

	// The session is gone: further requests are rejected.
	w = doSession(t, router, id, http.MethodGet, "/api/cart", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("status after delete = %d, want 404", w.Code)
	}
}

func TestRefreshCatalog_ReportsDroppedEntries(t *testing.T) {
	source := &fakeSource{snapshots: defaultSnapshots()}
	router := newTestRouter(t, source)
	id := newSession(t, router)

	doSession(t, router, id, http.MethodPost, "/api/cart/add", `{"name":"Apple"}`)
	doSession(t, router, id, http.MethodPost, "/api/cart/add", `{"name":"Carrot"}`)

	// Apple vanishes from the next catalog snapshot.
	source.snapshots = []models.ProductSnapshot{
		testSnapshot("Carrot", 0.6, 30, "vegetable"),
	}

	w := doSession(t, router, id, http.MethodPost, "/api/session/catalog/refresh", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp struct {
		Status           string   `json:"status"`
		DroppedCartItems []string `json:"dropped_cart_items"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.DroppedCartItems) != 1 || resp.DroppedCartItems[0] != "Apple" {
		t.Errorf("dropped_cart_items = %v, want [Apple]", resp.DroppedCartItems)
	}

	w = doSession(t, router, id, http.MethodGet, "/api/cart", "")
	cart := decodeCart(t, w)
	if len(cart.Items) != 1 || cart.Items[0].Product.Name != "Carrot" {
		t.Errorf("cart after refresh = %v, want only Carrot", cart.Items)
	}
}

func TestRefreshCatalog_FetchFailureKeepsCatalog(t *testing.T) {
	source := &fakeSource{snapshots: defaultSnapshots()}
	router := newTestRouter(t, source)
	id := newSession(t, router)

	doSession(t, router, id, http.MethodPost, "/api/cart/add", `{"name":"Apple"}`)

	source.err = errors.New("timeout")
	w := doSession(t, router, id, http.MethodPost, "/api/session/catalog/refresh", "")
	if w.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", w.Code)
	}

	// Catalog and cart survive the failed refresh.
	source.err = nil
	w = doSession(t, router, id, http.MethodGet, "/api/products", "")
	resp := decodeProductList(t, w)
	if len(resp.Products) == 0 {
		t.Error("products empty after failed refresh, want previous catalog")
	}
	w = doSession(t, router, id, http.MethodGet, "/api/cart", "")
	cart := decodeCart(t, w)
	if len(cart.Items) != 1 {
		t.Errorf("cart items = %d, want 1", len(cart.Items))
	}
}

func TestRefreshCatalog_DuplicateNamesKeepsCatalog(t *testing.T) {
	source := &fakeSource{snapshots: defaultSnapshots()}
	router := newTestRouter(t, source)
	id := newSession(t, router)

	source.snapshots = []models.ProductSnapshot{
		testSnapshot("Banana", 0.75, 24, "fruit"),
		testSnapshot("Banana", 0.8, 12, "fruit"),
	}

	w := doSession(t, router, id, http.MethodPost, "/api/session/catalog/refresh", "")
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", w.Code)
	}

	w = doSession(t, router, id, http.MethodGet, "/api/products", "")
	resp := decodeProductList(t, w)
	want := []string{"Apple", "Carrot", "Cheddar Cheese"}
	if got := listNames(resp.Products); !sameNames(got, want) {
		t.Errorf("products after rejected refresh = %v, want %v", got, want)
	}
}
