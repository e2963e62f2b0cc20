package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

// newCatalogServer serves a fixed response body for every request.
func newCatalogServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPSource_Fetch(t *testing.T) {
	body := `{
		"status": "success",
		"products": [
			{"name": "Apple", "price": 1.5, "quantity_available": 10,
			 "image": "https://example.com/apple.jpg", "type": "fruit"},
			{"name": "Carrot", "price": 0.6, "quantity_available": 30,
			 "image": "https://example.com/carrot.jpg", "type": "vegetable"}
		]
	}`
	srv := newCatalogServer(t, http.StatusOK, body)

	source := NewHTTPSource(srv.URL, 5*time.Second)
	snapshots, err := source.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	if len(snapshots) != 2 {
		t.Fatalf("snapshot count = %d, want 2", len(snapshots))
	}
	if snapshots[0].Name != "Apple" {
		t.Errorf("snapshots[0].Name = %q, want %q", snapshots[0].Name, "Apple")
	}
	if !snapshots[0].Price.Equal(decimal.NewFromFloat(1.5)) {
		t.Errorf("snapshots[0].Price = %s, want 1.5", snapshots[0].Price)
	}
	if snapshots[1].Type != "vegetable" {
		t.Errorf("snapshots[1].Type = %q, want %q", snapshots[1].Type, "vegetable")
	}
}

func TestHTTPSource_FetchFailures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantBad bool // expect an ErrBadData-tagged failure
	}{
		{
			name:   "server error",
			status: http.StatusInternalServerError,
			body:   `{}`,
		},
		{
			name:    "malformed body",
			status:  http.StatusOK,
			body:    `{"status": "success", "products": [`,
			wantBad: true,
		},
		{
			name:    "unsuccessful status field",
			status:  http.StatusOK,
			body:    `{"status": "error", "products": []}`,
			wantBad: true,
		},
		{
			name:   "snapshot missing required field",
			status: http.StatusOK,
			body: `{"status": "success", "products": [
				{"name": "", "price": 1.5, "quantity_available": 10,
				 "image": "https://example.com/a.jpg", "type": "fruit"}]}`,
			wantBad: true,
		},
		{
			name:   "negative quantity",
			status: http.StatusOK,
			body: `{"status": "success", "products": [
				{"name": "Apple", "price": 1.5, "quantity_available": -2,
				 "image": "https://example.com/a.jpg", "type": "fruit"}]}`,
			wantBad: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newCatalogServer(t, tt.status, tt.body)
			source := NewHTTPSource(srv.URL, 5*time.Second)

			snapshots, err := source.Fetch(context.Background())
			if err == nil {
				t.Fatal("Fetch() error = nil, want failure")
			}
			if snapshots != nil {
				t.Errorf("Fetch() returned snapshots alongside error: %v", snapshots)
			}
			if tt.wantBad && !errors.Is(err, ErrBadData) {
				t.Errorf("Fetch() error = %v, want ErrBadData", err)
			}
			if !tt.wantBad && errors.Is(err, ErrBadData) {
				t.Errorf("Fetch() error = %v, want untagged transport failure", err)
			}
		})
	}
}

func TestHTTPSource_FetchNetworkError(t *testing.T) {
	srv := newCatalogServer(t, http.StatusOK, `{}`)
	url := srv.URL
	srv.Close()

	source := NewHTTPSource(url, time.Second)
	if _, err := source.Fetch(context.Background()); err == nil {
		t.Fatal("Fetch() error = nil, want network failure")
	}
}

func TestStaticSource_Fetch(t *testing.T) {
	source := NewStaticSource()

	snapshots, err := source.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(snapshots) == 0 {
		t.Fatal("expected embedded dataset to contain products")
	}

	names := make(map[string]bool, len(snapshots))
	outOfStock := false
	for _, snapshot := range snapshots {
		if err := snapshot.Validate(); err != nil {
			t.Errorf("embedded snapshot invalid: %v", err)
		}
		if names[snapshot.Name] {
			t.Errorf("embedded dataset has duplicate name %q", snapshot.Name)
		}
		names[snapshot.Name] = true
		if snapshot.QuantityAvailable == 0 {
			outOfStock = true
		}
	}

	// The demo dataset deliberately includes at least one sold-out item.
	if !outOfStock {
		t.Error("expected at least one out-of-stock product in embedded dataset")
	}
}

func TestStaticSource_FetchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	source := NewStaticSource()
	if _, err := source.Fetch(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Fetch() error = %v, want context.Canceled", err)
	}
}
