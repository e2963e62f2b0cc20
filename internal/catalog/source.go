package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/grocerhq/storefront/internal/models"
)

// ErrBadData marks a fetch that reached the catalog endpoint but could
// not produce a usable snapshot set: an undecodable body, a payload
// whose status is not "success", or a snapshot failing validation.
// Transport-level failures are returned wrapped but untagged.
var ErrBadData = errors.New("bad catalog data")

// Source produces a catalog snapshot set. A failed fetch must leave the
// caller free to keep its existing catalog: Fetch never partially
// succeeds.
type Source interface {
	Fetch(ctx context.Context) ([]models.ProductSnapshot, error)
}

// payload is the wire envelope returned by the catalog endpoint.
type payload struct {
	Status   string                   `json:"status"`
	Products []models.ProductSnapshot `json:"products"`
}

const statusSuccess = "success"

// HTTPSource fetches catalog snapshots from a JSON endpoint.
type HTTPSource struct {
	url    string
	client *http.Client
}

// NewHTTPSource creates a source for the given endpoint URL.
func NewHTTPSource(url string, timeout time.Duration) *HTTPSource {
	return &HTTPSource{
		url: url,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Fetch downloads and validates a catalog snapshot set.
func (s *HTTPSource) Fetch(ctx context.Context) ([]models.ProductSnapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var body payload
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadData, err)
	}

	return validate(body)
}

// validate checks the envelope status and every snapshot in it.
func validate(body payload) ([]models.ProductSnapshot, error) {
	if body.Status != statusSuccess {
		return nil, fmt.Errorf("%w: status %q", ErrBadData, body.Status)
	}
	for _, snapshot := range body.Products {
		if err := snapshot.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadData, err)
		}
	}
	return body.Products, nil
}
