package catalog

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/go-faster/errors"

	"github.com/luminaspa/booking-cart/internal/domain/promotion"
)

// maxResponseSize bounds how much of the bundle payload is read. The real
// catalog is tens of bundles; anything near this limit is a broken backend.
const maxResponseSize = 8 << 20

var _ Source = (*HTTPSource)(nil)

// HTTPSource fetches the catalog from the clinic backend's
// GET /promotion/bundles endpoint.
type HTTPSource struct {
	client  *http.Client
	baseURL string
}

// NewHTTPSource creates an HTTPSource for the given backend base URL.
// A nil client falls back to http.DefaultClient.
func NewHTTPSource(baseURL string, client *http.Client) *HTTPSource {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPSource{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Fetch retrieves and decodes the bundle catalog.
func (s *HTTPSource) Fetch(ctx context.Context) ([]promotion.Bundle, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/promotion/bundles", nil)
	if err != nil {
		return nil, errors.Wrap(err, "create request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "fetch promotion bundles")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("fetch promotion bundles: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, errors.Wrap(err, "read promotion bundles")
	}

	return DecodeBundles(body)
}
