package geocoding

import (
	"context"
	"strings"
	"sync"
)

// GeocoderMock answers from a fixed table keyed by the lower-cased query.
type GeocoderMock struct {
	mu      sync.Mutex
	results map[string]GeocodeResult
	Queries []string
}

func NewGeocoderMock(results map[string]GeocodeResult) *GeocoderMock {
	normalized := make(map[string]GeocodeResult, len(results))
	for k, v := range results {
		normalized[strings.ToLower(strings.TrimSpace(k))] = v
	}
	return &GeocoderMock{results: normalized}
}

func (g *GeocoderMock) Geocode(ctx context.Context, address string) (*GeocodeResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Queries = append(g.Queries, address)

	res, ok := g.results[strings.ToLower(strings.TrimSpace(address))]
	if !ok {
		return nil, ErrNoResults
	}
	return &res, nil
}
