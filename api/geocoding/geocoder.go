package geocoding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

// ErrNoResults is returned when the provider finds nothing for the address.
var ErrNoResults = errors.New("geocoder returned no results")

// GeocodeResult is the best match for an address.
type GeocodeResult struct {
	Lat              float64 `json:"lat"`
	Lng              float64 `json:"lng"`
	FormattedAddress string  `json:"formatted_address"`
}

// Geocoder abstraction for forward address lookup
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*GeocodeResult, error)
}

// NominatimGeocoder implements Geocoder using OSM Nominatim search.
// Nominatim asks for a User-Agent and at most one request per second.
type NominatimGeocoder struct {
	BaseURL     string
	UserAgent   string
	CountryCode string
	Client      *http.Client
	MinInterval time.Duration

	mu       sync.Mutex
	lastCall time.Time
}

// NewNominatimGeocoder builds a geocoder restricted to countryCode.
func NewNominatimGeocoder(baseURL, userAgent, countryCode string, timeout time.Duration) *NominatimGeocoder {
	return &NominatimGeocoder{
		BaseURL:     strings.TrimRight(baseURL, "/"),
		UserAgent:   userAgent,
		CountryCode: countryCode,
		Client:      &http.Client{Timeout: timeout},
		MinInterval: time.Second,
	}
}

func (g *NominatimGeocoder) Geocode(ctx context.Context, address string) (*GeocodeResult, error) {
	if err := g.throttle(ctx); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("q", address)
	q.Set("format", "jsonv2")
	q.Set("limit", "1")
	if g.CountryCode != "" {
		q.Set("countrycodes", g.CountryCode)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.BaseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", g.UserAgent)

	resp, err := g.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("nominatim error: %d", resp.StatusCode)
	}

	var data []struct {
		Lat         string `json:"lat"`
		Lon         string `json:"lon"`
		DisplayName string `json:"display_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, ErrNoResults
	}

	lat, err := strconv.ParseFloat(data[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("nominatim returned invalid latitude %q: %w", data[0].Lat, err)
	}
	lng, err := strconv.ParseFloat(data[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("nominatim returned invalid longitude %q: %w", data[0].Lon, err)
	}
	return &GeocodeResult{Lat: lat, Lng: lng, FormattedAddress: data[0].DisplayName}, nil
}

func (g *NominatimGeocoder) throttle(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if wait := g.MinInterval - time.Since(g.lastCall); wait > 0 && !g.lastCall.IsZero() {
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
	g.lastCall = time.Now()
	return nil
}
