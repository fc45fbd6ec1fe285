package wizard

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"pqr-portal/api/geocoding"
	"pqr-portal/api/pqr"
	"pqr-portal/config"
	"pqr-portal/models"
)

// SearchMode picks how poles are located.
type SearchMode int

const (
	ByPaintingCode SearchMode = 1
	ByAddress      SearchMode = 2
)

func (m SearchMode) String() string {
	if m == ByAddress {
		return "address"
	}
	return "painting_code"
}

func (m SearchMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

var paintingCodePattern = regexp.MustCompile(`^[0-9]{7}$`)

// SearchOutcome describes a search whose result was applied to the map.
type SearchOutcome struct {
	Token            uint64     `json:"token"`
	Mode             SearchMode `json:"mode"`
	Markers          []int      `json:"markers"`
	FormattedAddress string     `json:"formatted_address,omitempty"`
}

// SearchDispatcher validates a query, sends it to the right backend and repaints the
// registry. Every dispatched request gets a token; only the response of the latest one
// is applied, older responses end with ErrStaleResult.
type SearchDispatcher struct {
	mu     sync.Mutex
	latest uint64

	api      pqr.PqrAPI
	geocoder geocoding.Geocoder
	registry *MarkerRegistry
	bounds   models.BoundingBox
	log      zerolog.Logger
}

func NewSearchDispatcher(api pqr.PqrAPI, geocoder geocoding.Geocoder, registry *MarkerRegistry, bounds models.BoundingBox, log zerolog.Logger) *SearchDispatcher {
	return &SearchDispatcher{
		api:      api,
		geocoder: geocoder,
		registry: registry,
		bounds:   bounds,
		log:      log,
	}
}

// ValidatePaintingCode accepts exactly seven digits, or "0".
func ValidatePaintingCode(code string) error {
	if code == "" {
		return invalid(SeverityWarning, "Campo vacío", ErrEmptyQuery)
	}
	if code != "0" && !paintingCodePattern.MatchString(code) {
		return invalid(SeverityError, "¡Error!", ErrInvalidPaintingCode)
	}
	return nil
}

// Invalidate makes every in-flight search stale.
func (d *SearchDispatcher) Invalidate() {
	d.mu.Lock()
	d.latest++
	d.mu.Unlock()
}

func (d *SearchDispatcher) issue() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.latest++
	return d.latest
}

// apply runs fn only if token is still the latest, atomically with the check.
func (d *SearchDispatcher) apply(token uint64, fn func()) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if token != d.latest {
		return ErrStaleResult
	}
	fn()
	return nil
}

// ByPaintingCode looks up poles by their painted identifier.
func (d *SearchDispatcher) ByPaintingCode(ctx context.Context, code string) (*SearchOutcome, error) {
	code = strings.TrimSpace(code)
	if err := ValidatePaintingCode(code); err != nil {
		return nil, err
	}

	token := d.issue()
	res, err := d.api.SearchNodesByPaintingCode(ctx, code)
	if err != nil {
		return nil, &TransportError{Op: "searchNodesByPaintingCode", Err: err}
	}
	if !res.IsOk() {
		d.log.Debug().Str("code", code).Str("msg", res.Message()).Msg("No nodes for painting code")
		return nil, &BackendError{
			Op:       "searchNodesByPaintingCode",
			Severity: SeverityQuestion,
			Title:    "Sin resultados",
			Message:  fmt.Sprintf("No se encontraron nodos con el código de pintado %s", code),
		}
	}

	markers := nodeMarkers(res.Value(), config.NODE_MARKER_ICON, false)
	outcome := &SearchOutcome{Token: token, Mode: ByPaintingCode}
	err = d.apply(token, func() {
		outcome.Markers = d.registry.Replace(markers)
	})
	if err != nil {
		return nil, err
	}
	return outcome, nil
}

// ByAddress geocodes a free-text address, rejects points outside the coverage area and
// then asks the backend for the poles around it.
func (d *SearchDispatcher) ByAddress(ctx context.Context, address string) (*SearchOutcome, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, invalid(SeverityWarning, "Campo vacío", ErrEmptyAddress)
	}

	token := d.issue()
	loc, err := d.geocoder.Geocode(ctx, address+config.ADDRESS_LOCALITY_SUFFIX)
	if errors.Is(err, geocoding.ErrNoResults) {
		return nil, &BackendError{
			Op:       "geocode",
			Severity: SeverityWarning,
			Title:    "¡Advertencia!",
			Message:  "Geocode tuvo problemas al buscar la dirección",
		}
	}
	if err != nil {
		return nil, &TransportError{Op: "geocode", Err: err}
	}

	if !d.bounds.Contains(loc.Lat, loc.Lng) {
		d.log.Debug().Float64("lat", loc.Lat).Float64("lng", loc.Lng).Msg("Geocoded address out of coverage")
		return nil, invalid(SeverityError, "¡Error!", ErrOutOfCoverage)
	}

	nodes, err := d.api.SearchNodesInArea(ctx, loc.Lat, loc.Lng)
	if err != nil {
		return nil, &TransportError{Op: "searchNodesInArea", Err: err}
	}

	markers := nodeMarkers(nodes, config.NODE_AREA_MARKER_ICON, true)
	outcome := &SearchOutcome{Token: token, Mode: ByAddress, FormattedAddress: loc.FormattedAddress}
	err = d.apply(token, func() {
		outcome.Markers = d.registry.Replace(markers)
		d.registry.SetCenter(loc.Lat, loc.Lng)
		d.registry.SetView(models.MapView{Lat: loc.Lat, Lng: loc.Lng, Zoom: config.MAP_SEARCH_ZOOM})
	})
	if err != nil {
		return nil, err
	}
	return outcome, nil
}

func nodeMarkers(nodes []models.Node, icon string, labeled bool) []models.Marker {
	markers := make([]models.Marker, 0, len(nodes))
	for _, n := range nodes {
		m := models.Marker{
			NodeID:       n.PK,
			PaintingCode: n.PaintingCode,
			Icon:         icon,
			Lat:          n.Lat,
			Lng:          n.Lng,
			Visible:      true,
			InfoWindow: models.InfoWindow{
				PaintingCode: n.PaintingCode,
				Zone:         n.Comuna,
				District:     n.District,
			},
		}
		if labeled {
			m.Label = strconv.FormatInt(n.PaintingCode, 10)
		}
		markers = append(markers, m)
	}
	return markers
}
