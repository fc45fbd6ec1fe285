package wizard

import (
	"sync"

	"pqr-portal/config"
	"pqr-portal/models"
)

// MapSnapshot is a copy of everything the map currently shows.
type MapSnapshot struct {
	Markers      []models.Marker `json:"markers"`
	NodeCircle   *models.Circle  `json:"node_circle,omitempty"`
	CenterCircle *models.Circle  `json:"center_circle,omitempty"`
	View         models.MapView  `json:"view"`
}

// MarkerRegistry tracks the markers placed on the map by the last search, plus the
// reference circles of an address search.
type MarkerRegistry struct {
	mu           sync.Mutex
	markers      []models.Marker
	nextID       int
	nodeCircle   *models.Circle
	centerCircle *models.Circle
	view         models.MapView
}

func NewMarkerRegistry() *MarkerRegistry {
	return &MarkerRegistry{
		nextID: 1,
		view: models.MapView{
			Lat:  config.MAP_CENTER_LAT,
			Lng:  config.MAP_CENTER_LNG,
			Zoom: config.MAP_INITIAL_ZOOM,
		},
	}
}

// Clear detaches every marker and circle and empties the registry. The view is kept.
func (r *MarkerRegistry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clear()
}

func (r *MarkerRegistry) clear() {
	r.markers = nil
	r.nodeCircle = nil
	r.centerCircle = nil
}

// Add tracks a marker and returns the id assigned to it.
func (r *MarkerRegistry) Add(m models.Marker) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.add(m)
}

func (r *MarkerRegistry) add(m models.Marker) int {
	m.ID = r.nextID
	r.nextID++
	r.markers = append(r.markers, m)
	return m.ID
}

// Replace swaps the whole marker set in one step. Circles are dropped.
func (r *MarkerRegistry) Replace(markers []models.Marker) []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clear()
	ids := make([]int, 0, len(markers))
	for _, m := range markers {
		ids = append(ids, r.add(m))
	}
	return ids
}

// SetVisibility attaches (visible) or detaches the given markers. A nil list means all
// tracked markers; unknown ids are ignored.
func (r *MarkerRegistry) SetVisibility(ids []int, visible bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.setVisibility(ids, visible)
}

func (r *MarkerRegistry) setVisibility(ids []int, visible bool) {
	if ids == nil {
		for i := range r.markers {
			r.markers[i].Visible = visible
		}
		return
	}
	for _, id := range ids {
		if i := r.indexOf(id); i >= 0 {
			r.markers[i].Visible = visible
		}
	}
}

// ApplyZoom records the zoom level and hides every tracked marker at or below the
// threshold, showing them again above it.
func (r *MarkerRegistry) ApplyZoom(zoom int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.view.Zoom = zoom
	r.setVisibility(nil, zoom > config.MARKER_ZOOM_THRESHOLD)
}

// OpenInfoWindow opens the popup of one marker, closing the previous one, and pans the
// view to it.
func (r *MarkerRegistry) OpenInfoWindow(id int) (models.Marker, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(id)
	if i < 0 {
		return models.Marker{}, ErrUnknownMarker
	}
	for j := range r.markers {
		r.markers[j].InfoWindow.Open = false
	}
	r.markers[i].InfoWindow.Open = true
	r.view.Lat = r.markers[i].Lat
	r.view.Lng = r.markers[i].Lng
	return r.markers[i], nil
}

// SetCenter draws the two reference circles around a geocoded point.
func (r *MarkerRegistry) SetCenter(lat, lng float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nodeCircle = &models.Circle{Lat: lat, Lng: lng, RadiusM: config.NODE_CIRCLE_RADIUS_METERS}
	r.centerCircle = &models.Circle{Lat: lat, Lng: lng, RadiusM: config.CENTER_CIRCLE_RADIUS_METERS}
}

// SetView moves the camera.
func (r *MarkerRegistry) SetView(view models.MapView) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.view = view
}

// Marker returns a tracked marker by id.
func (r *MarkerRegistry) Marker(id int) (models.Marker, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i := r.indexOf(id); i >= 0 {
		return r.markers[i], true
	}
	return models.Marker{}, false
}

func (r *MarkerRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.markers)
}

func (r *MarkerRegistry) Snapshot() MapSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	snap := MapSnapshot{
		Markers: make([]models.Marker, len(r.markers)),
		View:    r.view,
	}
	copy(snap.Markers, r.markers)
	if r.nodeCircle != nil {
		c := *r.nodeCircle
		snap.NodeCircle = &c
	}
	if r.centerCircle != nil {
		c := *r.centerCircle
		snap.CenterCircle = &c
	}
	return snap
}

func (r *MarkerRegistry) indexOf(id int) int {
	for i := range r.markers {
		if r.markers[i].ID == id {
			return i
		}
	}
	return -1
}
