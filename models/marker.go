package models

// Marker is a pole pin rendered on the map.
type Marker struct {
	ID           int        `json:"id"`
	NodeID       int64      `json:"node_id"`
	PaintingCode int64      `json:"painting_code"`
	Label        string     `json:"label,omitempty"`
	Icon         string     `json:"icon"`
	Lat          float64    `json:"lat"`
	Lng          float64    `json:"lng"`
	Visible      bool       `json:"visible"`
	InfoWindow   InfoWindow `json:"info_window"`
}

// InfoWindow is the popup attached to a marker.
type InfoWindow struct {
	PaintingCode int64  `json:"painting_code"`
	Zone         string `json:"zone"`
	District     string `json:"district"`
	Open         bool   `json:"open"`
}

// Circle is the reference ring drawn around a geocoded point.
type Circle struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	RadiusM float64 `json:"radius_m"`
}

// MapView is the camera position after a search.
type MapView struct {
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
	Zoom int     `json:"zoom"`
}
