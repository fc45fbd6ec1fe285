package models

// BoundingBox is a lat/lng rectangle. Lat and Lng hold its center.
type BoundingBox struct {
	Lat     float64 `json:"lat"`
	LatMax  float64 `json:"lat_max"`
	LatMin  float64 `json:"lat_min"`
	Lng     float64 `json:"lng"`
	LngMax  float64 `json:"lng_max"`
	LngMin  float64 `json:"lng_min"`
	MapZoom int     `json:"map_zoom"`
}

// NewBoundingBox builds a box from its south-west and north-east corners.
func NewBoundingBox(swLat, swLng, neLat, neLng float64) BoundingBox {
	return BoundingBox{
		Lat:    (swLat + neLat) / 2,
		LatMin: swLat,
		LatMax: neLat,
		Lng:    (swLng + neLng) / 2,
		LngMin: swLng,
		LngMax: neLng,
	}
}

// Contains reports whether the point lies inside the box, edges included.
func (b BoundingBox) Contains(lat, lng float64) bool {
	return lat >= b.LatMin && lat <= b.LatMax && lng >= b.LngMin && lng <= b.LngMax
}
