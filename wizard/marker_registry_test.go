package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pqr-portal/config"
	"pqr-portal/models"
)

func TestMarkerRegistry_AddAndClear(t *testing.T) {
	r := NewMarkerRegistry()
	first := r.Add(models.Marker{NodeID: 1, Visible: true})
	second := r.Add(models.Marker{NodeID: 2, Visible: true})
	assert.NotEqual(t, first, second)
	assert.Equal(t, 2, r.Len())

	r.SetCenter(3.43, -76.54)
	r.Clear()

	snap := r.Snapshot()
	assert.Empty(t, snap.Markers)
	assert.Nil(t, snap.NodeCircle)
	assert.Nil(t, snap.CenterCircle)

	// ids are never reused
	third := r.Add(models.Marker{NodeID: 3})
	assert.Greater(t, third, second)
}

func TestMarkerRegistry_ReplaceIsNotAMerge(t *testing.T) {
	r := NewMarkerRegistry()
	r.Replace([]models.Marker{{NodeID: 1}, {NodeID: 2}})
	ids := r.Replace([]models.Marker{{NodeID: 3}})

	require.Len(t, ids, 1)
	snap := r.Snapshot()
	require.Len(t, snap.Markers, 1)
	assert.Equal(t, int64(3), snap.Markers[0].NodeID)
}

func TestMarkerRegistry_ApplyZoom(t *testing.T) {
	r := NewMarkerRegistry()
	r.Replace([]models.Marker{{NodeID: 1, Visible: true}, {NodeID: 2, Visible: true}})

	r.ApplyZoom(config.MARKER_ZOOM_THRESHOLD)
	for _, m := range r.Snapshot().Markers {
		assert.False(t, m.Visible, "markers hidden at the threshold")
	}

	r.ApplyZoom(config.MARKER_ZOOM_THRESHOLD + 1)
	snap := r.Snapshot()
	for _, m := range snap.Markers {
		assert.True(t, m.Visible, "markers shown above the threshold")
	}
	assert.Equal(t, config.MARKER_ZOOM_THRESHOLD+1, snap.View.Zoom)
}

func TestMarkerRegistry_SetVisibilitySubset(t *testing.T) {
	r := NewMarkerRegistry()
	ids := r.Replace([]models.Marker{{NodeID: 1, Visible: true}, {NodeID: 2, Visible: true}})

	r.SetVisibility([]int{ids[1], 999}, false)

	m1, _ := r.Marker(ids[0])
	m2, _ := r.Marker(ids[1])
	assert.True(t, m1.Visible)
	assert.False(t, m2.Visible)
}

func TestMarkerRegistry_OnlyOneInfoWindowOpen(t *testing.T) {
	r := NewMarkerRegistry()
	ids := r.Replace([]models.Marker{
		{NodeID: 1, Lat: 3.1, Lng: -76.1},
		{NodeID: 2, Lat: 3.2, Lng: -76.2},
	})

	_, err := r.OpenInfoWindow(ids[0])
	require.NoError(t, err)
	opened, err := r.OpenInfoWindow(ids[1])
	require.NoError(t, err)
	assert.Equal(t, int64(2), opened.NodeID)

	snap := r.Snapshot()
	assert.False(t, snap.Markers[0].InfoWindow.Open)
	assert.True(t, snap.Markers[1].InfoWindow.Open)
	assert.Equal(t, 3.2, snap.View.Lat)

	_, err = r.OpenInfoWindow(12345)
	assert.ErrorIs(t, err, ErrUnknownMarker)
}

func TestMarkerRegistry_SetCenterDrawsBothCircles(t *testing.T) {
	r := NewMarkerRegistry()
	r.SetCenter(3.43, -76.54)

	snap := r.Snapshot()
	require.NotNil(t, snap.NodeCircle)
	require.NotNil(t, snap.CenterCircle)
	assert.Equal(t, float64(config.NODE_CIRCLE_RADIUS_METERS), snap.NodeCircle.RadiusM)
	assert.Equal(t, config.CENTER_CIRCLE_RADIUS_METERS, snap.CenterCircle.RadiusM)
}

func TestMarkerRegistry_SnapshotIsACopy(t *testing.T) {
	r := NewMarkerRegistry()
	r.Add(models.Marker{NodeID: 1, Visible: true})

	snap := r.Snapshot()
	snap.Markers[0].Visible = false

	assert.True(t, r.Snapshot().Markers[0].Visible)
}
