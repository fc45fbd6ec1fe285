package pqr

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	geom "github.com/peterstace/simplefeatures/geom"

	"pqr-portal/models"
)

// DecodeNodeFeatures parses the searchNodesInArea body. The backend serialises the
// collection and then JSON-encodes the resulting string again, so a quoted payload is
// unwrapped first. Features that are not points, or whose pk is missing or not an
// integer, are skipped.
func DecodeNodeFeatures(raw []byte) ([]models.Node, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '"' {
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			return nil, fmt.Errorf("failed to unwrap node features: %w", err)
		}
		raw = []byte(inner)
	}

	var fc geom.GeoJSONFeatureCollection
	if err := json.Unmarshal(raw, &fc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal node features: %w", err)
	}

	nodes := make([]models.Node, 0, len(fc))
	for _, f := range fc {
		if f.Geometry.Type() != geom.TypePoint {
			continue
		}
		seq := f.Geometry.DumpCoordinates()
		if seq.Length() == 0 {
			continue
		}
		pk, ok := propInt64(f.Properties, "pk")
		if !ok {
			continue
		}
		code, _ := propInt64(f.Properties, "painting_code")
		xy := seq.GetXY(0)
		nodes = append(nodes, models.Node{
			PK:           pk,
			PaintingCode: code,
			Comuna:       propString(f.Properties, "fk_comuna__name"),
			District:     propString(f.Properties, "name"),
			Lat:          xy.Y,
			Lng:          xy.X,
		})
	}
	return nodes, nil
}

// propInt64 accepts numbers and numeric strings; Django's GeoJSON serializer emits the
// primary key as a string.
func propInt64(props map[string]interface{}, key string) (int64, bool) {
	switch v := props[key].(type) {
	case float64:
		if v != math.Trunc(v) {
			return 0, false
		}
		return int64(v), true
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		return n, err == nil
	case json.Number:
		n, err := v.Int64()
		return n, err == nil
	}
	return 0, false
}

func propString(props map[string]interface{}, key string) string {
	switch v := props[key].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}
