package util

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"pqr-portal/models"
)

// coverageMargin pads the plotted area around the coverage box, as a fraction of its span.
const coverageMargin = 0.1

// PlotMap renders the poles currently on the map, the geocoded point if any and the
// coverage rectangle as an HTML chart. Longitude runs on the x axis and latitude on the
// y axis, both clamped to the coverage area so the city fills the canvas.
func PlotMap(w io.Writer, markers []models.Marker, center *models.Circle, coverage models.BoundingBox) error {
	lngPad := (coverage.LngMax - coverage.LngMin) * coverageMargin
	latPad := (coverage.LatMax - coverage.LatMin) * coverageMargin

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Mapa de postes",
			Width:     "900px",
			Height:    "700px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Postes encontrados",
			Subtitle: fmt.Sprintf("%d postes", len(markers)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{
			Name:  "lng",
			Type:  "value",
			Min:   coverage.LngMin - lngPad,
			Max:   coverage.LngMax + lngPad,
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name:  "lat",
			Type:  "value",
			Min:   coverage.LatMin - latPad,
			Max:   coverage.LatMax + latPad,
		}),
	)

	var visible, hidden []opts.ScatterData
	for _, m := range markers {
		name := m.Label
		if name == "" {
			name = strconv.FormatInt(m.PaintingCode, 10)
		}
		point := opts.ScatterData{Name: name, Value: []float64{m.Lng, m.Lat}}
		if m.Visible {
			visible = append(visible, point)
		} else {
			hidden = append(hidden, point)
		}
	}

	scatter.AddSeries("Postes", visible,
		charts.WithLabelOpts(opts.Label{
			Show:      opts.Bool(true),
			Formatter: "{b}",
		}),
	)
	if len(hidden) > 0 {
		scatter.AddSeries("Postes ocultos", hidden)
	}

	if center != nil {
		address := charts.NewEffectScatter()
		address.AddSeries("Dirección", []opts.EffectScatterData{
			{Name: "Centro", Value: []float64{center.Lng, center.Lat}},
		})
		scatter.Overlap(address)
	}

	border := charts.NewLine()
	border.AddSeries("Cobertura", []opts.LineData{
		{Name: "SW", Value: []float64{coverage.LngMin, coverage.LatMin}},
		{Name: "NW", Value: []float64{coverage.LngMin, coverage.LatMax}},
		{Name: "NE", Value: []float64{coverage.LngMax, coverage.LatMax}},
		{Name: "SE", Value: []float64{coverage.LngMax, coverage.LatMin}},
		{Name: "SW", Value: []float64{coverage.LngMin, coverage.LatMin}},
	}, charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}))
	scatter.Overlap(border)

	return scatter.Render(w)
}
