package projection

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/Team-Lightning-LLC/montecarlo/internal/models"
)

var (
	bandFill   = drawing.Color{R: 99, G: 102, B: 241, A: 70} // indigo-500, translucent
	medianLine = drawing.ColorFromHex("4f46e5")              // indigo-600
	barColors  = []drawing.Color{
		drawing.ColorFromHex("9ca3af"), // gray-400: P5
		drawing.ColorFromHex("4f46e5"), // indigo-600: Median
		drawing.ColorFromHex("9ca3af"), // gray-400: P95
	}
)

// RenderBandChart renders the percentile fan chart as PNG. The band is
// built by layering: p90 filled down to the baseline, p10 filled in
// background white on top of it (leaving the [p10, p90] region shaded),
// then the median line. Returns raw PNG bytes.
func RenderBandChart(band *models.BandSeries) ([]byte, error) {
	if band.Empty() {
		return nil, fmt.Errorf("no percentile series to draw")
	}
	if len(band.P50) < 2 {
		return nil, fmt.Errorf("need at least 2 data points, got %d", len(band.P50))
	}

	upperSeries := chart.ContinuousSeries{
		Name: "P90",
		Style: chart.Style{
			StrokeColor: bandFill,
			StrokeWidth: 1,
			FillColor:   bandFill,
		},
		XValues: band.XYears,
		YValues: band.P90,
	}

	lowerSeries := chart.ContinuousSeries{
		Name: "P10",
		Style: chart.Style{
			StrokeColor: chart.ColorWhite,
			StrokeWidth: 1,
			FillColor:   chart.ColorWhite,
		},
		XValues: band.XYears,
		YValues: band.P10,
	}

	medianSeries := chart.ContinuousSeries{
		Name: "Median",
		Style: chart.Style{
			StrokeColor: medianLine,
			StrokeWidth: 2.5,
		},
		XValues: band.XYears,
		YValues: band.P50,
	}

	graph := chart.Chart{
		Title:  "Wealth Projection",
		Width:  900,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			Name: "Years",
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.1f", f)
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("$%.0fk", f/1000)
				}
				return ""
			},
		},
		Series: []chart.Series{
			upperSeries,
			lowerSeries,
			medianSeries,
		},
	}

	graph.Elements = []chart.Renderable{
		chart.LegendLeft(&graph),
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}

	return buf.Bytes(), nil
}

// RenderTerminalChart renders the terminal-wealth marker strip as PNG:
// one bar per scalar, no shared axis label.
func RenderTerminalChart(markers []models.TerminalMarker) ([]byte, error) {
	if len(markers) == 0 {
		return nil, fmt.Errorf("no terminal markers to draw")
	}

	bars := make([]chart.Value, len(markers))
	for i, m := range markers {
		color := barColors[i%len(barColors)]
		bars[i] = chart.Value{
			Label: m.Label,
			Value: m.Value,
			Style: chart.Style{
				FillColor:   color,
				StrokeColor: color,
			},
		}
	}

	graph := chart.BarChart{
		Title:    "Terminal Wealth",
		Width:    900,
		Height:   400,
		BarWidth: 80,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("$%.0fk", f/1000)
				}
				return ""
			},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}

	return buf.Bytes(), nil
}
