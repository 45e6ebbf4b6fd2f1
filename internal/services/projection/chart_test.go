package projection

import (
	"bytes"
	"testing"

	"github.com/Team-Lightning-LLC/montecarlo/internal/models"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func TestRenderBandChart_ProducesPNG(t *testing.T) {
	band := BandFromPercentiles(&models.PercentileSeries{
		P10: seq(25, 1000),
		P50: seq(25, 2000),
		P90: seq(25, 3000),
	})

	png, err := RenderBandChart(band)
	if err != nil {
		t.Fatalf("RenderBandChart returned error: %v", err)
	}
	if !bytes.HasPrefix(png, pngMagic) {
		t.Error("output does not start with PNG signature")
	}
}

func TestRenderBandChart_RejectsEmptyAndSinglePoint(t *testing.T) {
	if _, err := RenderBandChart(nil); err == nil {
		t.Error("expected error for nil band")
	}

	single := &models.BandSeries{
		XYears: []float64{0},
		P10:    []float64{1},
		P50:    []float64{2},
		P90:    []float64{3},
	}
	if _, err := RenderBandChart(single); err == nil {
		t.Error("expected error for single-point band")
	}
}

func TestRenderTerminalChart_ProducesPNG(t *testing.T) {
	markers := TerminalMarkers(models.SimulationSummary{
		MedianTerminal: 1500000,
		P5Terminal:     400000,
		P95Terminal:    4100000,
	})

	png, err := RenderTerminalChart(markers)
	if err != nil {
		t.Fatalf("RenderTerminalChart returned error: %v", err)
	}
	if !bytes.HasPrefix(png, pngMagic) {
		t.Error("output does not start with PNG signature")
	}
}

func TestRenderTerminalChart_RejectsEmpty(t *testing.T) {
	if _, err := RenderTerminalChart(nil); err == nil {
		t.Error("expected error for empty markers")
	}
}
