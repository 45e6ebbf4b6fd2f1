package models

import "time"

// GoalIndicator is one rendered probability indicator.
type GoalIndicator struct {
	Goal        string  `json:"goal"`
	Probability float64 `json:"probability"`
	Label       string  `json:"label"` // e.g. "retirement: 82.3%"
}

// BandSeries is the percentile fan chart data. Series draw order is
// fixed for correct layering: p90 boundary, p10 filled to the boundary,
// then the p50 median line on top. X values are elapsed years derived
// from the p50 index.
type BandSeries struct {
	XYears  []float64 `json:"x_years"`
	XLabels []string  `json:"x_labels"`
	P90     []float64 `json:"p90"`
	P10     []float64 `json:"p10"`
	P50     []float64 `json:"p50"`
}

// Empty reports whether the band has no points to draw.
func (b *BandSeries) Empty() bool {
	return b == nil || len(b.P50) == 0
}

// TerminalMarker is a single-point bar marking one terminal-wealth
// scalar. Only three scalars are available, not a sample distribution.
type TerminalMarker struct {
	Label    string  `json:"label"` // "P5", "Median", "P95"
	Value    float64 `json:"value"`
	Position int     `json:"position"`
}

// ProjectionView is the chart-ready projection of one simulation
// response. It is rebuilt wholesale on every successful simulation and
// never merged with a prior view.
type ProjectionView struct {
	Summary     string           `json:"summary"`
	Indicators  []GoalIndicator  `json:"indicators"`
	Band        *BandSeries      `json:"band,omitempty"`
	Terminal    []TerminalMarker `json:"terminal"`
	RunParams   RunParams        `json:"run_params"`
	GeneratedAt time.Time        `json:"generated_at"`
}
