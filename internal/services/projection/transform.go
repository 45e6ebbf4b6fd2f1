// Package projection transforms simulation responses into chart-ready
// views and renders those views to PNG. The transformation is pure; the
// chart surface never feeds back into it.
package projection

import (
	"fmt"
	"strings"
	"time"

	"github.com/Team-Lightning-LLC/montecarlo/internal/common"
	"github.com/Team-Lightning-LLC/montecarlo/internal/models"
)

// BuildView derives the full projection view from one simulation
// response: summary text, goal indicators, percentile band, and
// terminal-wealth markers. The response is consumed once and not
// retained.
func BuildView(resp *models.SimulationResponse, params models.RunParams, now time.Time) (*models.ProjectionView, error) {
	if resp == nil {
		return nil, fmt.Errorf("simulation response is nil")
	}

	return &models.ProjectionView{
		Summary:     SummaryText(resp),
		Indicators:  GoalIndicators(resp.ProbByGoal),
		Band:        BandFromPercentiles(resp.PtilesOverTime),
		Terminal:    TerminalMarkers(resp.Summary),
		RunParams:   params,
		GeneratedAt: now,
	}, nil
}

// SummaryText renders the textual summary: one "<goal>: <pct>" line per
// goal in response order, a blank separator, then the terminal-wealth
// lines.
func SummaryText(resp *models.SimulationResponse) string {
	var sb strings.Builder
	for _, gp := range resp.ProbByGoal {
		sb.WriteString(fmt.Sprintf("%s: %s\n", gp.Goal, common.FormatPercent(gp.Probability)))
	}
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Median terminal: %s\n", common.FormatMoney(resp.Summary.MedianTerminal)))
	sb.WriteString(fmt.Sprintf("5th–95th: %s – %s",
		common.FormatMoney(resp.Summary.P5Terminal),
		common.FormatMoney(resp.Summary.P95Terminal)))
	return sb.String()
}

// GoalIndicators builds one indicator per goal, in response order.
func GoalIndicators(probs models.GoalProbabilities) []models.GoalIndicator {
	out := make([]models.GoalIndicator, len(probs))
	for i, gp := range probs {
		out[i] = models.GoalIndicator{
			Goal:        gp.Goal,
			Probability: gp.Probability,
			Label:       fmt.Sprintf("%s: %s", gp.Goal, common.FormatPercent(gp.Probability)),
		}
	}
	return out
}

// BandFromPercentiles derives the fan chart band. The x axis is elapsed
// years, index/12, sized by the p50 series; p10 and p90 are trusted to
// match its length. Returns nil when the service sent no percentiles.
func BandFromPercentiles(pt *models.PercentileSeries) *models.BandSeries {
	if pt == nil || len(pt.P50) == 0 {
		return nil
	}

	n := len(pt.P50)
	years := make([]float64, n)
	labels := make([]string, n)
	for i := 0; i < n; i++ {
		years[i] = float64(i) / 12.0
		labels[i] = common.FormatYears(i)
	}

	return &models.BandSeries{
		XYears:  years,
		XLabels: labels,
		P90:     pt.P90,
		P10:     pt.P10,
		P50:     pt.P50,
	}
}

// TerminalMarkers builds the three single-point terminal-wealth bars.
// Only three scalars are available, so this is a marker strip rather
// than a histogram of simulated outcomes.
func TerminalMarkers(s models.SimulationSummary) []models.TerminalMarker {
	return []models.TerminalMarker{
		{Label: "P5", Value: s.P5Terminal, Position: 0},
		{Label: "Median", Value: s.MedianTerminal, Position: 1},
		{Label: "P95", Value: s.P95Terminal, Position: 2},
	}
}
