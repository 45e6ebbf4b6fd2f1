package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Default run parameters, substituted when a numeric input is absent or
// cannot be coerced to a number.
const (
	DefaultNPaths = 10000
	DefaultSeed   = 42
)

// RunParams are the effective simulation run parameters after the
// default-substitution rule has been applied.
type RunParams struct {
	NPaths int `json:"n_paths"`
	Seed   int `json:"seed"`
}

// DefaultRunParams returns the standard run parameters.
func DefaultRunParams() RunParams {
	return RunParams{NPaths: DefaultNPaths, Seed: DefaultSeed}
}

// CoerceRunParams applies the default-substitution rule to raw user
// inputs. Each field falls back to its default independently when the
// input is absent, empty, or not coercible to a finite number. Inputs
// arrive either as JSON numbers or as free text from the numeric fields;
// fractional values are truncated.
func CoerceRunParams(nPaths, seed json.RawMessage) RunParams {
	return RunParams{
		NPaths: coerceInt(nPaths, DefaultNPaths),
		Seed:   coerceInt(seed, DefaultSeed),
	}
}

func coerceInt(raw json.RawMessage, def int) int {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return def
	}

	var n float64
	if err := json.Unmarshal(trimmed, &n); err == nil {
		return int(n)
	}

	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return def
		}
		return int(f)
	}

	return def
}

// SimulationRequest is the JSON body sent to the simulation service.
type SimulationRequest struct {
	Portfolio   json.RawMessage `json:"portfolio"`
	CMAOverride json.RawMessage `json:"cma_override,omitempty"`
	NPaths      int             `json:"n_paths"`
	Seed        int             `json:"seed"`
}

// GoalProbability pairs a goal name with its achievement probability in [0,1].
type GoalProbability struct {
	Goal        string  `json:"goal"`
	Probability float64 `json:"probability"`
}

// GoalProbabilities preserves the document order of the service's
// prob_by_goal object. Goal names are unique; order drives rendering.
type GoalProbabilities []GoalProbability

// UnmarshalJSON decodes a JSON object while retaining key order, which a
// plain map would lose.
func (g *GoalProbabilities) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*g = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("prob_by_goal: expected object, got %v", tok)
	}

	out := GoalProbabilities{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("prob_by_goal: expected string key, got %v", keyTok)
		}
		var p float64
		if err := dec.Decode(&p); err != nil {
			return fmt.Errorf("prob_by_goal[%s]: %w", key, err)
		}
		out = append(out, GoalProbability{Goal: key, Probability: p})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*g = out
	return nil
}

// MarshalJSON writes the pairs back as a JSON object in slice order.
func (g GoalProbabilities) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, gp := range g {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(gp.Goal)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(gp.Probability)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// SimulationSummary carries the terminal-wealth aggregates.
type SimulationSummary struct {
	MedianTerminal float64 `json:"median_terminal"`
	P5Terminal     float64 `json:"p5_terminal"`
	P95Terminal    float64 `json:"p95_terminal"`
}

// PercentileSeries holds percentile trajectories over simulated months.
// All three sequences have one entry per month and equal length; the
// service is trusted on p10[i] <= p50[i] <= p90[i].
type PercentileSeries struct {
	P10 []float64 `json:"p10"`
	P50 []float64 `json:"p50"`
	P90 []float64 `json:"p90"`
}

// SimulationResponse is the simulation service result. PtilesOverTime is
// nil when the service omits path percentiles.
type SimulationResponse struct {
	ProbByGoal     GoalProbabilities `json:"prob_by_goal"`
	Summary        SimulationSummary `json:"summary"`
	PtilesOverTime *PercentileSeries `json:"ptiles_over_time,omitempty"`
}
