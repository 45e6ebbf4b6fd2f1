// Package models defines data structures for the Monte Carlo advisor service
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Portfolio is the opaque portfolio document exchanged with the upstream
// services. The schema is owned by those services; this application
// stores, serializes, and forwards it verbatim.
type Portfolio = json.RawMessage

// ParsePortfolio validates raw JSON text as a portfolio document.
// Invalid JSON is rejected before it can reach the session store.
func ParsePortfolio(text []byte) (Portfolio, error) {
	trimmed := bytes.TrimSpace(text)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("portfolio JSON is empty")
	}
	if !json.Valid(trimmed) {
		return nil, fmt.Errorf("portfolio is not valid JSON")
	}
	out := make(Portfolio, len(trimmed))
	copy(out, trimmed)
	return out, nil
}

// IndentPortfolio renders a portfolio for the editable JSON view.
func IndentPortfolio(p Portfolio) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, p, "", "  "); err != nil {
		return string(p)
	}
	return buf.String()
}
