package models

import (
	"encoding/json"
	"time"
)

// SessionState is the persisted session document: the current portfolio
// and any capital-market-assumption override, as last set by the user.
// One session exists per running instance.
type SessionState struct {
	ID          string          `json:"id"`
	Portfolio   json.RawMessage `json:"portfolio,omitempty"`
	Assumptions json.RawMessage `json:"assumptions,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	ModifiedAt  time.Time       `json:"modified_at"`
}

// HasPortfolio reports whether a portfolio is currently loaded.
func (s *SessionState) HasPortfolio() bool {
	return len(s.Portfolio) > 0
}
