// Package interfaces defines service contracts for the Monte Carlo advisor service
package interfaces

import (
	"context"
	"encoding/json"

	"github.com/Team-Lightning-LLC/montecarlo/internal/models"
)

// AdvisorService owns the session state machine: the current portfolio,
// parse and simulate orchestration, and the rendered projection. Every
// mutation flows through this service; there is no other writer.
type AdvisorService interface {
	// Portfolio returns the current portfolio, or nil when none is loaded.
	Portfolio(ctx context.Context) (models.Portfolio, error)

	// LoadPortfolio validates JSON text and makes it the current
	// portfolio. Invalid JSON is rejected and the prior portfolio kept.
	LoadPortfolio(ctx context.Context, text []byte) (models.Portfolio, error)

	// ClearPortfolio removes the current portfolio.
	ClearPortfolio(ctx context.Context) error

	// Assumptions returns the stored capital-market-assumption override,
	// or nil when none is set.
	Assumptions(ctx context.Context) (json.RawMessage, error)

	// SetAssumptions stores a capital-market-assumption override that is
	// forwarded verbatim on subsequent simulate calls.
	SetAssumptions(ctx context.Context, text []byte) error

	// ClearAssumptions removes the stored override.
	ClearAssumptions(ctx context.Context) error

	// ParseDocument uploads a document to the parsing service and, on
	// success, replaces the current portfolio with the parsed result.
	// On failure the prior portfolio remains current.
	ParseDocument(ctx context.Context, filename string, document []byte) (models.Portfolio, error)

	// Simulate runs a projection for the current portfolio. Raw run
	// parameter inputs are coerced with the default-substitution rule.
	// A response that has been superseded by a newer simulate call is
	// discarded without touching the rendered projection.
	Simulate(ctx context.Context, nPaths, seed json.RawMessage) (*models.ProjectionView, error)

	// Projection returns the most recently rendered projection, or nil
	// when nothing has been rendered yet.
	Projection(ctx context.Context) *models.ProjectionView

	// Statuses returns the current display slot statuses.
	Statuses(ctx context.Context) []models.Status
}
