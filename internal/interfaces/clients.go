// Package interfaces defines service contracts for the Monte Carlo advisor service
package interfaces

import (
	"context"

	"github.com/Team-Lightning-LLC/montecarlo/internal/models"
)

// ParserClient provides access to the document parsing service
type ParserClient interface {
	// ParseDocument uploads a binary document and returns the extracted
	// portfolio. The document travels under the service's fixed multipart
	// field name.
	ParseDocument(ctx context.Context, filename string, document []byte) (models.Portfolio, error)
}

// SimulatorClient provides access to the Monte Carlo simulation service
type SimulatorClient interface {
	// Simulate submits a portfolio with run parameters and returns the
	// structured simulation result.
	Simulate(ctx context.Context, req *models.SimulationRequest) (*models.SimulationResponse, error)
}
