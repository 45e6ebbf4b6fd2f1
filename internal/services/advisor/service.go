// Package advisor implements the session controller: the current
// portfolio, orchestration of the parse and simulate services, and the
// rendered projection. All session mutation flows through this service.
package advisor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Team-Lightning-LLC/montecarlo/internal/common"
	"github.com/Team-Lightning-LLC/montecarlo/internal/interfaces"
	"github.com/Team-Lightning-LLC/montecarlo/internal/models"
	"github.com/Team-Lightning-LLC/montecarlo/internal/services/projection"
)

// Precondition and ordering errors. Handlers translate these into
// client-facing responses; they never carry upstream failure detail.
var (
	// ErrNoDocument is returned when parse is requested without a document.
	ErrNoDocument = errors.New("no document provided")

	// ErrNoPortfolio is returned when simulate is requested before any
	// portfolio has been loaded.
	ErrNoPortfolio = errors.New("no portfolio loaded")

	// ErrSuperseded is returned when a response arrives after a newer
	// request for the same operation has been issued. The response is
	// discarded without touching session state or the projection.
	ErrSuperseded = errors.New("superseded by a newer request")
)

// Display slot texts.
const (
	statusChooseDocument = "Choose a document first"
	statusParsing        = "Parsing document..."
	statusParseComplete  = "Parse complete"
	statusParseFailed    = "Parse failed"
	statusLoaded         = "Portfolio loaded"
	statusCleared        = "Portfolio cleared"
	statusSimulating     = "Simulating..."
	statusSimFailed      = "Simulation failed"
)

// statusSlots fixes the reporting order of the display slots.
var statusSlots = []models.StatusSlot{models.StatusSlotParse, models.StatusSlotSimulate}

// Service implements interfaces.AdvisorService.
type Service struct {
	store     interfaces.SessionStore
	parser    interfaces.ParserClient
	simulator interfaces.SimulatorClient
	logger    *common.Logger

	// mu guards the projection, the status slots, and the sequence
	// counters. Upstream calls happen outside the lock; responses
	// re-acquire it and apply only if still the latest issued.
	mu         sync.Mutex
	projection *models.ProjectionView
	statuses   map[models.StatusSlot]models.Status
	parseSeq   uint64
	simSeq     uint64

	now func() time.Time // injectable clock for testing
}

// NewService creates a new advisor service.
func NewService(store interfaces.SessionStore, parserClient interfaces.ParserClient, simulatorClient interfaces.SimulatorClient, logger *common.Logger) *Service {
	return &Service{
		store:     store,
		parser:    parserClient,
		simulator: simulatorClient,
		logger:    logger,
		statuses:  make(map[models.StatusSlot]models.Status),
		now:       time.Now,
	}
}

// Portfolio returns the current portfolio, or nil when none is loaded.
func (s *Service) Portfolio(ctx context.Context) (models.Portfolio, error) {
	session, err := s.store.GetSession(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if !session.HasPortfolio() {
		return nil, nil
	}
	return session.Portfolio, nil
}

// LoadPortfolio validates JSON text and makes it the current portfolio.
// Invalid JSON is rejected before any state is touched.
func (s *Service) LoadPortfolio(ctx context.Context, text []byte) (models.Portfolio, error) {
	portfolio, err := models.ParsePortfolio(text)
	if err != nil {
		return nil, err
	}

	session, err := s.store.GetSession(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	session.Portfolio = portfolio
	if err := s.store.SaveSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	s.setStatus(models.StatusSlotParse, models.StatusLevelNormal, statusLoaded)
	s.logger.Info().Int("bytes", len(portfolio)).Msg("Portfolio loaded from JSON")
	return portfolio, nil
}

// ClearPortfolio removes the current portfolio. The rendered projection
// is left as-is; only an explicit new simulation replaces it.
func (s *Service) ClearPortfolio(ctx context.Context) error {
	session, err := s.store.GetSession(ctx)
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	session.Portfolio = nil
	if err := s.store.SaveSession(ctx, session); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	s.setStatus(models.StatusSlotParse, models.StatusLevelNormal, statusCleared)
	s.logger.Info().Msg("Portfolio cleared")
	return nil
}

// Assumptions returns the stored capital-market-assumption override, or
// nil when none is set.
func (s *Service) Assumptions(ctx context.Context) (json.RawMessage, error) {
	session, err := s.store.GetSession(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if len(session.Assumptions) == 0 {
		return nil, nil
	}
	return session.Assumptions, nil
}

// SetAssumptions stores a capital-market-assumption override forwarded
// verbatim on subsequent simulate calls.
func (s *Service) SetAssumptions(ctx context.Context, text []byte) error {
	assumptions, err := models.ParsePortfolio(text)
	if err != nil {
		return fmt.Errorf("assumptions: %w", err)
	}

	session, err := s.store.GetSession(ctx)
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	session.Assumptions = assumptions
	if err := s.store.SaveSession(ctx, session); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// ClearAssumptions removes the stored override.
func (s *Service) ClearAssumptions(ctx context.Context) error {
	session, err := s.store.GetSession(ctx)
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	session.Assumptions = nil
	if err := s.store.SaveSession(ctx, session); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// ParseDocument uploads a document to the parsing service and, on
// success, replaces the current portfolio with the parsed result. A
// response superseded by a newer parse call is discarded; failures
// leave the prior portfolio current.
func (s *Service) ParseDocument(ctx context.Context, filename string, document []byte) (models.Portfolio, error) {
	if len(document) == 0 {
		s.setStatus(models.StatusSlotParse, models.StatusLevelError, statusChooseDocument)
		return nil, ErrNoDocument
	}

	token := s.beginParse()

	portfolio, parseErr := s.parser.ParseDocument(ctx, filename, document)

	s.mu.Lock()
	defer s.mu.Unlock()

	if token != s.parseSeq {
		s.logger.Debug().Uint64("token", token).Uint64("latest", s.parseSeq).Msg("Stale parse response discarded")
		return nil, ErrSuperseded
	}

	if parseErr != nil {
		s.setStatusLocked(models.StatusSlotParse, models.StatusLevelError, statusParseFailed)
		s.logger.Warn().Err(parseErr).Str("filename", filename).Msg("Document parse failed")
		return nil, fmt.Errorf("parse document: %w", parseErr)
	}

	session, err := s.store.GetSession(ctx)
	if err != nil {
		s.setStatusLocked(models.StatusSlotParse, models.StatusLevelError, statusParseFailed)
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	session.Portfolio = portfolio
	if err := s.store.SaveSession(ctx, session); err != nil {
		s.setStatusLocked(models.StatusSlotParse, models.StatusLevelError, statusParseFailed)
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	s.setStatusLocked(models.StatusSlotParse, models.StatusLevelNormal, statusParseComplete)
	s.logger.Info().Str("filename", filename).Int("bytes", len(portfolio)).Msg("Document parsed")
	return portfolio, nil
}

// Simulate runs a projection for the current portfolio. The raw n_paths
// and seed inputs are coerced with the default-substitution rule. A
// response superseded by a newer simulate call is discarded; on failure
// the previously rendered projection stays in place.
func (s *Service) Simulate(ctx context.Context, nPaths, seed json.RawMessage) (*models.ProjectionView, error) {
	session, err := s.store.GetSession(ctx)
	if err != nil {
		s.setStatus(models.StatusSlotSimulate, models.StatusLevelError, statusSimFailed)
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if !session.HasPortfolio() {
		return nil, ErrNoPortfolio
	}

	params := models.CoerceRunParams(nPaths, seed)
	token := s.beginSimulate()

	req := &models.SimulationRequest{
		Portfolio:   session.Portfolio,
		CMAOverride: session.Assumptions,
		NPaths:      params.NPaths,
		Seed:        params.Seed,
	}

	resp, simErr := s.simulator.Simulate(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()

	if token != s.simSeq {
		s.logger.Debug().Uint64("token", token).Uint64("latest", s.simSeq).Msg("Stale simulation response discarded")
		return nil, ErrSuperseded
	}

	if simErr != nil {
		s.setStatusLocked(models.StatusSlotSimulate, models.StatusLevelError, statusSimFailed)
		s.logger.Warn().Err(simErr).Int("n_paths", params.NPaths).Msg("Simulation failed")
		return nil, fmt.Errorf("simulate: %w", simErr)
	}

	view, err := projection.BuildView(resp, params, s.now())
	if err != nil {
		s.setStatusLocked(models.StatusSlotSimulate, models.StatusLevelError, statusSimFailed)
		return nil, fmt.Errorf("build projection: %w", err)
	}

	s.projection = view
	s.setStatusLocked(models.StatusSlotSimulate, models.StatusLevelNormal, view.Summary)
	s.logger.Info().
		Int("n_paths", params.NPaths).
		Int("seed", params.Seed).
		Int("goals", len(view.Indicators)).
		Bool("band", view.Band != nil).
		Msg("Simulation rendered")
	return view, nil
}

// Projection returns the most recently rendered projection, or nil.
func (s *Service) Projection(_ context.Context) *models.ProjectionView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.projection
}

// Statuses returns the current display slot statuses in slot order.
func (s *Service) Statuses(_ context.Context) []models.Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Status, 0, len(statusSlots))
	for _, slot := range statusSlots {
		if status, ok := s.statuses[slot]; ok {
			out = append(out, status)
		}
	}
	return out
}

// beginParse issues the next parse sequence token and flips the parse
// slot to its in-flight text.
func (s *Service) beginParse() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.parseSeq++
	s.setStatusLocked(models.StatusSlotParse, models.StatusLevelNormal, statusParsing)
	return s.parseSeq
}

// beginSimulate issues the next simulate sequence token and flips the
// simulate slot to its in-flight text.
func (s *Service) beginSimulate() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.simSeq++
	s.setStatusLocked(models.StatusSlotSimulate, models.StatusLevelNormal, statusSimulating)
	return s.simSeq
}

func (s *Service) setStatus(slot models.StatusSlot, level models.StatusLevel, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setStatusLocked(slot, level, text)
}

func (s *Service) setStatusLocked(slot models.StatusSlot, level models.StatusLevel, text string) {
	s.statuses[slot] = models.Status{
		Slot:      slot,
		Level:     level,
		Text:      text,
		UpdatedAt: s.now(),
	}
}

// Ensure Service implements AdvisorService
var _ interfaces.AdvisorService = (*Service)(nil)
