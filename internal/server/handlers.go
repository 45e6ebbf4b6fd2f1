package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/Team-Lightning-LLC/montecarlo/internal/models"
	"github.com/Team-Lightning-LLC/montecarlo/internal/services/advisor"
	"github.com/Team-Lightning-LLC/montecarlo/internal/services/projection"
)

// writeServiceError maps advisor service errors onto HTTP status codes.
// Precondition failures keep their message; anything else from an
// upstream call surfaces as 502.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, advisor.ErrNoPortfolio), errors.Is(err, advisor.ErrNoDocument):
		WriteError(w, http.StatusPreconditionFailed, err.Error())
	case errors.Is(err, advisor.ErrSuperseded):
		WriteErrorWithCode(w, http.StatusConflict, err.Error(), "superseded")
	default:
		WriteError(w, http.StatusBadGateway, err.Error())
	}
}

// handleSession handles GET /api/session — session flags and statuses.
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	ctx := r.Context()
	svc := s.app.AdvisorService

	portfolio, err := svc.Portfolio(ctx)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	assumptions, err := svc.Assumptions(ctx)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"has_portfolio":   portfolio != nil,
		"has_assumptions": assumptions != nil,
		"has_projection":  svc.Projection(ctx) != nil,
		"statuses":        svc.Statuses(ctx),
	})
}

// handlePortfolio handles GET/PUT/DELETE /api/portfolio.
func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handlePortfolioGet(w, r)
	case http.MethodPut:
		s.handlePortfolioPut(w, r)
	case http.MethodDelete:
		s.handlePortfolioDelete(w, r)
	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}

func (s *Server) handlePortfolioGet(w http.ResponseWriter, r *http.Request) {
	portfolio, err := s.app.AdvisorService.Portfolio(r.Context())
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if portfolio == nil {
		WriteError(w, http.StatusNotFound, "No portfolio loaded")
		return
	}

	// Pretty-print so the UI textarea mirrors a readable document.
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(models.IndentPortfolio(portfolio)))
}

func (s *Server) handlePortfolioPut(w http.ResponseWriter, r *http.Request) {
	body, ok := ReadBody(w, r)
	if !ok {
		return
	}

	if _, err := s.app.AdvisorService.LoadPortfolio(r.Context(), body); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handlePortfolioDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.app.AdvisorService.ClearPortfolio(r.Context()); err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleAssumptions handles PUT/DELETE /api/assumptions.
func (s *Server) handleAssumptions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPut:
		body, ok := ReadBody(w, r)
		if !ok {
			return
		}
		if err := s.app.AdvisorService.SetAssumptions(r.Context(), body); err != nil {
			WriteError(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
			return
		}
		WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	case http.MethodDelete:
		if err := s.app.AdvisorService.ClearAssumptions(r.Context()); err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	default:
		RequireMethod(w, r, http.MethodPut, http.MethodDelete)
	}
}

// handleParse handles POST /api/parse — multipart document upload.
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	ctx := r.Context()
	svc := s.app.AdvisorService

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid multipart form: "+err.Error())
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		// No file selected runs the same precondition path as an empty
		// document so the parse status slot updates.
		_, svcErr := svc.ParseDocument(ctx, "", nil)
		writeServiceError(w, svcErr)
		return
	}
	defer file.Close()

	document, err := io.ReadAll(file)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Failed to read uploaded file: "+err.Error())
		return
	}

	portfolio, err := svc.ParseDocument(ctx, header.Filename, document)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"portfolio": portfolio,
	})
}

// handleSimulate handles POST /api/simulate. The body is optional;
// n_paths and seed are free-form JSON values coerced by the service.
func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		NPaths json.RawMessage `json:"n_paths"`
		Seed   json.RawMessage `json:"seed"`
	}
	if r.Body != nil {
		r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
		data, err := io.ReadAll(r.Body)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "Failed to read request body: "+err.Error())
			return
		}
		if len(bytes.TrimSpace(data)) > 0 {
			if err := json.Unmarshal(data, &req); err != nil {
				WriteError(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
				return
			}
		}
	}

	view, err := s.app.AdvisorService.Simulate(r.Context(), req.NPaths, req.Seed)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, view)
}

// handleProjection handles GET /api/projection — the latest rendered view.
func (s *Server) handleProjection(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	view := s.app.AdvisorService.Projection(r.Context())
	if view == nil {
		WriteError(w, http.StatusNotFound, "No projection rendered")
		return
	}
	WriteJSON(w, http.StatusOK, view)
}

// handleProjectionChart handles GET /api/projection/chart.png.
func (s *Server) handleProjectionChart(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	view := s.app.AdvisorService.Projection(r.Context())
	if view == nil || view.Band == nil || view.Band.Empty() {
		WriteError(w, http.StatusNotFound, "No percentile band rendered")
		return
	}

	png, err := projection.RenderBandChart(view.Band)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Chart render failed: "+err.Error())
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

// handleTerminalChart handles GET /api/projection/terminal.png.
func (s *Server) handleTerminalChart(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	view := s.app.AdvisorService.Projection(r.Context())
	if view == nil || len(view.Terminal) == 0 {
		WriteError(w, http.StatusNotFound, "No terminal markers rendered")
		return
	}

	png, err := projection.RenderTerminalChart(view.Terminal)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Chart render failed: "+err.Error())
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

// handleStatus handles GET /api/status — the display slot statuses.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"statuses": s.app.AdvisorService.Statuses(r.Context()),
	})
}
