package server

import (
	"net/http"
	"time"

	"github.com/Team-Lightning-LLC/montecarlo/internal/common"
	"github.com/Team-Lightning-LLC/montecarlo/internal/models"
)

// registerRoutes sets up all routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// Web UI
	mux.HandleFunc("/", s.handleIndex)

	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)
	mux.HandleFunc("/api/config", s.handleConfig)
	mux.HandleFunc("/api/shutdown", s.handleShutdown)

	// Session state
	mux.HandleFunc("/api/session", s.handleSession)
	mux.HandleFunc("/api/portfolio", s.handlePortfolio)
	mux.HandleFunc("/api/assumptions", s.handleAssumptions)

	// Upstream operations
	mux.HandleFunc("/api/parse", s.handleParse)
	mux.HandleFunc("/api/simulate", s.handleSimulate)

	// Rendered projection
	mux.HandleFunc("/api/projection", s.handleProjection)
	mux.HandleFunc("/api/projection/chart.png", s.handleProjectionChart)
	mux.HandleFunc("/api/projection/terminal.png", s.handleTerminalChart)
	mux.HandleFunc("/api/status", s.handleStatus)
}

// handleIndex serves the embedded web UI.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(webUIHTML))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"commit":  common.GetGitCommit(),
	})
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	cfg := s.app.Config
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"environment":     cfg.Environment,
		"upstream":        cfg.Clients.Upstream,
		"parser_url":      cfg.Clients.Parser.BaseURL,
		"simulator_url":   cfg.Clients.Simulator.BaseURL,
		"session_path":    cfg.Storage.Session.Path,
		"logging_level":   cfg.Logging.Level,
		"default_n_paths": models.DefaultNPaths,
		"default_seed":    models.DefaultSeed,
	})
}

// handleShutdown handles POST /api/shutdown (dev mode only).
func (s *Server) handleShutdown(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	if s.app.Config.IsProduction() {
		WriteError(w, http.StatusForbidden, "Shutdown endpoint disabled in production")
		return
	}

	s.logger.Info().Msg("Shutdown requested via HTTP endpoint")

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Shutting down gracefully...\n"))

	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}

	if s.shutdownChan != nil {
		go func() {
			time.Sleep(100 * time.Millisecond)
			s.shutdownChan <- struct{}{}
		}()
	}
}
