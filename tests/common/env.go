// Package common provides shared test infrastructure
package common

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/Team-Lightning-LLC/montecarlo/internal/app"
	"github.com/Team-Lightning-LLC/montecarlo/internal/server"
)

// UpstreamStub fakes the document parser and Monte Carlo simulation
// endpoints the server talks to. Handlers are replaceable per test.
type UpstreamStub struct {
	mu            sync.Mutex
	parseHandler  http.HandlerFunc
	simHandler    http.HandlerFunc
	parseCalls    int
	simulateCalls int
	lastSimBody   []byte
}

// NewUpstreamStub returns a stub with well-formed default responses.
func NewUpstreamStub() *UpstreamStub {
	s := &UpstreamStub{}
	s.parseHandler = func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"portfolio": {"accounts": [{"name": "super", "balance": 100000}]}}`)
	}
	s.simHandler = func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"prob_by_goal": {"retirement": 0.823},
			"summary": {"median_terminal": 1234567, "p5_terminal": 500000, "p95_terminal": 3000000},
			"ptiles_over_time": {
				"p10": [100, 110, 120],
				"p50": [100, 130, 160],
				"p90": [100, 150, 210]
			}
		}`)
	}
	return s
}

func (s *UpstreamStub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/parse-docx":
		s.mu.Lock()
		s.parseCalls++
		h := s.parseHandler
		s.mu.Unlock()
		h(w, r)
	case "/simulate":
		body, _ := io.ReadAll(r.Body)
		s.mu.Lock()
		s.simulateCalls++
		s.lastSimBody = body
		h := s.simHandler
		s.mu.Unlock()
		r.Body = io.NopCloser(bytes.NewReader(body))
		h(w, r)
	default:
		http.NotFound(w, r)
	}
}

// SetParseHandler replaces the /parse-docx handler.
func (s *UpstreamStub) SetParseHandler(h http.HandlerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.parseHandler = h
}

// SetSimulateHandler replaces the /simulate handler.
func (s *UpstreamStub) SetSimulateHandler(h http.HandlerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.simHandler = h
}

// ParseCalls returns the number of /parse-docx requests received.
func (s *UpstreamStub) ParseCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.parseCalls
}

// SimulateCalls returns the number of /simulate requests received.
func (s *UpstreamStub) SimulateCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.simulateCalls
}

// LastSimulateBody returns the most recent /simulate request body.
func (s *UpstreamStub) LastSimulateBody() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSimBody
}

// LastSimulateFields decodes the most recent /simulate request body.
func (s *UpstreamStub) LastSimulateFields(t *testing.T) map[string]interface{} {
	t.Helper()
	body := s.LastSimulateBody()
	if body == nil {
		t.Fatal("no simulate request recorded")
	}
	var fields map[string]interface{}
	if err := json.Unmarshal(body, &fields); err != nil {
		t.Fatalf("simulate body not JSON: %v", err)
	}
	return fields
}

// Env is an in-process test environment: the full app wired against a
// stubbed upstream, served over httptest.
type Env struct {
	t           *testing.T
	App         *app.App
	HTTPServer  *httptest.Server
	Upstream    *UpstreamStub
	upstreamSrv *httptest.Server
	closeOnce   sync.Once
}

// NewEnv creates an isolated environment with a fresh session store and
// a stub upstream.
func NewEnv(t *testing.T) *Env {
	t.Helper()

	upstream := NewUpstreamStub()
	upstreamSrv := httptest.NewServer(upstream)

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "montecarlo.toml")
	cfg := fmt.Sprintf(`
environment = "test"

[server]
host = "127.0.0.1"
port = 0

[storage.session]
path = %q

[clients]
upstream = %q

[logging]
level = "error"
outputs = ["console"]
`, filepath.Join(dir, "session"), upstreamSrv.URL)
	if err := os.WriteFile(cfgPath, []byte(cfg), 0644); err != nil {
		upstreamSrv.Close()
		t.Fatalf("write config: %v", err)
	}

	a, err := app.NewApp(cfgPath)
	if err != nil {
		upstreamSrv.Close()
		t.Fatalf("app init: %v", err)
	}

	srv := server.NewServer(a)
	ts := httptest.NewServer(srv.Handler())

	return &Env{
		t:           t,
		App:         a,
		HTTPServer:  ts,
		Upstream:    upstream,
		upstreamSrv: upstreamSrv,
	}
}

// Cleanup releases the environment's servers and storage.
func (e *Env) Cleanup() {
	e.closeOnce.Do(func() {
		e.HTTPServer.Close()
		e.App.Close()
		e.upstreamSrv.Close()
	})
}

// URL returns the absolute URL for an API path.
func (e *Env) URL(path string) string {
	return e.HTTPServer.URL + path
}

// HTTPGet issues a GET request against the environment's server.
func (e *Env) HTTPGet(path string) (*http.Response, error) {
	return http.Get(e.URL(path))
}

// HTTPPost issues a POST request against the environment's server.
func (e *Env) HTTPPost(path, contentType string, body io.Reader) (*http.Response, error) {
	return http.Post(e.URL(path), contentType, body)
}

// HTTPPut issues a PUT request with the given body.
func (e *Env) HTTPPut(path, contentType string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodPut, e.URL(path), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	return http.DefaultClient.Do(req)
}

// HTTPDelete issues a DELETE request.
func (e *Env) HTTPDelete(path string) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodDelete, e.URL(path), nil)
	if err != nil {
		return nil, err
	}
	return http.DefaultClient.Do(req)
}
