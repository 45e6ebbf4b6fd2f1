package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig_DefaultPort(t *testing.T) {
	cfg := NewDefaultConfig()
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port default = %d, want %d", cfg.Server.Port, 8080)
	}
}

func TestConfig_PortEnvOverride(t *testing.T) {
	t.Setenv("MONTECARLO_PORT", "9090")

	cfg := NewDefaultConfig()
	applyEnvOverrides(cfg)

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d after env override, want %d", cfg.Server.Port, 9090)
	}
}

func TestConfig_DefaultUpstream(t *testing.T) {
	cfg := NewDefaultConfig()
	if cfg.Clients.Upstream != "http://127.0.0.1:8000" {
		t.Errorf("Clients.Upstream default = %q, want %q", cfg.Clients.Upstream, "http://127.0.0.1:8000")
	}
}

func TestConfig_UpstreamEnvOverride(t *testing.T) {
	t.Setenv("MONTECARLO_UPSTREAM_URL", "http://sim.internal:9000")

	cfg := NewDefaultConfig()
	applyEnvOverrides(cfg)

	if cfg.Clients.Upstream != "http://sim.internal:9000" {
		t.Errorf("Clients.Upstream = %q after env override, want %q", cfg.Clients.Upstream, "http://sim.internal:9000")
	}
}

func TestConfig_ClientBaseURLsInheritUpstream(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Clients.Upstream = "http://backend:8000/"

	resolveClientBaseURLs(cfg)

	if cfg.Clients.Parser.BaseURL != "http://backend:8000" {
		t.Errorf("Parser.BaseURL = %q, want trimmed upstream %q", cfg.Clients.Parser.BaseURL, "http://backend:8000")
	}
	if cfg.Clients.Simulator.BaseURL != "http://backend:8000" {
		t.Errorf("Simulator.BaseURL = %q, want trimmed upstream %q", cfg.Clients.Simulator.BaseURL, "http://backend:8000")
	}
}

func TestConfig_ExplicitClientBaseURLKept(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Clients.Upstream = "http://backend:8000"
	cfg.Clients.Parser.BaseURL = "http://parser.internal:7000"

	resolveClientBaseURLs(cfg)

	if cfg.Clients.Parser.BaseURL != "http://parser.internal:7000" {
		t.Errorf("Parser.BaseURL = %q, want explicit override kept", cfg.Clients.Parser.BaseURL)
	}
	if cfg.Clients.Simulator.BaseURL != "http://backend:8000" {
		t.Errorf("Simulator.BaseURL = %q, want inherited upstream", cfg.Clients.Simulator.BaseURL)
	}
}

func TestConfig_DataPathEnvOverride(t *testing.T) {
	t.Setenv("MONTECARLO_DATA_PATH", "/var/lib/montecarlo")

	cfg := NewDefaultConfig()
	applyEnvOverrides(cfg)

	want := filepath.Join("/var/lib/montecarlo", "session")
	if cfg.Storage.Session.Path != want {
		t.Errorf("Storage.Session.Path = %q, want %q", cfg.Storage.Session.Path, want)
	}
}

func TestConfig_LoadSkipsMissingFiles(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("LoadConfig with missing file returned error: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want default %d", cfg.Server.Port, 8080)
	}
}

func TestConfig_LoadMergesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "montecarlo.toml")
	content := `
environment = "production"

[server]
port = 9191

[clients]
upstream = "http://upstream.test:8000"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing temp config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}

	if cfg.Environment != "production" {
		t.Errorf("Environment = %q, want %q", cfg.Environment, "production")
	}
	if cfg.Server.Port != 9191 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 9191)
	}
	if cfg.Clients.Parser.BaseURL != "http://upstream.test:8000" {
		t.Errorf("Parser.BaseURL = %q, want inherited from file upstream", cfg.Clients.Parser.BaseURL)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want default preserved through merge", cfg.Server.Host)
	}
}

func TestParserConfig_GetTimeout_Configured(t *testing.T) {
	cfg := &ParserConfig{Timeout: "15s"}
	if d := cfg.GetTimeout(); d != 15*time.Second {
		t.Errorf("GetTimeout() = %v, want 15s", d)
	}
}

func TestParserConfig_GetTimeout_InvalidFallsBack(t *testing.T) {
	cfg := &ParserConfig{Timeout: "not-a-duration"}
	if d := cfg.GetTimeout(); d != 60*time.Second {
		t.Errorf("GetTimeout() = %v, want 60s (fallback for invalid)", d)
	}
}

func TestSimulatorConfig_GetTimeout_Default(t *testing.T) {
	cfg := &SimulatorConfig{}
	if d := cfg.GetTimeout(); d != 120*time.Second {
		t.Errorf("GetTimeout() = %v, want 120s", d)
	}
}

func TestConfig_IsProduction(t *testing.T) {
	cases := []struct {
		env  string
		want bool
	}{
		{"production", true},
		{"PROD", true},
		{" prod ", true},
		{"development", false},
		{"", false},
	}
	for _, tc := range cases {
		cfg := &Config{Environment: tc.env}
		if got := cfg.IsProduction(); got != tc.want {
			t.Errorf("IsProduction() with env %q = %v, want %v", tc.env, got, tc.want)
		}
	}
}
