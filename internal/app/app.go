package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Team-Lightning-LLC/montecarlo/internal/clients/parser"
	"github.com/Team-Lightning-LLC/montecarlo/internal/clients/simulator"
	"github.com/Team-Lightning-LLC/montecarlo/internal/common"
	"github.com/Team-Lightning-LLC/montecarlo/internal/interfaces"
	"github.com/Team-Lightning-LLC/montecarlo/internal/services/advisor"
	"github.com/Team-Lightning-LLC/montecarlo/internal/storage"
)

// App holds the initialized configuration, storage, upstream clients,
// and the advisor service. It is the shared core used by
// cmd/montecarlo-server.
type App struct {
	Config          *common.Config
	Logger          *common.Logger
	Storage         interfaces.StorageManager
	ParserClient    interfaces.ParserClient
	SimulatorClient interfaces.SimulatorClient
	AdvisorService  interfaces.AdvisorService
	StartupTime     time.Time
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes configuration, storage, upstream clients, and the
// advisor service. configPath may be empty, in which case the default
// resolution logic is used.
func NewApp(configPath string) (*App, error) {
	startupStart := time.Now()

	// Load version from .version file (fallback if ldflags not set)
	common.LoadVersionFromFile()

	// Get binary directory for self-contained operation
	binDir := getBinaryDir()

	// Load configuration - check provided path, MONTECARLO_CONFIG, then binary dir, then fallback
	if configPath == "" {
		configPath = os.Getenv("MONTECARLO_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "montecarlo.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/montecarlo.toml" // fallback for development
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Resolve relative session store path to binary directory
	if config.Storage.Session.Path != "" && !filepath.IsAbs(config.Storage.Session.Path) {
		config.Storage.Session.Path = filepath.Join(binDir, config.Storage.Session.Path)
	}

	// Resolve relative log file path to binary directory
	if config.Logging.FilePath != "" && !filepath.IsAbs(config.Logging.FilePath) {
		config.Logging.FilePath = filepath.Join(binDir, config.Logging.FilePath)
	}

	// Initialize logger
	logger := common.NewLoggerFromConfig(config.Logging)

	// Initialize storage
	storageManager, err := storage.NewManager(logger, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	// Initialize upstream clients
	parserClient := parser.NewClient(
		parser.WithBaseURL(config.Clients.Parser.BaseURL),
		parser.WithLogger(logger),
		parser.WithRateLimit(config.Clients.Parser.RateLimit),
		parser.WithTimeout(config.Clients.Parser.GetTimeout()),
	)

	simulatorClient := simulator.NewClient(
		simulator.WithBaseURL(config.Clients.Simulator.BaseURL),
		simulator.WithLogger(logger),
		simulator.WithRateLimit(config.Clients.Simulator.RateLimit),
		simulator.WithTimeout(config.Clients.Simulator.GetTimeout()),
	)

	// Initialize the advisor service
	advisorService := advisor.NewService(storageManager.SessionStore(), parserClient, simulatorClient, logger)

	a := &App{
		Config:          config,
		Logger:          logger,
		Storage:         storageManager,
		ParserClient:    parserClient,
		SimulatorClient: simulatorClient,
		AdvisorService:  advisorService,
		StartupTime:     startupStart,
	}

	logger.Info().Dur("startup", time.Since(startupStart)).Msg("App initialized")

	return a, nil
}

// Close releases all resources held by the App.
func (a *App) Close() {
	if a.Storage != nil {
		a.Storage.Close()
		a.Storage = nil
	}
}
