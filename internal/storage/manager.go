// Package storage provides the top-level StorageManager that coordinates
// the storage areas. The advisor keeps a single area: the session store.
package storage

import (
	"fmt"

	"github.com/Team-Lightning-LLC/montecarlo/internal/common"
	"github.com/Team-Lightning-LLC/montecarlo/internal/interfaces"
	"github.com/Team-Lightning-LLC/montecarlo/internal/storage/sessiondb"
)

// Manager implements interfaces.StorageManager.
type Manager struct {
	session  *sessiondb.Store
	dataPath string
	logger   *common.Logger
}

// NewManager creates a new StorageManager.
func NewManager(logger *common.Logger, config *common.Config) (*Manager, error) {
	sessionStore, err := sessiondb.NewStore(logger, config.Storage.Session.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to create session store: %w", err)
	}

	logger.Info().
		Str("session", config.Storage.Session.Path).
		Msg("Storage manager initialized")

	return &Manager{
		session:  sessionStore,
		dataPath: config.Storage.Session.Path,
		logger:   logger,
	}, nil
}

func (m *Manager) SessionStore() interfaces.SessionStore {
	return m.session
}

// DataPath returns the base data directory path.
func (m *Manager) DataPath() string {
	return m.dataPath
}

// Close shuts down all storage backends.
func (m *Manager) Close() error {
	if m.session == nil {
		return nil
	}
	if err := m.session.Close(); err != nil {
		return fmt.Errorf("failed to close session store: %w", err)
	}
	return nil
}

// Ensure Manager implements StorageManager
var _ interfaces.StorageManager = (*Manager)(nil)
