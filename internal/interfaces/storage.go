// Package interfaces defines service contracts for the Monte Carlo advisor service
package interfaces

import (
	"context"

	"github.com/Team-Lightning-LLC/montecarlo/internal/models"
)

// StorageManager coordinates the storage backends
type StorageManager interface {
	// SessionStore returns the session state store.
	SessionStore() SessionStore

	// DataPath returns the base data directory path.
	DataPath() string

	// Lifecycle
	Close() error
}

// SessionStore persists the session document and system-level KV.
type SessionStore interface {
	// GetSession returns the persisted session, or a fresh empty session
	// when none has been saved yet.
	GetSession(ctx context.Context) (*models.SessionState, error)

	// SaveSession upserts the session document.
	SaveSession(ctx context.Context, session *models.SessionState) error

	// System key-value (instance-scoped settings)
	GetSystemKV(ctx context.Context, key string) (string, error)
	SetSystemKV(ctx context.Context, key, value string) error

	Close() error
}
