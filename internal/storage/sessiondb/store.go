// Package sessiondb implements SessionStore using BadgerHold.
// It persists the single session document (current portfolio plus
// assumption overrides) and instance-level key-value settings.
package sessiondb

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/timshannon/badgerhold/v4"

	"github.com/Team-Lightning-LLC/montecarlo/internal/common"
	"github.com/Team-Lightning-LLC/montecarlo/internal/models"
)

// Store implements interfaces.SessionStore using BadgerHold.
type Store struct {
	db     *badgerhold.Store
	logger *common.Logger
}

// sessionID is the fixed key of the single session document. The
// application is single-session: a new document replaces the old one.
const sessionID = "current"

// systemKV is the record type for instance-level settings. BadgerHold
// namespaces records by type, so these never collide with the session
// document.
type systemKV struct {
	Key      string
	Value    string
	Version  int
	DateTime time.Time
}

// NewStore creates a new SessionStore backed by BadgerHold.
func NewStore(logger *common.Logger, path string) (*Store, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create session db path %s: %w", path, err)
	}
	opts := badgerhold.DefaultOptions
	opts.Dir = path
	opts.ValueDir = path
	opts.Logger = nil
	db, err := badgerhold.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open session db at %s: %w", path, err)
	}
	logger.Info().Str("path", path).Msg("SessionDB opened")
	return &Store{db: db, logger: logger}, nil
}

// GetSession returns the persisted session, or a fresh empty session
// when none has been saved yet.
func (s *Store) GetSession(_ context.Context) (*models.SessionState, error) {
	var session models.SessionState
	if err := s.db.Get(sessionID, &session); err != nil {
		if err == badgerhold.ErrNotFound {
			now := time.Now()
			return &models.SessionState{ID: sessionID, CreatedAt: now, ModifiedAt: now}, nil
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &session, nil
}

// SaveSession upserts the session document, preserving its creation time.
func (s *Store) SaveSession(_ context.Context, session *models.SessionState) error {
	if session == nil {
		return fmt.Errorf("session is nil")
	}
	now := time.Now()
	session.ID = sessionID

	var existing models.SessionState
	if err := s.db.Get(sessionID, &existing); err == nil {
		if !existing.CreatedAt.IsZero() {
			session.CreatedAt = existing.CreatedAt
		}
	} else if session.CreatedAt.IsZero() {
		session.CreatedAt = now
	}
	session.ModifiedAt = now

	if err := s.db.Upsert(sessionID, session); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	s.logger.Debug().
		Bool("portfolio", session.HasPortfolio()).
		Bool("assumptions", len(session.Assumptions) > 0).
		Msg("Session saved")
	return nil
}

// --- System key-value ---

func (s *Store) GetSystemKV(_ context.Context, key string) (string, error) {
	var kv systemKV
	if err := s.db.Get(key, &kv); err != nil {
		if err == badgerhold.ErrNotFound {
			return "", nil
		}
		return "", fmt.Errorf("failed to get system kv '%s': %w", key, err)
	}
	return kv.Value, nil
}

func (s *Store) SetSystemKV(_ context.Context, key, value string) error {
	now := time.Now()

	var existing systemKV
	version := 1
	if err := s.db.Get(key, &existing); err == nil {
		version = existing.Version + 1
	}

	kv := &systemKV{
		Key:      key,
		Value:    value,
		Version:  version,
		DateTime: now,
	}
	if err := s.db.Upsert(key, kv); err != nil {
		return fmt.Errorf("failed to set system kv '%s': %w", key, err)
	}
	return nil
}

// Close shuts down the BadgerHold database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
