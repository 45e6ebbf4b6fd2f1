package sessiondb

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/Team-Lightning-LLC/montecarlo/internal/common"
	"github.com/Team-Lightning-LLC/montecarlo/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	logger := common.NewLogger("error")
	store, err := NewStore(logger, filepath.Join(dir, "session"))
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_CloseNilDB(t *testing.T) {
	store := &Store{}
	if err := store.Close(); err != nil {
		t.Fatalf("Close on nil DB should not error: %v", err)
	}
}

func TestGetSession_FreshWhenUnsaved(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	session, err := store.GetSession(ctx)
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if session.HasPortfolio() {
		t.Error("fresh session reports a portfolio")
	}
	if session.CreatedAt.IsZero() {
		t.Error("fresh session has zero CreatedAt")
	}
}

func TestSaveSession_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	in := &models.SessionState{
		Portfolio:   json.RawMessage(`{"accounts": [{"name": "super"}]}`),
		Assumptions: json.RawMessage(`{"equity_return": 0.07}`),
	}
	if err := store.SaveSession(ctx, in); err != nil {
		t.Fatalf("SaveSession failed: %v", err)
	}

	got, err := store.GetSession(ctx)
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if string(got.Portfolio) != `{"accounts": [{"name": "super"}]}` {
		t.Errorf("Portfolio = %s, want stored bytes back", got.Portfolio)
	}
	if string(got.Assumptions) != `{"equity_return": 0.07}` {
		t.Errorf("Assumptions = %s, want stored bytes back", got.Assumptions)
	}
	if got.ModifiedAt.IsZero() {
		t.Error("ModifiedAt not set on save")
	}
}

func TestSaveSession_PreservesCreatedAt(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first := &models.SessionState{Portfolio: json.RawMessage(`{"v": 1}`)}
	if err := store.SaveSession(ctx, first); err != nil {
		t.Fatalf("first save failed: %v", err)
	}
	created := first.CreatedAt

	second := &models.SessionState{Portfolio: json.RawMessage(`{"v": 2}`)}
	if err := store.SaveSession(ctx, second); err != nil {
		t.Fatalf("second save failed: %v", err)
	}

	got, err := store.GetSession(ctx)
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if !got.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt = %v, want preserved %v", got.CreatedAt, created)
	}
	if string(got.Portfolio) != `{"v": 2}` {
		t.Errorf("Portfolio = %s, want latest save", got.Portfolio)
	}
}

func TestSaveSession_ClearedPortfolioStaysCleared(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.SaveSession(ctx, &models.SessionState{Portfolio: json.RawMessage(`{}`)}); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := store.SaveSession(ctx, &models.SessionState{}); err != nil {
		t.Fatalf("clearing save failed: %v", err)
	}

	got, err := store.GetSession(ctx)
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if got.HasPortfolio() {
		t.Errorf("Portfolio = %s, want none after clear", got.Portfolio)
	}
}

func TestSystemKV_GetSetAndVersioning(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	val, err := store.GetSystemKV(ctx, "missing")
	if err != nil {
		t.Fatalf("GetSystemKV for missing key errored: %v", err)
	}
	if val != "" {
		t.Errorf("missing key = %q, want empty", val)
	}

	if err := store.SetSystemKV(ctx, "last_upload", "overview.docx"); err != nil {
		t.Fatalf("SetSystemKV failed: %v", err)
	}
	if err := store.SetSystemKV(ctx, "last_upload", "revised.docx"); err != nil {
		t.Fatalf("second SetSystemKV failed: %v", err)
	}

	val, err = store.GetSystemKV(ctx, "last_upload")
	if err != nil {
		t.Fatalf("GetSystemKV failed: %v", err)
	}
	if val != "revised.docx" {
		t.Errorf("value = %q, want latest %q", val, "revised.docx")
	}
}
