package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/grocerhq/storefront/internal/catalog"
	"github.com/grocerhq/storefront/internal/store"
)

// ErrSessionNotFound is returned when no live store exists for an ID.
var ErrSessionNotFound = errors.New("session not found")

// Manager owns the live stores, one per storefront session. A session's
// store is built from a fresh catalog fetch at creation; there is no
// persisted state to restore.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*store.Store
	source   catalog.Source
	log      *slog.Logger
}

// NewManager creates a manager that builds session catalogs from source.
func NewManager(source catalog.Source, log *slog.Logger) *Manager {
	return &Manager{
		sessions: make(map[string]*store.Store),
		source:   source,
		log:      log,
	}
}

// Create fetches a fresh catalog and registers a new session around it.
// On fetch or ingestion failure no session is registered.
func (m *Manager) Create(ctx context.Context) (string, *store.Store, error) {
	snapshots, err := m.source.Fetch(ctx)
	if err != nil {
		return "", nil, fmt.Errorf("failed to fetch catalog: %w", err)
	}

	s, err := store.NewFromSnapshots(snapshots)
	if err != nil {
		return "", nil, fmt.Errorf("failed to ingest catalog: %w", err)
	}

	id := uuid.New().String()

	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()

	m.log.Info("session created", "session_id", id, "catalog_size", len(snapshots))
	return id, s, nil
}

// Get returns the store for a live session.
func (m *Manager) Get(id string) (*store.Store, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()

	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Delete tears down a session. Unknown IDs report ErrSessionNotFound.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	_, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	m.log.Info("session deleted", "session_id", id)
	return nil
}

// Refresh refetches the catalog for a live session and replaces it.
// On fetch failure the session's existing catalog is left untouched.
// Cart entries whose product vanished are dropped; their names are
// returned for the caller to report.
func (m *Manager) Refresh(ctx context.Context, id string) ([]string, error) {
	s, err := m.Get(id)
	if err != nil {
		return nil, err
	}

	snapshots, err := m.source.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch catalog: %w", err)
	}

	dropped, err := s.ReplaceCatalog(snapshots)
	if err != nil {
		return nil, err
	}

	if len(dropped) > 0 {
		m.log.Warn("cart entries dropped on catalog refresh",
			"session_id", id,
			"dropped", dropped,
		)
	}
	return dropped, nil
}

// Count reports the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
