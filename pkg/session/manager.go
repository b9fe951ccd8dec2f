package session

import (
	"context"
	"sync"
	"time"

	"github.com/matzehuels/jsonviz/pkg/errors"
	"github.com/matzehuels/jsonviz/pkg/observability"
)

// Manager tracks the live sessions of a host and persists them to a Store.
type Manager struct {
	mu    sync.Mutex
	live  map[string]*Session
	store Store
	opts  Options
	ttl   time.Duration
}

// NewManager creates a manager. A nil store keeps sessions in memory only;
// a ttl of zero uses DefaultTTL.
func NewManager(store Store, opts Options, ttl time.Duration) *Manager {
	if store == nil {
		store = NewMemoryStore()
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{live: make(map[string]*Session), store: store, opts: opts, ttl: ttl}
}

// Create starts a new session.
func (m *Manager) Create(ctx context.Context) *Session {
	s := New(m.opts)
	m.mu.Lock()
	m.live[s.ID] = s
	m.mu.Unlock()
	observability.Session().OnSessionCreated(ctx, s.ID)
	return s
}

// Get returns the live session with id, restoring it from the store if it
// is not in memory.
func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.live[id]; ok {
		return s, nil
	}
	snap, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		return nil, errors.New(errors.ErrCodeSessionNotFound, "session %s not found", id)
	}
	s, err := Restore(ctx, snap, m.opts)
	if err != nil {
		return nil, err
	}
	m.live[id] = s
	return s, nil
}

// Save writes a snapshot of s to the store.
func (m *Manager) Save(ctx context.Context, s *Session) error {
	snap, err := s.Snapshot(m.ttl)
	if err != nil {
		return err
	}
	return m.store.Set(ctx, snap)
}

// Delete ends the session with id and removes its snapshot.
func (m *Manager) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	s, ok := m.live[id]
	delete(m.live, id)
	m.mu.Unlock()

	if ok {
		s.Close(ctx)
	}
	return m.store.Delete(ctx, id)
}

// Evict drops sessions idle for longer than idle from memory after saving
// them, and removes expired snapshots from the store. It returns the number
// of evicted sessions.
func (m *Manager) Evict(ctx context.Context, idle time.Duration) (int, error) {
	cutoff := time.Now().Add(-idle)

	m.mu.Lock()
	var stale []*Session
	for id, s := range m.live {
		if s.UpdatedAt().Before(cutoff) {
			stale = append(stale, s)
			delete(m.live, id)
		}
	}
	m.mu.Unlock()

	for _, s := range stale {
		if err := m.Save(ctx, s); err != nil {
			return len(stale), err
		}
		s.Close(ctx)
	}
	return len(stale), m.store.Cleanup(ctx)
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.live)
}

// Shutdown saves every live session.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	live := make([]*Session, 0, len(m.live))
	for _, s := range m.live {
		live = append(live, s)
	}
	m.mu.Unlock()

	for _, s := range live {
		if err := m.Save(ctx, s); err != nil {
			return err
		}
	}
	return nil
}
