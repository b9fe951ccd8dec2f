package session

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/matzehuels/jsonviz/pkg/errors"
	"github.com/matzehuels/jsonviz/pkg/scene"
	"github.com/matzehuels/jsonviz/pkg/value"
)

// DefaultTTL is how long a saved snapshot is kept.
const DefaultTTL = 24 * time.Hour

// Snapshot is the persistent state of a session.
type Snapshot struct {
	ID string `json:"id" bson:"_id"`

	// Document is the JSON text of the value. It is empty when the session
	// holds no valid document; Text then keeps the rejected input.
	Document string `json:"document,omitempty" bson:"document,omitempty"`
	Text     string `json:"text,omitempty" bson:"text,omitempty"`

	Expanded []string       `json:"expanded" bson:"expanded"`
	Viewport scene.Viewport `json:"viewport" bson:"viewport"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
	ExpiresAt time.Time `json:"expires_at" bson:"expires_at"`
}

// IsExpired returns true if the snapshot has expired.
func (s *Snapshot) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Store is the interface for snapshot storage backends.
type Store interface {
	// Get retrieves a snapshot by session ID.
	// Returns nil, nil if the snapshot doesn't exist or has expired.
	Get(ctx context.Context, id string) (*Snapshot, error)

	// Set stores a snapshot.
	Set(ctx context.Context, snap *Snapshot) error

	// Delete removes a snapshot.
	Delete(ctx context.Context, id string) error

	// Cleanup removes expired snapshots.
	Cleanup(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}

// Snapshot captures the session state. The snapshot expires ttl from now.
func (s *Session) Snapshot(ttl time.Duration) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := &Snapshot{
		ID:        s.ID,
		Expanded:  s.store.Paths(),
		Viewport:  *s.view,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.updated,
		ExpiresAt: time.Now().Add(ttl),
	}
	if s.raw != nil {
		data, err := value.MarshalJSON(s.raw)
		if err != nil {
			return nil, err
		}
		snap.Document = string(data)
	} else {
		snap.Text = s.text
	}
	return snap, nil
}

// Restore rebuilds a session from a snapshot.
func Restore(ctx context.Context, snap *Snapshot, opts Options) (*Session, error) {
	s := newSession(snap.ID, opts)
	s.CreatedAt = snap.CreatedAt

	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case snap.Document != "":
		v, err := value.DecodeJSON([]byte(snap.Document))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "restore session %s", snap.ID)
		}
		if err := s.setValue(ctx, v, ""); err != nil && !errors.IsValidation(err) {
			return nil, err
		}
	case snap.Text != "":
		s.text = snap.Text
		if v, err := value.Decode([]byte(snap.Text), value.FormatAuto); err == nil {
			_ = s.setValue(ctx, v, snap.Text)
		} else {
			s.err = err
		}
	}

	s.store.Restore(snap.Expanded)
	vp := snap.Viewport
	s.view.Resize(vp.Width, vp.Height)
	if vp.Manual {
		s.view.Set(vp.Transform)
	}
	if err := s.pass(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// =============================================================================
// Memory Store
// =============================================================================

// MemoryStore keeps snapshots in a map, for development and tests.
type MemoryStore struct {
	mu    sync.RWMutex
	snaps map[string]*Snapshot
}

// NewMemoryStore creates an empty memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snaps: make(map[string]*Snapshot)}
}

func (m *MemoryStore) Get(_ context.Context, id string) (*Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap, ok := m.snaps[id]
	if !ok || snap.IsExpired() {
		return nil, nil
	}
	c := *snap
	c.Expanded = slices.Clone(snap.Expanded)
	return &c, nil
}

func (m *MemoryStore) Set(_ context.Context, snap *Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *snap
	c.Expanded = slices.Clone(snap.Expanded)
	m.snaps[snap.ID] = &c
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.snaps, id)
	return nil
}

func (m *MemoryStore) Cleanup(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	maps.DeleteFunc(m.snaps, func(_ string, s *Snapshot) bool { return s.IsExpired() })
	return nil
}

func (m *MemoryStore) Close() error { return nil }

// Len returns the number of stored snapshots, expired ones included.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.snaps)
}

var _ Store = (*MemoryStore)(nil)
