package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/cloo-solutions/jobfinder/internal/domain"
)

// Navigator sends the user to the login screen after logout.
type Navigator interface {
	ToLogin()
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func()

func (f NavigatorFunc) ToLogin() { f() }

type snapshot struct {
	token   string
	rawUser string
}

// Manager caches the persisted session for the process. Token and user are
// always swapped together, so a reader never sees one without the other.
type Manager struct {
	store Store
	nav   Navigator

	// writeMu serializes SetSession and Logout.
	writeMu sync.Mutex

	mu      sync.RWMutex
	snap    snapshot
	gen     uint64
	writing bool
}

// NewManager returns a Manager over store. nav may be nil.
func NewManager(store Store, nav Navigator) *Manager {
	return &Manager{store: store, nav: nav}
}

// Store returns the backing store.
func (m *Manager) Store() Store {
	return m.store
}

// Load reads the persisted session into the cache.
func (m *Manager) Load(ctx context.Context) error {
	_, err := m.Resync(ctx)
	return err
}

// Resync re-reads the store and reports whether the cached session changed.
// A read that overlaps a local SetSession or Logout is discarded; the local
// write already holds the newer session.
func (m *Manager) Resync(ctx context.Context) (bool, error) {
	m.mu.RLock()
	gen, writing := m.gen, m.writing
	m.mu.RUnlock()
	if writing {
		return false, nil
	}

	next, err := m.read(ctx)
	if err != nil {
		return false, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.gen != gen || next == m.snap {
		return false, nil
	}
	m.snap = next
	return true, nil
}

func (m *Manager) read(ctx context.Context) (snapshot, error) {
	entries, err := m.store.GetMany(ctx, KeyToken, KeyUser)
	if err != nil {
		return snapshot{}, fmt.Errorf("failed to read session: %w", err)
	}
	return snapshot{token: entries[KeyToken], rawUser: entries[KeyUser]}, nil
}

// beginWrite marks a local write in flight. Every beginWrite is paired with
// endWrite.
func (m *Manager) beginWrite() {
	m.writeMu.Lock()
	m.mu.Lock()
	m.gen++
	m.writing = true
	m.mu.Unlock()
}

// endWrite installs next, when given, and ends the write.
func (m *Manager) endWrite(next *snapshot) {
	m.mu.Lock()
	if next != nil {
		m.snap = *next
	}
	m.gen++
	m.writing = false
	m.mu.Unlock()
	m.writeMu.Unlock()
}

// Token returns the bearer token; ok is false when logged out.
func (m *Manager) Token() (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snap.token, m.snap.token != ""
}

func (m *Manager) IsLoggedIn() bool {
	_, ok := m.Token()
	return ok
}

// CurrentUser returns the stored user, or nil when it is absent or unreadable.
func (m *Manager) CurrentUser() *domain.User {
	m.mu.RLock()
	raw := m.snap.rawUser
	m.mu.RUnlock()
	return decodeUser(raw)
}

func decodeUser(raw string) *domain.User {
	if raw == "" {
		return nil
	}
	var user domain.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		log.Printf("session: ignoring unreadable user record: %v", err)
		return nil
	}
	return &user
}

// Session returns a copy of the cached session.
func (m *Manager) Session() domain.Session {
	m.mu.RLock()
	snap := m.snap
	m.mu.RUnlock()
	return domain.Session{Token: snap.token, User: decodeUser(snap.rawUser)}
}

// SetSession persists token and user in one write, then updates the cache.
// A nil user is stored as an empty record so no earlier user survives.
func (m *Manager) SetSession(ctx context.Context, token string, user *domain.User) error {
	if token == "" {
		return domain.ErrMissingToken
	}

	next := snapshot{token: token}
	if user != nil {
		data, err := json.Marshal(user)
		if err != nil {
			return fmt.Errorf("failed to encode user: %w", err)
		}
		next.rawUser = string(data)
	}

	m.beginWrite()
	if err := m.store.Set(ctx, map[string]string{KeyToken: token, KeyUser: next.rawUser}); err != nil {
		m.endWrite(nil)
		return fmt.Errorf("failed to persist session: %w", err)
	}
	m.endWrite(&next)
	return nil
}

// Logout clears the persisted session and the cache, then navigates to login.
// The cache is emptied even when the store fails.
func (m *Manager) Logout(ctx context.Context) error {
	m.beginWrite()
	err := m.store.Clear(ctx, KeyToken, KeyUser)
	m.endWrite(&snapshot{})

	if m.nav != nil {
		m.nav.ToLogin()
	}

	if err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
