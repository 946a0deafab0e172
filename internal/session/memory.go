package session

import (
	"context"
	"sync"
	"time"

	"github.com/Aditya-Sinha-7981/Aarogya-Saathi/internal/security"
)

type memoryEntry struct {
	userID    int64
	expiresAt time.Time
}

// MemoryManager keeps the token table in process memory. Tokens do not
// survive a restart and are invisible to other server instances.
type MemoryManager struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration

	// now is swapped out in tests.
	now func() time.Time
}

func NewMemoryManager(ttl time.Duration) *MemoryManager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryManager{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (m *MemoryManager) Create(_ context.Context, userID int64) (string, error) {
	token, _, err := security.GenerateSessionToken()
	if err != nil {
		return "", err
	}

	m.mu.Lock()
	m.entries[token] = memoryEntry{
		userID:    userID,
		expiresAt: m.now().Add(m.ttl),
	}
	m.mu.Unlock()

	return token, nil
}

func (m *MemoryManager) Resolve(_ context.Context, token string) (int64, error) {
	m.mu.RLock()
	entry, ok := m.entries[token]
	m.mu.RUnlock()

	if !ok {
		return 0, ErrUnauthenticated
	}
	if !entry.expiresAt.After(m.now()) {
		m.mu.Lock()
		delete(m.entries, token)
		m.mu.Unlock()
		return 0, ErrUnauthenticated
	}
	return entry.userID, nil
}

func (m *MemoryManager) Destroy(_ context.Context, token string) error {
	m.mu.Lock()
	delete(m.entries, token)
	m.mu.Unlock()
	return nil
}

func (m *MemoryManager) PurgeExpired(_ context.Context) (int64, error) {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	var purged int64
	for token, entry := range m.entries {
		if !entry.expiresAt.After(now) {
			delete(m.entries, token)
			purged++
		}
	}
	return purged, nil
}
