package services

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// SessionManager tracks the authenticated admin identity with a sliding
// idle expiry. Handlers hold only an opaque session ID.
type SessionManager interface {
	Start(username string) string
	Check(id string) (username string, ok bool)
	Clear(id string)
}

type sessionRecord struct {
	username     string
	lastActivity time.Time
}

type memorySessionManager struct {
	mu          sync.Mutex
	sessions    map[string]*sessionRecord
	idleTimeout time.Duration
	now         func() time.Time
}

// NewSessionManager returns an in-memory SessionManager. A session whose
// last activity is older than idleTimeout is treated as anonymous on the
// next check and removed.
func NewSessionManager(idleTimeout time.Duration) SessionManager {
	return &memorySessionManager{
		sessions:    map[string]*sessionRecord{},
		idleTimeout: idleTimeout,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (m *memorySessionManager) Start(username string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	for id, rec := range m.sessions {
		if now.Sub(rec.lastActivity) > m.idleTimeout {
			delete(m.sessions, id)
		}
	}
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	m.sessions[id] = &sessionRecord{username: username, lastActivity: now}
	return id
}

func (m *memorySessionManager) Check(id string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec := m.sessions[id]
	if rec == nil {
		return "", false
	}
	now := m.now()
	if now.Sub(rec.lastActivity) > m.idleTimeout {
		delete(m.sessions, id)
		return "", false
	}
	rec.lastActivity = now
	return rec.username, true
}

func (m *memorySessionManager) Clear(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}
