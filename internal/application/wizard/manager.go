package wizard

import (
	"context"
	"sync"
)

// Manager tracks the open wizard sessions on a device, keyed by action
// id. One session per action; opening an action that already has a live
// session returns the existing one so a dropped UI can reattach.
type Manager struct {
	mu       sync.RWMutex
	deps     SessionDeps
	sessions map[string]*Session
}

// NewManager creates an empty session manager
func NewManager(deps SessionDeps) *Manager {
	return &Manager{
		deps:     deps,
		sessions: make(map[string]*Session),
	}
}

// Open returns the live session for an action, creating one if needed
func (m *Manager) Open(ctx context.Context, taskID, actionID string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.sessions[actionID]; ok {
		state := existing.State()
		if !state.Phase.IsTerminal() {
			return existing
		}
		delete(m.sessions, actionID)
	}

	session := OpenSession(ctx, m.deps, taskID, actionID)
	m.sessions[actionID] = session
	return session
}

// Get returns the live session for an action, or nil
func (m *Manager) Get(actionID string) *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[actionID]
}

// Close drops the session for an action. The session's own state is left
// as is; terminal sessions are simply forgotten.
func (m *Manager) Close(actionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, actionID)
}

// ActionIDs lists the actions with live sessions
func (m *Manager) ActionIDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	return ids
}
