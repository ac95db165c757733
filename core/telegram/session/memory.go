package session

import (
	"sync"

	"finbot/core/telegram/args"
)

type memoryManager struct {
	mu          sync.RWMutex
	sessions    map[int64]*Session
	defaultMenu string
}

// NewMemoryManager constructs the in-process Manager implementation. New
// users start on defaultMenu with no action.
func NewMemoryManager(defaultMenu string) Manager {
	return &memoryManager{
		sessions:    make(map[int64]*Session),
		defaultMenu: defaultMenu,
	}
}

// session returns the entry for userID, creating the default lazily.
// Callers must hold the write lock.
func (m *memoryManager) session(userID int64) *Session {
	s, ok := m.sessions[userID]
	if !ok {
		s = &Session{Menu: m.defaultMenu, Action: ActionNone}
		m.sessions[userID] = s
	}
	return s
}

// GetMenu returns the recorded menu for a user, falling back to the default
// landing menu for users never seen before.
func (m *memoryManager) GetMenu(userID int64) (string, args.Map) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.sessions[userID]; ok {
		return s.Menu, s.MenuArgs.Clone()
	}
	return m.defaultMenu, nil
}

// SetMenu records the menu currently on screen together with the arguments
// needed to redraw it.
func (m *memoryManager) SetMenu(userID int64, name string, a args.Map) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.session(userID)
	s.Menu = name
	s.MenuArgs = a.Clone()
}

// GetAction returns the active action name or ActionNone.
func (m *memoryManager) GetAction(userID int64) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.sessions[userID]; ok {
		return s.Action
	}
	return ActionNone
}

// SetAction activates an action for the user. Arguments from any previous
// action are dropped in the same critical section, so no observer can see the
// new action paired with stale args.
func (m *memoryManager) SetAction(userID int64, name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.session(userID)
	s.Action = name
	s.ActionArgs = nil
}

// GetActionArgs returns a copy of the active action's argument map, or nil
// when idle.
func (m *memoryManager) GetActionArgs(userID int64) args.Map {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.sessions[userID]; ok && s.Action != ActionNone {
		return s.ActionArgs.Clone()
	}
	return nil
}

// SetActionArgs replaces the active action's arguments. Writes arriving after
// a cancel find the session idle and are discarded.
func (m *memoryManager) SetActionArgs(userID int64, a args.Map) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[userID]
	if !ok || s.Action == ActionNone {
		return
	}
	s.ActionArgs = a.Clone()
}

// ClearAction returns the user to idle, dropping action args atomically.
func (m *memoryManager) ClearAction(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[userID]
	if !ok {
		return
	}
	s.Action = ActionNone
	s.ActionArgs = nil
}

// InProgress reports whether the user currently has an active action.
func (m *memoryManager) InProgress(userID int64) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[userID]
	return ok && s.Action != ActionNone
}
