// Package session keeps per-user dialog state: the cart, the item picked
// on the volume screen, and which free-form input the bot is waiting for.
package session

import "sync"

// PendingInput marks which free-form message the bot expects from a user.
// A user has at most one pending input at a time; setting a new one
// replaces the previous.
type PendingInput int

const (
	PendingNone PendingInput = iota
	// PendingPhone means the next contact or text message completes checkout.
	PendingPhone
	// PendingAdminAddItem expects a "Назва=Ціна" line from the operator.
	PendingAdminAddItem
	// PendingAdminAddPromo expects a promotion line from the operator.
	PendingAdminAddPromo
	// PendingAdminAddNew expects a new-arrival line from the operator.
	PendingAdminAddNew
)

// Session is the dialog state of a single user. Cart lines are frozen at
// add time, so later catalog edits do not rewrite carts.
type Session struct {
	Cart      []string
	Pending   PendingInput
	Selection string
	Phone     string
}

// Manager guards sessions for concurrent handler goroutines.
type Manager struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
}

// NewManager returns an empty session manager.
func NewManager() *Manager {
	return &Manager{sessions: make(map[int64]*Session)}
}

func (m *Manager) sessionLocked(userID int64) *Session {
	s, ok := m.sessions[userID]
	if !ok {
		s = &Session{}
		m.sessions[userID] = s
	}
	return s
}

// AppendCart adds a frozen order line to the user's cart.
func (m *Manager) AppendCart(userID int64, line string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.sessionLocked(userID)
	s.Cart = append(s.Cart, line)
}

// Cart returns a copy of the user's cart lines.
func (m *Manager) Cart(userID int64) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[userID]
	if !ok {
		return nil
	}
	return append([]string(nil), s.Cart...)
}

// SetPending replaces the user's pending input marker.
func (m *Manager) SetPending(userID int64, p PendingInput) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessionLocked(userID).Pending = p
}

// Pending returns the user's current pending input marker.
func (m *Manager) Pending(userID int64) PendingInput {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[userID]
	if !ok {
		return PendingNone
	}
	return s.Pending
}

// SetSelection remembers the item the user is picking a volume for.
func (m *Manager) SetSelection(userID int64, item string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessionLocked(userID).Selection = item
}

// Selection returns the item currently on the volume screen.
func (m *Manager) Selection(userID int64) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[userID]
	if !ok {
		return ""
	}
	return s.Selection
}

// ClearSelection drops the volume-screen item.
func (m *Manager) ClearSelection(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[userID]; ok {
		s.Selection = ""
	}
}

// SetPhone stores the phone captured during checkout.
func (m *Manager) SetPhone(userID int64, phone string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessionLocked(userID).Phone = phone
}

// Snapshot returns a copy of the user's full session.
func (m *Manager) Snapshot(userID int64) Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[userID]
	if !ok {
		return Session{}
	}
	out := *s
	out.Cart = append([]string(nil), s.Cart...)
	return out
}

// Clear removes the user's session entirely.
func (m *Manager) Clear(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID)
}

// ResetFlow clears pending input and selection but keeps the cart, used
// when the user navigates away from an unfinished step.
func (m *Manager) ResetFlow(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[userID]; ok {
		s.Pending = PendingNone
		s.Selection = ""
	}
}

// InProgress reports whether the user has a pending free-form input step.
func (m *Manager) InProgress(userID int64) bool {
	return m.Pending(userID) != PendingNone
}
