// Package session maps Telegram users to conversation threads.
//
// Each user has at most one active thread at a time. A thread id addresses a
// slot in the checkpoint store; rotating a session issues a fresh thread id
// and the old one is never reused. The mapping is in-process only: a restart
// loses user-to-thread bindings, while conversation content stays in the
// checkpoint store under the old thread ids.
package session

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Variant selects which agent (system prompt + toolset) serves a session.
type Variant string

const (
	// VariantDefault is the general-purpose book finder agent.
	VariantDefault Variant = "default"
	// VariantCorporate is the corporate library catalog agent.
	VariantCorporate Variant = "corporate"
)

// Session is the per-user conversation state.
type Session struct {
	ThreadID      string
	LastMessageID int
	Variant       Variant
}

// Manager is the session router. Safe for concurrent use.
type Manager struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
	logger   *zap.Logger
}

// NewManager creates an empty session router.
func NewManager(logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		sessions: make(map[int64]*Session),
		logger:   logger,
	}
}

// ThreadID derives a thread identifier from the user identity and a point in
// time. Identifiers are unique across users, and across time for the same
// user as long as rotations are at least a second apart.
func ThreadID(userID int64, at time.Time) string {
	return fmt.Sprintf("%d_%d", userID, at.Unix())
}

// Start replaces any existing session for the user with a fresh thread and
// the given agent variant.
func (m *Manager) Start(userID int64, variant Variant, messageID int, at time.Time) Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := &Session{
		ThreadID:      ThreadID(userID, at),
		LastMessageID: messageID,
		Variant:       variant,
	}
	m.sessions[userID] = s
	m.logger.Info("session started",
		zap.Int64("user_id", userID),
		zap.String("thread_id", s.ThreadID),
		zap.String("variant", string(variant)),
	)
	return *s
}

// Ensure returns the user's session, allocating one with the default variant
// if none exists. The second return value reports whether a new session was
// created, so the caller can notify the user.
func (m *Manager) Ensure(userID int64, messageID int, at time.Time) (Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[userID]; ok {
		return *s, false
	}

	s := &Session{
		ThreadID:      ThreadID(userID, at),
		LastMessageID: messageID,
		Variant:       VariantDefault,
	}
	m.sessions[userID] = s
	m.logger.Info("session auto-started",
		zap.Int64("user_id", userID),
		zap.String("thread_id", s.ThreadID),
	)
	return *s, true
}

// Get returns a copy of the user's session, if any.
func (m *Manager) Get(userID int64) (Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[userID]
	if !ok {
		return Session{}, false
	}
	return *s, true
}

// Touch advances the last-seen-message marker for the user's session.
// No-op when the user has no session.
func (m *Manager) Touch(userID int64, messageID int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[userID]; ok {
		s.LastMessageID = messageID
	}
}

// Rotate issues a fresh thread id for the user, keeping the agent variant.
// Used to fail forward after an agent error so the user is never stuck on a
// poisoned thread. Creates a default-variant session when none exists.
func (m *Manager) Rotate(userID int64, at time.Time) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[userID]
	if !ok {
		s = &Session{Variant: VariantDefault}
		m.sessions[userID] = s
	}
	old := s.ThreadID
	s.ThreadID = ThreadID(userID, at)
	m.logger.Warn("session rotated",
		zap.Int64("user_id", userID),
		zap.String("old_thread_id", old),
		zap.String("new_thread_id", s.ThreadID),
	)
	return s.ThreadID
}
