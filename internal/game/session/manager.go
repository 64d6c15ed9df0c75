// Package session tracks connected characters and delivers outbound
// notifications to them.
package session

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/emberfall/reforge/internal/game/item"
)

// Session tracks one connected character.
type Session struct {
	// CharacterID is the database ID of the character.
	CharacterID int64
	// Name is the character display name (for logging and messages).
	Name string
	// Outbox carries rendered messages for delivery to the client. Writes are
	// non-blocking; a full outbox drops the message.
	Outbox chan string
}

// Manager tracks all active character sessions.
// All methods are safe for concurrent use.
type Manager struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
}

// NewManager creates an empty session Manager.
func NewManager() *Manager {
	return &Manager{
		sessions: make(map[int64]*Session),
	}
}

// Add registers a new character session.
//
// Precondition: name must be non-empty; characterID must be > 0.
// Postcondition: Returns the created Session, or an error if the character is
// already connected.
func (m *Manager) Add(characterID int64, name string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sessions[characterID]; exists {
		return nil, fmt.Errorf("character %d already connected", characterID)
	}

	sess := &Session{
		CharacterID: characterID,
		Name:        name,
		Outbox:      make(chan string, 64),
	}
	m.sessions[characterID] = sess
	return sess, nil
}

// Remove drops a character session.
//
// Postcondition: The session is removed. Returns an error if not found.
func (m *Manager) Remove(characterID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, exists := m.sessions[characterID]
	if !exists {
		return fmt.Errorf("character %d not found", characterID)
	}
	close(sess.Outbox)
	delete(m.sessions, characterID)
	return nil
}

// Get returns the session for a character, if connected.
func (m *Manager) Get(characterID int64) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[characterID]
	return sess, ok
}

// Online returns the IDs of all connected characters. Order is unspecified.
func (m *Manager) Online() []int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]int64, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	return ids
}

// ItemChanged pushes an updated item description to the owning session.
// Implements the reforge engine's Broadcaster. Offline owners and full
// outboxes drop the notification; descriptions are re-broadcast on the next
// connect or reconcile.
func (m *Manager) ItemChanged(ownerID int64, itemID uuid.UUID, stats []item.StatValue) {
	m.mu.RLock()
	sess, ok := m.sessions[ownerID]
	m.mu.RUnlock()
	if !ok {
		return
	}

	select {
	case sess.Outbox <- formatItemStats(itemID, stats):
	default:
	}
}

// formatItemStats renders an item's effective attribute list as one line per
// stat, prefixed by the item ID.
func formatItemStats(itemID uuid.UUID, stats []item.StatValue) string {
	var b strings.Builder
	fmt.Fprintf(&b, "item %s:", itemID)
	for _, s := range stats {
		fmt.Fprintf(&b, "\n  +%d %s", s.Value, s.Attribute.DisplayName())
	}
	return b.String()
}
