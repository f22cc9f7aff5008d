package realtime

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// PresenceEntry records that an identity currently holds an admitted
// connection. At most one entry exists per identity; a reconnect replaces
// the prior entry.
type PresenceEntry struct {
	UserID      uuid.UUID `json:"userId"`
	ConnectedAt time.Time `json:"connectedAt"`
	LastSeenAt  time.Time `json:"lastSeenAt"`
}

// Presence is the process-wide registry of connected identities. It is an
// owned component: construct one per hub (or per test), never a package
// global.
type Presence struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]PresenceEntry
}

func NewPresence() *Presence {
	return &Presence{entries: make(map[uuid.UUID]PresenceEntry)}
}

// Register inserts or replaces the entry for the identity. It always
// succeeds.
func (p *Presence) Register(userID uuid.UUID) {
	now := time.Now()
	p.mu.Lock()
	p.entries[userID] = PresenceEntry{UserID: userID, ConnectedAt: now, LastSeenAt: now}
	p.mu.Unlock()
}

// Touch refreshes lastSeenAt if the identity is registered. It never creates
// an entry.
func (p *Presence) Touch(userID uuid.UUID) {
	p.mu.Lock()
	if e, ok := p.entries[userID]; ok {
		e.LastSeenAt = time.Now()
		p.entries[userID] = e
	}
	p.mu.Unlock()
}

// Remove deletes the entry if present. Idempotent.
func (p *Presence) Remove(userID uuid.UUID) {
	p.mu.Lock()
	delete(p.entries, userID)
	p.mu.Unlock()
}

// Get returns the entry for the identity, if any.
func (p *Presence) Get(userID uuid.UUID) (PresenceEntry, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	e, ok := p.entries[userID]
	return e, ok
}

// Snapshot returns a copy of the current registry for diagnostics.
func (p *Presence) Snapshot() map[uuid.UUID]PresenceEntry {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make(map[uuid.UUID]PresenceEntry, len(p.entries))
	for id, e := range p.entries {
		out[id] = e
	}
	return out
}
