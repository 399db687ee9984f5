package chat

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Oinktech2024/Techie-AI/internal/model/chat"
)

// Store keeps every caller's conversation isolated under its own lock.
// The outer mutex only guards the session map; each session carries its
// own mutex so concurrent turns on distinct sessions never contend.
type Store struct {
	ttl time.Duration

	mu      sync.RWMutex
	entries map[string]*entry
}

type entry struct {
	mu           sync.Mutex
	session      chat.Session
	turns        []chat.Turn
	lastActivity time.Time
}

// NewStore bootstraps the in-memory session store. A zero ttl means
// sessions never expire.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		ttl:     ttl,
		entries: make(map[string]*entry),
	}
}

// NewSessionID generates a fresh session identifier for callers that
// arrive without one.
func NewSessionID() string {
	return uuid.NewString()
}

// GetOrCreate returns the existing session for the identifier, creating
// an empty one on first reference. It never fails.
func (s *Store) GetOrCreate(sessionID string) chat.Session {
	e := s.getOrCreateEntry(sessionID)

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session
}

// AppendUser records a user turn in the session, creating the session
// when the identifier is unseen.
func (s *Store) AppendUser(sessionID, text string) {
	s.append(sessionID, chat.RoleUser, text)
}

// AppendAssistant records an assistant turn in the session.
func (s *Store) AppendAssistant(sessionID, text string) {
	s.append(sessionID, chat.RoleAssistant, text)
}

func (s *Store) append(sessionID, role, text string) {
	e := s.getOrCreateEntry(sessionID)

	e.mu.Lock()
	defer e.mu.Unlock()

	now := time.Now().UTC()
	e.turns = append(e.turns, chat.Turn{Role: role, Content: text, CreatedAt: now})
	e.session.UpdatedAt = now
	e.lastActivity = now
}

// Snapshot returns a consistent point-in-time copy of the session's
// turns. The second result reports whether the session exists.
func (s *Store) Snapshot(sessionID string) ([]chat.Turn, bool) {
	e := s.lookup(sessionID)
	if e == nil {
		return nil, false
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	copied := make([]chat.Turn, len(e.turns))
	copy(copied, e.turns)
	return copied, true
}

// Delete removes the session and reports whether it existed. Deleting
// an unknown session is a no-op.
func (s *Store) Delete(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.entries[sessionID]
	delete(s.entries, sessionID)
	return ok
}

// List returns snapshots of all live sessions ordered by creation time,
// for administrative inspection.
func (s *Store) List() []chat.SessionSnapshot {
	s.mu.RLock()
	live := make([]*entry, 0, len(s.entries))
	for _, e := range s.entries {
		live = append(live, e)
	}
	s.mu.RUnlock()

	type item struct {
		created time.Time
		snap    chat.SessionSnapshot
	}
	items := make([]item, 0, len(live))
	for _, e := range live {
		e.mu.Lock()
		turns := make([]chat.Turn, len(e.turns))
		copy(turns, e.turns)
		items = append(items, item{
			created: e.session.CreatedAt,
			snap:    chat.SessionSnapshot{SessionID: e.session.ID, Turns: turns},
		})
		e.mu.Unlock()
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].created.Equal(items[j].created) {
			return items[i].snap.SessionID < items[j].snap.SessionID
		}
		return items[i].created.Before(items[j].created)
	})

	out := make([]chat.SessionSnapshot, 0, len(items))
	for _, it := range items {
		out = append(out, it.snap)
	}
	return out
}

// Sweep drops sessions idle longer than the configured ttl and returns
// how many were removed. It is a no-op when expiry is disabled.
func (s *Store) Sweep() int {
	if s.ttl <= 0 {
		return 0
	}

	cutoff := time.Now().Add(-s.ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, e := range s.entries {
		e.mu.Lock()
		expired := e.lastActivity.Before(cutoff)
		e.mu.Unlock()
		if expired {
			delete(s.entries, id)
			removed++
		}
	}
	return removed
}

// Janitor periodically sweeps expired sessions until the context ends.
func (s *Store) Janitor(ctx context.Context, interval time.Duration) {
	if s.ttl <= 0 {
		return
	}
	if interval <= 0 {
		interval = time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				log.Printf("[session] swept %d expired sessions", n)
			}
		}
	}
}

func (s *Store) lookup(sessionID string) *entry {
	s.mu.RLock()
	e, ok := s.entries[sessionID]
	s.mu.RUnlock()
	if !ok || s.expired(e) {
		return nil
	}
	return e
}

func (s *Store) getOrCreateEntry(sessionID string) *entry {
	if e := s.lookup(sessionID); e != nil {
		return e
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[sessionID]; ok && !s.expired(e) {
		return e
	}

	now := time.Now().UTC()
	e := &entry{
		session:      chat.Session{ID: sessionID, CreatedAt: now, UpdatedAt: now},
		turns:        make([]chat.Turn, 0, 16),
		lastActivity: now,
	}
	s.entries[sessionID] = e
	return e
}

// expired reports whether the entry has idled past the ttl. Expired
// entries are treated as missing and reaped by the next sweep.
func (s *Store) expired(e *entry) bool {
	if s.ttl <= 0 {
		return false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return time.Since(e.lastActivity) > s.ttl
}
