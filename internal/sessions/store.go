// Package sessions keeps one guide.Session per browser or API client.
//
// Sessions live in memory only and expire after a period of inactivity.
// Each entry is locked while a caller works on it, so one client's actions
// are applied one at a time and never observe a partial transition.
package sessions

import (
	"errors"
	"regexp"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/fpang/wound-care-guide/internal/guide"
	"github.com/fpang/wound-care-guide/internal/videos"
)

// ErrNotFound is returned for unknown or expired session IDs.
var ErrNotFound = errors.New("session not found")

// DefaultTTL is how long an idle session is kept.
const DefaultTTL = 2 * time.Hour

// uuidRegex matches the canonical lowercase UUID form produced by New.
var uuidRegex = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

// ValidID reports whether id has the shape of a session ID.
func ValidID(id string) bool {
	return uuidRegex.MatchString(id)
}

// Entry is the state owned by one session.
type Entry struct {
	ID    string
	Guide *guide.Session
	// Catalog memoizes the resolved videos for the final step; nil until
	// first needed.
	Catalog *videos.Catalog

	mu       sync.Mutex // serializes fn calls
	lastSeen time.Time  // guarded by Store.mu
}

// Store is an in-memory session table.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Entry
	ttl      time.Duration
	now      func() time.Time
}

// NewStore returns an empty store. A ttl of zero means DefaultTTL.
func NewStore(ttl time.Duration) *Store {
	return NewStoreWithClock(ttl, time.Now)
}

// NewStoreWithClock is NewStore with an explicit time source for expiry.
func NewStoreWithClock(ttl time.Duration, now func() time.Time) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		sessions: make(map[string]*Entry),
		ttl:      ttl,
		now:      now,
	}
}

// Create starts a new session at the beginning of the guide.
func (s *Store) Create() string {
	id := uuid.NewString()
	s.mu.Lock()
	s.sessions[id] = &Entry{ID: id, Guide: guide.NewSession(), lastSeen: s.now()}
	n := len(s.sessions)
	s.mu.Unlock()

	log.Info().Str("sessionId", id).Int("active", n).Msg("Guide session created")
	return id
}

// Do runs fn with exclusive access to the session id.
func (s *Store) Do(id string, fn func(*Entry) error) error {
	s.mu.Lock()
	e, ok := s.sessions[id]
	if ok && s.now().Sub(e.lastSeen) > s.ttl {
		delete(s.sessions, id)
		ok = false
	}
	if ok {
		e.lastSeen = s.now()
	}
	s.mu.Unlock()
	if !ok {
		return ErrNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e)
}

// Delete removes a session. Unknown IDs are ignored.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// Len returns the number of stored sessions, expired or not.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep drops sessions idle for longer than the TTL and returns how many
// were removed.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	now := s.now()
	for id, e := range s.sessions {
		if now.Sub(e.lastSeen) > s.ttl {
			delete(s.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		log.Info().Int("removed", removed).Int("active", len(s.sessions)).Msg("Expired guide sessions swept")
	}
	return removed
}
