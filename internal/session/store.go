// Package session persists terminal sessions between requests.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Zachkp/devfolio/internal/terminal"
)

// ErrNotFound is returned when a session does not exist or has expired.
var ErrNotFound = errors.New("session not found")

// Store loads and saves sessions by ID.
type Store interface {
	Load(ctx context.Context, id string) (*terminal.Session, error)
	Save(ctx context.Context, sess *terminal.Session) error
}

// MemoryStore keeps sessions in process. Entries idle longer than the TTL
// are treated as missing; Save sweeps them out at most once per sweep
// interval.
type MemoryStore struct {
	mu        sync.Mutex
	ttl       time.Duration
	now       func() time.Time
	sessions  map[string]memoryEntry
	nextSweep time.Time
}

// maxSweepInterval caps how long expired sessions linger with a long TTL.
const maxSweepInterval = time.Minute

type memoryEntry struct {
	sess    terminal.Session
	expires time.Time
}

// NewMemoryStore returns an empty store. ttl <= 0 disables expiry.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]memoryEntry),
	}
}

func (s *MemoryStore) Load(_ context.Context, id string) (*terminal.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	if s.ttl > 0 && s.now().After(e.expires) {
		delete(s.sessions, id)
		return nil, ErrNotFound
	}
	sess := clone(e.sess)
	return &sess, nil
}

func (s *MemoryStore) Save(_ context.Context, sess *terminal.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweep(now)
	s.sessions[sess.ID] = memoryEntry{sess: clone(*sess), expires: now.Add(s.ttl)}
	return nil
}

// sweep drops expired entries. Callers hold s.mu.
func (s *MemoryStore) sweep(now time.Time) {
	if s.ttl <= 0 || now.Before(s.nextSweep) {
		return
	}
	for id, e := range s.sessions {
		if now.After(e.expires) {
			delete(s.sessions, id)
		}
	}
	s.nextSweep = now.Add(min(s.ttl, maxSweepInterval))
}

// Len reports the number of stored sessions, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// clone copies slices so callers cannot mutate stored state.
func clone(s terminal.Session) terminal.Session {
	s.History = append([]string(nil), s.History...)
	s.Installed = append([]string(nil), s.Installed...)
	return s
}
