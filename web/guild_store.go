package web

import (
	"sync"
	"time"
)

// guildStore keeps each login's administered guilds on the server. The session
// cookie only carries the login key, so the guild list is not bound by the
// browser's cookie size limit.
type guildStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]guildEntry
}

type guildEntry struct {
	guilds  []Guild
	expires time.Time
}

func newGuildStore(ttl time.Duration) *guildStore {
	return &guildStore{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]guildEntry),
	}
}

// Put stores the guilds of a login and drops expired logins
func (s *guildStore) Put(loginID string, guilds []Guild) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for id, entry := range s.entries {
		if now.After(entry.expires) {
			delete(s.entries, id)
		}
	}

	s.entries[loginID] = guildEntry{guilds: guilds, expires: now.Add(s.ttl)}
}

// Get returns the guilds of a login. Unknown and expired logins report false.
func (s *guildStore) Get(loginID string) ([]Guild, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[loginID]
	if !ok {
		return nil, false
	}
	if s.now().After(entry.expires) {
		delete(s.entries, loginID)
		return nil, false
	}
	return entry.guilds, true
}

// Delete forgets a login
func (s *guildStore) Delete(loginID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, loginID)
}

// Len returns the number of stored logins
func (s *guildStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
