package recruitment

import (
	"sync"
	"time"
)

// decisionGuardTTL bounds how long a handled notification is remembered
const decisionGuardTTL = 24 * time.Hour

// decisionGuard lets exactly one decision through per staff notification
type decisionGuard struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	claimed map[string]time.Time
}

func newDecisionGuard(ttl time.Duration) *decisionGuard {
	return &decisionGuard{
		ttl:     ttl,
		now:     time.Now,
		claimed: make(map[string]time.Time),
	}
}

// claim returns true for the first call with key and false afterwards
func (g *decisionGuard) claim(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	for k, at := range g.claimed {
		if now.Sub(at) > g.ttl {
			delete(g.claimed, k)
		}
	}

	if _, ok := g.claimed[key]; ok {
		return false
	}
	g.claimed[key] = now
	return true
}
