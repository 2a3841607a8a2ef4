package service

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// CooldownTracker maps cooldown keys to absolute expiry instants. Expired
// entries are evicted lazily on read; Sweep clears them in batch. Enforcement
// is left to command bodies, the tracker only answers how long is left.
type CooldownTracker struct {
	mu       sync.Mutex
	expiries map[string]time.Time
}

func NewCooldownTracker() *CooldownTracker {
	return &CooldownTracker{expiries: make(map[string]time.Time)}
}

// Apply starts or restarts the cooldown for key.
func (t *CooldownTracker) Apply(key string, d time.Duration) {
	t.mu.Lock()
	t.expiries[key] = time.Now().Add(d)
	t.mu.Unlock()
}

// Remaining returns the whole seconds left on key's cooldown. A read at or
// after expiry evicts the entry and returns 0.
func (t *CooldownTracker) Remaining(key string) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	expiry, ok := t.expiries[key]
	if !ok {
		return 0
	}

	remaining := int(time.Until(expiry).Seconds())
	if remaining <= 0 {
		delete(t.expiries, key)
		return 0
	}

	return remaining
}

// Sweep removes every entry whose expiry is at or before now. Safe to call at
// any time, idempotent.
func (t *CooldownTracker) Sweep() {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := time.Now()

	keys := make([]string, 0, len(t.expiries))
	for key := range t.expiries {
		keys = append(keys, key)
	}

	swept := 0
	for _, key := range keys {
		if !t.expiries[key].After(now) {
			delete(t.expiries, key)
			swept++
		}
	}

	if swept > 0 {
		log.Debug().Int("entries", swept).Msg("swept expired cooldowns")
	}
}
