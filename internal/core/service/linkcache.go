package service

import (
	"sync"

	"botkit/internal/core/domain"
)

// LinkCache associates a triggering message ID with the bot responses it
// produced, enabling cascading deletion. Capacity is fixed: inserting a new
// trigger once full evicts the oldest one. A capacity of zero disables
// linking entirely.
type LinkCache struct {
	mu       sync.Mutex
	capacity int
	links    map[string][]domain.MessageRef
	keys     []string
	next     int
}

func NewLinkCache(capacity int) *LinkCache {
	c := &LinkCache{capacity: capacity}
	if capacity > 0 {
		c.links = make(map[string][]domain.MessageRef, capacity)
		c.keys = make([]string, capacity)
	}

	return c
}

func (c *LinkCache) Enabled() bool {
	return c.capacity > 0
}

// Link records ref as a response to the trigger message. A colliding trigger
// merges into the existing set instead of overwriting it.
func (c *LinkCache) Link(triggerID string, ref domain.MessageRef) {
	if !c.Enabled() {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if refs, ok := c.links[triggerID]; ok {
		c.links[triggerID] = append(refs, ref)
		return
	}

	if evict := c.keys[c.next]; evict != "" {
		delete(c.links, evict)
	}
	c.keys[c.next] = triggerID
	c.next = (c.next + 1) % c.capacity

	c.links[triggerID] = []domain.MessageRef{ref}
}

// Take removes and returns the responses linked to the trigger message.
func (c *LinkCache) Take(triggerID string) []domain.MessageRef {
	if !c.Enabled() {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	refs, ok := c.links[triggerID]
	if !ok {
		return nil
	}
	delete(c.links, triggerID)

	return refs
}

func (c *LinkCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.links)
}
