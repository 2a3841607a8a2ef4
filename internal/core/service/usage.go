package service

import "sync"

// UsageCounter counts command invocations by canonical name. Counts only ever
// grow and live for the process lifetime.
type UsageCounter struct {
	mu   sync.Mutex
	uses map[string]int
}

func NewUsageCounter() *UsageCounter {
	return &UsageCounter{uses: make(map[string]int)}
}

func (c *UsageCounter) Increment(name string) {
	c.mu.Lock()
	c.uses[name]++
	c.mu.Unlock()
}

func (c *UsageCounter) Count(name string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.uses[name]
}
