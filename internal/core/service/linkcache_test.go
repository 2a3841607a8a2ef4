package service

import (
	"testing"

	"botkit/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinkCacheDisabled(t *testing.T) {
	cache := NewLinkCache(0)

	assert.False(t, cache.Enabled())

	cache.Link("1", domain.MessageRef{ID: "a"})
	assert.Nil(t, cache.Take("1"))
}

func TestLinkCacheMergesCollidingTrigger(t *testing.T) {
	cache := NewLinkCache(4)

	cache.Link("1", domain.MessageRef{ID: "a"})
	cache.Link("1", domain.MessageRef{ID: "b"})

	refs := cache.Take("1")
	require.Len(t, refs, 2)
	assert.Equal(t, "a", refs[0].ID)
	assert.Equal(t, "b", refs[1].ID)
}

func TestLinkCacheTakeRemoves(t *testing.T) {
	cache := NewLinkCache(4)

	cache.Link("1", domain.MessageRef{ID: "a"})

	require.Len(t, cache.Take("1"), 1)
	assert.Nil(t, cache.Take("1"))
}

func TestLinkCacheEvictsOldest(t *testing.T) {
	cache := NewLinkCache(2)

	cache.Link("1", domain.MessageRef{ID: "a"})
	cache.Link("2", domain.MessageRef{ID: "b"})
	cache.Link("3", domain.MessageRef{ID: "c"})

	assert.Nil(t, cache.Take("1"))
	assert.Len(t, cache.Take("2"), 1)
	assert.Len(t, cache.Take("3"), 1)
}

func TestLinkCacheMergeDoesNotEvict(t *testing.T) {
	cache := NewLinkCache(2)

	cache.Link("1", domain.MessageRef{ID: "a"})
	cache.Link("2", domain.MessageRef{ID: "b"})
	cache.Link("2", domain.MessageRef{ID: "c"})

	assert.Len(t, cache.Take("1"), 1)
	assert.Len(t, cache.Take("2"), 2)
}
