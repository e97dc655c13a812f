package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetMissOnEmptyCache(t *testing.T) {
	c := New(2, time.Minute)
	_, ok := c.Get("missing")
	assert.False(t, ok)
}

func TestSetThenGet(t *testing.T) {
	c := New(2, time.Minute)
	c.Set("a", 1)
	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)
}

func TestEvictsLeastRecentlyUsed(t *testing.T) {
	c := New(2, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Get("a") // a is now MRU, b is LRU
	c.Set("c", 3) // evicts b

	_, ok := c.Get("b")
	assert.False(t, ok)

	_, ok = c.Get("a")
	assert.True(t, ok)
	_, ok = c.Get("c")
	assert.True(t, ok)
}

func TestExpiredEntryIsEvictedOnGet(t *testing.T) {
	c := New(2, time.Millisecond)
	fixed := time.Now()
	c.now = func() time.Time { return fixed }
	c.Set("a", 1)

	c.now = func() time.Time { return fixed.Add(2 * time.Millisecond) }
	_, ok := c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestSetOverwritesRefreshesTTLAndPosition(t *testing.T) {
	c := New(2, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("a", 99) // a becomes MRU again
	c.Set("c", 3)  // should evict b, not a

	_, ok := c.Get("b")
	assert.False(t, ok)
	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 99, v)
}
