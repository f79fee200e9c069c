// Copyright (c) 2020, The Shale Authors.
// All rights reserved.
//
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package cache

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLRU_SetGet(t *testing.T) {
	c := NewLRU(100)
	ns := c.NewID()
	c.Set(ns, 1, "one", 1)
	c.Set(ns, 2, "two", 1)

	v, ok := c.Get(ns, 1)
	require.True(t, ok)
	assert.Equal(t, "one", v)
	v, ok = c.Get(ns, 2)
	require.True(t, ok)
	assert.Equal(t, "two", v)
	_, ok = c.Get(ns, 3)
	assert.False(t, ok)
}

func TestLRU_NewID(t *testing.T) {
	c := NewLRU(100)
	seen := make(map[uint64]bool)
	for i := 0; i < 100; i++ {
		id := c.NewID()
		require.False(t, seen[id], "id %d handed out twice", id)
		seen[id] = true
	}
}

func TestLRU_NamespaceIsolation(t *testing.T) {
	c := NewLRU(100)
	ns1, ns2 := c.NewID(), c.NewID()
	c.Set(ns1, 1, "a", 1)
	c.Set(ns2, 1, "b", 1)

	v, ok := c.Get(ns1, 1)
	require.True(t, ok)
	assert.Equal(t, "a", v)
	v, ok = c.Get(ns2, 1)
	require.True(t, ok)
	assert.Equal(t, "b", v)

	c.EvictNS(ns1)
	_, ok = c.Get(ns1, 1)
	assert.False(t, ok, "evicted namespace still serves entries")
	v, ok = c.Get(ns2, 1)
	require.True(t, ok, "EvictNS crossed namespaces")
	assert.Equal(t, "b", v)
}

func TestLRU_Eviction(t *testing.T) {
	c := NewLRU(3)
	ns := c.NewID()
	c.Set(ns, 1, 1, 1)
	c.Set(ns, 2, 2, 1)
	c.Set(ns, 3, 3, 1)

	// Touch key 1 so key 2 becomes the least recently used.
	_, ok := c.Get(ns, 1)
	require.True(t, ok)

	c.Set(ns, 4, 4, 1)
	_, ok = c.Get(ns, 2)
	assert.False(t, ok, "least recently used entry survived eviction")
	for _, key := range []uint64{1, 3, 4} {
		_, ok := c.Get(ns, key)
		assert.True(t, ok, "key %d missing", key)
	}
}

func TestLRU_UpdateCharge(t *testing.T) {
	c := NewLRU(10)
	ns := c.NewID()
	c.Set(ns, 1, "a", 4)
	c.Set(ns, 1, "b", 9)

	v, ok := c.Get(ns, 1)
	require.True(t, ok)
	assert.Equal(t, "b", v)

	// The update freed the old charge; one more unit still fits.
	c.Set(ns, 2, "c", 1)
	_, ok = c.Get(ns, 1)
	assert.True(t, ok)
	_, ok = c.Get(ns, 2)
	assert.True(t, ok)
}

func TestLRU_OverCapacity(t *testing.T) {
	c := NewLRU(5)
	ns := c.NewID()
	c.Set(ns, 1, "big", 10)
	_, ok := c.Get(ns, 1)
	assert.False(t, ok, "entry larger than the whole cache was kept")
}

func TestLRU_Delete(t *testing.T) {
	c := NewLRU(100)
	ns := c.NewID()
	c.Set(ns, 1, "a", 1)

	assert.True(t, c.Delete(ns, 1))
	_, ok := c.Get(ns, 1)
	assert.False(t, ok)
	assert.False(t, c.Delete(ns, 1), "second delete found an entry")
}

func TestLRU_SetCapacity(t *testing.T) {
	c := NewLRU(4)
	ns := c.NewID()
	for key := uint64(1); key <= 4; key++ {
		c.Set(ns, key, key, 1)
	}

	c.SetCapacity(2)
	assert.Equal(t, 2, c.Capacity())
	for _, key := range []uint64{1, 2} {
		_, ok := c.Get(ns, key)
		assert.False(t, ok, "key %d should have been evicted by the shrink", key)
	}
	for _, key := range []uint64{3, 4} {
		_, ok := c.Get(ns, key)
		assert.True(t, ok, "key %d missing", key)
	}
}

func TestLRU_Concurrent(t *testing.T) {
	c := NewLRU(1000)
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ns := c.NewID()
			for i := 0; i < 1000; i++ {
				key := uint64(i % 100)
				c.Set(ns, key, i, 1)
				c.Get(ns, key)
				if i%250 == 0 {
					c.Delete(ns, key)
				}
			}
			c.EvictNS(ns)
		}()
	}
	wg.Wait()
}
