// Copyright (c) 2020, The Shale Authors.
// All rights reserved.
//
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package cache

import (
	"sync"
	"sync/atomic"
)

type lruKey struct {
	ns, key uint64
}

type lruNode struct {
	lruKey
	value  interface{}
	charge int

	prev, next *lruNode
}

func (n *lruNode) insert(at *lruNode) {
	n.prev = at
	n.next = at.next
	n.prev.next = n
	n.next.prev = n
}

func (n *lruNode) remove() {
	n.prev.next = n.next
	n.next.prev = n.prev
	n.prev = nil
	n.next = nil
}

// lru is a mutex-guarded LRU cache. The recent list is circular with
// root as sentinel; root.next is the most recently used node.
type lru struct {
	mu       sync.Mutex
	capacity int
	used     int
	root     lruNode
	table    map[lruKey]*lruNode

	id uint64
}

// NewLRU creates a Cache holding up to capacity charge units.
func NewLRU(capacity int) Cache {
	c := &lru{
		capacity: capacity,
		table:    make(map[lruKey]*lruNode),
	}
	c.root.prev = &c.root
	c.root.next = &c.root
	return c
}

func (c *lru) NewID() uint64 {
	return atomic.AddUint64(&c.id, 1)
}

func (c *lru) Get(ns, key uint64) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, ok := c.table[lruKey{ns, key}]
	if !ok {
		return nil, false
	}
	n.remove()
	n.insert(&c.root)
	return n.value, true
}

func (c *lru) Set(ns, key uint64, value interface{}, charge int) {
	if charge < 0 {
		charge = 0
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	k := lruKey{ns, key}
	if n, ok := c.table[k]; ok {
		c.used += charge - n.charge
		n.value = value
		n.charge = charge
		n.remove()
		n.insert(&c.root)
	} else {
		n := &lruNode{lruKey: k, value: value, charge: charge}
		c.table[k] = n
		n.insert(&c.root)
		c.used += charge
	}
	c.evict()
}

func (c *lru) Delete(ns, key uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, ok := c.table[lruKey{ns, key}]
	if !ok {
		return false
	}
	c.drop(n)
	return true
}

func (c *lru) EvictNS(ns uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for k, n := range c.table {
		if k.ns == ns {
			c.drop(n)
		}
	}
}

func (c *lru) Capacity() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.capacity
}

func (c *lru) SetCapacity(capacity int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.capacity = capacity
	c.evict()
}

// drop removes n entirely. Callers hold the mutex.
func (c *lru) drop(n *lruNode) {
	n.remove()
	delete(c.table, n.lruKey)
	c.used -= n.charge
}

// evict trims least recently used nodes until used fits capacity.
// Callers hold the mutex.
func (c *lru) evict() {
	for c.used > c.capacity && c.root.prev != &c.root {
		c.drop(c.root.prev)
	}
}
