// Copyright (c) 2020, The Shale Authors.
// All rights reserved.
//
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package cache provides the block cache shared by table readers.
package cache

// Cache maps (namespace, key) pairs to values with an eviction policy
// bounded by a capacity in charge units. Namespaces let independent
// readers share one cache without key collisions; each reader draws its
// namespace from NewID.
//
// Implementations must be safe for concurrent use.
type Cache interface {
	// NewID returns a namespace id, distinct from every id this cache
	// handed out before.
	NewID() uint64

	// Get returns the value cached under ns/key, if any.
	Get(ns, key uint64) (value interface{}, ok bool)

	// Set caches value under ns/key, accounting charge units against
	// the capacity. A value too large for the whole cache is dropped
	// rather than cached.
	Set(ns, key uint64, value interface{}, charge int)

	// Delete evicts ns/key. It reports whether an entry was present.
	Delete(ns, key uint64) bool

	// EvictNS evicts every entry of the namespace.
	EvictNS(ns uint64)

	// Capacity returns the capacity in charge units.
	Capacity() int

	// SetCapacity changes the capacity, evicting entries as needed.
	SetCapacity(capacity int)
}
