// Copyright (c) 2020, The Shale Authors.
// All rights reserved.
//
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package filter provides approximate-membership filters for table
// files. A filter summarizes a set of keys into a few bytes; querying it
// can say "definitely absent" cheaply, cutting the disk reads a lookup
// of a missing key would otherwise pay for.
//
// Most users want the builtin bloom filter, NewBloomFilter(10).
package filter

import "io"

// Filter builds and queries key-set summaries. Implementations must be
// stateless and safe for concurrent use.
type Filter interface {
	// Name identifies the filter encoding inside table files. A reader
	// only applies a stored filter when the name matches, so the name
	// must change whenever the encoding changes incompatibly.
	Name() string

	// CreateFilter writes to buf a filter summarizing keys, which may
	// contain duplicates. Writes to buf never fail.
	CreateFilter(keys [][]byte, buf io.Writer)

	// KeyMayMatch reports whether key may be in the set a preceding
	// CreateFilter call summarized into filter. It must return true for
	// every key that was in the set; for other keys it should return
	// false with high probability.
	KeyMayMatch(key, filter []byte) bool
}
