// Copyright (c) 2020, The Shale Authors.
// All rights reserved.
//
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package comparer provides interface and implementations for ordering
// sets of keys.
package comparer

// BasicComparer is the interface that wraps the basic Compare method.
type BasicComparer interface {
	// Compare returns -1, 0, or +1 depending on whether a is 'less
	// than', 'equal to' or 'greater than' b.
	Compare(a, b []byte) int
}

// Comparer defines a total ordering over keys plus the key-shortening
// helpers the table index uses to keep separator keys small.
type Comparer interface {
	BasicComparer

	// Name returns the name of the comparer. A table written with one
	// ordering must never be read with another, so the name must change
	// whenever the ordering does. Names starting with "leveldb." are
	// reserved.
	Name() string

	// Separator appends to dst a key k with a <= k < b, preferring a
	// short one, and returns the result. Returning nil tells the caller
	// to use a itself. a and b must not be modified.
	Separator(dst, a, b []byte) []byte

	// Successor appends to dst a key k with k >= b, preferring a short
	// one, and returns the result. Returning nil tells the caller to use
	// b itself. b must not be modified.
	Successor(dst, b []byte) []byte
}
