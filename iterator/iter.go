// Copyright (c) 2020, The Shale Authors.
// All rights reserved.
//
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package iterator provides interface and implementations to traverse
// sorted key/value pairs.
package iterator

// IteratorSeeker is the interface that wraps the 'iterator seeker'
// methods.
type IteratorSeeker interface {
	// Valid reports whether the iterator is positioned on a key/value
	// pair.
	Valid() bool

	// First moves the iterator to the first key/value pair and reports
	// whether such pair exists.
	First() bool

	// Last moves the iterator to the last key/value pair and reports
	// whether such pair exists.
	Last() bool

	// Seek moves the iterator to the first key/value pair whose key is
	// greater than or equal to the given key and reports whether such
	// pair exists. It is safe to modify the contents of the argument
	// after Seek returns.
	Seek(key []byte) bool

	// Next moves the iterator to the next key/value pair and reports
	// whether it exists. When the iterator is exhausted forward, Next
	// keeps returning false until the position is reestablished; when it
	// is exhausted backward, Next moves to the first pair.
	Next() bool

	// Prev is the reverse of Next.
	Prev() bool

	// Error returns any accumulated error. Exhausting the pairs is not
	// an error.
	Error() error

	// Release frees resources associated with the iterator. The
	// iterator must not be used afterwards.
	Release()
}

// Iterator iterates over sorted key/value pairs in key order.
//
// When a seeker method encounters an error it returns false and yields
// no pair; Error reports what went wrong. An iterator is not goroutine
// safe, but separate iterators are safe to use concurrently, each from
// its own goroutine.
type Iterator interface {
	IteratorSeeker

	// Key returns the key of the current pair, or nil if done. The
	// returned slice must not be modified and may change on the next
	// seeker call.
	Key() []byte

	// Value returns the value of the current pair, or nil if done. The
	// returned slice must not be modified and may change on the next
	// seeker call.
	Value() []byte
}

type emptyIterator struct {
	err      error
	released bool
}

func (*emptyIterator) Valid() bool          { return false }
func (*emptyIterator) First() bool          { return false }
func (*emptyIterator) Last() bool           { return false }
func (*emptyIterator) Seek(key []byte) bool { return false }
func (*emptyIterator) Next() bool           { return false }
func (*emptyIterator) Prev() bool           { return false }
func (*emptyIterator) Key() []byte          { return nil }
func (*emptyIterator) Value() []byte        { return nil }
func (i *emptyIterator) Error() error       { return i.err }
func (i *emptyIterator) Release()           { i.released = true }

// NewEmptyIterator creates an iterator with no pairs. If err is not nil
// it will be returned by the Error method.
func NewEmptyIterator(err error) Iterator {
	return &emptyIterator{err: err}
}
