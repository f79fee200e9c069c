// Copyright (c) 2020, The Shale Authors.
// All rights reserved.
//
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package iterator

import (
	"sort"

	"github.com/shaledb/shale/comparer"
)

// Array is an ordered, fixed collection of key/value pairs addressable
// by position.
type Array interface {
	// Index returns the key/value pair at position i.
	Index(i int) (key, value []byte)

	// Len returns the number of pairs.
	Len() int
}

// ArrayIndexer is an Array whose entries open iterators over runs of
// data.
type ArrayIndexer interface {
	Array

	// Get returns the data iterator for the entry at position i.
	Get(i int) Iterator
}

type arrayIterator struct {
	array      Array
	indexer    ArrayIndexer
	cmp        comparer.BasicComparer
	pos        int
	key, value []byte
}

func (i *arrayIterator) setKV() {
	i.key, i.value = i.array.Index(i.pos)
}

func (i *arrayIterator) clearKV() {
	i.key = nil
	i.value = nil
}

func (i *arrayIterator) Valid() bool {
	return i.pos >= 0 && i.pos < i.array.Len()
}

func (i *arrayIterator) First() bool {
	if i.array.Len() == 0 {
		i.pos = -1
		i.clearKV()
		return false
	}
	i.pos = 0
	i.setKV()
	return true
}

func (i *arrayIterator) Last() bool {
	n := i.array.Len()
	if n == 0 {
		i.pos = 0
		i.clearKV()
		return false
	}
	i.pos = n - 1
	i.setKV()
	return true
}

func (i *arrayIterator) Seek(key []byte) bool {
	n := i.array.Len()
	if n == 0 {
		i.pos = 0
		i.clearKV()
		return false
	}
	i.pos = sort.Search(n, func(x int) bool {
		key_, _ := i.array.Index(x)
		return i.cmp.Compare(key_, key) >= 0
	})
	if i.pos >= n {
		i.clearKV()
		return false
	}
	i.setKV()
	return true
}

func (i *arrayIterator) Next() bool {
	i.pos++
	if n := i.array.Len(); i.pos >= n {
		i.pos = n
		i.clearKV()
		return false
	}
	i.setKV()
	return true
}

func (i *arrayIterator) Prev() bool {
	i.pos--
	if i.pos < 0 {
		i.pos = -1
		i.clearKV()
		return false
	}
	i.setKV()
	return true
}

func (i *arrayIterator) Key() []byte { return i.key }

func (i *arrayIterator) Value() []byte { return i.value }

func (i *arrayIterator) Get() (Iterator, error) {
	if i.indexer == nil || !i.Valid() {
		return nil, nil
	}
	return i.indexer.Get(i.pos), nil
}

func (i *arrayIterator) Error() error { return nil }

func (i *arrayIterator) Release() {}

// NewArrayIterator creates an iterator over array, whose keys must be
// in strictly increasing order as defined by cmp.
func NewArrayIterator(array Array, cmp comparer.BasicComparer) Iterator {
	return &arrayIterator{array: array, cmp: cmp, pos: -1}
}

// NewArrayIndexer creates an IteratorIndexer over the data iterators
// that array opens, with keys in strictly increasing order as defined
// by cmp.
func NewArrayIndexer(array ArrayIndexer, cmp comparer.BasicComparer) IteratorIndexer {
	return &arrayIterator{array: array, indexer: array, cmp: cmp, pos: -1}
}
