// Copyright (c) 2020, The Shale Authors.
// All rights reserved.
//
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package iterator

import (
	"github.com/shaledb/shale/comparer"
	"github.com/shaledb/shale/util"
)

const (
	// Underlying position undefined, logically before the range.
	rangeSOI = iota
	// Parked on the entry just below Start.
	rangeSOIParked
	rangeValid
	// Parked on an entry at or past Limit.
	rangeEOIParked
	// Underlying position undefined, logically past the range.
	rangeEOI
)

// rangeIter clamps an ordered iterator to the half-open key range
// [Start, Limit). The underlying iterator is only ever moved one step
// past a bound, so Prev and Next recover across it cheaply.
type rangeIter struct {
	iter  Iterator
	cmp   comparer.BasicComparer
	start []byte
	limit []byte
	state int
}

// NewRangeIterator limits iter to the keys in slice. A nil slice or a
// slice with neither bound returns iter unchanged.
func NewRangeIterator(iter Iterator, slice *util.Range, cmp comparer.BasicComparer) Iterator {
	if slice == nil || (slice.Start == nil && slice.Limit == nil) {
		return iter
	}
	return &rangeIter{
		iter:  iter,
		cmp:   cmp,
		start: slice.Start,
		limit: slice.Limit,
	}
}

func (i *rangeIter) checkForward(ok bool) bool {
	if !ok {
		i.state = rangeEOI
		return false
	}
	if i.limit != nil && i.cmp.Compare(i.iter.Key(), i.limit) >= 0 {
		i.state = rangeEOIParked
		return false
	}
	i.state = rangeValid
	return true
}

func (i *rangeIter) checkBackward(ok bool) bool {
	if !ok {
		i.state = rangeSOI
		return false
	}
	if i.start != nil && i.cmp.Compare(i.iter.Key(), i.start) < 0 {
		i.state = rangeSOIParked
		return false
	}
	i.state = rangeValid
	return true
}

func (i *rangeIter) Valid() bool {
	return i.state == rangeValid && i.iter.Error() == nil
}

func (i *rangeIter) First() bool {
	if i.start == nil {
		return i.checkForward(i.iter.First())
	}
	return i.checkForward(i.iter.Seek(i.start))
}

func (i *rangeIter) Last() bool {
	if i.limit == nil {
		return i.checkBackward(i.iter.Last())
	}
	if i.iter.Seek(i.limit) {
		// Parked on the first entry at or past Limit; the range's last
		// entry is one step back.
		return i.checkBackward(i.iter.Prev())
	}
	if i.iter.Error() != nil {
		i.state = rangeEOI
		return false
	}
	return i.checkBackward(i.iter.Last())
}

func (i *rangeIter) Seek(key []byte) bool {
	if i.start != nil && i.cmp.Compare(key, i.start) < 0 {
		key = i.start
	}
	if i.limit != nil && i.cmp.Compare(key, i.limit) >= 0 {
		// Seeking past the range; park logically without dragging the
		// underlying iterator beyond the bound.
		i.state = rangeEOI
		return false
	}
	return i.checkForward(i.iter.Seek(key))
}

func (i *rangeIter) Next() bool {
	switch i.state {
	case rangeEOI, rangeEOIParked:
		return false
	case rangeSOI:
		return i.First()
	}
	return i.checkForward(i.iter.Next())
}

func (i *rangeIter) Prev() bool {
	switch i.state {
	case rangeSOI, rangeSOIParked:
		return false
	case rangeEOI:
		return i.Last()
	}
	return i.checkBackward(i.iter.Prev())
}

func (i *rangeIter) Key() []byte {
	if i.state != rangeValid {
		return nil
	}
	return i.iter.Key()
}

func (i *rangeIter) Value() []byte {
	if i.state != rangeValid {
		return nil
	}
	return i.iter.Value()
}

func (i *rangeIter) Error() error { return i.iter.Error() }
func (i *rangeIter) Release()     { i.iter.Release() }
