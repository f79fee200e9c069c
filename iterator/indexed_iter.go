// Copyright (c) 2020, The Shale Authors.
// All rights reserved.
//
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package iterator

// IteratorIndexer is an iterator over an index whose entries point at
// runs of actual data.
type IteratorIndexer interface {
	IteratorSeeker

	// Get returns the data iterator for the current index entry.
	Get() (Iterator, error)
}

// IndexedIterator chains an index iterator and the data iterators its
// entries point at into one flat iterator.
type IndexedIterator struct {
	index IteratorIndexer
	data  Iterator
	err   error
}

// NewIndexedIterator creates an iterator over the data behind index.
func NewIndexedIterator(index IteratorIndexer) *IndexedIterator {
	return &IndexedIterator{index: index}
}

func (i *IndexedIterator) Valid() bool {
	return i.data != nil && i.data.Valid()
}

func (i *IndexedIterator) First() bool {
	if i.err != nil {
		return false
	}
	if !i.index.First() || !i.setData() {
		i.clearData()
		return false
	}
	return i.Next()
}

func (i *IndexedIterator) Last() bool {
	if i.err != nil {
		return false
	}
	if !i.index.Last() || !i.setData() {
		i.clearData()
		return false
	}
	if !i.data.Last() {
		if i.dataErr() {
			return false
		}
		// Nothing behind this index entry, keep going backward.
		i.clearData()
		return i.Prev()
	}
	return true
}

func (i *IndexedIterator) Seek(key []byte) bool {
	if i.err != nil {
		return false
	}
	if !i.index.Seek(key) || !i.setData() {
		i.clearData()
		return false
	}
	if !i.data.Seek(key) {
		if i.dataErr() {
			return false
		}
		// The sought key sits between this run's last key and the next
		// run; the answer is the next run's first entry.
		return i.Next()
	}
	return true
}

func (i *IndexedIterator) Next() bool {
	if i.err != nil {
		return false
	}
	if i.data == nil || !i.data.Next() {
		if i.data != nil && i.dataErr() {
			return false
		}
		if !i.index.Next() || !i.setData() {
			i.clearData()
			return false
		}
		return i.Next()
	}
	return true
}

func (i *IndexedIterator) Prev() bool {
	if i.err != nil {
		return false
	}
	if i.data == nil || !i.data.Prev() {
		if i.data != nil && i.dataErr() {
			return false
		}
		if !i.index.Prev() || !i.setData() {
			i.clearData()
			return false
		}
		if !i.data.Last() {
			if i.dataErr() {
				return false
			}
			i.clearData()
			return i.Prev()
		}
	}
	return true
}

func (i *IndexedIterator) Key() []byte {
	if i.data == nil {
		return nil
	}
	return i.data.Key()
}

func (i *IndexedIterator) Value() []byte {
	if i.data == nil {
		return nil
	}
	return i.data.Value()
}

func (i *IndexedIterator) Release() {
	i.clearData()
	i.index.Release()
}

func (i *IndexedIterator) Error() error {
	switch {
	case i.err != nil:
		return i.err
	case i.index.Error() != nil:
		return i.index.Error()
	case i.data != nil && i.data.Error() != nil:
		return i.data.Error()
	}
	return nil
}

func (i *IndexedIterator) setData() bool {
	i.clearData()
	i.data, i.err = i.index.Get()
	return i.err == nil
}

func (i *IndexedIterator) clearData() {
	if i.data != nil {
		i.data.Release()
	}
	i.data = nil
}

// dataErr latches an error from the data iterator so that advancing over
// an exhausted run cannot swallow a failed one.
func (i *IndexedIterator) dataErr() bool {
	if err := i.data.Error(); err != nil {
		i.err = err
		return true
	}
	return false
}
