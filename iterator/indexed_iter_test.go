// Copyright (c) 2020, The Shale Authors.
// All rights reserved.
//
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package iterator_test

import (
	"errors"
	"strings"
	"testing"

	. "github.com/onsi/ginkgo"

	"github.com/shaledb/shale/comparer"
	. "github.com/shaledb/shale/iterator"
	"github.com/shaledb/shale/testutil"
)

// section is one index entry: the largest key of a run and a way to
// open an iterator over that run.
type section struct {
	key  []byte
	open func() Iterator
}

type sectionIndex []section

func (x sectionIndex) Len() int                        { return len(x) }
func (x sectionIndex) Index(i int) (key, value []byte) { return x[i].key, nil }
func (x sectionIndex) Get(i int) Iterator              { return x[i].open() }

var _ = testutil.Defer(func() {
	Describe("Indexed iterator", func() {
		Test := func(n ...int) func() {
			if len(n) == 0 {
				rnd := testutil.NewRand()
				n = make([]int, rnd.Intn(17)+3)
				for i := range n {
					n[i] = rnd.Intn(19) + 1
				}
			}
			return func() {
				It("iterates and seeks correctly", func(done Done) {
					sum := 0
					for _, x := range n {
						sum += x
					}
					kv := testutil.KeyValue_Generate(nil, sum, 2, 20, 3, 3)

					index := make(sectionIndex, len(n))
					for i, j := 0, 0; i < len(n); i++ {
						skv := &testutil.KeyValue{}
						var last []byte
						for x := n[i]; x > 0; x-- {
							key, value := kv.Index(j)
							skv.Put(key, value)
							last = key
							j++
						}
						index[i] = section{
							key:  last,
							open: func() Iterator { return NewArrayIterator(skv, comparer.DefaultComparer) },
						}
					}

					t := testutil.IteratorTesting{
						KeyValue: kv.Clone(),
						Iter:     NewIndexedIterator(NewArrayIndexer(index, comparer.DefaultComparer)),
					}
					testutil.DoIteratorTesting(&t)
					done <- true
				}, 15.0)
			}
		}

		Describe("with 100 keys", Test(100))
		Describe("with 50-50 keys", Test(50, 50))
		Describe("with 50-1 keys", Test(50, 1))
		Describe("with 50-1-50 keys", Test(50, 1, 50))
		Describe("with 1-50 keys", Test(1, 50))
		Describe("with random N-keys", Test())
	})
})

// brokenIterator yields nothing and reports a fixed error, standing in
// for a data run that cannot be read.
type brokenIterator struct{ err error }

func (i *brokenIterator) Valid() bool          { return false }
func (i *brokenIterator) First() bool          { return false }
func (i *brokenIterator) Last() bool           { return false }
func (i *brokenIterator) Seek(key []byte) bool { return false }
func (i *brokenIterator) Next() bool           { return false }
func (i *brokenIterator) Prev() bool           { return false }
func (i *brokenIterator) Key() []byte          { return nil }
func (i *brokenIterator) Value() []byte        { return nil }
func (i *brokenIterator) Error() error         { return i.err }
func (i *brokenIterator) Release()             {}

func TestIndexedIteratorDataError(t *testing.T) {
	errBroken := errors.New("broken run")

	front := &testutil.KeyValue{}
	front.PutString("a1", "v1")
	front.PutString("a2", "v2")
	back := &testutil.KeyValue{}
	back.PutString("c1", "v3")

	index := sectionIndex{
		{key: []byte("a2"), open: func() Iterator {
			return NewArrayIterator(front, comparer.DefaultComparer)
		}},
		{key: []byte("b"), open: func() Iterator {
			return &brokenIterator{err: errBroken}
		}},
		{key: []byte("c1"), open: func() Iterator {
			return NewArrayIterator(back, comparer.DefaultComparer)
		}},
	}

	it := NewIndexedIterator(NewArrayIndexer(index, comparer.DefaultComparer))
	var keys []string
	for it.Next() {
		keys = append(keys, string(it.Key()))
	}
	if got, want := strings.Join(keys, ","), "a1,a2"; got != want {
		t.Errorf("keys before failure: got %q, want %q", got, want)
	}
	if err := it.Error(); err != errBroken {
		t.Fatalf("Error() = %v, want %v", err, errBroken)
	}
	if it.Next() {
		t.Error("Next succeeded after an error")
	}
	if err := it.Error(); err != errBroken {
		t.Errorf("error not retained: %v", err)
	}
	it.Release()
}
