// Copyright (c) 2020, The Shale Authors.
// All rights reserved.
//
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package iterator_test

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/shaledb/shale/comparer"
	. "github.com/shaledb/shale/iterator"
	"github.com/shaledb/shale/testutil"
	"github.com/shaledb/shale/util"
)

var _ = testutil.Defer(func() {
	Describe("Range iterator", func() {
		kv := testutil.KeyValue_Generate(nil, 50, 2, 10, 3, 6)

		Test := func(name string, r *util.Range) {
			It("iterates and seeks correctly "+name, func() {
				t := testutil.IteratorTesting{
					KeyValue: kv.SliceRange(r),
					Iter: NewRangeIterator(
						NewArrayIterator(kv, comparer.DefaultComparer),
						r, comparer.DefaultComparer),
				}
				testutil.DoIteratorTesting(&t)
			})
		}

		both := kv.Range(10, 40)
		startOnly := kv.Range(10, 50)
		limitKey, _ := kv.Index(30)
		startKey, _ := kv.Index(5)
		lastKey, _ := kv.Index(49)
		empty := kv.Range(20, 20)

		Test("with both bounds", &both)
		Test("with only a start bound", &startOnly)
		Test("with only a limit bound", &util.Range{Limit: limitKey})
		Test("with a limit past the last key", &util.Range{Start: startKey, Limit: testutil.BytesAfter(lastKey)})
		Test("with an empty range", &empty)

		It("passes the source through when the range is unbounded", func() {
			i := NewArrayIterator(kv, comparer.DefaultComparer)
			Expect(NewRangeIterator(i, nil, comparer.DefaultComparer)).Should(BeIdenticalTo(i))
			Expect(NewRangeIterator(i, &util.Range{}, comparer.DefaultComparer)).Should(BeIdenticalTo(i))
		})
	})
})
