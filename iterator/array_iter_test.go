// Copyright (c) 2020, The Shale Authors.
// All rights reserved.
//
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package iterator_test

import (
	. "github.com/onsi/ginkgo"

	"github.com/shaledb/shale/comparer"
	. "github.com/shaledb/shale/iterator"
	"github.com/shaledb/shale/testutil"
)

var _ = testutil.Defer(func() {
	Describe("Array iterator", func() {
		It("iterates and seeks correctly", func() {
			kv := testutil.KeyValue_Generate(nil, 70, 1, 5, 3, 3)
			t := testutil.IteratorTesting{
				KeyValue: kv.Clone(),
				Iter:     NewArrayIterator(kv, comparer.DefaultComparer),
			}
			testutil.DoIteratorTesting(&t)
		})
	})
})
