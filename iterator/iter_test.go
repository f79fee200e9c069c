// Copyright (c) 2020, The Shale Authors.
// All rights reserved.
//
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package iterator_test

import (
	"errors"
	"testing"

	. "github.com/shaledb/shale/iterator"
)

func TestEmptyIterator(t *testing.T) {
	it := NewEmptyIterator(nil)
	for i, ok := range []bool{it.First(), it.Last(), it.Seek([]byte("a")), it.Next(), it.Prev(), it.Valid()} {
		if ok {
			t.Errorf("op #%d reported a pair on an empty iterator", i)
		}
	}
	if key := it.Key(); key != nil {
		t.Errorf("Key() = %q, want nil", key)
	}
	if value := it.Value(); value != nil {
		t.Errorf("Value() = %q, want nil", value)
	}
	if err := it.Error(); err != nil {
		t.Errorf("Error() = %v, want nil", err)
	}
	it.Release()

	errStub := errors.New("missing table")
	it = NewEmptyIterator(errStub)
	if it.Next() {
		t.Error("Next succeeded on an erroring empty iterator")
	}
	if err := it.Error(); err != errStub {
		t.Errorf("Error() = %v, want %v", err, errStub)
	}
}
