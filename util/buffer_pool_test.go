// Copyright (c) 2020, The Shale Authors.
// All rights reserved.
//
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package util

import "testing"

func TestBufferPoolNil(t *testing.T) {
	var p *BufferPool
	b := p.Get(10)
	if len(b) != 10 {
		t.Fatalf("Get(10) on a nil pool: len %d", len(b))
	}
	p.Put(b)
	if got, want := p.String(), "<nil>"; got != want {
		t.Errorf("String = %q, want %q", got, want)
	}
}

func TestBufferPoolGet(t *testing.T) {
	p := NewBufferPool(100)
	b := p.Get(10)
	if len(b) != 10 {
		t.Fatalf("Get(10): len %d", len(b))
	}
	if cap(b) < 100 {
		t.Errorf("small buffer not rounded up to the baseline: cap %d", cap(b))
	}
	big := p.Get(1000)
	if len(big) != 1000 {
		t.Fatalf("Get(1000): len %d", len(big))
	}
	p.Put(b)
	p.Put(big)
}

func BenchmarkBufferPool(b *testing.B) {
	const n = 100
	pool := NewBufferPool(n)

	for i := 0; i < b.N; i++ {
		buf := pool.Get(n)
		pool.Put(buf)
	}
}
