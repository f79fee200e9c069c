// Copyright (c) 2020, The Shale Authors.
// All rights reserved.
//
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package util

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// BufferPool recycles byte slices for transient block reads. A nil
// *BufferPool is valid and degrades to plain allocation.
type BufferPool struct {
	pool     sync.Pool
	baseline int

	get   uint32
	put   uint32
	reuse uint32
	miss  uint32
}

// NewBufferPool creates a buffer pool. Slices smaller than baseline are
// rounded up to baseline capacity so most blocks of a table fit a
// recycled buffer.
func NewBufferPool(baseline int) *BufferPool {
	return &BufferPool{baseline: baseline}
}

// Get returns a buffer with length n.
func (p *BufferPool) Get(n int) []byte {
	if p == nil {
		return make([]byte, n)
	}
	atomic.AddUint32(&p.get, 1)

	if v := p.pool.Get(); v != nil {
		b := *v.(*[]byte)
		if cap(b) >= n {
			atomic.AddUint32(&p.reuse, 1)
			return b[:n]
		}
	}
	atomic.AddUint32(&p.miss, 1)
	if n >= p.baseline {
		return make([]byte, n)
	}
	return make([]byte, n, p.baseline)
}

// Put returns a buffer to the pool. The caller must not use b afterwards.
func (p *BufferPool) Put(b []byte) {
	if p == nil || cap(b) == 0 {
		return
	}
	atomic.AddUint32(&p.put, 1)
	p.pool.Put(&b)
}

func (p *BufferPool) String() string {
	if p == nil {
		return "<nil>"
	}
	return fmt.Sprintf("BufferPool{B·%d G·%d P·%d R·%d M·%d}",
		p.baseline, atomic.LoadUint32(&p.get), atomic.LoadUint32(&p.put),
		atomic.LoadUint32(&p.reuse), atomic.LoadUint32(&p.miss))
}
