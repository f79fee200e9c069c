// Copyright (c) 2020, The Shale Authors.
// All rights reserved.
//
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package util

// Buffer is an append-only byte buffer. Unlike bytes.Buffer it can hand
// out an in-place window of its tail with Alloc, which lets callers fill
// fixed-size regions without an intermediate copy.
type Buffer struct {
	buf []byte
}

// Bytes returns the written bytes. The slice is only valid until the
// next modifying call.
func (b *Buffer) Bytes() []byte {
	return b.buf
}

// Len returns the number of written bytes.
func (b *Buffer) Len() int {
	return len(b.buf)
}

// Reset truncates the buffer to zero length, keeping the allocation.
func (b *Buffer) Reset() {
	b.buf = b.buf[:0]
}

// Alloc extends the buffer by n bytes and returns the extension. The
// returned slice is zeroed only if the underlying memory is fresh;
// callers are expected to overwrite it entirely.
func (b *Buffer) Alloc(n int) []byte {
	m := len(b.buf)
	if m+n > cap(b.buf) {
		b.grow(n)
	}
	b.buf = b.buf[:m+n]
	return b.buf[m:]
}

// Write appends p, growing the buffer as needed. The error is always nil;
// it exists to satisfy io.Writer.
func (b *Buffer) Write(p []byte) (int, error) {
	copy(b.Alloc(len(p)), p)
	return len(p), nil
}

// WriteByte appends c. The error is always nil.
func (b *Buffer) WriteByte(c byte) error {
	b.Alloc(1)[0] = c
	return nil
}

func (b *Buffer) grow(n int) {
	buf := make([]byte, len(b.buf), 2*cap(b.buf)+n)
	copy(buf, b.buf)
	b.buf = buf
}
