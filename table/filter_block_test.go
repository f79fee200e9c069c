// Copyright (c) 2020, The Shale Authors.
// All rights reserved.
//
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package table

import (
	"encoding/binary"
	"io"
	"testing"

	"github.com/shaledb/shale/filter"
	"github.com/shaledb/shale/util"
)

// hashFilter records the 4-byte hash of every key, which makes filter
// contents predictable: a key matches iff it was added to the span.
type hashFilter struct{}

func (hashFilter) Name() string { return "shale.test.HashFilter" }

func (hashFilter) CreateFilter(keys [][]byte, buf io.Writer) {
	var b [4]byte
	for _, key := range keys {
		binary.LittleEndian.PutUint32(b[:], util.Hash(key, 1))
		buf.Write(b[:])
	}
}

func (hashFilter) KeyMayMatch(key, filter []byte) bool {
	h := util.Hash(key, 1)
	for i := 0; i+4 <= len(filter); i += 4 {
		if h == binary.LittleEndian.Uint32(filter[i:]) {
			return true
		}
	}
	return false
}

// countingFilter wraps a filter and counts KeyMayMatch calls.
type countingFilter struct {
	filter.Filter
	probes int
}

func (f *countingFilter) KeyMayMatch(key, filter []byte) bool {
	f.probes++
	return f.Filter.KeyMayMatch(key, filter)
}

func TestFilterBlockEmpty(t *testing.T) {
	b := NewFilterBlockBuilder(hashFilter{})
	block := b.Finish()
	if got, want := string(block), "\x00\x00\x00\x00\x0b"; got != want {
		t.Fatalf("empty filter block = %q, want %q", got, want)
	}

	r := NewFilterBlockReader(hashFilter{}, block)
	if !r.KeyMayMatch(0, []byte("foo")) {
		t.Errorf("KeyMayMatch(0) = false, want true")
	}
	if !r.KeyMayMatch(100000, []byte("foo")) {
		t.Errorf("KeyMayMatch(100000) = false, want true")
	}
}

func TestFilterBlockSingleChunk(t *testing.T) {
	b := NewFilterBlockBuilder(hashFilter{})
	b.StartBlock(100)
	b.AddKey([]byte("foo"))
	b.AddKey([]byte("bar"))
	b.AddKey([]byte("box"))
	b.StartBlock(200)
	b.AddKey([]byte("box"))
	b.StartBlock(300)
	b.AddKey([]byte("hello"))
	block := b.Finish()

	r := NewFilterBlockReader(hashFilter{}, block)
	for _, key := range []string{"foo", "bar", "box", "hello"} {
		if !r.KeyMayMatch(100, []byte(key)) {
			t.Errorf("KeyMayMatch(100, %q) = false, want true", key)
		}
	}
	for _, key := range []string{"missing", "other"} {
		if r.KeyMayMatch(100, []byte(key)) {
			t.Errorf("KeyMayMatch(100, %q) = true, want false", key)
		}
	}
	// Past the last span everything may match.
	if !r.KeyMayMatch(100000, []byte("missing")) {
		t.Errorf("KeyMayMatch(100000, missing) = false, want true")
	}
}

func TestFilterBlockMultiChunk(t *testing.T) {
	b := NewFilterBlockBuilder(hashFilter{})

	// First filter: blocks at 0 and 2000 share the first 2KiB span.
	b.StartBlock(0)
	b.AddKey([]byte("foo"))
	b.StartBlock(2000)
	b.AddKey([]byte("bar"))

	// Second filter.
	b.StartBlock(3100)
	b.AddKey([]byte("box"))

	// Third and fourth filters are empty.

	// Last filter.
	b.StartBlock(9000)
	b.AddKey([]byte("box"))
	b.AddKey([]byte("hello"))

	block := b.Finish()
	r := NewFilterBlockReader(hashFilter{}, block)

	// First filter.
	if !r.KeyMayMatch(0, []byte("foo")) {
		t.Errorf("first filter misses foo")
	}
	if !r.KeyMayMatch(2000, []byte("bar")) {
		t.Errorf("first filter misses bar")
	}
	if r.KeyMayMatch(0, []byte("box")) {
		t.Errorf("first filter wrongly matches box")
	}
	if r.KeyMayMatch(0, []byte("hello")) {
		t.Errorf("first filter wrongly matches hello")
	}

	// Second filter.
	if !r.KeyMayMatch(3100, []byte("box")) {
		t.Errorf("second filter misses box")
	}
	for _, key := range []string{"foo", "bar", "hello"} {
		if r.KeyMayMatch(3100, []byte(key)) {
			t.Errorf("second filter wrongly matches %q", key)
		}
	}

	// Empty filter: nothing can be in a span without keys.
	for _, key := range []string{"foo", "bar", "box", "hello"} {
		if r.KeyMayMatch(4100, []byte(key)) {
			t.Errorf("empty filter wrongly matches %q", key)
		}
	}

	// Last filter.
	if !r.KeyMayMatch(9000, []byte("box")) {
		t.Errorf("last filter misses box")
	}
	if !r.KeyMayMatch(9000, []byte("hello")) {
		t.Errorf("last filter misses hello")
	}
	for _, key := range []string{"foo", "bar"} {
		if r.KeyMayMatch(9000, []byte(key)) {
			t.Errorf("last filter wrongly matches %q", key)
		}
	}
}

func TestFilterBlockEmptyFilterSkipsPolicy(t *testing.T) {
	b := NewFilterBlockBuilder(hashFilter{})
	b.StartBlock(0)
	b.AddKey([]byte("foo"))
	b.StartBlock(3 * filterBase)
	b.AddKey([]byte("bar"))
	block := b.Finish()

	cf := &countingFilter{Filter: hashFilter{}}
	r := NewFilterBlockReader(cf, block)
	if r.KeyMayMatch(filterBase, []byte("foo")) {
		t.Errorf("empty filter wrongly matches foo")
	}
	if cf.probes != 0 {
		t.Errorf("policy probed %d times for an empty filter, want 0", cf.probes)
	}
	if !r.KeyMayMatch(0, []byte("foo")) {
		t.Errorf("first filter misses foo")
	}
	if cf.probes != 1 {
		t.Errorf("policy probed %d times, want 1", cf.probes)
	}
}

func TestFilterBlockLayout(t *testing.T) {
	b := NewFilterBlockBuilder(hashFilter{})
	b.StartBlock(0)
	b.AddKey([]byte("foo"))
	b.AddKey([]byte("bar"))
	b.StartBlock(3100)
	b.AddKey([]byte("box"))
	block := b.Finish()

	// Two 4-byte hashes, one 4-byte hash, then two offset entries, the
	// offset array position and the base lg.
	if got, want := len(block), 8+4+2*4+4+1; got != want {
		t.Fatalf("block length = %d, want %d", got, want)
	}
	if got := block[len(block)-1]; got != filterBaseLg {
		t.Errorf("base lg byte = %d, want %d", got, filterBaseLg)
	}
	arrayOffset := binary.LittleEndian.Uint32(block[len(block)-5:])
	if got, want := arrayOffset, uint32(12); got != want {
		t.Errorf("offset array position = %d, want %d", got, want)
	}
	offsets := make([]uint32, 2)
	for i := range offsets {
		offsets[i] = binary.LittleEndian.Uint32(block[int(arrayOffset)+i*4:])
	}
	if offsets[0] != 0 || offsets[1] != 8 {
		t.Errorf("filter offsets = %v, want [0 8]", offsets)
	}
}

func TestFilterBlockReaderGarbage(t *testing.T) {
	key := []byte("foo")

	// Too short to carry the offset array position and base lg.
	for _, data := range [][]byte{nil, {}, {0x0b}, {0, 0, 0, 0}} {
		r := NewFilterBlockReader(hashFilter{}, data)
		if !r.KeyMayMatch(0, key) {
			t.Errorf("reader on %d bytes of garbage rejects keys", len(data))
		}
	}

	// Offset array position beyond the block.
	data := make([]byte, 9)
	binary.LittleEndian.PutUint32(data[4:], 100)
	data[8] = filterBaseLg
	r := NewFilterBlockReader(hashFilter{}, data)
	if !r.KeyMayMatch(0, key) {
		t.Errorf("reader with out of range offset array rejects keys")
	}
}

func TestFilterBlockReaderCorruptEntries(t *testing.T) {
	key := []byte("foo")

	build := func(filters []byte, offsets []uint32, arrayOffset uint32) []byte {
		var buf util.Buffer
		buf.Write(filters)
		for _, off := range offsets {
			binary.LittleEndian.PutUint32(buf.Alloc(4), off)
		}
		binary.LittleEndian.PutUint32(buf.Alloc(4), arrayOffset)
		buf.WriteByte(filterBaseLg)
		return buf.Bytes()
	}

	filters := make([]byte, 8)
	binary.LittleEndian.PutUint32(filters, util.Hash(key, 1))

	// Start beyond limit.
	r := NewFilterBlockReader(hashFilter{}, build(filters, []uint32{8, 4}, 8))
	if !r.KeyMayMatch(0, key) {
		t.Errorf("start > limit rejects keys, want fail open")
	}

	// Limit beyond the filter bytes.
	r = NewFilterBlockReader(hashFilter{}, build(filters, []uint32{0, 100}, 8))
	if !r.KeyMayMatch(0, key) {
		t.Errorf("limit out of range rejects keys, want fail open")
	}

	// Intact entry still answers from the filter bytes.
	r = NewFilterBlockReader(hashFilter{}, build(filters, []uint32{0, 4}, 8))
	if !r.KeyMayMatch(0, key) {
		t.Errorf("intact entry misses its key")
	}
	if r.KeyMayMatch(0, []byte("missing")) {
		t.Errorf("intact entry matches a missing key")
	}
}
