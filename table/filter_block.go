// Copyright (c) 2020, The Shale Authors.
// All rights reserved.
//
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package table

import (
	"encoding/binary"

	"github.com/shaledb/shale/filter"
	"github.com/shaledb/shale/internal/dbg"
	"github.com/shaledb/shale/util"
)

// FilterBlockBuilder accumulates the keys of a table under construction
// and emits its filter block. Keys pool per 2KiB span of data block
// offsets; the writer announces each new data block with StartBlock and
// the builder generates one filter per span crossed, empty filters
// included, so a span index maps straight into the offset table.
//
// The call sequence is StartBlock, any number of AddKey, repeated, then
// one Finish. A builder is for a single table; it is not reusable and
// not safe for concurrent use.
type FilterBlockBuilder struct {
	policy filter.Filter

	keys    []byte   // pending keys, back to back
	starts  []int    // start of each pending key within keys
	scratch [][]byte // key slices handed to the policy
	result  util.Buffer
	offsets []uint32 // start of each generated filter within result
}

// NewFilterBlockBuilder creates a builder generating filters with
// policy.
func NewFilterBlockBuilder(policy filter.Filter) *FilterBlockBuilder {
	return &FilterBlockBuilder{policy: policy}
}

// StartBlock opens the span containing the data block that begins at
// blockOffset. Offsets must not go backwards across calls; a violation
// is a bug in the caller and leaves the builder unchanged.
func (b *FilterBlockBuilder) StartBlock(blockOffset uint64) {
	index := blockOffset / filterBase
	if dbg.On && index < uint64(len(b.offsets)) {
		dbg.Failf("table: filter span %d after span %d was generated", index, len(b.offsets)-1)
	}
	for index > uint64(len(b.offsets)) {
		b.generate()
	}
}

// AddKey schedules key for the current span's filter. The bytes are
// copied; it is safe to modify key after AddKey returns.
func (b *FilterBlockBuilder) AddKey(key []byte) {
	b.starts = append(b.starts, len(b.keys))
	b.keys = append(b.keys, key...)
}

// generate closes the current span: it records where the span's filter
// starts and, if any keys are pending, has the policy summarize them.
// A span without keys costs nothing but its offset table entry.
func (b *FilterBlockBuilder) generate() {
	b.offsets = append(b.offsets, uint32(b.result.Len()))
	if len(b.starts) == 0 {
		return
	}

	b.starts = append(b.starts, len(b.keys)) // sentinel
	if b.scratch == nil {
		b.scratch = make([][]byte, 0, len(b.starts)-1)
	}
	for i := 0; i+1 < len(b.starts); i++ {
		b.scratch = append(b.scratch, b.keys[b.starts[i]:b.starts[i+1]])
	}
	b.policy.CreateFilter(b.scratch, &b.result)

	b.keys = b.keys[:0]
	b.starts = b.starts[:0]
	b.scratch = b.scratch[:0]
}

// Finish generates the filter for any keys still pending and appends
// the offset table, its position and the base-lg byte. It returns the
// complete filter block. The builder must not be used afterwards.
func (b *FilterBlockBuilder) Finish() []byte {
	if len(b.starts) > 0 {
		b.generate()
	}
	arrayOffset := uint32(b.result.Len())
	for _, offset := range b.offsets {
		binary.LittleEndian.PutUint32(b.result.Alloc(4), offset)
	}
	binary.LittleEndian.PutUint32(b.result.Alloc(4), arrayOffset)
	b.result.WriteByte(filterBaseLg)
	return b.result.Bytes()
}

// FilterBlockReader answers membership queries against a serialized
// filter block. A filter exists to rule out disk reads, never to rule
// out keys that might exist, so whenever the reader cannot make sense
// of its input it degrades to answering "may match" instead of
// reporting an error.
type FilterBlockReader struct {
	policy filter.Filter
	data   []byte
	offset int  // start of the offset table
	n      int  // number of filters
	baseLg uint // span granularity shift
}

// NewFilterBlockReader creates a reader for a filter block built with
// the same policy. The data slice is retained, not copied; the caller
// keeps it alive and unmodified for the reader's lifetime. Construction
// never fails: unusable input yields a reader that matches everything.
func NewFilterBlockReader(policy filter.Filter, data []byte) *FilterBlockReader {
	r := &FilterBlockReader{policy: policy}
	if len(data) < 5 {
		return r
	}
	arrayOffset := binary.LittleEndian.Uint32(data[len(data)-5:])
	if arrayOffset > uint32(len(data)-5) {
		return r
	}
	r.data = data
	r.offset = int(arrayOffset)
	r.n = (len(data) - 5 - r.offset) / 4
	r.baseLg = uint(data[len(data)-1])
	return r
}

// KeyMayMatch reports whether key may be present in the data block
// beginning at blockOffset. False is definitive; true means the data
// block has to be consulted.
func (r *FilterBlockReader) KeyMayMatch(blockOffset uint64, key []byte) bool {
	index := blockOffset >> r.baseLg
	if index >= uint64(r.n) {
		return true
	}

	o := r.offset + int(index)*4
	start := binary.LittleEndian.Uint32(r.data[o:])
	// The bound of the last filter is the offset table's own position,
	// which sits right after the last entry.
	limit := binary.LittleEndian.Uint32(r.data[o+4:])
	switch {
	case start > limit || limit > uint32(r.offset):
		// Broken entry; err on the side of a match.
		return true
	case start == limit:
		// The span had no keys, so no key can be in it.
		return false
	}
	return r.policy.KeyMayMatch(key, r.data[start:limit])
}
