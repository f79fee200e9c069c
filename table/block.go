// Copyright (c) 2020, The Shale Authors.
// All rights reserved.
//
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package table

import (
	"encoding/binary"
	"sort"

	"github.com/shaledb/shale/comparer"
	"github.com/shaledb/shale/errors"
	"github.com/shaledb/shale/util"
)

func sharedPrefixLen(a, b []byte) int {
	i, n := 0, len(a)
	if n > len(b) {
		n = len(b)
	}
	for i < n && a[i] == b[i] {
		i++
	}
	return i
}

type blockWriter struct {
	restartInterval int
	buf             util.Buffer
	nEntries        int
	prevKey         []byte
	restarts        []uint32
	scratch         []byte
}

func (w *blockWriter) append(key, value []byte) {
	nShared := 0
	if w.nEntries%w.restartInterval == 0 {
		w.restarts = append(w.restarts, uint32(w.buf.Len()))
	} else {
		nShared = sharedPrefixLen(w.prevKey, key)
	}
	n := binary.PutUvarint(w.scratch[0:], uint64(nShared))
	n += binary.PutUvarint(w.scratch[n:], uint64(len(key)-nShared))
	n += binary.PutUvarint(w.scratch[n:], uint64(len(value)))
	w.buf.Write(w.scratch[:n])
	w.buf.Write(key[nShared:])
	w.buf.Write(value)
	w.prevKey = append(w.prevKey[:0], key...)
	w.nEntries++
}

func (w *blockWriter) finish() {
	// Must have at least one restart entry.
	if w.nEntries == 0 {
		w.restarts = append(w.restarts, 0)
	}
	for _, x := range w.restarts {
		binary.LittleEndian.PutUint32(w.buf.Alloc(4), x)
	}
	binary.LittleEndian.PutUint32(w.buf.Alloc(4), uint32(len(w.restarts)))
}

func (w *blockWriter) reset() {
	w.buf.Reset()
	w.nEntries = 0
	w.restarts = w.restarts[:0]
}

func (w *blockWriter) bytesLen() int {
	restartsLen := len(w.restarts)
	if restartsLen == 0 {
		restartsLen = 1
	}
	return w.buf.Len() + 4*restartsLen + 4
}

// blockReader holds a decoded block: the entry region up to
// restartsOffset, then restartsLen uint32 restart points, then the
// restart count.
type blockReader struct {
	cmp            comparer.BasicComparer
	bh             blockHandle
	data           []byte
	restartsLen    int
	restartsOffset int
}

func newBlockReader(cmp comparer.BasicComparer, bh blockHandle, data []byte) (*blockReader, error) {
	if len(data) < 4 {
		return nil, errors.NewErrCorrupted("block", int64(bh.offset), "too short")
	}
	restartsLen := int(binary.LittleEndian.Uint32(data[len(data)-4:]))
	restartsOffset := len(data) - (restartsLen+1)*4
	if restartsLen < 1 || restartsOffset < 0 {
		return nil, errors.NewErrCorrupted("block", int64(bh.offset), "bad restart table")
	}
	return &blockReader{
		cmp:            cmp,
		bh:             bh,
		data:           data,
		restartsLen:    restartsLen,
		restartsOffset: restartsOffset,
	}, nil
}

func (b *blockReader) corrupted(reason string) error {
	return errors.NewErrCorrupted("block", int64(b.bh.offset), reason)
}

func (b *blockReader) restart(ri int) int {
	return int(binary.LittleEndian.Uint32(b.data[b.restartsOffset+4*ri:]))
}

// restartKey returns the first key of restart group ri. Entries at
// restart points carry their key whole, so no prior state is needed to
// decode it.
func (b *blockReader) restartKey(ri int) ([]byte, error) {
	off := b.restart(ri)
	if off >= b.restartsOffset {
		return nil, b.corrupted("restart out of range")
	}
	shared, n0 := binary.Uvarint(b.data[off:b.restartsOffset])
	if n0 <= 0 || shared != 0 {
		return nil, b.corrupted("bad restart entry")
	}
	klen, n1 := binary.Uvarint(b.data[off+n0 : b.restartsOffset])
	if n1 <= 0 {
		return nil, b.corrupted("bad restart entry")
	}
	_, n2 := binary.Uvarint(b.data[off+n0+n1 : b.restartsOffset])
	if n2 <= 0 {
		return nil, b.corrupted("bad restart entry")
	}
	kstart := off + n0 + n1 + n2
	if klen > uint64(b.restartsOffset-kstart) {
		return nil, b.corrupted("bad restart entry")
	}
	return b.data[kstart : kstart+int(klen)], nil
}

const (
	dirReleased int8 = iota - 1
	dirSOI
	dirEOI
	dirValid
)

// blockIter iterates the entries of a single block. The value slice it
// exposes aliases the block data; the key is reassembled into a private
// buffer because of prefix compression.
type blockIter struct {
	br  *blockReader
	err error
	dir int8

	// offset is the position of the current entry, nextOffset the
	// position right past it. restart tracks the group offset belongs
	// to.
	offset     int
	nextOffset int
	restart    int

	key   []byte
	value []byte
}

func newBlockIter(br *blockReader) *blockIter {
	return &blockIter{br: br, dir: dirSOI}
}

func (i *blockIter) corrupt(reason string) bool {
	i.err = i.br.corrupted(reason)
	return false
}

// parseNext decodes the entry at nextOffset and makes it current.
func (i *blockIter) parseNext() bool {
	b := i.br
	off := i.nextOffset
	if off >= b.restartsOffset {
		i.dir = dirEOI
		return false
	}
	shared, n0 := binary.Uvarint(b.data[off:b.restartsOffset])
	if n0 <= 0 {
		return i.corrupt("bad entry header")
	}
	unshared, n1 := binary.Uvarint(b.data[off+n0 : b.restartsOffset])
	if n1 <= 0 {
		return i.corrupt("bad entry header")
	}
	vlen, n2 := binary.Uvarint(b.data[off+n0+n1 : b.restartsOffset])
	if n2 <= 0 {
		return i.corrupt("bad entry header")
	}
	kstart := off + n0 + n1 + n2
	if shared > uint64(len(i.key)) ||
		unshared > uint64(b.restartsOffset-kstart) ||
		vlen > uint64(b.restartsOffset-kstart-int(unshared)) {
		return i.corrupt("entry overflows block")
	}
	vstart := kstart + int(unshared)
	vend := vstart + int(vlen)
	i.key = append(i.key[:shared], b.data[kstart:vstart]...)
	i.value = b.data[vstart:vend]
	i.offset = off
	i.nextOffset = vend
	for i.restart+1 < b.restartsLen && b.restart(i.restart+1) <= off {
		i.restart++
	}
	i.dir = dirValid
	return true
}

func (i *blockIter) seekToRestart(ri int) bool {
	off := i.br.restart(ri)
	if off > i.br.restartsOffset {
		return i.corrupt("restart out of range")
	}
	i.restart = ri
	i.nextOffset = off
	i.key = i.key[:0]
	return i.parseNext()
}

func (i *blockIter) Valid() bool {
	return i.err == nil && i.dir == dirValid
}

func (i *blockIter) First() bool {
	if i.err != nil {
		return false
	}
	if i.dir == dirReleased {
		i.err = ErrIterReleased
		return false
	}
	return i.seekToRestart(0)
}

func (i *blockIter) Last() bool {
	if i.err != nil {
		return false
	}
	if i.dir == dirReleased {
		i.err = ErrIterReleased
		return false
	}
	if !i.seekToRestart(i.br.restartsLen - 1) {
		return false
	}
	for i.nextOffset < i.br.restartsOffset {
		if !i.parseNext() {
			return false
		}
	}
	return true
}

func (i *blockIter) Seek(key []byte) bool {
	if i.err != nil {
		return false
	}
	if i.dir == dirReleased {
		i.err = ErrIterReleased
		return false
	}
	b := i.br
	if b.restartsOffset == 0 {
		i.dir = dirEOI
		return false
	}
	ri := sort.Search(b.restartsLen, func(ri int) bool {
		if i.err != nil {
			return true
		}
		rkey, err := b.restartKey(ri)
		if err != nil {
			i.err = err
			return true
		}
		return b.cmp.Compare(rkey, key) > 0
	}) - 1
	if i.err != nil {
		return false
	}
	if ri < 0 {
		ri = 0
	}
	if !i.seekToRestart(ri) {
		return false
	}
	for b.cmp.Compare(i.key, key) < 0 {
		if !i.parseNext() {
			return false
		}
	}
	return true
}

func (i *blockIter) Next() bool {
	if i.err != nil {
		return false
	}
	switch i.dir {
	case dirReleased:
		i.err = ErrIterReleased
		return false
	case dirEOI:
		return false
	case dirSOI:
		return i.First()
	}
	return i.parseNext()
}

func (i *blockIter) Prev() bool {
	if i.err != nil {
		return false
	}
	switch i.dir {
	case dirReleased:
		i.err = ErrIterReleased
		return false
	case dirSOI:
		return false
	case dirEOI:
		return i.Last()
	}
	target := i.offset
	ri := i.restart
	if i.br.restart(ri) == target {
		if ri == 0 {
			i.dir = dirSOI
			i.key = i.key[:0]
			i.value = nil
			return false
		}
		ri--
	}
	if !i.seekToRestart(ri) {
		return false
	}
	for i.nextOffset < target {
		if !i.parseNext() {
			return false
		}
	}
	if i.nextOffset != target {
		return i.corrupt("misaligned entry")
	}
	return true
}

func (i *blockIter) Key() []byte {
	if !i.Valid() {
		return nil
	}
	return i.key
}

func (i *blockIter) Value() []byte {
	if !i.Valid() {
		return nil
	}
	return i.value
}

func (i *blockIter) Error() error { return i.err }

func (i *blockIter) Release() {
	if i.dir != dirReleased {
		i.br = nil
		i.key = nil
		i.value = nil
		i.dir = dirReleased
	}
}
