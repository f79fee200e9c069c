// Copyright (c) 2020, The Shale Authors.
// All rights reserved.
//
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package table reads and writes sorted string table files.
//
// A table file holds an immutable sorted map from string keys to string
// values, laid out as:
//
//	[data block 0]
//	[data block 1]
//	...
//	[data block n-1]
//	[filter block]       (optional)
//	[metaindex block]
//	[index block]
//	[footer]
//
// Each block is followed by a 5-byte trailer: one byte of compression
// type and a masked CRC-32C of the block contents plus the type byte.
// Data blocks hold key/value entries with shared-prefix compressed keys
// and restart points for binary search. The index block has one entry
// per data block whose key separates it from the next block and whose
// value is the data block's handle (offset and length varints). The
// metaindex block maps meta block names to handles; the only meta block
// is the filter block, stored under "filter." plus the policy name. The
// footer is 48 bytes: the metaindex and index handles, zero padding and
// the magic number.
//
// The filter block cuts reads for absent keys. Every 2KiB span of data
// block offsets gets one filter summarizing the keys of the blocks that
// start inside the span; a reader checks the filter before loading a
// data block. Its layout is the filter bytes back to back, a table of
// per-span start offsets, the offset of that table, and a final byte
// fixing the span granularity:
//
//	[filter 0]
//	...
//	[filter n-1]
//	[offset of filter 0 : uint32]
//	...
//	[offset of filter n-1 : uint32]
//	[offset of the offset table : uint32]
//	[base lg : 1 byte]
package table

import "encoding/binary"

// blockHandle locates a block inside the file. The length excludes the
// block trailer.
type blockHandle struct {
	offset, length uint64
}

func decodeBlockHandle(src []byte) (blockHandle, int) {
	offset, n := binary.Uvarint(src)
	if n <= 0 {
		return blockHandle{}, 0
	}
	length, m := binary.Uvarint(src[n:])
	if m <= 0 {
		return blockHandle{}, 0
	}
	return blockHandle{offset, length}, n + m
}

func encodeBlockHandle(dst []byte, bh blockHandle) int {
	n := binary.PutUvarint(dst, bh.offset)
	m := binary.PutUvarint(dst[n:], bh.length)
	return n + m
}

const (
	blockTrailerLen = 5
	footerLen       = 48

	magic = "\x57\xfb\x80\x8b\x24\x75\x47\xdb"

	blockTypeNoCompression     = 0
	blockTypeSnappyCompression = 1

	// One filter per 2KiB of data block offsets. Fixed: the value is
	// baked into written files next to the offset table.
	filterBaseLg = 11
	filterBase   = 1 << filterBaseLg
)
