// Copyright (c) 2020, The Shale Authors.
// All rights reserved.
//
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package filter

import (
	"io"

	"github.com/shaledb/shale/util"
)

func bloomHash(key []byte) uint32 {
	return util.Hash(key, 0xbc9f1d34)
}

type bloomFilter int

func (bloomFilter) Name() string {
	// LevelDB's builtin bloom filter carries this name and the same
	// encoding, so its tables remain readable.
	return "leveldb.BuiltinBloomFilter2"
}

func (f bloomFilter) CreateFilter(keys [][]byte, buf io.Writer) {
	// Round down to reduce probing cost a little bit.
	k := uint8(f * 69 / 100) // 0.69 =~ ln(2)
	if k < 1 {
		k = 1
	} else if k > 30 {
		k = 30
	}

	nBits := uint32(len(keys) * int(f))
	// Small n can see a high false positive rate; enforce a minimum
	// filter length.
	if nBits < 64 {
		nBits = 64
	}
	nBytes := (nBits + 7) / 8
	nBits = nBytes * 8

	dest := make([]byte, nBytes+1)
	// Remember the number of probes in the trailing byte.
	dest[nBytes] = k

	for _, key := range keys {
		// Double hashing; rotate the hash to build the delta.
		kh := bloomHash(key)
		delta := (kh >> 17) | (kh << 15)
		for j := uint8(0); j < k; j++ {
			bitpos := kh % nBits
			dest[bitpos/8] |= 1 << (bitpos % 8)
			kh += delta
		}
	}

	buf.Write(dest)
}

func (f bloomFilter) KeyMayMatch(key, filter []byte) bool {
	nBytes := len(filter) - 1
	if nBytes < 1 {
		return false
	}
	nBits := uint32(nBytes * 8)

	k := filter[nBytes]
	if k > 30 {
		// Reserved for potentially new encodings of short bloom
		// filters; consider it a match.
		return true
	}

	kh := bloomHash(key)
	delta := (kh >> 17) | (kh << 15)
	for j := uint8(0); j < k; j++ {
		bitpos := kh % nBits
		if filter[bitpos/8]&(1<<(bitpos%8)) == 0 {
			return false
		}
		kh += delta
	}
	return true
}

// NewBloomFilter creates a bloom filter that keeps roughly bitsPerKey
// bits per key. A good value is 10, which yields a filter around 1%
// false positive rate.
func NewBloomFilter(bitsPerKey int) Filter {
	return bloomFilter(bitsPerKey)
}
