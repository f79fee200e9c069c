// Copyright (c) 2020, The Shale Authors.
// All rights reserved.
//
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package filter

import (
	"io"

	metro "github.com/dgryski/go-metro"
)

// metroBloom is a bloom filter whose probe stream derives from a single
// 64-bit metro hash: the low half seeds the sequence and the high half
// is the double-hashing delta. Same stored layout as the builtin bloom,
// different name so readers never cross the encodings.
type metroBloom int

func (metroBloom) Name() string {
	return "shale.MetroBloomV1"
}

func (f metroBloom) CreateFilter(keys [][]byte, buf io.Writer) {
	k := uint8(f * 69 / 100)
	if k < 1 {
		k = 1
	} else if k > 30 {
		k = 30
	}

	nBits := uint32(len(keys) * int(f))
	if nBits < 64 {
		nBits = 64
	}
	nBytes := (nBits + 7) / 8
	nBits = nBytes * 8

	dest := make([]byte, nBytes+1)
	dest[nBytes] = k

	for _, key := range keys {
		h := metro.Hash64(key, 0)
		kh, delta := uint32(h), uint32(h>>32)|1
		for j := uint8(0); j < k; j++ {
			bitpos := kh % nBits
			dest[bitpos/8] |= 1 << (bitpos % 8)
			kh += delta
		}
	}

	buf.Write(dest)
}

func (f metroBloom) KeyMayMatch(key, filter []byte) bool {
	nBytes := len(filter) - 1
	if nBytes < 1 {
		return false
	}
	nBits := uint32(nBytes * 8)

	k := filter[nBytes]
	if k > 30 {
		return true
	}

	h := metro.Hash64(key, 0)
	kh, delta := uint32(h), uint32(h>>32)|1
	for j := uint8(0); j < k; j++ {
		bitpos := kh % nBits
		if filter[bitpos/8]&(1<<(bitpos%8)) == 0 {
			return false
		}
		kh += delta
	}
	return true
}

// NewMetroBloom creates a bloom filter probed from a 64-bit metro hash.
// It trades the builtin filter's format compatibility for a stronger
// hash on long keys.
func NewMetroBloom(bitsPerKey int) Filter {
	return metroBloom(bitsPerKey)
}
