// Copyright (c) 2020, The Shale Authors.
// All rights reserved.
//
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package util

import "testing"

// Reference values of LevelDB's block hash. Tables carry filters probed
// with this hash, so these can never change.
var hashTests = []struct {
	data []byte
	seed uint32
	want uint32
}{
	{nil, 0xbc9f1d34, 0xbc9f1d34},
	{[]byte{0x62}, 0xbc9f1d34, 0xef1345c4},
	{[]byte{0xc3, 0x97}, 0xbc9f1d34, 0x5b663814},
	{[]byte{0xe2, 0x99, 0xa5}, 0xbc9f1d34, 0x323c078f},
	{[]byte{0xe1, 0x80, 0xb9, 0x32}, 0xbc9f1d34, 0xed21633a},
}

func TestHash(t *testing.T) {
	for _, x := range hashTests {
		if got := Hash(x.data, x.seed); got != x.want {
			t.Errorf("Hash(%v, %#x) = %#x, want %#x", x.data, x.seed, got, x.want)
		}
	}
}

func TestHashSeed(t *testing.T) {
	data := []byte("The quick brown fox")
	if Hash(data, 0) == Hash(data, 1) {
		t.Error("seed does not affect the hash")
	}
}
