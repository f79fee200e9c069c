// Copyright (c) 2020, The Shale Authors.
// All rights reserved.
//
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package util holds small shared pieces: the block hash, the masked
// CRC, byte buffers and key ranges.
package util

// Range is a half-open key range [Start, Limit). A nil Start means the
// beginning of the keyspace, a nil Limit means its end.
type Range struct {
	Start []byte
	Limit []byte
}
