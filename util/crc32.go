// Copyright (c) 2020, The Shale Authors.
// All rights reserved.
//
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package util

import "hash/crc32"

var crcTable = crc32.MakeTable(crc32.Castagnoli)

// CRC is a CRC-32 checksum computed with the Castagnoli polynomial.
type CRC uint32

// NewCRC creates a new CRC seeded with the checksum of b.
func NewCRC(b []byte) CRC {
	return CRC(0).Update(b)
}

// Update returns the result of adding the bytes in b to the CRC.
func (c CRC) Update(b []byte) CRC {
	return CRC(crc32.Update(uint32(c), crcTable, b))
}

// Value returns the masked representation of the CRC, which is what gets
// stored on disk. Storing a raw CRC of data that itself contains CRCs
// weakens the check, so the value is rotated and offset first.
func (c CRC) Value() uint32 {
	return uint32(c>>15|c<<17) + 0xa282ead8
}
