// Copyright (c) 2020, The Shale Authors.
// All rights reserved.
//
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package opt provides sets of options used by shale.
package opt

import (
	"github.com/shaledb/shale/cache"
	"github.com/shaledb/shale/comparer"
	"github.com/shaledb/shale/filter"
)

const (
	KiB = 1024
	MiB = KiB * 1024
)

// Defaults.
const (
	DefaultBlockCacheCapacity   = 8 * MiB
	DefaultBlockRestartInterval = 16
	DefaultBlockSize            = 4 * KiB
	DefaultCompressionType      = SnappyCompression
	DefaultStrict               = StrictBlockChecksum
)

// Compression is the per-block compression algorithm to use.
type Compression uint

func (c Compression) String() string {
	switch c {
	case DefaultCompression:
		return "default"
	case NoCompression:
		return "none"
	case SnappyCompression:
		return "snappy"
	}
	return "invalid"
}

const (
	DefaultCompression Compression = iota
	NoCompression
	SnappyCompression
	nCompression
)

// Strict is a set of flags hardening how much a reader tolerates.
type Strict uint

const (
	// StrictOverride marks the remaining bits as the complete set of
	// checks: without it, DefaultStrict is folded in. Setting Strict to
	// StrictOverride alone disables every check.
	StrictOverride Strict = 1 << iota

	// StrictBlockChecksum requires that block checksums verify on read.
	StrictBlockChecksum

	// StrictAll enables every check.
	StrictAll = StrictBlockChecksum
)

// Options holds the tunables for reading and writing tables. A nil
// *Options is valid and means defaults; read the fields through the
// getter methods, which fill defaults in.
type Options struct {
	// AltFilters are additional filters a reader will apply when a
	// table was written with a policy other than Filter. Matched by
	// name against the table's stored filter.
	//
	// The default value is nil.
	AltFilters []filter.Filter

	// BlockCache caches decoded data blocks across reads. Multiple
	// readers may share one cache. If nil and DisableBlockCache is
	// false, each reader creates its own cache of
	// BlockCacheCapacity.
	//
	// The default value is nil.
	BlockCache cache.Cache

	// BlockCacheCapacity is the capacity, in bytes, of the cache a
	// reader creates when BlockCache is nil.
	//
	// The default value is 8MiB.
	BlockCacheCapacity int

	// BlockRestartInterval is the number of keys between restart
	// points for delta encoding of keys within a block.
	//
	// The default value is 16.
	BlockRestartInterval int

	// BlockSize is the minimum uncompressed size in bytes of each
	// sorted data block.
	//
	// The default value is 4KiB.
	BlockSize int

	// Comparer defines the total ordering over keys. The comparer a
	// table is read with must match the one it was written with.
	//
	// The default value uses the bytewise comparer.
	Comparer comparer.Comparer

	// Compression is the per-block compression to apply.
	//
	// The default value is SnappyCompression.
	Compression Compression

	// DisableBlockCache disables data block caching entirely.
	//
	// The default value is false.
	DisableBlockCache bool

	// Filter is the membership filter policy. Writers build the
	// table's filter block with it; readers apply it when the stored
	// filter name matches.
	//
	// The default value is nil, meaning no filter block.
	Filter filter.Filter

	// Strict selects which integrity checks are fatal. Filter block
	// problems are never fatal regardless of Strict: a filter only
	// accelerates misses, so a reader quietly drops a broken one.
	//
	// The default value is StrictBlockChecksum.
	Strict Strict
}

func (o *Options) GetAltFilters() []filter.Filter {
	if o == nil {
		return nil
	}
	return o.AltFilters
}

func (o *Options) GetBlockCache() cache.Cache {
	if o == nil {
		return nil
	}
	return o.BlockCache
}

func (o *Options) GetBlockCacheCapacity() int {
	if o == nil || o.BlockCacheCapacity <= 0 {
		return DefaultBlockCacheCapacity
	}
	return o.BlockCacheCapacity
}

func (o *Options) GetBlockRestartInterval() int {
	if o == nil || o.BlockRestartInterval <= 0 {
		return DefaultBlockRestartInterval
	}
	return o.BlockRestartInterval
}

func (o *Options) GetBlockSize() int {
	if o == nil || o.BlockSize <= 0 {
		return DefaultBlockSize
	}
	return o.BlockSize
}

func (o *Options) GetComparer() comparer.Comparer {
	if o == nil || o.Comparer == nil {
		return comparer.DefaultComparer
	}
	return o.Comparer
}

func (o *Options) GetCompression() Compression {
	if o == nil || o.Compression <= DefaultCompression || o.Compression >= nCompression {
		return DefaultCompressionType
	}
	return o.Compression
}

func (o *Options) GetDisableBlockCache() bool {
	if o == nil {
		return false
	}
	return o.DisableBlockCache
}

func (o *Options) GetFilter() filter.Filter {
	if o == nil {
		return nil
	}
	return o.Filter
}

func (o *Options) GetStrict(strict Strict) bool {
	if o == nil {
		return DefaultStrict&strict != 0
	}
	if o.Strict&StrictOverride != 0 {
		return o.Strict&strict != 0
	}
	return (DefaultStrict|o.Strict)&strict != 0
}
