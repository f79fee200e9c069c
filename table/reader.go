// Copyright (c) 2020, The Shale Authors.
// All rights reserved.
//
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package table

import (
	"fmt"
	"io"
	"strings"

	"encoding/binary"

	"github.com/golang/snappy"

	"github.com/shaledb/shale/cache"
	"github.com/shaledb/shale/comparer"
	"github.com/shaledb/shale/errors"
	"github.com/shaledb/shale/filter"
	"github.com/shaledb/shale/iterator"
	"github.com/shaledb/shale/mmap"
	"github.com/shaledb/shale/opt"
	"github.com/shaledb/shale/util"
)

var (
	// ErrNotFound means that a key could not be found in the table.
	ErrNotFound = errors.ErrNotFound
	// ErrReaderReleased means that the reader was already closed.
	ErrReaderReleased = errors.New("table: reader released")
	// ErrIterReleased means that an iterator was used after Release.
	ErrIterReleased = errors.New("table: iterator released")
)

// Reader is a table reader. Once constructed it is safe for concurrent
// use; Close must not be called while lookups or iterators are active.
type Reader struct {
	reader io.ReaderAt
	closer io.Closer
	err    error

	cmp            comparer.Comparer
	filter         filter.Filter
	altFilters     []filter.Filter
	verifyChecksum bool

	cache   cache.Cache
	cacheNS uint64
	bpool   *util.BufferPool

	dataEnd     uint64
	indexBlock  *blockReader
	filterBlock *FilterBlockReader
}

func (r *Reader) corruptedIndex(reason string) error {
	return errors.NewErrCorrupted("index block", int64(r.indexBlock.bh.offset), reason)
}

// readRawBlock reads the block pointed at by bh and returns its
// payload, checksum verified and decompressed. The returned slice is
// freshly allocated; it owns its bytes.
func (r *Reader) readRawBlock(bh blockHandle, verifyChecksum bool) ([]byte, error) {
	staging := r.bpool.Get(int(bh.length) + blockTrailerLen)
	defer r.bpool.Put(staging)

	if n, err := r.reader.ReadAt(staging, int64(bh.offset)); err != nil && (err != io.EOF || n < len(staging)) {
		return nil, err
	}

	if verifyChecksum {
		n := int(bh.length) + 1
		checksum0 := binary.LittleEndian.Uint32(staging[n:])
		checksum1 := util.NewCRC(staging[:n]).Value()
		if checksum0 != checksum1 {
			return nil, errors.NewErrCorrupted("block", int64(bh.offset),
				fmt.Sprintf("checksum mismatch, want=%#x got=%#x", checksum0, checksum1))
		}
	}

	switch staging[bh.length] {
	case blockTypeNoCompression:
		data := make([]byte, bh.length)
		copy(data, staging)
		return data, nil
	case blockTypeSnappyCompression:
		decLen, err := snappy.DecodedLen(staging[:bh.length])
		if err != nil {
			return nil, errors.NewErrCorrupted("block", int64(bh.offset), err.Error())
		}
		data, err := snappy.Decode(make([]byte, decLen), staging[:bh.length])
		if err != nil {
			return nil, errors.NewErrCorrupted("block", int64(bh.offset), err.Error())
		}
		return data, nil
	default:
		return nil, errors.NewErrCorrupted("block", int64(bh.offset),
			fmt.Sprintf("unknown compression type %#x", staging[bh.length]))
	}
}

func (r *Reader) readBlock(bh blockHandle, verifyChecksum bool) (*blockReader, error) {
	data, err := r.readRawBlock(bh, verifyChecksum)
	if err != nil {
		return nil, err
	}
	return newBlockReader(r.cmp, bh, data)
}

// getBlock returns the data block at bh, through the block cache when
// one is configured. Cached blocks are shared; their bytes are
// immutable.
func (r *Reader) getBlock(bh blockHandle, verifyChecksum bool) (*blockReader, error) {
	if r.cache != nil {
		if v, ok := r.cache.Get(r.cacheNS, bh.offset); ok {
			if b, ok := v.(*blockReader); ok {
				return b, nil
			}
		}
	}
	b, err := r.readBlock(bh, verifyChecksum)
	if err != nil {
		return nil, err
	}
	if r.cache != nil {
		r.cache.Set(r.cacheNS, bh.offset, b, len(b.data))
	}
	return b, nil
}

// readFilterBlock locates this table's filter through the metaindex
// block and attaches a reader for it. The filter is an optimization;
// when any step fails the table simply serves every lookup from its
// data blocks.
func (r *Reader) readFilterBlock(metaBH blockHandle) {
	if r.filter == nil {
		return
	}
	meta, err := r.readBlock(metaBH, true)
	if err != nil {
		return
	}
	iter := newBlockIter(meta)
	defer iter.Release()
	for iter.Next() {
		key := string(iter.Key())
		if !strings.HasPrefix(key, "filter.") {
			continue
		}
		name := key[len("filter."):]
		var policy filter.Filter
		if name == r.filter.Name() {
			policy = r.filter
		} else {
			for _, alt := range r.altFilters {
				if alt.Name() == name {
					policy = alt
					break
				}
			}
		}
		if policy == nil {
			continue
		}
		filterBH, n := decodeBlockHandle(iter.Value())
		if n == 0 {
			return
		}
		r.dataEnd = filterBH.offset
		data, err := r.readRawBlock(filterBH, true)
		if err != nil {
			return
		}
		r.filterBlock = NewFilterBlockReader(policy, data)
		return
	}
}

func (r *Reader) find(key []byte, filtered, noValue bool) (rkey, value []byte, err error) {
	if r.err != nil {
		return nil, nil, r.err
	}

	indexIter := newBlockIter(r.indexBlock)
	defer indexIter.Release()
	if !indexIter.Seek(key) {
		if err = indexIter.Error(); err == nil {
			err = ErrNotFound
		}
		return nil, nil, err
	}

	dataBH, n := decodeBlockHandle(indexIter.Value())
	if n == 0 {
		return nil, nil, r.corruptedIndex("bad data block handle")
	}

	// The filter prunes exact-match lookups only; a pruned block cannot
	// contain the key itself.
	if filtered && r.filterBlock != nil && !r.filterBlock.KeyMayMatch(dataBH.offset, key) {
		return nil, nil, ErrNotFound
	}

	data, err := r.getBlock(dataBH, r.verifyChecksum)
	if err != nil {
		return nil, nil, err
	}
	dataIter := newBlockIter(data)
	defer dataIter.Release()
	if !dataIter.Seek(key) {
		if err = dataIter.Error(); err != nil {
			return nil, nil, err
		}
		// The key sits past this block's last entry, below the next
		// block's separator. The answer, if any, is the next block's
		// first entry.
		if !indexIter.Next() {
			if err = indexIter.Error(); err == nil {
				err = ErrNotFound
			}
			return nil, nil, err
		}
		dataBH, n = decodeBlockHandle(indexIter.Value())
		if n == 0 {
			return nil, nil, r.corruptedIndex("bad data block handle")
		}
		data, err = r.getBlock(dataBH, r.verifyChecksum)
		if err != nil {
			return nil, nil, err
		}
		dataIter.Release()
		dataIter = newBlockIter(data)
		if !dataIter.Seek(key) {
			if err = dataIter.Error(); err == nil {
				err = ErrNotFound
			}
			return nil, nil, err
		}
	}

	// The iterator aliases a block that may be shared through the
	// cache; the caller gets its own copy.
	rkey = append([]byte(nil), dataIter.Key()...)
	if !noValue {
		value = append([]byte(nil), dataIter.Value()...)
	}
	return rkey, value, nil
}

// Find finds the key/value pair whose key is greater than or equal to
// the given key. It returns ErrNotFound if the table doesn't contain
// such pair.
//
// The returned slices are their own copies, it is safe to modify the
// contents of the argument after Find returns.
func (r *Reader) Find(key []byte) (rkey, rvalue []byte, err error) {
	return r.find(key, false, false)
}

// FindKey finds the key that is greater than or equal to the given
// key. It returns ErrNotFound if the table doesn't contain such key.
//
// The returned slice is its own copy, it is safe to modify the
// contents of the argument after FindKey returns.
func (r *Reader) FindKey(key []byte) (rkey []byte, err error) {
	rkey, _, err = r.find(key, false, true)
	return
}

// Get gets the value of the given key. It returns errors.ErrNotFound
// if the table does not contain the key. The filter block, when
// present, prunes data block reads for keys the table cannot contain.
//
// The returned slice is its own copy, it is safe to modify the
// contents of the argument after Get returns.
func (r *Reader) Get(key []byte) (value []byte, err error) {
	rkey, value, err := r.find(key, true, false)
	if err != nil {
		return nil, err
	}
	if r.cmp.Compare(rkey, key) != 0 {
		return nil, ErrNotFound
	}
	return value, nil
}

// OffsetOf returns the approximate offset of the given key.
//
// It is safe to modify the contents of the argument after OffsetOf
// returns.
func (r *Reader) OffsetOf(key []byte) (offset int64, err error) {
	if r.err != nil {
		return 0, r.err
	}

	indexIter := newBlockIter(r.indexBlock)
	defer indexIter.Release()
	if indexIter.Seek(key) {
		dataBH, n := decodeBlockHandle(indexIter.Value())
		if n == 0 {
			return 0, r.corruptedIndex("bad data block handle")
		}
		return int64(dataBH.offset), nil
	}
	if err := indexIter.Error(); err != nil {
		return 0, err
	}
	// The key is past every data block.
	return int64(r.dataEnd), nil
}

type indexIter struct {
	*blockIter
	r *Reader
}

func (i *indexIter) Get() (iterator.Iterator, error) {
	dataBH, n := decodeBlockHandle(i.Value())
	if n == 0 {
		return nil, i.r.corruptedIndex("bad data block handle")
	}
	b, err := i.r.getBlock(dataBH, i.r.verifyChecksum)
	if err != nil {
		return nil, err
	}
	return newBlockIter(b), nil
}

// NewIterator creates an iterator from the table, with the given key
// range restriction if slice is not nil.
//
// The returned iterator is not safe for concurrent use and must be
// released before the reader is closed.
//
// Also read Iterator documentation of the iterator package.
func (r *Reader) NewIterator(slice *util.Range) iterator.Iterator {
	if r.err != nil {
		return iterator.NewEmptyIterator(r.err)
	}
	index := &indexIter{
		blockIter: newBlockIter(r.indexBlock),
		r:         r,
	}
	return iterator.NewRangeIterator(iterator.NewIndexedIterator(index), slice, r.cmp)
}

// Close releases the table's block cache entries and, when the reader
// owns its file, the file itself. Closing twice is a no-op. Lookups
// and iterators must be done before Close is called.
func (r *Reader) Close() error {
	if r.err == ErrReaderReleased {
		return nil
	}
	if r.cache != nil {
		r.cache.EvictNS(r.cacheNS)
	}
	var err error
	if r.closer != nil {
		err = r.closer.Close()
		r.closer = nil
	}
	r.reader = nil
	r.indexBlock = nil
	r.filterBlock = nil
	r.err = ErrReaderReleased
	return err
}

// NewReader creates a new initialized table reader for the file. The
// index block is read and kept eagerly; every lookup goes through it.
// The filter policy used when writing the table must be among
// o.GetFilter and o.GetAltFilters for the filter block to be used.
func NewReader(f io.ReaderAt, size int64, o *opt.Options) (*Reader, error) {
	if f == nil {
		return nil, errors.New("table: nil file")
	}

	r := &Reader{
		reader:         f,
		cmp:            o.GetComparer(),
		filter:         o.GetFilter(),
		altFilters:     o.GetAltFilters(),
		verifyChecksum: o.GetStrict(opt.StrictBlockChecksum),
		bpool:          util.NewBufferPool(o.GetBlockSize() + blockTrailerLen),
	}
	if !o.GetDisableBlockCache() {
		r.cache = o.GetBlockCache()
		if r.cache == nil {
			r.cache = cache.NewLRU(o.GetBlockCacheCapacity())
		}
		r.cacheNS = r.cache.NewID()
	}

	if size < footerLen {
		return nil, errors.NewErrCorrupted("footer", 0, fmt.Sprintf("file is too short, %d bytes", size))
	}
	var footer [footerLen]byte
	if n, err := r.reader.ReadAt(footer[:], size-footerLen); err != nil && (err != io.EOF || n < footerLen) {
		return nil, err
	}
	if string(footer[footerLen-len(magic):]) != magic {
		return nil, errors.NewErrCorrupted("footer", size-footerLen, "bad magic number")
	}

	metaBH, n := decodeBlockHandle(footer[:])
	if n == 0 {
		return nil, errors.NewErrCorrupted("footer", size-footerLen, "bad metaindex block handle")
	}
	indexBH, m := decodeBlockHandle(footer[n:])
	if m == 0 {
		return nil, errors.NewErrCorrupted("footer", size-footerLen, "bad index block handle")
	}
	r.dataEnd = metaBH.offset

	indexBlock, err := r.readBlock(indexBH, true)
	if err != nil {
		return nil, err
	}
	r.indexBlock = indexBlock

	r.readFilterBlock(metaBH)
	return r, nil
}

// OpenFile memory-maps the table file at path and returns a reader
// for it. Closing the reader closes the mapping.
func OpenFile(path string, o *opt.Options) (*Reader, error) {
	f, err := mmap.Open(path)
	if err != nil {
		return nil, err
	}
	r, err := NewReader(f, f.Size(), o)
	if err != nil {
		f.Close()
		return nil, err
	}
	r.closer = f
	return r, nil
}
