// Copyright (c) 2020, The Shale Authors.
// All rights reserved.
//
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package mmap gives read-only byte access to files. On linux the file
// is memory mapped; elsewhere it is read into the heap. Either way the
// result is an io.ReaderAt with no per-read syscalls.
package mmap

import (
	"io"
	"os"

	"github.com/pkg/errors"
)

// File is a read-only byte view of a file.
type File struct {
	data   []byte
	mapped bool
}

// Open returns a File over the contents of the named file.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "mmap: open")
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, errors.Wrapf(err, "mmap: stat %s", path)
	}
	size := fi.Size()
	if size == 0 {
		return &File{}, nil
	}

	data, mapped, err := mapFile(f, size)
	if err != nil {
		return nil, errors.Wrapf(err, "mmap: map %s", path)
	}
	return &File{data: data, mapped: mapped}, nil
}

// ReadAt implements io.ReaderAt over the file bytes.
func (f *File) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off > int64(len(f.data)) {
		return 0, errors.Errorf("mmap: invalid offset %d", off)
	}
	n := copy(p, f.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// Bytes returns the file contents. The slice is invalid after Close.
func (f *File) Bytes() []byte {
	return f.data
}

// Size returns the length of the file in bytes.
func (f *File) Size() int64 {
	return int64(len(f.data))
}

// Close releases the mapping. The File and every slice obtained from it
// must not be used afterwards.
func (f *File) Close() error {
	data := f.data
	f.data = nil
	if f.mapped && len(data) > 0 {
		f.mapped = false
		return unmapFile(data)
	}
	return nil
}
