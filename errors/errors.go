// Copyright (c) 2020, The Shale Authors.
// All rights reserved.
//
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package errors provides the common error types used throughout shale.
package errors

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrNotFound = New("shale: not found")
	ErrClosed   = New("shale: closed")
)

// New returns an error that formats as the given text.
func New(text string) error {
	return errors.New(text)
}

// ErrCorrupted reports a structurally invalid region of a table file.
// Kind names the structure ("footer", "data block", ...), Pos is the file
// offset of the region when known, otherwise -1.
type ErrCorrupted struct {
	Kind   string
	Pos    int64
	Reason string
}

func (e *ErrCorrupted) Error() string {
	if e.Pos >= 0 {
		return fmt.Sprintf("shale: corrupted %s at offset %d: %s", e.Kind, e.Pos, e.Reason)
	}
	return fmt.Sprintf("shale: corrupted %s: %s", e.Kind, e.Reason)
}

// NewErrCorrupted creates a new ErrCorrupted error.
func NewErrCorrupted(kind string, pos int64, reason string) error {
	return &ErrCorrupted{Kind: kind, Pos: pos, Reason: reason}
}

// IsCorrupted reports whether err indicates corruption.
func IsCorrupted(err error) bool {
	switch err.(type) {
	case *ErrCorrupted:
		return true
	}
	return false
}
