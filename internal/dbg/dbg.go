// Copyright (c) 2020, The Shale Authors.
// All rights reserved.
//
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

//go:build invariants || race
// +build invariants race

// Package dbg gates invariant checks that are too hot for release
// builds. Build with -tags invariants (or the race detector, which
// implies them) to turn the checks on.
package dbg

import "fmt"

// On is true when invariant checking is compiled in.
const On = true

// Failf reports a broken invariant. It does not return.
func Failf(format string, args ...interface{}) {
	panic(fmt.Sprintf(format, args...))
}
