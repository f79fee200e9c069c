// Copyright (c) 2020, The Shale Authors.
// All rights reserved.
//
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

//go:build !invariants && !race
// +build !invariants,!race

package dbg

// On is false in release builds; checks behind it compile away.
const On = false

// Failf does nothing in release builds.
func Failf(format string, args ...interface{}) {}
