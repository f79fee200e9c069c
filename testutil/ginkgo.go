// Copyright (c) 2020, The Shale Authors.
// All rights reserved.
//
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package testutil

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

func RunSuite(t GinkgoTestingT, name string) {
	RunDefer()

	RegisterFailHandler(Fail)
	RunSpecs(t, name)
}
