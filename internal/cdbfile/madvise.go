// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

//go:build linux || darwin

package cdbfile

import (
	"golang.org/x/sys/unix"

	"github.com/edsrzf/mmap-go"
)

// adviseRandom hints to the kernel that lookups against m will follow a
// scattered access pattern, matching cdb's hash-then-probe access rather
// than a sequential scan. Failure is not fatal; it only affects
// read-ahead heuristics.
func adviseRandom(m mmap.MMap) {
	_ = unix.Madvise(m, unix.MADV_RANDOM)
}
