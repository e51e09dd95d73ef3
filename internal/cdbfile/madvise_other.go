// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

//go:build !linux && !darwin

package cdbfile

import "github.com/edsrzf/mmap-go"

// adviseRandom is a no-op on platforms without madvise(2).
func adviseRandom(m mmap.MMap) {}
