// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package cdbhash implements D. J. Bernstein's cdb hash function and the
// SlotTableInfo projection used to locate a key's sub-table in the main
// table of a cdb file.
package cdbhash
