// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package cdbfile implements the on-disk cdb binary format: the Writer
// streams records and materializes the 256 sub-tables on Close, and the
// Reader memory-maps a finished file and answers point and full-table
// lookups.
//
// A cdb file looks like:
//
//	┌────────────────────┐
//	│ main table (2048B) │  256 x (sub-table offset, sub-table entries)
//	├────────────────────┤
//	│ records            │  repeated (klen, dlen, key, data)
//	├────────────────────┤
//	│ sub-tables         │  256 linearly-probed open hash tables
//	└────────────────────┘
//
// All integers are unsigned 32-bit little-endian. See cr.yp.to/cdb.html
// for the format this package implements bit-for-bit.
package cdbfile
