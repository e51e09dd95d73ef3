// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package cdb reads and writes D. J. Bernstein's constant database
// format: an immutable, write-once, on-disk key to multi-value store
// with O(1) point lookups via a fixed 256-bucket hash table.
//
// A database is built once, either from a cdbmake-style dump file
// (BuildFromDump) or by streaming key/value pairs directly
// (NewStreamingBuilder), and afterward is opened read-only with
// NewReader. Readers memory-map the file and support concurrent lookups
// from multiple goroutines without additional synchronization.
package cdb

// MaxLen is the largest permitted length, in bytes, of a single key or
// value: 0x0FFFFFFF, fixed by the cdb file format.
const MaxLen = 0x0fffffff
