// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package cdbfile

import "encoding/binary"

const (
	// pairSize is the byte width of an (a, b) uint32 pair: a main table
	// entry, a sub-table slot, or a record's (klen, dlen) header.
	pairSize = 8

	// MaxLen is the largest permitted length, in bytes, of a single key
	// or value: 0x0FFFFFFF, about 256 MiB. Fixed by the cdb format.
	MaxLen = 0x0fffffff
)

// putPair writes (a, b) as two little-endian uint32s into b[:8].
func putPair(dst []byte, a, b uint32) {
	binary.LittleEndian.PutUint32(dst[0:4], a)
	binary.LittleEndian.PutUint32(dst[4:8], b)
}

// getPair reads two little-endian uint32s from src[:8].
func getPair(src []byte) (a, b uint32) {
	return binary.LittleEndian.Uint32(src[0:4]), binary.LittleEndian.Uint32(src[4:8])
}
