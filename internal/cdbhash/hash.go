// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package cdbhash

// Sum computes the cdb hash of key: h starts at 5381, and for each byte b
// (zero-extended), h = (h*33) XOR b, all arithmetic mod 2^32. This exact
// recurrence is fixed by the cdb file format; changing it produces files
// that other cdb implementations cannot read.
func Sum(key []byte) uint32 {
	h := uint32(5381)
	for _, b := range key {
		h = (h * 33) ^ uint32(b)
	}
	return h
}

// ModTable returns the main-table bucket index for a hash: hash mod 256.
func ModTable(h uint32) uint32 {
	return h & 0xff
}

// DivTable returns the value used to pick a sub-table's initial probe
// index: hash div 256.
func DivTable(h uint32) uint32 {
	return h >> 8
}
