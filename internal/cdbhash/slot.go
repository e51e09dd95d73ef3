// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package cdbhash

import "encoding/binary"

// MainTableSize is the fixed size, in bytes, of a cdb file's main table:
// 256 entries of (offset uint32, entries uint32).
const MainTableSize = 256 * 8

// SlotTableInfo projects a key's hash and the main table onto the
// location of that key's sub-table: its file offset, its capacity (number
// of 8-byte slots), and the index within it where probing should begin.
type SlotTableInfo struct {
	hash    uint32
	offset  uint32
	entries uint32
}

// Lookup reads the main table entry for hash's bucket (hash mod 256) out
// of a 2048-byte main table and returns the resulting SlotTableInfo.
// mainTable must be at least MainTableSize bytes.
func Lookup(mainTable []byte, hash uint32) SlotTableInfo {
	bucket := ModTable(hash)
	off := bucket * 8
	return SlotTableInfo{
		hash:    hash,
		offset:  binary.LittleEndian.Uint32(mainTable[off : off+4]),
		entries: binary.LittleEndian.Uint32(mainTable[off+4 : off+8]),
	}
}

// Offset returns the absolute file offset of the sub-table.
func (s SlotTableInfo) Offset() uint32 { return s.offset }

// Entries returns the sub-table's capacity in slots.
func (s SlotTableInfo) Entries() uint32 { return s.entries }

// HasEntries reports whether the bucket holds any records at all.
func (s SlotTableInfo) HasEntries() bool { return s.entries != 0 }

// FirstEntry returns the slot index within the sub-table where probing
// for this key should begin. Only valid when HasEntries is true.
func (s SlotTableInfo) FirstEntry() uint32 {
	return DivTable(s.hash) % s.entries
}
