// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package cdbhash

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLookup_EmptyBucket(t *testing.T) {
	mainTable := make([]byte, MainTableSize)
	h := Sum([]byte("missing"))
	info := Lookup(mainTable, h)
	require.False(t, info.HasEntries())
	require.Zero(t, info.Offset())
	require.Zero(t, info.Entries())
}

func TestLookup_PopulatedBucket(t *testing.T) {
	mainTable := make([]byte, MainTableSize)
	key := []byte("hello")
	h := Sum(key)
	bucket := ModTable(h)

	const wantOffset, wantEntries = 4096, 8
	off := bucket * 8
	binary.LittleEndian.PutUint32(mainTable[off:off+4], wantOffset)
	binary.LittleEndian.PutUint32(mainTable[off+4:off+8], wantEntries)

	info := Lookup(mainTable, h)
	require.True(t, info.HasEntries())
	require.Equal(t, uint32(wantOffset), info.Offset())
	require.Equal(t, uint32(wantEntries), info.Entries())
	require.Equal(t, DivTable(h)%wantEntries, info.FirstEntry())
}
