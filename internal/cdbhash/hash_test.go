// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package cdbhash

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSum_Empty(t *testing.T) {
	// h starts at 5381 and an empty key never touches the loop body.
	require.Equal(t, uint32(5381), Sum(nil))
	require.Equal(t, uint32(5381), Sum([]byte{}))
}

func TestSum_KnownValues(t *testing.T) {
	// hand-computed from the recurrence h = (h*33) ^ b, h0 = 5381
	cases := []struct {
		key  string
		hash uint32
	}{
		{"a", 177604},
		{"ab", 5860902},
		{"abc", 193409669},
	}
	for _, c := range cases {
		require.Equal(t, c.hash, Sum([]byte(c.key)), "key %q", c.key)
	}
}

func TestSum_ZeroExtendsBytes(t *testing.T) {
	// a byte value >= 0x80 must be zero-extended, not sign-extended
	high := Sum([]byte{0xff})
	want := (uint32(5381) * 33) ^ 0xff
	require.Equal(t, want, high)
}

func TestModDivTable(t *testing.T) {
	h := uint32(0x1234abcd)
	require.Equal(t, h&0xff, ModTable(h))
	require.Equal(t, h>>8, DivTable(h))
}

func TestModDivTable_Roundtrip(t *testing.T) {
	for _, h := range []uint32{0, 1, 255, 256, 0xffffffff, 0xdeadbeef} {
		mod := ModTable(h)
		div := DivTable(h)
		require.Less(t, mod, uint32(256))
		require.Equal(t, h, div<<8|mod)
	}
}
