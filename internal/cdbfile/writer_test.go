// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package cdbfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrnichols/cdb/internal/cdbhash"
)

func openTemp(t *testing.T) *os.File {
	t.Helper()
	f, err := os.Create(filepath.Join(t.TempDir(), "out.cdb"))
	require.NoError(t, err)
	return f
}

func TestWriter_EmptyFileHasAllEmptyBuckets(t *testing.T) {
	f := openTemp(t)
	w, err := NewWriter(f)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	data, err := os.ReadFile(f.Name())
	require.NoError(t, err)
	require.Len(t, data, cdbhash.MainTableSize)

	for i := 0; i < 256; i++ {
		off := i * pairSize
		offset, entries := getPair(data[off : off+pairSize])
		require.Equal(t, uint32(cdbhash.MainTableSize), offset)
		require.Zero(t, entries)
	}
}

func TestWriter_SingleRecordRoundTrips(t *testing.T) {
	f := openTemp(t)
	w, err := NewWriter(f)
	require.NoError(t, err)

	recOff, err := w.Add([]byte("k"), []byte("v"))
	require.NoError(t, err)
	require.Equal(t, uint64(cdbhash.MainTableSize), recOff)

	require.NoError(t, w.Close())

	data, err := os.ReadFile(f.Name())
	require.NoError(t, err)

	h := cdbhash.Sum([]byte("k"))
	bucket := cdbhash.ModTable(h)
	mainOff := int(bucket) * pairSize
	subOff, subEntries := getPair(data[mainOff : mainOff+pairSize])
	require.Equal(t, uint32(2), subEntries)

	slot := cdbhash.DivTable(h) % subEntries
	slotOff := int(subOff) + int(slot)*pairSize
	slotHash, slotRecOff := getPair(data[slotOff : slotOff+pairSize])
	require.Equal(t, h, slotHash)

	klen, dlen := getPair(data[slotRecOff : slotRecOff+pairSize])
	require.Equal(t, uint32(1), klen)
	require.Equal(t, uint32(1), dlen)
	key := data[int(slotRecOff)+pairSize : int(slotRecOff)+pairSize+1]
	value := data[int(slotRecOff)+pairSize+1 : int(slotRecOff)+pairSize+2]
	require.Equal(t, "k", string(key))
	require.Equal(t, "v", string(value))
}

func TestWriter_DuplicateKeysBothStored(t *testing.T) {
	f := openTemp(t)
	w, err := NewWriter(f)
	require.NoError(t, err)

	_, err = w.Add([]byte("dup"), []byte("first"))
	require.NoError(t, err)
	_, err = w.Add([]byte("dup"), []byte("second"))
	require.NoError(t, err)

	require.NoError(t, w.Close())

	data, err := os.ReadFile(f.Name())
	require.NoError(t, err)

	h := cdbhash.Sum([]byte("dup"))
	bucket := cdbhash.ModTable(h)
	mainOff := int(bucket) * pairSize
	subOff, subEntries := getPair(data[mainOff : mainOff+pairSize])
	require.Equal(t, uint32(4), subEntries)

	var found []string
	for slot := uint32(0); slot < subEntries; slot++ {
		slotOff := int(subOff) + int(slot)*pairSize
		slotHash, recOff := getPair(data[slotOff : slotOff+pairSize])
		if slotHash == 0 && recOff == 0 {
			continue
		}
		if slotHash != h {
			continue
		}
		klen, dlen := getPair(data[recOff : recOff+pairSize])
		value := data[int(recOff)+pairSize+int(klen) : int(recOff)+pairSize+int(klen)+int(dlen)]
		found = append(found, string(value))
	}
	require.ElementsMatch(t, []string{"first", "second"}, found)
}

func TestWriter_AddAfterCloseFails(t *testing.T) {
	f := openTemp(t)
	w, err := NewWriter(f)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	_, err = w.Add([]byte("k"), []byte("v"))
	require.ErrorIs(t, err, ErrWriterClosed)
}

func TestWriter_CloseIsIdempotent(t *testing.T) {
	f := openTemp(t)
	w, err := NewWriter(f)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
}

func TestWriter_ManyKeysProduceProbeableTable(t *testing.T) {
	f := openTemp(t)
	w, err := NewWriter(f)
	require.NoError(t, err)

	const n = 2000
	for i := 0; i < n; i++ {
		key := []byte{byte(i), byte(i >> 8), byte(i >> 16)}
		require.NoError(t, must(w.Add(key, key)))
	}
	require.NoError(t, w.Close())

	data, err := os.ReadFile(f.Name())
	require.NoError(t, err)
	require.True(t, len(data) > cdbhash.MainTableSize)

	r, err := NewReader(f.Name())
	require.NoError(t, err)
	defer r.Close()
	for i := 0; i < n; i++ {
		key := []byte{byte(i), byte(i >> 8), byte(i >> 16)}
		v, err := r.FindOne(key)
		require.NoError(t, err)
		require.Equal(t, key, v)
	}
}

func must(_ uint64, err error) error { return err }
