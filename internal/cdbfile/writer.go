// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package cdbfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/jrnichols/cdb/internal/cdbhash"
	"github.com/jrnichols/cdb/internal/zero"
)

const defaultBufferSize = 4 * 1024 * 1024

var (
	// ErrKeyTooLarge is returned by Add when the key exceeds MaxLen bytes.
	ErrKeyTooLarge = errors.New("cdbfile: key exceeds maximum length")
	// ErrValueTooLarge is returned by Add when the value exceeds MaxLen bytes.
	ErrValueTooLarge = errors.New("cdbfile: value exceeds maximum length")
	// ErrFileTooLarge is returned when the file would grow past the
	// 32-bit offset space the cdb format can address.
	ErrFileTooLarge = errors.New("cdbfile: file offset exceeds 32 bits")
	// ErrWriterClosed is returned by Add when the Writer has already been
	// closed or aborted.
	ErrWriterClosed = errors.New("cdbfile: use of closed writer")
)

type nopWriter struct{}

func (nopWriter) Write([]byte) (int, error) { return 0, io.EOF }

// FileWriter is the subset of *os.File a Writer needs. It is an interface
// so tests can exercise failure paths without touching a real file.
type FileWriter interface {
	io.Writer
	io.WriterAt
	Sync() error
	Close() error
}

type bucketEntry struct {
	hash uint32
	off  uint32
}

// Writer streams (key, value) records into a new cdb file and, on Close,
// materializes the 256 sub-tables and the main table at their final
// positions. It is not safe for concurrent use: exactly one goroutine
// must hold a Writer at a time.
type Writer struct {
	f       FileWriter
	w       *bufio.Writer
	off     uint64
	buckets [256][]bucketEntry
	closed  bool
}

// NewWriter wraps f (positioned at the start of a fresh file) as a cdb
// Writer, reserving the first 2048 bytes for the main table.
func NewWriter(f FileWriter) (*Writer, error) {
	w := &Writer{
		f: f,
		w: bufio.NewWriterSize(f, defaultBufferSize),
	}
	if err := w.reserveMainTable(); err != nil {
		_ = w.f.Close()
		return nil, err
	}
	return w, nil
}

func (w *Writer) reserveMainTable() error {
	var zero [cdbhash.MainTableSize]byte
	if _, err := w.w.Write(zero[:]); err != nil {
		return fmt.Errorf("cdbfile: writing main table placeholder: %w", err)
	}
	w.off = cdbhash.MainTableSize
	return nil
}

// Add appends one record and returns the file offset it was written at.
func (w *Writer) Add(key, value []byte) (uint64, error) {
	if w.closed {
		return 0, ErrWriterClosed
	}
	if len(key) > MaxLen {
		return 0, ErrKeyTooLarge
	}
	if len(value) > MaxLen {
		return 0, ErrValueTooLarge
	}
	off := w.off
	if off > math.MaxUint32 {
		return 0, ErrFileTooLarge
	}

	var header [pairSize]byte
	putPair(header[:], uint32(len(key)), uint32(len(value)))
	if _, err := w.w.Write(header[:]); err != nil {
		return 0, fmt.Errorf("cdbfile: writing record header: %w", err)
	}
	if _, err := w.w.Write(key); err != nil {
		return 0, fmt.Errorf("cdbfile: writing key: %w", err)
	}
	if _, err := w.w.Write(value); err != nil {
		return 0, fmt.Errorf("cdbfile: writing value: %w", err)
	}

	h := cdbhash.Sum(key)
	bucket := cdbhash.ModTable(h)
	w.buckets[bucket] = append(w.buckets[bucket], bucketEntry{hash: h, off: uint32(off)})
	w.off += uint64(pairSize) + uint64(len(key)) + uint64(len(value))

	return off, nil
}

// Close flushes pending records, builds and writes the 256 sub-tables and
// the main table, and closes the underlying file. Close is idempotent.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	defer func() {
		_ = w.f.Close()
	}()

	if err := w.w.Flush(); err != nil {
		return fmt.Errorf("cdbfile: flushing records: %w", err)
	}
	// prevent any further writes through the now-stale bufio.Writer
	w.w.Reset(nopWriter{})
	w.w = nil

	if err := w.writeTables(); err != nil {
		return err
	}

	if err := w.f.Sync(); err != nil {
		return fmt.Errorf("cdbfile: sync: %w", err)
	}
	return nil
}

// Abort closes the underlying file without materializing the sub-tables
// or main table, for callers that need to discard a Writer after a
// failure elsewhere in the build (e.g. a malformed dump record). Abort
// is idempotent and safe to call after Close.
func (w *Writer) Abort() error {
	if w.closed {
		return nil
	}
	w.closed = true
	return w.f.Close()
}

// writeTables builds each of the 256 sub-tables in memory, avoiding a
// seek per slot, and writes each with a single WriteAt, then writes the
// main table in one final WriteAt.
func (w *Writer) writeTables() error {
	var mainTable [cdbhash.MainTableSize]byte
	subTableStart := w.off

	// scratch is reused across buckets to avoid one allocation per
	// non-empty bucket; it is zeroed before each use.
	var scratch []byte

	for i := 0; i < 256; i++ {
		entries := w.buckets[i]
		if len(entries) == 0 {
			putPair(mainTable[i*pairSize:i*pairSize+pairSize], uint32(subTableStart), 0)
			continue
		}

		slots := uint32(len(entries)) * 2
		size := int(slots) * pairSize
		if end := int64(size) + int64(subTableStart); end > math.MaxUint32 {
			return ErrFileTooLarge
		}
		if len(scratch) < size {
			scratch = make([]byte, size)
		}
		table := scratch[:size]
		zero.Bytes(table)

		for _, e := range entries {
			slot := cdbhash.DivTable(e.hash) % slots
			for {
				s := table[slot*pairSize : slot*pairSize+pairSize]
				h, off := getPair(s)
				if h == 0 && off == 0 {
					putPair(s, e.hash, e.off)
					break
				}
				slot++
				if slot >= slots {
					slot = 0
				}
			}
		}

		if _, err := w.f.WriteAt(table, int64(subTableStart)); err != nil {
			return fmt.Errorf("cdbfile: writing sub-table %d: %w", i, err)
		}
		putPair(mainTable[i*pairSize:i*pairSize+pairSize], uint32(subTableStart), slots)
		subTableStart += uint64(size)
	}

	if _, err := w.f.WriteAt(mainTable[:], 0); err != nil {
		return fmt.Errorf("cdbfile: writing main table: %w", err)
	}
	return nil
}

