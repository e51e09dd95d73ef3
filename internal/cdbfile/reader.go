// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package cdbfile

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/edsrzf/mmap-go"

	"github.com/jrnichols/cdb/internal/cdbhash"
)

var (
	// ErrShortFile is returned when a file is smaller than the fixed
	// 2048-byte main table and therefore cannot be a valid cdb file.
	ErrShortFile = errors.New("cdbfile: file shorter than main table")
	// ErrTruncatedRecord is returned when a slot or record header points
	// past the end of the mapped file.
	ErrTruncatedRecord = errors.New("cdbfile: record or slot truncated")
	// ErrReaderClosed is returned by any Reader method after Close.
	ErrReaderClosed = errors.New("cdbfile: use of closed reader")
)

// Reader answers point and full-table lookups against a finished cdb
// file. A Reader memory-maps the file once at open time and never seeks,
// so a *Reader is safe for concurrent use by multiple goroutines without
// any locking of its own.
type Reader struct {
	f    *os.File
	m    mmap.MMap
	once sync.Once
	err  error
}

// NewReader opens path and memory-maps its contents for reading.
func NewReader(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cdbfile: open: %w", err)
	}

	fi, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("cdbfile: stat: %w", err)
	}
	if fi.Size() < cdbhash.MainTableSize {
		_ = f.Close()
		return nil, ErrShortFile
	}

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("cdbfile: mmap: %w", err)
	}
	adviseRandom(m)

	return &Reader{f: f, m: m}, nil
}

// Close unmaps and closes the underlying file. Close is idempotent.
func (r *Reader) Close() error {
	r.once.Do(func() {
		if err := r.m.Unmap(); err != nil {
			r.err = fmt.Errorf("cdbfile: munmap: %w", err)
		}
		if err := r.f.Close(); err != nil && r.err == nil {
			r.err = fmt.Errorf("cdbfile: close: %w", err)
		}
	})
	return r.err
}

// sliceAt returns the n bytes at off, bounds-checked against the mapped
// file so a malformed offset in a slot or header cannot cause a panic.
func (r *Reader) sliceAt(off, n uint64) ([]byte, error) {
	end := off + n
	if end < off || end > uint64(len(r.m)) {
		return nil, ErrTruncatedRecord
	}
	return r.m[off:end], nil
}

func (r *Reader) mainTable() []byte {
	return r.m[:cdbhash.MainTableSize]
}

// FindOne returns the first value stored under key, or (nil, nil) if no
// such key exists. A non-nil error indicates the file is truncated or
// malformed, not that the key is absent.
func (r *Reader) FindOne(key []byte) ([]byte, error) {
	p, err := r.newProbe(key)
	if err != nil {
		return nil, err
	}
	if !p.hasNext {
		return nil, nil
	}
	return p.next, nil
}

// FindAll returns every value stored under key, in insertion order.
func (r *Reader) FindAll(key []byte) ([][]byte, error) {
	p, err := r.newProbe(key)
	if err != nil {
		return nil, err
	}
	var out [][]byte
	for p.hasNext {
		v := p.next
		if err := p.advance(); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// KeyIter iterates the values stored under a single key, in insertion
// order, pre-fetching the next matching record so HasNext is always
// accurate even across hash collisions.
type KeyIter struct {
	p *keyProbe
}

// HasNext reports whether Next will return another value.
func (it *KeyIter) HasNext() bool { return it.p.hasNext }

// Next returns the next value for this key. It must not be called when
// HasNext is false; if it is, Next returns (nil, nil).
func (it *KeyIter) Next() ([]byte, error) {
	if !it.p.hasNext {
		return nil, nil
	}
	v := it.p.next
	if err := it.p.advance(); err != nil {
		return nil, err
	}
	return v, nil
}

// IterKey returns an iterator over all values stored under key.
func (r *Reader) IterKey(key []byte) (*KeyIter, error) {
	p, err := r.newProbe(key)
	if err != nil {
		return nil, err
	}
	return &KeyIter{p: p}, nil
}

func (r *Reader) newProbe(key []byte) (*keyProbe, error) {
	p := &keyProbe{r: r, key: key, hash: cdbhash.Sum(key)}
	if err := p.init(); err != nil {
		return nil, err
	}
	return p, nil
}

// keyProbe walks the linearly-probed sub-table for a single key,
// eagerly locating the next actually-matching record so that hasNext
// never lies in the presence of hash collisions on the way to it.
type keyProbe struct {
	r   *Reader
	key []byte
	hash uint32

	info      cdbhash.SlotTableInfo
	slot      uint32
	remaining uint32
	done      bool

	hasNext bool
	next    []byte
}

func (p *keyProbe) init() error {
	p.info = cdbhash.Lookup(p.r.mainTable(), p.hash)
	if !p.info.HasEntries() {
		p.done = true
		return nil
	}
	p.slot = p.info.FirstEntry()
	p.remaining = p.info.Entries()
	return p.advance()
}

// advance scans forward from the current slot until it either finds the
// next record whose stored key equals p.key (buffering its value into
// p.next and leaving p.slot/p.remaining positioned just past it), or
// exhausts the probe sequence.
func (p *keyProbe) advance() error {
	p.hasNext = false
	if p.done {
		return nil
	}

	for p.remaining > 0 {
		slotOff := uint64(p.info.Offset()) + uint64(p.slot)*pairSize
		s, err := p.r.sliceAt(slotOff, pairSize)
		if err != nil {
			return err
		}
		slotHash, recOff := getPair(s)

		p.slot++
		if p.slot >= p.info.Entries() {
			p.slot = 0
		}
		p.remaining--

		if slotHash == 0 && recOff == 0 {
			// An empty slot marks the end of this key's probe sequence:
			// linear probing never wraps past a slot it left empty.
			break
		}
		if slotHash != p.hash {
			continue
		}

		header, err := p.r.sliceAt(uint64(recOff), pairSize)
		if err != nil {
			return err
		}
		klen, dlen := getPair(header)

		candidate, err := p.r.sliceAt(uint64(recOff)+pairSize, uint64(klen))
		if err != nil {
			return err
		}
		if !bytes.Equal(candidate, p.key) {
			continue
		}

		value, err := p.r.sliceAt(uint64(recOff)+pairSize+uint64(klen), uint64(dlen))
		if err != nil {
			return err
		}
		p.next = value
		p.hasNext = true
		return nil
	}

	p.done = true
	return nil
}

// Pair is one (key, value) record returned by RecordIter.
type Pair struct {
	Key   []byte
	Value []byte
}

// RecordIter sequentially scans every record in a cdb file in on-disk
// order, independent of hashing. It is a pull-based iterator rather than
// a channel: callers control pacing and no goroutine is left running if
// the scan is abandoned early.
type RecordIter struct {
	r   *Reader
	off uint64
	end uint64
	err error
}

// IterAll returns an iterator over every record in the file, in the
// order they were written.
func (r *Reader) IterAll() *RecordIter {
	// Bucket 0's offset field always names the end of the records
	// region: the writer assigns it before any sub-table bytes are
	// written, whether or not bucket 0 itself has entries.
	off0, _ := getPair(r.mainTable()[0:pairSize])
	return &RecordIter{r: r, off: cdbhash.MainTableSize, end: uint64(off0)}
}

// Next advances the iterator and reports whether a record is available.
func (it *RecordIter) Next() (Pair, bool) {
	if it.err != nil || it.off >= it.end {
		return Pair{}, false
	}
	header, err := it.r.sliceAt(it.off, pairSize)
	if err != nil {
		it.err = err
		return Pair{}, false
	}
	klen, dlen := getPair(header)

	key, err := it.r.sliceAt(it.off+pairSize, uint64(klen))
	if err != nil {
		it.err = err
		return Pair{}, false
	}
	value, err := it.r.sliceAt(it.off+pairSize+uint64(klen), uint64(dlen))
	if err != nil {
		it.err = err
		return Pair{}, false
	}

	it.off += uint64(pairSize) + uint64(klen) + uint64(dlen)
	return Pair{Key: key, Value: value}, true
}

// Err returns the first error encountered during iteration, if any.
func (it *RecordIter) Err() error { return it.err }
