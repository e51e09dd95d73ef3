// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package cdb

import (
	"github.com/jrnichols/cdb/internal/cdbfile"
	"github.com/jrnichols/cdb/internal/unsafestring"
)

// Reader answers point and full-table lookups against a finished cdb
// database. A *Reader is safe for concurrent use by multiple goroutines.
type Reader struct {
	r *cdbfile.Reader
}

// NewReader opens the cdb database at path for reading.
func NewReader(path string) (*Reader, error) {
	r, err := cdbfile.NewReader(path)
	if err != nil {
		return nil, classify("NewReader", err)
	}
	return &Reader{r: r}, nil
}

// Close unmaps and closes the underlying file. Close is idempotent.
func (r *Reader) Close() error {
	return classify("Reader.Close", r.r.Close())
}

// FindOne returns the first value stored under key, or (nil, nil) if no
// such key exists in the database.
func (r *Reader) FindOne(key []byte) ([]byte, error) {
	v, err := r.r.FindOne(key)
	if err != nil {
		return nil, classify("Reader.FindOne", err)
	}
	return v, nil
}

// FindOneString is FindOne for a string key, avoiding a copy of key.
func (r *Reader) FindOneString(key string) ([]byte, error) {
	return r.FindOne(unsafestring.ToBytes(key))
}

// FindAll returns every value stored under key, in insertion order.
func (r *Reader) FindAll(key []byte) ([][]byte, error) {
	vs, err := r.r.FindAll(key)
	if err != nil {
		return nil, classify("Reader.FindAll", err)
	}
	return vs, nil
}

// KeyIter iterates the values stored under a single key, in insertion
// order.
type KeyIter struct {
	it *cdbfile.KeyIter
}

// HasNext reports whether Next will return another value.
func (it *KeyIter) HasNext() bool { return it.it.HasNext() }

// Next returns the next value for this key.
func (it *KeyIter) Next() ([]byte, error) {
	v, err := it.it.Next()
	if err != nil {
		return nil, classify("KeyIter.Next", err)
	}
	return v, nil
}

// IterKey returns an iterator over all values stored under key.
func (r *Reader) IterKey(key []byte) (*KeyIter, error) {
	it, err := r.r.IterKey(key)
	if err != nil {
		return nil, classify("Reader.IterKey", err)
	}
	return &KeyIter{it: it}, nil
}

// Pair is one (key, value) record returned by RecordIter.
type Pair struct {
	Key   []byte
	Value []byte
}

// RecordIter sequentially scans every record in a cdb database in
// on-disk (insertion) order.
type RecordIter struct {
	it *cdbfile.RecordIter
}

// Next advances the iterator and reports whether a record is available.
func (it *RecordIter) Next() (Pair, bool) {
	p, ok := it.it.Next()
	if !ok {
		return Pair{}, false
	}
	return Pair{Key: p.Key, Value: p.Value}, true
}

// Err returns the first error encountered during iteration, if any.
func (it *RecordIter) Err() error {
	return classify("RecordIter.Next", it.it.Err())
}

// IterAll returns an iterator over every record in the database, in the
// order they were written.
func (r *Reader) IterAll() *RecordIter {
	return &RecordIter{it: r.r.IterAll()}
}
