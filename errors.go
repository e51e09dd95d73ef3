// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package cdb

import (
	"errors"
	"fmt"

	"github.com/jrnichols/cdb/internal/cdbfile"
	"github.com/jrnichols/cdb/internal/dump"
)

// Kind classifies an *Error by what kind of failure occurred.
type Kind int

const (
	// IO covers failures from the filesystem: open, read, write, sync,
	// rename.
	IO Kind = iota
	// Format covers failures decoding a cdb file or a dump stream that
	// does not conform to its grammar.
	Format
	// State covers misuse of the API itself, such as adding to a
	// Builder after Finish. KeyIter.Next called past the last value
	// returns (nil, nil) rather than a State error.
	State
)

func (k Kind) String() string {
	switch k {
	case IO:
		return "IO"
	case Format:
		return "Format"
	case State:
		return "State"
	default:
		return "Unknown"
	}
}

// Error wraps a lower-level error with the operation that produced it
// and a Kind classifying it, so callers can branch with errors.As
// without needing to know which internal package raised the error.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("cdb: %s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// classify wraps err (if non-nil) as an *Error, inferring Kind from the
// internal sentinel errors that internal/cdbfile and internal/dump
// raise. Errors already produced by this package pass through
// unchanged.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return &Error{Kind: kindOf(err), Op: op, Err: err}
}

func kindOf(err error) Kind {
	switch {
	case errors.Is(err, cdbfile.ErrShortFile),
		errors.Is(err, cdbfile.ErrTruncatedRecord),
		errors.Is(err, dump.ErrFormat):
		return Format
	case errors.Is(err, cdbfile.ErrWriterClosed),
		errors.Is(err, cdbfile.ErrReaderClosed):
		return State
	case errors.Is(err, cdbfile.ErrKeyTooLarge),
		errors.Is(err, cdbfile.ErrValueTooLarge),
		errors.Is(err, cdbfile.ErrFileTooLarge),
		errors.Is(err, dump.ErrKeyTooLarge),
		errors.Is(err, dump.ErrValueTooLarge):
		return Format
	default:
		return IO
	}
}
