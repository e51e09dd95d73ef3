// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package cdb

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jrnichols/cdb/internal/cdbfile"
	"github.com/jrnichols/cdb/internal/dump"
)

// BuilderOption configures a Builder.
type BuilderOption func(*builderOptions)

type builderOptions struct {
	logger *slog.Logger
}

// WithLogger sets an optional logger the Builder uses for progress
// updates. If not provided, no logging output is produced.
func WithLogger(logger *slog.Logger) BuilderOption {
	return func(opts *builderOptions) {
		opts.logger = logger
	}
}

// Builder streams key/value pairs into a new cdb database. Records must
// be added in full before Finish is called; a Builder is not safe for
// concurrent use.
type Builder struct {
	resultPath string
	tmpFile    *os.File
	w          *cdbfile.Writer
	logger     *slog.Logger
	n          int
}

// NewStreamingBuilder creates a Builder that writes directly to a new
// database at target. The file is built under a temporary name in
// target's directory and atomically renamed into place by Finish.
func NewStreamingBuilder(target string, opts ...BuilderOption) (*Builder, error) {
	var options builderOptions
	options.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	for _, opt := range opts {
		opt(&options)
	}

	target, err := filepath.Abs(target)
	if err != nil {
		return nil, classify("NewStreamingBuilder", fmt.Errorf("filepath.Abs: %w", err))
	}
	dir := filepath.Dir(target)
	tmpFile, err := os.CreateTemp(dir, "cdb-builder.*.tmp")
	if err != nil {
		return nil, classify("NewStreamingBuilder", fmt.Errorf("CreateTemp failed (may need permissions for dir %q): %w", dir, err))
	}
	w, err := cdbfile.NewWriter(tmpFile)
	if err != nil {
		_ = os.Remove(tmpFile.Name())
		return nil, classify("NewStreamingBuilder", fmt.Errorf("cdbfile.NewWriter: %w", err))
	}

	return &Builder{
		resultPath: target,
		tmpFile:    tmpFile,
		w:          w,
		logger:     options.logger,
	}, nil
}

// abort discards the temp file backing an in-progress build without
// materializing it, for callers that must give up partway through.
func (b *Builder) abort() {
	_ = b.w.Abort()
	_ = os.Remove(b.tmpFile.Name())
}

// Add appends one key/value pair to the database under construction.
func (b *Builder) Add(key, value []byte) error {
	if _, err := b.w.Add(key, value); err != nil {
		return classify("Builder.Add", err)
	}
	b.n++
	if b.n%100000 == 0 {
		b.logger.Info("cdb builder progress", "records", b.n)
	}
	return nil
}

// Finish materializes the sub-tables and atomically publishes the
// database at the target path passed to NewStreamingBuilder.
func (b *Builder) Finish() error {
	if err := b.w.Close(); err != nil {
		_ = os.Remove(b.tmpFile.Name())
		return classify("Builder.Finish", fmt.Errorf("cdbfile.Writer.Close: %w", err))
	}
	if err := os.Rename(b.tmpFile.Name(), b.resultPath); err != nil {
		_ = os.Remove(b.tmpFile.Name())
		return classify("Builder.Finish", fmt.Errorf("os.Rename: %w", err))
	}
	b.logger.Info("cdb builder finished", "records", b.n, "path", b.resultPath)
	return nil
}

// BuildFromDump reads a cdbmake-style dump file at dumpPath and builds a
// new database at target.
func BuildFromDump(target, dumpPath string, opts ...BuilderOption) error {
	f, err := os.Open(dumpPath)
	if err != nil {
		return classify("BuildFromDump", fmt.Errorf("open dump: %w", err))
	}
	defer f.Close()

	b, err := NewStreamingBuilder(target, opts...)
	if err != nil {
		return err
	}
	success := false
	defer func() {
		if !success {
			b.abort()
		}
	}()

	dr := dump.NewReader(f)
	for {
		rec, err := dr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return classify("BuildFromDump", fmt.Errorf("dump.Reader.Next: %w", err))
		}
		if err := b.Add(rec.Key, rec.Value); err != nil {
			return err
		}
	}

	if err := b.Finish(); err != nil {
		return err
	}
	success = true
	return nil
}
