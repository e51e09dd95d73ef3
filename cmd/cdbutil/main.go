// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Command cdbutil dumps, builds, and queries cdb databases.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/jrnichols/cdb"
	"github.com/jrnichols/cdb/internal/dump"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "dump":
		err = runDump(os.Args[2:])
	case "make":
		err = runMake(os.Args[2:])
	case "get":
		err = runGet(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "cdbutil:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: cdbutil dump <db> <dumpfile>")
	fmt.Fprintln(os.Stderr, "       cdbutil make <dumpfile> <db>")
	fmt.Fprintln(os.Stderr, "       cdbutil get <db> <key>")
}

func runDump(args []string) error {
	fs := flag.NewFlagSet("dump", flag.ExitOnError)
	fs.Parse(args)
	if fs.NArg() != 2 {
		return fmt.Errorf("dump requires <db> <dumpfile>")
	}
	dbPath, dumpPath := fs.Arg(0), fs.Arg(1)

	r, err := cdb.NewReader(dbPath)
	if err != nil {
		return fmt.Errorf("opening %s: %w", dbPath, err)
	}
	defer r.Close()

	dw, err := dump.Open(dumpPath)
	if err != nil {
		return fmt.Errorf("opening %s: %w", dumpPath, err)
	}

	it := r.IterAll()
	for {
		p, ok := it.Next()
		if !ok {
			break
		}
		if err := dw.WriteRecord(p.Key, p.Value); err != nil {
			return fmt.Errorf("writing dump record: %w", err)
		}
	}
	if err := it.Err(); err != nil {
		_ = dw.Abort()
		return fmt.Errorf("scanning %s: %w", dbPath, err)
	}
	return dw.Close()
}

func runMake(args []string) error {
	fs := flag.NewFlagSet("make", flag.ExitOnError)
	verbose := fs.Bool("v", false, "log build progress")
	fs.Parse(args)
	if fs.NArg() != 2 {
		return fmt.Errorf("make requires <dumpfile> <db>")
	}
	dumpPath, dbPath := fs.Arg(0), fs.Arg(1)

	var opts []cdb.BuilderOption
	if *verbose {
		opts = append(opts, cdb.WithLogger(slog.New(slog.NewTextHandler(os.Stderr, nil))))
	}
	if err := cdb.BuildFromDump(dbPath, dumpPath, opts...); err != nil {
		return fmt.Errorf("building %s: %w", dbPath, err)
	}
	return nil
}

func runGet(args []string) error {
	fs := flag.NewFlagSet("get", flag.ExitOnError)
	fs.Parse(args)
	if fs.NArg() != 2 {
		return fmt.Errorf("get requires <db> <key>")
	}
	dbPath, key := fs.Arg(0), fs.Arg(1)

	r, err := cdb.NewReader(dbPath)
	if err != nil {
		return fmt.Errorf("opening %s: %w", dbPath, err)
	}
	defer r.Close()

	v, err := r.FindOneString(key)
	if err != nil {
		return fmt.Errorf("looking up %q: %w", key, err)
	}
	if v == nil {
		os.Exit(1)
	}
	os.Stdout.Write(v)
	return nil
}
