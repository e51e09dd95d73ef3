// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package dump reads and writes the cdbmake dump text format: a sequence
// of "+klen,dlen:key->data\n" records terminated by a blank line. The
// grammar accepts only digit characters before a "," or ":" terminator;
// anything else is a format error.
package dump
