// Copyright 2014 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pdfxref parses the structural layer of a PDF document: the
// cross-reference index, the trailer, and the tree of indirect objects it
// names. It does not interpret content streams, render pages, decrypt
// documents, or write PDFs back out — see spec.md and SPEC_FULL.md for the
// exact boundary.
//
// The typical entry point is Parse, which returns a Session holding the
// resolved Xref and a lazily-populated Objects table:
//
//	sess, err := pdfxref.Parse(data)
//	if err != nil {
//		// err is a *pdfxref.Error; errors.Is(err, pdfxref.ErrHeaderMissing) etc.
//	}
//	root := sess.Xref().Trailer.Root
package pdfxref

import "bytes"

// Parse implements spec §4.5: locate the %PDF- header, resolve the xref
// chain from it, and eagerly materialize every uncompressed, present
// object the xref names.
func Parse(data []byte, opts ...Option) (*Session, error) {
	if len(data) == 0 {
		return nil, newError(KindEmptyData, "Parse", nil)
	}

	idx := bytes.Index(data, []byte("%PDF-"))
	if idx < 0 {
		return nil, newError(KindHeaderMissing, "Parse", nil)
	}
	trimmed := data[idx:]

	sess := NewSession(trimmed, opts...)
	visited := make(map[int]bool)
	if err := sess.resolveXref(0, visited, sess.xref); err != nil {
		return nil, err
	}
	if len(sess.xref.Entries) == 0 {
		return nil, newError(KindXrefNotFound, "Parse", nil)
	}

	for _, key := range sess.xref.Order {
		offset := sess.xref.Entries[key]
		if offset <= 0 {
			continue // compressed (-1) or absent: not eagerly materialized
		}
		if _, ok := sess.objects[key]; ok {
			continue
		}
		items, err := sess.getIndirectObject(key, int(offset), true)
		if err != nil {
			return nil, err
		}
		sess.objects[key] = items
	}

	return sess, nil
}
