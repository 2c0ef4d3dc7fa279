// Copyright 2014 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Locating and parsing cross-reference data: the L2 layer of spec §4.4.
// Both classical xref tables and cross-reference streams (with their PNG
// predictor post-filter) funnel into the same Xref accumulator, and the
// /Prev chain is walked with a revisit guard so malformed documents with
// a cyclic Prev chain fail fast (spec §3.4, §7 XrefLoop) instead of
// looping forever, mirroring how the teacher's readXrefStream/
// readXrefTable walk Prev but adding the guard the teacher lacks.

package pdfxref

import (
	"strconv"
)

// Trailer carries the document-wide pointers named in spec §3.2.
type Trailer struct {
	Size    int
	HasSize bool
	Root    string
	Info    string
	Encrypt string
	ID      [2]string
}

// Xref is the cross-reference index: an ordered mapping from "num_gen" to
// byte offset (spec §3.2), plus the merged trailer.
type Xref struct {
	Entries map[string]int64
	Order   []string // insertion order, for stable serialization (spec §8)
	Trailer Trailer

	haveTrailer bool
}

func newXref() *Xref {
	return &Xref{Entries: make(map[string]int64)}
}

func (x *Xref) setIfAbsent(key string, offset int64) {
	if _, ok := x.Entries[key]; ok {
		return
	}
	x.Entries[key] = offset
	x.Order = append(x.Order, key)
}

// resolveXref implements spec §4.4: locate the xref data reachable from
// offset, parse it (classical table or xref stream), merge its trailer if
// this is the first one seen, and recurse into any /Prev chain.
func (sess *Session) resolveXref(offset int, visited map[int]bool, x *Xref) error {
	if visited[offset] {
		return newError(KindXrefLoop, "resolveXref", nil)
	}
	visited[offset] = true

	src := sess.src
	var startxref int

	switch {
	case offset == 0:
		off, ok := findLastStartxref(src)
		if !ok {
			return newError(KindStartXrefNotFound, "resolveXref", nil)
		}
		startxref = off
	default:
		if idx := src.indexFrom(offset, "xref"); idx >= 0 && idx <= offset+4 {
			startxref = idx
		} else if isObjHeaderAt(src, offset) {
			startxref = offset
		} else if off, ok := findStartxrefFrom(src, offset); ok {
			startxref = off
		} else {
			return newError(KindStartXrefNotFound, "resolveXref", nil)
		}
	}

	if src.hasPrefixAt(startxref, "xref") {
		return sess.resolveClassicalXref(startxref, visited, x)
	}
	return sess.resolveXrefStream(startxref, visited, x)
}

// isObjHeaderAt reports whether "N G obj" begins exactly at offset.
func isObjHeaderAt(src *source, offset int) bool {
	tag, _, _, ok := scanRefOrObj(src, offset)
	return ok && tag == TagObj
}

// findLastStartxref scans the whole buffer for
// "startxref\s+(\d+)\s+%%EOF" occurrences (see matchStartxrefAt) and
// returns the last match's captured offset.
func findLastStartxref(src *source) (int, bool) {
	best := -1
	found := false
	for i := 0; i < src.len(); i++ {
		off, end, ok := matchStartxrefEOF(src, i)
		if ok {
			best = off
			found = true
			i = end - 1
		}
	}
	return best, found
}

// findStartxrefFrom searches forward from offset for the same pattern and
// returns the first match's captured offset.
func findStartxrefFrom(src *source, offset int) (int, bool) {
	idx := src.indexFrom(offset, "startxref")
	for idx >= 0 {
		if off, _, ok := matchStartxrefAt(src, idx); ok {
			return off, true
		}
		idx = src.indexFrom(idx+1, "startxref")
	}
	return 0, false
}

// matchStartxrefEOF checks for a "startxref" keyword starting exactly at
// i and, if found, tries to match the full tail pattern from there.
func matchStartxrefEOF(src *source, i int) (int, int, bool) {
	if !src.hasPrefixAt(i, "startxref") {
		return 0, 0, false
	}
	return matchStartxrefAt(src, i)
}

// matchStartxrefAt matches "startxref\s+(\d+)\s+%%EOF" starting exactly
// at i (the leading \r?\n before "startxref" is optional in this
// implementation: any leading whitespace already skipped by the caller's
// scan is sufficient to identify the intended occurrence).
func matchStartxrefAt(src *source, i int) (int, int, bool) {
	p := i + len("startxref")
	wsStart := p
	for p < src.len() && isWhitespace(src.at(p)) {
		p++
	}
	if p == wsStart {
		return 0, 0, false
	}
	numStart := p
	for p < src.len() && isDigit(src.at(p)) {
		p++
	}
	if p == numStart {
		return 0, 0, false
	}
	off, err := strconv.Atoi(string(src.slice(numStart, p)))
	if err != nil {
		return 0, 0, false
	}
	wsStart2 := p
	for p < src.len() && isWhitespace(src.at(p)) {
		p++
	}
	if p == wsStart2 {
		return 0, 0, false
	}
	if !src.hasPrefixAt(p, "%%EOF") {
		return 0, 0, false
	}
	return off, p + len("%%EOF"), true
}
