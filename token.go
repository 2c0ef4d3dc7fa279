// Copyright 2014 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Reading of PDF raw values from an immutable byte buffer. This is the
// L1 layer of spec §4.1: a recursive-descent tokenizer whose whole state
// is the (source, offset) pair passed to next — no cursor is kept between
// calls, matching the "Pure over the immutable byte buffer" contract.

package pdfxref

import "log/slog"

// Internal tags for the closing delimiters ], >>, > and ). next returns
// them like any other value when it meets one of these bytes; readArray
// and readDict consume their own terminator and leave it out of Items.
const (
	tagCloseArray Tag = 1000 + iota
	tagCloseDict
	tagCloseAngle
	tagCloseParen
)

const (
	maxNameLen   = 255
	refObjWindow = 33
)

// next implements the §4.1 procedure: advance past whitespace and
// comments, then dispatch on the current byte.
func (s *source) next(offset int) (RawValue, int, error) {
	offset = s.skipWhitespaceAndComments(offset)
	if offset >= s.len() {
		return RawValue{Tag: TagNull, End: offset}, offset, nil
	}

	c := s.at(offset)
	switch {
	case c == '/':
		return s.readName(offset)
	case c == '(':
		return s.readLiteral(offset)
	case c == '<':
		if s.at(offset+1) == '<' {
			return s.readDict(offset)
		}
		return s.readHex(offset)
	case c == '[':
		return s.readArray(offset)
	case c == ']':
		return RawValue{Tag: tagCloseArray, End: offset + 1}, offset + 1, nil
	case c == '>':
		if s.at(offset+1) == '>' {
			return RawValue{Tag: tagCloseDict, End: offset + 2}, offset + 2, nil
		}
		return RawValue{Tag: tagCloseAngle, End: offset + 1}, offset + 1, nil
	case c == ')':
		return RawValue{Tag: tagCloseParen, End: offset + 1}, offset + 1, nil
	}

	if v, end, ok := s.matchKeyword(offset); ok {
		return v, end, nil
	}

	if tag, key, end, ok := scanRefOrObj(s, offset); ok {
		return RawValue{Tag: tag, Bytes: []byte(key), End: end}, end, nil
	}

	return s.readNumeric(offset)
}

// skipWhitespaceAndComments advances past whitespace bytes and %-comments,
// recursing (via loop) whenever a comment is found, per §4.1 steps 1-2.
func (s *source) skipWhitespaceAndComments(offset int) int {
	for {
		for offset < s.len() && isWhitespace(s.at(offset)) {
			offset++
		}
		if offset < s.len() && s.at(offset) == '%' {
			for offset < s.len() && s.at(offset) != '\r' && s.at(offset) != '\n' {
				offset++
			}
			continue
		}
		return offset
	}
}

func (s *source) readName(offset int) (RawValue, int, error) {
	p := offset + 1 // skip '/'
	start := p
	for p < s.len() && p-start < maxNameLen && !isWhitespace(s.at(p)) && !isDelimiter(s.at(p)) {
		p++
	}
	return RawValue{Tag: TagName, Bytes: s.slice(start, p), End: p}, p, nil
}

func (s *source) readLiteral(offset int) (RawValue, int, error) {
	p := offset + 1 // skip '('
	start := p
	depth := 1
	for p < s.len() {
		c := s.at(p)
		switch c {
		case '\\':
			p += 2 // unconditionally skip escape + next byte
			continue
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				payload := s.slice(start, p)
				return RawValue{Tag: TagLiteral, Bytes: payload, End: p + 1}, p + 1, nil
			}
		}
		p++
	}
	// unterminated: emit partial payload at end-of-buffer.
	payload := s.slice(start, s.len())
	return RawValue{Tag: TagLiteral, Bytes: payload, End: s.len()}, s.len(), nil
}

func (s *source) readHex(offset int) (RawValue, int, error) {
	p := offset + 1 // skip '<'
	var digits []byte
	q := p
	for q < s.len() {
		c := s.at(q)
		if c == '>' {
			return RawValue{Tag: TagHex, Bytes: digits, End: q + 1}, q + 1, nil
		}
		if isHexDigit(c) {
			digits = append(digits, c)
			q++
			continue
		}
		if isWhitespace(c) {
			q++
			continue
		}
		break
	}
	// no well-formed match: skip to next '>'.
	idx := s.indexFrom(p, ">")
	if idx < 0 {
		slog.Debug("unterminated hex string, returning partial payload at eof", slog.Int("offset", offset))
		return RawValue{Tag: TagHex, Bytes: digits, End: s.len()}, s.len(), nil
	}
	slog.Debug("malformed hex string digit, skipping to next delimiter", slog.Int("offset", offset))
	return RawValue{Tag: TagHex, Bytes: nil, End: idx + 1}, idx + 1, nil
}

func isHexDigit(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

func (s *source) readArray(offset int) (RawValue, int, error) {
	p := offset + 1 // skip '['
	var items []RawValue
	for {
		v, end, err := s.next(p)
		if err != nil {
			return RawValue{}, p, err
		}
		p = end
		if v.Tag == tagCloseArray {
			break
		}
		items = append(items, v)
		if p >= s.len() {
			break
		}
	}
	return RawValue{Tag: TagArray, Items: items, End: p}, p, nil
}

func (s *source) readDict(offset int) (RawValue, int, error) {
	p := offset + 2 // skip '<<'
	var items []RawValue
	for {
		v, end, err := s.next(p)
		if err != nil {
			return RawValue{}, p, err
		}
		p = end
		if v.Tag == tagCloseDict {
			break
		}
		items = append(items, v)
		if p >= s.len() {
			break
		}
	}
	return RawValue{Tag: TagDict, Items: items, End: p}, p, nil
}

// keyword table, checked in this priority order per §4.1.
var keywordOrder = []struct {
	word string
	tag  Tag
}{
	{"endobj", TagEndObj},
	{"endstream", TagEndStream},
	{"null", TagNull},
	{"true", TagBoolean},
	{"false", TagBoolean},
	{"stream", TagStream},
}

func (s *source) matchKeyword(offset int) (RawValue, int, bool) {
	for _, kw := range keywordOrder {
		if !s.hasPrefixAt(offset, kw.word) {
			continue
		}
		after := offset + len(kw.word)
		if after < s.len() && !isWhitespace(s.at(after)) && !isDelimiter(s.at(after)) {
			continue // not a whole-word match, e.g. "nullable"
		}
		if kw.tag == TagStream {
			return s.readStreamBody(offset, after)
		}
		var payload []byte
		if kw.tag == TagBoolean || kw.tag == TagNull {
			payload = []byte(kw.word)
		}
		return RawValue{Tag: kw.tag, Bytes: payload, End: after}, after, true
	}
	return RawValue{}, offset, false
}

// readStreamBody implements §4.1's stream case and the §4.6 state
// machine: after the keyword, skip one "\r\n", "\r" or "\n" if present
// (the body starts right after the keyword otherwise), then scan for the
// next "endstream" followed by a whitespace byte (or end of buffer).
func (s *source) readStreamBody(_ int, afterKeyword int) (RawValue, int, bool) {
	p := afterKeyword
	switch {
	case s.at(p) == '\r' && s.at(p+1) == '\n':
		p += 2
	case s.at(p) == '\r' || s.at(p) == '\n':
		p++
	}
	bodyStart := p
	searchFrom := bodyStart
	bodyEnd := s.len()
	for {
		idx := s.indexFrom(searchFrom, "endstream")
		if idx < 0 {
			bodyEnd = s.len()
			break
		}
		after := idx + len("endstream")
		if after >= s.len() || isWhitespace(s.at(after)) {
			bodyEnd = idx
			break
		}
		searchFrom = idx + 1
	}
	payload := s.slice(bodyStart, bodyEnd)
	return RawValue{Tag: TagStream, Bytes: payload, End: bodyEnd}, bodyEnd, true
}

func (s *source) readNumeric(offset int) (RawValue, int, error) {
	p := offset
	for p < s.len() && isNumericByte(s.at(p)) {
		p++
	}
	if p == offset {
		// Nothing recognizable; advance one byte to guarantee progress.
		return RawValue{Tag: TagNull, End: offset + 1}, offset + 1, nil
	}
	return RawValue{Tag: TagNumeric, Bytes: s.slice(offset, p), End: p}, p, nil
}

// scanRefOrObj tries, in order, "N G R" and "N G obj" starting exactly at
// offset, bounded by the explicit 33-byte lookahead window.
func scanRefOrObj(s *source, offset int) (Tag, string, int, bool) {
	limit := offset + refObjWindow
	if limit > s.len() {
		limit = s.len()
	}
	p := offset
	numStart := p
	for p < limit && isDigit(s.at(p)) {
		p++
	}
	if p == numStart {
		return 0, "", 0, false
	}
	num := string(s.slice(numStart, p))

	wsStart := p
	for p < limit && isWhitespace(s.at(p)) {
		p++
	}
	if p == wsStart {
		return 0, "", 0, false
	}

	genStart := p
	for p < limit && isDigit(s.at(p)) {
		p++
	}
	if p == genStart {
		return 0, "", 0, false
	}
	gen := string(s.slice(genStart, p))

	ws2 := p
	for p < limit && isWhitespace(s.at(p)) {
		p++
	}
	if p == ws2 {
		return 0, "", 0, false
	}

	key := num + "_" + gen

	if s.at(p) == 'R' {
		after := p + 1
		if after >= s.len() || isWhitespace(s.at(after)) || isDelimiter(s.at(after)) {
			return TagObjRef, key, after, true
		}
	}
	if s.hasPrefixAt(p, "obj") {
		after := p + 3
		if after >= s.len() || isWhitespace(s.at(after)) || isDelimiter(s.at(after)) {
			return TagObj, key, after, true
		}
	}
	return 0, "", 0, false
}
