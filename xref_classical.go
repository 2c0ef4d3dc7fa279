// Copyright 2014 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pdfxref

import "strconv"

// resolveClassicalXref implements spec §4.4's classical xref table
// parsing: a run of subsection-header and entry lines, followed by a
// trailer dictionary, followed optionally by a /Prev chain.
func (sess *Session) resolveClassicalXref(startxref int, visited map[int]bool, x *Xref) error {
	src := sess.src
	p := src.skipWhitespaceAndComments(startxref + len("xref"))

	objNum := 0
	for {
		n1, n2, flag, end, ok := matchXrefRow(src, p)
		if !ok {
			break
		}
		switch flag {
		case 'n':
			key := strconv.Itoa(objNum) + "_" + strconv.FormatInt(n2, 10)
			x.setIfAbsent(key, n1)
			objNum++
		case 'f':
			objNum++
		default:
			objNum = int(n1)
		}
		p = end
	}

	idx := src.indexFrom(p, "trailer")
	if idx < 0 {
		return newError(KindTrailerNotFound, "resolveClassicalXref", nil)
	}
	tp := src.skipWhitespaceAndComments(idx + len("trailer"))
	trailerVal, _, err := src.next(tp)
	if err != nil {
		return err
	}
	if trailerVal.Tag != TagDict {
		return newError(KindTrailerNotFound, "resolveClassicalXref", nil)
	}

	prevOffset, hasPrev := mergeTrailerFields(x, trailerVal.Items)
	if hasPrev {
		return sess.resolveXref(int(prevOffset), visited, x)
	}
	return nil
}

// matchXrefRow matches one line of shape
// "(\d+) (\d+) ?([nf]?)(\r\n| ?\r|\n)" starting exactly at pos.
func matchXrefRow(src *source, pos int) (num1, num2 int64, flag byte, end int, ok bool) {
	p := pos
	n1Start := p
	for p < src.len() && isDigit(src.at(p)) {
		p++
	}
	if p == n1Start || src.at(p) != ' ' {
		return 0, 0, 0, 0, false
	}
	n1, _ := strconv.ParseInt(string(src.slice(n1Start, p)), 10, 64)
	p++ // single space

	n2Start := p
	for p < src.len() && isDigit(src.at(p)) {
		p++
	}
	if p == n2Start {
		return 0, 0, 0, 0, false
	}
	n2, _ := strconv.ParseInt(string(src.slice(n2Start, p)), 10, 64)

	if src.at(p) == ' ' {
		p++
	}
	if src.at(p) == 'n' || src.at(p) == 'f' {
		flag = src.at(p)
		p++
	}

	switch {
	case src.at(p) == '\r' && src.at(p+1) == '\n':
		p += 2
	case src.at(p) == ' ' && src.at(p+1) == '\r':
		p += 2
	case src.at(p) == '\r':
		p++
	case src.at(p) == '\n':
		p++
	default:
		return 0, 0, 0, 0, false
	}

	return n1, n2, flag, p, true
}

// mergeTrailerFields applies spec's "first trailer wins" rule: on the
// first call, Size/Root/Info/Encrypt/ID populate x.Trailer; on every
// call, a /Prev entry is reported so the chain keeps walking.
func mergeTrailerFields(x *Xref, items []RawValue) (prevOffset int64, hasPrev bool) {
	first := !x.haveTrailer
	for i := 0; i+1 < len(items); i += 2 {
		key := items[i].Name()
		val := items[i+1]
		switch key {
		case "Prev":
			if val.Tag == TagNumeric {
				prevOffset = val.Int()
				hasPrev = true
			}
		case "Size":
			if first && val.Tag == TagNumeric {
				x.Trailer.Size = int(val.Int())
				x.Trailer.HasSize = true
			}
		case "Root":
			if first && val.Tag == TagObjRef {
				x.Trailer.Root = val.Ref()
			}
		case "Info":
			if first && val.Tag == TagObjRef {
				x.Trailer.Info = val.Ref()
			}
		case "Encrypt":
			if first && val.Tag == TagObjRef {
				x.Trailer.Encrypt = val.Ref()
			}
		case "ID":
			if first && val.Tag == TagArray && len(val.Items) >= 2 {
				x.Trailer.ID[0] = string(val.Items[0].Bytes)
				x.Trailer.ID[1] = string(val.Items[1].Bytes)
			}
		}
	}
	x.haveTrailer = true
	return prevOffset, hasPrev
}

// dictGet returns the value for key in a TagDict's Items, and whether it
// was found.
func dictGet(dict RawValue, key string) (RawValue, bool) {
	for i := 0; i+1 < len(dict.Items); i += 2 {
		if dict.Items[i].Name() == key {
			return dict.Items[i+1], true
		}
	}
	return RawValue{}, false
}
