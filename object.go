// Copyright 2014 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// The L3 layer of spec §4.2-§4.3: given an xref entry, parse one indirect
// object's body and, if it turns out to hold a stream, decode its
// payload through the external Filter collaborator.

package pdfxref

import (
	"log/slog"
	"strconv"
	"strings"
)

// getIndirectObject implements spec §4.2.
func (sess *Session) getIndirectObject(ref string, offset int, decode bool) ([]RawValue, error) {
	num, gen, err := splitRef(ref)
	if err != nil {
		return nil, newError(KindInvalidReference, "getIndirectObject", err)
	}
	header := num + " " + gen + " obj"

	p := offset
	for p < sess.src.len() && sess.src.at(p) == '0' {
		p++
	}

	var start int
	switch {
	case sess.src.hasPrefixAt(p, header):
		start = p
	case sess.src.hasPrefixAt(p+1, header):
		start = p + 1
	default:
		slog.Debug("indirect object header not found at offset, returning null", slog.String("ref", ref), slog.Int("offset", offset))
		return []RawValue{{Tag: TagNull, Bytes: []byte("null"), End: offset}}, nil
	}

	cur := start + len(header)
	var result []RawValue
	for {
		v, end, err := sess.src.next(cur)
		if err != nil {
			return nil, err
		}
		if end == cur {
			break // offset failed to advance: guard against infinite loops
		}
		if v.Tag == TagStream && decode && len(result) > 0 && result[len(result)-1].Tag == TagDict {
			dict := result[len(result)-1]
			decoded, residual, derr := sess.decodeStream(dict.Items, v.Bytes)
			if derr != nil {
				return nil, derr
			}
			v.Decoded = &DecodedStream{Data: decoded, ResidualFilters: residual}
		}
		result = append(result, v)
		cur = end
		if v.Tag == TagEndObj {
			break
		}
	}

	if n := len(result); n > 0 && result[n-1].Tag == TagEndObj {
		result = result[:n-1]
	}
	return result, nil
}

// splitRef parses a "num_gen" key into its two integer components,
// validating both are present and numeric (spec §4.2 step 1).
func splitRef(ref string) (num, gen string, err error) {
	parts := strings.Split(ref, "_")
	if len(parts) != 2 {
		return "", "", ErrInvalidReference
	}
	if !isAllDigits(parts[0]) || !isAllDigits(parts[1]) {
		return "", "", ErrInvalidReference
	}
	return parts[0], parts[1], nil
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}

// getObjectVal implements spec §4.2's reference resolution: dereference an
// objref through the cache, or the xref, or return the value unchanged.
func (sess *Session) getObjectVal(v RawValue) (RawValue, error) {
	if v.Tag != TagObjRef {
		return v, nil
	}
	ref := v.Ref()
	if cached, ok := sess.objects[ref]; ok {
		if len(cached) > 0 {
			return cached[0], nil
		}
		return RawValue{Tag: TagNull}, nil
	}
	offset, ok := sess.xref.Entries[ref]
	if !ok {
		return v, nil
	}
	items, err := sess.getIndirectObject(ref, int(offset), false)
	if err != nil {
		return RawValue{}, err
	}
	sess.objects[ref] = items
	if len(items) > 0 {
		return items[0], nil
	}
	return RawValue{Tag: TagNull}, nil
}

// decodeStream implements spec §4.3.
func (sess *Session) decodeStream(dictEntries []RawValue, raw []byte) ([]byte, []string, error) {
	if len(raw) == 0 {
		return nil, nil, nil
	}

	data := raw
	var filterNames []string

	for i := 0; i+1 < len(dictEntries); i += 2 {
		key := dictEntries[i].Name()
		val := dictEntries[i+1]
		switch key {
		case "Length":
			if val.Tag == TagNumeric {
				n := val.Int()
				if n >= 0 && n < int64(len(data)) {
					data = data[:n]
				}
			}
		case "Filter":
			resolved, err := sess.getObjectVal(val)
			if err != nil {
				return nil, nil, err
			}
			switch resolved.Tag {
			case TagName:
				filterNames = append(filterNames, resolved.Name())
			case TagArray:
				for _, item := range resolved.Items {
					n, err := sess.getObjectVal(item)
					if err != nil {
						return nil, nil, err
					}
					if n.Tag == TagName {
						filterNames = append(filterNames, n.Name())
					}
				}
			}
		}
	}

	decoded, err := sess.filter.DecodeAll(filterNames, data)
	if err != nil {
		if sess.ignoreFilterErrors {
			slog.Debug("filter decode failed, passing through raw stream bytes", slog.Any("filters", filterNames), slog.Any("err", err))
			return data, filterNames, nil
		}
		return nil, nil, newError(KindFilterError, "decodeStream", err)
	}
	return decoded, nil, nil
}

// GetIndirectObject is the exported entry point for spec §4.2, usable by
// callers that already know an object's file offset (e.g. after reading
// it out of Xref.Entries directly).
func (sess *Session) GetIndirectObject(ref string, offset int64, decode bool) ([]RawValue, error) {
	return sess.getIndirectObject(ref, int(offset), decode)
}

// GetObjectVal is the exported entry point for spec §4.2's reference
// resolution.
func (sess *Session) GetObjectVal(v RawValue) (RawValue, error) {
	return sess.getObjectVal(v)
}

// GetCompressedObject resolves a compressed xref entry (spec §3.2's
// "streamobj_0_indexWithinStream" key, offset -1): it materializes the
// owning object stream, then tokenizes the requested member at its
// recorded offset within the decoded payload. This is additive to the
// §4.2 contract, not a replacement for it — see SPEC_FULL.md.
func (sess *Session) GetCompressedObject(compressedKey string) ([]RawValue, error) {
	parts := strings.Split(compressedKey, "_")
	if len(parts) != 3 {
		return nil, newError(KindInvalidReference, "GetCompressedObject", nil)
	}
	streamObjNum, index := parts[0], parts[2]

	streamOffset, ok := sess.xref.Entries[streamObjNum+"_0"]
	if !ok || streamOffset < 0 {
		return nil, newError(KindInvalidReference, "GetCompressedObject", nil)
	}
	items, err := sess.getIndirectObject(streamObjNum+"_0", int(streamOffset), true)
	if err != nil {
		return nil, err
	}

	var dict, strm RawValue
	haveDict, haveStream := false, false
	for _, v := range items {
		switch v.Tag {
		case TagDict:
			dict, haveDict = v, true
		case TagStream:
			strm, haveStream = v, true
		}
	}
	if !haveDict || !haveStream || strm.Decoded == nil {
		return nil, newError(KindInvalidReference, "GetCompressedObject", nil)
	}

	n := 0
	if nVal, ok := dictGet(dict, "N"); ok && nVal.Tag == TagNumeric {
		n = int(nVal.Int())
	}
	first := 0
	if firstVal, ok := dictGet(dict, "First"); ok && firstVal.Tag == TagNumeric {
		first = int(firstVal.Int())
	}

	wantIndex, err := strconv.Atoi(index)
	if err != nil {
		return nil, newError(KindInvalidReference, "GetCompressedObject", err)
	}

	header := newSource(strm.Decoded.Data)
	pos := 0
	var offsets []int
	for i := 0; i < n; i++ {
		_, afterNum, err := header.next(pos)
		if err != nil {
			return nil, err
		}
		off, afterOff, err := header.next(afterNum)
		if err != nil {
			return nil, err
		}
		offsets = append(offsets, int(off.Int()))
		pos = afterOff
	}
	if wantIndex < 0 || wantIndex >= len(offsets) {
		return nil, newError(KindInvalidReference, "GetCompressedObject", nil)
	}

	memberStart := first + offsets[wantIndex]
	if memberStart < 0 || memberStart > len(strm.Decoded.Data) {
		return nil, newError(KindInvalidReference, "GetCompressedObject", nil)
	}

	body := newSource(strm.Decoded.Data[memberStart:])
	v, _, err := body.next(0)
	if err != nil {
		return nil, err
	}
	return []RawValue{v}, nil
}
