// Copyright 2014 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pdfxref

import (
	"log/slog"
	"strconv"
)

// resolveXrefStream implements spec §4.4's cross-reference stream
// parsing: tokenize the object header at startxref, materialize it with
// stream decoding enabled, and interpret its dictionary and decoded
// payload as a row table.
func (sess *Session) resolveXrefStream(startxref int, visited map[int]bool, x *Xref) error {
	header, _, err := sess.src.next(startxref)
	if err != nil {
		return err
	}
	if header.Tag != TagObj {
		return newError(KindXrefNotFound, "resolveXrefStream", nil)
	}
	key := header.Ref()

	items, err := sess.getIndirectObject(key, startxref, true)
	if err != nil {
		return err
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
	if !haveDict || !haveStream {
		return nil // not usable as an xref stream; no entries consumed
	}

	typeVal, ok := dictGet(dict, "Type")
	if !ok || typeVal.Tag != TagName || typeVal.Name() != "XRef" {
		return nil // rejected for xref purposes
	}

	first := 0
	if idxVal, ok := dictGet(dict, "Index"); ok && idxVal.Tag == TagArray && len(idxVal.Items) >= 1 {
		first = int(idxVal.Items[0].Int())
	}

	wVal, ok := dictGet(dict, "W")
	if !ok || wVal.Tag != TagArray || len(wVal.Items) < 3 {
		return newError(KindUnpackFailure, "resolveXrefStream", nil)
	}
	w0 := int(wVal.Items[0].Int())
	w1 := int(wVal.Items[1].Int())
	w2 := int(wVal.Items[2].Int())

	columns := 0
	if dpVal, ok := dictGet(dict, "DecodeParms"); ok && dpVal.Tag == TagDict {
		if colVal, ok2 := dictGet(dpVal, "Columns"); ok2 && colVal.Tag == TagNumeric {
			columns = int(colVal.Int())
			if columns < 0 {
				columns = 0
			}
		}
	}

	var data []byte
	if strm.Decoded != nil {
		data = strm.Decoded.Data
	}
	if columns > 0 {
		unpredicted, err := unpredictPNG(data, columns)
		if err != nil {
			return err
		}
		data = unpredicted
	}

	rowWidth := w0 + w1 + w2
	if rowWidth <= 0 {
		return newError(KindUnpackFailure, "resolveXrefStream", nil)
	}
	objNum := first
	for off := 0; off+rowWidth <= len(data); off += rowWidth {
		f0 := decodeBEInt(data[off : off+w0])
		f1 := decodeBEInt(data[off+w0 : off+w0+w1])
		f2 := decodeBEInt(data[off+w0+w1 : off+w0+w1+w2])
		typ := f0
		if w0 == 0 {
			typ = 1
		}
		switch typ {
		case 0:
			// free entry, no-op.
		case 1:
			key := strconv.Itoa(objNum) + "_" + strconv.Itoa(f2)
			x.setIfAbsent(key, int64(f1))
		case 2:
			key := strconv.Itoa(f1) + "_0_" + strconv.Itoa(f2)
			x.setIfAbsent(key, -1)
		default:
			slog.Debug("unrecognized xref stream row type", slog.Int("type", typ), slog.Int("objNum", objNum))
		}
		objNum++
	}

	prevOffset, hasPrev := mergeTrailerFields(x, dict.Items)
	if hasPrev {
		return sess.resolveXref(int(prevOffset), visited, x)
	}
	return nil
}

func decodeBEInt(b []byte) int {
	x := 0
	for _, c := range b {
		x = x<<8 | int(c)
	}
	return x
}

// unpredictPNG reverses the PNG predictor applied to an xref stream's
// decoded payload, per spec §4.4's selector table. columns is the row
// width in bytes excluding the leading selector byte.
func unpredictPNG(data []byte, columns int) ([]byte, error) {
	if columns <= 0 {
		return data, nil
	}
	rowLen := columns + 1
	nRows := len(data) / rowLen
	out := make([]byte, 0, nRows*columns)
	prevRow := make([]byte, columns)

	for r := 0; r < nRows; r++ {
		row := data[r*rowLen : r*rowLen+rowLen]
		selector := row[0]
		cur := row[1:]
		outRow := make([]byte, columns)
		var left, upleft byte

		for c := 0; c < columns; c++ {
			up := prevRow[c]
			var value byte
			switch selector {
			case 10: // None
				value = cur[c]
			case 11: // Sub
				value = cur[c] + left
			case 12: // Up
				value = cur[c] + up
			case 13: // Average
				value = cur[c] + byte((int(left)+int(up))/2)
			case 14: // Paeth
				p := int(left) + int(up) - int(upleft)
				pa := absInt(p - int(left))
				pb := absInt(p - int(up))
				pc := absInt(p - int(upleft))
				var pred byte
				switch {
				case pa <= pb && pa <= pc:
					pred = left
				case pb <= pc:
					pred = up
				default:
					pred = upleft
				}
				value = cur[c] + pred
			default:
				return nil, newError(KindUnknownPredictor, "unpredictPNG", nil)
			}
			outRow[c] = value
			upleft = up
			left = value
		}
		out = append(out, outRow...)
		prevRow = outRow
	}
	return out, nil
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
