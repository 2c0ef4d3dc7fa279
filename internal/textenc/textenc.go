// Copyright 2014 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package textenc decodes an already-tokenized PDF literal/hex string
// payload into UTF-8 text. It is a small consumer-facing convenience, not
// part of the parse path: spec §3.1 is explicit that literal and hex
// payloads are returned as raw bytes with "no further escape
// interpretation" at the tokenizer layer, and §9 defers text-string
// decoding to a consumer layer. This is that layer, adapted from the
// teacher's internal/encoding package (UTF-16BE detection plus
// golang.org/x/text/unicode/norm normalization); the teacher's
// PDFDocEncoding table itself lived outside the files available to this
// port, so bytes outside the UTF-16BE case pass through as Latin-1, which
// coincides with PDFDocEncoding for the printable ASCII range.
package textenc

import (
	"unicode/utf16"

	"golang.org/x/text/unicode/norm"
)

// IsUTF16 reports whether s carries the big-endian UTF-16 byte-order mark
// PDF "text strings" use (PDF 32000-1:2008 §7.9.2.2) and has an even length.
func IsUTF16(s []byte) bool {
	return len(s) >= 2 && s[0] == 0xfe && s[1] == 0xff && len(s)%2 == 0
}

// Decode converts a literal or hex string payload to normalized UTF-8
// text. If IsUTF16(s) holds it is decoded as UTF-16BE; otherwise it is
// treated as Latin-1 (PDFDocEncoding's ASCII
// range is a subset of Latin-1, so this is exact for that range and best
// effort outside it).
func Decode(s []byte) string {
	if IsUTF16(s) {
		return decodeUTF16BE(s[2:])
	}
	runes := make([]rune, len(s))
	for i, b := range s {
		runes[i] = rune(b)
	}
	return norm.NFKC.String(string(runes))
}

func decodeUTF16BE(s []byte) string {
	u := make([]uint16, 0, len(s)/2)
	for i := 0; i+1 < len(s); i += 2 {
		u = append(u, uint16(s[i])<<8|uint16(s[i+1]))
	}
	return norm.NFKC.String(string(utf16.Decode(u)))
}
