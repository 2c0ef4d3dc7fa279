// Copyright 2014 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package filter is the reference implementation of the stream-filter
// codec spec.md places outside the parser core (§1, §6.2): a component
// that, given an ordered list of PDF filter names and raw bytes, applies
// each filter in turn and returns the fully decoded payload.
//
// The core (github.com/ScriptRock/pdfxref) decodes through the Filter
// interface and uses Default unless a caller supplies another Filter with
// WithFilter; this package exists so the module is directly usable without
// a caller having to bring their own codec, grounded on the same
// standard-library codecs the teacher package's applyFilter used inline
// (compress/flate via compress/zlib, encoding/ascii85) plus compress/lzw
// and a hand-rolled RunLengthDecode for the remaining common PDF filters.
package filter

import (
	"bytes"
	"compress/lzw"
	"compress/zlib"
	"encoding/ascii85"
	"fmt"
	"io"
)

// Filter decodes a stream payload through a named pipeline of filters,
// applied in the given order. It is the spec §6.2 collaborator.
type Filter interface {
	DecodeAll(names []string, data []byte) ([]byte, error)
}

type defaultFilter struct{}

// Default returns the reference Filter implementation: FlateDecode,
// ASCII85Decode, LZWDecode, and RunLengthDecode.
func Default() Filter {
	return defaultFilter{}
}

func (defaultFilter) DecodeAll(names []string, data []byte) ([]byte, error) {
	cur := data
	for _, name := range names {
		decoded, err := decodeOne(name, cur)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		cur = decoded
	}
	return cur, nil
}

func decodeOne(name string, data []byte) ([]byte, error) {
	switch name {
	case "FlateDecode", "Fl":
		return decodeFlate(data)
	case "ASCII85Decode", "A85":
		return decodeASCII85(data)
	case "LZWDecode", "LZW":
		return decodeLZW(data)
	case "RunLengthDecode", "RL":
		return decodeRunLength(data)
	default:
		return nil, fmt.Errorf("unsupported filter %q", name)
	}
}

func decodeFlate(data []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

func decodeLZW(data []byte) ([]byte, error) {
	// PDF's LZWDecode defaults to early change = 1, matching the TIFF
	// convention compress/lzw implements for MSB order.
	r := lzw.NewReader(bytes.NewReader(data), lzw.MSB, 8)
	defer r.Close()
	return io.ReadAll(r)
}

func decodeASCII85(data []byte) ([]byte, error) {
	cleaned := newAlphaReader(bytes.NewReader(data))
	return io.ReadAll(ascii85.NewDecoder(cleaned))
}

// decodeRunLength implements the PDF RunLengthDecode algorithm: a length
// byte 0-127 means copy the next length+1 literal bytes; a length byte
// 129-255 means repeat the following single byte 257-length times; 128
// marks end-of-data.
func decodeRunLength(data []byte) ([]byte, error) {
	var out bytes.Buffer
	for i := 0; i < len(data); {
		length := data[i]
		i++
		switch {
		case length == 128:
			return out.Bytes(), nil
		case length < 128:
			n := int(length) + 1
			if i+n > len(data) {
				return nil, fmt.Errorf("RunLengthDecode: truncated literal run")
			}
			out.Write(data[i : i+n])
			i += n
		default:
			if i >= len(data) {
				return nil, fmt.Errorf("RunLengthDecode: truncated repeat run")
			}
			n := 257 - int(length)
			b := data[i]
			i++
			for j := 0; j < n; j++ {
				out.WriteByte(b)
			}
		}
	}
	return out.Bytes(), nil
}

// alphaReader strips bytes outside the ASCII85 alphabet (whitespace, in
// practice) from the underlying stream and stops at the "~>" terminator,
// so encoding/ascii85's strict decoder never sees embedded newlines.
type alphaReader struct {
	r    io.Reader
	done bool
	last byte
}

func newAlphaReader(r io.Reader) *alphaReader {
	return &alphaReader{r: r}
}

func (a *alphaReader) Read(p []byte) (int, error) {
	if a.done {
		return 0, io.EOF
	}
	buf := make([]byte, 1)
	n := 0
	for n < len(p) {
		_, err := a.r.Read(buf)
		if err != nil {
			if err == io.EOF {
				a.done = true
			}
			if n > 0 {
				return n, nil
			}
			return 0, err
		}
		c := buf[0]
		if c == '~' {
			a.last = c
			continue
		}
		if a.last == '~' && c == '>' {
			a.done = true
			if n > 0 {
				return n, nil
			}
			return 0, io.EOF
		}
		a.last = 0
		if c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\f' || c == 0 {
			continue
		}
		p[n] = c
		n++
	}
	return n, nil
}
