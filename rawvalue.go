// Copyright 2014 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pdfxref

import (
	"strconv"

	"github.com/ScriptRock/pdfxref/internal/textenc"
)

// Tag identifies the variant carried by a RawValue. See spec §3.1.
type Tag int

const (
	TagName Tag = iota
	TagLiteral
	TagHex
	TagNumeric
	TagBoolean
	TagNull
	TagArray
	TagDict
	TagObjRef
	TagObj
	TagEndObj
	TagStream
	TagEndStream
)

func (t Tag) String() string {
	switch t {
	case TagName:
		return "name"
	case TagLiteral:
		return "literal"
	case TagHex:
		return "hex"
	case TagNumeric:
		return "numeric"
	case TagBoolean:
		return "boolean"
	case TagNull:
		return "null"
	case TagArray:
		return "array"
	case TagDict:
		return "dict"
	case TagObjRef:
		return "objref"
	case TagObj:
		return "obj"
	case TagEndObj:
		return "endobj"
	case TagStream:
		return "stream"
	case TagEndStream:
		return "endstream"
	default:
		return "unknown"
	}
}

// DecodedStream is the payload attached to a TagStream RawValue once §4.3
// has run: the filtered bytes, and, when decoding failed while running
// with WithIgnoreFilterErrors(true), the stream's whole filter list (Data
// then holds the undecoded bytes, none of those filters applied).
type DecodedStream struct {
	Data            []byte
	ResidualFilters []string
}

// RawValue is the tagged sum the tokenizer (§4.1) emits. Container
// payloads (Array, Dict) hold ordered child values by value, not by
// pointer: the tree has no ownership cycles (spec §9), so an arena or
// boxed-node representation buys nothing here that a plain slice doesn't
// already give.
type RawValue struct {
	Tag   Tag
	Bytes []byte     // name/literal/hex/numeric/boolean/null/objref/obj payload
	Items []RawValue // array/dict: ordered children; dict alternates key, value
	End   int        // offset immediately after this value in the byte source

	// Decoded is populated by the object materializer (§4.2 step 5) for a
	// TagStream value produced with decode=true and a preceding TagDict
	// sibling. It is nil otherwise, including for streams parsed with
	// decode=false.
	Decoded *DecodedStream
}

// IsNull reports whether v is the PDF null literal.
func (v RawValue) IsNull() bool {
	return v.Tag == TagNull
}

// Name returns the payload of a TagName value as a string, or "" for any
// other tag.
func (v RawValue) Name() string {
	if v.Tag != TagName {
		return ""
	}
	return string(v.Bytes)
}

// Int returns the numeric payload parsed as an integer. Non-numeric tags
// and unparsable payloads return 0.
func (v RawValue) Int() int64 {
	if v.Tag != TagNumeric {
		return 0
	}
	n, err := strconv.ParseInt(string(v.Bytes), 10, 64)
	if err != nil {
		f, ferr := strconv.ParseFloat(string(v.Bytes), 64)
		if ferr != nil {
			return 0
		}
		return int64(f)
	}
	return n
}

// Float returns the numeric payload parsed as a float64. Non-numeric tags
// and unparsable payloads return 0.
func (v RawValue) Float() float64 {
	if v.Tag != TagNumeric {
		return 0
	}
	f, err := strconv.ParseFloat(string(v.Bytes), 64)
	if err != nil {
		return 0
	}
	return f
}

// Bool returns the boolean payload. Any other tag returns false.
func (v RawValue) Bool() bool {
	return v.Tag == TagBoolean && string(v.Bytes) == "true"
}

// Ref returns the "num_gen" payload of a TagObjRef or TagObj value.
func (v RawValue) Ref() string {
	if v.Tag != TagObjRef && v.Tag != TagObj {
		return ""
	}
	return string(v.Bytes)
}

// DecodeText decodes a TagLiteral or TagHex value's raw payload into
// normalized UTF-8 text (PDF "text string" semantics, spec §9's deferred
// escape/encoding interpretation). Any other tag returns "".
func (v RawValue) DecodeText() string {
	if v.Tag != TagLiteral && v.Tag != TagHex {
		return ""
	}
	return textenc.Decode(v.Bytes)
}
