package pdfxref

import "testing"

func TestRawValue_Accessors(t *testing.T) {
	num := RawValue{Tag: TagNumeric, Bytes: []byte("42")}
	if num.Int() != 42 {
		t.Errorf("Int() = %d, want 42", num.Int())
	}
	if num.Float() != 42.0 {
		t.Errorf("Float() = %v, want 42.0", num.Float())
	}

	flNum := RawValue{Tag: TagNumeric, Bytes: []byte("3.5")}
	if flNum.Int() != 3 {
		t.Errorf("Int() on a float payload = %d, want 3 (truncated)", flNum.Int())
	}
	if flNum.Float() != 3.5 {
		t.Errorf("Float() = %v, want 3.5", flNum.Float())
	}

	name := RawValue{Tag: TagName, Bytes: []byte("Foo")}
	if name.Name() != "Foo" {
		t.Errorf("Name() = %q, want Foo", name.Name())
	}
	if name.Int() != 0 {
		t.Errorf("Int() on a non-numeric tag = %d, want 0", name.Int())
	}

	boolTrue := RawValue{Tag: TagBoolean, Bytes: []byte("true")}
	if !boolTrue.Bool() {
		t.Error("Bool() = false, want true")
	}
	boolFalse := RawValue{Tag: TagBoolean, Bytes: []byte("false")}
	if boolFalse.Bool() {
		t.Error("Bool() = true, want false")
	}

	ref := RawValue{Tag: TagObjRef, Bytes: []byte("3_0")}
	if ref.Ref() != "3_0" {
		t.Errorf("Ref() = %q, want 3_0", ref.Ref())
	}

	null := RawValue{Tag: TagNull}
	if !null.IsNull() {
		t.Error("IsNull() = false, want true")
	}
}

func TestRawValue_DecodeText(t *testing.T) {
	lit := RawValue{Tag: TagLiteral, Bytes: []byte("Hello")}
	if lit.DecodeText() != "Hello" {
		t.Errorf("DecodeText() = %q, want %q", lit.DecodeText(), "Hello")
	}

	num := RawValue{Tag: TagNumeric, Bytes: []byte("1")}
	if num.DecodeText() != "" {
		t.Errorf("DecodeText() on a numeric tag = %q, want empty", num.DecodeText())
	}
}

func TestTag_String(t *testing.T) {
	testCases := map[Tag]string{
		TagName:    "name",
		TagLiteral: "literal",
		TagHex:     "hex",
		TagNumeric: "numeric",
		TagBoolean: "boolean",
		TagNull:    "null",
		TagArray:   "array",
		TagDict:    "dict",
		TagObjRef:  "objref",
		TagObj:     "obj",
		TagEndObj:  "endobj",
		TagStream:  "stream",
	}
	for tag, want := range testCases {
		if got := tag.String(); got != want {
			t.Errorf("Tag(%d).String() = %q, want %q", tag, got, want)
		}
	}
}
