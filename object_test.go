package pdfxref

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestGetIndirectObject_TrimsEndobj(t *testing.T) {
	data := []byte("1 0 obj\n<< /Type /Catalog >>\nendobj\n")
	sess := NewSession(data)

	items, err := sess.getIndirectObject("1_0", 0, true)
	if err != nil {
		t.Fatalf("getIndirectObject: %v", err)
	}
	for _, v := range items {
		if v.Tag == TagEndObj {
			t.Errorf("result contains endobj: %+v", items)
		}
	}
	if len(items) != 1 || items[0].Tag != TagDict {
		t.Fatalf("items = %+v, want a single dict", items)
	}
}

func TestGetIndirectObject_OffByOneFallback(t *testing.T) {
	// A leading stray byte before the real "N G obj" header (as can happen
	// with an off-by-one offset) is tolerated by probing one byte past the
	// leading-zero skip.
	data := []byte("\n1 0 obj\n42\nendobj\n")
	sess := NewSession(data)

	items, err := sess.getIndirectObject("1_0", 0, true)
	if err != nil {
		t.Fatalf("getIndirectObject: %v", err)
	}
	if len(items) != 1 || items[0].Int() != 42 {
		t.Fatalf("items = %+v, want a single numeric 42", items)
	}
}

func TestGetIndirectObject_MismatchedHeaderReturnsNull(t *testing.T) {
	data := []byte("2 0 obj\n42\nendobj\n")
	sess := NewSession(data)

	items, err := sess.getIndirectObject("1_0", 0, true)
	if err != nil {
		t.Fatalf("getIndirectObject: %v", err)
	}
	if len(items) != 1 || !items[0].IsNull() {
		t.Fatalf("items = %+v, want a single null sentinel", items)
	}
}

func TestGetIndirectObject_StreamRequiresPrecedingDict(t *testing.T) {
	// A stream decoded with decode=true attaches Decoded only when the
	// preceding sibling value is a dict (spec §3.4's invariant).
	data := []byte("1 0 obj\n<< /Length 5 >>\nstream\nhello\nendstream\nendobj\n")
	sess := NewSession(data)

	items, err := sess.getIndirectObject("1_0", 0, true)
	if err != nil {
		t.Fatalf("getIndirectObject: %v", err)
	}
	var strm *RawValue
	for i := range items {
		if items[i].Tag == TagStream {
			strm = &items[i]
		}
	}
	if strm == nil || strm.Decoded == nil {
		t.Fatalf("stream value missing Decoded: %+v", items)
	}
	want := &DecodedStream{Data: []byte("hello")}
	if diff := cmp.Diff(strm.Decoded, want); diff != "" {
		t.Error("decoded stream did not match expectation:", diff)
	}
}

func TestSplitRef(t *testing.T) {
	testCases := map[string]struct {
		ref     string
		wantNum string
		wantGen string
		wantErr bool
	}{
		"well formed":       {ref: "12_0", wantNum: "12", wantGen: "0"},
		"missing separator": {ref: "120", wantErr: true},
		"non numeric":        {ref: "a_0", wantErr: true},
		"too many parts":     {ref: "1_0_2", wantErr: true},
	}
	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			num, gen, err := splitRef(tc.ref)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("splitRef(%q): want error, got nil", tc.ref)
				}
				return
			}
			if err != nil {
				t.Fatalf("splitRef(%q): %v", tc.ref, err)
			}
			if num != tc.wantNum || gen != tc.wantGen {
				t.Errorf("splitRef(%q) = %q,%q, want %q,%q", tc.ref, num, gen, tc.wantNum, tc.wantGen)
			}
		})
	}
}

func TestDecodeStream_LengthTruncation(t *testing.T) {
	sess := NewSession(nil)
	decoded, residual, err := sess.decodeStream([]RawValue{
		{Tag: TagName, Bytes: []byte("Length")},
		{Tag: TagNumeric, Bytes: []byte("3")},
	}, []byte("hello"))
	if err != nil {
		t.Fatalf("decodeStream: %v", err)
	}
	if string(decoded) != "hel" {
		t.Errorf("decoded = %q, want %q", decoded, "hel")
	}
	if residual != nil {
		t.Errorf("residual = %v, want nil", residual)
	}
}

func TestDecodeStream_IgnoreFilterErrors(t *testing.T) {
	sess := NewSession(nil, WithIgnoreFilterErrors(true))
	raw := []byte("not really compressed")
	decoded, residual, err := sess.decodeStream([]RawValue{
		{Tag: TagName, Bytes: []byte("Filter")},
		{Tag: TagName, Bytes: []byte("FlateDecode")},
	}, raw)
	if err != nil {
		t.Fatalf("decodeStream: %v", err)
	}
	if string(decoded) != string(raw) {
		t.Errorf("decoded = %q, want original bytes %q", decoded, raw)
	}
	if len(residual) != 1 || residual[0] != "FlateDecode" {
		t.Errorf("residual = %v, want [FlateDecode]", residual)
	}
}

func TestDecodeStream_FilterErrorSurfaces(t *testing.T) {
	sess := NewSession(nil)
	_, _, err := sess.decodeStream([]RawValue{
		{Tag: TagName, Bytes: []byte("Filter")},
		{Tag: TagName, Bytes: []byte("FlateDecode")},
	}, []byte("not really compressed"))
	if err == nil {
		t.Fatal("decodeStream: want FilterError, got nil")
	}
	perr, ok := err.(*Error)
	if !ok || perr.Kind != KindFilterError {
		t.Errorf("err = %v, want KindFilterError", err)
	}
}

func TestGetCompressedObject(t *testing.T) {
	header := "5 0 10 3 " // two pairs: obj 5 at rel-offset 0, obj 10 at rel-offset 3
	objects := "100/Bar"
	decoded := header + objects

	var b pdfBuilder
	b.str("%PDF-1.4\n")
	streamObjOffset := b.offset()
	b.printf("6 0 obj\n<< /Type /ObjStm /N 2 /First %d /Length %d >>\n", len(header), len(decoded))
	b.str("stream\n")
	b.str(decoded)
	b.str("\nendstream\nendobj\n")

	sess := NewSession(b.bytes())
	sess.Xref().Entries["6_0"] = streamObjOffset

	got, err := sess.GetCompressedObject("6_0_0")
	if err != nil {
		t.Fatalf("GetCompressedObject(index 0): %v", err)
	}
	wantIdx0 := []RawValue{{Tag: TagNumeric, Bytes: []byte("100"), End: 3}}
	if diff := cmp.Diff(got, wantIdx0); diff != "" {
		t.Error("index 0 did not match expectation:", diff)
	}

	got, err = sess.GetCompressedObject("6_0_1")
	if err != nil {
		t.Fatalf("GetCompressedObject(index 1): %v", err)
	}
	wantIdx1 := []RawValue{{Tag: TagName, Bytes: []byte("Bar"), End: 4}}
	if diff := cmp.Diff(got, wantIdx1); diff != "" {
		t.Error("index 1 did not match expectation:", diff)
	}
}

func TestGetCompressedObject_InvalidKey(t *testing.T) {
	sess := NewSession(nil)
	if _, err := sess.GetCompressedObject("not-a-key"); err == nil {
		t.Fatal("want InvalidReference error, got nil")
	}
}
