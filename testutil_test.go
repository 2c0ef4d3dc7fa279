package pdfxref

import (
	"bytes"
	"fmt"
)

// pdfBuilder assembles a byte-exact PDF fixture while tracking offsets, so
// tests can reference "where object N starts" without hand-computing byte
// counts the way the teacher's own tests inline fixtures as Go literals
// (text/text_test.go) rather than binary testdata files.
type pdfBuilder struct {
	buf bytes.Buffer
}

func (b *pdfBuilder) offset() int64 {
	return int64(b.buf.Len())
}

func (b *pdfBuilder) str(s string) *pdfBuilder {
	b.buf.WriteString(s)
	return b
}

func (b *pdfBuilder) printf(format string, args ...any) *pdfBuilder {
	fmt.Fprintf(&b.buf, format, args...)
	return b
}

func (b *pdfBuilder) bytes() []byte {
	return b.buf.Bytes()
}

// buildClassicalFixture assembles a minimal two-object PDF using a classical
// xref table, returning the bytes plus the offsets a test wants to assert
// against.
func buildClassicalFixture() (data []byte, obj1Offset, obj2Offset, xrefOffset int64) {
	var b pdfBuilder
	b.str("%PDF-1.4\n")

	obj1Offset = b.offset()
	b.str("1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")

	obj2Offset = b.offset()
	b.str("2 0 obj\n<< /Type /Pages /Kids [] /Count 0 >>\nendobj\n")

	xrefOffset = b.offset()
	b.str("xref\n")
	b.str("0 3\n")
	b.str("0000000000 65535 f\n")
	b.printf("%010d 00000 n\n", obj1Offset)
	b.printf("%010d 00000 n\n", obj2Offset)
	b.str("trailer\n")
	b.str("<< /Size 3 /Root 1 0 R >>\n")
	b.str("startxref\n")
	b.printf("%d\n", xrefOffset)
	b.str("%%EOF\n")

	return b.bytes(), obj1Offset, obj2Offset, xrefOffset
}

// buildXrefStreamFixture assembles a PDF whose only xref structure is a
// single cross-reference stream object (spec §4.4's "xref stream" branch),
// with one uncompressed-entry row and no PNG predictor.
func buildXrefStreamFixture() (data []byte, xrefObjOffset int64) {
	var b pdfBuilder
	b.str("%PDF-1.4\n")

	xrefObjOffset = b.offset()
	row := []byte{0x01, 0x00, 0x00, 0x0A, 0x00} // type=1, offset=10, gen=0
	b.str("1 0 obj\n")
	b.str("<< /Type /XRef /W [1 3 1] /Index [0 1] /Size 1 /Length 5 >>\n")
	b.str("stream\n")
	b.buf.Write(row)
	b.str("\nendstream\nendobj\n")
	b.str("startxref\n")
	b.printf("%d\n", xrefObjOffset)
	b.str("%%EOF\n")

	return b.bytes(), xrefObjOffset
}
