package textenc

import "testing"

func TestIsUTF16(t *testing.T) {
	if !IsUTF16([]byte{0xfe, 0xff, 0x00, 0x41}) {
		t.Error("IsUTF16 with BOM = false, want true")
	}
	if IsUTF16([]byte("hello")) {
		t.Error("IsUTF16 without BOM = true, want false")
	}
	if IsUTF16([]byte{0xfe, 0xff, 0x00}) {
		t.Error("IsUTF16 with odd length = true, want false")
	}
}

func TestDecode_ASCIIPassthrough(t *testing.T) {
	got := Decode([]byte("Hello"))
	if got != "Hello" {
		t.Errorf("Decode = %q, want %q", got, "Hello")
	}
}

func TestDecode_UTF16BE(t *testing.T) {
	// "Hi" as big-endian UTF-16 with BOM.
	input := []byte{0xfe, 0xff, 0x00, 'H', 0x00, 'i'}
	got := Decode(input)
	if got != "Hi" {
		t.Errorf("Decode = %q, want %q", got, "Hi")
	}
}
