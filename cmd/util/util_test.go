package util

import (
	"bytes"
	"strings"
	"testing"
)

// TestBinaryFormats tests that DecodeBinary reverses EncodeBinary
func TestBinaryFormats(t *testing.T) {
	data := []byte{0x00, 0x01, 0xd9, 0xff, 'a'}

	for _, format := range []string{"hex", "base64", "raw"} {
		text, err := EncodeBinary(data, format)
		if err != nil {
			t.Fatalf("%s: failed to encode: %v", format, err)
		}
		got, err := DecodeBinary(string(text), format)
		if err != nil {
			t.Fatalf("%s: failed to decode: %v", format, err)
		}
		if !bytes.Equal(got, data) {
			t.Errorf("%s: expected %x, got %x", format, data, got)
		}
	}

	if _, err := EncodeBinary(data, "octal"); err == nil {
		t.Error("Expected an error for an unknown format")
	}
	if got, err := DecodeBinary(" 00 01\n", "hex"); err != nil || !bytes.Equal(got, []byte{0, 1}) {
		t.Errorf("Expected whitespace to be ignored, got %x (%v)", got, err)
	}
}

// TestReadArg tests reading arguments from stdin
func TestReadArg(t *testing.T) {
	if s, _ := ReadArg("value", strings.NewReader("stdin")); s != "value" {
		t.Errorf("Expected the argument, got %q", s)
	}
	if s, _ := ReadArg("-", strings.NewReader("stdin")); s != "stdin" {
		t.Errorf("Expected stdin, got %q", s)
	}
}

// TestWrapString tests the help text wrapping
func TestWrapString(t *testing.T) {
	text := strings.Repeat("word ", 30)
	for _, line := range strings.Split(WrapString(text), "\n") {
		if len(line) > Wrap {
			t.Errorf("Line longer than %d characters: %q", Wrap, line)
		}
	}
}
