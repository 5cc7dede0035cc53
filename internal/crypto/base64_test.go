package crypto

import (
	"bytes"
	"testing"
)

func TestBase64URL_RoundTrip(t *testing.T) {
	t.Parallel()
	data := []byte{0x00, 0x01, 0xfe, 0xff, 0x3e, 0x3f}

	encoded := ToBase64URL(data)
	decoded, err := FromBase64URL(encoded)
	if err != nil {
		t.Fatalf("FromBase64URL() error = %v", err)
	}
	if !bytes.Equal(decoded, data) {
		t.Errorf("round trip = %x, want %x", decoded, data)
	}
}

func TestDecodeBase64_Lenient(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		input string
		want  []byte
	}{
		{"raw url", "_-8", []byte{0xff, 0xef}},
		{"padded url", "_-8=", []byte{0xff, 0xef}},
		{"raw std", "/+8", []byte{0xff, 0xef}},
		{"padded std", "/+8=", []byte{0xff, 0xef}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeBase64(tt.input)
			if err != nil {
				t.Fatalf("DecodeBase64(%q) error = %v", tt.input, err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("DecodeBase64(%q) = %x, want %x", tt.input, got, tt.want)
			}
		})
	}

	if _, err := DecodeBase64("!!!"); err == nil {
		t.Error("DecodeBase64 accepted invalid input")
	}
}
