package cas

import (
	"bytes"
	"strings"
	"testing"
)

func TestFramer_RoundTrip(t *testing.T) {
	key := bytes.Repeat([]byte{7}, SealKeySize)

	small := []byte("short")
	large := []byte(strings.Repeat("compressible ", 200))

	tests := []struct {
		name      string
		threshold int
		sealKey   []byte
		content   []byte
		wantTag   CompressionTag
	}{
		{"small plain", DefaultCompressThreshold, nil, small, CompressionNone},
		{"large plain", DefaultCompressThreshold, nil, large, CompressionZstd},
		{"compression disabled", 0, nil, large, CompressionNone},
		{"empty", DefaultCompressThreshold, nil, []byte{}, CompressionNone},
		{"large sealed", DefaultCompressThreshold, key, large, CompressionZstd},
		{"small sealed", DefaultCompressThreshold, key, small, CompressionNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := newFramer(tt.threshold, tt.sealKey)
			if err != nil {
				t.Fatalf("newFramer() error = %v", err)
			}
			address := []byte(Sum(tt.content))

			value, err := f.encode(address, tt.content)
			if err != nil {
				t.Fatalf("encode() error = %v", err)
			}
			if tt.sealKey == nil && CompressionTag(value[0]) != tt.wantTag {
				t.Errorf("tag = %s, want %s", CompressionTag(value[0]), tt.wantTag)
			}

			got, err := f.decode(address, value)
			if err != nil {
				t.Fatalf("decode() error = %v", err)
			}
			if !bytes.Equal(got, tt.content) {
				t.Error("round trip changed content")
			}
		})
	}
}

func TestFramer_SealBindsAddress(t *testing.T) {
	f, err := newFramer(0, bytes.Repeat([]byte{1}, SealKeySize))
	if err != nil {
		t.Fatalf("newFramer() error = %v", err)
	}

	value, err := f.encode([]byte("address-a"), []byte("content"))
	if err != nil {
		t.Fatalf("encode() error = %v", err)
	}
	if _, err := f.decode([]byte("address-b"), value); err == nil {
		t.Error("decode under a different address should fail")
	}

	value[len(value)-1] ^= 0xff
	if _, err := f.decode([]byte("address-a"), value); err == nil {
		t.Error("decode of tampered value should fail")
	}
}

func TestFramer_Errors(t *testing.T) {
	if _, err := newFramer(0, []byte("short key")); err == nil {
		t.Error("expected error for short seal key")
	}

	f, _ := newFramer(0, nil)
	if _, err := f.decode(nil, nil); err == nil {
		t.Error("expected error for empty value")
	}
	if _, err := f.decode(nil, []byte{9, 'x'}); err == nil {
		t.Error("expected error for unknown tag")
	}
}

func TestCompressionTag_String(t *testing.T) {
	if CompressionZstd.String() != "zstd" || CompressionNone.String() != "none" {
		t.Error("unexpected tag names")
	}
	if CompressionTag(42).String() != "unknown(42)" {
		t.Errorf("got %s", CompressionTag(42))
	}
}
