package cas

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"golang.org/x/crypto/chacha20poly1305"
)

// CompressionTag identifies how a stored value was compressed. Tags are
// persisted as the first byte of every Badger value, so existing values
// must keep their meaning.
type CompressionTag uint8

const (
	// CompressionNone stores the content as-is.
	CompressionNone CompressionTag = 0

	// CompressionZstd stores zstd-compressed content.
	CompressionZstd CompressionTag = 1
)

// String returns the human-readable name of a compression tag.
func (tag CompressionTag) String() string {
	switch tag {
	case CompressionNone:
		return "none"
	case CompressionZstd:
		return "zstd"
	default:
		return fmt.Sprintf("unknown(%d)", tag)
	}
}

// DefaultCompressThreshold is the smallest content size worth compressing.
// Hashes, signature blobs and envelopes sit well below it.
const DefaultCompressThreshold = 512

// SealKeySize is the required length of an at-rest sealing key.
const SealKeySize = chacha20poly1305.KeySize

var (
	zstdEncoder, _ = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	zstdDecoder, _ = zstd.NewReader(nil, zstd.WithDecoderConcurrency(0))
)

// framer converts content to and from its persisted representation:
// a compression tag byte followed by the (possibly compressed) content,
// optionally sealed with XChaCha20-Poly1305 bound to the content address.
type framer struct {
	threshold int
	aead      aeadCipher
}

type aeadCipher interface {
	NonceSize() int
	Seal(dst, nonce, plaintext, additionalData []byte) []byte
	Open(dst, nonce, ciphertext, additionalData []byte) ([]byte, error)
}

func newFramer(threshold int, sealKey []byte) (*framer, error) {
	f := &framer{threshold: threshold}
	if len(sealKey) > 0 {
		if len(sealKey) != SealKeySize {
			return nil, fmt.Errorf("seal key must be %d bytes, got %d", SealKeySize, len(sealKey))
		}
		aead, err := chacha20poly1305.NewX(sealKey)
		if err != nil {
			return nil, fmt.Errorf("create sealing cipher: %w", err)
		}
		f.aead = aead
	}
	return f, nil
}

// encode builds the persisted value for content stored at address.
func (f *framer) encode(address, content []byte) ([]byte, error) {
	frame := make([]byte, 0, len(content)+1)
	if f.threshold > 0 && len(content) >= f.threshold {
		compressed := zstdEncoder.EncodeAll(content, nil)
		if len(compressed) < len(content) {
			frame = append(frame, byte(CompressionZstd))
			frame = append(frame, compressed...)
		}
	}
	if len(frame) == 0 {
		frame = append(frame, byte(CompressionNone))
		frame = append(frame, content...)
	}

	if f.aead == nil {
		return frame, nil
	}

	nonce := make([]byte, f.aead.NonceSize(), f.aead.NonceSize()+len(frame)+chacha20poly1305.Overhead)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}
	return f.aead.Seal(nonce, nonce, frame, address), nil
}

// decode reverses encode.
func (f *framer) decode(address, value []byte) ([]byte, error) {
	frame := value
	if f.aead != nil {
		if len(value) < f.aead.NonceSize() {
			return nil, errors.New("sealed value too short")
		}
		nonce, sealed := value[:f.aead.NonceSize()], value[f.aead.NonceSize():]
		opened, err := f.aead.Open(nil, nonce, sealed, address)
		if err != nil {
			return nil, fmt.Errorf("open sealed value: %w", err)
		}
		frame = opened
	}

	if len(frame) == 0 {
		return nil, errors.New("empty stored value")
	}

	switch tag := CompressionTag(frame[0]); tag {
	case CompressionNone:
		out := make([]byte, len(frame)-1)
		copy(out, frame[1:])
		return out, nil
	case CompressionZstd:
		out, err := zstdDecoder.DecodeAll(frame[1:], nil)
		if err != nil {
			return nil, fmt.Errorf("zstd decode: %w", err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported compression tag %s", tag)
	}
}
