package signing

import (
	"encoding/pem"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// signedMessage is the CBOR body of an armored signature blob.
type signedMessage struct {
	Scheme    string `cbor:"1,keyasint"`
	Signer    string `cbor:"2,keyasint"`
	Message   string `cbor:"3,keyasint"`
	Signature []byte `cbor:"4,keyasint"`
}

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error

	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("signing: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		DupMapKey:         cbor.DupMapKeyEnforcedAPF,
		ExtraReturnErrors: cbor.ExtraDecErrorUnknownField,
	}.DecMode()
	if err != nil {
		panic("signing: CBOR decoder initialization failed: " + err.Error())
	}
}

// toBeSigned is the byte string the scheme actually signs. It binds the
// scheme and signer so a signature cannot be replayed under another key id.
func (m *signedMessage) toBeSigned() []byte {
	out := make([]byte, 0, len("sigtok/v1")+len(m.Scheme)+len(m.Signer)+len(m.Message)+3)
	out = append(out, "sigtok/v1"...)
	out = append(out, 0)
	out = append(out, m.Scheme...)
	out = append(out, 0)
	out = append(out, m.Signer...)
	out = append(out, 0)
	return append(out, m.Message...)
}

func encodeBlob(m *signedMessage) ([]byte, error) {
	body, err := encMode.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encode signature: %w", err)
	}
	return pem.EncodeToMemory(&pem.Block{
		Type:    SignatureType,
		Headers: map[string]string{schemeHeader: m.Scheme},
		Bytes:   body,
	}), nil
}

func decodeBlob(blob []byte) (*signedMessage, error) {
	block, rest := pem.Decode(blob)
	if block == nil {
		return nil, fmt.Errorf("%w: no PEM block found", ErrMalformedSignature)
	}
	if block.Type != SignatureType {
		return nil, fmt.Errorf("%w: unexpected PEM block %q", ErrMalformedSignature, block.Type)
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("%w: trailing data after signature", ErrMalformedSignature)
	}

	var m signedMessage
	if err := decMode.Unmarshal(block.Bytes, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSignature, err)
	}
	if m.Scheme == "" || m.Signer == "" || len(m.Signature) == 0 {
		return nil, fmt.Errorf("%w: missing fields", ErrMalformedSignature)
	}
	if hdr := block.Headers[schemeHeader]; hdr != m.Scheme {
		return nil, fmt.Errorf("%w: armor scheme %q does not match body %q", ErrMalformedSignature, hdr, m.Scheme)
	}
	return &m, nil
}
