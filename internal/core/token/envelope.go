package token

import (
	"bytes"
	"encoding/json"

	"github.com/yndnr/sigtok-go/internal/core/domain"
)

// Envelope is the stored form of a token: the payload's address and the
// addresses of the signature blobs over it.
type Envelope struct {
	Data       domain.Hash   `json:"data"`
	Signatures []domain.Hash `json:"signatures"`
}

// DecodeEnvelope parses untrusted bytes into an Envelope.
//
// The value must be a JSON object with a "data" string and a "signatures"
// array of strings, every string exactly domain.HashLen long. Violations
// return domain.ErrMalformedEnvelope naming the first failed rule.
func DecodeEnvelope(raw []byte) (*Envelope, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, domain.ErrMalformedEnvelope.WithDetails("not JSON").WithCause(err)
	}
	if dec.More() {
		return nil, domain.ErrMalformedEnvelope.WithDetails("trailing data after envelope")
	}

	obj, ok := v.(map[string]any)
	if !ok {
		return nil, domain.ErrMalformedEnvelope.WithDetails("envelope is not an object")
	}

	rawData, ok := obj["data"]
	if !ok {
		return nil, domain.ErrMalformedEnvelope.WithDetails(`missing "data"`)
	}
	data, ok := rawData.(string)
	if !ok {
		return nil, domain.ErrMalformedEnvelope.WithDetails(`"data" is not a string`)
	}
	if !domain.ValidateHashFormat(data) {
		return nil, domain.ErrMalformedEnvelope.WithDetailsf(`"data" is not a content address: %q`, data)
	}

	rawSigs, ok := obj["signatures"]
	if !ok {
		return nil, domain.ErrMalformedEnvelope.WithDetails(`missing "signatures"`)
	}
	list, ok := rawSigs.([]any)
	if !ok {
		return nil, domain.ErrMalformedEnvelope.WithDetails(`"signatures" is not an array`)
	}

	sigs := make([]domain.Hash, 0, len(list))
	for i, item := range list {
		s, ok := item.(string)
		if !ok {
			return nil, domain.ErrMalformedEnvelope.WithDetailsf("signature %d is not a string", i)
		}
		if !domain.ValidateHashFormat(s) {
			return nil, domain.ErrMalformedEnvelope.WithDetailsf("signature %d is not a content address: %q", i, s)
		}
		sigs = append(sigs, domain.Hash(s))
	}

	return &Envelope{Data: domain.Hash(data), Signatures: sigs}, nil
}
