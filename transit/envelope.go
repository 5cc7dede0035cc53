package transit

import (
	"encoding/json"

	couriermesh "github.com/couriermesh/core-go"
	"github.com/couriermesh/core-go/internal/crypto"
)

// Envelope is the three-field wire object. All fields are base64url
// without padding.
type Envelope struct {
	// EncapsulatedKey is the ML-KEM-768 ciphertext encapsulating the
	// per-envelope shared secret, produced once per envelope.
	EncapsulatedKey string `json:"encapsulatedKey"`
	// IV is the AES-GCM nonce, unique per encryption under a given key.
	IV string `json:"iv"`
	// Ciphertext is the AES-256-GCM output, tag appended.
	Ciphertext string `json:"ciphertext"`
}

// envelopeWire mirrors Envelope with pointer fields so absent and empty
// fields are distinguishable during parsing.
type envelopeWire struct {
	EncapsulatedKey *string `json:"encapsulatedKey"`
	IV              *string `json:"iv"`
	Ciphertext      *string `json:"ciphertext"`
}

// Marshal encodes the envelope as compact JSON.
func (e *Envelope) Marshal() ([]byte, error) {
	return json.Marshal(e)
}

// ParseEnvelope decodes and validates envelope bytes. A missing or empty
// field rejects the envelope; nothing is defaulted.
func ParseEnvelope(data []byte) (*Envelope, error) {
	var w envelopeWire
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, &couriermesh.FormatError{Field: "envelope", Err: err}
	}

	if w.EncapsulatedKey == nil || *w.EncapsulatedKey == "" {
		return nil, &couriermesh.FormatError{Field: "envelope.encapsulatedKey"}
	}
	if w.IV == nil || *w.IV == "" {
		return nil, &couriermesh.FormatError{Field: "envelope.iv"}
	}
	if w.Ciphertext == nil || *w.Ciphertext == "" {
		return nil, &couriermesh.FormatError{Field: "envelope.ciphertext"}
	}

	return &Envelope{
		EncapsulatedKey: *w.EncapsulatedKey,
		IV:              *w.IV,
		Ciphertext:      *w.Ciphertext,
	}, nil
}

// decode returns the raw field bytes, validating sizes where fixed.
func (e *Envelope) decode() (encapsulated, iv, ciphertext []byte, err error) {
	encapsulated, err = crypto.DecodeBase64(e.EncapsulatedKey)
	if err != nil {
		return nil, nil, nil, &couriermesh.FormatError{Field: "envelope.encapsulatedKey", Err: err}
	}
	if len(encapsulated) != crypto.KEMCiphertextSize {
		return nil, nil, nil, &couriermesh.FormatError{Field: "envelope.encapsulatedKey", Err: crypto.ErrInvalidCiphertextSize}
	}

	iv, err = crypto.DecodeBase64(e.IV)
	if err != nil {
		return nil, nil, nil, &couriermesh.FormatError{Field: "envelope.iv", Err: err}
	}

	ciphertext, err = crypto.DecodeBase64(e.Ciphertext)
	if err != nil {
		return nil, nil, nil, &couriermesh.FormatError{Field: "envelope.ciphertext", Err: err}
	}

	return encapsulated, iv, ciphertext, nil
}
