package identity

import (
	couriermesh "github.com/couriermesh/core-go"
	"github.com/couriermesh/core-go/internal/crypto"
)

// Sign signs a payload (normally from [BuildSignaturePayload]) with an
// ML-DSA-65 identity private key.
func Sign(payload, privateKey []byte) ([]byte, error) {
	signature, err := crypto.Sign(privateKey, payload)
	if err != nil {
		return nil, &couriermesh.KeyError{Role: "identity private key", Err: err}
	}
	return signature, nil
}

// Verify reports whether signature is a valid ML-DSA-65 signature over
// payload by the holder of publicKey. Malformed signature or key bytes
// return false rather than an error: verification failure is an expected,
// frequent outcome (a contact's key changed, a message arrived unverified)
// and is not exceptional.
func Verify(payload, signature, publicKey []byte) bool {
	return crypto.Verify(publicKey, payload, signature) == nil
}
