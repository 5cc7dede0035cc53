package identity

import (
	"crypto/sha256"

	"github.com/mr-tron/base58"

	couriermesh "github.com/couriermesh/core-go"
	"github.com/couriermesh/core-go/internal/crypto"
)

// IdentityKeyPair is the account's ML-DSA-65 signature pair. The public key
// is published in the directory; the private key lives only in client
// storage, encrypted under the master key. Generated once at account
// creation and rotated only by explicit user action.
type IdentityKeyPair struct {
	PublicKey  []byte
	PrivateKey []byte
}

// GenerateIdentityKeyPair creates a fresh identity pair.
func GenerateIdentityKeyPair() (*IdentityKeyPair, error) {
	kp, err := crypto.GenerateSigKeypair()
	if err != nil {
		return nil, err
	}
	return &IdentityKeyPair{PublicKey: kp.PublicKey, PrivateKey: kp.PrivateKey}, nil
}

// IdentityKeyPairFromSeed derives the pair from a 32-byte seed, so every
// device provisioned from the same keyring seed holds matching material.
func IdentityKeyPairFromSeed(seed []byte) (*IdentityKeyPair, error) {
	kp, err := crypto.SigKeypairFromSeed(seed)
	if err != nil {
		return nil, &couriermesh.KeyError{Role: "identity seed", Err: err}
	}
	return &IdentityKeyPair{PublicKey: kp.PublicKey, PrivateKey: kp.PrivateKey}, nil
}

// TransportKeyPair is an ML-KEM-768 encapsulation pair. Same storage rules
// as the identity pair, but rotated routinely to bound the exposure window
// of a leaked transport private key.
type TransportKeyPair struct {
	PublicKey  []byte
	PrivateKey []byte
}

// GenerateTransportKeyPair creates a fresh transport pair.
func GenerateTransportKeyPair() (*TransportKeyPair, error) {
	kp, err := crypto.GenerateKEMKeypair()
	if err != nil {
		return nil, err
	}
	return &TransportKeyPair{PublicKey: kp.PublicKey, PrivateKey: kp.PrivateKey}, nil
}

// TransportKeyPairFromSeed derives the pair from a 64-byte seed.
func TransportKeyPairFromSeed(seed []byte) (*TransportKeyPair, error) {
	kp, err := crypto.KEMKeypairFromSeed(seed)
	if err != nil {
		return nil, &couriermesh.KeyError{Role: "transport seed", Err: err}
	}
	return &TransportKeyPair{PublicKey: kp.PublicKey, PrivateKey: kp.PrivateKey}, nil
}

// KeyID returns the short directory identifier for a public key: base58 of
// the first 16 bytes of its SHA-256 digest. Stable across implementations
// and safe in URLs and logs.
func KeyID(publicKey []byte) string {
	sum := sha256.Sum256(publicKey)
	return base58.Encode(sum[:16])
}
