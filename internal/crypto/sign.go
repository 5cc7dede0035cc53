package crypto

import (
	"crypto/rand"
	"fmt"

	"github.com/cloudflare/circl/sign/mldsa/mldsa65"
)

// SigKeypair is an ML-DSA-65 keypair used for message authorship and
// federation request signing.
type SigKeypair struct {
	// PublicKey is the packed ML-DSA-65 public key.
	PublicKey []byte
	// PrivateKey is the packed ML-DSA-65 private key.
	PrivateKey []byte
}

// GenerateSigKeypair creates a new ML-DSA-65 keypair.
func GenerateSigKeypair() (*SigKeypair, error) {
	r := randReader
	if r == nil {
		r = rand.Reader
	}
	pub, priv, err := mldsa65.GenerateKey(r)
	if err != nil {
		return nil, err
	}

	pubBytes, _ := pub.MarshalBinary()
	privBytes, _ := priv.MarshalBinary()

	return &SigKeypair{
		PublicKey:  pubBytes,
		PrivateKey: privBytes,
	}, nil
}

// SigKeypairFromSeed derives a keypair from a 32-byte seed. Deterministic;
// used by conformance vectors and multi-device provisioning.
func SigKeypairFromSeed(seed []byte) (*SigKeypair, error) {
	if len(seed) != SigSeedSize {
		return nil, ErrInvalidSeedSize
	}

	var s [SigSeedSize]byte
	copy(s[:], seed)
	pub, priv := mldsa65.NewKeyFromSeed(&s)

	pubBytes, _ := pub.MarshalBinary()
	privBytes, _ := priv.MarshalBinary()

	return &SigKeypair{
		PublicKey:  pubBytes,
		PrivateKey: privBytes,
	}, nil
}

// Sign signs a message with a packed ML-DSA-65 private key. Signing is
// deterministic (hedged randomness disabled) so both client implementations
// produce identical signatures for identical inputs.
func Sign(privateKey, message []byte) ([]byte, error) {
	if len(privateKey) != SigPrivateKeySize {
		return nil, ErrInvalidPrivateKeySize
	}

	var priv mldsa65.PrivateKey
	if err := priv.UnmarshalBinary(privateKey); err != nil {
		return nil, fmt.Errorf("unmarshal private key: %w", err)
	}

	signature := make([]byte, SignatureSize)
	if err := mldsa65.SignTo(&priv, message, nil, false, signature); err != nil {
		return nil, fmt.Errorf("sign: %w", err)
	}

	return signature, nil
}

// Verify checks an ML-DSA-65 signature. It returns an error rather than a
// bool so callers can distinguish malformed keys from failed verification;
// the identity package flattens both to false where that is the contract.
func Verify(publicKey, message, signature []byte) error {
	if len(publicKey) != SigPublicKeySize {
		return ErrInvalidPublicKeySize
	}

	var pub mldsa65.PublicKey
	if err := pub.UnmarshalBinary(publicKey); err != nil {
		return fmt.Errorf("unmarshal public key: %w", err)
	}

	if !mldsa65.Verify(&pub, message, nil, signature) {
		return ErrSignatureVerificationFailed
	}

	return nil
}
