package crypto

import (
	"github.com/cloudflare/circl/kem/mlkem/mlkem768"
)

// KEMKeypair is an ML-KEM-768 keypair used for transit-envelope
// encapsulation.
type KEMKeypair struct {
	// PublicKey is the packed ML-KEM-768 public key.
	PublicKey []byte
	// PrivateKey is the packed ML-KEM-768 private key.
	PrivateKey []byte
}

// GenerateKEMKeypair creates a new ML-KEM-768 keypair.
func GenerateKEMKeypair() (*KEMKeypair, error) {
	pub, priv, err := mlkem768.GenerateKeyPair(randReader)
	if err != nil {
		return nil, err
	}

	// MarshalBinary never fails for keys produced by GenerateKeyPair.
	pubBytes, _ := pub.MarshalBinary()
	privBytes, _ := priv.MarshalBinary()

	return &KEMKeypair{
		PublicKey:  pubBytes,
		PrivateKey: privBytes,
	}, nil
}

// KEMKeypairFromSeed derives a keypair from a 64-byte seed. The same seed
// always yields the same keypair; conformance vectors and multi-device
// provisioning rely on this.
func KEMKeypairFromSeed(seed []byte) (*KEMKeypair, error) {
	if len(seed) != KEMSeedSize {
		return nil, ErrInvalidSeedSize
	}

	pub, priv := mlkem768.NewKeyFromSeed(seed)
	pubBytes, _ := pub.MarshalBinary()
	privBytes, _ := priv.MarshalBinary()

	return &KEMKeypair{
		PublicKey:  pubBytes,
		PrivateKey: privBytes,
	}, nil
}

// KEMKeypairFromPrivateKey reconstructs a keypair from the packed private
// key. The public key is embedded in the private key at a fixed offset.
func KEMKeypairFromPrivateKey(privateKey []byte) (*KEMKeypair, error) {
	if len(privateKey) != KEMPrivateKeySize {
		return nil, ErrInvalidPrivateKeySize
	}

	publicKey := make([]byte, KEMPublicKeySize)
	copy(publicKey, privateKey[kemPublicKeyOffset:kemPublicKeyOffset+KEMPublicKeySize])

	return &KEMKeypair{
		PublicKey:  publicKey,
		PrivateKey: privateKey,
	}, nil
}

// ParseKEMPublicKey validates packed public key bytes.
func ParseKEMPublicKey(publicKey []byte) error {
	if len(publicKey) != KEMPublicKeySize {
		return ErrInvalidPublicKeySize
	}
	var pub mlkem768.PublicKey
	return pub.Unpack(publicKey)
}

// Encapsulate produces a fresh shared secret for the recipient public key
// together with its encapsulated form. A nil seed uses the ambient random
// source; a 32-byte seed derandomizes the operation for conformance vectors.
func Encapsulate(recipientPublicKey, seed []byte) (encapsulated, sharedSecret []byte, err error) {
	if len(recipientPublicKey) != KEMPublicKeySize {
		return nil, nil, ErrInvalidPublicKeySize
	}
	if seed != nil && len(seed) != KEMEncapsulationSeedSize {
		return nil, nil, ErrInvalidSeedSize
	}

	var pub mlkem768.PublicKey
	if err := pub.Unpack(recipientPublicKey); err != nil {
		return nil, nil, err
	}

	if seed == nil {
		seed = make([]byte, KEMEncapsulationSeedSize)
		if _, err := reader().Read(seed); err != nil {
			return nil, nil, err
		}
	}

	encapsulated = make([]byte, KEMCiphertextSize)
	sharedSecret = make([]byte, KEMSharedKeySize)
	pub.EncapsulateTo(encapsulated, sharedSecret, seed)

	return encapsulated, sharedSecret, nil
}

// Decapsulate recovers the shared secret from an encapsulated key.
func (k *KEMKeypair) Decapsulate(encapsulated []byte) ([]byte, error) {
	if len(encapsulated) != KEMCiphertextSize {
		return nil, ErrInvalidCiphertextSize
	}

	var priv mlkem768.PrivateKey
	if err := priv.Unpack(k.PrivateKey); err != nil {
		return nil, err
	}

	sharedSecret := make([]byte, KEMSharedKeySize)
	priv.DecapsulateTo(sharedSecret, encapsulated)

	return sharedSecret, nil
}
