package transit

import (
	"crypto/sha256"
	"fmt"

	couriermesh "github.com/couriermesh/core-go"
	"github.com/couriermesh/core-go/internal/crypto"
)

// Seal encrypts plaintext for exactly one recipient transport public key
// and returns the serialized envelope.
//
// The scheme:
//  1. ML-KEM-768 encapsulation against recipientPublicKey
//  2. HKDF-SHA-512 over the shared secret (salt = SHA-256 of the
//     encapsulated key, info = versioned context string)
//  3. AES-256-GCM under the derived key and a fresh 12-byte nonce
func Seal(plaintext, recipientPublicKey []byte) ([]byte, error) {
	env, err := seal(plaintext, recipientPublicKey, nil, nil)
	if err != nil {
		return nil, err
	}
	return env.Marshal()
}

// seal is the deterministic core. encSeed and nonce are nil in production;
// conformance vectors supply both.
func seal(plaintext, recipientPublicKey, encSeed, nonce []byte) (*Envelope, error) {
	if err := crypto.ParseKEMPublicKey(recipientPublicKey); err != nil {
		return nil, &couriermesh.KeyError{Role: "recipient transport key", Err: err}
	}

	encapsulated, sharedSecret, err := crypto.Encapsulate(recipientPublicKey, encSeed)
	if err != nil {
		return nil, fmt.Errorf("encapsulate: %w", err)
	}
	defer crypto.Wipe(sharedSecret)

	key, err := deriveEnvelopeKey(sharedSecret, encapsulated)
	if err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}
	defer crypto.Wipe(key)

	var ciphertext []byte
	if nonce == nil {
		nonce, ciphertext, err = crypto.SealAEAD(key, plaintext, nil)
	} else {
		ciphertext, err = crypto.SealAEADWithNonce(key, nonce, plaintext, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("encrypt: %w", err)
	}

	return &Envelope{
		EncapsulatedKey: crypto.ToBase64URL(encapsulated),
		IV:              crypto.ToBase64URL(nonce),
		Ciphertext:      crypto.ToBase64URL(ciphertext),
	}, nil
}

// Open decapsulates and decrypts an envelope with the holder's transport
// private key. Any failure — malformed envelope, tag mismatch, or a private
// key the envelope was not sealed under — returns an error matching
// couriermesh.ErrDecryptionFailed, never partial plaintext.
func Open(envelopeBytes, privateKey []byte) ([]byte, error) {
	env, err := ParseEnvelope(envelopeBytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", couriermesh.ErrDecryptionFailed, err)
	}
	return openParsed(env, privateKey)
}

// OpenWithKeySet tries each candidate transport private key in order,
// returning the first successful decryption. Rotation hands over two keys
// during the grace window; older envelopes decrypt under the previous key.
func OpenWithKeySet(envelopeBytes []byte, privateKeys [][]byte) ([]byte, error) {
	env, err := ParseEnvelope(envelopeBytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", couriermesh.ErrDecryptionFailed, err)
	}

	for _, privateKey := range privateKeys {
		plaintext, err := openParsed(env, privateKey)
		if err == nil {
			return plaintext, nil
		}
	}
	return nil, couriermesh.ErrDecryptionFailed
}

func openParsed(env *Envelope, privateKey []byte) ([]byte, error) {
	encapsulated, iv, ciphertext, err := env.decode()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", couriermesh.ErrDecryptionFailed, err)
	}

	keypair, err := crypto.KEMKeypairFromPrivateKey(privateKey)
	if err != nil {
		return nil, &couriermesh.KeyError{Role: "transport private key", Err: err}
	}

	// ML-KEM implicit rejection: a mismatched key still yields a shared
	// secret, but the AEAD open below fails.
	sharedSecret, err := keypair.Decapsulate(encapsulated)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", couriermesh.ErrDecryptionFailed, err)
	}
	defer crypto.Wipe(sharedSecret)

	key, err := deriveEnvelopeKey(sharedSecret, encapsulated)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", couriermesh.ErrDecryptionFailed, err)
	}
	defer crypto.Wipe(key)

	plaintext, err := crypto.OpenAEAD(key, iv, ciphertext, nil)
	if err != nil {
		return nil, couriermesh.ErrDecryptionFailed
	}

	return plaintext, nil
}

// deriveEnvelopeKey binds the AEAD key to this exact encapsulation: the
// salt commits to the encapsulated key, the info string to the protocol
// version.
func deriveEnvelopeKey(sharedSecret, encapsulated []byte) ([]byte, error) {
	salt := sha256.Sum256(encapsulated)
	return crypto.DeriveKey(sharedSecret, salt[:], []byte(crypto.TransitContext), crypto.AEADKeySize)
}
