package crypto

import "errors"

var (
	// ErrInvalidPrivateKeySize is returned when a private key has the wrong length.
	ErrInvalidPrivateKeySize = errors.New("invalid private key size")

	// ErrInvalidPublicKeySize is returned when a public key has the wrong length.
	ErrInvalidPublicKeySize = errors.New("invalid public key size")

	// ErrInvalidCiphertextSize is returned when a KEM ciphertext has the wrong length.
	ErrInvalidCiphertextSize = errors.New("invalid ciphertext size")

	// ErrInvalidSeedSize is returned when a key-generation seed has the wrong length.
	ErrInvalidSeedSize = errors.New("invalid seed size")

	// ErrSignatureVerificationFailed is returned when signature verification fails.
	ErrSignatureVerificationFailed = errors.New("signature verification failed")

	// ErrDecryptionFailed is returned when AEAD decryption fails. The tag
	// did not verify; no plaintext is ever returned alongside it.
	ErrDecryptionFailed = errors.New("decryption failed")

	// ErrInvalidKeySize is returned when the AEAD key size is invalid.
	ErrInvalidKeySize = errors.New("invalid key size")

	// ErrInvalidNonceSize is returned when the AEAD nonce size is invalid.
	ErrInvalidNonceSize = errors.New("invalid nonce size")

	// ErrInvalidSaltSize is returned when the KDF salt size is invalid.
	ErrInvalidSaltSize = errors.New("invalid salt size")

	// ErrEmptyPassword is returned when a password-derived key is requested
	// for an empty password.
	ErrEmptyPassword = errors.New("empty password")
)
