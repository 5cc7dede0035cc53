package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"io"
)

// SealAEAD encrypts plaintext with AES-256-GCM under a fresh random nonce
// and returns the nonce and ciphertext (tag appended) separately, the way
// the transit envelope carries them.
func SealAEAD(key, plaintext, aad []byte) (nonce, ciphertext []byte, err error) {
	if len(key) != AEADKeySize {
		return nil, nil, fmt.Errorf("%w: got %d, want %d", ErrInvalidKeySize, len(key), AEADKeySize)
	}

	nonce = make([]byte, AEADNonceSize)
	if _, err := io.ReadFull(reader(), nonce); err != nil {
		return nil, nil, fmt.Errorf("generate nonce: %w", err)
	}

	ciphertext, err = SealAEADWithNonce(key, nonce, plaintext, aad)
	if err != nil {
		return nil, nil, err
	}
	return nonce, ciphertext, nil
}

// SealAEADWithNonce encrypts plaintext with AES-256-GCM under the caller's
// nonce. The caller is responsible for nonce uniqueness; only key derivation
// paths with single-use keys (and conformance vectors) may supply one.
func SealAEADWithNonce(key, nonce, plaintext, aad []byte) ([]byte, error) {
	if len(key) != AEADKeySize {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInvalidKeySize, len(key), AEADKeySize)
	}
	if len(nonce) != AEADNonceSize {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInvalidNonceSize, len(nonce), AEADNonceSize)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create GCM: %w", err)
	}

	return gcm.Seal(nil, nonce, plaintext, aad), nil
}

// OpenAEAD decrypts an AES-256-GCM ciphertext. Any tag mismatch returns
// ErrDecryptionFailed with no plaintext; there is no partial output.
func OpenAEAD(key, nonce, ciphertext, aad []byte) ([]byte, error) {
	if len(key) != AEADKeySize {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInvalidKeySize, len(key), AEADKeySize)
	}
	if len(nonce) != AEADNonceSize {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInvalidNonceSize, len(nonce), AEADNonceSize)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	plaintext, err := gcm.Open(nil, nonce, ciphertext, aad)
	if err != nil {
		return nil, ErrDecryptionFailed
	}

	return plaintext, nil
}

// reader returns the active random source: the test override when set,
// otherwise crypto/rand.
func reader() io.Reader {
	if randReader != nil {
		return randReader
	}
	return rand.Reader
}
