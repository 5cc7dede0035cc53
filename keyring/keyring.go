package keyring

import (
	"crypto/rand"
	"encoding/json"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"

	couriermesh "github.com/couriermesh/core-go"
	"github.com/couriermesh/core-go/internal/crypto"
)

const envelopeVersion = 1

// Params are the persisted Argon2id parameters for an account.
type Params = crypto.KDFParams

// NewParams returns the current derivation parameters with a fresh salt.
func NewParams() (Params, error) {
	salt := make([]byte, crypto.KDFSaltSize)
	if _, err := rand.Read(salt); err != nil {
		return Params{}, err
	}
	return crypto.DefaultKDFParams(salt), nil
}

// Keyring holds the device's master key for the duration of a session.
type Keyring struct {
	params    Params
	masterKey []byte
}

// Open derives the master key from the password and the account's
// persisted parameters.
func Open(password string, params Params) (*Keyring, error) {
	masterKey, err := crypto.DeriveMasterKey(password, params)
	if err != nil {
		return nil, err
	}
	return &Keyring{params: params, masterKey: masterKey}, nil
}

// Close wipes the master key. The keyring is unusable afterwards.
func (k *Keyring) Close() {
	crypto.Wipe(k.masterKey)
	k.masterKey = nil
}

// AuthHash derives the value sent to the server for PAKE account linkage.
// One-way: it reveals nothing about the master key.
func (k *Keyring) AuthHash() ([]byte, error) {
	if k.masterKey == nil {
		return nil, couriermesh.ErrStateReused
	}
	return crypto.DeriveAuthHash(k.masterKey)
}

// sealedKey is the on-disk envelope for one private key.
type sealedKey struct {
	V      int    `json:"v"`
	Nonce  []byte `json:"nonce"`
	Cipher []byte `json:"cipher"`
}

// SealKey encrypts a private key under the master key for storage.
func (k *Keyring) SealKey(privateKey []byte) ([]byte, error) {
	if k.masterKey == nil {
		return nil, couriermesh.ErrStateReused
	}

	aead, err := chacha20poly1305.NewX(k.masterKey)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, chacha20poly1305.NonceSizeX)
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}

	return json.Marshal(sealedKey{
		V:      envelopeVersion,
		Nonce:  nonce,
		Cipher: aead.Seal(nil, nonce, privateKey, nil),
	})
}

// openKey decrypts a sealed blob. Callers go through WithKey so the
// plaintext is always wiped.
func (k *Keyring) openKey(blob []byte) ([]byte, error) {
	if k.masterKey == nil {
		return nil, couriermesh.ErrStateReused
	}

	var env sealedKey
	if err := json.Unmarshal(blob, &env); err != nil {
		return nil, &couriermesh.FormatError{Field: "sealed key", Err: err}
	}
	if env.V != envelopeVersion {
		return nil, &couriermesh.FormatError{Field: "sealed key version",
			Err: fmt.Errorf("got %d, want %d", env.V, envelopeVersion)}
	}
	if len(env.Nonce) != chacha20poly1305.NonceSizeX {
		return nil, &couriermesh.FormatError{Field: "sealed key nonce"}
	}

	aead, err := chacha20poly1305.NewX(k.masterKey)
	if err != nil {
		return nil, err
	}

	privateKey, err := aead.Open(nil, env.Nonce, env.Cipher, nil)
	if err != nil {
		// Wrong master key (wrong password) or corrupted blob.
		return nil, couriermesh.ErrDecryptionFailed
	}
	return privateKey, nil
}

// WithKey decrypts a sealed private key, passes it to fn, and wipes the
// plaintext on every exit path, including panics and fn errors.
func (k *Keyring) WithKey(blob []byte, fn func(privateKey []byte) error) error {
	privateKey, err := k.openKey(blob)
	if err != nil {
		return err
	}
	defer crypto.Wipe(privateKey)
	return fn(privateKey)
}
