package crypto

import (
	"golang.org/x/crypto/argon2"
)

// KDFParams are the Argon2id parameters persisted per account. They travel
// with the account record so every device derives the same master key, and
// so parameters can be raised over time without breaking old accounts.
type KDFParams struct {
	Time    uint32 `json:"time"`
	Memory  uint32 `json:"memory_kb"`
	Threads uint8  `json:"threads"`
	Salt    []byte `json:"salt"`
}

// DefaultKDFParams returns the current Argon2id parameters for new
// accounts. The salt must be filled in by the caller.
func DefaultKDFParams(salt []byte) KDFParams {
	return KDFParams{
		Time:    3,
		Memory:  64 * 1024,
		Threads: 4,
		Salt:    salt,
	}
}

// DeriveMasterKey derives the client master key from the account password
// with Argon2id. The master key encrypts private key material at rest and
// never leaves the client.
func DeriveMasterKey(password string, params KDFParams) ([]byte, error) {
	if password == "" {
		return nil, ErrEmptyPassword
	}
	if len(params.Salt) != KDFSaltSize {
		return nil, ErrInvalidSaltSize
	}

	key := argon2.IDKey([]byte(password), params.Salt, params.Time, params.Memory, params.Threads, MasterKeySize)
	return key, nil
}

// DeriveAuthHash derives the server-side auth hash from the master key
// under a fixed domain-separation context. The derivation is one-way; the
// server learns nothing about the master key from it.
func DeriveAuthHash(masterKey []byte) ([]byte, error) {
	if len(masterKey) != MasterKeySize {
		return nil, ErrInvalidKeySize
	}
	return DeriveKey(masterKey, nil, []byte(AuthHashContext), AuthHashSize)
}
