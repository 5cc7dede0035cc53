package keyring

import (
	"crypto/rand"

	"github.com/tyler-smith/go-bip39"

	couriermesh "github.com/couriermesh/core-go"
	"github.com/couriermesh/core-go/internal/crypto"
)

// SeedSize is the size of the keyring seed in bytes. The seed is the root
// of all per-account key material; the recovery phrase encodes it.
const SeedSize = 32

const (
	identitySeedContext  = "couriermesh:keyring:identity:v1"
	transportSeedContext = "couriermesh:keyring:transport:v1"
)

// NewSeed generates a fresh keyring seed.
func NewSeed() ([]byte, error) {
	seed := make([]byte, SeedSize)
	if _, err := rand.Read(seed); err != nil {
		return nil, err
	}
	return seed, nil
}

// RecoveryPhrase encodes the seed as a 24-word BIP-39 mnemonic for
// provisioning another device.
func RecoveryPhrase(seed []byte) (string, error) {
	if len(seed) != SeedSize {
		return "", crypto.ErrInvalidSeedSize
	}
	return bip39.NewMnemonic(seed)
}

// SeedFromPhrase decodes a recovery phrase back to the keyring seed.
func SeedFromPhrase(phrase string) ([]byte, error) {
	seed, err := bip39.EntropyFromMnemonic(phrase)
	if err != nil {
		return nil, &couriermesh.FormatError{Field: "recovery phrase", Err: err}
	}
	if len(seed) != SeedSize {
		return nil, &couriermesh.FormatError{Field: "recovery phrase", Err: crypto.ErrInvalidSeedSize}
	}
	return seed, nil
}

// DeriveKeySeeds expands the keyring seed into the identity and transport
// key-generation seeds with domain separation. Deterministic: every device
// restored from the same phrase derives the same key pairs.
func DeriveKeySeeds(seed []byte) (identitySeed, transportSeed []byte, err error) {
	if len(seed) != SeedSize {
		return nil, nil, crypto.ErrInvalidSeedSize
	}

	identitySeed, err = crypto.DeriveKey(seed, nil, []byte(identitySeedContext), crypto.SigSeedSize)
	if err != nil {
		return nil, nil, err
	}
	transportSeed, err = crypto.DeriveKey(seed, nil, []byte(transportSeedContext), crypto.KEMSeedSize)
	if err != nil {
		return nil, nil, err
	}
	return identitySeed, transportSeed, nil
}
