package transit

import (
	"encoding/hex"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	couriermesh "github.com/couriermesh/core-go"
	"github.com/couriermesh/core-go/internal/crypto"
)

// Vector is one conformance test vector: fixed seeds and nonce in, a
// byte-exact envelope out. Every independent protocol implementation must
// produce identical envelope bytes for each vector; the CLI emits the
// generated envelopes for cross-implementation comparison.
type Vector struct {
	Name string `yaml:"name"`
	// RecipientKeySeed is the hex-encoded 64-byte ML-KEM-768 key seed.
	RecipientKeySeed string `yaml:"recipientKeySeed"`
	// EncapsulationSeed is the hex-encoded 32-byte encapsulation seed.
	EncapsulationSeed string `yaml:"encapsulationSeed"`
	// Nonce is the hex-encoded 12-byte AES-GCM nonce.
	Nonce string `yaml:"nonce"`
	// Plaintext is the UTF-8 payload to seal.
	Plaintext string `yaml:"plaintext"`
}

// VectorSet is the on-disk conformance vector file.
type VectorSet struct {
	Version int      `yaml:"version"`
	Vectors []Vector `yaml:"vectors"`
}

// LoadVectors reads a vector set from YAML.
func LoadVectors(r io.Reader) (*VectorSet, error) {
	var set VectorSet
	if err := yaml.NewDecoder(r).Decode(&set); err != nil {
		return nil, &couriermesh.FormatError{Field: "vector set", Err: err}
	}
	if set.Version != couriermesh.ProtocolVersion {
		return nil, &couriermesh.FormatError{Field: "vector set version",
			Err: fmt.Errorf("got %d, want %d", set.Version, couriermesh.ProtocolVersion)}
	}
	return &set, nil
}

// Generate produces the vector's envelope bytes along with the recipient
// private key needed to open it.
func (v *Vector) Generate() (envelopeBytes, recipientPrivateKey []byte, err error) {
	keySeed, err := hex.DecodeString(v.RecipientKeySeed)
	if err != nil {
		return nil, nil, &couriermesh.FormatError{Field: "recipientKeySeed", Err: err}
	}
	encSeed, err := hex.DecodeString(v.EncapsulationSeed)
	if err != nil {
		return nil, nil, &couriermesh.FormatError{Field: "encapsulationSeed", Err: err}
	}
	nonce, err := hex.DecodeString(v.Nonce)
	if err != nil {
		return nil, nil, &couriermesh.FormatError{Field: "nonce", Err: err}
	}

	recipient, err := crypto.KEMKeypairFromSeed(keySeed)
	if err != nil {
		return nil, nil, fmt.Errorf("derive recipient keypair: %w", err)
	}

	env, err := seal([]byte(v.Plaintext), recipient.PublicKey, encSeed, nonce)
	if err != nil {
		return nil, nil, fmt.Errorf("seal vector %q: %w", v.Name, err)
	}

	envelopeBytes, err = env.Marshal()
	if err != nil {
		return nil, nil, err
	}
	return envelopeBytes, recipient.PrivateKey, nil
}
