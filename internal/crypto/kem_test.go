package crypto

import (
	"bytes"
	"errors"
	"testing"
)

func TestGenerateKEMKeypair(t *testing.T) {
	t.Parallel()
	kp, err := GenerateKEMKeypair()
	if err != nil {
		t.Fatalf("GenerateKEMKeypair() error = %v", err)
	}

	if len(kp.PublicKey) != KEMPublicKeySize {
		t.Errorf("public key size = %d, want %d", len(kp.PublicKey), KEMPublicKeySize)
	}
	if len(kp.PrivateKey) != KEMPrivateKeySize {
		t.Errorf("private key size = %d, want %d", len(kp.PrivateKey), KEMPrivateKeySize)
	}
}

func TestKEMKeypairFromSeed_Deterministic(t *testing.T) {
	t.Parallel()
	seed := bytes.Repeat([]byte{0x42}, KEMSeedSize)

	kp1, err := KEMKeypairFromSeed(seed)
	if err != nil {
		t.Fatal(err)
	}
	kp2, err := KEMKeypairFromSeed(seed)
	if err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(kp1.PublicKey, kp2.PublicKey) || !bytes.Equal(kp1.PrivateKey, kp2.PrivateKey) {
		t.Error("same seed produced different keypairs")
	}

	if _, err := KEMKeypairFromSeed(seed[:32]); !errors.Is(err, ErrInvalidSeedSize) {
		t.Errorf("short seed: error = %v, want ErrInvalidSeedSize", err)
	}
}

func TestKEMKeypairFromPrivateKey_EmbeddedPublicKey(t *testing.T) {
	t.Parallel()
	kp, err := GenerateKEMKeypair()
	if err != nil {
		t.Fatal(err)
	}

	restored, err := KEMKeypairFromPrivateKey(kp.PrivateKey)
	if err != nil {
		t.Fatalf("KEMKeypairFromPrivateKey() error = %v", err)
	}
	if !bytes.Equal(restored.PublicKey, kp.PublicKey) {
		t.Error("embedded public key does not match generated public key")
	}

	if _, err := KEMKeypairFromPrivateKey(kp.PrivateKey[:100]); !errors.Is(err, ErrInvalidPrivateKeySize) {
		t.Errorf("truncated private key: error = %v, want ErrInvalidPrivateKeySize", err)
	}
}

func TestEncapsulateDecapsulate(t *testing.T) {
	t.Parallel()
	kp, err := GenerateKEMKeypair()
	if err != nil {
		t.Fatal(err)
	}

	encapsulated, sharedSecret, err := Encapsulate(kp.PublicKey, nil)
	if err != nil {
		t.Fatalf("Encapsulate() error = %v", err)
	}
	if len(encapsulated) != KEMCiphertextSize {
		t.Errorf("encapsulated size = %d, want %d", len(encapsulated), KEMCiphertextSize)
	}
	if len(sharedSecret) != KEMSharedKeySize {
		t.Errorf("shared secret size = %d, want %d", len(sharedSecret), KEMSharedKeySize)
	}

	recovered, err := kp.Decapsulate(encapsulated)
	if err != nil {
		t.Fatalf("Decapsulate() error = %v", err)
	}
	if !bytes.Equal(recovered, sharedSecret) {
		t.Error("decapsulated secret does not match encapsulated secret")
	}
}

func TestEncapsulate_Deterministic(t *testing.T) {
	t.Parallel()
	kp, err := KEMKeypairFromSeed(bytes.Repeat([]byte{0x01}, KEMSeedSize))
	if err != nil {
		t.Fatal(err)
	}
	seed := bytes.Repeat([]byte{0x07}, KEMEncapsulationSeedSize)

	ct1, ss1, err := Encapsulate(kp.PublicKey, seed)
	if err != nil {
		t.Fatal(err)
	}
	ct2, ss2, err := Encapsulate(kp.PublicKey, seed)
	if err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(ct1, ct2) || !bytes.Equal(ss1, ss2) {
		t.Error("seeded encapsulation is not deterministic")
	}
}

func TestEncapsulate_InvalidInputs(t *testing.T) {
	t.Parallel()
	kp, err := GenerateKEMKeypair()
	if err != nil {
		t.Fatal(err)
	}

	if _, _, err := Encapsulate(kp.PublicKey[:64], nil); !errors.Is(err, ErrInvalidPublicKeySize) {
		t.Errorf("truncated public key: error = %v, want ErrInvalidPublicKeySize", err)
	}
	if _, _, err := Encapsulate(kp.PublicKey, make([]byte, 16)); !errors.Is(err, ErrInvalidSeedSize) {
		t.Errorf("short seed: error = %v, want ErrInvalidSeedSize", err)
	}
	if _, err := kp.Decapsulate(make([]byte, 10)); !errors.Is(err, ErrInvalidCiphertextSize) {
		t.Errorf("short ciphertext: error = %v, want ErrInvalidCiphertextSize", err)
	}
}
