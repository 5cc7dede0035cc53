package identity

import (
	"bytes"
	"testing"
	"time"

	"github.com/couriermesh/core-go/internal/crypto"
	"github.com/couriermesh/core-go/transit"
)

func TestBuildSignaturePayload_Deterministic(t *testing.T) {
	t.Parallel()

	p1 := BuildSignaturePayload("alice@north.example", []byte("hi"), "msg-1")
	p2 := BuildSignaturePayload("alice@north.example", []byte("hi"), "msg-1")
	if !bytes.Equal(p1, p2) {
		t.Error("identical inputs produced different payloads")
	}

	if !bytes.HasPrefix(p1, []byte(SignaturePrefix)) {
		t.Error("payload does not start with the protocol tag")
	}
}

func TestBuildSignaturePayload_FieldBoundaries(t *testing.T) {
	t.Parallel()

	// Shifting bytes between adjacent fields must change the payload;
	// length prefixes keep the serialization unambiguous.
	a := BuildSignaturePayload("ab", []byte("c"), "")
	b := BuildSignaturePayload("a", []byte("bc"), "")
	if bytes.Equal(a, b) {
		t.Error("field boundary ambiguity: distinct messages serialize identically")
	}

	withID := BuildSignaturePayload("a", []byte("b"), "x")
	withoutID := BuildSignaturePayload("a", []byte("b"), "")
	if bytes.Equal(withID, withoutID) {
		t.Error("optional message ID not reflected in payload")
	}
}

func TestSignVerify_Binding(t *testing.T) {
	t.Parallel()
	kp, err := GenerateIdentityKeyPair()
	if err != nil {
		t.Fatal(err)
	}

	payload := BuildSignaturePayload("alice@north.example", []byte("the content"), "msg-7")
	signature, err := Sign(payload, kp.PrivateKey)
	if err != nil {
		t.Fatalf("Sign() error = %v", err)
	}

	if !Verify(payload, signature, kp.PublicKey) {
		t.Fatal("Verify() = false for a valid signature")
	}

	tests := []struct {
		name    string
		payload []byte
	}{
		{"changed handle", BuildSignaturePayload("mallory@north.example", []byte("the content"), "msg-7")},
		{"changed content", BuildSignaturePayload("alice@north.example", []byte("the Content"), "msg-7")},
		{"changed message id", BuildSignaturePayload("alice@north.example", []byte("the content"), "msg-8")},
		{"dropped message id", BuildSignaturePayload("alice@north.example", []byte("the content"), "")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if Verify(tt.payload, signature, kp.PublicKey) {
				t.Error("Verify() = true for altered payload")
			}
		})
	}
}

func TestVerify_MalformedInputsReturnFalse(t *testing.T) {
	t.Parallel()
	kp, err := GenerateIdentityKeyPair()
	if err != nil {
		t.Fatal(err)
	}
	payload := BuildSignaturePayload("a@b", []byte("m"), "")
	signature, err := Sign(payload, kp.PrivateKey)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name      string
		signature []byte
		publicKey []byte
	}{
		{"nil signature", nil, kp.PublicKey},
		{"short signature", signature[:10], kp.PublicKey},
		{"nil key", signature, nil},
		{"short key", signature, kp.PublicKey[:10]},
		{"garbage key", signature, bytes.Repeat([]byte{0xaa}, crypto.SigPublicKeySize)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Must be false, never a panic or error.
			if Verify(payload, tt.signature, tt.publicKey) {
				t.Error("Verify() = true")
			}
		})
	}
}

func TestKeyID_StableAndDistinct(t *testing.T) {
	t.Parallel()
	kp1, err := GenerateTransportKeyPair()
	if err != nil {
		t.Fatal(err)
	}
	kp2, err := GenerateTransportKeyPair()
	if err != nil {
		t.Fatal(err)
	}

	if KeyID(kp1.PublicKey) != KeyID(kp1.PublicKey) {
		t.Error("KeyID is not stable")
	}
	if KeyID(kp1.PublicKey) == KeyID(kp2.PublicKey) {
		t.Error("distinct keys share a KeyID")
	}
}

func TestKeyPairsFromSeed(t *testing.T) {
	t.Parallel()

	idSeed := bytes.Repeat([]byte{0x11}, crypto.SigSeedSize)
	id1, err := IdentityKeyPairFromSeed(idSeed)
	if err != nil {
		t.Fatal(err)
	}
	id2, err := IdentityKeyPairFromSeed(idSeed)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(id1.PublicKey, id2.PublicKey) {
		t.Error("identity pairs from the same seed differ")
	}

	trSeed := bytes.Repeat([]byte{0x22}, crypto.KEMSeedSize)
	tr1, err := TransportKeyPairFromSeed(trSeed)
	if err != nil {
		t.Fatal(err)
	}
	tr2, err := TransportKeyPairFromSeed(trSeed)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(tr1.PublicKey, tr2.PublicKey) {
		t.Error("transport pairs from the same seed differ")
	}
}

func TestActiveKeySet_RotationGraceWindow(t *testing.T) {
	t.Parallel()
	oldPair, err := GenerateTransportKeyPair()
	if err != nil {
		t.Fatal(err)
	}
	newPair, err := GenerateTransportKeyPair()
	if err != nil {
		t.Fatal(err)
	}

	set := NewActiveKeySet(oldPair, time.Hour)
	now := time.Now()

	if got := set.UsableKeys(now); len(got) != 1 {
		t.Fatalf("before rotation: %d usable keys, want 1", len(got))
	}

	// Envelope sealed against the pre-rotation public key.
	envelopeBytes, err := transit.Seal([]byte("in flight"), set.CurrentPublicKey())
	if err != nil {
		t.Fatal(err)
	}

	set.Rotate(newPair, now)

	if !bytes.Equal(set.CurrentPublicKey(), newPair.PublicKey) {
		t.Error("current public key did not change after rotation")
	}

	inGrace := set.UsableKeys(now.Add(30 * time.Minute))
	if len(inGrace) != 2 {
		t.Fatalf("inside grace: %d usable keys, want 2", len(inGrace))
	}
	plaintext, err := transit.OpenWithKeySet(envelopeBytes, inGrace)
	if err != nil {
		t.Fatalf("OpenWithKeySet() inside grace: %v", err)
	}
	if string(plaintext) != "in flight" {
		t.Errorf("plaintext = %q", plaintext)
	}

	afterGrace := set.UsableKeys(now.Add(2 * time.Hour))
	if len(afterGrace) != 1 {
		t.Fatalf("after grace: %d usable keys, want 1", len(afterGrace))
	}
	if _, err := transit.OpenWithKeySet(envelopeBytes, afterGrace); err == nil {
		t.Error("pre-rotation envelope opened after the grace window")
	}
}
