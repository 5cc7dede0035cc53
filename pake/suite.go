package pake

import (
	stdcrypto "crypto"
	"time"

	"github.com/bytemare/ksf"
	"github.com/bytemare/opaque"
)

const (
	// Context binds every exchange to this protocol version. Peers with a
	// different context derive different transcripts and fail the AKE.
	Context = "couriermesh:pake:v1"

	// SessionKeySize is the length of the derived session key in bytes
	// (the SHA-512 output length of the fixed suite).
	SessionKeySize = 64

	// StateTTL bounds how long an in-flight exchange state stays usable.
	// A state older than this cannot be completed; the exchange restarts
	// from the init operation.
	StateTTL = 5 * time.Minute
)

// suite returns the one fixed OPAQUE parameter set used across the whole
// deployment. Every call returns an equivalent value; nothing about it is
// negotiable or configurable.
func suite() *opaque.Configuration {
	return &opaque.Configuration{
		OPRF:    opaque.RistrettoSha512,
		AKE:     opaque.RistrettoSha512,
		KDF:     stdcrypto.SHA512,
		MAC:     stdcrypto.SHA512,
		Hash:    stdcrypto.SHA512,
		KSF:     ksf.Argon2id,
		Context: []byte(Context),
	}
}
