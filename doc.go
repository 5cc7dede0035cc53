// Package couriermesh is the cryptographic core of the CourierMesh federated
// messaging protocol. It implements the three load-bearing pieces every
// client and server implementation must agree on byte-for-byte:
//
//   - the password-authenticated key exchange used for registration and
//     login ([github.com/couriermesh/core-go/pake]), which derives a shared
//     session key without ever transmitting the password;
//
//   - the hybrid post-quantum transit envelope
//     ([github.com/couriermesh/core-go/transit]) carrying every message
//     between users and across federated servers, together with the
//     deterministic signature payload binding sender identity to content
//     ([github.com/couriermesh/core-go/identity]);
//
//   - the federation request-authentication layer
//     ([github.com/couriermesh/core-go/fedauth]), which signs inter-server
//     requests and rejects tampered, mis-attributed, or replayed ones.
//
// Private key material at rest is handled by
// [github.com/couriermesh/core-go/keyring], which encrypts it under a
// password-derived master key that never crosses the network.
//
// # Algorithm Suite
//
// The deployment-wide algorithm suite is fixed:
//
//   - OPAQUE over ristretto255 with SHA-512 and Argon2id (PAKE)
//   - ML-KEM-768 (NIST FIPS 203) for key encapsulation
//   - ML-DSA-65 (NIST FIPS 204) for signatures
//   - AES-256-GCM for payload encryption, HKDF-SHA-512 for key derivation
//   - Argon2id for the client-side master key
//
// There are no negotiable parameters. A peer that does not speak exactly
// this suite fails the exchange; nothing falls back to defaults.
//
// # Error Model
//
// Every failure surfaces as a typed error defined in this package and
// matchable with [errors.Is]. None of the operations retry internally, and
// none of them terminate the process: retry and user messaging are caller
// policy. Login-path failures are deliberately uniform so callers can show
// one generic message without leaking which factor failed.
//
// This package holds only the shared error taxonomy and protocol version;
// all functionality lives in the subpackages.
package couriermesh
