// Package crypto provides the cryptographic primitives for the CourierMesh
// protocol core: post-quantum key encapsulation, post-quantum signatures,
// authenticated encryption, and the password key-derivation schedule.
//
// # Algorithm Suite
//
//   - ML-KEM-768 (NIST FIPS 203): key encapsulation for the transit
//     envelope. Provides 192-bit classical and quantum security levels.
//
//   - ML-DSA-65 (NIST FIPS 204): signatures for message authorship and
//     federation request authentication. Provides 192-bit security.
//
//   - AES-256-GCM: authenticated encryption of envelope payloads.
//
//   - HKDF-SHA-512 (RFC 5869): derives AEAD keys from KEM shared secrets
//     with domain separation.
//
//   - Argon2id (RFC 9106): derives the client master key from the account
//     password. The master key never leaves the client; only a
//     domain-separated, non-invertible auth hash is ever derived from it
//     for transmission.
//
// # Critical Security Notes
//
// Signature verification MUST be performed before a decrypted payload is
// trusted. AES-GCM nonces MUST be unique for each encryption under the same
// key; nonce reuse lets an attacker recover the authentication key and
// forge messages. [SealAEAD] generates a fresh random nonce on every call
// for this reason.
//
// Secret keys must never be logged, transmitted in plaintext, or stored
// unencrypted. The keyring package handles at-rest encryption; [Wipe]
// zeroizes transient copies.
package crypto
