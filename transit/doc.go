// Package transit implements the hybrid transit envelope: the wire object
// carrying one end-to-end encrypted payload between users and across
// federated servers.
//
// Sealing encapsulates a fresh shared secret against the recipient's
// current ML-KEM-768 transport public key, derives an AES-256-GCM key from
// it with HKDF-SHA-512, and encrypts the plaintext under a fresh nonce. The
// envelope is self-describing JSON with three base64url fields:
//
//	{"encapsulatedKey": "...", "iv": "...", "ciphertext": "..."}
//
// This schema is a bit-exact contract between the independent client
// implementations; parsers reject envelopes missing any field rather than
// substituting defaults.
//
// During transport-key rotation a recipient may hold envelopes sealed under
// either the old or the new key. [OpenWithKeySet] tries every currently
// usable private key; ML-KEM's implicit rejection makes a wrong key
// indistinguishable from a tampered envelope, so both surface as
// decryption failure.
package transit
