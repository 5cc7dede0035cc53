// Package pake implements registration and login for CourierMesh accounts
// with OPAQUE, an asymmetric password-authenticated key exchange: the
// client proves knowledge of the password and both sides derive a shared
// session key, while the server never sees the password and an on-path
// attacker learns nothing usable for offline guessing.
//
// The parameter set is fixed deployment-wide: ristretto255 for both the
// OPRF and the AKE group, SHA-512 for KDF/MAC/hash, Argon2id as the key
// stretching function, under the protocol context string. Client and
// server serialize every protocol message byte-for-byte under this one
// suite; a mismatch fails the exchange, nothing falls back to defaults.
//
// Registration produces an opaque registration record the server stores in
// place of a password hash. Login runs the three-message AKE (KE1, KE2,
// KE3) and yields a 64-byte session key on both sides.
//
// All state objects are single-use and bounded in time. Client state
// belongs to the client that created it; server login state is bound to
// one in-flight exchange and cannot be completed twice. A timed-out state
// cannot be resumed; the exchange restarts from the init operation.
//
// On the login path every client-side failure — wrong password, unknown
// account, malformed server message — surfaces as the same generic
// authentication error, so callers cannot leak which factor failed.
package pake
