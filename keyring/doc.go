// Package keyring handles private key material at rest on a client device.
//
// A master key is derived from the account password with Argon2id; the
// parameters (including the per-account salt) are persisted alongside the
// account so every device derives the same key. The master key never
// leaves the device. The only value ever derived from it for transmission
// is the auth hash, a one-way HKDF output the server uses for PAKE
// linkage.
//
// Private identity and transport keys are stored sealed under the master
// key (XChaCha20-Poly1305, versioned envelope). Access is scoped:
// [Keyring.WithKey] decrypts, hands the plaintext key to a callback, and
// wipes it on every exit path, so decrypted keys stay addressable no
// longer than the operation requires. Logging out of a device is
// [Keyring.Close] plus deletion of the sealed blobs; the published public
// keys are unaffected, since other provisioned devices hold matching
// material.
//
// Multi-device provisioning works through a 32-byte keyring seed, carried
// between devices as a BIP-39 recovery phrase. Identity and transport key
// seeds derive from it with domain separation, so two devices restored
// from the same phrase hold identical key pairs.
package keyring
