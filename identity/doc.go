// Package identity binds message content to sender identity, independent of
// transport confidentiality.
//
// A signed message payload is the deterministic serialization of
// (senderHandle, content, optional messageID) under a versioned protocol
// tag. Sender and verifier must compute identical bytes; the serialization
// is length-prefixed binary, so no JSON whitespace or field-order ambiguity
// exists to tolerate. Signatures use ML-DSA-65 in deterministic mode, so
// both client implementations emit identical signatures for identical
// inputs.
//
// The package also owns the account key material model: an ML-DSA-65
// identity pair (published to the directory, rotated only by explicit user
// action) and ML-KEM-768 transport pairs (rotated routinely). During
// transport rotation an [ActiveKeySet] keeps the previous key usable for a
// bounded grace window so in-flight envelopes still open.
package identity
