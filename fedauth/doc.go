// Package fedauth authenticates requests between federated CourierMesh
// servers: the sending server signs the canonical form of the request body
// with its ML-DSA-65 host key, and the receiving server verifies the
// claimed origin, the signature, and freshness before processing.
//
// The inbound state machine, in order: extract the sender host and
// signature headers (missing either rejects with 401); if the request
// claims a user handle, its host component must match the sender host
// (403 on mismatch); resolve the sender's verification key through the
// directory (failure rejects with 401, never an unauthenticated accept);
// verify the signature over the canonical JSON serialization of the body
// (401); and finally check a digest of (host, signature, body) against the
// bounded replay cache (409 inside the window). Each rejection carries its
// HTTP status so the transport layer answers the contract directly:
// 400 malformed sender claim, 401 missing/invalid signature or key-fetch
// failure, 403 sender/host mismatch, 409 replay.
//
// The replay cache is an explicit component owned by the Authenticator,
// constructed with its window and capacity; it never grows unbounded and
// prefers evicting already-expired entries. An optional per-host rate
// limit (off by default) shields the directory and the verifier from
// abusive peers.
//
// Nothing here retries. Re-fetching a key after a transient directory
// failure is the caller's policy decision.
package fedauth
