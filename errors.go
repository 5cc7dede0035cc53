package couriermesh

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is() checks.
var (
	// ErrProtocolFormat is returned when a wire message is malformed or does
	// not deserialize under the fixed protocol parameters. It is always
	// surfaced, never silently defaulted.
	ErrProtocolFormat = errors.New("malformed protocol message")

	// ErrAuthentication is returned when a PAKE exchange does not correspond
	// to a successful password match. It is deliberately generic: callers
	// must not learn which factor failed.
	ErrAuthentication = errors.New("authentication failed")

	// ErrDecryptionFailed is returned when an envelope cannot be opened:
	// malformed structure, AEAD tag mismatch, or a private key that does not
	// correspond to any key the envelope was sealed under.
	ErrDecryptionFailed = errors.New("decryption failed")

	// ErrMalformedKey is returned when public or private key bytes do not
	// parse under the fixed algorithm suite.
	ErrMalformedKey = errors.New("malformed key")

	// ErrReplayDetected is returned by the federation authenticator when an
	// identical request was already accepted inside the replay window.
	ErrReplayDetected = errors.New("replay detected")

	// ErrKeyFetch is returned when the directory cannot resolve a
	// verification key for a federated host. The authenticator never falls
	// back to an unauthenticated accept.
	ErrKeyFetch = errors.New("key fetch failed")

	// ErrStateReused is returned when a single-use PAKE state object is
	// driven through a second exchange step after completing.
	ErrStateReused = errors.New("protocol state already consumed")

	// ErrStateExpired is returned when a PAKE state object outlived its
	// bounded lifetime before the exchange completed. The exchange must be
	// restarted from the corresponding init operation.
	ErrStateExpired = errors.New("protocol state expired")

	// ErrRateLimited is returned by the federation authenticator when the
	// optional per-host rate limit is exceeded.
	ErrRateLimited = errors.New("rate limit exceeded")
)

// ProtocolVersion tags every versioned wire artifact (transit envelopes,
// signature payloads). A schema change bumps this and requires dual-version
// support during rollout.
const ProtocolVersion = 1

// CourierError is implemented by all typed errors in this module.
type CourierError interface {
	error
	CourierError() // marker method
}

// FormatError wraps a wire-format failure with the field that failed to
// parse. Matches ErrProtocolFormat.
type FormatError struct {
	Field string
	Err   error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed %s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("malformed %s", e.Field)
}

// Unwrap returns the underlying error.
func (e *FormatError) Unwrap() error { return e.Err }

// Is implements errors.Is for sentinel error matching.
func (e *FormatError) Is(target error) bool { return target == ErrProtocolFormat }

// CourierError implements the CourierError interface.
func (e *FormatError) CourierError() {}

// KeyError wraps a key-parse failure with the key's role ("recipient
// transport key", "sender identity key", ...). Matches ErrMalformedKey.
type KeyError struct {
	Role string
	Err  error
}

func (e *KeyError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed %s: %v", e.Role, e.Err)
	}
	return fmt.Sprintf("malformed %s", e.Role)
}

// Unwrap returns the underlying error.
func (e *KeyError) Unwrap() error { return e.Err }

// Is implements errors.Is for sentinel error matching.
func (e *KeyError) Is(target error) bool { return target == ErrMalformedKey }

// CourierError implements the CourierError interface.
func (e *KeyError) CourierError() {}

// AuthError represents a federation authentication rejection together with
// the HTTP status the transport must answer with.
type AuthError struct {
	Status  int
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("federation auth rejected (%d): %s: %v", e.Status, e.Message, e.Err)
	}
	return fmt.Sprintf("federation auth rejected (%d): %s", e.Status, e.Message)
}

// Unwrap returns the underlying error.
func (e *AuthError) Unwrap() error { return e.Err }

// CourierError implements the CourierError interface.
func (e *AuthError) CourierError() {}

// KeyFetchError reports a directory lookup failure for a federated host.
// Matches ErrKeyFetch.
type KeyFetchError struct {
	Host string
	Err  error
}

func (e *KeyFetchError) Error() string {
	return fmt.Sprintf("fetch verification key for %q: %v", e.Host, e.Err)
}

// Unwrap returns the underlying error.
func (e *KeyFetchError) Unwrap() error { return e.Err }

// Is implements errors.Is for sentinel error matching.
func (e *KeyFetchError) Is(target error) bool { return target == ErrKeyFetch }

// CourierError implements the CourierError interface.
func (e *KeyFetchError) CourierError() {}
