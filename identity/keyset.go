package identity

import (
	"sync"
	"time"
)

// DefaultRotationGrace is how long the previous transport key stays usable
// after a rotation. Envelopes sealed against the old public key before the
// sender observed the rotation still open within this window.
const DefaultRotationGrace = 48 * time.Hour

// ActiveKeySet holds the account's currently valid transport keys: the
// current pair plus, during the rotation grace window, the previous one.
// It is an explicit per-account structure, not a global singleton, so
// multi-device deployments can hold one per provisioned device.
type ActiveKeySet struct {
	mu         sync.RWMutex
	current    *TransportKeyPair
	previous   *TransportKeyPair
	graceUntil time.Time
	grace      time.Duration
}

// NewActiveKeySet starts a key set with the given current pair. A
// non-positive grace falls back to DefaultRotationGrace.
func NewActiveKeySet(current *TransportKeyPair, grace time.Duration) *ActiveKeySet {
	if grace <= 0 {
		grace = DefaultRotationGrace
	}
	return &ActiveKeySet{current: current, grace: grace}
}

// Rotate installs next as the current pair and keeps the old current
// usable until now + grace. The new public key must be re-published to the
// directory by the caller; rotation here only affects which private keys
// can still open inbound envelopes.
func (s *ActiveKeySet) Rotate(next *TransportKeyPair, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.previous = s.current
	s.current = next
	s.graceUntil = now.Add(s.grace)
}

// CurrentPublicKey returns the public key new senders must seal against.
func (s *ActiveKeySet) CurrentPublicKey() []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.PublicKey
}

// UsableKeys returns the private keys that may decapsulate an inbound
// envelope at the given time: the current key, plus the previous one while
// the grace window is open. Order matters; the current key is tried first.
func (s *ActiveKeySet) UsableKeys(now time.Time) [][]byte {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := [][]byte{s.current.PrivateKey}
	if s.previous != nil && now.Before(s.graceUntil) {
		keys = append(keys, s.previous.PrivateKey)
	}
	return keys
}
