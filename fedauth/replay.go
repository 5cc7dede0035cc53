package fedauth

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"sort"
	"sync"
	"time"
)

// ReplayCache remembers digests of recently accepted federated requests so
// an identical request inside the window is rejected. It is shared mutable
// state touched by every inbound request: one mutex serializes inserts, so
// the check-and-register step is atomic. Entries are append/expire-only.
//
// The cache is bounded. When it outgrows its capacity it drops expired
// entries first, then the entries closest to expiry. It never disables
// replay protection for new entries to make room.
type ReplayCache struct {
	mu       sync.Mutex
	window   time.Duration
	capacity int
	entries  map[string]time.Time // digest -> expiry
}

// NewReplayCache creates a cache holding up to capacity digests for the
// given window.
func NewReplayCache(window time.Duration, capacity int) *ReplayCache {
	return &ReplayCache{
		window:   window,
		capacity: capacity,
		entries:  make(map[string]time.Time),
	}
}

// Register records a request digest. It returns false when the digest is
// already present and unexpired, which is a replay. An entry whose window
// elapsed is treated as gone: the same request becomes a new, independent
// one.
func (c *ReplayCache) Register(digest string, now time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if expiry, ok := c.entries[digest]; ok && now.Before(expiry) {
		return false
	}

	c.entries[digest] = now.Add(c.window)
	if len(c.entries) > c.capacity {
		c.prune(now)
	}
	return true
}

// Len reports the current number of entries.
func (c *ReplayCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// prune drops expired entries, then, if still over capacity, the entries
// closest to expiry. Callers hold the mutex.
func (c *ReplayCache) prune(now time.Time) {
	for digest, expiry := range c.entries {
		if !now.Before(expiry) {
			delete(c.entries, digest)
		}
	}
	if len(c.entries) <= c.capacity {
		return
	}

	type entry struct {
		digest string
		expiry time.Time
	}
	remaining := make([]entry, 0, len(c.entries))
	for digest, expiry := range c.entries {
		remaining = append(remaining, entry{digest, expiry})
	}
	sort.Slice(remaining, func(i, j int) bool {
		return remaining[i].expiry.Before(remaining[j].expiry)
	})
	for _, e := range remaining[:len(remaining)-c.capacity] {
		delete(c.entries, e.digest)
	}
}

// RequestDigest derives the replay key for a request from its sender host,
// signature, and canonical body. Length prefixes keep the concatenation
// unambiguous.
func RequestDigest(senderHost string, signature, body []byte) string {
	h := sha256.New()
	writeField := func(field []byte) {
		var length [4]byte
		binary.BigEndian.PutUint32(length[:], uint32(len(field)))
		h.Write(length[:])
		h.Write(field)
	}
	writeField([]byte(senderHost))
	writeField(signature)
	writeField(body)
	return hex.EncodeToString(h.Sum(nil))
}
