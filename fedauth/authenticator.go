package fedauth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	couriermesh "github.com/couriermesh/core-go"
	"github.com/couriermesh/core-go/internal/crypto"
)

// AlgorithmMLDSA65 is the only signature algorithm accepted on the
// federation path.
const AlgorithmMLDSA65 = "ML-DSA-65"

const (
	defaultReplayWindow   = 5 * time.Minute
	defaultReplayCapacity = 100_000
)

// KeyRecord is a verification key resolved from the directory. Directory
// responses are untrusted input; the authenticator applies the same
// parse-or-reject discipline to them as to any wire field.
type KeyRecord struct {
	// PublicKey is the packed ML-DSA-65 public key.
	PublicKey []byte
	// Algorithm names the signature algorithm the key belongs to.
	Algorithm string
}

// KeyFetcher resolves the verification key for a federated host. The
// lookup may involve a network call on cache miss.
type KeyFetcher interface {
	FetchPublicKey(ctx context.Context, host string) (KeyRecord, error)
}

// Request is one inbound federated request, as extracted by the transport
// layer.
type Request struct {
	// SenderHost is the value of HeaderSenderHost.
	SenderHost string
	// Signature is the value of HeaderSignature (base64url).
	Signature string
	// SenderHandle is the user handle the request claims to act for
	// ("user@host"), empty when the request carries none.
	SenderHandle string
	// Body is the raw JSON request body.
	Body []byte
}

// Authenticator verifies inbound federated requests. One instance is
// shared by every inbound request; it owns the replay cache and the
// optional per-host rate limiters.
type Authenticator struct {
	fetcher KeyFetcher
	replay  *ReplayCache
	now     func() time.Time

	limit       rate.Limit
	burst       int
	limiterMu   sync.Mutex
	limiters    map[string]*rate.Limiter
	rateLimited bool
}

// Option configures an Authenticator.
type Option func(*config)

type config struct {
	replayWindow   time.Duration
	replayCapacity int
	now            func() time.Time
	rps            float64
	burst          int
}

// WithReplayWindow sets how long an accepted request's digest blocks an
// identical request.
func WithReplayWindow(window time.Duration) Option {
	return func(c *config) { c.replayWindow = window }
}

// WithReplayCapacity bounds the replay cache size.
func WithReplayCapacity(capacity int) Option {
	return func(c *config) { c.replayCapacity = capacity }
}

// WithClock overrides the time source. Testing only.
func WithClock(now func() time.Time) Option {
	return func(c *config) { c.now = now }
}

// WithRateLimit enables per-host rate limiting on the federation path.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *config) {
		c.rps = rps
		c.burst = burst
	}
}

// New creates an Authenticator around a key fetcher.
func New(fetcher KeyFetcher, opts ...Option) (*Authenticator, error) {
	if fetcher == nil {
		return nil, errors.New("fedauth: nil key fetcher")
	}

	cfg := config{
		replayWindow:   defaultReplayWindow,
		replayCapacity: defaultReplayCapacity,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	a := &Authenticator{
		fetcher: fetcher,
		replay:  NewReplayCache(cfg.replayWindow, cfg.replayCapacity),
		now:     cfg.now,
	}
	if cfg.rps > 0 {
		a.rateLimited = true
		a.limit = rate.Limit(cfg.rps)
		a.burst = cfg.burst
		a.limiters = make(map[string]*rate.Limiter)
	}
	return a, nil
}

// Authenticate runs the inbound verification state machine. A nil return
// means the request is authentic, fresh, and may proceed to the next
// processing stage; any error is an *couriermesh.AuthError carrying the
// HTTP status to answer with.
func (a *Authenticator) Authenticate(ctx context.Context, req Request) error {
	// 1. Extract sender host and signature.
	senderHost := strings.ToLower(strings.TrimSpace(req.SenderHost))
	if senderHost == "" || req.Signature == "" {
		return &couriermesh.AuthError{Status: http.StatusUnauthorized,
			Message: "missing sender host or signature"}
	}
	if !validHost(senderHost) {
		return &couriermesh.AuthError{Status: http.StatusBadRequest,
			Message: "malformed sender host", Err: couriermesh.ErrProtocolFormat}
	}

	// 2. Bind the claimed handle to the claimed host.
	if req.SenderHandle != "" {
		at := strings.LastIndex(req.SenderHandle, "@")
		if at <= 0 || at == len(req.SenderHandle)-1 {
			return &couriermesh.AuthError{Status: http.StatusBadRequest,
				Message: "malformed sender handle", Err: couriermesh.ErrProtocolFormat}
		}
		handleHost := strings.ToLower(req.SenderHandle[at+1:])
		if handleHost != senderHost {
			return &couriermesh.AuthError{Status: http.StatusForbidden,
				Message: "sender handle host does not match sender host"}
		}
	}

	signature, err := crypto.DecodeBase64(req.Signature)
	if err != nil || len(signature) != crypto.SignatureSize {
		return &couriermesh.AuthError{Status: http.StatusUnauthorized,
			Message: "malformed signature"}
	}

	canonical, err := CanonicalBody(req.Body)
	if err != nil {
		return &couriermesh.AuthError{Status: http.StatusBadRequest,
			Message: "unparsable request body", Err: err}
	}

	if !a.allow(senderHost) {
		return &couriermesh.AuthError{Status: http.StatusTooManyRequests,
			Message: "rate limit exceeded", Err: couriermesh.ErrRateLimited}
	}

	// 3. Resolve the verification key. A directory failure is a rejection,
	// never an unauthenticated accept.
	record, err := a.fetcher.FetchPublicKey(ctx, senderHost)
	if err != nil {
		return &couriermesh.AuthError{Status: http.StatusUnauthorized,
			Message: "verification key unavailable",
			Err:     &couriermesh.KeyFetchError{Host: senderHost, Err: err}}
	}
	if record.Algorithm != AlgorithmMLDSA65 || len(record.PublicKey) != crypto.SigPublicKeySize {
		return &couriermesh.AuthError{Status: http.StatusUnauthorized,
			Message: "unusable verification key",
			Err:     &couriermesh.KeyError{Role: "federation verification key"}}
	}

	// 4. Verify the signature over the canonical body.
	if err := crypto.Verify(record.PublicKey, canonical, signature); err != nil {
		return &couriermesh.AuthError{Status: http.StatusUnauthorized,
			Message: "invalid signature"}
	}

	// 5. Replay check, atomically registering the digest.
	digest := RequestDigest(senderHost, signature, canonical)
	if !a.replay.Register(digest, a.now()) {
		return &couriermesh.AuthError{Status: http.StatusConflict,
			Message: "request already seen", Err: couriermesh.ErrReplayDetected}
	}

	// 6. Accept.
	return nil
}

// allow applies the optional per-host rate limit.
func (a *Authenticator) allow(host string) bool {
	if !a.rateLimited {
		return true
	}
	a.limiterMu.Lock()
	limiter, ok := a.limiters[host]
	if !ok {
		limiter = rate.NewLimiter(a.limit, a.burst)
		a.limiters[host] = limiter
	}
	a.limiterMu.Unlock()
	return limiter.Allow()
}

// HTTPStatus maps an Authenticate error to the status the transport must
// answer with. A nil error maps to 200.
func HTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	var authErr *couriermesh.AuthError
	if errors.As(err, &authErr) {
		return authErr.Status
	}
	return http.StatusInternalServerError
}
