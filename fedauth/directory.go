package fedauth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/couriermesh/core-go/internal/crypto"
)

// KeyPath is the well-known path a CourierMesh server publishes its host
// verification key under.
const KeyPath = "/.well-known/couriermesh/host-key"

const defaultKeyTTL = 15 * time.Minute

// RetryConfig bounds how hard a lookup leans on a struggling peer. Only
// transient statuses are retried; a well-formed rejection is final.
type RetryConfig struct {
	// MaxRetries caps the retry attempts after the first try.
	MaxRetries int
	// BaseDelay is the wait before the first retry.
	BaseDelay time.Duration
	// MaxDelay caps the backoff growth.
	MaxDelay time.Duration
	// Multiplier grows the delay between consecutive attempts.
	Multiplier float64
	// Jitter (0.0 to 1.0) randomizes each delay so peers recovering from
	// an outage are not hit by synchronized lookups.
	Jitter float64
	// RetryableOn reports whether a status code is worth another attempt.
	RetryableOn func(statusCode int) bool
}

// DefaultRetryConfig returns the retry policy lookups use unless
// overridden with WithRetry.
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxRetries: 3,
		BaseDelay:  500 * time.Millisecond,
		MaxDelay:   10 * time.Second,
		Multiplier: 2.0,
		Jitter:     0.2,
		RetryableOn: func(statusCode int) bool {
			switch statusCode {
			case 408, 429, 500, 502, 503, 504:
				return true
			default:
				return false
			}
		},
	}
}

// ShouldRetry reports whether the attempt's outcome warrants another try.
func (r *RetryConfig) ShouldRetry(attempt int, statusCode int) bool {
	if attempt >= r.MaxRetries {
		return false
	}
	return r.RetryableOn(statusCode)
}

// Delay returns the jittered backoff before the given retry attempt.
func (r *RetryConfig) Delay(attempt int) time.Duration {
	delay := float64(r.BaseDelay) * math.Pow(r.Multiplier, float64(attempt))
	delay = math.Min(delay, float64(r.MaxDelay))

	if r.Jitter > 0 {
		// Spread each delay uniformly across [delay*(1-j), delay*(1+j)].
		spread := delay * r.Jitter
		delay = delay - spread + rand.Float64()*2*spread
	}

	return time.Duration(delay)
}

// wait sleeps for the attempt's delay or until the context is done.
func (r *RetryConfig) wait(ctx context.Context, attempt int) error {
	timer := time.NewTimer(r.Delay(attempt))
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// DirectoryClient fetches host verification keys over HTTPS from each
// host's well-known key endpoint. Fetched keys are cached for a TTL so a
// burst of inbound requests from one peer costs one lookup.
//
// DirectoryClient implements KeyFetcher.
type DirectoryClient struct {
	httpClient *http.Client
	retry      *RetryConfig
	scheme     string
	keyTTL     time.Duration
	now        func() time.Time

	mu    sync.Mutex
	cache map[string]cachedKey
}

type cachedKey struct {
	record KeyRecord
	expiry time.Time
}

// DirectoryOption configures a DirectoryClient.
type DirectoryOption func(*DirectoryClient)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) DirectoryOption {
	return func(d *DirectoryClient) { d.httpClient = client }
}

// WithRetry sets the retry configuration.
func WithRetry(retry *RetryConfig) DirectoryOption {
	return func(d *DirectoryClient) { d.retry = retry }
}

// WithKeyTTL sets how long a fetched key is served from cache.
func WithKeyTTL(ttl time.Duration) DirectoryOption {
	return func(d *DirectoryClient) { d.keyTTL = ttl }
}

// WithInsecureHTTP switches lookups to plain HTTP. Testing only.
func WithInsecureHTTP() DirectoryOption {
	return func(d *DirectoryClient) { d.scheme = "http" }
}

// NewDirectoryClient creates a directory client.
func NewDirectoryClient(opts ...DirectoryOption) *DirectoryClient {
	d := &DirectoryClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		retry:      DefaultRetryConfig(),
		scheme:     "https",
		keyTTL:     defaultKeyTTL,
		now:        time.Now,
		cache:      make(map[string]cachedKey),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// FetchPublicKey resolves the verification key for host, serving from
// cache when a fresh entry exists.
func (d *DirectoryClient) FetchPublicKey(ctx context.Context, host string) (KeyRecord, error) {
	if !validHost(host) {
		return KeyRecord{}, fmt.Errorf("invalid host %q", host)
	}

	now := d.now()
	d.mu.Lock()
	if entry, ok := d.cache[host]; ok && now.Before(entry.expiry) {
		d.mu.Unlock()
		return entry.record, nil
	}
	d.mu.Unlock()

	record, err := d.fetch(ctx, host)
	if err != nil {
		return KeyRecord{}, err
	}

	d.mu.Lock()
	d.cache[host] = cachedKey{record: record, expiry: now.Add(d.keyTTL)}
	d.mu.Unlock()
	return record, nil
}

func (d *DirectoryClient) fetch(ctx context.Context, host string) (KeyRecord, error) {
	url := d.scheme + "://" + host + KeyPath

	var lastErr error
	for attempt := 0; ; attempt++ {
		record, status, err := d.get(ctx, url)
		if err == nil {
			return record, nil
		}
		lastErr = err

		if !d.retry.ShouldRetry(attempt, status) {
			break
		}
		if err := d.retry.wait(ctx, attempt); err != nil {
			return KeyRecord{}, err
		}
	}
	return KeyRecord{}, lastErr
}

func (d *DirectoryClient) get(ctx context.Context, url string) (KeyRecord, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return KeyRecord{}, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return KeyRecord{}, 0, fmt.Errorf("key lookup failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return KeyRecord{}, resp.StatusCode, fmt.Errorf("key lookup returned status %d", resp.StatusCode)
	}

	var payload struct {
		PublicKey string `json:"publicKey"`
		Algorithm string `json:"algorithm"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return KeyRecord{}, resp.StatusCode, fmt.Errorf("failed to decode key response: %w", err)
	}

	publicKey, err := crypto.FromBase64URL(payload.PublicKey)
	if err != nil {
		return KeyRecord{}, resp.StatusCode, fmt.Errorf("malformed public key in key response: %w", err)
	}
	if payload.Algorithm != AlgorithmMLDSA65 || len(publicKey) != crypto.SigPublicKeySize {
		return KeyRecord{}, resp.StatusCode, fmt.Errorf("unsupported key material for %q", payload.Algorithm)
	}

	return KeyRecord{PublicKey: publicKey, Algorithm: payload.Algorithm}, resp.StatusCode, nil
}
