package fedauth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	couriermesh "github.com/couriermesh/core-go"
	"github.com/couriermesh/core-go/internal/crypto"
)

type staticFetcher struct {
	keys  map[string]KeyRecord
	err   error
	calls int
}

func (f *staticFetcher) FetchPublicKey(_ context.Context, host string) (KeyRecord, error) {
	f.calls++
	if f.err != nil {
		return KeyRecord{}, f.err
	}
	record, ok := f.keys[host]
	if !ok {
		return KeyRecord{}, fmt.Errorf("no key for %q", host)
	}
	return record, nil
}

// newSignedRequest produces a fully valid federated request signed by a
// fresh host keypair, plus a fetcher that serves the matching key.
func newSignedRequest(t *testing.T, host string, body []byte) (Request, *staticFetcher) {
	t.Helper()

	keypair, err := crypto.GenerateSigKeypair()
	if err != nil {
		t.Fatalf("GenerateSigKeypair() error = %v", err)
	}

	signer, err := NewSigner(host, keypair.PrivateKey)
	if err != nil {
		t.Fatalf("NewSigner() error = %v", err)
	}
	senderHost, signature, err := signer.SignBody(body)
	if err != nil {
		t.Fatalf("SignBody() error = %v", err)
	}

	fetcher := &staticFetcher{keys: map[string]KeyRecord{
		host: {PublicKey: keypair.PublicKey, Algorithm: AlgorithmMLDSA65},
	}}
	return Request{
		SenderHost: senderHost,
		Signature:  signature,
		Body:       body,
	}, fetcher
}

func TestAuthenticateAcceptsValidRequest(t *testing.T) {
	t.Parallel()

	body := []byte(`{"recipient":"alice@relay.example","payload":"aGVsbG8"}`)
	req, fetcher := newSignedRequest(t, "peer.example", body)

	auth, err := New(fetcher)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := auth.Authenticate(context.Background(), req); err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}
	if HTTPStatus(nil) != http.StatusOK {
		t.Errorf("HTTPStatus(nil) = %d, want 200", HTTPStatus(nil))
	}
}

func TestAuthenticateSurvivesBodyReformatting(t *testing.T) {
	t.Parallel()

	// The receiver sees a reserialized body with different whitespace and
	// key order; the signature must still verify.
	req, fetcher := newSignedRequest(t, "peer.example",
		[]byte(`{"payload":"aGk","recipient":"alice@relay.example"}`))
	req.Body = []byte("{ \"recipient\": \"alice@relay.example\",\n  \"payload\": \"aGk\" }")

	auth, err := New(fetcher)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := auth.Authenticate(context.Background(), req); err != nil {
		t.Errorf("Authenticate() on reformatted body error = %v", err)
	}
}

func TestAuthenticateRejections(t *testing.T) {
	t.Parallel()

	body := []byte(`{"recipient":"alice@relay.example","payload":"aGk"}`)

	tests := []struct {
		name       string
		mutate     func(*Request, *staticFetcher)
		wantStatus int
		wantIs     error
	}{
		{
			name:       "missing sender host",
			mutate:     func(r *Request, _ *staticFetcher) { r.SenderHost = "" },
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "missing signature",
			mutate:     func(r *Request, _ *staticFetcher) { r.Signature = "" },
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "malformed sender host",
			mutate:     func(r *Request, _ *staticFetcher) { r.SenderHost = "not_a_host!" },
			wantStatus: http.StatusBadRequest,
			wantIs:     couriermesh.ErrProtocolFormat,
		},
		{
			name:       "handle host mismatch",
			mutate:     func(r *Request, _ *staticFetcher) { r.SenderHandle = "mallory@other.example" },
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "malformed handle",
			mutate:     func(r *Request, _ *staticFetcher) { r.SenderHandle = "no-at-sign" },
			wantStatus: http.StatusBadRequest,
			wantIs:     couriermesh.ErrProtocolFormat,
		},
		{
			name:       "handle missing local part",
			mutate:     func(r *Request, _ *staticFetcher) { r.SenderHandle = "@peer.example" },
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "signature not base64",
			mutate:     func(r *Request, _ *staticFetcher) { r.Signature = "%%%" },
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "signature truncated",
			mutate:     func(r *Request, _ *staticFetcher) { r.Signature = r.Signature[:len(r.Signature)-8] },
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "unparsable body",
			mutate:     func(r *Request, _ *staticFetcher) { r.Body = []byte(`{"recipient":`) },
			wantStatus: http.StatusBadRequest,
			wantIs:     couriermesh.ErrProtocolFormat,
		},
		{
			name:       "key fetch failure",
			mutate:     func(_ *Request, f *staticFetcher) { f.err = errors.New("directory unreachable") },
			wantStatus: http.StatusUnauthorized,
			wantIs:     couriermesh.ErrKeyFetch,
		},
		{
			name: "unknown algorithm",
			mutate: func(r *Request, f *staticFetcher) {
				record := f.keys[r.SenderHost]
				record.Algorithm = "Ed25519"
				f.keys[r.SenderHost] = record
			},
			wantStatus: http.StatusUnauthorized,
			wantIs:     couriermesh.ErrMalformedKey,
		},
		{
			name: "tampered body",
			mutate: func(r *Request, _ *staticFetcher) {
				r.Body = []byte(`{"recipient":"mallory@relay.example","payload":"aGk"}`)
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "key for wrong identity",
			mutate: func(r *Request, f *staticFetcher) {
				other, err := crypto.GenerateSigKeypair()
				if err != nil {
					panic(err)
				}
				f.keys[r.SenderHost] = KeyRecord{PublicKey: other.PublicKey, Algorithm: AlgorithmMLDSA65}
			},
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req, fetcher := newSignedRequest(t, "peer.example", body)
			tt.mutate(&req, fetcher)

			auth, err := New(fetcher)
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}

			err = auth.Authenticate(context.Background(), req)
			if err == nil {
				t.Fatal("Authenticate() = nil, want rejection")
			}
			if got := HTTPStatus(err); got != tt.wantStatus {
				t.Errorf("HTTPStatus() = %d, want %d", got, tt.wantStatus)
			}
			if tt.wantIs != nil && !errors.Is(err, tt.wantIs) {
				t.Errorf("Authenticate() error = %v, want errors.Is %v", err, tt.wantIs)
			}
		})
	}
}

func TestAuthenticateAcceptsMatchingHandle(t *testing.T) {
	t.Parallel()

	req, fetcher := newSignedRequest(t, "peer.example", []byte(`{"op":"deliver"}`))
	req.SenderHandle = "Bob@Peer.Example" // handle comparison is case-insensitive

	auth, err := New(fetcher)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := auth.Authenticate(context.Background(), req); err != nil {
		t.Errorf("Authenticate() with matching handle error = %v", err)
	}
}

func TestAuthenticateDetectsReplay(t *testing.T) {
	t.Parallel()

	req, fetcher := newSignedRequest(t, "peer.example", []byte(`{"op":"deliver","seq":1}`))

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	auth, err := New(fetcher,
		WithReplayWindow(5*time.Minute),
		WithClock(func() time.Time { return now }))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := auth.Authenticate(context.Background(), req); err != nil {
		t.Fatalf("first Authenticate() error = %v", err)
	}

	err = auth.Authenticate(context.Background(), req)
	if !errors.Is(err, couriermesh.ErrReplayDetected) {
		t.Fatalf("replayed Authenticate() error = %v, want ErrReplayDetected", err)
	}
	if got := HTTPStatus(err); got != http.StatusConflict {
		t.Errorf("HTTPStatus() = %d, want 409", got)
	}

	// After the window the identical request is a new request.
	now = now.Add(5 * time.Minute)
	if err := auth.Authenticate(context.Background(), req); err != nil {
		t.Errorf("Authenticate() after replay window error = %v", err)
	}
}

func TestAuthenticateReplayIgnoresFormatting(t *testing.T) {
	t.Parallel()

	// A replay with different body whitespace hits the same digest because
	// the digest covers the canonical form.
	req, fetcher := newSignedRequest(t, "peer.example",
		[]byte(`{"op":"deliver","seq":2}`))

	auth, err := New(fetcher)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := auth.Authenticate(context.Background(), req); err != nil {
		t.Fatalf("first Authenticate() error = %v", err)
	}

	req.Body = []byte(`{ "op": "deliver", "seq": 2 }`)
	if err := auth.Authenticate(context.Background(), req); !errors.Is(err, couriermesh.ErrReplayDetected) {
		t.Errorf("reformatted replay error = %v, want ErrReplayDetected", err)
	}
}

func TestAuthenticateRateLimit(t *testing.T) {
	t.Parallel()

	req, fetcher := newSignedRequest(t, "peer.example", []byte(`{"op":"deliver","seq":3}`))

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	auth, err := New(fetcher, WithRateLimit(1, 1), WithClock(clock))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := auth.Authenticate(context.Background(), req); err != nil {
		t.Fatalf("first Authenticate() error = %v", err)
	}

	// The burst is spent; an immediate second request from the same host is
	// throttled before any key fetch or verification happens.
	calls := fetcher.calls
	err = auth.Authenticate(context.Background(), req)
	if !errors.Is(err, couriermesh.ErrRateLimited) {
		t.Fatalf("throttled Authenticate() error = %v, want ErrRateLimited", err)
	}
	if got := HTTPStatus(err); got != http.StatusTooManyRequests {
		t.Errorf("HTTPStatus() = %d, want 429", got)
	}
	if fetcher.calls != calls {
		t.Errorf("throttled request reached the key fetcher (%d calls)", fetcher.calls-calls)
	}
}

func TestNewRequiresFetcher(t *testing.T) {
	t.Parallel()

	if _, err := New(nil); err == nil {
		t.Error("New(nil) = nil error, want error")
	}
}

func TestHTTPStatusUnknownError(t *testing.T) {
	t.Parallel()

	if got := HTTPStatus(errors.New("boom")); got != http.StatusInternalServerError {
		t.Errorf("HTTPStatus(plain error) = %d, want 500", got)
	}
}

func TestSignerRejectsBadInputs(t *testing.T) {
	t.Parallel()

	keypair, err := crypto.GenerateSigKeypair()
	if err != nil {
		t.Fatalf("GenerateSigKeypair() error = %v", err)
	}

	if _, err := NewSigner("bad host!", keypair.PrivateKey); !errors.Is(err, couriermesh.ErrProtocolFormat) {
		t.Errorf("NewSigner(bad host) error = %v, want ErrProtocolFormat", err)
	}
	if _, err := NewSigner("peer.example", keypair.PrivateKey[:10]); !errors.Is(err, couriermesh.ErrMalformedKey) {
		t.Errorf("NewSigner(short key) error = %v, want ErrMalformedKey", err)
	}

	signer, err := NewSigner("Peer.Example", keypair.PrivateKey)
	if err != nil {
		t.Fatalf("NewSigner() error = %v", err)
	}
	if signer.Host() != "peer.example" {
		t.Errorf("Host() = %q, want lowercased host", signer.Host())
	}
	if _, _, err := signer.SignBody([]byte("not json")); !errors.Is(err, couriermesh.ErrProtocolFormat) {
		t.Errorf("SignBody(non-JSON) error = %v, want ErrProtocolFormat", err)
	}
}
