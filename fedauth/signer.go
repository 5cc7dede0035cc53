package fedauth

import (
	"strings"

	couriermesh "github.com/couriermesh/core-go"
	"github.com/couriermesh/core-go/internal/crypto"
)

// Request header names carrying the federation authentication material.
const (
	// HeaderSenderHost carries the claimed origin host of a federated request.
	HeaderSenderHost = "X-Courier-Sender-Host"
	// HeaderSignature carries the base64url ML-DSA-65 signature over the
	// canonical request body.
	HeaderSignature = "X-Courier-Signature"
)

// Signer produces the authentication headers for outbound federated
// requests from this host.
type Signer struct {
	host       string
	privateKey []byte
}

// NewSigner creates a signer for the given host and its ML-DSA-65 private
// key.
func NewSigner(host string, privateKey []byte) (*Signer, error) {
	host = strings.ToLower(strings.TrimSpace(host))
	if !validHost(host) {
		return nil, &couriermesh.FormatError{Field: "sender host"}
	}
	if len(privateKey) != crypto.SigPrivateKeySize {
		return nil, &couriermesh.KeyError{Role: "host signing key", Err: crypto.ErrInvalidPrivateKeySize}
	}
	return &Signer{host: host, privateKey: privateKey}, nil
}

// Host returns the host name requests are signed as.
func (s *Signer) Host() string { return s.host }

// SignBody signs the canonical form of a JSON request body and returns the
// header values for HeaderSenderHost and HeaderSignature.
func (s *Signer) SignBody(body []byte) (host, signature string, err error) {
	canonical, err := CanonicalBody(body)
	if err != nil {
		return "", "", err
	}

	sig, err := crypto.Sign(s.privateKey, canonical)
	if err != nil {
		return "", "", &couriermesh.KeyError{Role: "host signing key", Err: err}
	}

	return s.host, crypto.ToBase64URL(sig), nil
}

// validHost applies a conservative hostname syntax check: non-empty,
// dot-separated labels of letters, digits and hyphens, with an optional
// numeric port.
func validHost(host string) bool {
	if name, port, ok := strings.Cut(host, ":"); ok {
		if port == "" || len(port) > 5 {
			return false
		}
		for _, r := range port {
			if r < '0' || r > '9' {
				return false
			}
		}
		host = name
	}
	if host == "" || len(host) > 253 {
		return false
	}
	for _, label := range strings.Split(host, ".") {
		if label == "" || len(label) > 63 {
			return false
		}
		for _, r := range label {
			switch {
			case r >= 'a' && r <= 'z':
			case r >= '0' && r <= '9':
			case r == '-':
			default:
				return false
			}
		}
		if label[0] == '-' || label[len(label)-1] == '-' {
			return false
		}
	}
	return true
}
