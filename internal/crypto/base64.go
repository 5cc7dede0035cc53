package crypto

import "encoding/base64"

// ToBase64URL encodes bytes as URL-safe base64 without padding
// (RFC 4648 §5). All protocol fields on text transports use this form.
func ToBase64URL(data []byte) string {
	return base64.RawURLEncoding.EncodeToString(data)
}

// FromBase64URL decodes URL-safe base64 without padding.
func FromBase64URL(s string) ([]byte, error) {
	return base64.RawURLEncoding.DecodeString(s)
}

// DecodeBase64 decodes base64 produced by any common encoder. Peer
// implementations differ on padding and alphabet, so inbound fields are
// decoded leniently; outbound fields always use [ToBase64URL].
func DecodeBase64(s string) ([]byte, error) {
	if data, err := base64.RawURLEncoding.DecodeString(s); err == nil {
		return data, nil
	}
	if data, err := base64.URLEncoding.DecodeString(s); err == nil {
		return data, nil
	}
	if data, err := base64.RawStdEncoding.DecodeString(s); err == nil {
		return data, nil
	}
	return base64.StdEncoding.DecodeString(s)
}
