package identity

import (
	"encoding/binary"
)

// SignaturePrefix is the versioned protocol tag every signature payload
// starts with. Bumping the protocol version changes this literal, so
// signatures can never be replayed across protocol versions.
const SignaturePrefix = "couriermesh:msg:v1"

// BuildSignaturePayload canonicalizes a message into the exact byte
// sequence that is signed and verified. Layout:
//
//	prefix || len(handle) || handle || len(content) || content || idFlag [|| len(id) || id]
//
// with 4-byte big-endian lengths and a one-byte presence flag for the
// optional message ID. Verification must run against this serialization
// and nothing else; a reimplementation that reorders or reformats fields
// is a protocol bug, not a tolerable signature failure.
func BuildSignaturePayload(senderHandle string, content []byte, messageID string) []byte {
	size := len(SignaturePrefix) + 4 + len(senderHandle) + 4 + len(content) + 1
	if messageID != "" {
		size += 4 + len(messageID)
	}

	payload := make([]byte, 0, size)
	payload = append(payload, SignaturePrefix...)
	payload = appendField(payload, []byte(senderHandle))
	payload = appendField(payload, content)

	if messageID == "" {
		payload = append(payload, 0)
	} else {
		payload = append(payload, 1)
		payload = appendField(payload, []byte(messageID))
	}

	return payload
}

func appendField(payload, field []byte) []byte {
	var length [4]byte
	binary.BigEndian.PutUint32(length[:], uint32(len(field)))
	payload = append(payload, length[:]...)
	return append(payload, field...)
}
