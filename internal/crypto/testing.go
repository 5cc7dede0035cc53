package crypto

import "io"

// randReader is the random source used for key and nonce generation.
// It defaults to nil (which uses crypto/rand) but can be overridden for testing.
var randReader io.Reader

// SetRandReaderForTesting sets the random reader used by key and nonce
// generation. Testing only. Returns a function restoring the original reader.
func SetRandReaderForTesting(r io.Reader) func() {
	original := randReader
	randReader = r
	return func() { randReader = original }
}
