package fedauth

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"

	couriermesh "github.com/couriermesh/core-go"
)

// CanonicalBody reduces a JSON request body to its canonical byte form:
// object keys sorted, insignificant whitespace removed, numeric literals
// preserved verbatim. Signer and verifier both run the body through this
// before touching the signature, so formatting differences between HTTP
// stacks cannot break verification.
func CanonicalBody(body []byte) ([]byte, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, &couriermesh.FormatError{Field: "request body", Err: err}
	}
	// Reject trailing content after the JSON value.
	if err := checkEOF(dec); err != nil {
		return nil, &couriermesh.FormatError{Field: "request body", Err: err}
	}

	canonical, err := json.Marshal(v)
	if err != nil {
		return nil, &couriermesh.FormatError{Field: "request body", Err: err}
	}
	return canonical, nil
}

func checkEOF(dec *json.Decoder) error {
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errors.New("trailing data after JSON body")
	}
	return nil
}
