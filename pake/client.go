package pake

import (
	"time"

	"github.com/bytemare/opaque"

	couriermesh "github.com/couriermesh/core-go"
)

// ClientState is the opaque, single-use state a client holds between the
// two steps of a registration or login exchange. It is owned exclusively
// by the party that created it and is destroyed by the finish operation,
// successful or not.
type ClientState struct {
	client    *opaque.Client
	login     bool
	used      bool
	createdAt time.Time
}

// consume marks the state used, enforcing both single use and the bounded
// lifetime. now is injectable for tests via the finish variants below.
func (s *ClientState) consume(now time.Time) error {
	if s == nil || s.used || s.client == nil {
		return couriermesh.ErrStateReused
	}
	s.used = true
	if now.Sub(s.createdAt) > StateTTL {
		s.client = nil
		return couriermesh.ErrStateExpired
	}
	return nil
}

// RegisterInit begins account registration. The returned request is sent
// to the server; the state must be kept for RegisterFinish and nothing
// else.
func RegisterInit(password string) ([]byte, *ClientState, error) {
	if password == "" {
		return nil, nil, &couriermesh.FormatError{Field: "password"}
	}

	client, err := suite().Client()
	if err != nil {
		return nil, nil, err
	}

	request := client.RegistrationInit([]byte(password))
	state := &ClientState{client: client, createdAt: time.Now()}

	return request.Serialize(), state, nil
}

// RegisterFinish completes registration, producing the opaque registration
// record the server stores in place of any password hash. A server
// response that does not deserialize under the fixed suite fails with the
// protocol-format error.
func RegisterFinish(state *ClientState, serverResponse []byte) ([]byte, error) {
	return registerFinishAt(state, serverResponse, time.Now())
}

func registerFinishAt(state *ClientState, serverResponse []byte, now time.Time) ([]byte, error) {
	if err := state.consume(now); err != nil {
		return nil, err
	}
	if state.login {
		return nil, couriermesh.ErrStateReused
	}
	client := state.client
	state.client = nil

	deserializer, err := suite().Deserializer()
	if err != nil {
		return nil, err
	}

	response, err := deserializer.RegistrationResponse(serverResponse)
	if err != nil {
		return nil, &couriermesh.FormatError{Field: "registration response", Err: err}
	}

	record, _ := client.RegistrationFinalize(response)
	return record.Serialize(), nil
}

// LoginInit begins a login exchange.
func LoginInit(password string) ([]byte, *ClientState, error) {
	if password == "" {
		return nil, nil, &couriermesh.FormatError{Field: "password"}
	}

	client, err := suite().Client()
	if err != nil {
		return nil, nil, err
	}

	ke1 := client.LoginInit([]byte(password))
	state := &ClientState{client: client, login: true, createdAt: time.Now()}

	return ke1.Serialize(), state, nil
}

// LoginFinish completes a login exchange, returning the session key and
// the finish message the server needs to confirm the exchange. Every
// failure mode — wrong password, unknown account, malformed server
// message — returns the same generic authentication error so callers
// cannot tell which factor failed.
func LoginFinish(state *ClientState, serverResponse []byte) (sessionKey, finishMessage []byte, err error) {
	return loginFinishAt(state, serverResponse, time.Now())
}

func loginFinishAt(state *ClientState, serverResponse []byte, now time.Time) ([]byte, []byte, error) {
	if err := state.consume(now); err != nil {
		return nil, nil, err
	}
	if !state.login {
		return nil, nil, couriermesh.ErrStateReused
	}
	client := state.client
	state.client = nil

	deserializer, err := suite().Deserializer()
	if err != nil {
		return nil, nil, couriermesh.ErrAuthentication
	}

	ke2, err := deserializer.KE2(serverResponse)
	if err != nil {
		// Same shape as a password mismatch: a malformed response must not
		// reveal whether the account exists or the password was close.
		return nil, nil, couriermesh.ErrAuthentication
	}

	ke3, _, err := client.LoginFinish(ke2)
	if err != nil {
		return nil, nil, couriermesh.ErrAuthentication
	}

	return client.SessionKey(), ke3.Serialize(), nil
}
