package pake

import (
	"time"

	"github.com/bytemare/opaque"

	couriermesh "github.com/couriermesh/core-go"
)

// KeyMaterial is the per-deployment server key set: the AKE keypair and
// the OPRF seed every account's registration is bound to. Generated once
// when a server instance is provisioned and kept for its lifetime; losing
// it invalidates every stored registration record.
type KeyMaterial struct {
	// ServerID labels the deployment, normally with its hostname.
	// Informational only: exchanges bind to the AKE public key.
	ServerID []byte `json:"server_id"`
	// SecretKey is the server's AKE private key.
	SecretKey []byte `json:"secret_key"`
	// PublicKey is the server's AKE public key.
	PublicKey []byte `json:"public_key"`
	// OPRFSeed seeds the per-account OPRF keys.
	OPRFSeed []byte `json:"oprf_seed"`
}

// GenerateKeyMaterial creates fresh deployment key material.
func GenerateKeyMaterial(serverID string) (*KeyMaterial, error) {
	conf := suite()
	secretKey, publicKey := conf.KeyGen()
	return &KeyMaterial{
		ServerID:  []byte(serverID),
		SecretKey: secretKey,
		PublicKey: publicKey,
		OPRFSeed:  conf.GenerateOPRFSeed(),
	}, nil
}

// Server is the server side of the PAKE engine. One Server handles any
// number of concurrent exchanges; per-exchange state lives in the
// LoginState values it hands out, never in the Server itself.
type Server struct {
	km *KeyMaterial
}

// NewServer wraps deployment key material.
func NewServer(km *KeyMaterial) (*Server, error) {
	if km == nil || len(km.SecretKey) == 0 || len(km.PublicKey) == 0 || len(km.OPRFSeed) == 0 {
		return nil, &couriermesh.KeyError{Role: "server key material"}
	}
	return &Server{km: km}, nil
}

// PublicKey returns the server's AKE public key for publication.
func (s *Server) PublicKey() []byte { return s.km.PublicKey }

// RegisterRespond answers a client registration request. credentialID is
// the server's stable identifier for the account (not the handle the user
// types); the same value must be supplied again at login.
func (s *Server) RegisterRespond(request, credentialID []byte) ([]byte, error) {
	server, err := suite().Server()
	if err != nil {
		return nil, err
	}

	deserializer, err := suite().Deserializer()
	if err != nil {
		return nil, err
	}

	regRequest, err := deserializer.RegistrationRequest(request)
	if err != nil {
		return nil, &couriermesh.FormatError{Field: "registration request", Err: err}
	}

	serverPublicKey, err := deserializer.DecodeAkePublicKey(s.km.PublicKey)
	if err != nil {
		return nil, &couriermesh.KeyError{Role: "server key material", Err: err}
	}

	response := server.RegistrationResponse(regRequest, serverPublicKey, credentialID, s.km.OPRFSeed)
	return response.Serialize(), nil
}

// LoginState is the ephemeral server-side state of one in-flight login
// exchange. It is bound to exactly that exchange: completing it a second
// time fails, and it expires with the same bounded lifetime as client
// state.
type LoginState struct {
	server    *opaque.Server
	used      bool
	createdAt time.Time
}

// LoginRespond answers a client KE1 for the account whose registration
// record and credential identifier are supplied. The returned state must
// be retained (correlated to this session only) for LoginFinish.
func (s *Server) LoginRespond(ke1Bytes, credentialID, record []byte) ([]byte, *LoginState, error) {
	server, err := suite().Server()
	if err != nil {
		return nil, nil, err
	}

	// A nil identity makes both transcripts fall back to the server public
	// key; the client never sends an explicit server identity, so the two
	// sides must agree on that fallback.
	if err := server.SetKeyMaterial(nil, s.km.SecretKey, s.km.PublicKey, s.km.OPRFSeed); err != nil {
		return nil, nil, &couriermesh.KeyError{Role: "server key material", Err: err}
	}

	deserializer, err := suite().Deserializer()
	if err != nil {
		return nil, nil, err
	}

	ke1, err := deserializer.KE1(ke1Bytes)
	if err != nil {
		return nil, nil, &couriermesh.FormatError{Field: "login request", Err: err}
	}

	regRecord, err := deserializer.RegistrationRecord(record)
	if err != nil {
		return nil, nil, &couriermesh.FormatError{Field: "registration record", Err: err}
	}

	clientRecord := &opaque.ClientRecord{
		CredentialIdentifier: credentialID,
		RegistrationRecord:   regRecord,
	}

	ke2, err := server.LoginInit(ke1, clientRecord)
	if err != nil {
		return nil, nil, &couriermesh.FormatError{Field: "login request", Err: err}
	}

	state := &LoginState{server: server, createdAt: time.Now()}
	return ke2.Serialize(), state, nil
}

// LoginFinish verifies the client's finish message and returns the shared
// session key. The state is consumed whatever the outcome.
func (s *Server) LoginFinish(state *LoginState, finishMessage []byte) ([]byte, error) {
	return s.loginFinishAt(state, finishMessage, time.Now())
}

func (s *Server) loginFinishAt(state *LoginState, finishMessage []byte, now time.Time) ([]byte, error) {
	if state == nil || state.used || state.server == nil {
		return nil, couriermesh.ErrStateReused
	}
	state.used = true
	server := state.server
	state.server = nil

	if now.Sub(state.createdAt) > StateTTL {
		return nil, couriermesh.ErrStateExpired
	}

	deserializer, err := suite().Deserializer()
	if err != nil {
		return nil, couriermesh.ErrAuthentication
	}

	ke3, err := deserializer.KE3(finishMessage)
	if err != nil {
		return nil, couriermesh.ErrAuthentication
	}

	if err := server.LoginFinish(ke3); err != nil {
		return nil, couriermesh.ErrAuthentication
	}

	return server.SessionKey(), nil
}
