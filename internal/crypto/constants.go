package crypto

const (
	// TransitContext is the HKDF domain-separation string for transit
	// envelope key derivation.
	TransitContext = "couriermesh:transit:v1"

	// AuthHashContext is the HKDF domain-separation string that turns the
	// master key into the server-side auth hash. The derivation is one-way:
	// the auth hash reveals nothing about the master key.
	AuthHashContext = "couriermesh:authhash:v1"

	// KEMPublicKeySize is the size of an ML-KEM-768 public key in bytes.
	KEMPublicKeySize = 1184
	// KEMPrivateKeySize is the size of an ML-KEM-768 private key in bytes.
	KEMPrivateKeySize = 2400
	// KEMCiphertextSize is the size of an ML-KEM-768 ciphertext in bytes.
	KEMCiphertextSize = 1088
	// KEMSharedKeySize is the size of the shared secret from ML-KEM-768 in bytes.
	KEMSharedKeySize = 32
	// KEMSeedSize is the size of an ML-KEM-768 key-generation seed in bytes.
	KEMSeedSize = 64
	// KEMEncapsulationSeedSize is the size of a derandomized encapsulation
	// seed in bytes. Only conformance vectors use it.
	KEMEncapsulationSeedSize = 32

	// SigPublicKeySize is the size of an ML-DSA-65 public key in bytes.
	SigPublicKeySize = 1952
	// SigPrivateKeySize is the size of an ML-DSA-65 private key in bytes.
	SigPrivateKeySize = 4032
	// SignatureSize is the size of an ML-DSA-65 signature in bytes.
	SignatureSize = 3309
	// SigSeedSize is the size of an ML-DSA-65 key-generation seed in bytes.
	SigSeedSize = 32

	// AEADKeySize is the size of an AES-256 key in bytes.
	AEADKeySize = 32
	// AEADNonceSize is the size of an AES-GCM nonce in bytes.
	AEADNonceSize = 12
	// AEADTagSize is the size of an AES-GCM authentication tag in bytes.
	AEADTagSize = 16

	// MasterKeySize is the size of the Argon2id-derived master key in bytes.
	MasterKeySize = 32
	// AuthHashSize is the size of the derived auth hash in bytes.
	AuthHashSize = 32
	// KDFSaltSize is the size of the per-account Argon2id salt in bytes.
	KDFSaltSize = 16

	// kemPublicKeyOffset is the byte offset where the public key is embedded
	// within a packed ML-KEM-768 private key.
	kemPublicKeyOffset = 1152
)

// Ciphersuite is the canonical string naming the fixed algorithm suite.
// It participates in signed transcripts so artifacts cannot migrate
// between suites.
var Ciphersuite = "ML-KEM-768:ML-DSA-65:AES-256-GCM:HKDF-SHA-512"
