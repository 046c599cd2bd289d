package crypto

//go:generate mockgen -source=interfaces.go -destination=../mock/crypto_service_mock.go -package=mock

import "github.com/MKhiriev/bvault/models"

// KeyUsage restricts a derived key to a single cryptographic purpose.
// A key derived for encryption must not be handed to a decrypt call and
// vice versa; the usage is fixed at derivation time.
type KeyUsage int

const (
	// UsageEncrypt marks a key derived for AES-GCM encryption.
	UsageEncrypt KeyUsage = iota

	// UsageDecrypt marks a key derived for AES-GCM decryption.
	UsageDecrypt
)

// Service is the password-derived authenticated-encryption capability of
// bvault. It knows nothing about storage or sessions; its only job is to
// derive keys and transform plaintext to envelopes and back.
//
// Scheme:
//
//	salt = GenerateSalt()                          (fresh per encryption)
//	key  = DeriveKey(password, salt, usage)        (PBKDF2-HMAC-SHA-256)
//	env  = Encrypt(plaintext, password)            (AES-256-GCM, fresh IV)
//	text = Decrypt(env.Ciphertext, password, env.IV, env.Salt)
type Service interface {
	// GenerateSalt returns cryptographically secure random salt bytes,
	// fresh on every call. The salt is not a secret; it exists so that the
	// same password never yields the same key twice.
	GenerateSalt() ([]byte, error)

	// DeriveKey stretches password into a 256-bit key using
	// PBKDF2-HMAC-SHA-256 with the service's fixed iteration count and the
	// given salt. The returned key is restricted to the requested usage.
	DeriveKey(password string, salt []byte, usage KeyUsage) ([]byte, error)

	// Encrypt generates a fresh salt and IV, derives an encrypt-only key
	// and runs AES-256-GCM over the UTF-8 bytes of plaintext. All envelope
	// fields are base64url encoded without padding. Any failure surfaces
	// as [ErrEncrypt] without exposing the underlying cause.
	Encrypt(plaintext, password string) (models.CipherEnvelope, error)

	// Decrypt reverses Encrypt given the envelope components. Bad base64,
	// a wrong IV length, an authentication-tag mismatch, a wrong password
	// and invalid UTF-8 in the decrypted bytes all fail identically with
	// [ErrDecrypt]; no partial output is ever returned.
	Decrypt(ciphertextB64, password, ivB64, saltB64 string) (string, error)
}
