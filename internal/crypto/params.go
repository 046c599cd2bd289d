package crypto

import (
	"crypto/sha256"
	"hash"
)

// Params groups the cipher-suite and KDF constants of the envelope format.
// They are modeled as an explicit value rather than hard-wired constants so
// that a future suite can be introduced without touching the service
// contracts, but the wire format is only interoperable with [DefaultParams]:
// changing any field breaks compatibility with existing envelopes.
type Params struct {
	// Iterations is the PBKDF2 iteration count.
	Iterations int

	// KeyLen is the derived key length in bytes (32 for AES-256).
	KeyLen int

	// SaltLen is the generated salt length in bytes.
	SaltLen int

	// IVLen is the AES-GCM initialization vector length in bytes.
	IVLen int

	// Hash constructs the PBKDF2 PRF hash.
	Hash func() hash.Hash
}

// DefaultParams returns the fixed production suite:
// PBKDF2-HMAC-SHA-256 with 100000 iterations deriving a 256-bit key,
// a 16-byte salt and a 12-byte IV. The salt and IV sizes are the standard
// sizes for this cipher/KDF pairing and must not be changed independently
// of each other.
func DefaultParams() Params {
	return Params{
		Iterations: 100_000,
		KeyLen:     32, // 256 bits
		SaltLen:    16,
		IVLen:      12,
		Hash:       sha256.New,
	}
}
