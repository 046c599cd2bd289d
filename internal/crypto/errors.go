package crypto

import "errors"

// Sentinel errors returned by [Service] methods. Callers should use
// [errors.Is] to match against these values.
var (
	// ErrEncrypt is returned when key derivation or the cipher-encrypt
	// operation fails. The underlying cause is not attached beyond the
	// generic message.
	ErrEncrypt = errors.New("encryption failed")

	// ErrDecrypt is returned on any decryption failure: malformed base64,
	// wrong IV length, authentication-tag mismatch, wrong password or
	// invalid UTF-8 in the decrypted bytes. The causes are never
	// distinguished, so callers cannot be used as a padding/tag oracle.
	ErrDecrypt = errors.New("decryption failed")

	// ErrInvalidSalt is returned by DeriveKey when the provided salt is empty.
	ErrInvalidSalt = errors.New("salt must not be empty")
)
