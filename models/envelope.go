// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// CipherEnvelope is the public result of an encryption operation and the
// required input to a decryption operation. All three fields are base64url
// encoded without padding. Interop requires exact agreement on the cipher
// suite: PBKDF2-HMAC-SHA-256 with 100000 iterations, AES-256-GCM, a 16-byte
// salt and a 12-byte IV.
type CipherEnvelope struct {
	// Ciphertext is the base64url-encoded AES-GCM output (ciphertext ‖ tag).
	Ciphertext string

	// IV is the base64url-encoded 12-byte initialization vector.
	IV string

	// Salt is the base64url-encoded 16-byte key-derivation salt.
	Salt string
}
