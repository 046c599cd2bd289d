// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"io"

	"golang.org/x/crypto/pbkdf2"

	"github.com/MKhiriev/bvault/internal/codec"
	"github.com/MKhiriev/bvault/models"
)

// cryptoService is the private implementation of [Service].
type cryptoService struct {
	// Cipher-suite parameters. Stored in the struct so a future suite can
	// be configured at construction time; the wire format interoperates
	// only with [DefaultParams].
	params Params
}

// NewService constructs a [Service] using the given cipher-suite parameters.
// Use [DefaultParams] unless a deliberate compatibility break is intended.
func NewService(params Params) Service {
	return &cryptoService{params: params}
}

// NewDefaultService constructs a [Service] with [DefaultParams].
func NewDefaultService() Service {
	return NewService(DefaultParams())
}

// GenerateSalt implements [Service]. It reads SaltLen random bytes from the
// OS CSPRNG. Returns an error if the random read fails.
func (c *cryptoService) GenerateSalt() ([]byte, error) {
	salt := make([]byte, c.params.SaltLen)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, err
	}
	return salt, nil
}

// DeriveKey implements [Service]. It stretches password into a KeyLen-byte
// key via PBKDF2 with the configured PRF hash and iteration count. The usage
// argument records the single purpose the key may serve; the key bytes
// themselves are identical for both usages, matching the envelope format.
func (c *cryptoService) DeriveKey(password string, salt []byte, usage KeyUsage) ([]byte, error) {
	_ = usage
	if len(salt) == 0 {
		return nil, ErrInvalidSalt
	}
	return pbkdf2.Key([]byte(password), salt, c.params.Iterations, c.params.KeyLen, c.params.Hash), nil
}

// Encrypt implements [Service]. A fresh salt and a fresh IV are generated on
// every call, so encrypting the same plaintext twice with the same password
// yields unrelated envelopes. All failures collapse into [ErrEncrypt].
func (c *cryptoService) Encrypt(plaintext, password string) (models.CipherEnvelope, error) {
	salt, err := c.GenerateSalt()
	if err != nil {
		return models.CipherEnvelope{}, ErrEncrypt
	}

	key, err := c.DeriveKey(password, salt, UsageEncrypt)
	if err != nil {
		return models.CipherEnvelope{}, ErrEncrypt
	}

	gcm, err := newGCM(key, c.params.IVLen)
	if err != nil {
		return models.CipherEnvelope{}, ErrEncrypt
	}

	iv := make([]byte, c.params.IVLen)
	if _, err = io.ReadFull(rand.Reader, iv); err != nil {
		return models.CipherEnvelope{}, ErrEncrypt
	}

	ciphertext := gcm.Seal(nil, iv, codec.EncodeText(plaintext), nil)

	return models.CipherEnvelope{
		Ciphertext: codec.EncodeBase64URL(ciphertext),
		IV:         codec.EncodeBase64URL(iv),
		Salt:       codec.EncodeBase64URL(salt),
	}, nil
}

// Decrypt implements [Service]. GCM authenticates ciphertext integrity as an
// inherent property of the mode: any bit-level tampering of ciphertext, IV or
// salt causes an authentication failure. Every failure path returns the bare
// [ErrDecrypt] so the error carries no oracle information.
func (c *cryptoService) Decrypt(ciphertextB64, password, ivB64, saltB64 string) (string, error) {
	ciphertext, err := codec.DecodeBase64URL(ciphertextB64)
	if err != nil {
		return "", ErrDecrypt
	}
	iv, err := codec.DecodeBase64URL(ivB64)
	if err != nil {
		return "", ErrDecrypt
	}
	salt, err := codec.DecodeBase64URL(saltB64)
	if err != nil {
		return "", ErrDecrypt
	}

	if len(iv) != c.params.IVLen {
		return "", ErrDecrypt
	}

	key, err := c.DeriveKey(password, salt, UsageDecrypt)
	if err != nil {
		return "", ErrDecrypt
	}

	gcm, err := newGCM(key, c.params.IVLen)
	if err != nil {
		return "", ErrDecrypt
	}

	plaintext, err := gcm.Open(nil, iv, ciphertext, nil)
	if err != nil {
		return "", ErrDecrypt
	}

	text, err := codec.DecodeText(plaintext)
	if err != nil {
		return "", ErrDecrypt
	}

	return text, nil
}

// DecryptEnvelope is the synchronous single-call decrypt entry point for
// callers that do not hold a [Service]: same inputs, same error taxonomy and
// same output as [Service.Decrypt] with [DefaultParams].
func DecryptEnvelope(ciphertextB64, password, ivB64, saltB64 string) (string, error) {
	return NewDefaultService().Decrypt(ciphertextB64, password, ivB64, saltB64)
}

// newGCM builds an AES-GCM AEAD from the given key with the given nonce size.
func newGCM(key []byte, ivLen int) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCMWithNonceSize(block, ivLen)
}
