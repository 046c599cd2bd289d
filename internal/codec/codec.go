// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package codec provides the pure text⇄bytes and bytes⇄base64url conversions
// used by the encryption envelope. All functions are stateless; decode
// functions fail with typed errors on malformed input.
package codec

import (
	"encoding/base64"
	"errors"
	"fmt"
	"unicode/utf8"
)

var (
	// ErrMalformedBase64 is returned when a base64url string cannot be decoded.
	ErrMalformedBase64 = errors.New("malformed base64url input")

	// ErrInvalidUTF8 is returned when decrypted bytes do not form a valid
	// UTF-8 string.
	ErrInvalidUTF8 = errors.New("invalid utf-8 sequence")
)

// EncodeText converts a string to its UTF-8 byte representation.
func EncodeText(s string) []byte {
	return []byte(s)
}

// DecodeText converts UTF-8 bytes back to a string. It fails with
// [ErrInvalidUTF8] if b is not valid UTF-8.
func DecodeText(b []byte) (string, error) {
	if !utf8.Valid(b) {
		return "", ErrInvalidUTF8
	}
	return string(b), nil
}

// EncodeBase64URL encodes bytes to URL-safe base64 without padding.
func EncodeBase64URL(data []byte) string {
	return base64.RawURLEncoding.EncodeToString(data)
}

// DecodeBase64URL decodes unpadded URL-safe base64 to bytes. Decode failures
// are wrapped in [ErrMalformedBase64].
func DecodeBase64URL(s string) ([]byte, error) {
	data, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedBase64, err)
	}
	return data, nil
}
