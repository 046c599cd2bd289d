package crypto

import (
	"bytes"
	"errors"
	"testing"

	"github.com/MKhiriev/bvault/internal/codec"
)

func TestGenerateSalt_LengthAndRandomness(t *testing.T) {
	svc := NewDefaultService()

	s1, err := svc.GenerateSalt()
	if err != nil {
		t.Fatalf("GenerateSalt error: %v", err)
	}
	s2, err := svc.GenerateSalt()
	if err != nil {
		t.Fatalf("GenerateSalt error: %v", err)
	}

	if len(s1) != 16 {
		t.Fatalf("salt length = %d, want 16", len(s1))
	}
	if len(s2) != 16 {
		t.Fatalf("salt length = %d, want 16", len(s2))
	}
	if bytes.Equal(s1, s2) {
		t.Fatalf("expected salts to differ, but they are equal")
	}
}

func TestDeriveKey_DeterministicForSameInputs(t *testing.T) {
	svc := NewDefaultService()

	password := "correct horse battery staple"
	salt := bytes.Repeat([]byte{0xAB}, 16)

	k1, err := svc.DeriveKey(password, salt, UsageEncrypt)
	if err != nil {
		t.Fatalf("DeriveKey error: %v", err)
	}
	k2, err := svc.DeriveKey(password, salt, UsageDecrypt)
	if err != nil {
		t.Fatalf("DeriveKey error: %v", err)
	}

	if len(k1) != 32 {
		t.Fatalf("key length = %d, want 32", len(k1))
	}
	// Usage restricts purpose, not key material: the envelope format
	// requires encrypt and decrypt keys derived from the same salt to match.
	if !bytes.Equal(k1, k2) {
		t.Fatalf("expected keys to match for same password+salt")
	}
}

func TestDeriveKey_DifferentSaltProducesDifferentKey(t *testing.T) {
	svc := NewDefaultService()

	password := "same password"
	salt1 := bytes.Repeat([]byte{0x01}, 16)
	salt2 := bytes.Repeat([]byte{0x02}, 16)

	k1, err := svc.DeriveKey(password, salt1, UsageEncrypt)
	if err != nil {
		t.Fatalf("DeriveKey error: %v", err)
	}
	k2, err := svc.DeriveKey(password, salt2, UsageEncrypt)
	if err != nil {
		t.Fatalf("DeriveKey error: %v", err)
	}

	if bytes.Equal(k1, k2) {
		t.Fatalf("expected different keys for different salts")
	}
}

func TestDeriveKey_EmptySalt(t *testing.T) {
	svc := NewDefaultService()

	_, err := svc.DeriveKey("pw", nil, UsageEncrypt)
	if !errors.Is(err, ErrInvalidSalt) {
		t.Fatalf("expected ErrInvalidSalt, got %v", err)
	}
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	svc := NewDefaultService()

	plaintexts := []string{
		"",
		"hello world",
		`{"x":1}`,
		"пароль с юникодом 🔐",
	}

	for _, plaintext := range plaintexts {
		env, err := svc.Encrypt(plaintext, "pa$$word")
		if err != nil {
			t.Fatalf("Encrypt(%q) error: %v", plaintext, err)
		}

		got, err := svc.Decrypt(env.Ciphertext, "pa$$word", env.IV, env.Salt)
		if err != nil {
			t.Fatalf("Decrypt(%q) error: %v", plaintext, err)
		}
		if got != plaintext {
			t.Errorf("round-trip mismatch: got %q, want %q", got, plaintext)
		}
	}
}

func TestEncrypt_FreshSaltAndIVPerCall(t *testing.T) {
	svc := NewDefaultService()

	env1, err := svc.Encrypt("same plaintext", "same password")
	if err != nil {
		t.Fatalf("Encrypt error: %v", err)
	}
	env2, err := svc.Encrypt("same plaintext", "same password")
	if err != nil {
		t.Fatalf("Encrypt error: %v", err)
	}

	if env1.IV == env2.IV {
		t.Errorf("expected different IVs for two encryptions")
	}
	if env1.Salt == env2.Salt {
		t.Errorf("expected different salts for two encryptions")
	}
	if env1.Ciphertext == env2.Ciphertext {
		t.Errorf("expected different ciphertexts for two encryptions")
	}
}

func TestEncrypt_EnvelopeComponentSizes(t *testing.T) {
	svc := NewDefaultService()

	env, err := svc.Encrypt("payload", "pw")
	if err != nil {
		t.Fatalf("Encrypt error: %v", err)
	}

	iv, err := codec.DecodeBase64URL(env.IV)
	if err != nil {
		t.Fatalf("IV is not valid base64url: %v", err)
	}
	salt, err := codec.DecodeBase64URL(env.Salt)
	if err != nil {
		t.Fatalf("salt is not valid base64url: %v", err)
	}

	if len(iv) != 12 {
		t.Errorf("IV length = %d, want 12", len(iv))
	}
	if len(salt) != 16 {
		t.Errorf("salt length = %d, want 16", len(salt))
	}
}

func TestDecrypt_WrongPassword(t *testing.T) {
	svc := NewDefaultService()

	env, err := svc.Encrypt("secret", "right password")
	if err != nil {
		t.Fatalf("Encrypt error: %v", err)
	}

	_, err = svc.Decrypt(env.Ciphertext, "wrong password", env.IV, env.Salt)
	if !errors.Is(err, ErrDecrypt) {
		t.Fatalf("expected ErrDecrypt, got %v", err)
	}
}

func TestDecrypt_TamperSensitivity(t *testing.T) {
	svc := NewDefaultService()

	env, err := svc.Encrypt("secret", "pw")
	if err != nil {
		t.Fatalf("Encrypt error: %v", err)
	}

	// Flip one bit in each envelope component in turn; GCM authentication
	// must reject all three.
	flipBit := func(b64 string) string {
		raw, decErr := codec.DecodeBase64URL(b64)
		if decErr != nil {
			t.Fatalf("decode envelope component: %v", decErr)
		}
		raw[0] ^= 0x01
		return codec.EncodeBase64URL(raw)
	}

	cases := []struct {
		name       string
		ciphertext string
		iv         string
		salt       string
	}{
		{"tampered ciphertext", flipBit(env.Ciphertext), env.IV, env.Salt},
		{"tampered iv", env.Ciphertext, flipBit(env.IV), env.Salt},
		{"tampered salt", env.Ciphertext, env.IV, flipBit(env.Salt)},
	}

	for _, tc := range cases {
		_, err = svc.Decrypt(tc.ciphertext, "pw", tc.iv, tc.salt)
		if !errors.Is(err, ErrDecrypt) {
			t.Errorf("%s: expected ErrDecrypt, got %v", tc.name, err)
		}
	}
}

func TestDecrypt_MalformedInputs(t *testing.T) {
	svc := NewDefaultService()

	env, err := svc.Encrypt("secret", "pw")
	if err != nil {
		t.Fatalf("Encrypt error: %v", err)
	}

	cases := []struct {
		name       string
		ciphertext string
		iv         string
		salt       string
	}{
		{"bad base64 ciphertext", "%%%not-base64%%%", env.IV, env.Salt},
		{"bad base64 iv", env.Ciphertext, "%%%", env.Salt},
		{"bad base64 salt", env.Ciphertext, env.IV, "%%%"},
		{"short iv", env.Ciphertext, codec.EncodeBase64URL([]byte{1, 2, 3}), env.Salt},
	}

	for _, tc := range cases {
		_, err = svc.Decrypt(tc.ciphertext, "pw", tc.iv, tc.salt)
		if !errors.Is(err, ErrDecrypt) {
			t.Errorf("%s: expected ErrDecrypt, got %v", tc.name, err)
		}
	}
}

func TestDecryptEnvelope_MirrorsServiceDecrypt(t *testing.T) {
	svc := NewDefaultService()

	env, err := svc.Encrypt("shared contract", "pw")
	if err != nil {
		t.Fatalf("Encrypt error: %v", err)
	}

	got, err := DecryptEnvelope(env.Ciphertext, "pw", env.IV, env.Salt)
	if err != nil {
		t.Fatalf("DecryptEnvelope error: %v", err)
	}
	if got != "shared contract" {
		t.Fatalf("DecryptEnvelope = %q, want %q", got, "shared contract")
	}

	_, err = DecryptEnvelope(env.Ciphertext, "wrong", env.IV, env.Salt)
	if !errors.Is(err, ErrDecrypt) {
		t.Fatalf("expected ErrDecrypt for wrong password, got %v", err)
	}
}
