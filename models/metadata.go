// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// EncryptionMetadata is the per-entry cryptographic material required to
// decrypt a stored ciphertext: the AES-GCM initialization vector and the
// PBKDF2 salt. Both are produced fresh on every encryption and never reused
// across entries.
type EncryptionMetadata struct {
	// IV is the 12-byte AES-GCM initialization vector.
	IV []byte

	// Salt is the 16-byte PBKDF2 salt.
	Salt []byte
}

// MetadataRecord is the durable row shape of the metadata collection:
// one record per encrypted entry, indexed by the storage key.
type MetadataRecord struct {
	// Key is the storage key the ciphertext is written under.
	Key string

	// IV is the 12-byte AES-GCM initialization vector.
	IV []byte

	// Salt is the 16-byte PBKDF2 salt.
	Salt []byte
}

// Metadata returns the in-memory metadata pair of the record.
func (r MetadataRecord) Metadata() EncryptionMetadata {
	return EncryptionMetadata{IV: r.IV, Salt: r.Salt}
}
