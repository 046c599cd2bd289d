// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/MKhiriev/bvault/internal/cache"
	"github.com/MKhiriev/bvault/internal/codec"
	"github.com/MKhiriev/bvault/internal/crypto"
	"github.com/MKhiriev/bvault/internal/logger"
	"github.com/MKhiriev/bvault/internal/store"
	"github.com/MKhiriev/bvault/models"
)

// session is the facade-scoped state created by Initialize. The transition
// Uninitialized → Initialized is one-way; there is no logout primitive and
// re-initializing with a different password is unsupported.
type session struct {
	initialized bool
	password    string
}

// secureStorage is the private implementation of [SecureStorageService].
type secureStorage struct {
	crypto   crypto.Service
	metadata store.MetadataRepository
	raw      store.RawStorage
	cache    *cache.Cache
	logger   *logger.Logger

	sessionMu sync.Mutex
	session   session

	// keyLocks serializes the three-step write sequence per key so that
	// two concurrent SetItem calls cannot pair a ciphertext with the wrong
	// iv/salt.
	keyLocks keyedMutex
}

// NewSecureStorage constructs a [SecureStorageService] over the given
// collaborators. The facade starts Uninitialized; every read or write
// requires a prior successful [SecureStorageService.Initialize].
func NewSecureStorage(
	cryptoSvc crypto.Service,
	metadata store.MetadataRepository,
	raw store.RawStorage,
	log *logger.Logger,
) SecureStorageService {
	return &secureStorage{
		crypto:   cryptoSvc,
		metadata: metadata,
		raw:      raw,
		cache:    cache.New(),
		logger:   log,
	}
}

// Initialize implements [SecureStorageService].
//
// The connectivity self-test writes a synthetic record under a fresh
// uuid-derived probe key, reads it back and deletes it; the probe is deleted
// even when the read-back fails. The session password is set only after the
// self-test passes, so a failed Initialize leaves the facade in a clean
// Uninitialized state.
//
// On success the cache is rehydrated from the durable metadata records, so a
// restarted process can decrypt entries whose ciphertext and metadata both
// survived.
func (s *secureStorage) Initialize(ctx context.Context, password string) error {
	s.sessionMu.Lock()
	defer s.sessionMu.Unlock()

	log := logger.FromContext(ctx)

	if s.session.initialized {
		log.Debug().
			Str("func", "secureStorage.Initialize").
			Msg("already initialized, ignoring repeated call")
		return nil
	}

	if password == "" {
		return ErrEmptyPassword
	}

	if err := s.metadata.Init(ctx); err != nil {
		log.Err(err).
			Str("func", "secureStorage.Initialize").
			Msg("failed to open metadata store")
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}

	if err := s.selfTest(ctx); err != nil {
		log.Err(err).
			Str("func", "secureStorage.Initialize").
			Msg("metadata store connectivity self-test failed")
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}

	if err := s.rehydrateCache(ctx); err != nil {
		log.Err(err).
			Str("func", "secureStorage.Initialize").
			Msg("failed to rehydrate metadata cache")
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}

	s.session = session{initialized: true, password: password}

	log.Info().
		Str("func", "secureStorage.Initialize").
		Int("cached_entries", s.cache.Len()).
		Msg("secure storage initialized")

	return nil
}

// selfTest verifies the metadata store can round-trip a record: write a
// synthetic probe, read it back, delete it. The probe payload only needs to
// survive the round trip, so its iv/salt are plain random bytes.
func (s *secureStorage) selfTest(ctx context.Context) error {
	probeKey := "bvault.selftest." + uuid.NewString()

	ivSeed, err := s.crypto.GenerateSalt()
	if err != nil {
		return fmt.Errorf("generate probe payload: %w", err)
	}
	salt, err := s.crypto.GenerateSalt()
	if err != nil {
		return fmt.Errorf("generate probe payload: %w", err)
	}

	probe := models.MetadataRecord{Key: probeKey, IV: ivSeed[:12], Salt: salt}

	if err = s.metadata.Put(ctx, probe); err != nil {
		return fmt.Errorf("write probe record: %w", err)
	}

	// best-effort cleanup regardless of the read-back outcome
	defer func() {
		if delErr := s.metadata.Delete(ctx, probeKey); delErr != nil {
			logger.FromContext(ctx).Warn().
				Err(delErr).
				Str("func", "secureStorage.selfTest").
				Msg("failed to delete self-test probe record")
		}
	}()

	readBack, err := s.metadata.Get(ctx, probeKey)
	if err != nil {
		return fmt.Errorf("read back probe record: %w", err)
	}
	if readBack.Key != probeKey {
		return fmt.Errorf("probe record key mismatch: got %q", readBack.Key)
	}

	return nil
}

// rehydrateCache mirrors every durable metadata record into the in-memory
// cache.
func (s *secureStorage) rehydrateCache(ctx context.Context) error {
	records, err := s.metadata.GetAll(ctx)
	if err != nil {
		return err
	}

	for _, record := range records {
		s.cache.Set(record.Key, record.Metadata())
	}

	return nil
}

// SetItem implements [SecureStorageService]. The entry is fully replaced,
// never patched. The write order is: ciphertext to the raw store, iv/salt to
// the cache, then iv/salt to the durable store. The cache is written before
// the durable write is confirmed, so a durable-write failure can leave a
// readable entry whose metadata exists only in memory; the per-key lock
// keeps concurrent writers from interleaving the three steps.
func (s *secureStorage) SetItem(ctx context.Context, key string, value any) error {
	if err := s.requireInitialized(); err != nil {
		return err
	}

	log := logger.FromContext(ctx)

	plaintext, err := serialize(value)
	if err != nil {
		log.Err(err).
			Str("func", "secureStorage.SetItem").
			Str("key", key).
			Msg("failed to serialize value")
		return fmt.Errorf("%w %q: %w", ErrWriteFailed, key, err)
	}

	unlock := s.keyLocks.lock(key)
	defer unlock()

	envelope, err := s.crypto.Encrypt(plaintext, s.password())
	if err != nil {
		log.Err(err).
			Str("func", "secureStorage.SetItem").
			Str("key", key).
			Msg("failed to encrypt value")
		return fmt.Errorf("%w %q: %w", ErrWriteFailed, key, err)
	}

	meta, err := decodeEnvelopeMetadata(envelope)
	if err != nil {
		log.Err(err).
			Str("func", "secureStorage.SetItem").
			Str("key", key).
			Msg("failed to decode envelope metadata")
		return fmt.Errorf("%w %q: %w", ErrWriteFailed, key, err)
	}

	if err = s.raw.Set(key, envelope.Ciphertext); err != nil {
		log.Err(err).
			Str("func", "secureStorage.SetItem").
			Str("key", key).
			Msg("failed to write ciphertext to raw storage")
		return fmt.Errorf("%w %q: %w", ErrWriteFailed, key, err)
	}

	s.cache.Set(key, meta)

	record := models.MetadataRecord{Key: key, IV: meta.IV, Salt: meta.Salt}
	if err = s.metadata.Put(ctx, record); err != nil {
		log.Err(err).
			Str("func", "secureStorage.SetItem").
			Str("key", key).
			Msg("failed to write entry metadata to durable store")
		return fmt.Errorf("%w %q: %w", ErrWriteFailed, key, err)
	}

	return nil
}

// GetItem implements [SecureStorageService]. Metadata is looked up in the
// cache only; a cache miss for an existing ciphertext is metadata-loss
// corruption. Any failure to produce trusted plaintext purges the entry from
// all three stores and reports absent, failing secure by deletion. A wrong
// session password therefore silently empties every entry it touches on
// read; callers must not probe passwords through this method.
//
// GetItem takes the same per-key lock as [SecureStorageService.SetItem], so
// a read never races the three-step write sequence into a spurious purge.
func (s *secureStorage) GetItem(ctx context.Context, key string) (string, bool, error) {
	if err := s.requireInitialized(); err != nil {
		return "", false, err
	}

	log := logger.FromContext(ctx)

	// sharing the write lock keeps a read from observing a half-written
	// entry (ciphertext stored, iv/salt not yet cached) and purging it
	unlock := s.keyLocks.lock(key)
	defer unlock()

	ciphertext, ok := s.raw.Get(key)
	if !ok {
		return "", false, nil
	}

	meta, ok := s.cache.Get(key)
	if !ok {
		log.Warn().
			Str("func", "secureStorage.GetItem").
			Str("key", key).
			Msg("ciphertext present but metadata missing, purging corrupt entry")
		s.purge(ctx, key)
		return "", false, nil
	}

	plaintext, err := s.crypto.Decrypt(
		ciphertext,
		s.password(),
		codec.EncodeBase64URL(meta.IV),
		codec.EncodeBase64URL(meta.Salt),
	)
	if err != nil {
		log.Warn().
			Err(err).
			Str("func", "secureStorage.GetItem").
			Str("key", key).
			Msg("decryption failed, purging undecryptable entry")
		s.purge(ctx, key)
		return "", false, nil
	}

	return plaintext, true, nil
}

// RemoveItem implements [SecureStorageService]. Removal does not require an
// initialized session. Cleanup is advisory: failures are logged and never
// surfaced, so the method always returns nil.
func (s *secureStorage) RemoveItem(ctx context.Context, key string) error {
	log := logger.FromContext(ctx)

	if err := s.raw.Delete(key); err != nil {
		log.Warn().
			Err(err).
			Str("func", "secureStorage.RemoveItem").
			Str("key", key).
			Msg("failed to delete ciphertext from raw storage")
	}

	s.cache.Delete(key)

	if err := s.metadata.Delete(ctx, key); err != nil {
		log.Warn().
			Err(err).
			Str("func", "secureStorage.RemoveItem").
			Str("key", key).
			Msg("failed to delete entry metadata from durable store")
	}

	return nil
}

// Clear implements [SecureStorageService]. Like [RemoveItem], clearing does
// not require an initialized session and never fails visibly.
func (s *secureStorage) Clear(ctx context.Context) error {
	log := logger.FromContext(ctx)

	if err := s.raw.Clear(); err != nil {
		log.Warn().
			Err(err).
			Str("func", "secureStorage.Clear").
			Msg("failed to clear raw storage")
	}

	s.cache.Clear()

	if err := s.metadata.Clear(ctx); err != nil {
		log.Warn().
			Err(err).
			Str("func", "secureStorage.Clear").
			Msg("failed to clear entry metadata from durable store")
	}

	return nil
}

// purge removes a corrupt or undecryptable entry from all three stores. The
// durable deletion is best-effort; its failure is logged, never propagated,
// since the cache is already the source of truth for subsequent reads.
func (s *secureStorage) purge(ctx context.Context, key string) {
	log := logger.FromContext(ctx)

	if err := s.raw.Delete(key); err != nil {
		log.Warn().
			Err(err).
			Str("func", "secureStorage.purge").
			Str("key", key).
			Msg("failed to delete ciphertext during purge")
	}

	s.cache.Delete(key)

	if err := s.metadata.Delete(ctx, key); err != nil {
		log.Warn().
			Err(err).
			Str("func", "secureStorage.purge").
			Str("key", key).
			Msg("failed to delete entry metadata during purge")
	}
}

func (s *secureStorage) requireInitialized() error {
	s.sessionMu.Lock()
	defer s.sessionMu.Unlock()
	if !s.session.initialized {
		return ErrNotInitialized
	}
	return nil
}

func (s *secureStorage) password() string {
	s.sessionMu.Lock()
	defer s.sessionMu.Unlock()
	return s.session.password
}

// decodeEnvelopeMetadata extracts the raw iv/salt bytes from an envelope.
func decodeEnvelopeMetadata(envelope models.CipherEnvelope) (models.EncryptionMetadata, error) {
	iv, err := codec.DecodeBase64URL(envelope.IV)
	if err != nil {
		return models.EncryptionMetadata{}, err
	}
	salt, err := codec.DecodeBase64URL(envelope.Salt)
	if err != nil {
		return models.EncryptionMetadata{}, err
	}
	return models.EncryptionMetadata{IV: iv, Salt: salt}, nil
}
