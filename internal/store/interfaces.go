package store

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

import (
	"context"

	"github.com/MKhiriev/bvault/models"
)

// MetadataRepository is the durable, versioned half of an encrypted entry:
// one {key, iv, salt} record per ciphertext written to the raw store.
// Each method opens its own transaction scoped to the single call; no
// multi-operation atomicity is exposed, so a caller performing related
// writes (ciphertext + metadata) must accept that the two are not committed
// together.
type MetadataRepository interface {
	// Init opens the store and brings the schema to the expected version.
	// It is idempotent: once the store is ready, further calls return
	// immediately. On schema drift (expected table missing) the store is
	// destroyed and recreated, bounded by a fixed retry count.
	Init(ctx context.Context) error

	// VerifyCollection calls Init and then fails with [ErrMissingCollection]
	// if the metadata table is still absent afterwards. Given the
	// self-healing in Init this should be unreachable except under
	// concurrent external deletion.
	VerifyCollection(ctx context.Context) error

	// Put inserts or fully replaces the record for record.Key.
	Put(ctx context.Context, record models.MetadataRecord) error

	// Get returns the record for key, or [ErrMetadataNotFound].
	Get(ctx context.Context, key string) (models.MetadataRecord, error)

	// GetAll returns every stored record.
	GetAll(ctx context.Context) ([]models.MetadataRecord, error)

	// Delete removes the record for key. Deleting an absent key is a no-op.
	Delete(ctx context.Context, key string) error

	// Clear removes every record.
	Clear(ctx context.Context) error
}

// RawStorage is the injected underlying key-value store the facade writes
// ciphertext to: any synchronous string-keyed, string-valued store.
type RawStorage interface {
	// Set stores value under key, replacing any previous value.
	Set(key, value string) error

	// Get returns the value for key and whether it is present.
	Get(key string) (string, bool)

	// Delete removes the value for key. Deleting an absent key is a no-op.
	Delete(key string) error

	// Clear removes every value.
	Clear() error
}
