package service

//go:generate mockgen -source=interfaces.go -destination=../mock/secure_storage_mock.go -package=mock

import "context"

// SecureStorageService is the drop-in encrypted key-value facade. It binds
// the crypto service to the durable metadata repository, the in-memory
// metadata cache and an injected raw ciphertext store, and implements
// fail-secure behavior when decryption cannot be trusted: ciphertext is
// never readable without its matching, uncorrupted metadata, and any
// mismatch self-heals by deletion rather than returning wrong data.
type SecureStorageService interface {
	// Initialize establishes the session password, opens the metadata
	// store, runs a connectivity self-test and rehydrates the cache from
	// the durable records. Calling it again is a no-op; the first password
	// stays in effect until process end.
	Initialize(ctx context.Context, password string) error

	// SetItem encrypts value under the session password and writes the
	// three parts of the entry: ciphertext to the raw store, iv/salt to
	// the cache and then to the durable metadata store.
	SetItem(ctx context.Context, key string, value any) error

	// GetItem decrypts and returns the entry for key. An absent entry is
	// (_, false, nil), not an error. Any decryption or metadata failure
	// purges the entry from all three stores and also reports absent.
	GetItem(ctx context.Context, key string) (string, bool, error)

	// RemoveItem deletes the entry for key from all three stores.
	RemoveItem(ctx context.Context, key string) error

	// Clear deletes every entry from all three stores.
	Clear(ctx context.Context) error
}
