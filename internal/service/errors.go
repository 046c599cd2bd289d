package service

import "errors"

// Sentinel errors returned by [SecureStorageService] methods. Callers should
// use [errors.Is] to match against these values.
var (
	// ErrNotInitialized is returned when SetItem or GetItem is called
	// before a successful Initialize.
	ErrNotInitialized = errors.New("secure storage is not initialized")

	// ErrEmptyPassword is returned when Initialize is called with an empty
	// password.
	ErrEmptyPassword = errors.New("password must not be empty")

	// ErrStorageUnavailable is returned when Initialize cannot bring the
	// durable metadata store to a usable state, including when the
	// connectivity self-test fails to read back its own probe record.
	ErrStorageUnavailable = errors.New("metadata store is unavailable")

	// ErrWriteFailed is returned when any step of the SetItem write
	// sequence fails. The wrapped message identifies the key.
	ErrWriteFailed = errors.New("failed to write secure storage entry")
)
