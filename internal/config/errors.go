package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidStorageConfigs indicates invalid storage settings (for
	// example, an unsupported database driver or a pgx driver without DSN).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
)
