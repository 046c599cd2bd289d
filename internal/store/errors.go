package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrMetadataNotFound is returned when a query targets a metadata record
	// (identified by storage key) that does not exist in the database.
	ErrMetadataNotFound = errors.New("entry metadata was not found")

	// ErrMissingCollection is returned when the metadata table is still
	// absent after initialization, meaning the schema self-healing did not
	// produce the expected collection.
	ErrMissingCollection = errors.New("entry_metadata collection is missing")

	// ErrSelfHealExhausted is returned when the destroy-and-recreate schema
	// recovery failed to produce a usable store within the bounded retry
	// count.
	ErrSelfHealExhausted = errors.New("schema self-healing retries exhausted")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a query against the
	// database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrScanningRow is returned when scanning column values from a single
	// result row into a destination struct fails.
	ErrScanningRow = errors.New("failed to scan entry metadata row")

	// ErrScanningRows is returned when scanning column values during
	// multi-row iteration fails, typically mid-result-set.
	ErrScanningRows = errors.New("failed to scan entry metadata rows")

	// ErrDecodingRecord is returned when a stored iv/salt column cannot be
	// base64url-decoded, indicating row-level corruption.
	ErrDecodingRecord = errors.New("failed to decode entry metadata record")
)
