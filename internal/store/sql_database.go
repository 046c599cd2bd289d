package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/bvault/internal/logger"
	"github.com/MKhiriev/bvault/migrations"
)

// DB wraps the shared metadata database connection together with the driver
// it was opened with. The driver name doubles as the goose dialect and
// selects the SQL placeholder format.
type DB struct {
	*sql.DB
	driver string
	logger *logger.Logger
}

// Driver returns the SQL driver name the connection was opened with
// ("sqlite3" or "pgx").
func (db *DB) Driver() string {
	return db.driver
}

// Migrate brings the metadata schema up to the latest embedded migration.
func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB, db.driver)
}

// Reset destroys the metadata schema and recreates it from scratch. All
// stored metadata rows are lost.
func (db *DB) Reset() error {
	return migrations.Reset(db.DB, db.driver)
}

// CollectionExists reports whether the entry_metadata table is present in
// the connected database. The probe query is driver-specific.
func (db *DB) CollectionExists(ctx context.Context) (bool, error) {
	var probe string
	switch db.Driver() {
	case "pgx":
		probe = `SELECT table_name FROM information_schema.tables
			WHERE table_name = 'entry_metadata' LIMIT 1;`
	default: // sqlite3
		probe = `SELECT name FROM sqlite_master
			WHERE type = 'table' AND name = 'entry_metadata' LIMIT 1;`
	}

	var name string
	err := db.QueryRowContext(ctx, probe).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return true, nil
}
