package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/MKhiriev/bvault/internal/config"
	"github.com/MKhiriev/bvault/internal/logger"
)

// NewConnectPostgres opens the PostgreSQL metadata database at cfg.DSN via
// the pgx stdlib driver and pings it. Intended for deployments where the
// metadata store is shared or centrally backed up.
func NewConnectPostgres(ctx context.Context, cfg config.DB, log *logger.Logger) (*DB, error) {
	// establish connection
	conn, err := sql.Open("pgx", cfg.DSN)
	if err != nil {
		log.Err(err).Str("func", "NewConnectPostgres").Msg("error occured during database connection")
		return nil, fmt.Errorf("error occured during database connection: %w", err)
	}

	// setup connections
	conn.SetMaxOpenConns(10)
	conn.SetMaxIdleConns(4)

	// ping database
	err = conn.PingContext(ctx)
	if err != nil {
		log.Err(err).Str("func", "NewConnectPostgres").Msg("error connecting database (ping)")
		return nil, err
	}
	log.Info().Str("func", "NewConnectPostgres").Msg("connected to database successfully")

	// construct a DB struct
	db := &DB{
		DB:     conn,
		driver: "pgx",
		logger: log,
	}

	return db, nil
}

// postgresErrorCode extracts the PostgreSQL error code from err, or returns
// an empty string when err does not originate from the pgx driver.
func postgresErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}

	return ""
}

// isUndefinedTable reports whether err is the PostgreSQL "undefined_table"
// condition, the postgres manifestation of schema drift.
func isUndefinedTable(err error) bool {
	return postgresErrorCode(err) == pgerrcode.UndefinedTable
}
