// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"time"

	sq "github.com/Masterminds/squirrel"
)

const metadataTable = "entry_metadata"

// builder returns a squirrel statement builder configured with the
// placeholder format of the connected driver: $n for postgres, ? for sqlite.
func (db *DB) builder() sq.StatementBuilderType {
	if db.Driver() == "pgx" {
		return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	}
	return sq.StatementBuilder.PlaceholderFormat(sq.Question)
}

// buildPutMetadataQuery builds the upsert for one metadata record. The
// ON CONFLICT clause fully replaces the previous iv/salt pair: records are
// never patched, only rewritten.
func (db *DB) buildPutMetadataQuery(key, ivB64, saltB64 string) (string, []any, error) {
	return db.builder().
		Insert(metadataTable).
		Columns("key", "iv", "salt", "updated_at").
		Values(key, ivB64, saltB64, time.Now().UTC()).
		Suffix(`ON CONFLICT(key) DO UPDATE SET
			iv = excluded.iv,
			salt = excluded.salt,
			updated_at = excluded.updated_at`).
		ToSql()
}

// buildGetMetadataQuery builds the single-record lookup by storage key.
func (db *DB) buildGetMetadataQuery(key string) (string, []any, error) {
	return db.builder().
		Select("key", "iv", "salt").
		From(metadataTable).
		Where(sq.Eq{"key": key}).
		ToSql()
}

// buildGetAllMetadataQuery builds the full-collection scan used for cache
// rehydration.
func (db *DB) buildGetAllMetadataQuery() (string, []any, error) {
	return db.builder().
		Select("key", "iv", "salt").
		From(metadataTable).
		OrderBy("key").
		ToSql()
}

// buildDeleteMetadataQuery builds the single-record delete by storage key.
func (db *DB) buildDeleteMetadataQuery(key string) (string, []any, error) {
	return db.builder().
		Delete(metadataTable).
		Where(sq.Eq{"key": key}).
		ToSql()
}

// buildClearMetadataQuery builds the delete-everything statement.
func (db *DB) buildClearMetadataQuery() (string, []any, error) {
	return db.builder().
		Delete(metadataTable).
		ToSql()
}
