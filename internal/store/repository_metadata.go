package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/MKhiriev/bvault/internal/codec"
	"github.com/MKhiriev/bvault/internal/logger"
	"github.com/MKhiriev/bvault/models"
)

// maxSelfHealAttempts bounds the destroy-and-recreate schema recovery in
// [metadataRepository.Init]. Exhaustion surfaces [ErrSelfHealExhausted]
// instead of looping.
const maxSelfHealAttempts = 3

// schemaManager is the subset of [DB] that [metadataRepository.Init] drives
// during schema self-healing.
type schemaManager interface {
	Migrate() error
	Reset() error
	CollectionExists(ctx context.Context) (bool, error)
}

// metadataRepository is the SQL-backed implementation of
// [MetadataRepository]. It stores one {key, iv, salt} row per encrypted
// entry in the entry_metadata table, with iv and salt kept base64url-encoded
// so the same schema serves both the sqlite and postgres drivers.
//
// Every public method obtains a context-scoped logger via
// [logger.FromContext] so that all database interactions are traced with
// structured fields.
type metadataRepository struct {
	db     *DB
	schema schemaManager
	logger *logger.Logger

	mu    sync.Mutex
	ready bool
}

// NewMetadataRepository constructs a [MetadataRepository] backed by the
// provided database connection and logger.
//
// The logger parameter is stored for fallback logging; most methods prefer
// the context-scoped logger obtained via [logger.FromContext].
func NewMetadataRepository(db *DB, logger *logger.Logger) MetadataRepository {
	return &metadataRepository{
		db:     db,
		schema: db,
		logger: logger,
	}
}

// Init implements [MetadataRepository]. The first successful call migrates
// the schema and marks the repository ready; later calls return immediately.
//
// Schema drift (the entry_metadata table missing even though migrations
// report up-to-date) is resolved destructively: the schema is torn down and
// recreated from scratch, trading historical metadata loss for guaranteed
// schema consistency. The recovery is bounded by [maxSelfHealAttempts].
func (m *metadataRepository) Init(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ready {
		return nil
	}

	log := logger.FromContext(ctx)

	for attempt := 1; attempt <= maxSelfHealAttempts; attempt++ {
		if err := m.schema.Migrate(); err != nil {
			log.Err(err).
				Str("func", "metadataRepository.Init").
				Int("attempt", attempt).
				Msg("failed to migrate metadata schema")
			return fmt.Errorf("init metadata store: %w", err)
		}

		exists, err := m.schema.CollectionExists(ctx)
		if err != nil {
			log.Err(err).
				Str("func", "metadataRepository.Init").
				Int("attempt", attempt).
				Msg("failed to probe metadata collection")
			return fmt.Errorf("init metadata store: %w", err)
		}

		if exists {
			m.ready = true
			log.Debug().
				Str("func", "metadataRepository.Init").
				Int("attempt", attempt).
				Msg("metadata store initialized")
			return nil
		}

		log.Warn().
			Str("func", "metadataRepository.Init").
			Int("attempt", attempt).
			Msg("schema drift detected: destroying and recreating metadata schema")

		if err = m.schema.Reset(); err != nil {
			log.Err(err).
				Str("func", "metadataRepository.Init").
				Int("attempt", attempt).
				Msg("failed to recreate metadata schema")
			return fmt.Errorf("init metadata store: %w", err)
		}
	}

	log.Error().
		Str("func", "metadataRepository.Init").
		Int("max_attempts", maxSelfHealAttempts).
		Msg("schema self-healing failed to produce the metadata collection")

	return ErrSelfHealExhausted
}

// VerifyCollection implements [MetadataRepository].
func (m *metadataRepository) VerifyCollection(ctx context.Context) error {
	if err := m.Init(ctx); err != nil {
		return err
	}

	exists, err := m.schema.CollectionExists(ctx)
	if err != nil {
		return err
	}
	if !exists {
		// only reachable if the table is dropped concurrently after Init
		return ErrMissingCollection
	}

	return nil
}

// Put implements [MetadataRepository]. The record fully replaces any
// previous record under the same key.
func (m *metadataRepository) Put(ctx context.Context, record models.MetadataRecord) error {
	log := logger.FromContext(ctx)

	query, args, err := m.db.buildPutMetadataQuery(
		record.Key,
		codec.EncodeBase64URL(record.IV),
		codec.EncodeBase64URL(record.Salt),
	)
	if err != nil {
		log.Err(err).
			Str("func", "metadataRepository.Put").
			Str("key", record.Key).
			Msg("failed to build upsert query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = m.db.ExecContext(ctx, query, args...); err != nil {
		if isUndefinedTable(err) {
			m.invalidate()
			log.Warn().
				Err(err).
				Str("func", "metadataRepository.Put").
				Str("key", record.Key).
				Msg("entry_metadata table is gone, schema drift detected")
			return fmt.Errorf("%w: %w", ErrMissingCollection, err)
		}
		log.Err(err).
			Str("func", "metadataRepository.Put").
			Str("key", record.Key).
			Msg("failed to execute upsert for entry metadata")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return nil
}

// Get implements [MetadataRepository]. Returns [ErrMetadataNotFound] when no
// record exists for key.
func (m *metadataRepository) Get(ctx context.Context, key string) (models.MetadataRecord, error) {
	log := logger.FromContext(ctx)

	query, args, err := m.db.buildGetMetadataQuery(key)
	if err != nil {
		log.Err(err).
			Str("func", "metadataRepository.Get").
			Str("key", key).
			Msg("failed to build select query")
		return models.MetadataRecord{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var record models.MetadataRecord
	var ivB64, saltB64 string

	scanErr := m.db.QueryRowContext(ctx, query, args...).Scan(&record.Key, &ivB64, &saltB64)
	if errors.Is(scanErr, sql.ErrNoRows) {
		return models.MetadataRecord{}, ErrMetadataNotFound
	}
	if scanErr != nil {
		if isUndefinedTable(scanErr) {
			m.invalidate()
			log.Warn().
				Err(scanErr).
				Str("func", "metadataRepository.Get").
				Str("key", key).
				Msg("entry_metadata table is gone, schema drift detected")
			return models.MetadataRecord{}, fmt.Errorf("%w: %w", ErrMissingCollection, scanErr)
		}
		log.Err(scanErr).
			Str("func", "metadataRepository.Get").
			Str("key", key).
			Msg("failed to scan entry metadata row")
		return models.MetadataRecord{}, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
	}

	if record.IV, record.Salt, err = decodeMetadataColumns(ivB64, saltB64); err != nil {
		log.Err(err).
			Str("func", "metadataRepository.Get").
			Str("key", key).
			Msg("stored iv/salt columns are corrupted")
		return models.MetadataRecord{}, fmt.Errorf("%w: %w", ErrDecodingRecord, err)
	}

	return record, nil
}

// GetAll implements [MetadataRepository]. Returns an empty slice when the
// collection is empty.
func (m *metadataRepository) GetAll(ctx context.Context) ([]models.MetadataRecord, error) {
	log := logger.FromContext(ctx)

	query, args, err := m.db.buildGetAllMetadataQuery()
	if err != nil {
		log.Err(err).
			Str("func", "metadataRepository.GetAll").
			Msg("failed to build select query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := m.db.QueryContext(ctx, query, args...)
	if err != nil {
		if isUndefinedTable(err) {
			m.invalidate()
			log.Warn().
				Err(err).
				Str("func", "metadataRepository.GetAll").
				Msg("entry_metadata table is gone, schema drift detected")
			return nil, fmt.Errorf("%w: %w", ErrMissingCollection, err)
		}
		log.Err(err).
			Str("func", "metadataRepository.GetAll").
			Msg("failed to execute query for getting all entry metadata")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	records := make([]models.MetadataRecord, 0, 50)

	for rows.Next() {
		var record models.MetadataRecord
		var ivB64, saltB64 string

		scanErr := rows.Scan(&record.Key, &ivB64, &saltB64)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "metadataRepository.GetAll").
				Msg("failed to scan entry metadata row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}

		if record.IV, record.Salt, err = decodeMetadataColumns(ivB64, saltB64); err != nil {
			log.Err(err).
				Str("func", "metadataRepository.GetAll").
				Str("key", record.Key).
				Msg("stored iv/salt columns are corrupted")
			return nil, fmt.Errorf("%w: %w", ErrDecodingRecord, err)
		}

		records = append(records, record)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "metadataRepository.GetAll").
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return records, nil
}

// Delete implements [MetadataRepository]. Deleting an absent key succeeds.
func (m *metadataRepository) Delete(ctx context.Context, key string) error {
	log := logger.FromContext(ctx)

	query, args, err := m.db.buildDeleteMetadataQuery(key)
	if err != nil {
		log.Err(err).
			Str("func", "metadataRepository.Delete").
			Str("key", key).
			Msg("failed to build delete query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = m.db.ExecContext(ctx, query, args...); err != nil {
		if isUndefinedTable(err) {
			m.invalidate()
			log.Warn().
				Err(err).
				Str("func", "metadataRepository.Delete").
				Str("key", key).
				Msg("entry_metadata table is gone, schema drift detected")
			return fmt.Errorf("%w: %w", ErrMissingCollection, err)
		}
		log.Err(err).
			Str("func", "metadataRepository.Delete").
			Str("key", key).
			Msg("failed to execute delete for entry metadata")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return nil
}

// Clear implements [MetadataRepository].
func (m *metadataRepository) Clear(ctx context.Context) error {
	log := logger.FromContext(ctx)

	query, args, err := m.db.buildClearMetadataQuery()
	if err != nil {
		log.Err(err).
			Str("func", "metadataRepository.Clear").
			Msg("failed to build clear query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = m.db.ExecContext(ctx, query, args...); err != nil {
		if isUndefinedTable(err) {
			m.invalidate()
			log.Warn().
				Err(err).
				Str("func", "metadataRepository.Clear").
				Msg("entry_metadata table is gone, schema drift detected")
			return fmt.Errorf("%w: %w", ErrMissingCollection, err)
		}
		log.Err(err).
			Str("func", "metadataRepository.Clear").
			Msg("failed to execute clear for entry metadata")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return nil
}

// invalidate marks the repository not ready so the next [Init] re-runs
// migration and, if needed, schema self-healing. Called when a query fails
// with the postgres undefined_table condition, the runtime manifestation of
// schema drift.
func (m *metadataRepository) invalidate() {
	m.mu.Lock()
	m.ready = false
	m.mu.Unlock()
}

// decodeMetadataColumns decodes the base64url iv and salt columns of one row.
func decodeMetadataColumns(ivB64, saltB64 string) ([]byte, []byte, error) {
	iv, err := codec.DecodeBase64URL(ivB64)
	if err != nil {
		return nil, nil, err
	}
	salt, err := codec.DecodeBase64URL(saltB64)
	if err != nil {
		return nil, nil, err
	}
	return iv, salt, nil
}
