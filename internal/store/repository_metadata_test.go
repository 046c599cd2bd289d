package store

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/MKhiriev/bvault/internal/codec"
	"github.com/MKhiriev/bvault/internal/logger"
	"github.com/MKhiriev/bvault/models"
)

func newTestMetadataRepo(t *testing.T) (*metadataRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	l := logger.Nop()
	sqlDB := &DB{DB: db, driver: "sqlite3", logger: l}
	repo := &metadataRepository{
		db:     sqlDB,
		schema: sqlDB,
		logger: l,
	}
	return repo, mock, db
}

func testRecord() models.MetadataRecord {
	return models.MetadataRecord{
		Key:  "vault:token",
		IV:   bytes.Repeat([]byte{0x0A}, 12),
		Salt: bytes.Repeat([]byte{0x0B}, 16),
	}
}

func TestPut_Success(t *testing.T) {
	repo, mock, db := newTestMetadataRepo(t)
	defer db.Close()

	record := testRecord()

	mock.ExpectExec("INSERT INTO entry_metadata").
		WithArgs(
			record.Key,
			codec.EncodeBase64URL(record.IV),
			codec.EncodeBase64URL(record.Salt),
			sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Put(context.Background(), record); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPut_ExecError(t *testing.T) {
	repo, mock, db := newTestMetadataRepo(t)
	defer db.Close()

	mock.ExpectExec("INSERT INTO entry_metadata").
		WillReturnError(errors.New("disk I/O error"))

	err := repo.Put(context.Background(), testRecord())
	if !errors.Is(err, ErrExecutingQuery) {
		t.Fatalf("expected ErrExecutingQuery, got %v", err)
	}
}

func TestGet_Success(t *testing.T) {
	repo, mock, db := newTestMetadataRepo(t)
	defer db.Close()

	record := testRecord()

	rows := sqlmock.
		NewRows([]string{"key", "iv", "salt"}).
		AddRow(record.Key, codec.EncodeBase64URL(record.IV), codec.EncodeBase64URL(record.Salt))

	mock.ExpectQuery("SELECT key, iv, salt FROM entry_metadata").
		WithArgs(record.Key).
		WillReturnRows(rows)

	got, err := repo.Get(context.Background(), record.Key)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Key != record.Key {
		t.Errorf("key = %q, want %q", got.Key, record.Key)
	}
	if !bytes.Equal(got.IV, record.IV) {
		t.Errorf("iv mismatch: got %v, want %v", got.IV, record.IV)
	}
	if !bytes.Equal(got.Salt, record.Salt) {
		t.Errorf("salt mismatch: got %v, want %v", got.Salt, record.Salt)
	}
}

func TestGet_NotFound(t *testing.T) {
	repo, mock, db := newTestMetadataRepo(t)
	defer db.Close()

	mock.ExpectQuery("SELECT key, iv, salt FROM entry_metadata").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), "missing")
	if !errors.Is(err, ErrMetadataNotFound) {
		t.Fatalf("expected ErrMetadataNotFound, got %v", err)
	}
}

func TestGet_CorruptedColumns(t *testing.T) {
	repo, mock, db := newTestMetadataRepo(t)
	defer db.Close()

	rows := sqlmock.
		NewRows([]string{"key", "iv", "salt"}).
		AddRow("k", "%%%not-base64%%%", "also-bad===")

	mock.ExpectQuery("SELECT key, iv, salt FROM entry_metadata").
		WillReturnRows(rows)

	_, err := repo.Get(context.Background(), "k")
	if !errors.Is(err, ErrDecodingRecord) {
		t.Fatalf("expected ErrDecodingRecord, got %v", err)
	}
}

func TestGetAll_Success(t *testing.T) {
	repo, mock, db := newTestMetadataRepo(t)
	defer db.Close()

	r1, r2 := testRecord(), testRecord()
	r2.Key = "vault:other"

	rows := sqlmock.
		NewRows([]string{"key", "iv", "salt"}).
		AddRow(r2.Key, codec.EncodeBase64URL(r2.IV), codec.EncodeBase64URL(r2.Salt)).
		AddRow(r1.Key, codec.EncodeBase64URL(r1.IV), codec.EncodeBase64URL(r1.Salt))

	mock.ExpectQuery("SELECT key, iv, salt FROM entry_metadata").
		WillReturnRows(rows)

	records, err := repo.GetAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records count = %d, want 2", len(records))
	}
}

func TestGetAll_Empty(t *testing.T) {
	repo, mock, db := newTestMetadataRepo(t)
	defer db.Close()

	mock.ExpectQuery("SELECT key, iv, salt FROM entry_metadata").
		WillReturnRows(sqlmock.NewRows([]string{"key", "iv", "salt"}))

	records, err := repo.GetAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("records count = %d, want 0", len(records))
	}
}

func TestGetAll_QueryError(t *testing.T) {
	repo, mock, db := newTestMetadataRepo(t)
	defer db.Close()

	mock.ExpectQuery("SELECT key, iv, salt FROM entry_metadata").
		WillReturnError(errors.New("db network error"))

	_, err := repo.GetAll(context.Background())
	if !errors.Is(err, ErrExecutingQuery) {
		t.Fatalf("expected ErrExecutingQuery, got %v", err)
	}
}

func TestDelete_Success(t *testing.T) {
	repo, mock, db := newTestMetadataRepo(t)
	defer db.Close()

	mock.ExpectExec("DELETE FROM entry_metadata WHERE").
		WithArgs("vault:token").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Delete(context.Background(), "vault:token"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDelete_AbsentKeyIsNoOp(t *testing.T) {
	repo, mock, db := newTestMetadataRepo(t)
	defer db.Close()

	mock.ExpectExec("DELETE FROM entry_metadata WHERE").
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Delete(context.Background(), "missing"); err != nil {
		t.Fatalf("expected no error for absent key, got %v", err)
	}
}

func TestClear_Success(t *testing.T) {
	repo, mock, db := newTestMetadataRepo(t)
	defer db.Close()

	mock.ExpectExec("DELETE FROM entry_metadata").
		WillReturnResult(sqlmock.NewResult(0, 3))

	if err := repo.Clear(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestInit_MigrationErrorPropagates(t *testing.T) {
	repo, mock, db := newTestMetadataRepo(t)
	defer db.Close()

	_ = mock // goose drives the DB itself; the mock rejects its queries

	err := repo.Init(context.Background())
	if err == nil {
		t.Fatal("expected error from Init against a mock DB, got nil")
	}
	if !strings.Contains(err.Error(), "init metadata store") {
		t.Errorf("expected wrapped init error, got: %v", err)
	}
}

func TestCollectionExists_SQLiteProbe(t *testing.T) {
	repo, mock, db := newTestMetadataRepo(t)
	defer db.Close()

	mock.ExpectQuery("SELECT name FROM sqlite_master").
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("entry_metadata"))

	exists, err := repo.db.CollectionExists(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !exists {
		t.Fatal("expected collection to exist")
	}
}

func TestCollectionExists_Missing(t *testing.T) {
	repo, mock, db := newTestMetadataRepo(t)
	defer db.Close()

	mock.ExpectQuery("SELECT name FROM sqlite_master").
		WillReturnError(sql.ErrNoRows)

	exists, err := repo.db.CollectionExists(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if exists {
		t.Fatal("expected collection to be missing")
	}
}

func newTestPostgresRepo(t *testing.T) (*metadataRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	l := logger.Nop()
	sqlDB := &DB{DB: db, driver: "pgx", logger: l}
	repo := &metadataRepository{
		db:     sqlDB,
		schema: sqlDB,
		logger: l,
		ready:  true,
	}
	return repo, mock, db
}

func undefinedTableError() error {
	return &pgconn.PgError{Code: pgerrcode.UndefinedTable, Message: `relation "entry_metadata" does not exist`}
}

func TestPut_UndefinedTableIsSchemaDrift(t *testing.T) {
	repo, mock, db := newTestPostgresRepo(t)
	defer db.Close()

	mock.ExpectExec("INSERT INTO entry_metadata").
		WillReturnError(undefinedTableError())

	err := repo.Put(context.Background(), testRecord())
	if !errors.Is(err, ErrMissingCollection) {
		t.Fatalf("expected ErrMissingCollection, got %v", err)
	}
	if repo.ready {
		t.Fatal("expected repository to be marked not ready after schema drift")
	}
}

func TestGet_UndefinedTableIsSchemaDrift(t *testing.T) {
	repo, mock, db := newTestPostgresRepo(t)
	defer db.Close()

	mock.ExpectQuery("SELECT key, iv, salt FROM entry_metadata").
		WillReturnError(undefinedTableError())

	_, err := repo.Get(context.Background(), "vault:token")
	if !errors.Is(err, ErrMissingCollection) {
		t.Fatalf("expected ErrMissingCollection, got %v", err)
	}
	if repo.ready {
		t.Fatal("expected repository to be marked not ready after schema drift")
	}
}

func TestGetAll_UndefinedTableIsSchemaDrift(t *testing.T) {
	repo, mock, db := newTestPostgresRepo(t)
	defer db.Close()

	mock.ExpectQuery("SELECT key, iv, salt FROM entry_metadata").
		WillReturnError(undefinedTableError())

	_, err := repo.GetAll(context.Background())
	if !errors.Is(err, ErrMissingCollection) {
		t.Fatalf("expected ErrMissingCollection, got %v", err)
	}
	if repo.ready {
		t.Fatal("expected repository to be marked not ready after schema drift")
	}
}

func TestDelete_UndefinedTableIsSchemaDrift(t *testing.T) {
	repo, mock, db := newTestPostgresRepo(t)
	defer db.Close()

	mock.ExpectExec("DELETE FROM entry_metadata").
		WillReturnError(undefinedTableError())

	err := repo.Delete(context.Background(), "vault:token")
	if !errors.Is(err, ErrMissingCollection) {
		t.Fatalf("expected ErrMissingCollection, got %v", err)
	}
	if repo.ready {
		t.Fatal("expected repository to be marked not ready after schema drift")
	}
}

// fakeSchemaManager lets Init tests script the migrate/probe/reset cycle.
type fakeSchemaManager struct {
	migrateCalls int
	resetCalls   int

	// existsAfterResets is the number of Reset calls after which the
	// collection probe starts reporting true. Set it beyond
	// maxSelfHealAttempts to make self-healing fail every round.
	existsAfterResets int
}

func (f *fakeSchemaManager) Migrate() error {
	f.migrateCalls++
	return nil
}

func (f *fakeSchemaManager) Reset() error {
	f.resetCalls++
	return nil
}

func (f *fakeSchemaManager) CollectionExists(context.Context) (bool, error) {
	return f.resetCalls >= f.existsAfterResets, nil
}

func TestInit_SelfHealsAfterOneReset(t *testing.T) {
	schema := &fakeSchemaManager{existsAfterResets: 1}
	repo := &metadataRepository{schema: schema, logger: logger.Nop()}

	if err := repo.Init(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !repo.ready {
		t.Fatal("expected repository to be ready after self-healing")
	}
	if schema.resetCalls != 1 {
		t.Errorf("reset calls = %d, want 1", schema.resetCalls)
	}
	if schema.migrateCalls != 2 {
		t.Errorf("migrate calls = %d, want 2", schema.migrateCalls)
	}
}

func TestInit_SelfHealExhausted(t *testing.T) {
	schema := &fakeSchemaManager{existsAfterResets: maxSelfHealAttempts + 1}
	repo := &metadataRepository{schema: schema, logger: logger.Nop()}

	err := repo.Init(context.Background())
	if !errors.Is(err, ErrSelfHealExhausted) {
		t.Fatalf("expected ErrSelfHealExhausted, got %v", err)
	}
	if repo.ready {
		t.Fatal("expected repository to stay not ready after exhaustion")
	}
	if schema.resetCalls != maxSelfHealAttempts {
		t.Errorf("reset calls = %d, want %d", schema.resetCalls, maxSelfHealAttempts)
	}
}

// TestInit_RecoversFromDroppedTable drives the full self-healing cycle
// against a real in-memory sqlite database: the entry_metadata table is
// dropped while the goose version table stays intact, so a plain migration
// run is a no-op and only the destroy-and-recreate path can restore the
// schema.
func TestInit_RecoversFromDroppedTable(t *testing.T) {
	conn, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open in-memory sqlite: %v", err)
	}
	defer conn.Close()
	// one connection, or every pool member gets its own empty memory DB
	conn.SetMaxOpenConns(1)

	l := logger.Nop()
	sqlDB := &DB{DB: conn, driver: "sqlite3", logger: l}
	ctx := context.Background()

	first := NewMetadataRepository(sqlDB, l)
	if err = first.Init(ctx); err != nil {
		t.Fatalf("first init failed: %v", err)
	}

	if _, err = conn.Exec("DROP TABLE entry_metadata"); err != nil {
		t.Fatalf("failed to drop table: %v", err)
	}

	second := NewMetadataRepository(sqlDB, l)
	if err = second.Init(ctx); err != nil {
		t.Fatalf("init did not self-heal the dropped table: %v", err)
	}

	exists, err := sqlDB.CollectionExists(ctx)
	if err != nil {
		t.Fatalf("probe failed: %v", err)
	}
	if !exists {
		t.Fatal("expected entry_metadata to be recreated")
	}

	record := testRecord()
	if err = second.Put(ctx, record); err != nil {
		t.Fatalf("put after self-healing failed: %v", err)
	}
	got, err := second.Get(ctx, record.Key)
	if err != nil {
		t.Fatalf("get after self-healing failed: %v", err)
	}
	if !bytes.Equal(got.IV, record.IV) || !bytes.Equal(got.Salt, record.Salt) {
		t.Fatal("record recovered with mismatched iv/salt")
	}
}
