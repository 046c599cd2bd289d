package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

func Test_postgresErrorCode(t *testing.T) {
	pgErr := &pgconn.PgError{Code: pgerrcode.UndefinedTable}

	if got := postgresErrorCode(pgErr); got != pgerrcode.UndefinedTable {
		t.Errorf("code = %q, want %q", got, pgerrcode.UndefinedTable)
	}

	// the pg error stays detectable through wrapping
	wrapped := fmt.Errorf("exec failed: %w", pgErr)
	if got := postgresErrorCode(wrapped); got != pgerrcode.UndefinedTable {
		t.Errorf("code through wrapping = %q, want %q", got, pgerrcode.UndefinedTable)
	}

	if got := postgresErrorCode(errors.New("not a pg error")); got != "" {
		t.Errorf("code for non-pg error = %q, want empty", got)
	}
	if got := postgresErrorCode(nil); got != "" {
		t.Errorf("code for nil = %q, want empty", got)
	}
}

func Test_isUndefinedTable(t *testing.T) {
	if !isUndefinedTable(&pgconn.PgError{Code: pgerrcode.UndefinedTable}) {
		t.Error("expected undefined_table to be recognized")
	}
	if isUndefinedTable(&pgconn.PgError{Code: pgerrcode.UniqueViolation}) {
		t.Error("unique_violation must not count as schema drift")
	}
	if isUndefinedTable(errors.New("no such table: entry_metadata")) {
		t.Error("plain errors must not count as schema drift")
	}
}
