package migration

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skyrin/go-migrate/e"
)

func TestRunnerRollback(t *testing.T) {
	db, mock := newMockConn(t)

	raw := "ALTER TABLE builds ADD COLUMN submitted_by TEXT;"
	r := NewRunner(db, newTestSource(map[string]string{
		"20240101_add_col.sql":      raw,
		"20240101_add_col.down.sql": "ALTER TABLE builds DROP COLUMN submitted_by;",
	}))

	mock.ExpectQuery("SELECT migration_identifier, migration_checksum, migration_applied_at FROM migration_ledger WHERE").
		WithArgs("20240101_add_col").
		WillReturnRows(sqlmock.NewRows(ledgerCols).
			AddRow("20240101_add_col", checksumOf(raw), time.Now()))
	mock.ExpectBegin()
	mock.ExpectExec("ALTER TABLE builds DROP COLUMN submitted_by").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM migration_ledger").
		WithArgs("20240101_add_col").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, r.Rollback("20240101_add_col"))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunnerRollbackUnknownMigration(t *testing.T) {
	db, mock := newMockConn(t)

	r := NewRunner(db, newTestSource(map[string]string{
		"20240101_add_col.sql": "ALTER TABLE builds ADD COLUMN submitted_by TEXT;",
	}))

	err := r.Rollback("20249999_missing")
	require.Error(t, err)
	assert.True(t, e.ContainsError(err, e.MsgMigrationDNE))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunnerRollbackNoReverseScript(t *testing.T) {
	db, mock := newMockConn(t)

	r := NewRunner(db, newTestSource(map[string]string{
		"20240101_add_col.sql": "ALTER TABLE builds ADD COLUMN submitted_by TEXT;",
	}))

	err := r.Rollback("20240101_add_col")
	require.Error(t, err)
	assert.True(t, e.ContainsError(err, e.MsgMigrationNoReverse))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunnerRollbackNotApplied(t *testing.T) {
	db, mock := newMockConn(t)

	r := NewRunner(db, newTestSource(map[string]string{
		"20240101_add_col.sql":      "ALTER TABLE builds ADD COLUMN submitted_by TEXT;",
		"20240101_add_col.down.sql": "ALTER TABLE builds DROP COLUMN submitted_by;",
	}))

	mock.ExpectQuery("SELECT migration_identifier, migration_checksum, migration_applied_at FROM migration_ledger WHERE").
		WithArgs("20240101_add_col").
		WillReturnRows(sqlmock.NewRows(ledgerCols))

	// No transaction is opened and no reverse statement runs
	err := r.Rollback("20240101_add_col")
	require.Error(t, err)
	assert.True(t, e.ContainsError(err, e.MsgLedgerEntryDNE))

	assert.NoError(t, mock.ExpectationsWereMet())
}
