package migration

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skyrin/go-migrate/e"
	"github.com/Skyrin/go-migrate/migration/model"
	gosql "github.com/Skyrin/go-migrate/sql"
)

func newMockConn(t *testing.T) (*gosql.Connection, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return &gosql.Connection{DB: db}, mock
}

func scriptUnit(id string, stmts ...string) *model.Unit {
	raw := ""
	for _, s := range stmts {
		raw += s + ";\n"
	}
	return &model.Unit{
		Identifier: id,
		Forward:    &model.Script{Raw: raw, Statements: stmts},
	}
}

func TestExecutorApply(t *testing.T) {
	db, mock := newMockConn(t)

	u := scriptUnit("20240101_add_col",
		"ALTER TABLE builds ADD COLUMN submitted_by TEXT",
		"UPDATE builds SET submitted_by = 'unknown'")

	mock.ExpectBegin()
	mock.ExpectExec("ALTER TABLE builds ADD COLUMN submitted_by TEXT").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("UPDATE builds SET submitted_by").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO migration_ledger").
		WithArgs(u.Identifier, u.Forward.Checksum(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	le, err := NewExecutor(db).Apply(u)
	require.NoError(t, err)
	assert.Equal(t, u.Identifier, le.Identifier)
	assert.Equal(t, u.Forward.Checksum(), le.Checksum)
	assert.Equal(t, time.UTC, le.AppliedAt.Location())
	assert.WithinDuration(t, time.Now().UTC(), le.AppliedAt, time.Minute)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecutorApplyStatementFailureRollsBack(t *testing.T) {
	db, mock := newMockConn(t)

	u := scriptUnit("20240102_set_not_null",
		"ALTER TABLE builds ADD COLUMN submitted_by TEXT",
		"ALTER TABLE builds ALTER COLUMN missing SET NOT NULL")

	mock.ExpectBegin()
	mock.ExpectExec("ALTER TABLE builds ADD COLUMN submitted_by TEXT").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("ALTER TABLE builds ALTER COLUMN missing SET NOT NULL").
		WillReturnError(&pq.Error{Code: "42703", Message: `column "missing" does not exist`})
	mock.ExpectRollback()

	_, err := NewExecutor(db).Apply(u)
	require.Error(t, err)
	assert.True(t, e.ContainsError(err, "statement: 1"))
	assert.True(t, e.ContainsError(err, u.Identifier))

	// The rollback expectation above also proves the ledger insert
	// never ran
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecutorApplyDuplicateEntryRollsBack(t *testing.T) {
	db, mock := newMockConn(t)

	u := scriptUnit("20240101_add_col",
		"ALTER TABLE builds ADD COLUMN submitted_by TEXT")

	mock.ExpectBegin()
	mock.ExpectExec("ALTER TABLE builds ADD COLUMN submitted_by TEXT").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO migration_ledger").
		WithArgs(u.Identifier, u.Forward.Checksum(), sqlmock.AnyArg()).
		WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value"})
	mock.ExpectRollback()

	_, err := NewExecutor(db).Apply(u)
	require.Error(t, err)
	assert.True(t, e.ContainsError(err, e.MsgLedgerEntryExists))

	assert.NoError(t, mock.ExpectationsWereMet())
}
