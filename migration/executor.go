package migration

import (
	"fmt"
	"time"

	"github.com/Skyrin/go-migrate/e"
	"github.com/Skyrin/go-migrate/migration/model"
	"github.com/Skyrin/go-migrate/migration/sqlmodel"
	"github.com/Skyrin/go-migrate/sql"
)

const (
	ECode010301 = e.Code0103 + "01"
	ECode010302 = e.Code0103 + "02"
	ECode010303 = e.Code0103 + "03"
	ECode010304 = e.Code0103 + "04"
)

// Executor applies a single migration unit. The forward statements and
// the ledger insert run in one transaction, so a unit is either fully
// applied and recorded or not applied at all - never half applied.
type Executor struct {
	db *sql.Connection
}

// NewExecutor initializes an executor. The executor owns the
// connection's transaction for the duration of each Apply call.
func NewExecutor(db *sql.Connection) (x *Executor) {
	return &Executor{
		db: db,
	}
}

// Apply runs the unit's forward statements in order and records the
// ledger entry, all within one transaction. The recorded timestamp is a
// timezone aware UTC instant and the checksum covers the script's exact
// text. On any failure the whole transaction is rolled back.
func (x *Executor) Apply(u *model.Unit) (le *model.LedgerEntry, err error) {
	if err := x.db.Begin(); err != nil {
		return nil, e.W(err, ECode010301)
	}
	defer x.db.RollbackIfInTxn()

	for i, stmt := range u.Forward.Statements {
		if _, err := x.db.Exec(stmt); err != nil {
			return nil, e.W(err, ECode010302,
				fmt.Sprintf("migration: %s, statement: %d", u.Identifier, i))
		}
	}

	le = &model.LedgerEntry{
		Identifier: u.Identifier,
		Checksum:   u.Forward.Checksum(),
		AppliedAt:  time.Now().UTC(),
	}

	if err := sqlmodel.LedgerEntryInsert(x.db, &sqlmodel.LedgerEntryInsertParam{
		Identifier: le.Identifier,
		Checksum:   le.Checksum,
		AppliedAt:  le.AppliedAt,
	}); err != nil {
		return nil, e.W(err, ECode010303,
			fmt.Sprintf("migration: %s", u.Identifier))
	}

	if err := x.db.Commit(); err != nil {
		return nil, e.W(err, ECode010304)
	}

	return le, nil
}
