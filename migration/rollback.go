package migration

import (
	"fmt"

	"github.com/Skyrin/go-migrate/e"
	"github.com/Skyrin/go-migrate/migration/model"
	"github.com/Skyrin/go-migrate/migration/sqlmodel"
	"github.com/rs/zerolog/log"
)

const (
	ECode010501 = e.Code0105 + "01"
	ECode010502 = e.Code0105 + "02"
	ECode010503 = e.Code0105 + "03"
	ECode010504 = e.Code0105 + "04"
	ECode010505 = e.Code0105 + "05"
	ECode010506 = e.Code0105 + "06"
	ECode010507 = e.Code0105 + "07"
	ECode010508 = e.Code0105 + "08"
)

// Rollback reverses a single applied migration: the unit's reverse
// statements and the ledger delete run in one transaction. It fails if
// the unit does not exist, has no reverse script, or was never recorded
// as applied.
func (r *Runner) Rollback(identifier string) (err error) {
	uList, err := r.source.Discover()
	if err != nil {
		return e.W(err, ECode010501)
	}

	var u *model.Unit
	for _, cand := range uList {
		if cand.Identifier == identifier {
			u = cand
			break
		}
	}
	if u == nil {
		return e.N(ECode010502, e.MsgMigrationDNE, identifier)
	}
	if u.Reverse == nil {
		return e.N(ECode010503, e.MsgMigrationNoReverse, identifier)
	}

	// Refuse before touching the database if the migration was never
	// recorded as applied
	if _, err := sqlmodel.LedgerEntryGetByIdentifier(r.db, identifier); err != nil {
		return e.W(err, ECode010508)
	}

	if err := r.db.Begin(); err != nil {
		return e.W(err, ECode010504)
	}
	defer r.db.RollbackIfInTxn()

	for i, stmt := range u.Reverse.Statements {
		if _, err := r.db.Exec(stmt); err != nil {
			return e.W(err, ECode010505,
				fmt.Sprintf("migration: %s, statement: %d", identifier, i))
		}
	}

	if err := sqlmodel.LedgerEntryDelete(r.db, identifier); err != nil {
		return e.W(err, ECode010506)
	}

	if err := r.db.Commit(); err != nil {
		return e.W(err, ECode010507)
	}

	log.Info().Msgf("rolled back '%s' (%s)", u.Identifier, u.Label)

	return nil
}
