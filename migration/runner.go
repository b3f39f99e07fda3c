package migration

import (
	"context"
	"fmt"

	"github.com/Skyrin/go-migrate/e"
	"github.com/Skyrin/go-migrate/migration/model"
	"github.com/Skyrin/go-migrate/migration/sqlmodel"
	"github.com/Skyrin/go-migrate/sql"
	"github.com/rs/zerolog/log"
)

const (
	ECode010401 = e.Code0104 + "01"
	ECode010402 = e.Code0104 + "02"
	ECode010403 = e.Code0104 + "03"
	ECode010404 = e.Code0104 + "04"
	ECode010405 = e.Code0104 + "05"
	ECode010406 = e.Code0104 + "06"
	ECode010407 = e.Code0104 + "07"
	ECode010408 = e.Code0104 + "08"
	ECode010409 = e.Code0104 + "09"
)

// Runner orchestrates a migration run: bootstrap the ledger table,
// load the applied set, compute the pending plan and apply each unit in
// order, stopping at the first failure. Units applied before a failure
// stay committed. Because each Apply is atomic, re-invoking the runner
// after the operator fixes the cause resumes at the failed unit without
// reapplying prior ones.
type Runner struct {
	db       *sql.Connection
	source   *Source
	executor *Executor
}

// NewRunner initializes a runner
func NewRunner(db *sql.Connection, src *Source) (r *Runner) {
	return &Runner{
		db:       db,
		source:   src,
		executor: NewExecutor(db),
	}
}

// Run applies all pending migrations in identifier order. The returned
// RunResult always lists the identifiers applied by this invocation;
// when the run stops early it also names the failed unit and the cause.
// Cancellation is honored between units only - a unit in flight always
// commits or rolls back before the context error is returned.
func (r *Runner) Run(ctx context.Context) (res *model.RunResult, err error) {
	res = &model.RunResult{}

	uList, err := r.source.Discover()
	if err != nil {
		res.Err = e.W(err, ECode010401)
		return res, res.Err
	}

	if err := sqlmodel.LedgerInstall(r.db); err != nil {
		res.Err = e.W(err, ECode010402)
		return res, res.Err
	}

	leList, err := sqlmodel.LedgerEntryGetAll(r.db)
	if err != nil {
		res.Err = e.W(err, ECode010403)
		return res, res.Err
	}

	p, err := Plan(uList, leList)
	if err != nil {
		res.Err = e.W(err, ECode010404)
		return res, res.Err
	}

	for _, u := range p.Units {
		if err := ctx.Err(); err != nil {
			res.Err = e.W(err, ECode010405, e.MsgMigrationRunCancelled)
			return res, res.Err
		}

		le, err := r.executor.Apply(u)
		if err != nil {
			res.Failed = u.Identifier
			res.Err = e.W(err, ECode010406,
				fmt.Sprintf("migration: %s", u.Identifier))
			return res, res.Err
		}

		res.Applied = append(res.Applied, le.Identifier)

		log.Info().Msgf("successfully migrated '%s' (%s)", u.Identifier, u.Label)
	}

	return res, nil
}

// Status reports applied vs pending units without mutating anything. A
// missing ledger table is treated as an empty ledger, so status works
// against a database that has never been migrated.
func (r *Runner) Status() (st *model.Status, err error) {
	uList, err := r.source.Discover()
	if err != nil {
		return nil, e.W(err, ECode010407)
	}

	leList, err := sqlmodel.LedgerEntryGetAll(r.db)
	if err != nil {
		if !e.ContainsError(err, e.MsgLedgerNotInstalled) {
			return nil, e.W(err, ECode010408)
		}
		leList = nil
	}

	p, err := Plan(uList, leList)
	if err != nil {
		return nil, e.W(err, ECode010409)
	}

	return &model.Status{
		Applied: leList,
		Pending: p.Units,
	}, nil
}
