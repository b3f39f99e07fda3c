package sqlmodel

import (
	"fmt"
	"time"

	"github.com/Skyrin/go-migrate/e"
	"github.com/Skyrin/go-migrate/migration/model"
	"github.com/Skyrin/go-migrate/sql"
)

const (
	LedgerTableName     = "migration_ledger"
	LedgerDefaultSortBy = "migration_identifier"

	ECode010601 = e.Code0106 + "01"
	ECode010602 = e.Code0106 + "02"
	ECode010603 = e.Code0106 + "03"
	ECode010604 = e.Code0106 + "04"
	ECode010605 = e.Code0106 + "05"
	ECode010606 = e.Code0106 + "06"
	ECode010607 = e.Code0106 + "07"
	ECode010608 = e.Code0106 + "08"
	ECode010609 = e.Code0106 + "09"
	ECode01060A = e.Code0106 + "0A"
	ECode01060B = e.Code0106 + "0B"
	ECode01060C = e.Code0106 + "0C"
	ECode01060D = e.Code0106 + "0D"
)

// LedgerInstall creates the ledger table if it does not exist yet. This
// is the one operation allowed outside the plan/execute cycle and is
// safe to call on every run.
func LedgerInstall(db *sql.Connection) (err error) {
	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS ` + LedgerTableName + ` (
		migration_identifier TEXT NOT NULL PRIMARY KEY,
		migration_checksum TEXT NOT NULL,
		migration_applied_at TIMESTAMPTZ NOT NULL
	)`)
	if err != nil {
		return e.W(err, ECode010601)
	}

	return nil
}

// LedgerEntryGetParam get params
type LedgerEntryGetParam struct {
	Limit             uint64
	Offset            uint64
	Identifier        *string
	OrderByIdentifier string
}

// LedgerEntryGet performs select
func LedgerEntryGet(db *sql.Connection,
	p *LedgerEntryGetParam) (leList []*model.LedgerEntry, err error) {
	fields := `migration_identifier, migration_checksum, migration_applied_at`

	sb := db.Select(fields).From(LedgerTableName)

	if p.Limit > 0 {
		sb = sb.Limit(p.Limit)
	}

	if p.Offset > 0 {
		sb = sb.Offset(p.Offset)
	}

	if p.Identifier != nil {
		sb = sb.Where("migration_identifier=?", *p.Identifier)
	}

	if p.OrderByIdentifier != "" {
		sb = sb.OrderBy(fmt.Sprintf("%s %s", LedgerDefaultSortBy, p.OrderByIdentifier))
	}

	stmt, bindList, err := sb.ToSql()
	if err != nil {
		return nil, e.W(err, ECode010602)
	}

	rows, err := db.Query(stmt, bindList...)
	if err != nil {
		return nil, e.W(err, ECode010603,
			fmt.Sprintf("bindList: %v", bindList))
	}
	defer rows.Close()

	for rows.Next() {
		le := &model.LedgerEntry{}
		if err := rows.Scan(&le.Identifier, &le.Checksum, &le.AppliedAt); err != nil {
			return nil, e.W(err, ECode010604,
				fmt.Sprintf("stmt: %s | bindList: %v", stmt, bindList))
		}

		leList = append(leList, le)
	}

	return leList, nil
}

// LedgerEntryGetAll returns all entries sorted by identifier ascending.
// If the ledger table has not been installed yet, it reports
// MsgLedgerNotInstalled so callers can decide to bootstrap or treat the
// ledger as empty.
func LedgerEntryGetAll(db *sql.Connection) (leList []*model.LedgerEntry, err error) {
	leList, err = LedgerEntryGet(db, &LedgerEntryGetParam{
		OrderByIdentifier: "asc",
	})
	if err != nil {
		// Check for table does not exist error
		if e.IsPQError(err, e.PQErr42P01) {
			return nil, e.N(ECode010605, e.MsgLedgerNotInstalled)
		}
		return nil, e.W(err, ECode010606)
	}

	return leList, nil
}

// LedgerEntryGetByIdentifier returns the single entry recorded for the
// identifier, reporting MsgLedgerEntryDNE if it was never applied
func LedgerEntryGetByIdentifier(db *sql.Connection,
	identifier string) (le *model.LedgerEntry, err error) {
	sb := db.Select(`migration_identifier, migration_checksum, migration_applied_at`).
		From(LedgerTableName).
		Where("migration_identifier=?", identifier)

	stmt, bindList, err := sb.ToSql()
	if err != nil {
		return nil, e.W(err, ECode01060B)
	}

	le = &model.LedgerEntry{}
	row := db.QueryRow(stmt, bindList...)
	if err := row.Scan(&le.Identifier, &le.Checksum, &le.AppliedAt); err != nil {
		if e.IsNoRowsPQError(err) {
			return nil, e.N(ECode01060C, e.MsgLedgerEntryDNE, identifier)
		}
		return nil, e.W(err, ECode01060D,
			fmt.Sprintf("identifier: %s", identifier))
	}

	return le, nil
}

// LedgerEntryInsertParam insert params
type LedgerEntryInsertParam struct {
	Identifier string
	Checksum   string
	AppliedAt  time.Time
}

// LedgerEntryInsert performs insert. A unique violation means another
// runner already recorded this identifier and is reported as
// MsgLedgerEntryExists - the caller's transaction should be rolled back,
// not retried.
func LedgerEntryInsert(db *sql.Connection, ip *LedgerEntryInsertParam) (err error) {
	ib := db.Insert(LedgerTableName).
		Columns(`migration_identifier,migration_checksum,migration_applied_at`).
		Values(ip.Identifier, ip.Checksum, ip.AppliedAt)

	if err := db.ExecInsert(ib); err != nil {
		if e.IsPQError(err, e.PQErr23505UniqueViolation) {
			return e.N(ECode010607, e.MsgLedgerEntryExists, ip.Identifier)
		}
		return e.W(err, ECode010608,
			fmt.Sprintf("params: %s, %s", ip.Identifier, ip.Checksum))
	}

	return nil
}

// LedgerEntryDelete performs delete, used only by explicit rollback
func LedgerEntryDelete(db *sql.Connection, identifier string) (err error) {
	delB := db.Delete(LedgerTableName).
		Where("migration_identifier=?", identifier)

	count, err := db.ExecDelete(delB)
	if err != nil {
		return e.W(err, ECode010609, identifier)
	}

	if count == 0 {
		return e.N(ECode01060A, e.MsgLedgerEntryDNE, identifier)
	}

	return nil
}
