package model

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Unit is a single discovered migration. The identifier is the script's
// file name without the .sql extension and must sort chronologically
// (e.g. a timestamp prefix). Units are immutable once discovered.
type Unit struct {
	Identifier string
	Label      string
	Forward    *Script
	Reverse    *Script
}

// Script holds the raw text of a migration script along with the
// individual statements parsed from it
type Script struct {
	Raw        string
	Statements []string
}

// Checksum returns the hex encoded sha256 sum over the script's exact text
func (s *Script) Checksum() string {
	sum := sha256.Sum256([]byte(s.Raw))
	return hex.EncodeToString(sum[:])
}

// LedgerEntry records one applied migration. Created exactly once per
// applied unit, never mutated, deleted only by an explicit rollback
type LedgerEntry struct {
	Identifier string
	Checksum   string
	AppliedAt  time.Time
}

// Plan is the ordered set of migrations pending application, sorted by
// identifier ascending
type Plan struct {
	Units []*Unit
}

// RunResult reports the outcome of a single run: the identifiers applied
// in order, and if the run stopped early, the identifier that failed and
// the cause
type RunResult struct {
	Applied []string
	Failed  string
	Err     error
}

// Status reports applied vs pending units without mutating anything
type Status struct {
	Applied []*LedgerEntry
	Pending []*Unit
}
