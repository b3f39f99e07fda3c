package migration

import (
	"sort"

	"github.com/Skyrin/go-migrate/e"
	"github.com/Skyrin/go-migrate/migration/model"
)

const (
	ECode010201 = e.Code0102 + "01"
	ECode010202 = e.Code0102 + "02"
)

// Plan computes the ordered subset of discovered units not yet present
// in the ledger. Pure function, no I/O, no mutation. A ledger identifier
// with no matching source unit means the recorded history has drifted
// from the discoverable units and the pending set may be unreliable, so
// it is reported as an error rather than silently ignored.
func Plan(uList []*model.Unit, leList []*model.LedgerEntry) (p *model.Plan, err error) {
	byID := make(map[string]*model.Unit, len(uList))
	for _, u := range uList {
		if _, ok := byID[u.Identifier]; ok {
			return nil, e.N(ECode010201, e.MsgMigrationDuplicate, u.Identifier)
		}
		byID[u.Identifier] = u
	}

	applied := make(map[string]bool, len(leList))
	for _, le := range leList {
		if _, ok := byID[le.Identifier]; !ok {
			return nil, e.N(ECode010202, e.MsgMigrationDrift, le.Identifier)
		}
		applied[le.Identifier] = true
	}

	p = &model.Plan{}
	for _, u := range uList {
		if !applied[u.Identifier] {
			p.Units = append(p.Units, u)
		}
	}

	sort.Slice(p.Units, func(i, j int) bool {
		return p.Units[i].Identifier < p.Units[j].Identifier
	})

	return p, nil
}
