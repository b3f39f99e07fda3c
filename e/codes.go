package e

// Constants in here define error codes that are unique to a package/file.
// The first two characters define the package, within this repo, and the
// second two characters define the file within that package. Furthermore,
// when creating an error, the e.W or e.N func should be called with an
// ECode constant, which appends a two character unique id within the file.
//
// Valid values for the characters are: 0-9 and A-Z. Packages starting with a
// number should be reserved for packages within the go-migrate repository.
// Other repository packages may use any code starting with a letter. Note,
// this does not guarantee uniqueness across all repos, but it is assumed
// that other repos will not include eachother. If they do, some extra checks
// should be taken to ensure unique error codes.

const (
	// package: migration
	Code0101 = "0101" // package:migration | migration/source.go
	Code0102 = "0102" // package:migration | migration/planner.go
	Code0103 = "0103" // package:migration | migration/executor.go
	Code0104 = "0104" // package:migration | migration/runner.go
	Code0105 = "0105" // package:migration | migration/rollback.go
	Code0106 = "0106" // package:migration/sqlmodel | migration/sqlmodel/ledger.go

	// package: sql
	Code0201 = "0201" // package:sql | sql/sql.go
	Code0202 = "0202" // package:sql | sql/row.go
	Code0203 = "0203" // package:sql | sql/rows.go
)
