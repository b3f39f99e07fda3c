package e

// This defines reusable error messages

const (
	MsgUnknownInternalServerError = "Unknown Internal Server Error"

	// migrations
	MsgMigrationIdentifierInvalid = "Invalid migration identifier"
	MsgMigrationDuplicate         = "Duplicate migration identifier"
	MsgMigrationScriptEmpty       = "Migration script contains no statements"
	MsgMigrationDrift             = "Ledger references a migration that no longer exists"
	MsgMigrationDNE               = "Migration does not exist"
	MsgMigrationNoReverse         = "Migration has no reverse script"
	MsgMigrationRunCancelled      = "Migration run cancelled"

	// ledger
	MsgLedgerEntryExists  = "Ledger entry already exists"
	MsgLedgerEntryDNE     = "Ledger entry does not exist"
	MsgLedgerNotInstalled = "Migration ledger not installed"
)
