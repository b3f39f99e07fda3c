package e

import (
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestN(t *testing.T) {
	err := N("010101", MsgMigrationDrift, "20230101_removed")
	require.Error(t, err)
	assert.True(t, ContainsError(err, "010101"))
	assert.True(t, ContainsError(err, MsgMigrationDrift))
	assert.True(t, ContainsError(err, "20230101_removed"))
	assert.True(t, Contains("010101", err))
}

func TestWPreservesCodes(t *testing.T) {
	base := N("010101", MsgLedgerEntryDNE)
	wrapped := W(base, "010201")

	assert.True(t, ContainsError(wrapped, "010101"))
	assert.True(t, ContainsError(wrapped, "010201"))
	assert.True(t, ContainsError(wrapped, MsgLedgerEntryDNE))
}

func TestIsPQError(t *testing.T) {
	pqErr := &pq.Error{Code: "23505", Message: "duplicate key value"}

	assert.True(t, IsPQError(pqErr, PQErr23505UniqueViolation))
	assert.False(t, IsPQError(pqErr, PQErr42P01))

	wrapped := W(pqErr, "010601")
	assert.True(t, IsPQError(wrapped, PQErr23505UniqueViolation))
	assert.True(t, IsAnyPQError(wrapped))

	assert.False(t, IsAnyPQError(N("010101", "not a pq error")))
}
