package database

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tableStatement(t *testing.T, table string) string {
	t.Helper()
	for _, statement := range schema {
		if strings.Contains(statement, "CREATE TABLE IF NOT EXISTS "+table+" (") {
			return statement
		}
	}
	require.Failf(t, "missing table", "table %s", table)
	return ""
}

func columnLine(statement, column string) string {
	for _, line := range strings.Split(statement, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), column+" ") {
			return line
		}
	}
	return ""
}

func TestSchema_CreatesEveryTable(t *testing.T) {
	tables := []string{"users", "groups", "group_members", "expenses", "expense_splits", "settlements", "notifications", "events"}

	for _, table := range tables {
		tableStatement(t, table)
	}
}

func TestSchema_IsRerunnable(t *testing.T) {
	guarded := regexp.MustCompile(`IF (NOT )?EXISTS`)
	for _, statement := range schema {
		assert.Regexp(t, guarded, statement)
	}
}

func TestSchema_GroupDeleteKeepsLedger(t *testing.T) {
	for _, table := range []string{"expenses", "settlements"} {
		line := columnLine(tableStatement(t, table), "group_id")
		require.NotEmpty(t, line, "%s has no group_id column", table)
		assert.NotContains(t, line, "ON DELETE CASCADE", table)
		assert.NotContains(t, line, "REFERENCES groups", table)
	}

	for _, fk := range []string{"expenses_group_id_fkey", "settlements_group_id_fkey"} {
		found := false
		for _, statement := range schema {
			if strings.Contains(statement, "DROP CONSTRAINT IF EXISTS "+fk) {
				found = true
			}
		}
		assert.True(t, found, "no upgrade statement drops %s", fk)
	}
}
