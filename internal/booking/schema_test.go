package booking

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The sqlmock tests hand-roll the same column lists the repository uses,
// so a drift between the repository and the migrated schema only surfaces
// against a live database. These tests pin the lists to the DDL instead.

func bookingSchemaColumns(t *testing.T, table string) map[string]bool {
	t.Helper()

	raw, err := os.ReadFile(filepath.Join("..", "..", "migrations", "0005_bookings.up.sql"))
	require.NoError(t, err)

	marker := "CREATE TABLE " + table + " ("
	start := strings.Index(string(raw), marker)
	require.NotEqual(t, -1, start, "table %s not found in migration", table)

	body := string(raw)[start+len(marker):]
	end := strings.Index(body, ");")
	require.NotEqual(t, -1, end)

	cols := make(map[string]bool)
	for _, line := range strings.Split(body[:end], "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		// Column definitions start with a lower-case identifier;
		// constraint lines (CHECK, CONSTRAINT) are upper-case.
		if !unicode.IsLower(rune(fields[0][0])) {
			continue
		}
		cols[fields[0]] = true
	}

	return cols
}

func TestEnrollmentColumnsExistInSchema(t *testing.T) {
	cols := bookingSchemaColumns(t, "enrollments")

	for _, col := range strings.Split(enrollmentColumns, ", ") {
		assert.True(t, cols[col], "enrollments DDL is missing column %q selected by the repository", col)
	}
}

func TestAdditionColumnsExistInSchema(t *testing.T) {
	cols := bookingSchemaColumns(t, "additions")

	additionColumns := []string{
		"id", "enrollment_id", "item_id", "item_name",
		"price_credits", "status", "created_at",
	}
	for _, col := range additionColumns {
		assert.True(t, cols[col], "additions DDL is missing column %q selected by the repository", col)
	}
}

// The repository filters additions on status = 'booked'; a row created
// with any other default would be invisible to the cancel path.
func TestAdditionStatusDefaultMatchesRepository(t *testing.T) {
	raw, err := os.ReadFile(filepath.Join("..", "..", "migrations", "0005_bookings.up.sql"))
	require.NoError(t, err)

	start := strings.Index(string(raw), "CREATE TABLE additions (")
	require.NotEqual(t, -1, start)
	end := strings.Index(string(raw)[start:], ");")
	require.NotEqual(t, -1, end)

	ddl := string(raw)[start : start+end]
	assert.Contains(t, ddl, "status        TEXT NOT NULL DEFAULT 'booked'")
}
