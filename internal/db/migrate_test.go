package db

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)

	// Run migrations a second time; it should succeed.
	require.NoError(t, Migrate(db, SQLite))
	require.NoError(t, Migrate(db, SQLite))
}

func TestMigrate_CreatesTableAndIndexes(t *testing.T) {
	db := openTestDB(t)

	var name string
	err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name='survey_responses'`).Scan(&name)
	require.NoError(t, err)

	for _, idx := range []string{
		"idx_survey_responses_team",
		"idx_survey_responses_role",
		"idx_survey_responses_updated",
	} {
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='index' AND name=?`, idx).Scan(&name)
		require.NoError(t, err, "index %s should exist", idx)
	}

	cols, err := tableColumns(t.Context(), db, SQLite, "survey_responses")
	require.NoError(t, err)
	for _, c := range []string{"id", "name", "team", "role", "time_allocation", "created_at", "updated_at"} {
		assert.True(t, cols[c], "column %s should exist", c)
	}
}

func TestMigrate_NameIsUnique(t *testing.T) {
	db := openTestDB(t)
	now := FormatTime(time.Now())

	insert := `INSERT INTO survey_responses (id, name, team, time_allocation, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`
	_, err := db.Exec(insert, "id-1", "Ada", "Platform", `{}`, now, now)
	require.NoError(t, err)
	_, err = db.Exec(insert, "id-2", "Ada", "Platform", `{}`, now, now)
	require.Error(t, err)
}

func TestMigrate_RoleDefaultsToServer(t *testing.T) {
	db := openTestDB(t)
	now := FormatTime(time.Now())

	_, err := db.Exec(`INSERT INTO survey_responses (id, name, team, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		"id-1", "Ada", "Platform", now, now)
	require.NoError(t, err)

	var role, alloc string
	require.NoError(t, db.QueryRow(`SELECT role, time_allocation FROM survey_responses WHERE id = 'id-1'`).Scan(&role, &alloc))
	assert.Equal(t, "server", role)
	assert.Equal(t, "{}", alloc)
}

func TestTimeLayout_OrdersLexically(t *testing.T) {
	early := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	late := early.Add(1500 * time.Millisecond)
	assert.Less(t, FormatTime(early), FormatTime(late))

	// A zone offset is normalized to UTC.
	loc := time.FixedZone("UTC+8", 8*3600)
	assert.Equal(t, "2024-03-01T01:00:00.000000Z", FormatTime(time.Date(2024, 3, 1, 9, 0, 0, 0, loc)))
}

func TestParseTime_Layouts(t *testing.T) {
	want := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	for _, s := range []string{
		"2024-03-01T09:30:00.000000Z",
		"2024-03-01T09:30:00Z",
		"2024-03-01T17:30:00+08:00",
		"2024-03-01 09:30:00",
	} {
		got, err := ParseTime(s)
		require.NoError(t, err, s)
		assert.True(t, want.Equal(got), "%s parsed as %s", s, got)
	}

	_, err := ParseTime("yesterday")
	assert.Error(t, err)
}
