package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TimeLayout is how timestamps are stored. It is fixed-width UTC so that
// text ordering matches time ordering on both backends.
const TimeLayout = "2006-01-02T15:04:05.000000Z"

// FormatTime renders t in TimeLayout.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// ParseTime reads a timestamp written by FormatTime. It also accepts
// RFC 3339 and the "YYYY-MM-DD HH:MM:SS" form older rows used.
func ParseTime(s string) (time.Time, error) {
	for _, layout := range []string{TimeLayout, time.RFC3339Nano, "2006-01-02 15:04:05.999999999-07:00", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// legacyColumns are the per-category columns of the first, wide
// survey_responses table, in column order.
var legacyColumns = []string{
	"requirement_analysis",
	"requirement_output",
	"requirement_review",
	"task_breakdown",
	"technical_proposal_output",
	"technical_proposal_review",
	"test_case_output",
	"test_case_review",
	"code_development",
	"feature_integration",
	"smoke_testing",
	"functional_testing",
	"bugfix",
	"code_review",
	"feature_launch",
	"alert_management",
	"exception_logs",
	"daily_qa",
	"public_opinion",
	"meetings",
	"online_emergency",
}

const createResponsesTable = `CREATE TABLE IF NOT EXISTS %s (
	id              TEXT PRIMARY KEY,
	name            TEXT NOT NULL UNIQUE,
	team            TEXT NOT NULL,
	role            TEXT NOT NULL DEFAULT 'server',
	time_allocation TEXT NOT NULL DEFAULT '{}',
	created_at      TEXT NOT NULL,
	updated_at      TEXT NOT NULL
)`

var migrations = []string{
	fmt.Sprintf(createResponsesTable, "survey_responses"),
	// Tables created before roles existed.
	`ALTER TABLE survey_responses ADD COLUMN role TEXT NOT NULL DEFAULT 'server'`,
	`CREATE INDEX IF NOT EXISTS idx_survey_responses_team ON survey_responses(team)`,
	`CREATE INDEX IF NOT EXISTS idx_survey_responses_role ON survey_responses(role)`,
	`CREATE INDEX IF NOT EXISTS idx_survey_responses_updated ON survey_responses(updated_at)`,
}

// Migrate runs all schema migrations. It is safe to run on every open.
func Migrate(db *sql.DB, dialect Dialect) error {
	if err := migrateLegacyWideTable(db, dialect); err != nil {
		return fmt.Errorf("migrating legacy survey_responses: %w", err)
	}
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate re-adding a column the table already has, since the
			// migration system re-runs all statements.
			if isDuplicateColumn(err) {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

func isDuplicateColumn(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "duplicate column name") ||
		(strings.Contains(msg, "column") && strings.Contains(msg, "already exists"))
}

func tableColumns(ctx context.Context, conn DBTX, dialect Dialect, table string) (map[string]bool, error) {
	var query string
	switch dialect {
	case Postgres:
		query = `SELECT column_name FROM information_schema.columns WHERE table_schema = current_schema() AND table_name = ?`
	default:
		query = `SELECT name FROM pragma_table_info(?)`
	}
	rows, err := Wrap(conn, dialect).QueryContext(ctx, query, table)
	if err != nil {
		return nil, fmt.Errorf("listing columns of %s: %w", table, err)
	}
	defer rows.Close()

	cols := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning column name: %w", err)
		}
		cols[strings.ToLower(name)] = true
	}
	return cols, rows.Err()
}

type legacyRow struct {
	name, team string
	role       string
	values     map[string]float64
	createdAt  string
	updatedAt  string
}

// migrateLegacyWideTable rebuilds a survey_responses table that still has one
// column per category into the JSON layout. It does nothing when the table
// is absent or already has time_allocation.
func migrateLegacyWideTable(db *sql.DB, dialect Dialect) error {
	ctx := context.Background()

	cols, err := tableColumns(ctx, db, dialect, "survey_responses")
	if err != nil {
		return err
	}
	if len(cols) == 0 || cols["time_allocation"] {
		return nil
	}

	var present []string
	for _, c := range legacyColumns {
		if cols[c] {
			present = append(present, c)
		}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting migration transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	conn := Wrap(tx, dialect)

	rows, err := readLegacyRows(ctx, conn, present, cols["role"])
	if err != nil {
		return err
	}

	if _, err := conn.ExecContext(ctx, `DROP TABLE IF EXISTS survey_responses_new`); err != nil {
		return fmt.Errorf("dropping stale survey_responses_new: %w", err)
	}
	if _, err := conn.ExecContext(ctx, fmt.Sprintf(createResponsesTable, "survey_responses_new")); err != nil {
		return fmt.Errorf("creating survey_responses_new: %w", err)
	}

	for _, r := range rows {
		payload, err := json.Marshal(r.values)
		if err != nil {
			return fmt.Errorf("encoding allocation for %q: %w", r.name, err)
		}
		if _, err := conn.ExecContext(ctx, `INSERT INTO survey_responses_new
			(id, name, team, role, time_allocation, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			uuid.NewString(), r.name, r.team, r.role, string(payload), r.createdAt, r.updatedAt,
		); err != nil {
			return fmt.Errorf("copying response %q: %w", r.name, err)
		}
	}

	if _, err := conn.ExecContext(ctx, `DROP TABLE survey_responses`); err != nil {
		return fmt.Errorf("dropping old survey_responses: %w", err)
	}
	if _, err := conn.ExecContext(ctx, `ALTER TABLE survey_responses_new RENAME TO survey_responses`); err != nil {
		return fmt.Errorf("renaming survey_responses_new: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing survey_responses migration: %w", err)
	}
	committed = true
	return nil
}

func readLegacyRows(ctx context.Context, conn DBTX, present []string, hasRole bool) ([]legacyRow, error) {
	selectCols := []string{"name", "team", "created_at", "updated_at"}
	if hasRole {
		selectCols = append(selectCols, "role")
	}
	selectCols = append(selectCols, present...)

	rows, err := conn.QueryContext(ctx, `SELECT `+strings.Join(selectCols, ", ")+` FROM survey_responses`)
	if err != nil {
		return nil, fmt.Errorf("reading legacy rows: %w", err)
	}
	defer rows.Close()

	now := FormatTime(time.Now())
	var out []legacyRow
	for rows.Next() {
		var r legacyRow
		var created, updated any
		var role sql.NullString
		values := make([]sql.NullFloat64, len(present))
		dest := []any{&r.name, &r.team, &created, &updated}
		if hasRole {
			dest = append(dest, &role)
		}
		for i := range values {
			dest = append(dest, &values[i])
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scanning legacy row: %w", err)
		}

		r.role = "server"
		if role.Valid && role.String != "" {
			r.role = role.String
		}
		r.values = make(map[string]float64, len(present))
		for i, col := range present {
			r.values[col] = values[i].Float64
		}
		r.createdAt = legacyTime(created, now)
		r.updatedAt = legacyTime(updated, r.createdAt)
		out = append(out, r)
	}
	return out, rows.Err()
}

func legacyTime(v any, fallback string) string {
	switch t := v.(type) {
	case time.Time:
		return FormatTime(t)
	case string:
		if parsed, err := ParseTime(t); err == nil {
			return FormatTime(parsed)
		}
	case []byte:
		if parsed, err := ParseTime(string(t)); err == nil {
			return FormatTime(parsed)
		}
	}
	return fallback
}
