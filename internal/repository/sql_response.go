package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/timesplit/internal/db"
	"github.com/alexanderramin/timesplit/internal/domain"
	"github.com/google/uuid"
)

// SQLResponseRepo implements ResponseRepo over SQLite or Postgres. Queries
// are written with ? placeholders; pass a DBTX from db.Wrap or a unit of
// work so they are rebound for the backend.
type SQLResponseRepo struct {
	db db.DBTX
}

// NewSQLResponseRepo creates a new SQLResponseRepo.
func NewSQLResponseRepo(conn db.DBTX) *SQLResponseRepo {
	return &SQLResponseRepo{db: conn}
}

const responseColumns = `id, name, team, role, time_allocation, created_at, updated_at`

func (r *SQLResponseRepo) Upsert(ctx context.Context, resp *domain.Response) error {
	alloc, err := encodeAllocation(resp.Allocation)
	if err != nil {
		return err
	}
	if resp.ID == "" {
		resp.ID = uuid.NewString()
	}
	if resp.CreatedAt.IsZero() {
		resp.CreatedAt = time.Now().UTC()
	}
	if resp.UpdatedAt.IsZero() {
		resp.UpdatedAt = resp.CreatedAt
	}

	query := `INSERT INTO survey_responses (` + responseColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (name) DO UPDATE SET
			team = excluded.team,
			role = excluded.role,
			time_allocation = excluded.time_allocation,
			updated_at = excluded.updated_at`

	_, err = r.db.ExecContext(ctx, query,
		resp.ID,
		resp.Name,
		resp.Team,
		string(resp.Role),
		alloc,
		db.FormatTime(resp.CreatedAt),
		db.FormatTime(resp.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("upserting response %q: %w", resp.Name, err)
	}

	// A replaced row keeps its original id and created_at.
	var id, created string
	err = r.db.QueryRowContext(ctx,
		`SELECT id, created_at FROM survey_responses WHERE name = ?`, resp.Name,
	).Scan(&id, &created)
	if err != nil {
		return fmt.Errorf("reading stored identity of %q: %w", resp.Name, err)
	}
	resp.ID = id
	resp.CreatedAt = parseStoredTime(created)
	return nil
}

func (r *SQLResponseRepo) GetByName(ctx context.Context, name string) (*domain.Response, error) {
	query := `SELECT ` + responseColumns + ` FROM survey_responses WHERE name = ?`
	resp, err := scanResponse(r.db.QueryRowContext(ctx, query, name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("response %q: %w", name, ErrNotFound)
		}
		return nil, err
	}
	return resp, nil
}

func (r *SQLResponseRepo) List(ctx context.Context, filter ResponseFilter) ([]*domain.Response, error) {
	var where []string
	var args []any
	if filter.Role != "" {
		where = append(where, "role = ?")
		args = append(args, string(filter.Role))
	}
	if filter.Team != "" {
		where = append(where, "team = ?")
		args = append(args, filter.Team)
	}
	if q := strings.TrimSpace(filter.NameQuery); q != "" {
		where = append(where, `LOWER(name) LIKE ? ESCAPE '\'`)
		args = append(args, likePattern(q))
	}

	query := `SELECT ` + responseColumns + ` FROM survey_responses`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY updated_at DESC, name`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing responses: %w", err)
	}
	defer rows.Close()

	var out []*domain.Response
	for rows.Next() {
		resp, err := scanResponse(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, resp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating responses: %w", err)
	}
	return out, nil
}

func (r *SQLResponseRepo) CountByRole(ctx context.Context) (map[domain.Role]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT role, COUNT(*) FROM survey_responses GROUP BY role`)
	if err != nil {
		return nil, fmt.Errorf("counting responses by role: %w", err)
	}
	defer rows.Close()

	counts := make(map[domain.Role]int)
	for rows.Next() {
		var role string
		var n int
		if err := rows.Scan(&role, &n); err != nil {
			return nil, fmt.Errorf("scanning role count: %w", err)
		}
		counts[domain.NormalizeRole(role)] += n
	}
	return counts, rows.Err()
}

func (r *SQLResponseRepo) Delete(ctx context.Context, name string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM survey_responses WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("deleting response %q: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking deleted rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("response %q: %w", name, ErrNotFound)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanResponse(s scanner) (*domain.Response, error) {
	var resp domain.Response
	var role, alloc, created, updated string
	if err := s.Scan(&resp.ID, &resp.Name, &resp.Team, &role, &alloc, &created, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning response: %w", err)
	}

	values, err := decodeAllocation(alloc)
	if err != nil {
		return nil, fmt.Errorf("response %q: %w", resp.Name, err)
	}
	resp.Role = domain.NormalizeRole(role)
	resp.Allocation = values
	resp.CreatedAt = parseStoredTime(created)
	resp.UpdatedAt = parseStoredTime(updated)
	return &resp, nil
}
