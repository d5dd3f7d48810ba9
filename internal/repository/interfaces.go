package repository

import (
	"context"
	"errors"

	"github.com/alexanderramin/timesplit/internal/domain"
)

// ErrNotFound is wrapped by every lookup that matches no row.
var ErrNotFound = errors.New("not found")

// ResponseFilter narrows List. Zero fields match everything.
type ResponseFilter struct {
	Role domain.Role
	Team string
	// NameQuery is a case-insensitive substring of the respondent name.
	NameQuery string
}

type ResponseRepo interface {
	// Upsert inserts r or, when a response with the same name exists,
	// replaces its team, role, allocation and updated_at. It sets r.ID and
	// r.CreatedAt to the stored values.
	Upsert(ctx context.Context, r *domain.Response) error
	GetByName(ctx context.Context, name string) (*domain.Response, error)
	// List returns matches ordered by updated_at, newest first.
	List(ctx context.Context, filter ResponseFilter) ([]*domain.Response, error)
	CountByRole(ctx context.Context) (map[domain.Role]int, error)
	Delete(ctx context.Context, name string) error
}
