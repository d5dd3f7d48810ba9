package testutil

import (
	"time"

	"github.com/alexanderramin/timesplit/internal/catalog"
	"github.com/alexanderramin/timesplit/internal/domain"
	"github.com/google/uuid"
)

type ResponseOption func(*domain.Response)

func WithTeam(team string) ResponseOption {
	return func(r *domain.Response) {
		r.Team = team
	}
}

// WithRole switches the role and resets the allocation to an equal split
// over that role's built-in categories.
func WithRole(role domain.Role) ResponseOption {
	return func(r *domain.Response) {
		r.Role = role
		r.Allocation = EqualAllocation(role)
	}
}

func WithAllocation(values map[string]float64) ResponseOption {
	return func(r *domain.Response) {
		r.Allocation = values
	}
}

func WithValue(key string, v float64) ResponseOption {
	return func(r *domain.Response) {
		if r.Allocation == nil {
			r.Allocation = map[string]float64{}
		}
		r.Allocation[key] = v
	}
}

func WithUpdatedAt(t time.Time) ResponseOption {
	return func(r *domain.Response) {
		r.UpdatedAt = t
	}
}

// NewTestResponse builds a server response whose allocation sums to 100.
func NewTestResponse(name string, opts ...ResponseOption) *domain.Response {
	now := time.Now().UTC()
	r := &domain.Response{
		ID:         uuid.New().String(),
		Name:       name,
		Team:       "Platform Server",
		Role:       domain.RoleServer,
		Allocation: EqualAllocation(domain.RoleServer),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// EqualAllocation splits 100 evenly over the built-in categories of role.
func EqualAllocation(role domain.Role) map[string]float64 {
	keys := catalog.Default().Resolve(role).Keys()
	out := make(map[string]float64, len(keys))
	for _, k := range keys {
		out[k] = 100 / float64(len(keys))
	}
	return out
}

// Allocation puts the whole budget on key and zero on the rest of role's
// built-in categories.
func Allocation(role domain.Role, key string) map[string]float64 {
	out := make(map[string]float64)
	for _, k := range catalog.Default().Resolve(role).Keys() {
		out[k] = 0
	}
	out[key] = 100
	return out
}
