package contract

import (
	"time"

	"github.com/alexanderramin/timesplit/internal/domain"
)

// SubmitRequest is one respondent's answer. Allocation keys must belong to
// the role's catalog; missing keys are stored as zero.
type SubmitRequest struct {
	Name       string             `json:"name"`
	Team       string             `json:"team"`
	Role       domain.Role        `json:"role,omitempty"`
	Allocation map[string]float64 `json:"time_allocation"`
}

type SubmitResponse struct {
	Response ResponseView `json:"response"`
	// Replaced is true when an earlier answer under the same name existed.
	Replaced bool   `json:"replaced"`
	Message  string `json:"message"`
}

// ResponseView is the transport shape of a stored response.
type ResponseView struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Team       string             `json:"team"`
	Role       domain.Role        `json:"role"`
	Allocation map[string]float64 `json:"time_allocation"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

func NewResponseView(r *domain.Response) ResponseView {
	alloc := make(map[string]float64, len(r.Allocation))
	for k, v := range r.Allocation {
		alloc[k] = v
	}
	return ResponseView{
		ID:         r.ID,
		Name:       r.Name,
		Team:       r.Team,
		Role:       r.Role,
		Allocation: alloc,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

type ListRequest struct {
	Role  domain.Role `json:"role,omitempty"`
	Team  string      `json:"team,omitempty"`
	Query string      `json:"q,omitempty"`
}
