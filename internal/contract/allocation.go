package contract

import "github.com/alexanderramin/timesplit/internal/domain"

// InitAllocationRequest starts a form for Role. Preset overrides the
// catalog's preset for that role when non-empty.
type InitAllocationRequest struct {
	Role   domain.Role        `json:"role,omitempty"`
	Preset map[string]float64 `json:"preset,omitempty"`
}

// EditAllocationRequest applies one proportional edit to Values.
type EditAllocationRequest struct {
	Role   domain.Role        `json:"role,omitempty"`
	Values map[string]float64 `json:"values"`
	Key    string             `json:"key"`
	Value  *float64           `json:"value"`
}

// AutoAdjustRequest rebalances Values around the Locked keys.
type AutoAdjustRequest struct {
	Role   domain.Role        `json:"role,omitempty"`
	Values map[string]float64 `json:"values"`
	Locked []string           `json:"locked,omitempty"`
}

type AllocationResponse struct {
	Role       domain.Role        `json:"role"`
	Keys       []string           `json:"keys"`
	Values     map[string]float64 `json:"values"`
	Locked     []string           `json:"locked,omitempty"`
	Total      float64            `json:"total"`
	Difference float64            `json:"difference"`
	Complete   bool               `json:"complete"`
}
