package contract

import (
	"time"

	"github.com/alexanderramin/timesplit/internal/catalog"
	"github.com/alexanderramin/timesplit/internal/domain"
)

type ReportRequest struct {
	// Role selects whose responses are aggregated. Empty means the
	// catalog's default role.
	Role domain.Role
	// Team restricts every section of the report except RoleCounts.
	Team string
	// Search filters Rows by a case-insensitive substring of the name.
	Search string
}

func NewReportRequest() ReportRequest {
	return ReportRequest{Role: domain.DefaultRole}
}

type ReportResponse struct {
	Role      domain.Role `json:"role"`
	RoleLabel string      `json:"role_label"`
	// Stats is nil when no response matches.
	Stats         *ReportStats    `json:"stats"`
	FieldAverages []GroupAverages `json:"field_averages"`
	Teams         []TeamStat      `json:"teams"`
	RoleCounts    []RoleCount     `json:"role_counts"`
	Rows          []ReportRow     `json:"rows"`
}

type ReportStats struct {
	TotalResponses int     `json:"total_responses"`
	AvgDevelopment float64 `json:"avg_development"`
	AvgDaily       float64 `json:"avg_daily"`
}

type GroupAverages struct {
	Group  catalog.GroupID `json:"group"`
	Title  string          `json:"title"`
	Fields []FieldAverage  `json:"fields"`
}

type FieldAverage struct {
	Key     string  `json:"key"`
	Label   string  `json:"label"`
	Average float64 `json:"average"`
}

type TeamStat struct {
	Team           string  `json:"team"`
	Count          int     `json:"count"`
	AvgDevelopment float64 `json:"avg_development"`
	AvgDaily       float64 `json:"avg_daily"`
}

type RoleCount struct {
	Role  domain.Role `json:"role"`
	Label string      `json:"label"`
	Count int         `json:"count"`
}

type ReportRow struct {
	Name        string             `json:"name"`
	Team        string             `json:"team"`
	Development float64            `json:"development"`
	Daily       float64            `json:"daily"`
	Total       float64            `json:"total"`
	Complete    bool               `json:"complete"`
	Allocation  map[string]float64 `json:"time_allocation"`
	UpdatedAt   time.Time          `json:"updated_at"`
}
