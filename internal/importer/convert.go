package importer

import (
	"strings"
	"time"

	"github.com/alexanderramin/timesplit/internal/contract"
	"github.com/alexanderramin/timesplit/internal/domain"
)

// Convert maps a validated schema to submission requests in file order.
func Convert(schema *ImportSchema) []contract.SubmitRequest {
	out := make([]contract.SubmitRequest, 0, len(schema.Responses))
	for _, r := range schema.Responses {
		alloc := make(map[string]float64, len(r.TimeAllocation))
		for k, v := range r.TimeAllocation {
			alloc[strings.TrimSpace(k)] = v
		}
		out = append(out, contract.SubmitRequest{
			Name:       r.Name,
			Team:       r.Team,
			Role:       domain.NormalizeRole(r.Role),
			Allocation: alloc,
		})
	}
	return out
}

// Export builds an import document from stored responses.
func Export(responses []*domain.Response, now time.Time) *ImportSchema {
	exportedAt := now.UTC()
	schema := &ImportSchema{
		Version:    SchemaVersion,
		ExportedAt: &exportedAt,
		Responses:  make([]ResponseImport, 0, len(responses)),
	}
	for _, r := range responses {
		updated := r.UpdatedAt
		alloc := make(map[string]float64, len(r.Allocation))
		for k, v := range r.Allocation {
			alloc[k] = v
		}
		schema.Responses = append(schema.Responses, ResponseImport{
			Name:           r.Name,
			Team:           r.Team,
			Role:           string(r.Role),
			TimeAllocation: alloc,
			UpdatedAt:      &updated,
		})
	}
	return schema
}
