package service

import (
	"context"

	"github.com/alexanderramin/timesplit/internal/contract"
	"github.com/alexanderramin/timesplit/internal/domain"
	"github.com/alexanderramin/timesplit/internal/importer"
)

// SurveyService stores and retrieves survey responses.
type SurveyService interface {
	// Submit validates req against the role's catalog and stores it,
	// replacing any earlier response under the same name.
	Submit(ctx context.Context, req contract.SubmitRequest) (*contract.SubmitResponse, error)
	Get(ctx context.Context, name string) (*domain.Response, error)
	List(ctx context.Context, req contract.ListRequest) ([]*domain.Response, error)
	Delete(ctx context.Context, name string) error
}

// ReportService aggregates stored responses for one role.
type ReportService interface {
	Report(ctx context.Context, req contract.ReportRequest) (*contract.ReportResponse, error)
}

// ImportService moves responses in and out of the JSON interchange format.
type ImportService interface {
	ImportResponses(ctx context.Context, filePath string) (*ImportResult, error)
	ImportResponsesFromSchema(ctx context.Context, schema *importer.ImportSchema) (*ImportResult, error)
	Export(ctx context.Context, req contract.ListRequest) (*importer.ImportSchema, error)
}

// AllocationService runs the allocation rules over caller-held state. It
// keeps nothing between calls.
type AllocationService interface {
	Init(ctx context.Context, req contract.InitAllocationRequest) (*contract.AllocationResponse, error)
	Edit(ctx context.Context, req contract.EditAllocationRequest) (*contract.AllocationResponse, error)
	AutoAdjust(ctx context.Context, req contract.AutoAdjustRequest) (*contract.AllocationResponse, error)
}

// ImportResult summarizes an applied import.
type ImportResult struct {
	Imported int
	Created  int
	Replaced int
	Names    []string
}
