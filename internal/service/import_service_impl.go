package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/timesplit/internal/catalog"
	"github.com/alexanderramin/timesplit/internal/contract"
	"github.com/alexanderramin/timesplit/internal/db"
	"github.com/alexanderramin/timesplit/internal/domain"
	"github.com/alexanderramin/timesplit/internal/importer"
	"github.com/alexanderramin/timesplit/internal/repository"
)

type importService struct {
	responses repository.ResponseRepo
	uow       db.UnitOfWork
	catalog   *catalog.Catalog
	observer  UseCaseObserver
	now       func() time.Time
}

func NewImportService(
	responses repository.ResponseRepo,
	uow db.UnitOfWork,
	cat *catalog.Catalog,
	observers ...UseCaseObserver,
) ImportService {
	return &importService{
		responses: responses,
		uow:       uow,
		catalog:   cat,
		observer:  useCaseObserverOrNoop(observers),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *importService) ImportResponses(ctx context.Context, filePath string) (*ImportResult, error) {
	schema, err := importer.LoadImportSchema(filePath)
	if err != nil {
		return nil, err
	}
	return s.ImportResponsesFromSchema(ctx, schema)
}

// ImportResponsesFromSchema validates every entry before writing any. The
// writes share one transaction, so a failure stores nothing.
func (s *importService) ImportResponsesFromSchema(ctx context.Context, schema *importer.ImportSchema) (_ *ImportResult, err error) {
	startedAt := time.Now()
	fields := map[string]any{"responses": len(schema.Responses)}
	defer func() { observe(ctx, s.observer, "import.responses", startedAt, fields, err) }()

	if errs := importer.ValidateImportSchema(schema); len(errs) > 0 {
		return nil, formatValidationErrors(errs)
	}

	now := s.now()
	reqs := importer.Convert(schema)
	batch := make([]*domain.Response, 0, len(reqs))
	var errs []error
	for i, req := range reqs {
		resp, err := buildResponse(s.catalog, req, now)
		if err != nil {
			errs = append(errs, fmt.Errorf("responses[%d] (%s): %w", i, req.Name, err))
			continue
		}
		if u := schema.Responses[i].UpdatedAt; u != nil {
			resp.UpdatedAt = u.UTC()
		}
		batch = append(batch, resp)
	}
	if len(errs) > 0 {
		return nil, formatValidationErrors(errs)
	}

	result := &ImportResult{}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := repository.NewSQLResponseRepo(tx)
		for _, resp := range batch {
			replaced, _, err := upsertResponse(ctx, repo, resp)
			if err != nil {
				return fmt.Errorf("importing %q: %w", resp.Name, err)
			}
			if replaced {
				result.Replaced++
			} else {
				result.Created++
			}
			result.Names = append(result.Names, resp.Name)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	result.Imported = len(batch)
	fields["created"] = result.Created
	fields["replaced"] = result.Replaced
	return result, nil
}

func (s *importService) Export(ctx context.Context, req contract.ListRequest) (*importer.ImportSchema, error) {
	list, err := NewSurveyService(s.responses, s.uow, s.catalog).List(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("loading responses: %w", err)
	}
	return importer.Export(list, s.now()), nil
}
