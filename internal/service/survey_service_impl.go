package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/alexanderramin/timesplit/internal/allocation"
	"github.com/alexanderramin/timesplit/internal/catalog"
	"github.com/alexanderramin/timesplit/internal/contract"
	"github.com/alexanderramin/timesplit/internal/db"
	"github.com/alexanderramin/timesplit/internal/domain"
	"github.com/alexanderramin/timesplit/internal/repository"
)

type surveyService struct {
	responses repository.ResponseRepo
	uow       db.UnitOfWork
	catalog   *catalog.Catalog
	observer  UseCaseObserver
	now       func() time.Time
}

func NewSurveyService(
	responses repository.ResponseRepo,
	uow db.UnitOfWork,
	cat *catalog.Catalog,
	observers ...UseCaseObserver,
) SurveyService {
	return &surveyService{
		responses: responses,
		uow:       uow,
		catalog:   cat,
		observer:  useCaseObserverOrNoop(observers),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *surveyService) Submit(ctx context.Context, req contract.SubmitRequest) (_ *contract.SubmitResponse, err error) {
	startedAt := time.Now()
	fields := map[string]any{"role": string(req.Role)}
	defer func() { observe(ctx, s.observer, "survey.submit", startedAt, fields, err) }()

	resp, err := buildResponse(s.catalog, req, s.now())
	if err != nil {
		return nil, err
	}
	fields["role"] = string(resp.Role)

	var replaced bool
	var stored *domain.Response
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		var upsertErr error
		replaced, stored, upsertErr = upsertResponse(ctx, repository.NewSQLResponseRepo(tx), resp)
		return upsertErr
	})
	if err != nil {
		return nil, fmt.Errorf("saving response: %w", err)
	}
	fields["replaced"] = replaced

	msg := fmt.Sprintf("Response saved for %s.", stored.Name)
	if replaced {
		msg = fmt.Sprintf("Response updated for %s.", stored.Name)
	}
	return &contract.SubmitResponse{
		Response: contract.NewResponseView(stored),
		Replaced: replaced,
		Message:  msg,
	}, nil
}

func (s *surveyService) Get(ctx context.Context, name string) (*domain.Response, error) {
	return s.responses.GetByName(ctx, strings.TrimSpace(name))
}

func (s *surveyService) List(ctx context.Context, req contract.ListRequest) ([]*domain.Response, error) {
	filter := repository.ResponseFilter{
		Team:      strings.TrimSpace(req.Team),
		NameQuery: req.Query,
	}
	if strings.TrimSpace(string(req.Role)) != "" {
		filter.Role = domain.NormalizeRole(string(req.Role))
	}
	return s.responses.List(ctx, filter)
}

func (s *surveyService) Delete(ctx context.Context, name string) (err error) {
	startedAt := time.Now()
	defer func() { observe(ctx, s.observer, "survey.delete", startedAt, nil, err) }()

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLResponseRepo(tx).Delete(ctx, strings.TrimSpace(name))
	})
}

// upsertResponse stores resp and reads it back. The bool reports whether a
// response with the same name existed before.
func upsertResponse(ctx context.Context, repo repository.ResponseRepo, resp *domain.Response) (bool, *domain.Response, error) {
	replaced := true
	if _, err := repo.GetByName(ctx, resp.Name); err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return false, nil, err
		}
		replaced = false
	}
	if err := repo.Upsert(ctx, resp); err != nil {
		return false, nil, err
	}
	stored, err := repo.GetByName(ctx, resp.Name)
	if err != nil {
		return false, nil, fmt.Errorf("reading back response: %w", err)
	}
	return replaced, stored, nil
}

// buildResponse applies the submission rules to req. Every allocation key of
// the role is present in the result; keys the request leaves out are zero.
func buildResponse(cat *catalog.Catalog, req contract.SubmitRequest, now time.Time) (*domain.Response, error) {
	name, team, err := domain.NormalizeIdentity(req.Name, req.Team)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	role := domain.NormalizeRole(string(req.Role))
	spec, ok := cat.Lookup(role)
	if !ok {
		return nil, validationError("unknown role %q", role)
	}

	var unknown []string
	for k, v := range req.Allocation {
		if !spec.HasKey(k) {
			unknown = append(unknown, k)
			continue
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, validationError("%s must be a number", k)
		}
		if v < allocation.MinValue || v > allocation.MaxValue {
			return nil, validationError("%s is %v, must be between 0 and 100", k, v)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, validationError("unknown fields for role %s: %s", role, strings.Join(unknown, ", "))
	}

	keys := spec.Keys()
	values := make(map[string]float64, len(keys))
	for _, k := range keys {
		values[k] = req.Allocation[k]
	}
	if !allocation.IsComplete(values, keys) {
		return nil, fmt.Errorf("%w (total is %.2f%%)", ErrIncompleteAllocation, allocation.State(values).Sum(keys))
	}

	return &domain.Response{
		Name:       name,
		Team:       team,
		Role:       role,
		Allocation: values,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}
