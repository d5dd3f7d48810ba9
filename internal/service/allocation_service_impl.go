package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/alexanderramin/timesplit/internal/allocation"
	"github.com/alexanderramin/timesplit/internal/catalog"
	"github.com/alexanderramin/timesplit/internal/contract"
	"github.com/alexanderramin/timesplit/internal/domain"
)

type allocationService struct {
	catalog  *catalog.Catalog
	observer UseCaseObserver
}

func NewAllocationService(cat *catalog.Catalog, observers ...UseCaseObserver) AllocationService {
	return &allocationService{
		catalog:  cat,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *allocationService) Init(ctx context.Context, req contract.InitAllocationRequest) (_ *contract.AllocationResponse, err error) {
	startedAt := time.Now()
	defer func() { observe(ctx, s.observer, "allocation.init", startedAt, nil, err) }()

	spec, err := s.lookup(req.Role)
	if err != nil {
		return nil, err
	}
	keys := spec.Keys()

	preset := spec.Preset
	if len(req.Preset) > 0 {
		if err := checkKnownKeys(spec, req.Preset); err != nil {
			return nil, err
		}
		preset = req.Preset
	}
	state := allocation.EqualSplit(keys)
	if len(preset) > 0 {
		state = allocation.Preset(keys, preset)
	}
	return allocationResponse(spec.Role, keys, state, nil), nil
}

func (s *allocationService) Edit(ctx context.Context, req contract.EditAllocationRequest) (_ *contract.AllocationResponse, err error) {
	startedAt := time.Now()
	defer func() { observe(ctx, s.observer, "allocation.edit", startedAt, map[string]any{"key": req.Key}, err) }()

	spec, err := s.lookup(req.Role)
	if err != nil {
		return nil, err
	}
	if err := checkKnownKeys(spec, req.Values); err != nil {
		return nil, err
	}
	if req.Value == nil {
		return nil, validationError("value is required")
	}

	keys := spec.Keys()
	next, err := allocation.ApplyEdit(allocation.Sanitize(req.Values, keys), keys, req.Key, *req.Value)
	if err != nil {
		return nil, engineError(err)
	}
	return allocationResponse(spec.Role, keys, next, nil), nil
}

func (s *allocationService) AutoAdjust(ctx context.Context, req contract.AutoAdjustRequest) (_ *contract.AllocationResponse, err error) {
	startedAt := time.Now()
	fields := map[string]any{"locked": len(req.Locked)}
	defer func() { observe(ctx, s.observer, "allocation.auto_adjust", startedAt, fields, err) }()

	spec, err := s.lookup(req.Role)
	if err != nil {
		return nil, err
	}
	if err := checkKnownKeys(spec, req.Values); err != nil {
		return nil, err
	}
	protected := make(map[string]bool, len(req.Locked))
	for _, k := range req.Locked {
		if !spec.HasKey(k) {
			return nil, validationError("unknown locked field %q", k)
		}
		protected[k] = true
	}

	keys := spec.Keys()
	next, err := allocation.Rebalance(allocation.Sanitize(req.Values, keys), keys, protected)
	if err != nil {
		return nil, engineError(err)
	}
	return allocationResponse(spec.Role, keys, next, req.Locked), nil
}

func (s *allocationService) lookup(role domain.Role) (catalog.RoleSpec, error) {
	spec, ok := s.catalog.Lookup(role)
	if !ok {
		return catalog.RoleSpec{}, validationError("unknown role %q", role)
	}
	return spec, nil
}

func checkKnownKeys(spec catalog.RoleSpec, values map[string]float64) error {
	var unknown []string
	for k := range values {
		if !spec.HasKey(k) {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	return validationError("unknown fields for role %s: %v", spec.Role, unknown)
}

// engineError marks caller mistakes as validation errors. Rejections caused
// by the lock budget are returned unchanged.
func engineError(err error) error {
	if errors.Is(err, allocation.ErrUnknownKey) || errors.Is(err, allocation.ErrInvalidValue) {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}
	return err
}

func allocationResponse(role domain.Role, keys []string, state allocation.State, locked []string) *contract.AllocationResponse {
	b := allocation.Measure(state, keys)
	values := make(map[string]float64, len(keys))
	for _, k := range keys {
		values[k] = state[k]
	}
	var lockedOut []string
	if len(locked) > 0 {
		lockedOut = append([]string(nil), locked...)
		sort.Strings(lockedOut)
	}
	return &contract.AllocationResponse{
		Role:       role,
		Keys:       keys,
		Values:     values,
		Locked:     lockedOut,
		Total:      b.Total,
		Difference: b.Difference,
		Complete:   b.Complete,
	}
}
