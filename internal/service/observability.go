package service

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"

	"github.com/alexanderramin/timesplit/internal/allocation"
	"github.com/alexanderramin/timesplit/internal/repository"
)

// UseCaseEvent describes one finished service call.
type UseCaseEvent struct {
	Name      string
	StartedAt time.Time
	Duration  time.Duration
	Success   bool
	Err       error
	Fields    map[string]any
}

const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// Outcome is OutcomeRejected for errors caused by the caller's input (bad
// submissions, unknown names, refused auto-adjusts) and OutcomeError for
// everything else.
func (e UseCaseEvent) Outcome() string {
	switch {
	case e.Err == nil:
		return OutcomeOK
	case errors.Is(e.Err, ErrValidation),
		errors.Is(e.Err, repository.ErrNotFound),
		errors.Is(e.Err, allocation.ErrOverLockedBudget),
		errors.Is(e.Err, allocation.ErrNoAdjustableFields):
		return OutcomeRejected
	default:
		return OutcomeError
	}
}

// UseCaseObserver receives an event after every service use case.
type UseCaseObserver interface {
	ObserveUseCase(ctx context.Context, event UseCaseEvent)
}

// NoopUseCaseObserver ignores all events.
type NoopUseCaseObserver struct{}

func (NoopUseCaseObserver) ObserveUseCase(context.Context, UseCaseEvent) {}

type logUseCaseObserver struct {
	logger *slog.Logger
}

// NewLogUseCaseObserver logs each event as "service_use_case": info when it
// succeeds, warn when the input was rejected and error otherwise.
func NewLogUseCaseObserver(logger *slog.Logger) UseCaseObserver {
	if logger == nil {
		return NoopUseCaseObserver{}
	}
	return &logUseCaseObserver{logger: logger}
}

func (o *logUseCaseObserver) ObserveUseCase(ctx context.Context, event UseCaseEvent) {
	outcome := event.Outcome()
	attrs := []slog.Attr{
		slog.String("use_case", event.Name),
		slog.String("outcome", outcome),
		slog.Int64("duration_ms", event.Duration.Milliseconds()),
	}

	names := make([]string, 0, len(event.Fields))
	for name := range event.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		attrs = append(attrs, slog.Any(name, event.Fields[name]))
	}

	level := slog.LevelInfo
	if event.Err != nil {
		attrs = append(attrs, slog.String("error", event.Err.Error()))
		level = slog.LevelError
		if outcome == OutcomeRejected {
			level = slog.LevelWarn
		}
	}
	o.logger.LogAttrs(ctx, level, "service_use_case", attrs...)
}

// observers fans an event out to several observers.
type observers []UseCaseObserver

func (all observers) ObserveUseCase(ctx context.Context, event UseCaseEvent) {
	for _, obs := range all {
		obs.ObserveUseCase(ctx, event)
	}
}

func useCaseObserverOrNoop(list []UseCaseObserver) UseCaseObserver {
	var live observers
	for _, obs := range list {
		if obs != nil {
			live = append(live, obs)
		}
	}
	switch len(live) {
	case 0:
		return NoopUseCaseObserver{}
	case 1:
		return live[0]
	default:
		return live
	}
}

func observe(ctx context.Context, obs UseCaseObserver, name string, startedAt time.Time, fields map[string]any, err error) {
	obs.ObserveUseCase(ctx, UseCaseEvent{
		Name:      name,
		StartedAt: startedAt,
		Duration:  time.Since(startedAt),
		Success:   err == nil,
		Err:       err,
		Fields:    fields,
	})
}
