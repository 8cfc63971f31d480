package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/traderisk/risk-backoffice/internal/core/domain"
	"github.com/traderisk/risk-backoffice/internal/core/ports"
	"github.com/traderisk/risk-backoffice/internal/core/query"
	"github.com/traderisk/risk-backoffice/internal/core/registry"
	"github.com/traderisk/risk-backoffice/internal/core/shaper"
)

type overdueService struct {
	registry *registry.Registry
	builder  *query.Builder
	scopes   ports.ScopeResolver
	exec     ports.PipelineExecutor
	overdues ports.OverdueRepository
	lookback int
	log      zerolog.Logger
}

// NewOverdueService returns the overdue service. lookback is the number of
// months LastList may step back; it is clamped to 1..MaxLookbackMonths.
func NewOverdueService(
	reg *registry.Registry,
	builder *query.Builder,
	scopes ports.ScopeResolver,
	exec ports.PipelineExecutor,
	overdues ports.OverdueRepository,
	lookback int,
	log zerolog.Logger,
) ports.OverdueService {
	if lookback <= 0 || lookback > domain.MaxLookbackMonths {
		lookback = domain.MaxLookbackMonths
	}
	return &overdueService{
		registry: reg,
		builder:  builder,
		scopes:   scopes,
		exec:     exec,
		overdues: overdues,
		lookback: lookback,
		log:      log,
	}
}

// Monthly returns one page of the month-by-month overdue rollup.
func (s *overdueService) Monthly(ctx context.Context, caller domain.Caller, in ports.MonthlyOverdueInput) (*domain.ListResult, error) {
	scope, err := s.scopes.Resolve(ctx, caller)
	if err != nil {
		return nil, err
	}
	if in.ClientID != "" && !scope.Allows(in.ClientID) {
		return nil, domain.ErrForbidden
	}

	plan, err := s.builder.OverdueRollup(query.RollupInput{
		Scope:    scope,
		ClientID: in.ClientID,
		Page:     in.Page,
		Limit:    in.Limit,
	})
	if err != nil {
		return nil, err
	}

	docs, total, err := s.exec.Execute(ctx, plan)
	if err != nil {
		return nil, fmt.Errorf("overdue rollup: %w", err)
	}
	return &domain.ListResult{
		Docs:    shaper.Rollup(docs),
		Headers: shaper.RollupHeaders(),
		Total:   total,
		Page:    plan.Page,
		Limit:   plan.Limit,
		Pages:   domain.Pages(total, plan.Limit),
	}, nil
}

// LastList finds the most recent overdue list of a client before period,
// stepping back one month at a time.
func (s *overdueService) LastList(ctx context.Context, caller domain.Caller, clientID string, period domain.Period) (*domain.LastOverdueList, error) {
	if clientID == "" {
		return nil, domain.NewValidationError(domain.CodeInvalidID, "clientId is required")
	}
	scope, err := s.scopes.Resolve(ctx, caller)
	if err != nil {
		return nil, err
	}
	if !scope.Allows(clientID) {
		return nil, domain.ErrForbidden
	}

	m, err := s.registry.Get(registry.ModuleClientOverdue)
	if err != nil {
		return nil, err
	}
	schema, err := s.builder.Schema(m.Name)
	if err != nil {
		return nil, err
	}
	all := make([]string, 0, len(m.Columns))
	for _, c := range m.Columns {
		all = append(all, c.Name)
	}
	columns := domain.NewColumnSet(all...)

	p := period
	for step := 1; step <= s.lookback; step++ {
		p = p.Previous()
		rows, err := s.overdues.FindByPeriod(ctx, clientID, p)
		if err != nil {
			return nil, fmt.Errorf("last overdue list %s: %w", p.Short(), err)
		}
		if len(rows) > 0 {
			return &domain.LastOverdueList{
				Period: p,
				Docs:   shaper.Rows(schema, m, columns, rows),
				Found:  true,
				Steps:  step,
			}, nil
		}
	}

	s.log.Debug().
		Str("client_id", clientID).
		Str("from", period.Short()).
		Int("months", s.lookback).
		Msg("no previous overdue list")
	return &domain.LastOverdueList{
		Docs:   []domain.Record{},
		Steps:  s.lookback,
		Reason: fmt.Sprintf("no overdue list in the %d months before %s", s.lookback, period.Long()),
	}, nil
}
