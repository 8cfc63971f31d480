package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/traderisk/risk-backoffice/internal/core/domain"
	"github.com/traderisk/risk-backoffice/internal/core/ports"
	"github.com/traderisk/risk-backoffice/internal/core/query"
	"github.com/traderisk/risk-backoffice/internal/core/registry"
	"github.com/traderisk/risk-backoffice/internal/core/shaper"
)

type listService struct {
	registry *registry.Registry
	builder  *query.Builder
	columns  ports.ColumnService
	scopes   ports.ScopeResolver
	exec     ports.PipelineExecutor
	log      zerolog.Logger
}

// NewListService wires the list pipeline: preferences and scope feed the
// plan builder, the executor runs the plan and the shaper formats the rows.
func NewListService(
	reg *registry.Registry,
	builder *query.Builder,
	columns ports.ColumnService,
	scopes ports.ScopeResolver,
	exec ports.PipelineExecutor,
	log zerolog.Logger,
) ports.ListService {
	return &listService{
		registry: reg,
		builder:  builder,
		columns:  columns,
		scopes:   scopes,
		exec:     exec,
		log:      log,
	}
}

// List returns one page of module rows projected on the caller's columns.
func (s *listService) List(ctx context.Context, caller domain.Caller, req domain.ListRequest) (*domain.ListResult, error) {
	if req.Module == "" {
		return nil, domain.NewValidationError(domain.CodeModuleRequired, "columnFor is required")
	}
	m, err := s.registry.Get(req.Module)
	if err != nil {
		return nil, err
	}

	// 1. Column selection and access scope are independent reads.
	var (
		cols  domain.ColumnSet
		scope domain.AccessScope
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		cols, err = s.columns.GetColumns(gctx, caller.Owner(), m.Name)
		return err
	})
	g.Go(func() error {
		var err error
		scope, err = s.scopes.Resolve(gctx, caller)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// 2. Plan
	plan, err := s.builder.Build(query.Input{
		Module:  m,
		Columns: cols,
		Scope:   scope,
		Caller:  caller,
		Request: req,
	})
	if err != nil {
		return nil, err
	}

	// 3. Execute
	docs, total, err := s.exec.Execute(ctx, plan)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", m.Name, err)
	}

	// 4. Shape
	schema, err := s.builder.Schema(m.Name)
	if err != nil {
		return nil, err
	}
	return &domain.ListResult{
		Docs:    shaper.Rows(schema, m, plan.Columns, docs),
		Headers: m.Headers(m.Known(cols)),
		Total:   total,
		Page:    plan.Page,
		Limit:   plan.Limit,
		Pages:   domain.Pages(total, plan.Limit),
	}, nil
}

// Drawer returns every column of one record as labelled values.
func (s *listService) Drawer(ctx context.Context, caller domain.Caller, module, id string) ([]domain.DrawerField, error) {
	m, err := s.registry.Get(module)
	if err != nil {
		return nil, err
	}
	scope, err := s.scopes.Resolve(ctx, caller)
	if err != nil {
		return nil, err
	}

	all := make([]string, 0, len(m.Columns))
	for _, c := range m.Columns {
		all = append(all, c.Name)
	}
	plan, err := s.builder.Build(query.Input{
		Module:   m,
		Columns:  domain.NewColumnSet(all...),
		Scope:    scope,
		Caller:   caller,
		Request:  domain.ListRequest{Module: m.Name, Page: 1, Limit: 1},
		RecordID: id,
	})
	if err != nil {
		return nil, err
	}

	docs, _, err := s.exec.Execute(ctx, plan)
	if err != nil {
		return nil, fmt.Errorf("drawer %s: %w", m.Name, err)
	}
	if len(docs) == 0 {
		return nil, domain.ErrRecordNotFound
	}

	schema, err := s.builder.Schema(m.Name)
	if err != nil {
		return nil, err
	}
	return shaper.Drawer(schema, m, docs[0]), nil
}

// EntityOptions lists pickable records of one reference type.
func (s *listService) EntityOptions(ctx context.Context, caller domain.Caller, entityType, search string) ([]domain.EntityOption, error) {
	t, err := domain.ParseEntityType(entityType)
	if err != nil {
		return nil, err
	}
	scope, err := s.scopes.Resolve(ctx, caller)
	if err != nil {
		return nil, err
	}
	plan, err := s.builder.EntityOptions(t, scope, search)
	if err != nil {
		return nil, err
	}

	docs, _, err := s.exec.Execute(ctx, plan)
	if err != nil {
		return nil, fmt.Errorf("entity options %s: %w", t, err)
	}
	out := make([]domain.EntityOption, 0, len(docs))
	for _, d := range docs {
		id, _ := d["_id"].(string)
		name, _ := d["name"].(string)
		out = append(out, domain.EntityOption{ID: id, Name: name})
	}
	return out, nil
}
