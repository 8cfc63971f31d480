package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/traderisk/risk-backoffice/internal/core/domain"
	"github.com/traderisk/risk-backoffice/internal/core/ports"
	"github.com/traderisk/risk-backoffice/internal/core/registry"
)

type ColumnService struct {
	registry *registry.Registry
	prefs    ports.PreferenceRepository
	log      zerolog.Logger
}

func NewColumnService(reg *registry.Registry, prefs ports.PreferenceRepository, log zerolog.Logger) *ColumnService {
	return &ColumnService{registry: reg, prefs: prefs, log: log}
}

// GetColumns returns the owner's selection for module, or the module defaults
// in registry order when none was stored.
func (s *ColumnService) GetColumns(ctx context.Context, owner domain.Owner, module string) (domain.ColumnSet, error) {
	m, err := s.registry.Get(module)
	if err != nil {
		return domain.ColumnSet{}, err
	}

	cols, found, err := s.prefs.GetColumns(ctx, owner, m.Name)
	if err != nil {
		return domain.ColumnSet{}, fmt.Errorf("get columns: %w", err)
	}
	if !found {
		return m.Defaults(), nil
	}
	return domain.NewColumnSet(cols...), nil
}

// SetColumns replaces the owner's selection for one module. A reset stores
// the defaults and ignores any supplied columns.
func (s *ColumnService) SetColumns(ctx context.Context, owner domain.Owner, in ports.SetColumnsInput) error {
	if in.Module == "" {
		return domain.NewValidationError(domain.CodeModuleRequired, "columnFor is required")
	}
	m, err := s.registry.Get(in.Module)
	if err != nil {
		return err
	}

	var next domain.ColumnSet
	if in.IsReset {
		next = m.Defaults()
	} else {
		if in.Columns == nil {
			return domain.NewValidationError(domain.CodeColumnsRequired, "columns are required")
		}
		var unknown []string
		for _, c := range in.Columns {
			if !m.HasColumn(c) {
				unknown = append(unknown, c)
			}
		}
		if len(unknown) > 0 {
			return domain.NewValidationError(domain.CodeUnknownColumn,
				"unknown columns for %s: %s", m.Name, strings.Join(unknown, ", "))
		}
		next = domain.NewColumnSet(in.Columns...)
	}

	if err := s.prefs.SetColumns(ctx, owner, m.Name, next.Names()); err != nil {
		return fmt.Errorf("set columns: %w", err)
	}

	s.log.Info().
		Str("owner_id", owner.ID).
		Str("module", m.Name).
		Bool("reset", in.IsReset).
		Int("columns", next.Len()).
		Msg("columns updated")
	return nil
}

// Catalog lists every column of module split into default and custom fields,
// flagged with the owner's current selection.
func (s *ColumnService) Catalog(ctx context.Context, owner domain.Owner, module string) (*domain.ColumnCatalog, error) {
	m, err := s.registry.Get(module)
	if err != nil {
		return nil, err
	}
	selected, err := s.GetColumns(ctx, owner, module)
	if err != nil {
		return nil, err
	}

	defaults := m.Defaults()
	out := &domain.ColumnCatalog{
		DefaultFields: []domain.ColumnOption{},
		CustomFields:  []domain.ColumnOption{},
	}
	for _, c := range m.Columns {
		opt := domain.ColumnOption{Name: c.Name, Label: c.Label, Type: c.Type, IsChecked: selected.Contains(c.Name)}
		if defaults.Contains(c.Name) {
			out.DefaultFields = append(out.DefaultFields, opt)
		} else {
			out.CustomFields = append(out.CustomFields, opt)
		}
	}
	return out, nil
}

// SeedDefaults stores the default selection of every module the owner has no
// selection for yet.
func (s *ColumnService) SeedDefaults(ctx context.Context, owner domain.Owner) (int, error) {
	names := s.registry.Names()
	prefs := make([]domain.ColumnPreference, 0, len(names))
	for _, name := range names {
		m, err := s.registry.Get(name)
		if err != nil {
			return 0, err
		}
		prefs = append(prefs, domain.ColumnPreference{ModuleName: m.Name, Columns: m.Defaults().Names()})
	}

	added, err := s.prefs.SeedMissing(ctx, owner, prefs)
	if err != nil {
		return 0, fmt.Errorf("seed columns: %w", err)
	}
	return added, nil
}
