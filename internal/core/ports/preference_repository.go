package ports

import (
	"context"

	"github.com/traderisk/risk-backoffice/internal/core/domain"
)

// PreferenceRepository persists per-module column selections on the owning
// user or client-user record.
type PreferenceRepository interface {
	// GetColumns returns the stored selection; found is false when the owner
	// never stored one for module.
	GetColumns(ctx context.Context, owner domain.Owner, module string) (columns []string, found bool, err error)
	// SetColumns replaces the selection of one module, creating it if absent.
	SetColumns(ctx context.Context, owner domain.Owner, module string, columns []string) error
	// SeedMissing adds the given selections for modules the owner has none for.
	SeedMissing(ctx context.Context, owner domain.Owner, prefs []domain.ColumnPreference) (added int, err error)
	// Owners lists every owner of the given type.
	Owners(ctx context.Context, ownerType domain.CallerType) ([]domain.Owner, error)
}
