package ports

import (
	"context"

	"github.com/traderisk/risk-backoffice/internal/core/domain"
)

// OverdueRepository reads the overdue rows of a reporting month.
type OverdueRepository interface {
	// FindByPeriod returns the unshaped rows of clientID for period, projected
	// on every overdue column with references resolved.
	FindByPeriod(ctx context.Context, clientID string, period domain.Period) ([]domain.Record, error)
}
