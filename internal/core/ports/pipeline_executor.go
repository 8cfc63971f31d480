package ports

import (
	"context"

	"github.com/traderisk/risk-backoffice/internal/core/domain"
	"github.com/traderisk/risk-backoffice/internal/core/query"
)

// PipelineExecutor runs built plans against storage.
type PipelineExecutor interface {
	// Execute returns the plan's page of raw documents and the size of the
	// whole filtered set.
	Execute(ctx context.Context, plan *query.Plan) (docs []domain.Record, total int64, err error)
}
