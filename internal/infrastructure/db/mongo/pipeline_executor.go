package mongo

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/traderisk/risk-backoffice/internal/core/domain"
	"github.com/traderisk/risk-backoffice/internal/core/query"
)

const defaultQueryTimeout = 30 * time.Second

// PipelineExecutor runs query plans as a single faceted aggregation.
type PipelineExecutor struct {
	db      *mongo.Database
	timeout time.Duration
	log     zerolog.Logger
}

// NewPipelineExecutor returns an executor bounding each aggregation by
// timeout, both client-side and through maxTimeMS.
func NewPipelineExecutor(db *mongo.Database, timeout time.Duration, log zerolog.Logger) *PipelineExecutor {
	if timeout <= 0 {
		timeout = defaultQueryTimeout
	}
	return &PipelineExecutor{db: db, timeout: timeout, log: log}
}

type facetResult struct {
	Results []bson.M `bson:"paginatedResult"`
	Count   []struct {
		Count int64 `bson:"count"`
	} `bson:"totalCount"`
}

// Execute returns the requested page of plan and the total match count.
func (e *PipelineExecutor) Execute(ctx context.Context, plan *query.Plan) ([]domain.Record, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	start := time.Now()
	opts := options.Aggregate().SetAllowDiskUse(true).SetMaxTime(e.timeout)
	cur, err := e.db.Collection(plan.Collection).Aggregate(ctx, plan.Pipeline(), opts)
	if err != nil {
		e.log.Error().Err(err).Str("collection", plan.Collection).Dur("elapsed", time.Since(start)).Msg("aggregate failed")
		return nil, 0, storageError("aggregate "+plan.Collection, err)
	}
	defer cur.Close(ctx)

	var facet facetResult
	if cur.Next(ctx) {
		if err := cur.Decode(&facet); err != nil {
			return nil, 0, storageError("decode "+plan.Collection, err)
		}
	}
	if err := cur.Err(); err != nil {
		return nil, 0, storageError("cursor "+plan.Collection, err)
	}

	docs := make([]domain.Record, 0, len(facet.Results))
	for _, d := range facet.Results {
		docs = append(docs, toRecord(d))
	}
	var total int64
	if len(facet.Count) > 0 {
		total = facet.Count[0].Count
	}

	e.log.Debug().
		Str("collection", plan.Collection).
		Int("stages", len(plan.Stages)).
		Int64("total", total).
		Dur("elapsed", time.Since(start)).
		Msg("plan executed")
	return docs, total, nil
}
