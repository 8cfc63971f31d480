package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/traderisk/risk-backoffice/internal/core/domain"
	"github.com/traderisk/risk-backoffice/internal/core/query"
	"github.com/traderisk/risk-backoffice/internal/core/registry"
)

// OverdueRepository reads whole monthly overdue lists.
type OverdueRepository struct {
	db      *mongo.Database
	builder *query.Builder
	module  domain.ModuleDescriptor
	timeout time.Duration
}

func NewOverdueRepository(db *mongo.Database, reg *registry.Registry, builder *query.Builder, timeout time.Duration) (*OverdueRepository, error) {
	m, err := reg.Get(registry.ModuleClientOverdue)
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = defaultQueryTimeout
	}
	return &OverdueRepository{db: db, builder: builder, module: m, timeout: timeout}, nil
}

// FindByPeriod returns the rows of clientID for period.
func (r *OverdueRepository) FindByPeriod(ctx context.Context, clientID string, period domain.Period) ([]domain.Record, error) {
	plan, err := r.builder.OverduePeriod(r.module, clientID, period)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	opts := options.Aggregate().SetAllowDiskUse(true).SetMaxTime(r.timeout)
	cur, err := r.db.Collection(plan.Collection).Aggregate(ctx, plan.Flat(), opts)
	if err != nil {
		return nil, storageError("overdue period", err)
	}
	defer cur.Close(ctx)

	var raw []bson.M
	if err := cur.All(ctx, &raw); err != nil {
		return nil, storageError("overdue period", err)
	}
	rows := make([]domain.Record, 0, len(raw))
	for _, d := range raw {
		rows = append(rows, toRecord(d))
	}
	return rows, nil
}

// EnsureIndexes creates the period and rollup indexes on overdues.
func (r *OverdueRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "clientId", Value: 1}, {Key: "year", Value: -1}, {Key: "month", Value: -1}}},
		{Keys: bson.D{{Key: "debtorId", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	}
	_, err := r.db.Collection(query.CollectionOverdues).Indexes().CreateMany(ctx, indexes)
	return err
}
