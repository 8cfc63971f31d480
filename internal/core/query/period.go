package query

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/traderisk/risk-backoffice/internal/core/domain"
)

// periodListLimit bounds a single month's overdue list.
const periodListLimit = 1000

// OverduePeriod lists every overdue row of one client for a reporting month,
// projected on all columns of module. The plan is meant to run without the
// pagination facet.
func (b *Builder) OverduePeriod(module domain.ModuleDescriptor, clientID string, p domain.Period) (*Plan, error) {
	schema, err := b.Schema(module.Name)
	if err != nil {
		return nil, err
	}
	oid, err := ObjectID(clientID, "client")
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(module.Columns))
	for _, c := range module.Columns {
		names = append(names, c.Name)
	}
	selected := domain.NewColumnSet(names...)

	match := []bson.D{
		notDeleted(),
		eq("clientId", oid),
		eq("month", p.MonthKey()),
		eq("year", p.YearKey()),
	}
	c := newContributions()
	for _, name := range selected.Names() {
		if contrib, ok := schema.Field(name).contribution(); ok {
			c.add(contrib)
		}
	}

	stages := mongo.Pipeline{{{Key: "$match", Value: and(match)}}}
	stages = append(stages, c.pipeline()...)
	stages = append(stages, bson.D{{Key: "$sort", Value: bson.D{{Key: "_id", Value: -1}}}})

	return &Plan{
		Collection: schema.Collection,
		Stages:     stages,
		Projection: projection(schema, selected),
		Page:       1,
		Limit:      periodListLimit,
		Columns:    selected,
	}, nil
}
