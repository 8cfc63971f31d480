package query

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/traderisk/risk-backoffice/internal/core/domain"
)

// Facet output fields.
const (
	FacetResults = "paginatedResult"
	FacetCount   = "totalCount"
)

// Plan is a built list query: the filtered, joined and sorted stages plus the
// page window and the projection applied to that page only.
type Plan struct {
	Collection string
	Stages     mongo.Pipeline
	Projection bson.D
	Page       int
	Limit      int
	// Columns are the projected columns in output order, extras included.
	Columns domain.ColumnSet
}

// Skip is the number of matching rows before the page.
func (p *Plan) Skip() int64 {
	if p.Page < 1 {
		return 0
	}
	return int64(p.Page-1) * int64(p.Limit)
}

// Pipeline renders the full aggregation: the stages followed by a facet that
// returns the page and the total of the same filtered set in one pass.
func (p *Plan) Pipeline() mongo.Pipeline {
	page := bson.A{
		bson.D{{Key: "$skip", Value: p.Skip()}},
		bson.D{{Key: "$limit", Value: int64(p.Limit)}},
	}
	if len(p.Projection) > 0 {
		page = append(page, bson.D{{Key: "$project", Value: p.Projection}})
	}

	out := make(mongo.Pipeline, 0, len(p.Stages)+1)
	out = append(out, p.Stages...)
	out = append(out, bson.D{{Key: "$facet", Value: bson.D{
		{Key: FacetResults, Value: page},
		{Key: FacetCount, Value: bson.A{bson.D{{Key: "$count", Value: "count"}}}},
	}}})
	return out
}

// Flat returns the plan stages with projection and limit but no facet.
func (p *Plan) Flat() mongo.Pipeline {
	out := make(mongo.Pipeline, 0, len(p.Stages)+2)
	out = append(out, p.Stages...)
	out = append(out, bson.D{{Key: "$limit", Value: int64(p.Limit)}})
	if len(p.Projection) > 0 {
		out = append(out, bson.D{{Key: "$project", Value: p.Projection}})
	}
	return out
}
