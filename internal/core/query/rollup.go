package query

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/traderisk/risk-backoffice/internal/core/domain"
)

// RollupInput selects the overdue rows grouped by the monthly rollup.
type RollupInput struct {
	Scope    domain.AccessScope
	ClientID string
	Page     int
	Limit    int
}

func statusCount(status domain.OverdueStatus) bson.D {
	return bson.D{{Key: "$sum", Value: bson.D{{Key: "$cond", Value: bson.A{
		bson.D{{Key: "$eq", Value: bson.A{"$status", string(status)}}}, 1, 0,
	}}}}}
}

// OverdueRollup groups overdue rows by reporting month. Each group carries the
// debtor count, the summed outstanding amount, the debtors ordered by status
// and one count per status. Groups are ordered by submitted, pending and
// not-reportable counts, most first.
func (b *Builder) OverdueRollup(in RollupInput) (*Plan, error) {
	req := domain.ListRequest{Page: in.Page, Limit: in.Limit}.Normalized()

	match := []bson.D{notDeleted()}
	if in.ClientID != "" {
		oid, err := ObjectID(in.ClientID, "client")
		if err != nil {
			return nil, err
		}
		match = append(match, eq("clientId", oid))
	}
	if !in.Scope.FullAccess {
		match = append(match, eq("clientId", bson.D{{Key: "$in", Value: objectIDs(in.Scope.ClientIDs)}}))
	}

	stages := mongo.Pipeline{{{Key: "$match", Value: and(match)}}}
	stages = append(stages, debtorJoin.stages()...)
	stages = append(stages,
		bson.D{{Key: "$addFields", Value: bson.D{{Key: "statusRank", Value: bson.D{{Key: "$switch", Value: bson.D{
			{Key: "branches", Value: bson.A{
				bson.D{{Key: "case", Value: bson.D{{Key: "$eq", Value: bson.A{"$status", string(domain.OverdueSubmitted)}}}}, {Key: "then", Value: 1}},
				bson.D{{Key: "case", Value: bson.D{{Key: "$eq", Value: bson.A{"$status", string(domain.OverduePending)}}}}, {Key: "then", Value: 2}},
				bson.D{{Key: "case", Value: bson.D{{Key: "$eq", Value: bson.A{"$status", string(domain.OverdueNotReportable)}}}}, {Key: "then", Value: 3}},
			}},
			{Key: "default", Value: 4},
		}}}}}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "statusRank", Value: 1}, {Key: "_id", Value: -1}}}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.D{{Key: "month", Value: "$month"}, {Key: "year", Value: "$year"}}},
			{Key: "debtorCount", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "amounts", Value: bson.D{{Key: "$sum", Value: "$outstandingAmount"}}},
			{Key: "debtors", Value: bson.D{{Key: "$push", Value: bson.D{
				{Key: "_id", Value: "$_id"},
				{Key: "debtorId", Value: "$debtorId"},
				{Key: "name", Value: "$" + debtorJoin.as() + ".entityName"},
				{Key: "acn", Value: "$acn"},
				{Key: "overdueType", Value: "$overdueType"},
				{Key: "status", Value: "$status"},
				{Key: "outstandingAmount", Value: "$outstandingAmount"},
			}}}},
			{Key: "submitted", Value: statusCount(domain.OverdueSubmitted)},
			{Key: "pending", Value: statusCount(domain.OverduePending)},
			{Key: "notReportable", Value: statusCount(domain.OverdueNotReportable)},
			{Key: "reportedToInsurer", Value: statusCount(domain.OverdueReportedToInsurer)},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{
			{Key: "submitted", Value: -1},
			{Key: "pending", Value: -1},
			{Key: "notReportable", Value: -1},
			{Key: "_id.year", Value: -1},
			{Key: "_id.month", Value: -1},
		}}},
	)

	return &Plan{
		Collection: CollectionOverdues,
		Stages:     stages,
		Page:       req.Page,
		Limit:      req.Limit,
	}, nil
}
