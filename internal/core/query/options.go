package query

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/traderisk/risk-backoffice/internal/core/domain"
)

const optionsLimit = 20

// EntityOptions lists records of one reference variant by display name for
// pickers. Clients and debtors honour the access scope.
func (b *Builder) EntityOptions(t domain.EntityType, scope domain.AccessScope, search string) (*Plan, error) {
	target, ok := TargetFor(t)
	if !ok {
		return nil, domain.NewValidationError(domain.CodeInvalidEntity, "unknown entity type %q", t)
	}

	match := []bson.D{notDeleted()}
	if search != "" {
		match = append(match, eq(target.NameField, contains(search)))
	}

	var scoped mongo.Pipeline
	if !scope.FullAccess {
		visible := bson.D{{Key: "$in", Value: objectIDs(scope.ClientIDs)}}
		switch t {
		case domain.EntityClient:
			match = append(match, eq("_id", visible))
		case domain.EntityClientUser, domain.EntityApplication:
			match = append(match, eq("clientId", visible))
		case domain.EntityDebtor:
			scoped = append(scoped, debtorClientLinks.stages()...)
			scoped = append(scoped, bson.D{{Key: "$match", Value: eq(debtorClientLinks.as()+".clientId", visible)}})
		}
	}

	stages := mongo.Pipeline{{{Key: "$match", Value: and(match)}}}
	stages = append(stages, scoped...)
	stages = append(stages, bson.D{{Key: "$sort", Value: bson.D{{Key: target.NameField, Value: 1}, {Key: "_id", Value: -1}}}})

	return &Plan{
		Collection: target.Collection,
		Stages:     stages,
		Projection: bson.D{{Key: "_id", Value: 1}, {Key: "name", Value: "$" + target.NameField}},
		Page:       1,
		Limit:      optionsLimit,
	}, nil
}
