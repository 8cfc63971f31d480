package query

import (
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/traderisk/risk-backoffice/internal/core/domain"
)

// and folds conditions into a single match document.
func and(conds []bson.D) bson.D {
	switch len(conds) {
	case 0:
		return bson.D{}
	case 1:
		return conds[0]
	}
	all := make(bson.A, 0, len(conds))
	for _, c := range conds {
		all = append(all, c)
	}
	return bson.D{{Key: "$and", Value: all}}
}

func eq(field string, value any) bson.D {
	return bson.D{{Key: field, Value: value}}
}

// ObjectID parses a hex id, reporting a validation error naming what.
func ObjectID(hex, what string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, domain.NewValidationError(domain.CodeInvalidID, "invalid %s id", what)
	}
	return oid, nil
}

// objectIDs converts stored ids, dropping any that are not valid hex.
func objectIDs(hexes []string) bson.A {
	out := make(bson.A, 0, len(hexes))
	for _, h := range hexes {
		if oid, err := primitive.ObjectIDFromHex(h); err == nil {
			out = append(out, oid)
		}
	}
	return out
}

// contains is a case-insensitive literal substring match.
func contains(term string) bson.D {
	return bson.D{
		{Key: "$regex", Value: regexp.QuoteMeta(strings.TrimSpace(term))},
		{Key: "$options", Value: "i"},
	}
}

// between builds a range condition, or nil when both bounds are absent.
func between[T any](field string, from, to *T) bson.D {
	rng := bson.D{}
	if from != nil {
		rng = append(rng, bson.E{Key: "$gte", Value: *from})
	}
	if to != nil {
		rng = append(rng, bson.E{Key: "$lte", Value: *to})
	}
	if len(rng) == 0 {
		return nil
	}
	return eq(field, rng)
}

func dateRange(field string, from, to *time.Time) bson.D {
	return between(field, from, to)
}

func notDeleted() bson.D {
	return eq("isDeleted", bson.D{{Key: "$ne", Value: true}})
}
