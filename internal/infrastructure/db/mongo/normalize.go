package mongo

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/traderisk/risk-backoffice/internal/core/domain"
)

// toRecord converts a decoded document into plain Go values so the shaper
// never sees driver types.
func toRecord(doc bson.M) domain.Record {
	out := make(domain.Record, len(doc))
	for k, v := range doc {
		out[k] = normalize(v)
	}
	return out
}

func normalize(v any) any {
	switch t := v.(type) {
	case bson.M:
		return toRecord(t)
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, x := range t {
			out[k] = normalize(x)
		}
		return out
	case bson.D:
		out := make(map[string]any, len(t))
		for _, e := range t {
			out[e.Key] = normalize(e.Value)
		}
		return out
	case bson.A:
		return normalizeSlice(t)
	case []any:
		return normalizeSlice(t)
	case primitive.ObjectID:
		return t.Hex()
	case primitive.DateTime:
		return t.Time().UTC()
	case primitive.Decimal128:
		return t.String()
	case primitive.Null, primitive.Undefined:
		return nil
	}
	return v
}

func normalizeSlice(in []any) []any {
	out := make([]any, len(in))
	for i, x := range in {
		out[i] = normalize(x)
	}
	return out
}
