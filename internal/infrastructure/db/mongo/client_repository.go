package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/traderisk/risk-backoffice/internal/core/query"
)

// ClientRosterRepository answers which clients a risk user looks after.
type ClientRosterRepository struct {
	col *mongo.Collection
}

func NewClientRosterRepository(db *mongo.Database) *ClientRosterRepository {
	return &ClientRosterRepository{col: db.Collection(query.CollectionClients)}
}

// AssignedClientIDs returns the non-deleted clients where userID is the risk
// analyst or the service manager. An id that is not an ObjectID owns nothing.
func (r *ClientRosterRepository) AssignedClientIDs(ctx context.Context, userID string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return []string{}, nil
	}

	filter := bson.D{
		{Key: "isDeleted", Value: bson.D{{Key: "$ne", Value: true}}},
		{Key: "$or", Value: bson.A{
			bson.D{{Key: "riskAnalystId", Value: oid}},
			bson.D{{Key: "serviceManagerId", Value: oid}},
		}},
	}
	cur, err := r.col.Find(ctx, filter, options.Find().SetProjection(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, storageError("assigned clients", err)
	}
	defer cur.Close(ctx)

	ids := []string{}
	for cur.Next(ctx) {
		var doc struct {
			ID primitive.ObjectID `bson:"_id"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, storageError("decode client", err)
		}
		ids = append(ids, doc.ID.Hex())
	}
	if err := cur.Err(); err != nil {
		return nil, storageError("assigned clients", err)
	}
	return ids, nil
}

// EnsureIndexes creates the roster lookup indexes on clients.
func (r *ClientRosterRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "riskAnalystId", Value: 1}, {Key: "isDeleted", Value: 1}}},
		{Keys: bson.D{{Key: "serviceManagerId", Value: 1}, {Key: "isDeleted", Value: 1}}},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
