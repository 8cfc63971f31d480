package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/traderisk/risk-backoffice/internal/core/domain"
	"github.com/traderisk/risk-backoffice/internal/core/query"
)

// PreferenceRepository stores column selections on the owning user or
// client-user document as manageColumns: [{moduleName, columns}].
type PreferenceRepository struct {
	users       *mongo.Collection
	clientUsers *mongo.Collection
}

func NewPreferenceRepository(db *mongo.Database) *PreferenceRepository {
	return &PreferenceRepository{
		users:       db.Collection(query.CollectionUsers),
		clientUsers: db.Collection(query.CollectionClientUsers),
	}
}

type manageColumnsDoc struct {
	ManageColumns []domain.ColumnPreference `bson:"manageColumns"`
}

func (r *PreferenceRepository) collection(t domain.CallerType) (*mongo.Collection, error) {
	switch t {
	case domain.CallerUser:
		return r.users, nil
	case domain.CallerClientUser:
		return r.clientUsers, nil
	}
	return nil, fmt.Errorf("preferences: unknown owner type %q: %w", t, domain.ErrUserNotFound)
}

func (r *PreferenceRepository) owner(owner domain.Owner) (*mongo.Collection, primitive.ObjectID, error) {
	col, err := r.collection(owner.Type)
	if err != nil {
		return nil, primitive.NilObjectID, err
	}
	oid, err := query.ObjectID(owner.ID, "user")
	if err != nil {
		return nil, primitive.NilObjectID, err
	}
	return col, oid, nil
}

// GetColumns returns the stored selection for module and whether one exists.
func (r *PreferenceRepository) GetColumns(ctx context.Context, owner domain.Owner, module string) ([]string, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	col, oid, err := r.owner(owner)
	if err != nil {
		return nil, false, err
	}

	opts := options.FindOne().SetProjection(bson.D{{Key: "manageColumns", Value: bson.D{
		{Key: "$elemMatch", Value: bson.D{{Key: "moduleName", Value: module}}},
	}}})
	var doc manageColumnsDoc
	err = col.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, false, domain.ErrUserNotFound
		}
		return nil, false, storageError("get columns", err)
	}
	if len(doc.ManageColumns) == 0 {
		return nil, false, nil
	}
	cols := doc.ManageColumns[0].Columns
	if cols == nil {
		cols = []string{}
	}
	return cols, true, nil
}

// SetColumns replaces the module entry, or appends it when missing. Other
// modules' entries are never touched.
func (r *PreferenceRepository) SetColumns(ctx context.Context, owner domain.Owner, module string, columns []string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	col, oid, err := r.owner(owner)
	if err != nil {
		return err
	}
	if columns == nil {
		columns = []string{}
	}

	replace := func() (bool, error) {
		res, err := col.UpdateOne(ctx,
			bson.D{{Key: "_id", Value: oid}, {Key: "manageColumns.moduleName", Value: module}},
			bson.D{{Key: "$set", Value: bson.D{{Key: "manageColumns.$.columns", Value: columns}}}},
		)
		if err != nil {
			return false, storageError("set columns", err)
		}
		return res.MatchedCount > 0, nil
	}

	if ok, err := replace(); err != nil || ok {
		return err
	}

	res, err := col.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: oid}, {Key: "manageColumns.moduleName", Value: bson.D{{Key: "$ne", Value: module}}}},
		bson.D{{Key: "$push", Value: bson.D{{Key: "manageColumns", Value: domain.ColumnPreference{ModuleName: module, Columns: columns}}}}},
	)
	if err != nil {
		return storageError("add columns", err)
	}
	if res.MatchedCount > 0 {
		return nil
	}

	// Either the owner is gone or a concurrent writer added the entry first.
	ok, err := replace()
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrUserNotFound
	}
	return nil
}

// SeedMissing appends the entries of prefs whose module the owner has no
// selection for. It returns how many were added.
func (r *PreferenceRepository) SeedMissing(ctx context.Context, owner domain.Owner, prefs []domain.ColumnPreference) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	col, oid, err := r.owner(owner)
	if err != nil {
		return 0, err
	}

	var doc manageColumnsDoc
	err = col.FindOne(ctx, bson.D{{Key: "_id", Value: oid}},
		options.FindOne().SetProjection(bson.D{{Key: "manageColumns.moduleName", Value: 1}})).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, domain.ErrUserNotFound
		}
		return 0, storageError("seed columns", err)
	}

	have := make(map[string]struct{}, len(doc.ManageColumns))
	for _, p := range doc.ManageColumns {
		have[p.ModuleName] = struct{}{}
	}
	var missing []domain.ColumnPreference
	var names []string
	for _, p := range prefs {
		if _, ok := have[p.ModuleName]; ok {
			continue
		}
		missing = append(missing, p)
		names = append(names, p.ModuleName)
	}
	if len(missing) == 0 {
		return 0, nil
	}

	res, err := col.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: oid}, {Key: "manageColumns.moduleName", Value: bson.D{{Key: "$nin", Value: names}}}},
		bson.D{{Key: "$push", Value: bson.D{{Key: "manageColumns", Value: bson.D{{Key: "$each", Value: missing}}}}}},
	)
	if err != nil {
		return 0, storageError("seed columns", err)
	}
	if res.ModifiedCount == 0 {
		return 0, nil
	}
	return len(missing), nil
}

// Owners lists every non-deleted owner of type t.
func (r *PreferenceRepository) Owners(ctx context.Context, t domain.CallerType) ([]domain.Owner, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	col, err := r.collection(t)
	if err != nil {
		return nil, err
	}
	cur, err := col.Find(ctx,
		bson.D{{Key: "isDeleted", Value: bson.D{{Key: "$ne", Value: true}}}},
		options.Find().SetProjection(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, storageError("list owners", err)
	}
	defer cur.Close(ctx)

	var owners []domain.Owner
	for cur.Next(ctx) {
		var doc struct {
			ID primitive.ObjectID `bson:"_id"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, storageError("decode owner", err)
		}
		owners = append(owners, domain.Owner{ID: doc.ID.Hex(), Type: t})
	}
	if err := cur.Err(); err != nil {
		return nil, storageError("list owners", err)
	}
	return owners, nil
}
