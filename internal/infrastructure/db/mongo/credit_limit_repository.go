package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/traderisk/risk-backoffice/internal/core/domain"
	"github.com/traderisk/risk-backoffice/internal/core/query"
)

// CreditLimitRepository persists limits on client-debtors and the
// applications that change them.
type CreditLimitRepository struct {
	clientDebtors *mongo.Collection
	applications  *mongo.Collection
}

func NewCreditLimitRepository(db *mongo.Database) *CreditLimitRepository {
	return &CreditLimitRepository{
		clientDebtors: db.Collection(query.CollectionClientDebtors),
		applications:  db.Collection(query.CollectionApplications),
	}
}

type clientDebtorDoc struct {
	ID                  primitive.ObjectID  `bson:"_id"`
	ClientID            primitive.ObjectID  `bson:"clientId"`
	DebtorID            primitive.ObjectID  `bson:"debtorId"`
	CreditLimit         *float64            `bson:"creditLimit"`
	ActiveApplicationID *primitive.ObjectID `bson:"activeApplicationId"`
	Status              string              `bson:"creditLimitStatus"`
	IsActive            bool                `bson:"isActive"`
	UpdatedAt           time.Time           `bson:"updatedAt"`
}

func (d clientDebtorDoc) toDomain() *domain.ClientDebtor {
	cd := &domain.ClientDebtor{
		ID:        d.ID.Hex(),
		ClientID:  d.ClientID.Hex(),
		DebtorID:  d.DebtorID.Hex(),
		Status:    domain.CreditLimitStatus(d.Status),
		IsActive:  d.IsActive,
		UpdatedAt: d.UpdatedAt,
	}
	if d.CreditLimit != nil {
		cd.CreditLimit = *d.CreditLimit
	}
	if d.ActiveApplicationID != nil {
		cd.ActiveApplicationID = d.ActiveApplicationID.Hex()
	}
	return cd
}

type applicationDoc struct {
	ID             primitive.ObjectID `bson:"_id"`
	ApplicationID  string             `bson:"applicationId"`
	ClientID       primitive.ObjectID `bson:"clientId"`
	DebtorID       primitive.ObjectID `bson:"debtorId"`
	ClientDebtorID primitive.ObjectID `bson:"clientDebtorId"`
	CreditLimit    float64            `bson:"creditLimit"`
	Status         string             `bson:"status"`
	CreatedByType  string             `bson:"createdByType"`
	CreatedByID    primitive.ObjectID `bson:"createdById"`
	IsDeleted      bool               `bson:"isDeleted"`
	CreatedAt      time.Time          `bson:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt"`
}

// FindClientDebtor loads a non-deleted client-debtor link.
func (r *CreditLimitRepository) FindClientDebtor(ctx context.Context, id string) (*domain.ClientDebtor, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := query.ObjectID(id, "clientDebtorId")
	if err != nil {
		return nil, err
	}

	var doc clientDebtorDoc
	err = r.clientDebtors.FindOne(ctx, bson.D{
		{Key: "_id", Value: oid},
		{Key: "isDeleted", Value: bson.D{{Key: "$ne", Value: true}}},
	}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, storageError("find client debtor", err)
	}
	return doc.toDomain(), nil
}

// CreateApplication inserts app and sets its ID.
func (r *CreditLimitRepository) CreateApplication(ctx context.Context, app *domain.Application) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := applicationDoc{
		ID:            primitive.NewObjectID(),
		ApplicationID: app.ApplicationID,
		CreditLimit:   app.CreditLimit,
		Status:        string(app.Status),
		CreatedByType: string(app.CreatedByType),
		CreatedAt:     app.CreatedAt,
		UpdatedAt:     app.CreatedAt,
	}
	refs := []struct {
		hex string
		dst *primitive.ObjectID
	}{
		{app.ClientID, &doc.ClientID},
		{app.DebtorID, &doc.DebtorID},
		{app.ClientDebtorID, &doc.ClientDebtorID},
		{app.CreatedByID, &doc.CreatedByID},
	}
	for _, ref := range refs {
		oid, err := query.ObjectID(ref.hex, "reference")
		if err != nil {
			return err
		}
		*ref.dst = oid
	}

	if _, err := r.applications.InsertOne(ctx, doc); err != nil {
		return storageError("create application", err)
	}
	app.ID = doc.ID.Hex()
	return nil
}

// UpdateClientDebtor stores the limit, status and active application of cd.
func (r *CreditLimitRepository) UpdateClientDebtor(ctx context.Context, cd *domain.ClientDebtor) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := query.ObjectID(cd.ID, "clientDebtorId")
	if err != nil {
		return err
	}

	set := bson.D{
		{Key: "creditLimitStatus", Value: string(cd.Status)},
		{Key: "isActive", Value: cd.IsActive},
		{Key: "updatedAt", Value: cd.UpdatedAt},
	}
	update := bson.D{}
	if cd.Status == domain.CreditLimitInactive {
		update = append(update, bson.E{Key: "$unset", Value: bson.D{
			{Key: "creditLimit", Value: ""},
			{Key: "activeApplicationId", Value: ""},
		}})
	} else {
		set = append(set, bson.E{Key: "creditLimit", Value: cd.CreditLimit})
		if cd.ActiveApplicationID != "" {
			appID, err := query.ObjectID(cd.ActiveApplicationID, "activeApplicationId")
			if err != nil {
				return err
			}
			set = append(set, bson.E{Key: "activeApplicationId", Value: appID})
		}
	}
	update = append(update, bson.E{Key: "$set", Value: set})

	res, err := r.clientDebtors.UpdateOne(ctx, bson.D{{Key: "_id", Value: oid}}, update)
	if err != nil {
		return storageError("update client debtor", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}

// SetApplicationStatus moves an application to status.
func (r *CreditLimitRepository) SetApplicationStatus(ctx context.Context, id string, status domain.ApplicationStatus) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := query.ObjectID(id, "applicationId")
	if err != nil {
		return err
	}
	res, err := r.applications.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: oid}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "status", Value: string(status)},
			{Key: "updatedAt", Value: time.Now().UTC()},
		}}},
	)
	if err != nil {
		return storageError("set application status", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}

// EnsureIndexes creates the lookup indexes on client-debtors and applications.
func (r *CreditLimitRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if _, err := r.clientDebtors.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "clientId", Value: 1}, {Key: "debtorId", Value: 1}}},
	}); err != nil {
		return err
	}
	_, err := r.applications.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "applicationId", Value: 1}}},
		{Keys: bson.D{{Key: "clientDebtorId", Value: 1}, {Key: "status", Value: 1}}},
	})
	return err
}
