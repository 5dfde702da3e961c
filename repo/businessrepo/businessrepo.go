//go:generate mockgen -destination mock_businessrepo/mock_businessrepo.go github.com/localfy/notify-server/repo/businessrepo BusinessRepo

package businessrepo

import (
	"context"
	"errors"

	"github.com/anyproto/any-sync/app"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/localfy/notify-server/db"
	"github.com/localfy/notify-server/domain"
)

const CName = "notify.businessrepo"

const (
	collName            = "businesses"
	permissionsCollName = "business_permissions"
)

var (
	ErrBusinessNotFound = errors.New("business not found")
)

func New() BusinessRepo {
	return new(businessRepo)
}

type BusinessRepo interface {
	GetBusiness(ctx context.Context, businessId string) (business domain.Business, err error)
	GetStaffIds(ctx context.Context, businessId string, roles []string) (userIds []string, err error)
	app.ComponentRunnable
}

type businessRepo struct {
	coll        *mongo.Collection
	permissions *mongo.Collection
}

func (r *businessRepo) Init(a *app.App) (err error) {
	database := a.MustComponent(db.CName).(db.Database).Db()
	r.coll = database.Collection(collName)
	r.permissions = database.Collection(permissionsCollName)
	return
}

func (r *businessRepo) Name() (name string) {
	return CName
}

func (r *businessRepo) Run(ctx context.Context) error {
	_, err := r.permissions.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "businessId", Value: 1}, {Key: "role", Value: 1}},
	})
	return err
}

func (r *businessRepo) GetBusiness(ctx context.Context, businessId string) (business domain.Business, err error) {
	err = r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: businessId}}).Decode(&business)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.Business{}, ErrBusinessNotFound
	}
	return
}

type permissionUserId struct {
	UserId string `bson:"userId"`
}

// GetStaffIds returns the user ids holding any of the given roles on the
// business, in permission-record order.
func (r *businessRepo) GetStaffIds(ctx context.Context, businessId string, roles []string) (userIds []string, err error) {
	cur, err := r.permissions.Find(
		ctx,
		bson.D{
			{Key: "businessId", Value: businessId},
			{Key: "role", Value: bson.D{{Key: "$in", Value: roles}}},
		},
		options.Find().SetProjection(bson.M{"userId": 1}),
	)
	if err != nil {
		return
	}
	defer func() {
		_ = cur.Close(ctx)
	}()
	var docs []permissionUserId
	if err = cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	userIds = make([]string, len(docs))
	for i, d := range docs {
		userIds[i] = d.UserId
	}
	return
}

func (r *businessRepo) Close(ctx context.Context) (err error) {
	return nil
}
