//go:generate mockgen -destination mock_userrepo/mock_userrepo.go github.com/localfy/notify-server/repo/userrepo UserRepo

package userrepo

import (
	"context"
	"errors"
	"time"

	"github.com/anyproto/any-sync/app"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/localfy/notify-server/db"
	"github.com/localfy/notify-server/domain"
)

const CName = "notify.userrepo"

const collName = "users"

var (
	ErrProfileNotFound = errors.New("profile not found")
)

func New() UserRepo {
	return new(userRepo)
}

type UserRepo interface {
	GetProfile(ctx context.Context, userId string) (profile domain.Profile, err error)
	RemoveTokens(ctx context.Context, tokens []string) (err error)
	app.ComponentRunnable
}

type userRepo struct {
	coll *mongo.Collection
}

func (r *userRepo) Init(a *app.App) (err error) {
	r.coll = a.MustComponent(db.CName).(db.Database).Db().Collection(collName)
	return
}

func (r *userRepo) Name() (name string) {
	return CName
}

func (r *userRepo) Run(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "devices.token", Value: 1}},
	})
	return err
}

func (r *userRepo) GetProfile(ctx context.Context, userId string) (profile domain.Profile, err error) {
	err = r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: userId}}).Decode(&profile)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.Profile{}, ErrProfileNotFound
	}
	return
}

// RemoveTokens drops the given tokens from every profile that carries them,
// both as the primary notification token and as device entries.
func (r *userRepo) RemoveTokens(ctx context.Context, tokens []string) (err error) {
	if len(tokens) == 0 {
		return nil
	}
	now := time.Now().Unix()
	if _, err = r.coll.UpdateMany(
		ctx,
		bson.D{{Key: "notificationToken", Value: bson.D{{Key: "$in", Value: tokens}}}},
		bson.D{
			{Key: "$unset", Value: bson.D{{Key: "notificationToken", Value: ""}}},
			{Key: "$set", Value: bson.D{{Key: "updated", Value: now}}},
		},
	); err != nil {
		return
	}
	_, err = r.coll.UpdateMany(
		ctx,
		bson.D{{Key: "devices.token", Value: bson.D{{Key: "$in", Value: tokens}}}},
		bson.D{
			{Key: "$pull", Value: bson.D{{Key: "devices", Value: bson.D{{Key: "token", Value: bson.D{{Key: "$in", Value: tokens}}}}}}},
			{Key: "$set", Value: bson.D{{Key: "updated", Value: now}}},
		},
	)
	return
}

func (r *userRepo) Close(ctx context.Context) (err error) {
	return nil
}
