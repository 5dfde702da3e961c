//go:generate mockgen -destination mock_badge/mock_badge.go github.com/localfy/notify-server/badge Store,Batch

package badge

import (
	"context"
	"time"

	"github.com/anyproto/any-sync/app"
	"github.com/anyproto/any-sync/app/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/localfy/notify-server/db"
)

const CName = "notify.badge"

const collName = "users"

var log = logger.NewNamed(CName)

func New() Store {
	return new(store)
}

// Store maintains the per-user unread counter on the user document.
type Store interface {
	// NewBatch starts an empty staging batch. All increments for one event
	// go into the same batch and are committed once.
	NewBatch() Batch
	// Reset sets a user's counter back to zero.
	Reset(ctx context.Context, userId string) (err error)
	app.ComponentRunnable
}

// Batch stages badge increments and applies them in a single bulk write.
type Batch interface {
	Increment(userId string)
	Len() int
	Commit(ctx context.Context) (err error)
}

type store struct {
	coll *mongo.Collection
}

func (s *store) Init(a *app.App) (err error) {
	s.coll = a.MustComponent(db.CName).(db.Database).Db().Collection(collName)
	return
}

func (s *store) Name() (name string) {
	return CName
}

func (s *store) Run(ctx context.Context) error {
	return nil
}

func (s *store) NewBatch() Batch {
	return &batch{coll: s.coll}
}

func (s *store) Reset(ctx context.Context, userId string) (err error) {
	_, err = s.coll.UpdateByID(
		ctx,
		userId,
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "badgeCount", Value: 0},
			{Key: "updated", Value: time.Now().Unix()},
		}}},
	)
	if err != nil {
		log.Warn("reset badge", zap.String("userId", userId), zap.Error(err))
	}
	return
}

func (s *store) Close(ctx context.Context) (err error) {
	return nil
}

type batch struct {
	coll   *mongo.Collection
	models []mongo.WriteModel
}

func (b *batch) Increment(userId string) {
	b.models = append(b.models, mongo.NewUpdateOneModel().
		SetFilter(bson.D{{Key: "_id", Value: userId}}).
		SetUpdate(bson.D{
			{Key: "$inc", Value: bson.D{{Key: "badgeCount", Value: 1}}},
			{Key: "$set", Value: bson.D{{Key: "updated", Value: time.Now().Unix()}}},
		}))
}

func (b *batch) Len() int {
	return len(b.models)
}

func (b *batch) Commit(ctx context.Context) (err error) {
	if len(b.models) == 0 {
		return nil
	}
	_, err = b.coll.BulkWrite(ctx, b.models)
	return
}
