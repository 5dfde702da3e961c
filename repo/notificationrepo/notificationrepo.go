//go:generate mockgen -destination mock_notificationrepo/mock_notificationrepo.go github.com/localfy/notify-server/repo/notificationrepo NotificationRepo

package notificationrepo

import (
	"context"
	"errors"
	"time"

	"github.com/anyproto/any-sync/app"
	"github.com/anyproto/any-sync/app/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/localfy/notify-server/db"
	"github.com/localfy/notify-server/domain"
)

const CName = "notify.notificationrepo"

const collName = "notifications"

// FeedLimit caps the live unread feed consumed by the client.
const FeedLimit = 5

var log = logger.NewNamed(CName)

func New() NotificationRepo {
	return new(notificationRepo)
}

type NotificationRepo interface {
	Create(ctx context.Context, n domain.Notification) (err error)
	ListUnread(ctx context.Context, userId string, limit int64) (notifications []domain.Notification, err error)
	MarkAllRead(ctx context.Context, userId string) (ids []string, err error)
	WatchUnread(ctx context.Context, userId string) (feed <-chan domain.Notification, err error)
	app.ComponentRunnable
}

type notificationRepo struct {
	coll *mongo.Collection
}

func (r *notificationRepo) Init(a *app.App) (err error) {
	r.coll = a.MustComponent(db.CName).(db.Database).Db().Collection(collName)
	return
}

func (r *notificationRepo) Name() (name string) {
	return CName
}

func (r *notificationRepo) Run(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "read", Value: 1}, {Key: "created", Value: -1}},
	})
	return err
}

func (r *notificationRepo) Create(ctx context.Context, n domain.Notification) (err error) {
	if n.Id == "" {
		n.Id = domain.NewRecordId()
	}
	if n.Created == 0 {
		n.Created = time.Now().Unix()
	}
	_, err = r.coll.InsertOne(ctx, n)
	return
}

// ListUnread returns the newest unread records first, capped at limit.
func (r *notificationRepo) ListUnread(ctx context.Context, userId string, limit int64) (notifications []domain.Notification, err error) {
	if limit <= 0 || limit > FeedLimit {
		limit = FeedLimit
	}
	cur, err := r.coll.Find(
		ctx,
		bson.D{{Key: "userId", Value: userId}, {Key: "read", Value: false}},
		options.Find().SetSort(bson.D{{Key: "created", Value: -1}}).SetLimit(limit),
	)
	if err != nil {
		return
	}
	defer func() {
		_ = cur.Close(ctx)
	}()
	err = cur.All(ctx, &notifications)
	return
}

type docId struct {
	Id string `bson:"_id"`
}

// MarkAllRead flags every unread record for the user and returns their ids.
func (r *notificationRepo) MarkAllRead(ctx context.Context, userId string) (ids []string, err error) {
	filter := bson.D{{Key: "userId", Value: userId}, {Key: "read", Value: false}}
	cur, err := r.coll.Find(ctx, filter, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return
	}
	var docs []docId
	if err = cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, nil
	}
	ids = make([]string, len(docs))
	for i, d := range docs {
		ids[i] = d.Id
	}
	_, err = r.coll.UpdateMany(
		ctx,
		bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: ids}}}},
		bson.D{{Key: "$set", Value: bson.D{{Key: "read", Value: true}}}},
	)
	return
}

type changeDoc struct {
	FullDocument domain.Notification `bson:"fullDocument"`
}

// WatchUnread streams newly inserted unread records for the user until ctx
// is done. Stream errors are logged and close the feed; they never propagate
// to the consumer.
func (r *notificationRepo) WatchUnread(ctx context.Context, userId string) (feed <-chan domain.Notification, err error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.D{
			{Key: "operationType", Value: "insert"},
			{Key: "fullDocument.userId", Value: userId},
			{Key: "fullDocument.read", Value: false},
		}}},
	}
	stream, err := r.coll.Watch(ctx, pipeline, options.ChangeStream().SetFullDocument(options.UpdateLookup))
	if err != nil {
		return nil, err
	}
	ch := make(chan domain.Notification)
	go func() {
		defer close(ch)
		defer func() {
			_ = stream.Close(context.Background())
		}()
		for stream.Next(ctx) {
			var doc changeDoc
			if err := stream.Decode(&doc); err != nil {
				log.Warn("decode change stream document", zap.Error(err))
				continue
			}
			select {
			case ch <- doc.FullDocument:
			case <-ctx.Done():
				return
			}
		}
		if err := stream.Err(); err != nil && !errors.Is(err, context.Canceled) {
			log.Warn("change stream closed", zap.String("userId", userId), zap.Error(err))
		}
	}()
	return ch, nil
}

func (r *notificationRepo) Close(ctx context.Context) (err error) {
	return nil
}
