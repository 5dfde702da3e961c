package notificationrepo

import (
	"context"
	"fmt"
	"testing"

	"github.com/anyproto/any-sync/app"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/localfy/notify-server/db"
	"github.com/localfy/notify-server/domain"
)

var ctx = context.Background()

func TestNotificationRepo_Create(t *testing.T) {
	fx := newFixture(t)
	require.NoError(t, fx.Create(ctx, domain.Notification{
		UserId:  "u1",
		Title:   "New message",
		Message: "hi",
		Type:    domain.NotificationTypeMessage,
	}))

	notifications, err := fx.ListUnread(ctx, "u1", FeedLimit)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.NotEmpty(t, notifications[0].Id)
	assert.NotZero(t, notifications[0].Created)
	assert.False(t, notifications[0].Read)
}

func TestNotificationRepo_ListUnread(t *testing.T) {
	fx := newFixture(t)
	for i := 0; i < 8; i++ {
		require.NoError(t, fx.Create(ctx, domain.Notification{
			Id:      fmt.Sprintf("n%d", i),
			UserId:  "u1",
			Title:   fmt.Sprintf("title %d", i),
			Type:    domain.NotificationTypeOrder,
			Created: int64(1000 + i),
		}))
	}
	require.NoError(t, fx.Create(ctx, domain.Notification{
		Id: "other", UserId: "u2", Type: domain.NotificationTypeOrder, Created: 2000,
	}))

	notifications, err := fx.ListUnread(ctx, "u1", 100)
	require.NoError(t, err)
	require.Len(t, notifications, FeedLimit)
	assert.Equal(t, "n7", notifications[0].Id)
	assert.Equal(t, "n3", notifications[FeedLimit-1].Id)

	notifications, err = fx.ListUnread(ctx, "u1", 2)
	require.NoError(t, err)
	require.Len(t, notifications, 2)
}

func TestNotificationRepo_MarkAllRead(t *testing.T) {
	fx := newFixture(t)
	for i := 0; i < 3; i++ {
		require.NoError(t, fx.Create(ctx, domain.Notification{
			Id:     fmt.Sprintf("n%d", i),
			UserId: "u1",
			Type:   domain.NotificationTypeReservation,
		}))
	}

	ids, err := fx.MarkAllRead(ctx, "u1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"n0", "n1", "n2"}, ids)

	notifications, err := fx.ListUnread(ctx, "u1", FeedLimit)
	require.NoError(t, err)
	assert.Empty(t, notifications)

	ids, err = fx.MarkAllRead(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func newFixture(t testing.TB) *fixture {
	fx := &fixture{
		NotificationRepo: New(),
		a:                new(app.App),
	}
	fx.a.Register(&testConfig{
		Mongo: db.Mongo{
			Connect:  "mongodb://localhost:27017",
			Database: "notify_unittest",
		},
	}).
		Register(db.New()).
		Register(fx.NotificationRepo)
	require.NoError(t, fx.a.Start(ctx))
	t.Cleanup(func() {
		fx.finish(t)
	})
	return fx
}

type fixture struct {
	NotificationRepo
	a *app.App
}

func (fx *fixture) finish(t testing.TB) {
	_ = fx.NotificationRepo.(*notificationRepo).coll.Drop(ctx)
	require.NoError(t, fx.a.Close(ctx))
}

type testConfig struct {
	Mongo db.Mongo
}

func (t testConfig) Init(a *app.App) (err error) {
	return
}

func (t testConfig) Name() (name string) {
	return "config"
}

func (t testConfig) GetMongo() db.Mongo {
	return t.Mongo
}
