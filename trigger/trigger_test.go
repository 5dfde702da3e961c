package trigger

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/anyproto/any-sync/app"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/localfy/notify-server/badge"
	"github.com/localfy/notify-server/badge/mock_badge"
	"github.com/localfy/notify-server/dispatch"
	"github.com/localfy/notify-server/dispatch/mock_dispatch"
	"github.com/localfy/notify-server/domain"
	"github.com/localfy/notify-server/queue"
	"github.com/localfy/notify-server/queue/mock_queue"
	"github.com/localfy/notify-server/repo/notificationrepo"
	"github.com/localfy/notify-server/repo/notificationrepo/mock_notificationrepo"
	"github.com/localfy/notify-server/repo/userrepo"
	"github.com/localfy/notify-server/repo/userrepo/mock_userrepo"
	"github.com/localfy/notify-server/resolver"
	"github.com/localfy/notify-server/resolver/mock_resolver"
)

var ctx = context.Background()

func chatEvent(t *testing.T, actorId string, p domain.ChatMessage) domain.Event {
	raw, err := json.Marshal(p)
	require.NoError(t, err)
	return domain.Event{Type: domain.EventChatMessage, ActorId: domain.ID(actorId), Payload: raw}
}

func TestTrigger_ChatMessage(t *testing.T) {
	fx := newFixture(t)
	ev := chatEvent(t, "alice", domain.ChatMessage{
		ConversationId: "c1",
		SenderId:       "alice",
		SenderName:     "Alice",
		Preview:        "hello",
	})
	payload := &domain.ChatMessage{
		ConversationId: "c1",
		SenderId:       "alice",
		SenderName:     "Alice",
		Preview:        "hello",
	}
	fx.resolver.EXPECT().Resolve(ctx, "alice", payload).
		Return([]resolver.Group{{Audience: resolver.AudienceCustomer, UserIds: []string{"bob"}}}, nil)
	fx.userRepo.EXPECT().GetProfile(ctx, "bob").Return(domain.Profile{
		Id:                "bob",
		NotificationToken: "ExponentPushToken[bbb]",
		Devices:           []domain.Device{{Token: "fcm-b"}},
		BadgeCount:        4,
	}, nil)
	fx.userRepo.EXPECT().GetProfile(ctx, "alice").Return(domain.Profile{
		Id:                "alice",
		NotificationToken: "ExponentPushToken[aaa]",
	}, nil)

	batch := mock_badge.NewMockBatch(fx.ctrl)
	fx.badge.EXPECT().NewBatch().Return(batch)
	batch.EXPECT().Increment("bob")
	batch.EXPECT().Commit(ctx).Return(nil)

	fx.notificationRepo.EXPECT().Create(ctx, domain.Notification{
		UserId:  "bob",
		Title:   "Alice",
		Message: "hello",
		Type:    domain.NotificationTypeMessage,
		Data:    map[string]string{"conversationId": "c1"},
	}).Return(nil)

	fx.dispatcher.EXPECT().Dispatch(ctx, domain.ClassifiedTokens{
		FCM:  []string{"fcm-b"},
		Expo: []string{"ExponentPushToken[bbb]"},
	}, dispatch.Payload{
		Title:     "Alice",
		Body:      "hello",
		Badge:     5,
		Sound:     "default",
		ChannelId: "default",
		Data:      map[string]string{"conversationId": "c1"},
	}).Return(dispatch.Result{FCMSent: 1, ExpoSent: 1})

	results, err := fx.Handle(ctx, ev)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 2, results[0].Sent())
}

func TestTrigger_ActorTokensExcluded(t *testing.T) {
	fx := newFixture(t)
	ev := chatEvent(t, "alice", domain.ChatMessage{ConversationId: "c1", SenderId: "alice"})
	fx.resolver.EXPECT().Resolve(ctx, "alice", gomock.Any()).
		Return([]resolver.Group{{Audience: resolver.AudienceCustomer, UserIds: []string{"bob"}}}, nil)
	// bob's household tablet carries alice's token too
	fx.userRepo.EXPECT().GetProfile(ctx, "bob").Return(domain.Profile{
		Id:      "bob",
		Devices: []domain.Device{{Token: "fcm-shared"}, {Token: "fcm-b"}},
	}, nil)
	fx.userRepo.EXPECT().GetProfile(ctx, "alice").Return(domain.Profile{
		Id:      "alice",
		Devices: []domain.Device{{Token: "fcm-shared"}},
	}, nil)

	batch := mock_badge.NewMockBatch(fx.ctrl)
	fx.badge.EXPECT().NewBatch().Return(batch)
	batch.EXPECT().Increment("bob")
	batch.EXPECT().Commit(ctx).Return(nil)
	fx.notificationRepo.EXPECT().Create(ctx, gomock.Any()).Return(nil)

	fx.dispatcher.EXPECT().Dispatch(ctx, domain.ClassifiedTokens{FCM: []string{"fcm-b"}}, gomock.Any()).
		Return(dispatch.Result{FCMSent: 1})

	results, err := fx.Handle(ctx, ev)
	require.NoError(t, err)
	require.Len(t, results, 1)
}

func TestTrigger_InvalidPayloadDropped(t *testing.T) {
	fx := newFixture(t)
	results, err := fx.Handle(ctx, domain.Event{
		Type:    domain.EventChatMessage,
		Payload: json.RawMessage(`{"senderId":"alice"}`),
	})
	require.NoError(t, err)
	assert.Nil(t, results)
}

func TestTrigger_UnknownTypeDropped(t *testing.T) {
	fx := newFixture(t)
	results, err := fx.Handle(ctx, domain.Event{
		Type:    "order.touched",
		Payload: json.RawMessage(`{}`),
	})
	require.NoError(t, err)
	assert.Nil(t, results)
}

func TestTrigger_NoRecipientsNoop(t *testing.T) {
	fx := newFixture(t)
	raw, err := json.Marshal(domain.OrderStatusChanged{
		OrderId:    "o1",
		CustomerId: "cust1",
		OldStatus:  domain.OrderStatusPaid,
		NewStatus:  domain.OrderStatusPaid,
	})
	require.NoError(t, err)
	fx.resolver.EXPECT().Resolve(ctx, "", gomock.Any()).Return(nil, nil)

	results, err := fx.Handle(ctx, domain.Event{Type: domain.EventOrderStatusChanged, Payload: raw})
	require.NoError(t, err)
	assert.Nil(t, results)
}

func TestTrigger_ReservationCanceledTwoGroups(t *testing.T) {
	fx := newFixture(t)
	raw, err := json.Marshal(domain.ReservationStatusChanged{
		ReservationId: "r1",
		BusinessId:    "b1",
		CustomerId:    "cust1",
		OldStatus:     domain.ReservationStatusPending,
		NewStatus:     domain.ReservationStatusCanceled,
		CanceledBy:    domain.CanceledByCustomer,
	})
	require.NoError(t, err)
	fx.resolver.EXPECT().Resolve(ctx, "cust1", gomock.Any()).Return([]resolver.Group{
		{Audience: resolver.AudienceCustomer, UserIds: []string{"cust2"}},
		{Audience: resolver.AudienceBusiness, UserIds: []string{"owner1"}},
	}, nil)
	fx.userRepo.EXPECT().GetProfile(ctx, "cust2").Return(domain.Profile{
		Id: "cust2", NotificationToken: "fcm-c", BadgeCount: 1,
	}, nil)
	fx.userRepo.EXPECT().GetProfile(ctx, "owner1").Return(domain.Profile{
		Id: "owner1", NotificationToken: "fcm-o",
	}, nil)
	fx.userRepo.EXPECT().GetProfile(ctx, "cust1").Return(domain.Profile{Id: "cust1"}, nil)

	batch := mock_badge.NewMockBatch(fx.ctrl)
	fx.badge.EXPECT().NewBatch().Return(batch)
	batch.EXPECT().Increment("cust2")
	batch.EXPECT().Increment("owner1")
	batch.EXPECT().Commit(ctx).Return(nil)
	fx.notificationRepo.EXPECT().Create(ctx, gomock.Any()).Return(nil).Times(2)

	var payloads []dispatch.Payload
	fx.dispatcher.EXPECT().Dispatch(ctx, gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, tokens domain.ClassifiedTokens, p dispatch.Payload) dispatch.Result {
			payloads = append(payloads, p)
			return dispatch.Result{FCMSent: 1}
		}).Times(2)

	results, err := fx.Handle(ctx, domain.Event{
		Type:    domain.EventReservationStatusChanged,
		ActorId: "cust1",
		Payload: raw,
	})
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.Len(t, payloads, 2)
	assert.Equal(t, "Your reservation has been canceled", payloads[0].Body)
	assert.Equal(t, "A customer canceled their reservation", payloads[1].Body)
	// both groups share the badge of the first processed recipient
	assert.Equal(t, 2, payloads[0].Badge)
	assert.Equal(t, 2, payloads[1].Badge)
}

func TestTrigger_RecipientLookupFailureSkipped(t *testing.T) {
	fx := newFixture(t)
	ev := chatEvent(t, "alice", domain.ChatMessage{ConversationId: "c1", SenderId: "alice"})
	fx.resolver.EXPECT().Resolve(ctx, "alice", gomock.Any()).
		Return([]resolver.Group{{Audience: resolver.AudienceCustomer, UserIds: []string{"bob", "carol"}}}, nil)
	fx.userRepo.EXPECT().GetProfile(ctx, "bob").Return(domain.Profile{}, userrepo.ErrProfileNotFound)
	fx.userRepo.EXPECT().GetProfile(ctx, "carol").Return(domain.Profile{
		Id: "carol", NotificationToken: "fcm-c",
	}, nil)
	fx.userRepo.EXPECT().GetProfile(ctx, "alice").Return(domain.Profile{Id: "alice"}, nil)

	batch := mock_badge.NewMockBatch(fx.ctrl)
	fx.badge.EXPECT().NewBatch().Return(batch)
	batch.EXPECT().Increment("carol")
	batch.EXPECT().Commit(ctx).Return(nil)
	fx.notificationRepo.EXPECT().Create(ctx, gomock.Any()).Return(nil)
	fx.dispatcher.EXPECT().Dispatch(ctx, domain.ClassifiedTokens{FCM: []string{"fcm-c"}}, gomock.Any()).
		Return(dispatch.Result{FCMSent: 1})

	results, err := fx.Handle(ctx, ev)
	require.NoError(t, err)
	require.Len(t, results, 1)
}

func TestTrigger_BadgeCommitFailureStillDispatches(t *testing.T) {
	fx := newFixture(t)
	ev := chatEvent(t, "alice", domain.ChatMessage{ConversationId: "c1", SenderId: "alice"})
	fx.resolver.EXPECT().Resolve(ctx, "alice", gomock.Any()).
		Return([]resolver.Group{{Audience: resolver.AudienceCustomer, UserIds: []string{"bob"}}}, nil)
	fx.userRepo.EXPECT().GetProfile(ctx, "bob").Return(domain.Profile{
		Id: "bob", NotificationToken: "fcm-b",
	}, nil)
	fx.userRepo.EXPECT().GetProfile(ctx, "alice").Return(domain.Profile{Id: "alice"}, nil)

	batch := mock_badge.NewMockBatch(fx.ctrl)
	fx.badge.EXPECT().NewBatch().Return(batch)
	batch.EXPECT().Increment("bob")
	batch.EXPECT().Commit(ctx).Return(errors.New("bulk write failed"))
	batch.EXPECT().Len().Return(1)
	fx.notificationRepo.EXPECT().Create(ctx, gomock.Any()).Return(nil)
	fx.dispatcher.EXPECT().Dispatch(ctx, gomock.Any(), gomock.Any()).Return(dispatch.Result{FCMSent: 1})

	results, err := fx.Handle(ctx, ev)
	require.NoError(t, err)
	require.Len(t, results, 1)
}

type fixture struct {
	Trigger
	ctrl             *gomock.Controller
	queue            *mock_queue.MockQueue
	resolver         *mock_resolver.MockResolver
	userRepo         *mock_userrepo.MockUserRepo
	badge            *mock_badge.MockStore
	notificationRepo *mock_notificationrepo.MockNotificationRepo
	dispatcher       *mock_dispatch.MockDispatcher
	a                *app.App
}

func newFixture(t *testing.T) *fixture {
	ctrl := gomock.NewController(t)
	fx := &fixture{
		Trigger:          New(),
		ctrl:             ctrl,
		queue:            mock_queue.NewMockQueue(ctrl),
		resolver:         mock_resolver.NewMockResolver(ctrl),
		userRepo:         mock_userrepo.NewMockUserRepo(ctrl),
		badge:            mock_badge.NewMockStore(ctrl),
		notificationRepo: mock_notificationrepo.NewMockNotificationRepo(ctrl),
		dispatcher:       mock_dispatch.NewMockDispatcher(ctrl),
		a:                new(app.App),
	}
	fx.queue.EXPECT().Name().Return(queue.CName).AnyTimes()
	fx.queue.EXPECT().Init(gomock.Any()).AnyTimes()
	fx.queue.EXPECT().Run(gomock.Any()).AnyTimes()
	fx.queue.EXPECT().Close(gomock.Any()).AnyTimes()
	fx.queue.EXPECT().Consume(gomock.Any(), gomock.Any()).AnyTimes()
	fx.resolver.EXPECT().Name().Return(resolver.CName).AnyTimes()
	fx.resolver.EXPECT().Init(gomock.Any()).AnyTimes()
	fx.userRepo.EXPECT().Name().Return(userrepo.CName).AnyTimes()
	fx.userRepo.EXPECT().Init(gomock.Any()).AnyTimes()
	fx.userRepo.EXPECT().Run(gomock.Any()).AnyTimes()
	fx.userRepo.EXPECT().Close(gomock.Any()).AnyTimes()
	fx.badge.EXPECT().Name().Return(badge.CName).AnyTimes()
	fx.badge.EXPECT().Init(gomock.Any()).AnyTimes()
	fx.badge.EXPECT().Run(gomock.Any()).AnyTimes()
	fx.badge.EXPECT().Close(gomock.Any()).AnyTimes()
	fx.notificationRepo.EXPECT().Name().Return(notificationrepo.CName).AnyTimes()
	fx.notificationRepo.EXPECT().Init(gomock.Any()).AnyTimes()
	fx.notificationRepo.EXPECT().Run(gomock.Any()).AnyTimes()
	fx.notificationRepo.EXPECT().Close(gomock.Any()).AnyTimes()
	fx.dispatcher.EXPECT().Name().Return(dispatch.CName).AnyTimes()
	fx.dispatcher.EXPECT().Init(gomock.Any()).AnyTimes()
	fx.dispatcher.EXPECT().Run(gomock.Any()).AnyTimes()
	fx.dispatcher.EXPECT().Close(gomock.Any()).AnyTimes()

	fx.a.Register(&testConfig{}).
		Register(fx.queue).
		Register(fx.resolver).
		Register(fx.userRepo).
		Register(fx.badge).
		Register(fx.notificationRepo).
		Register(fx.dispatcher).
		Register(fx.Trigger)
	require.NoError(t, fx.a.Start(ctx))
	t.Cleanup(func() {
		require.NoError(t, fx.a.Close(ctx))
		ctrl.Finish()
	})
	return fx
}

type testConfig struct{}

func (t testConfig) Init(a *app.App) (err error) {
	return
}

func (t testConfig) Name() (name string) {
	return "config"
}

func (t testConfig) GetQueue() queue.Config {
	return queue.Config{Consumers: 2}
}
