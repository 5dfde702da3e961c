package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anyproto/any-sync/app"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/localfy/notify-server/auth"
	"github.com/localfy/notify-server/badge"
	"github.com/localfy/notify-server/badge/mock_badge"
	"github.com/localfy/notify-server/domain"
	"github.com/localfy/notify-server/queue"
	"github.com/localfy/notify-server/queue/mock_queue"
	"github.com/localfy/notify-server/repo/notificationrepo"
	"github.com/localfy/notify-server/repo/notificationrepo/mock_notificationrepo"
)

var ctx = context.Background()

const eventsToken = "writer-secret"

func TestService_IngestEvent(t *testing.T) {
	t.Run("accepted", func(t *testing.T) {
		fx := newFixture(t)
		var added queue.Message
		fx.queue.EXPECT().Add(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, msg queue.Message) error {
				added = msg
				return nil
			})

		w := fx.request(t, http.MethodPost, "/v1/events", eventsToken, gin.H{
			"type":    "chat.message",
			"actorId": "alice",
			"payload": gin.H{"conversationId": "c1", "senderId": "alice"},
		})
		require.Equal(t, http.StatusAccepted, w.Code)
		assert.NotEmpty(t, added.Id)
		assert.Equal(t, domain.EventChatMessage, added.Event.Type)
		assert.Equal(t, domain.ID("alice"), added.Event.ActorId)
	})
	t.Run("bad token", func(t *testing.T) {
		fx := newFixture(t)
		w := fx.request(t, http.MethodPost, "/v1/events", "wrong", gin.H{
			"type":    "chat.message",
			"payload": gin.H{"conversationId": "c1", "senderId": "alice"},
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
	t.Run("invalid payload", func(t *testing.T) {
		fx := newFixture(t)
		w := fx.request(t, http.MethodPost, "/v1/events", eventsToken, gin.H{
			"type":    "chat.message",
			"payload": gin.H{"senderId": "alice"},
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
	t.Run("unknown type", func(t *testing.T) {
		fx := newFixture(t)
		w := fx.request(t, http.MethodPost, "/v1/events", eventsToken, gin.H{
			"type":    "order.touched",
			"payload": gin.H{},
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestService_ResetBadge(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		fx := newFixture(t)
		fx.badge.EXPECT().Reset(gomock.Any(), "u1").Return(nil)

		w := fx.request(t, http.MethodPost, "/v1/badge/reset", "id-token", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"success":true}`, w.Body.String())
	})
	t.Run("unauthenticated", func(t *testing.T) {
		fx := newFixture(t)
		fx.auth.err = auth.ErrUnauthenticated

		w := fx.request(t, http.MethodPost, "/v1/badge/reset", "bad", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
	t.Run("store failure", func(t *testing.T) {
		fx := newFixture(t)
		fx.badge.EXPECT().Reset(gomock.Any(), "u1").Return(errors.New("mongo down"))

		w := fx.request(t, http.MethodPost, "/v1/badge/reset", "id-token", nil)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestService_ReadAllNotifications(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		fx := newFixture(t)
		fx.notificationRepo.EXPECT().MarkAllRead(gomock.Any(), "u1").
			Return([]string{"n1", "n2"}, nil)

		w := fx.request(t, http.MethodPost, "/v1/notifications/read-all", "id-token", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"success":true,"ids":["n1","n2"]}`, w.Body.String())
	})
	t.Run("nothing unread", func(t *testing.T) {
		fx := newFixture(t)
		fx.notificationRepo.EXPECT().MarkAllRead(gomock.Any(), "u1").Return(nil, nil)

		w := fx.request(t, http.MethodPost, "/v1/notifications/read-all", "id-token", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"success":true,"ids":[]}`, w.Body.String())
	})
}

func TestService_ListUnreadNotifications(t *testing.T) {
	fx := newFixture(t)
	fx.notificationRepo.EXPECT().ListUnread(gomock.Any(), "u1", int64(3)).
		Return([]domain.Notification{{Id: "n1", UserId: "u1", Title: "t"}}, nil)

	w := fx.request(t, http.MethodGet, "/v1/notifications?limit=3", "id-token", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Notifications []domain.Notification `json:"notifications"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Notifications, 1)
	assert.Equal(t, "n1", resp.Notifications[0].Id)
}

type fixture struct {
	*service
	auth             *testAuth
	badge            *mock_badge.MockStore
	notificationRepo *mock_notificationrepo.MockNotificationRepo
	queue            *mock_queue.MockQueue
	a                *app.App
}

func (fx *fixture) request(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	fx.srv.Handler.ServeHTTP(w, req)
	return w
}

func newFixture(t *testing.T) *fixture {
	ctrl := gomock.NewController(t)
	fx := &fixture{
		service:          New().(*service),
		auth:             &testAuth{userId: "u1"},
		badge:            mock_badge.NewMockStore(ctrl),
		notificationRepo: mock_notificationrepo.NewMockNotificationRepo(ctrl),
		queue:            mock_queue.NewMockQueue(ctrl),
		a:                new(app.App),
	}
	fx.badge.EXPECT().Name().Return(badge.CName).AnyTimes()
	fx.badge.EXPECT().Init(gomock.Any()).AnyTimes()
	fx.badge.EXPECT().Run(gomock.Any()).AnyTimes()
	fx.badge.EXPECT().Close(gomock.Any()).AnyTimes()
	fx.notificationRepo.EXPECT().Name().Return(notificationrepo.CName).AnyTimes()
	fx.notificationRepo.EXPECT().Init(gomock.Any()).AnyTimes()
	fx.notificationRepo.EXPECT().Run(gomock.Any()).AnyTimes()
	fx.notificationRepo.EXPECT().Close(gomock.Any()).AnyTimes()
	fx.queue.EXPECT().Name().Return(queue.CName).AnyTimes()
	fx.queue.EXPECT().Init(gomock.Any()).AnyTimes()
	fx.queue.EXPECT().Run(gomock.Any()).AnyTimes()
	fx.queue.EXPECT().Close(gomock.Any()).AnyTimes()

	fx.a.Register(&testConfig{}).
		Register(fx.auth).
		Register(fx.badge).
		Register(fx.notificationRepo).
		Register(fx.queue).
		Register(fx.service)
	require.NoError(t, fx.a.Start(ctx))
	t.Cleanup(func() {
		require.NoError(t, fx.a.Close(ctx))
		ctrl.Finish()
	})
	return fx
}

type testAuth struct {
	userId string
	err    error
}

func (t *testAuth) Init(a *app.App) (err error) {
	return
}

func (t *testAuth) Name() (name string) {
	return auth.CName
}

func (t *testAuth) VerifyToken(ctx context.Context, idToken string) (string, error) {
	if t.err != nil {
		return "", t.err
	}
	return t.userId, nil
}

type testConfig struct{}

func (t testConfig) Init(a *app.App) (err error) {
	return
}

func (t testConfig) Name() (name string) {
	return "config"
}

func (t testConfig) GetAPI() Config {
	return Config{Addr: "127.0.0.1:0", EventsToken: eventsToken}
}
