package queue

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/anyproto/any-sync/app"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/localfy/notify-server/domain"
	"github.com/localfy/notify-server/redisprovider/testredisprovider"
)

var ctx = context.Background()

func TestQueue_Consume(t *testing.T) {
	fx := newFixture(t)
	var toSend = []Message{
		{
			Id: "1",
			Event: domain.Event{
				Type:    domain.EventChatMessage,
				ActorId: "u1",
				Payload: json.RawMessage(`{"conversationId":"c1","senderId":"u1"}`),
			},
			Created: time.Now().Round(time.Hour).UTC(),
		},
		{
			Id: "2",
			Event: domain.Event{
				Type:    domain.EventOrderCreated,
				Payload: json.RawMessage(`{"orderId":"o1","businessId":"b1"}`),
			},
			Created: time.Now().Round(time.Hour).UTC(),
		},
	}
	require.NoError(t, fx.Add(ctx, toSend[0]))
	var msgs = make(chan Message)
	require.NoError(t, fx.Consume(ctx, func(msg Message) error {
		msgs <- msg
		return nil
	}))

	require.NoError(t, fx.Add(ctx, toSend[1]))
	var result = make([]Message, 2)
	for i := range result {
		select {
		case msg := <-msgs:
			result[i] = msg
		case <-time.After(time.Second):
			t.Fatal("timeout")
		}
	}
	assert.Equal(t, toSend, result)
}

type fixture struct {
	Queue
	a *app.App
}

func newFixture(t *testing.T) *fixture {
	fx := &fixture{
		Queue: New(),
		a:     new(app.App),
	}
	fx.a.Register(testredisprovider.NewTestRedisProvider()).Register(fx.Queue)
	require.NoError(t, fx.a.Start(ctx))
	t.Cleanup(func() {
		require.NoError(t, fx.a.Close(ctx))
	})
	return fx
}
