package expo

import (
	"testing"

	sdk "github.com/oliveroneill/exponent-server-sdk-golang/sdk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/localfy/notify-server/dispatch"
)

func TestBuildMessages(t *testing.T) {
	p := dispatch.Payload{Title: "t", Body: "b", Badge: 3, Sound: "default", ChannelId: "default"}
	messages, dropped := buildMessages([]string{
		"ExponentPushToken[aaa]",
		"not-an-expo-token",
		"ExponentPushToken[bbb]",
	}, p)
	assert.Equal(t, 1, dropped)
	require.Len(t, messages, 2)
	assert.Equal(t, "t", messages[0].Title)
	assert.Equal(t, 3, messages[0].Badge)
	require.Len(t, messages[0].To, 1)
	assert.Equal(t, sdk.ExponentPushToken("ExponentPushToken[aaa]"), messages[0].To[0])
}

func TestChunkMessages(t *testing.T) {
	var messages []sdk.PushMessage
	for range 205 {
		messages = append(messages, sdk.PushMessage{})
	}
	chunks := chunkMessages(messages, 100)
	require.Len(t, chunks, 3)
	assert.Len(t, chunks[0], 100)
	assert.Len(t, chunks[1], 100)
	assert.Len(t, chunks[2], 5)

	assert.Nil(t, chunkMessages(nil, 100))
}
