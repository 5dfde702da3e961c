package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyTokens(t *testing.T) {
	c := ClassifyTokens([]string{
		"fcm-token-1",
		"ExponentPushToken[abc]",
		"fcm-token-1",
		"fcm-token-2",
		"ExponentPushToken[abc]",
		"",
	})
	assert.Equal(t, []string{"fcm-token-1", "fcm-token-2"}, c.FCM)
	assert.Equal(t, []string{"ExponentPushToken[abc]"}, c.Expo)
	assert.Equal(t, 3, c.Len())
}

func TestClassifyTokens_DedupBound(t *testing.T) {
	in := []string{"a", "b", "a", "ExponentPushToken[x]", "ExponentPushToken[x]", "b"}
	c := ClassifyTokens(in)
	distinct := map[string]struct{}{}
	for _, tok := range in {
		distinct[tok] = struct{}{}
	}
	assert.LessOrEqual(t, c.Len(), len(distinct))
	for _, tok := range c.FCM {
		assert.NotContains(t, c.Expo, tok)
	}
}

func TestClassifiedTokens_Without(t *testing.T) {
	c := ClassifyTokens([]string{"a", "b", "ExponentPushToken[x]", "ExponentPushToken[y]"})
	c = c.Without("b", "ExponentPushToken[y]")
	assert.Equal(t, []string{"a"}, c.FCM)
	assert.Equal(t, []string{"ExponentPushToken[x]"}, c.Expo)

	// no-op exclusion keeps both buckets intact
	c2 := c.Without()
	assert.Equal(t, c, c2)
}

func TestClassifiedTokens_Union(t *testing.T) {
	a := ClassifyTokens([]string{"a", "ExponentPushToken[x]"})
	b := ClassifyTokens([]string{"a", "b", "ExponentPushToken[y]"})
	u := a.Union(b)
	assert.Equal(t, []string{"a", "b"}, u.FCM)
	assert.Equal(t, []string{"ExponentPushToken[x]", "ExponentPushToken[y]"}, u.Expo)
}

func TestProfile_Tokens(t *testing.T) {
	p := Profile{
		NotificationToken: "primary",
		Devices: []Device{
			{Token: "primary"},
			{Token: "ExponentPushToken[abc]"},
			{Token: ""},
			{Token: "other"},
		},
	}
	assert.Equal(t, []string{"primary", "ExponentPushToken[abc]", "other"}, p.Tokens())
}
