package domain

import "strings"

type Channel uint8

const (
	ChannelFCM Channel = iota
	ChannelExpo
)

func (c Channel) String() string {
	switch c {
	case ChannelFCM:
		return "fcm"
	case ChannelExpo:
		return "expo"
	}
	return "unknown"
}

const expoTokenPrefix = "ExponentPushToken["

// IsExpoToken reports whether a token belongs to the Expo push channel.
// Everything else goes to FCM.
func IsExpoToken(token string) bool {
	return strings.HasPrefix(token, expoTokenPrefix)
}

// ClassifiedTokens is a token set partitioned by delivery channel.
// The buckets are disjoint by construction.
type ClassifiedTokens struct {
	FCM  []string
	Expo []string
}

// ClassifyTokens partitions tokens by channel, deduplicating each bucket
// independently while preserving order.
func ClassifyTokens(tokens []string) (c ClassifiedTokens) {
	seen := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		if IsExpoToken(t) {
			c.Expo = append(c.Expo, t)
		} else {
			c.FCM = append(c.FCM, t)
		}
	}
	return
}

// Without removes the given tokens from both buckets. Applied after
// classification so an actor's own token is dropped even when the actor
// reappears as a recipient through another relation.
func (c ClassifiedTokens) Without(exclude ...string) ClassifiedTokens {
	if len(exclude) == 0 {
		return c
	}
	drop := make(map[string]struct{}, len(exclude))
	for _, t := range exclude {
		drop[t] = struct{}{}
	}
	filter := func(tokens []string) []string {
		kept := tokens[:0:0]
		for _, t := range tokens {
			if _, ok := drop[t]; !ok {
				kept = append(kept, t)
			}
		}
		return kept
	}
	return ClassifiedTokens{
		FCM:  filter(c.FCM),
		Expo: filter(c.Expo),
	}
}

// Union merges two classified sets, keeping buckets deduplicated.
func (c ClassifiedTokens) Union(o ClassifiedTokens) ClassifiedTokens {
	merge := func(a, b []string) []string {
		seen := make(map[string]struct{}, len(a)+len(b))
		out := make([]string, 0, len(a)+len(b))
		for _, t := range append(append([]string{}, a...), b...) {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			out = append(out, t)
		}
		return out
	}
	return ClassifiedTokens{
		FCM:  merge(c.FCM, o.FCM),
		Expo: merge(c.Expo, o.Expo),
	}
}

func (c ClassifiedTokens) Empty() bool {
	return len(c.FCM) == 0 && len(c.Expo) == 0
}

func (c ClassifiedTokens) Len() int {
	return len(c.FCM) + len(c.Expo)
}
