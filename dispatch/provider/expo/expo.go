package expo

import (
	"context"

	"github.com/anyproto/any-sync/app"
	"github.com/anyproto/any-sync/app/logger"
	sdk "github.com/oliveroneill/exponent-server-sdk-golang/sdk"
	"go.uber.org/zap"

	"github.com/localfy/notify-server/dispatch"
	"github.com/localfy/notify-server/domain"
)

const CName = "notify.provider.expo"

var log = logger.NewNamed(CName)

func New() Expo {
	return new(expo)
}

type Expo interface {
	app.Component
}

type expo struct {
}

func (e *expo) Init(a *app.App) (err error) {
	d := a.MustComponent(dispatch.CName).(dispatch.Dispatcher)
	conf := a.MustComponent("config").(configSource).GetExpo()

	var client *sdk.PushClient
	if conf.Host != "" {
		client = sdk.NewPushClient(&sdk.ClientConfig{Host: conf.Host})
	} else {
		client = sdk.NewPushClient(nil)
	}
	d.RegisterProvider(domain.ChannelExpo, &expoSender{client: client})
	return
}

func (e *expo) Name() (name string) {
	return CName
}

type expoSender struct {
	client *sdk.PushClient
}

// chunkSize is the documented maximum batch size of the Expo push API.
const chunkSize = 100

func (s *expoSender) Send(ctx context.Context, tokens []string, p dispatch.Payload, onInvalid func(token string)) (sent, failed int, err error) {
	messages, dropped := buildMessages(tokens, p)
	if dropped > 0 {
		log.Warn("dropped tokens with invalid format", zap.Int("count", dropped))
	}
	for _, chunk := range chunkMessages(messages, chunkSize) {
		responses, pubErr := s.client.PublishMultiple(chunk)
		if pubErr != nil {
			// the whole chunk failed, keep going with the next one
			log.Warn("expo chunk failed", zap.Int("size", len(chunk)), zap.Error(pubErr))
			failed += len(chunk)
			continue
		}
		for _, resp := range responses {
			if resp.Status == sdk.SuccessStatus {
				sent++
				continue
			}
			failed++
			token := ""
			if len(resp.PushMessage.To) > 0 {
				token = string(resp.PushMessage.To[0])
			}
			log.Warn("expo returned error",
				zap.String("token", token),
				zap.String("status", resp.Status),
				zap.String("message", resp.Message),
			)
			if resp.Details != nil && resp.Details["error"] == sdk.ErrorDeviceNotRegistered {
				onInvalid(token)
				log.Info("mark token as invalid", zap.String("token", token))
			}
		}
	}
	return sent, failed, nil
}

// buildMessages keeps one message per token so receipts map back to tokens.
// Tokens that do not match the Expo token format are dropped before send.
func buildMessages(tokens []string, p dispatch.Payload) (messages []sdk.PushMessage, dropped int) {
	for _, t := range tokens {
		to, err := sdk.NewExponentPushToken(t)
		if err != nil {
			dropped++
			continue
		}
		messages = append(messages, sdk.PushMessage{
			To:        []sdk.ExponentPushToken{to},
			Title:     p.Title,
			Body:      p.Body,
			Badge:     p.Badge,
			Sound:     p.Sound,
			ChannelID: p.ChannelId,
			Priority:  sdk.HighPriority,
			Data:      p.Data,
		})
	}
	return
}

func chunkMessages(messages []sdk.PushMessage, size int) (chunks [][]sdk.PushMessage) {
	for len(messages) > 0 {
		if len(messages) <= size {
			return append(chunks, messages)
		}
		chunks = append(chunks, messages[:size])
		messages = messages[size:]
	}
	return
}
