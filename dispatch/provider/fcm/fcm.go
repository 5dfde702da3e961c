package fcm

import (
	"context"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/anyproto/any-sync/app"
	"github.com/anyproto/any-sync/app/logger"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/localfy/notify-server/dispatch"
	"github.com/localfy/notify-server/domain"
)

const CName = "notify.provider.fcm"

var log = logger.NewNamed(CName)

func New() FCM {
	return new(fcm)
}

type FCM interface {
	app.Component
}

type fcm struct {
}

func (f *fcm) Init(a *app.App) (err error) {
	d := a.MustComponent(dispatch.CName).(dispatch.Dispatcher)
	conf := a.MustComponent("config").(configSource).GetFCM()

	sender, err := newSender(conf.CredentialsFile)
	if err != nil {
		return err
	}
	d.RegisterProvider(domain.ChannelFCM, sender)
	return
}

func (f *fcm) Name() (name string) {
	return CName
}

func newSender(credentialsFile string) (dispatch.Provider, error) {
	opt := option.WithCredentialsFile(credentialsFile)
	fcmApp, err := firebase.NewApp(context.Background(), nil, opt)
	if err != nil {
		return nil, err
	}
	client, err := fcmApp.Messaging(context.Background())
	if err != nil {
		return nil, err
	}
	return &fcmSender{client: client}, nil
}

type fcmSender struct {
	client *messaging.Client
}

const batchSize = 500

func (f *fcmSender) Send(ctx context.Context, tokens []string, p dispatch.Payload, onInvalid func(token string)) (sent, failed int, err error) {
	nextBatch := tokens
	for len(nextBatch) > 0 {
		var batch []string
		if len(nextBatch) > batchSize {
			batch = nextBatch[:batchSize]
			nextBatch = nextBatch[batchSize:]
		} else {
			batch = nextBatch
			nextBatch = nil
		}
		var response *messaging.BatchResponse
		if response, err = f.client.SendEachForMulticast(ctx, buildFcmMessage(batch, p)); err != nil {
			return sent, failed, err
		}
		for i, resp := range response.Responses {
			if resp.Success {
				continue
			}
			if messaging.IsInvalidArgument(resp.Error) || messaging.IsUnregistered(resp.Error) {
				onInvalid(batch[i])
				log.Info("mark token as invalid", zap.String("token", batch[i]))
			} else {
				log.Warn("fcm returned error", zap.Error(resp.Error), zap.String("token", batch[i]))
			}
		}
		sent += response.SuccessCount
		failed += response.FailureCount
		log.Info("push sent", zap.Int("success", response.SuccessCount), zap.Int("failure", response.FailureCount))
	}
	return sent, failed, nil
}

func buildFcmMessage(tokens []string, p dispatch.Payload) *messaging.MulticastMessage {
	badge := p.Badge
	return &messaging.MulticastMessage{
		Tokens: tokens,
		Data:   p.Data,
		Notification: &messaging.Notification{
			Title: p.Title,
			Body:  p.Body,
		},
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				ChannelID: p.ChannelId,
				Sound:     p.Sound,
			},
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Badge: &badge,
					Sound: p.Sound,
				},
			},
		},
	}
}
