//go:generate mockgen -destination mock_dispatch/mock_dispatch.go github.com/localfy/notify-server/dispatch Dispatcher

package dispatch

import (
	"context"
	"time"

	"github.com/anyproto/any-sync/app"
	"github.com/anyproto/any-sync/app/logger"
	"github.com/anyproto/any-sync/metric"
	"github.com/cheggaaa/mb/v3"
	"go.uber.org/zap"

	"github.com/localfy/notify-server/domain"
	"github.com/localfy/notify-server/repo/userrepo"
)

const CName = "notify.dispatch"

var log = logger.NewNamed(CName)

func New() Dispatcher {
	return new(dispatcher)
}

// Payload is one rendered notification.
type Payload struct {
	Title     string
	Body      string
	Badge     int
	Sound     string
	ChannelId string
	Data      map[string]string
}

// Result aggregates per-channel delivery counts for one dispatch.
type Result struct {
	FCMSent    int
	FCMFailed  int
	ExpoSent   int
	ExpoFailed int
}

func (r Result) Add(o Result) Result {
	return Result{
		FCMSent:    r.FCMSent + o.FCMSent,
		FCMFailed:  r.FCMFailed + o.FCMFailed,
		ExpoSent:   r.ExpoSent + o.ExpoSent,
		ExpoFailed: r.ExpoFailed + o.ExpoFailed,
	}
}

func (r Result) Sent() int {
	return r.FCMSent + r.ExpoSent
}

func (r Result) Failed() int {
	return r.FCMFailed + r.ExpoFailed
}

// Provider delivers one payload to a channel's batch API. A non-nil error
// means the channel could not be attempted beyond sent+failed tokens;
// per-token failures are counted, never returned.
type Provider interface {
	Send(ctx context.Context, tokens []string, p Payload, onInvalid func(token string)) (sent, failed int, err error)
}

type Dispatcher interface {
	RegisterProvider(ch domain.Channel, provider Provider)
	// Dispatch sends the payload to both channel buckets independently: a
	// total failure on one channel never prevents attempting the other.
	Dispatch(ctx context.Context, tokens domain.ClassifiedTokens, p Payload) Result
	app.ComponentRunnable
}

type dispatcher struct {
	userRepo      userrepo.UserRepo
	providers     map[domain.Channel]Provider
	invalidTokens *mb.MB[string]
	metrics       dispatchMetrics
}

func (d *dispatcher) Init(a *app.App) (err error) {
	d.userRepo = a.MustComponent(userrepo.CName).(userrepo.UserRepo)
	d.providers = make(map[domain.Channel]Provider)
	d.invalidTokens = mb.New[string](100)
	if m := a.Component(metric.CName); m != nil {
		registerMetrics(m.(metric.Metric).Registry(), d)
	}
	return
}

func (d *dispatcher) Name() (name string) {
	return CName
}

func (d *dispatcher) Run(ctx context.Context) (err error) {
	go d.removeTokensBatch()
	return
}

func (d *dispatcher) RegisterProvider(ch domain.Channel, provider Provider) {
	d.providers[ch] = provider
}

func (d *dispatcher) Dispatch(ctx context.Context, tokens domain.ClassifiedTokens, p Payload) (res Result) {
	st := time.Now()
	res.FCMSent, res.FCMFailed = d.sendChannel(ctx, domain.ChannelFCM, tokens.FCM, p)
	res.ExpoSent, res.ExpoFailed = d.sendChannel(ctx, domain.ChannelExpo, tokens.Expo, p)
	d.metrics.dispatchCount.Add(1)
	d.metrics.sentTokens.Add(int64(res.Sent()))
	d.metrics.failedTokens.Add(int64(res.Failed()))
	log.Debug("dispatched",
		zap.Int("fcmSent", res.FCMSent),
		zap.Int("fcmFailed", res.FCMFailed),
		zap.Int("expoSent", res.ExpoSent),
		zap.Int("expoFailed", res.ExpoFailed),
		zap.Duration("dur", time.Since(st)),
	)
	return
}

func (d *dispatcher) sendChannel(ctx context.Context, ch domain.Channel, tokens []string, p Payload) (sent, failed int) {
	if len(tokens) == 0 {
		return 0, 0
	}
	provider, ok := d.providers[ch]
	if !ok {
		log.Warn("no provider registered", zap.Stringer("channel", ch))
		return 0, 0
	}
	sent, failed, err := provider.Send(ctx, tokens, p, d.onInvalid)
	if err != nil {
		// total channel failure: keep whatever was confirmed before the
		// error, the other channel is still attempted
		log.Error("channel send failed", zap.Stringer("channel", ch), zap.Error(err))
	}
	return sent, failed
}

func (d *dispatcher) onInvalid(token string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = d.invalidTokens.Add(ctx, token)
}

// removeTokensBatch prunes invalid tokens from user profiles in batches so a
// burst of unregistered devices becomes a handful of updates.
func (d *dispatcher) removeTokensBatch() {
	ctx := mb.CtxWithTimeLimit(context.Background(), time.Second)
	cond := d.invalidTokens.NewCond().WithMin(10)
	for {
		tokens, err := cond.Wait(ctx)
		if err != nil {
			return
		}
		st := time.Now()
		if err = d.userRepo.RemoveTokens(ctx, tokens); err != nil {
			log.Error("remove tokens error", zap.Error(err))
		} else {
			log.Info("remove tokens success", zap.Int("count", len(tokens)), zap.Duration("dur", time.Since(st)))
		}
	}
}

func (d *dispatcher) Close(ctx context.Context) (err error) {
	return d.invalidTokens.Close()
}
