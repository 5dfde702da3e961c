package trigger

import (
	"context"

	"github.com/anyproto/any-sync/app"
	"github.com/anyproto/any-sync/app/logger"
	"go.uber.org/zap"

	"github.com/localfy/notify-server/badge"
	"github.com/localfy/notify-server/dispatch"
	"github.com/localfy/notify-server/domain"
	"github.com/localfy/notify-server/queue"
	"github.com/localfy/notify-server/repo/notificationrepo"
	"github.com/localfy/notify-server/repo/userrepo"
	"github.com/localfy/notify-server/resolver"
)

const CName = "notify.trigger"

var log = logger.NewNamed(CName)

const (
	defaultSound     = "default"
	defaultChannelId = "default"
)

type configSource interface {
	GetQueue() queue.Config
}

func New() Trigger {
	return new(trigger)
}

type Trigger interface {
	// Handle runs the full fan-out for one event: resolve recipients,
	// classify tokens, stage and commit badge increments, write feed
	// records and dispatch per recipient group. A nil result with nil
	// error is a no-op, not a failure.
	Handle(ctx context.Context, ev domain.Event) (results []dispatch.Result, err error)
	app.ComponentRunnable
}

type trigger struct {
	queue            queue.Queue
	resolver         resolver.Resolver
	userRepo         userrepo.UserRepo
	badge            badge.Store
	notificationRepo notificationrepo.NotificationRepo
	dispatcher       dispatch.Dispatcher
	consumers        int
}

func (t *trigger) Init(a *app.App) (err error) {
	t.queue = a.MustComponent(queue.CName).(queue.Queue)
	t.resolver = a.MustComponent(resolver.CName).(resolver.Resolver)
	t.userRepo = a.MustComponent(userrepo.CName).(userrepo.UserRepo)
	t.badge = a.MustComponent(badge.CName).(badge.Store)
	t.notificationRepo = a.MustComponent(notificationrepo.CName).(notificationrepo.NotificationRepo)
	t.dispatcher = a.MustComponent(dispatch.CName).(dispatch.Dispatcher)
	t.consumers = a.MustComponent("config").(configSource).GetQueue().ConsumerCount()
	return
}

func (t *trigger) Name() (name string) {
	return CName
}

func (t *trigger) Run(ctx context.Context) (err error) {
	for range t.consumers {
		if err = t.queue.Consume(ctx, t.handleMessage); err != nil {
			return
		}
	}
	return
}

// handleMessage always acks: a malformed or unresolvable event is logged and
// dropped, never redelivered forever.
func (t *trigger) handleMessage(msg queue.Message) error {
	ctx := context.Background()
	results, err := t.Handle(ctx, msg.Event)
	if err != nil {
		log.Warn("event dropped",
			zap.String("eventId", msg.Id),
			zap.String("type", string(msg.Event.Type)),
			zap.Error(err))
		return nil
	}
	for _, res := range results {
		log.Info("event handled",
			zap.String("eventId", msg.Id),
			zap.String("type", string(msg.Event.Type)),
			zap.Int("sent", res.Sent()),
			zap.Int("failed", res.Failed()))
	}
	return nil
}

type groupDispatch struct {
	tokens  domain.ClassifiedTokens
	payload dispatch.Payload
}

func (t *trigger) Handle(ctx context.Context, ev domain.Event) (results []dispatch.Result, err error) {
	p, err := ev.ParsePayload()
	if err != nil {
		log.Warn("invalid event", zap.String("type", string(ev.Type)), zap.Error(err))
		return nil, nil
	}
	actorId := domain.NormalizeId(ev.ActorId.String())
	groups, err := t.resolver.Resolve(ctx, actorId, p)
	if err != nil {
		log.Warn("resolve failed", zap.String("type", string(ev.Type)), zap.Error(err))
		return nil, nil
	}
	if len(groups) == 0 {
		log.Debug("no recipients", zap.String("type", string(ev.Type)))
		return nil, nil
	}

	notifType, data := eventMeta(p)
	batch := t.badge.NewBatch()
	// the payload badge reflects the first recipient processed; every
	// recipient of this event receives that same number
	var firstBadge int
	var dispatches []groupDispatch

	for _, g := range groups {
		title, body := renderCopy(p, g.Audience)
		var tokens domain.ClassifiedTokens
		for _, userId := range g.UserIds {
			profile, err := t.userRepo.GetProfile(ctx, userId)
			if err != nil {
				log.Warn("skip recipient", zap.String("userId", userId), zap.Error(err))
				continue
			}
			if firstBadge == 0 {
				firstBadge = profile.BadgeCount + 1
			}
			tokens = tokens.Union(domain.ClassifyTokens(profile.Tokens()))
			batch.Increment(profile.Id)
			if err = t.notificationRepo.Create(ctx, domain.Notification{
				UserId:  profile.Id,
				Title:   title,
				Message: body,
				Type:    notifType,
				Data:    data,
			}); err != nil {
				log.Warn("create feed record", zap.String("userId", userId), zap.Error(err))
			}
		}
		dispatches = append(dispatches, groupDispatch{
			tokens: tokens,
			payload: dispatch.Payload{
				Title:     title,
				Body:      body,
				Sound:     defaultSound,
				ChannelId: defaultChannelId,
				Data:      data,
			},
		})
	}

	// the actor may still own tokens inside a group through another
	// relation, drop them from every bucket
	if actorId != "" {
		if actorProfile, aErr := t.userRepo.GetProfile(ctx, actorId); aErr == nil {
			actorTokens := actorProfile.Tokens()
			for i := range dispatches {
				dispatches[i].tokens = dispatches[i].tokens.Without(actorTokens...)
			}
		}
	}

	// counter drift is tolerated, silent notification loss is not
	if err = batch.Commit(ctx); err != nil {
		log.Error("badge batch commit failed", zap.Int("staged", batch.Len()), zap.Error(err))
	}

	for _, d := range dispatches {
		d.payload.Badge = firstBadge
		results = append(results, t.dispatcher.Dispatch(ctx, d.tokens, d.payload))
	}
	return results, nil
}

func (t *trigger) Close(ctx context.Context) (err error) {
	return nil
}
