//go:generate mockgen -destination mock_resolver/mock_resolver.go github.com/localfy/notify-server/resolver Resolver

package resolver

import (
	"context"
	"fmt"

	"github.com/anyproto/any-sync/app"
	"github.com/anyproto/any-sync/app/logger"
	"go.uber.org/zap"

	"github.com/localfy/notify-server/domain"
	"github.com/localfy/notify-server/repo/businessrepo"
	"github.com/localfy/notify-server/repo/conversationrepo"
)

const CName = "notify.resolver"

var log = logger.NewNamed(CName)

// Audience selects the notification variant a recipient group receives.
type Audience uint8

const (
	AudienceCustomer Audience = iota
	AudienceBusiness
)

func (a Audience) String() string {
	if a == AudienceBusiness {
		return "business"
	}
	return "customer"
}

// Group is an ordered, deduplicated recipient set sharing one message
// variant. The actor never appears in any group.
type Group struct {
	Audience Audience
	UserIds  []string
}

func New() Resolver {
	return new(resolver)
}

type Resolver interface {
	// Resolve computes the recipient groups for one event. Lookup failures
	// on auxiliary documents degrade to an empty branch instead of failing
	// the event. An empty result means the event is a no-op.
	Resolve(ctx context.Context, actorId string, p domain.EventPayload) (groups []Group, err error)
	app.Component
}

type resolver struct {
	conversationRepo conversationrepo.ConversationRepo
	businessRepo     businessrepo.BusinessRepo
}

func (r *resolver) Init(a *app.App) (err error) {
	r.conversationRepo = a.MustComponent(conversationrepo.CName).(conversationrepo.ConversationRepo)
	r.businessRepo = a.MustComponent(businessrepo.CName).(businessrepo.BusinessRepo)
	return
}

func (r *resolver) Name() (name string) {
	return CName
}

func (r *resolver) Resolve(ctx context.Context, actorId string, p domain.EventPayload) (groups []Group, err error) {
	actorId = domain.NormalizeId(actorId)
	switch ev := p.(type) {
	case *domain.ChatMessage:
		return r.resolveChatMessage(ctx, actorId, ev)
	case *domain.OrderCreated:
		return r.resolveOrderCreated(ctx, actorId, ev)
	case *domain.OrderStatusChanged:
		return r.resolveOrderStatusChanged(ctx, actorId, ev)
	case *domain.ReservationCreated:
		return r.resolveReservationCreated(ctx, actorId, ev)
	case *domain.ReservationStatusChanged:
		return r.resolveReservationStatusChanged(ctx, actorId, ev)
	}
	return nil, fmt.Errorf("%w: %T", domain.ErrUnknownEventType, p)
}

func (r *resolver) resolveChatMessage(ctx context.Context, actorId string, ev *domain.ChatMessage) (groups []Group, err error) {
	participants, err := r.conversationRepo.GetParticipants(ctx, ev.ConversationId.String())
	if err != nil {
		log.Warn("conversation lookup failed",
			zap.String("conversationId", ev.ConversationId.String()), zap.Error(err))
		return nil, nil
	}
	set := newRecipientSet(actorId, domain.NormalizeId(ev.SenderId.String()))
	set.add(participants...)
	return set.groups(AudienceCustomer), nil
}

func (r *resolver) resolveOrderCreated(ctx context.Context, actorId string, ev *domain.OrderCreated) (groups []Group, err error) {
	set := newRecipientSet(actorId, domain.NormalizeId(ev.CustomerId.String()))
	set.add(r.businessRecipients(ctx, ev.BusinessId.String())...)
	return set.groups(AudienceBusiness), nil
}

func (r *resolver) resolveOrderStatusChanged(ctx context.Context, actorId string, ev *domain.OrderStatusChanged) (groups []Group, err error) {
	if !ev.Changed() {
		return nil, nil
	}
	set := newRecipientSet(actorId)
	set.add(ev.CustomerId.String())
	if ev.NewStatus == domain.OrderStatusCanceled || ev.NewStatus == domain.OrderStatusRefunded {
		if owner := r.businessOwner(ctx, ev.BusinessId.String()); owner != "" {
			set.add(owner)
		}
	}
	return set.groups(AudienceCustomer), nil
}

func (r *resolver) resolveReservationCreated(ctx context.Context, actorId string, ev *domain.ReservationCreated) (groups []Group, err error) {
	business := newRecipientSet(actorId, domain.NormalizeId(ev.CustomerId.String()))
	business.add(r.businessRecipients(ctx, ev.BusinessId.String())...)
	groups = business.groups(AudienceBusiness)

	customer := newRecipientSet(actorId)
	customer.add(ev.CustomerId.String())
	return append(groups, customer.groups(AudienceCustomer)...), nil
}

func (r *resolver) resolveReservationStatusChanged(ctx context.Context, actorId string, ev *domain.ReservationStatusChanged) (groups []Group, err error) {
	if !ev.Changed() {
		return nil, nil
	}
	customer := newRecipientSet(actorId)
	customer.add(ev.CustomerId.String())
	groups = customer.groups(AudienceCustomer)

	// the business side only hears about cancellations the customer made
	if ev.NewStatus == domain.ReservationStatusCanceled && ev.CanceledBy == domain.CanceledByCustomer {
		business := newRecipientSet(actorId, domain.NormalizeId(ev.CustomerId.String()))
		business.add(r.businessRecipients(ctx, ev.BusinessId.String())...)
		groups = append(groups, business.groups(AudienceBusiness)...)
	}
	return groups, nil
}

// businessRecipients is the owner plus every permission holder with a
// managing role, deduplicated. Each failed lookup degrades to an empty
// branch.
func (r *resolver) businessRecipients(ctx context.Context, businessId string) (userIds []string) {
	if owner := r.businessOwner(ctx, businessId); owner != "" {
		userIds = append(userIds, owner)
	}
	staff, err := r.businessRepo.GetStaffIds(ctx, businessId, domain.ManagingRoles)
	if err != nil {
		log.Warn("permissions lookup failed", zap.String("businessId", businessId), zap.Error(err))
		return
	}
	return append(userIds, staff...)
}

func (r *resolver) businessOwner(ctx context.Context, businessId string) string {
	business, err := r.businessRepo.GetBusiness(ctx, businessId)
	if err != nil {
		log.Warn("business lookup failed", zap.String("businessId", businessId), zap.Error(err))
		return ""
	}
	return domain.NormalizeId(business.OwnerId)
}

// recipientSet keeps insertion order, drops duplicates and every excluded id.
type recipientSet struct {
	exclude map[string]struct{}
	seen    map[string]struct{}
	ids     []string
}

func newRecipientSet(exclude ...string) *recipientSet {
	s := &recipientSet{
		exclude: make(map[string]struct{}, len(exclude)),
		seen:    make(map[string]struct{}),
	}
	for _, id := range exclude {
		if id != "" {
			s.exclude[id] = struct{}{}
		}
	}
	return s
}

func (s *recipientSet) add(ids ...string) {
	for _, id := range ids {
		id = domain.NormalizeId(id)
		if id == "" {
			continue
		}
		if _, ok := s.exclude[id]; ok {
			continue
		}
		if _, ok := s.seen[id]; ok {
			continue
		}
		s.seen[id] = struct{}{}
		s.ids = append(s.ids, id)
	}
}

func (s *recipientSet) groups(audience Audience) []Group {
	if len(s.ids) == 0 {
		return nil
	}
	return []Group{{Audience: audience, UserIds: s.ids}}
}
