package clientqueue

import (
	"context"
	"sync"
	"time"

	"github.com/anyproto/any-sync/app/logger"
	"go.uber.org/zap"

	"github.com/localfy/notify-server/domain"
)

const CName = "notify.clientqueue"

var log = logger.NewNamed(CName)

const (
	// DefaultCooldown suppresses banners right after launch to avoid a
	// startup notification storm.
	DefaultCooldown = 3 * time.Second
	// DefaultAutoDismiss closes a displayed banner that the user ignores.
	DefaultAutoDismiss = 5 * time.Second
	// FeedLimit mirrors the server-side cap on the live unread feed.
	FeedLimit = 5
)

// Feed is the live per-user unread notification source, served by
// notificationrepo on the backend.
type Feed interface {
	ListUnread(ctx context.Context, userId string, limit int64) ([]domain.Notification, error)
	MarkAllRead(ctx context.Context, userId string) (ids []string, err error)
	WatchUnread(ctx context.Context, userId string) (<-chan domain.Notification, error)
}

// ViewedStore is the persisted set of record ids already shown in-app.
// Append-only for the installation's lifetime.
type ViewedStore interface {
	Contains(id string) bool
	Add(ids ...string) error
}

// Banner is the shape handed to the UI collaborator.
type Banner struct {
	Title       string
	Message     string
	Type        domain.NotificationType
	Data        map[string]string
	AutoDismiss bool
	Duration    time.Duration
}

// DisplayFunc presents one banner. The dismiss callback must be invoked on
// explicit close or navigation-on-tap; the auto-dismiss timer fires it
// otherwise.
type DisplayFunc func(b Banner, dismiss func())

// Options override the queue's timing defaults, mainly for tests.
type Options struct {
	Cooldown    time.Duration
	AutoDismiss time.Duration
}

// Queue serializes in-app banner display: pending records wait in FIFO
// order behind a single display slot. All suppression rules from the
// subscription side (background, notifications screen, ViewedSet, launch
// cooldown) gate enqueueing.
type Queue struct {
	mu sync.Mutex

	feed    Feed
	viewed  ViewedStore
	display DisplayFunc
	userId  string

	cooldown    time.Duration
	autoDismiss time.Duration

	pending      []domain.Notification
	active       *domain.Notification
	dismissTimer *time.Timer

	foreground   bool
	screenActive bool
	startedAt    time.Time

	cancel context.CancelFunc
	closed bool
}

func New(feed Feed, viewed ViewedStore, display DisplayFunc, userId string, opts Options) *Queue {
	if opts.Cooldown <= 0 {
		opts.Cooldown = DefaultCooldown
	}
	if opts.AutoDismiss <= 0 {
		opts.AutoDismiss = DefaultAutoDismiss
	}
	return &Queue{
		feed:        feed,
		viewed:      viewed,
		display:     display,
		userId:      userId,
		cooldown:    opts.Cooldown,
		autoDismiss: opts.AutoDismiss,
		foreground:  true,
	}
}

// Start loads the current unread page and subscribes to the live feed.
// Feed errors are logged, never surfaced to the UI.
func (q *Queue) Start(ctx context.Context) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.startedAt = time.Now()
	ctx, q.cancel = context.WithCancel(ctx)
	q.mu.Unlock()

	// the page arrives newest-first; records are enqueued in arrival
	// order, display stays FIFO by arrival
	records, err := q.feed.ListUnread(ctx, q.userId, FeedLimit)
	if err != nil {
		log.Warn("initial unread fetch failed", zap.Error(err))
	}
	for _, rec := range records {
		q.Offer(rec)
	}

	ch, err := q.feed.WatchUnread(ctx, q.userId)
	if err != nil {
		log.Warn("subscribe failed", zap.Error(err))
		return nil
	}
	go q.run(ctx, ch)
	return nil
}

func (q *Queue) run(ctx context.Context, ch <-chan domain.Notification) {
	for {
		select {
		case <-ctx.Done():
			return
		case rec, ok := <-ch:
			if !ok {
				return
			}
			q.Offer(rec)
		}
	}
}

// Offer applies the suppression rules and enqueues the record. Suppressed
// records are dropped, they stay unread server-side.
func (q *Queue) Offer(rec domain.Notification) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed || rec.Read {
		return
	}
	if !q.foreground || q.screenActive {
		return
	}
	if time.Since(q.startedAt) < q.cooldown {
		return
	}
	if q.viewed.Contains(rec.Id) {
		return
	}
	for _, p := range q.pending {
		if p.Id == rec.Id {
			return
		}
	}
	if q.active != nil && q.active.Id == rec.Id {
		return
	}
	q.pending = append(q.pending, rec)
	q.displayNextLocked()
}

// displayNextLocked fills the display slot from the queue head. The slot
// holds at most one banner; dismissal re-triggers this check.
func (q *Queue) displayNextLocked() {
	if q.active != nil || len(q.pending) == 0 {
		return
	}
	if !q.foreground || q.screenActive {
		return
	}
	rec := q.pending[0]
	q.pending = q.pending[1:]
	q.active = &rec
	q.dismissTimer = time.AfterFunc(q.autoDismiss, func() {
		q.Dismiss(rec.Id)
	})
	if q.display != nil {
		banner := Banner{
			Title:       rec.Title,
			Message:     rec.Message,
			Type:        rec.Type,
			Data:        rec.Data,
			AutoDismiss: true,
			Duration:    q.autoDismiss,
		}
		go q.display(banner, func() {
			q.Dismiss(rec.Id)
		})
	}
}

// Dismiss closes the active banner, records it as viewed and lets the next
// pending record through. Dismissing anything but the active banner is a
// no-op, so the auto-dismiss timer and an explicit close never double-fire.
func (q *Queue) Dismiss(id string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.active == nil || q.active.Id != id {
		return
	}
	q.stopTimerLocked()
	if err := q.viewed.Add(id); err != nil {
		log.Warn("persist viewed id", zap.String("id", id), zap.Error(err))
	}
	q.active = nil
	q.displayNextLocked()
}

// SetForeground defers banner display while the app is backgrounded.
func (q *Queue) SetForeground(foreground bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.foreground = foreground
	if foreground {
		q.displayNextLocked()
	}
}

// SetNotificationScreenActive blocks new banners while the user is on the
// notifications screen. Forward-only: a banner already on display stays
// until dismissed, only future dequeues are suppressed.
func (q *Queue) SetNotificationScreenActive(active bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.screenActive = active
	if !active {
		q.displayNextLocked()
	}
}

// MarkAllAsViewed marks every unread record read in the backing store, adds
// all their ids to the viewed set and clears both the queue and the display
// slot. An explicit bulk operation, never a side effect of one dismissal.
func (q *Queue) MarkAllAsViewed(ctx context.Context) error {
	ids, err := q.feed.MarkAllRead(ctx, q.userId)
	if err != nil {
		return err
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, p := range q.pending {
		ids = append(ids, p.Id)
	}
	if q.active != nil {
		ids = append(ids, q.active.Id)
	}
	if err := q.viewed.Add(ids...); err != nil {
		log.Warn("persist viewed ids", zap.Int("count", len(ids)), zap.Error(err))
	}
	q.stopTimerLocked()
	q.pending = nil
	q.active = nil
	return nil
}

// Close tears the queue down synchronously: subscription canceled, pending
// queue and display slot cleared, timer stopped. Nothing outlives the
// owning user session.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	if q.cancel != nil {
		q.cancel()
	}
	q.stopTimerLocked()
	q.pending = nil
	q.active = nil
}

func (q *Queue) stopTimerLocked() {
	if q.dismissTimer != nil {
		q.dismissTimer.Stop()
		q.dismissTimer = nil
	}
}
