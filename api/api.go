package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/anyproto/any-sync/app"
	"github.com/anyproto/any-sync/app/logger"
	"github.com/anyproto/any-sync/metric"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/localfy/notify-server/auth"
	"github.com/localfy/notify-server/badge"
	"github.com/localfy/notify-server/queue"
	"github.com/localfy/notify-server/repo/notificationrepo"
)

const CName = "notify.api"

var log = logger.NewNamed(CName)

type Config struct {
	Addr string `yaml:"addr"`
	// EventsToken authenticates the write path publishing domain events.
	EventsToken string `yaml:"eventsToken"`
}

type configSource interface {
	GetAPI() Config
}

func New() Service {
	return new(service)
}

type Service interface {
	app.ComponentRunnable
}

type service struct {
	conf             Config
	auth             auth.Auth
	badge            badge.Store
	notificationRepo notificationrepo.NotificationRepo
	queue            queue.Queue
	metric           metric.Metric
	srv              *http.Server
}

func (s *service) Init(a *app.App) (err error) {
	s.conf = a.MustComponent("config").(configSource).GetAPI()
	s.auth = a.MustComponent(auth.CName).(auth.Auth)
	s.badge = a.MustComponent(badge.CName).(badge.Store)
	s.notificationRepo = a.MustComponent(notificationrepo.CName).(notificationrepo.NotificationRepo)
	s.queue = a.MustComponent(queue.CName).(queue.Queue)
	if m := a.Component(metric.CName); m != nil {
		s.metric = m.(metric.Metric)
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	s.registerRoutes(engine)
	s.srv = &http.Server{Addr: s.conf.Addr, Handler: engine}
	return
}

func (s *service) Name() (name string) {
	return CName
}

func (s *service) Run(ctx context.Context) (err error) {
	go func() {
		log.Info("listening", zap.String("addr", s.conf.Addr))
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server stopped", zap.Error(err))
		}
	}()
	return nil
}

func (s *service) registerRoutes(engine *gin.Engine) {
	v1 := engine.Group("/v1")
	v1.POST("/events", s.eventsAuthMiddleware, s.ingestEvent)

	client := v1.Group("", s.authMiddleware)
	client.POST("/badge/reset", s.resetBadge)
	client.POST("/notifications/read-all", s.readAllNotifications)
	client.GET("/notifications", s.listUnreadNotifications)
}

func (s *service) Close(ctx context.Context) (err error) {
	if s.srv != nil {
		return s.srv.Shutdown(ctx)
	}
	return nil
}
