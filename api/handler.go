package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/anyproto/any-sync/metric"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/localfy/notify-server/domain"
	"github.com/localfy/notify-server/queue"
)

const ctxUserIdKey = "userId"

func (s *service) requestLog(c *gin.Context, op string, st time.Time, err error) {
	if s.metric == nil {
		return
	}
	s.metric.RequestLog(c.Request.Context(), op,
		metric.TotalDur(time.Since(st)),
		zap.String("addr", c.ClientIP()),
		zap.Error(err),
	)
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}

// authMiddleware attaches the verified caller identity or rejects with
// Unauthenticated. Client-callable operations never run without it.
func (s *service) authMiddleware(c *gin.Context) {
	userId, err := s.auth.VerifyToken(c.Request.Context(), bearerToken(c))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthenticated"})
		return
	}
	c.Set(ctxUserIdKey, userId)
	c.Next()
}

func (s *service) eventsAuthMiddleware(c *gin.Context) {
	if s.conf.EventsToken == "" || bearerToken(c) != s.conf.EventsToken {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthenticated"})
		return
	}
	c.Next()
}

func (s *service) ingestEvent(c *gin.Context) {
	st := time.Now()
	var err error
	defer func() {
		s.requestLog(c, "api.ingestEvent", st, err)
	}()
	var ev domain.Event
	if err = c.ShouldBindJSON(&ev); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "InvalidArgument"})
		return
	}
	if _, err = ev.ParsePayload(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "InvalidArgument"})
		return
	}
	msg := queue.Message{
		Id:      domain.NewRecordId(),
		Event:   ev,
		Created: time.Now().UTC(),
	}
	if err = s.queue.Add(c.Request.Context(), msg); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal"})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"success": true, "id": msg.Id})
}

func (s *service) resetBadge(c *gin.Context) {
	st := time.Now()
	var err error
	defer func() {
		s.requestLog(c, "api.resetBadge", st, err)
	}()
	if err = s.badge.Reset(c.Request.Context(), c.GetString(ctxUserIdKey)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *service) readAllNotifications(c *gin.Context) {
	st := time.Now()
	var err error
	defer func() {
		s.requestLog(c, "api.readAllNotifications", st, err)
	}()
	ids, err := s.notificationRepo.MarkAllRead(c.Request.Context(), c.GetString(ctxUserIdKey))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal"})
		return
	}
	if ids == nil {
		ids = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "ids": ids})
}

func (s *service) listUnreadNotifications(c *gin.Context) {
	st := time.Now()
	var err error
	defer func() {
		s.requestLog(c, "api.listUnreadNotifications", st, err)
	}()
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "5"), 10, 64)
	notifications, err := s.notificationRepo.ListUnread(c.Request.Context(), c.GetString(ctxUserIdKey), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal"})
		return
	}
	if notifications == nil {
		notifications = []domain.Notification{}
	}
	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}
