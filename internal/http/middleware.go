package http

import (
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/tazhibayda/posts-service/internal/domain"
	"github.com/tazhibayda/posts-service/internal/log"
	"github.com/tazhibayda/posts-service/internal/metrics"
	"github.com/tazhibayda/posts-service/internal/queue"
	"github.com/tazhibayda/posts-service/internal/security"
)

const (
	actorKey      = "actor"
	requestIDKey  = "X-Request-ID"
	sessionCookie = "session"
)

func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDKey)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDKey, id)
		c.Request = c.Request.WithContext(queue.WithRequestID(c.Request.Context(), id))
		c.Next()
	}
}

// CurrentActor resolves the session cookie into a domain.Actor. A missing or
// invalid cookie means the anonymous actor; this middleware never aborts.
func CurrentActor(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := domain.Anonymous
		if tok, err := c.Cookie(sessionCookie); err == nil && tok != "" {
			if claims, err := security.ParseSession(secret, tok); err == nil {
				if uid, err := primitive.ObjectIDFromHex(claims.UID); err == nil {
					actor = domain.Actor{ID: uid, Username: claims.Username}
				}
			}
		}
		c.Set(actorKey, actor)
		c.Next()
	}
}

func actorFrom(c *gin.Context) domain.Actor {
	if v, ok := c.Get(actorKey); ok {
		if a, ok := v.(domain.Actor); ok {
			return a
		}
	}
	return domain.Anonymous
}

// LoginRequired bounces anonymous actors to the login page, carrying the
// original path in ?next= so login can send them back.
func LoginRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !actorFrom(c).IsAuthenticated() {
			redirectToLogin(c)
			c.Abort()
			return
		}
		c.Next()
	}
}

func redirectToLogin(c *gin.Context) {
	c.Redirect(http.StatusFound, "/auth/login/?next="+url.QueryEscape(c.Request.URL.RequestURI()))
}

func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		start := time.Now()
		metrics.InFlight.Inc()
		c.Next()
		metrics.InFlight.Dec()
		metrics.ReqDuration.WithLabelValues(route, c.Request.Method).
			Observe(time.Since(start).Seconds())
		metrics.RequestsTotal.WithLabelValues(route, c.Request.Method,
			strconv.Itoa(c.Writer.Status())).Inc()
	}
}

func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.L.Info("http",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("took", time.Since(start)),
			zap.String("request_id", c.GetString(requestIDKey)),
		)
	}
}
