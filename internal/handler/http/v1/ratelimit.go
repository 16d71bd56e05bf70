package v1

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// userRateLimiter держит отдельный token bucket на каждого пользователя
type userRateLimiter struct {
	mu       sync.Mutex
	visitors map[uuid.UUID]*visitor
	limit    rate.Limit
	burst    int
	ttl      time.Duration
}

// RateLimitMiddleware ограничивает частоту запросов одного пользователя.
// Ставится после SessionAuthMiddleware; запросы без сессии не ограничиваются.
func RateLimitMiddleware(ctx context.Context, rps float64, burst int, ttl time.Duration, log *logrus.Logger) gin.HandlerFunc {
	l := &userRateLimiter{
		visitors: make(map[uuid.UUID]*visitor),
		limit:    rate.Limit(rps),
		burst:    burst,
		ttl:      ttl,
	}

	go l.cleanupVisitors(ctx)

	return func(c *gin.Context) {
		session := sessionFrom(c)
		if session == nil {
			c.Next()
			return
		}

		if !l.allow(session.UserID) {
			log.WithField("user_id", session.UserID).Warn("Rate limit exceeded")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}

		c.Next()
	}
}

func (l *userRateLimiter) allow(userID uuid.UUID) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	v, exists := l.visitors[userID]
	if !exists {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[userID] = v
	}
	v.lastSeen = time.Now()
	return v.limiter.Allow()
}

func (l *userRateLimiter) cleanupVisitors(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.mu.Lock()
			for id, v := range l.visitors {
				if time.Since(v.lastSeen) > l.ttl {
					delete(l.visitors, id)
				}
			}
			l.mu.Unlock()
		}
	}
}
