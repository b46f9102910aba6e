package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"kstartup-rag-api/internal/infrastructure/persistence/redis"
	"kstartup-rag-api/pkg/errors"
	"kstartup-rag-api/pkg/logger"
)

// SessionIDHeader 세션 식별 헤더
const SessionIDHeader = "X-Session-ID"

// RateLimitConfig 요청 제한 설정
type RateLimitConfig struct {
	Enabled           bool
	RequestsPerMinute int
}

// RateLimiter 요청 제한기 인터페이스
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// RateLimit 세션 단위 요청 제한 미들웨어
// 세션 헤더가 없으면 클라이언트 IP 기준으로 제한한다
func RateLimit(cfg RateLimitConfig, limiter RateLimiter) gin.HandlerFunc {
	if !cfg.Enabled || limiter == nil {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = 60
	}

	return func(c *gin.Context) {
		sessionID := c.GetHeader(SessionIDHeader)
		if sessionID == "" {
			sessionID = c.ClientIP()
		}

		key := redis.BuildRateLimitKey(sessionID, c.Request.URL.Path)

		allowed, err := limiter.Allow(c.Request.Context(), key, cfg.RequestsPerMinute, time.Minute)
		if err != nil {
			// 제한기 장애 시 요청을 차단하지 않는다
			logger.Warn(c.Request.Context(), "요청 제한기 오류, 요청 통과", "error", err)
			c.Next()
			return
		}

		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"code":     errors.CodeTooManyRequests,
				"message":  "too many requests",
				"trace_id": c.GetString("trace_id"),
			})
			return
		}

		c.Next()
	}
}
