package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"kstartup-rag-api/pkg/logger"
)

const (
	// RequestIDHeader 요청 ID 헤더
	RequestIDHeader = "X-Request-ID"
)

// RequestID 요청 ID 주입 미들웨어
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Set("request_id", requestID)

		ctx := logger.WithContext(c.Request.Context(), logger.RequestIDKey, requestID)
		c.Request = c.Request.WithContext(ctx)

		c.Header(RequestIDHeader, requestID)

		c.Next()
	}
}
