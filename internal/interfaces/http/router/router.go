// Package router HTTP 라우팅 구성을 제공한다
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"kstartup-rag-api/internal/config"
	"kstartup-rag-api/internal/interfaces/http/handler"
	"kstartup-rag-api/internal/interfaces/http/middleware"
)

// Handlers 라우터에 연결할 처리기 묶음
type Handlers struct {
	Chat   *handler.ChatHandler
	Ingest *handler.IngestHandler
	Health *handler.HealthHandler
}

// Router HTTP 라우터
type Router struct {
	engine   *gin.Engine
	cfg      *config.Config
	handlers Handlers
	limiter  middleware.RateLimiter
}

// New 라우터 생성
func New(cfg *config.Config, handlers Handlers, limiter middleware.RateLimiter) *Router {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := &Router{
		engine:   gin.New(),
		cfg:      cfg,
		handlers: handlers,
		limiter:  limiter,
	}

	r.setupMiddleware()
	r.setupRoutes()

	return r
}

// Engine Gin Engine 반환
func (r *Router) Engine() *gin.Engine {
	return r.engine
}

// setupMiddleware 미들웨어 구성
func (r *Router) setupMiddleware() {
	r.engine.Use(middleware.Recovery())
	r.engine.Use(middleware.RequestID())

	r.engine.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins: r.cfg.Security.CORS.AllowedOrigins,
		AllowedMethods: r.cfg.Security.CORS.AllowedMethods,
		AllowedHeaders: r.cfg.Security.CORS.AllowedHeaders,
	}))

	if r.cfg.Observability.Tracing.Enabled {
		r.engine.Use(middleware.Trace(r.cfg.App.Name))
		r.engine.Use(middleware.TraceContext())
	}

	if r.cfg.Observability.Metrics.Enabled {
		r.engine.Use(middleware.Metrics())
	}
}

// setupRoutes 라우트 구성
func (r *Router) setupRoutes() {
	r.engine.GET("/health", r.handlers.Health.Health)
	r.engine.GET("/ready", r.handlers.Health.Ready)
	r.engine.GET("/live", r.handlers.Health.Live)

	if r.cfg.Observability.Metrics.Enabled {
		r.engine.GET(r.cfg.Observability.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	rateLimit := middleware.RateLimit(middleware.RateLimitConfig{
		Enabled:           r.cfg.Security.RateLimit.Enabled,
		RequestsPerMinute: r.cfg.Security.RateLimit.RequestsPerMinute,
	}, r.limiter)

	v1 := r.engine.Group("/v1")
	{
		v1.GET("/status", r.handlers.Health.Status)

		chatGroup := v1.Group("/chat", rateLimit)
		{
			chatGroup.POST("/query", r.handlers.Chat.Query)
			chatGroup.GET("/sessions/:session_id/memory", r.handlers.Chat.MemorySummary)
			chatGroup.GET("/sessions/:session_id/memory/status", r.handlers.Chat.MemoryStatus)
			chatGroup.DELETE("/sessions/:session_id/memory", r.handlers.Chat.ClearMemory)
		}

		v1.POST("/ingest", rateLimit, r.handlers.Ingest.Run)
	}
}
