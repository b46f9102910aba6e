package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"kstartup-rag-api/internal/application/chat"
	"kstartup-rag-api/internal/infrastructure/persistence/milvus"
	"kstartup-rag-api/internal/infrastructure/persistence/postgres"
	"kstartup-rag-api/internal/infrastructure/persistence/redis"
	"kstartup-rag-api/internal/interfaces/http/dto"
)

// HealthHandler 헬스 체크 처리기
type HealthHandler struct {
	engine *chat.Engine
	pg     *postgres.Client
	redis  *redis.Client
	milvus *milvus.Client
}

// NewHealthHandler 헬스 체크 처리기 생성
func NewHealthHandler(engine *chat.Engine, pg *postgres.Client, redisClient *redis.Client, milvusClient *milvus.Client) *HealthHandler {
	return &HealthHandler{
		engine: engine,
		pg:     pg,
		redis:  redisClient,
		milvus: milvusClient,
	}
}

// HealthResponse 헬스 체크 응답
type HealthResponse struct {
	Status string `json:"status"`
}

type readinessCheck struct {
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
	LatencyMs int64  `json:"latency_ms,omitempty"`
}

type readinessResponse struct {
	Status string                     `json:"status"`
	Checks map[string]*readinessCheck `json:"checks,omitempty"`
}

// Health 헬스 체크
// GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// Live 프로세스 생존 확인
// GET /live
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// Ready 트래픽 수신 가능 여부 확인
// Milvus와 Postgres는 필수, Redis는 제한기 전용이라 준비 상태에 영향을 주지 않는다
// GET /ready
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	checks := map[string]*readinessCheck{
		"postgres": {Status: "unknown"},
		"milvus":   {Status: "unknown"},
	}

	ready := true
	ready = runCheck(ctx, checks["postgres"], h.pg.HealthCheck) && ready
	ready = runCheck(ctx, checks["milvus"], h.milvus.HealthCheck) && ready

	if h.redis != nil {
		checks["redis"] = &readinessCheck{Status: "unknown"}
		if !runCheck(ctx, checks["redis"], h.redis.HealthCheck) {
			checks["redis"].Status = "degraded"
		}
	}

	resp := readinessResponse{
		Status: "ok",
		Checks: checks,
	}
	if !ready {
		resp.Status = "not_ready"
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// runCheck 단일 의존성 점검 실행
func runCheck(ctx context.Context, check *readinessCheck, fn func(context.Context) error) bool {
	start := time.Now()
	err := fn(ctx)
	check.LatencyMs = time.Since(start).Milliseconds()
	if err != nil {
		check.Status = "error"
		check.Error = err.Error()
		return false
	}
	check.Status = "ok"
	return true
}

// Status 시스템 상태 조회
// GET /v1/status
func (h *HealthHandler) Status(c *gin.Context) {
	status, err := h.engine.Status(c.Request.Context())
	if err != nil {
		dto.FromAppError(c, err)
		return
	}

	dto.Success(c, dto.SystemStatusResponse{
		VectorCount:    status.VectorCount,
		ActiveSessions: status.ActiveSessions,
	})
}
