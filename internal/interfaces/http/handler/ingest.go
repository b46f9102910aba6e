package handler

import (
	"sync/atomic"

	"github.com/gin-gonic/gin"

	"kstartup-rag-api/internal/application/ingest"
	"kstartup-rag-api/internal/interfaces/http/dto"
	"kstartup-rag-api/pkg/logger"
)

// IngestHandler 공고 인제스트 처리기
type IngestHandler struct {
	ingester *ingest.Ingester
	running  atomic.Bool
}

// NewIngestHandler 인제스트 처리기 생성
func NewIngestHandler(ingester *ingest.Ingester) *IngestHandler {
	return &IngestHandler{ingester: ingester}
}

// Run 전체 공고 재색인 실행
// 업서트 기반이므로 재실행해도 벡터 스토어가 중복되지 않는다
// POST /v1/ingest
func (h *IngestHandler) Run(c *gin.Context) {
	if !h.running.CompareAndSwap(false, true) {
		dto.Conflict(c, "인제스트가 이미 실행 중입니다")
		return
	}
	defer h.running.Store(false)

	ctx := c.Request.Context()
	report, err := h.ingester.Run(ctx)
	if err != nil {
		logger.Error(ctx, "인제스트 실패", err,
			"total", report.Total, "upserted", report.Upserted)
		dto.FromAppError(c, err)
		return
	}

	dto.Success(c, dto.IngestResponse{
		Total:    report.Total,
		Upserted: report.Upserted,
		Skipped:  report.Skipped,
	})
}
