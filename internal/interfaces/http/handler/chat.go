// Package handler HTTP 요청 처리기를 제공한다
package handler

import (
	"github.com/gin-gonic/gin"

	"kstartup-rag-api/internal/application/chat"
	"kstartup-rag-api/internal/interfaces/http/dto"
	"kstartup-rag-api/pkg/logger"
)

// ChatHandler 챗봇 질의 처리기
type ChatHandler struct {
	engine *chat.Engine
}

// NewChatHandler 챗봇 처리기 생성
func NewChatHandler(engine *chat.Engine) *ChatHandler {
	return &ChatHandler{engine: engine}
}

// Query 질문 처리
// POST /v1/chat/query
func (h *ChatHandler) Query(c *gin.Context) {
	var req dto.ChatQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "잘못된 요청 형식입니다: "+err.Error())
		return
	}

	ctx := logger.WithContext(c.Request.Context(), logger.SessionIDKey, req.SessionID)

	result, err := h.engine.Query(ctx, chat.QueryInput{
		SessionID: req.SessionID,
		Query:     req.Query,
		TopK:      req.TopK,
	})
	if err != nil {
		logger.Error(ctx, "질의 처리 실패", err, "session_id", req.SessionID)
		dto.FromAppError(c, err)
		return
	}

	dto.Success(c, dto.NewChatQueryResponse(result))
}

// MemorySummary 세션 대화 요약 조회
// GET /v1/chat/sessions/:session_id/memory
func (h *ChatHandler) MemorySummary(c *gin.Context) {
	sessionID := c.Param("session_id")
	if sessionID == "" {
		dto.BadRequest(c, "session_id가 필요합니다")
		return
	}

	dto.Success(c, dto.MemorySummaryResponse{
		SessionID: sessionID,
		Summary:   h.engine.MemorySummary(sessionID),
	})
}

// MemoryStatus 세션 대화 기억 상태 조회
// GET /v1/chat/sessions/:session_id/memory/status
func (h *ChatHandler) MemoryStatus(c *gin.Context) {
	sessionID := c.Param("session_id")
	if sessionID == "" {
		dto.BadRequest(c, "session_id가 필요합니다")
		return
	}

	status := h.engine.MemoryStatus(sessionID)
	resp := dto.MemoryStatusResponse{
		SessionID: sessionID,
		Count:     status.Count,
		MaxTurns:  status.MaxTurns,
	}
	if status.OldestTS != nil {
		resp.OldestAt = status.OldestTS.Format("2006-01-02 15:04:05")
	}
	if status.LatestTS != nil {
		resp.LatestAt = status.LatestTS.Format("2006-01-02 15:04:05")
	}

	dto.Success(c, resp)
}

// ClearMemory 세션 대화 기억 초기화
// DELETE /v1/chat/sessions/:session_id/memory
func (h *ChatHandler) ClearMemory(c *gin.Context) {
	sessionID := c.Param("session_id")
	if sessionID == "" {
		dto.BadRequest(c, "session_id가 필요합니다")
		return
	}

	h.engine.ClearMemory(c.Request.Context(), sessionID)
	dto.Success(c, gin.H{"session_id": sessionID, "cleared": true})
}
