package chat

import (
	"time"

	"kstartup-rag-api/internal/domain/entity"
)

// ResultStatus 질의 처리 결과 구분
type ResultStatus string

const (
	StatusAnswered ResultStatus = "answered"  // LLM 응답 생성 성공
	StatusFallback ResultStatus = "fallback"  // LLM 실패, 템플릿 응답으로 대체
	StatusNoResult ResultStatus = "no_result" // 검색 결과 없음
)

// QueryInput 질의 요청
type QueryInput struct {
	SessionID string
	Query     string
	TopK      int
}

// Source 응답 근거가 된 공고 요약
type Source struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	Organization string  `json:"organization"`
	Score        float64 `json:"score"`
}

// QueryResult 질의 처리 결과
type QueryResult struct {
	Answer          string                   `json:"answer"`
	Confidence      float64                  `json:"confidence"`
	Status          ResultStatus             `json:"status"`
	Sources         []Source                 `json:"sources"`
	Candidates      []entity.SearchCandidate `json:"candidates"`
	AmountCondition entity.AmountCondition   `json:"amount_condition"`
	Stats           entity.RerankStats       `json:"stats"`
	Elapsed         time.Duration            `json:"elapsed"`
}

// SystemStatus 시스템 상태 요약
type SystemStatus struct {
	VectorCount    int64 `json:"vector_count"`
	ActiveSessions int   `json:"active_sessions"`
}
