package dto

import (
	"kstartup-rag-api/internal/application/chat"
	"kstartup-rag-api/internal/domain/entity"
)

// ChatQueryRequest 챗봇 질의 요청
type ChatQueryRequest struct {
	SessionID string `json:"session_id" binding:"required,max=128"`
	Query     string `json:"query" binding:"required,max=2000"`
	TopK      int    `json:"top_k" binding:"omitempty,min=1,max=100"`
}

// SourceItem 응답 근거 공고
type SourceItem struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	Organization string  `json:"organization"`
	Score        float64 `json:"score"`
}

// CandidateItem 재정렬된 후보 공고
type CandidateItem struct {
	ID                   string  `json:"id"`
	Title                string  `json:"title"`
	Organization         string  `json:"organization"`
	ApplicationPeriod    string  `json:"application_period"`
	AmountText           string  `json:"amount_text,omitempty"`
	SimilarityScore      float64 `json:"similarity_score"`
	PriorityScore        float64 `json:"priority_score"`
	DeadlineStatus       string  `json:"deadline_status"`
	DaysRemaining        *int    `json:"days_remaining,omitempty"`
	IsApplicable         bool    `json:"is_applicable"`
	IsCurrentYear        bool    `json:"is_current_year"`
	MeetsAmountCondition bool    `json:"meets_amount_condition"`
}

// AmountConditionItem 질문에서 추출된 금액 조건
type AmountConditionItem struct {
	MinAmount     int64  `json:"min_amount"`
	ConditionText string `json:"condition_text,omitempty"`
}

// RerankStatsItem 재정렬 집계
type RerankStatsItem struct {
	ApplicableCount    int `json:"applicable_count"`
	CurrentYearCount   int `json:"current_year_count"`
	UrgentCount        int `json:"urgent_count"`
	AmountMatchedCount int `json:"amount_matched_count"`
}

// ChatQueryResponse 챗봇 질의 응답
type ChatQueryResponse struct {
	Answer          string               `json:"answer"`
	Confidence      float64              `json:"confidence"`
	Status          string               `json:"status"`
	Sources         []SourceItem         `json:"sources"`
	Candidates      []CandidateItem      `json:"candidates"`
	AmountCondition *AmountConditionItem `json:"amount_condition,omitempty"`
	Stats           RerankStatsItem      `json:"stats"`
	ElapsedMs       int64                `json:"elapsed_ms"`
}

// NewChatQueryResponse 파이프라인 결과를 응답 DTO로 변환
func NewChatQueryResponse(result *chat.QueryResult) ChatQueryResponse {
	sources := make([]SourceItem, 0, len(result.Sources))
	for _, s := range result.Sources {
		sources = append(sources, SourceItem{
			ID:           s.ID,
			Title:        s.Title,
			Organization: s.Organization,
			Score:        s.Score,
		})
	}

	candidates := make([]CandidateItem, 0, len(result.Candidates))
	for _, c := range result.Candidates {
		candidates = append(candidates, newCandidateItem(c))
	}

	resp := ChatQueryResponse{
		Answer:     result.Answer,
		Confidence: result.Confidence,
		Status:     string(result.Status),
		Sources:    sources,
		Candidates: candidates,
		Stats: RerankStatsItem{
			ApplicableCount:    result.Stats.ApplicableCount,
			CurrentYearCount:   result.Stats.CurrentYearCount,
			UrgentCount:        result.Stats.UrgentCount,
			AmountMatchedCount: result.Stats.AmountMatchedCount,
		},
		ElapsedMs: result.Elapsed.Milliseconds(),
	}
	if result.AmountCondition.HasCondition() {
		resp.AmountCondition = &AmountConditionItem{
			MinAmount:     result.AmountCondition.MinAmount,
			ConditionText: result.AmountCondition.ConditionText,
		}
	}
	return resp
}

func newCandidateItem(c entity.SearchCandidate) CandidateItem {
	return CandidateItem{
		ID:                   c.ID,
		Title:                c.Metadata.Title,
		Organization:         c.Metadata.Organization,
		ApplicationPeriod:    c.Metadata.ApplicationPeriod,
		AmountText:           c.Metadata.NormalizedAmountText,
		SimilarityScore:      c.SimilarityScore,
		PriorityScore:        c.PriorityScore,
		DeadlineStatus:       string(c.DeadlineStatus.Status),
		DaysRemaining:        c.DeadlineStatus.DaysRemaining,
		IsApplicable:         c.IsApplicable,
		IsCurrentYear:        c.IsCurrentYear,
		MeetsAmountCondition: c.MeetsAmountCondition,
	}
}

// MemorySummaryResponse 대화 기억 요약 응답
type MemorySummaryResponse struct {
	SessionID string `json:"session_id"`
	Summary   string `json:"summary"`
}

// MemoryStatusResponse 대화 기억 상태 응답
type MemoryStatusResponse struct {
	SessionID string `json:"session_id"`
	Count     int    `json:"count"`
	MaxTurns  int    `json:"max_turns"`
	OldestAt  string `json:"oldest_at,omitempty"`
	LatestAt  string `json:"latest_at,omitempty"`
}

// SystemStatusResponse 시스템 상태 응답
type SystemStatusResponse struct {
	VectorCount    int64 `json:"vector_count"`
	ActiveSessions int   `json:"active_sessions"`
}

// IngestResponse 인제스트 결과 응답
type IngestResponse struct {
	Total    int `json:"total"`
	Upserted int `json:"upserted"`
	Skipped  int `json:"skipped"`
}
