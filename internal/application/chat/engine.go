package chat

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"kstartup-rag-api/internal/application/nlp"
	"kstartup-rag-api/internal/application/port"
	"kstartup-rag-api/internal/domain/entity"
	"kstartup-rag-api/internal/domain/repository"
	"kstartup-rag-api/pkg/errors"
	"kstartup-rag-api/pkg/logger"
	"kstartup-rag-api/pkg/metrics"
)

var tracer = otel.Tracer("application/chat")

// Options 질의 파이프라인 동작 설정
type Options struct {
	TopK                 int
	OversampleFactor     int
	OversampleCap        int
	ContextMaxCandidates int
	ContextSnippetRunes  int
}

// DefaultOptions 기본 설정
func DefaultOptions() Options {
	return Options{
		TopK:                 10,
		OversampleFactor:     5,
		OversampleCap:        100,
		ContextMaxCandidates: 10,
		ContextSnippetRunes:  300,
	}
}

// Engine 질의 파이프라인
// 임베딩 -> 벡터 검색 -> 재정렬 -> 컨텍스트 구성 -> LLM 생성 -> 대화 기억 갱신
// 순서로 동작하며, 협력자 장애는 템플릿 응답으로 강등되어 흡수된다
type Engine struct {
	embedder port.Embedder
	vectors  repository.AnnouncementVectorRepository
	llm      port.Generator
	sessions *SessionStore
	opts     Options
	nowFn    func() time.Time
}

// NewEngine 질의 파이프라인 생성
func NewEngine(embedder port.Embedder, vectors repository.AnnouncementVectorRepository, llm port.Generator, sessions *SessionStore, opts Options) *Engine {
	if opts.TopK <= 0 {
		opts.TopK = DefaultOptions().TopK
	}
	if opts.OversampleFactor <= 0 {
		opts.OversampleFactor = DefaultOptions().OversampleFactor
	}
	if opts.OversampleCap <= 0 {
		opts.OversampleCap = DefaultOptions().OversampleCap
	}
	if opts.ContextMaxCandidates <= 0 {
		opts.ContextMaxCandidates = DefaultOptions().ContextMaxCandidates
	}
	if opts.ContextSnippetRunes <= 0 {
		opts.ContextSnippetRunes = DefaultOptions().ContextSnippetRunes
	}
	return &Engine{
		embedder: embedder,
		vectors:  vectors,
		llm:      llm,
		sessions: sessions,
		opts:     opts,
		nowFn:    time.Now,
	}
}

// Query 사용자 질문 처리
// 임베딩/벡터 검색 실패는 에러로 반환되고, LLM 실패는 템플릿 응답으로 강등된다
func (e *Engine) Query(ctx context.Context, input QueryInput) (*QueryResult, error) {
	ctx, span := tracer.Start(ctx, "chat.query")
	defer span.End()

	start := e.nowFn()
	now := start.In(nlp.KST)

	topK := input.TopK
	if topK <= 0 {
		topK = e.opts.TopK
	}

	memory, release := e.sessions.Acquire(input.SessionID)
	defer release()

	cond := nlp.ExtractAmountCondition(input.Query)
	if cond.HasCondition() {
		logger.Info(ctx, "금액 조건 추출",
			"session_id", input.SessionID,
			"min_amount", cond.MinAmount,
			"condition_text", cond.ConditionText)
	}

	vector, err := e.embedder.Embed(ctx, input.Query)
	if err != nil {
		metrics.ChatQueriesTotal.WithLabelValues("error").Inc()
		return nil, errors.Wrap(err, errors.CodeEmbeddingFailed, "질문 임베딩에 실패했습니다")
	}

	extendedK := ExtendedK(topK, e.opts.OversampleFactor, e.opts.OversampleCap)
	span.SetAttributes(
		attribute.Int("chat.top_k", topK),
		attribute.Int("chat.extended_k", extendedK),
	)

	raw, err := e.vectors.Search(ctx, vector, extendedK)
	if err != nil {
		metrics.ChatQueriesTotal.WithLabelValues("error").Inc()
		return nil, errors.Wrap(err, errors.CodeVectorDBError, "공고 검색에 실패했습니다")
	}

	if len(raw) == 0 {
		answer := NoResultResponse(input.Query, now)
		memory.Append(input.Query, answer, now)
		metrics.ChatQueriesTotal.WithLabelValues("no_result").Inc()
		metrics.ChatQueryDuration.Observe(e.nowFn().Sub(start).Seconds())
		return &QueryResult{
			Answer:          answer,
			Confidence:      0.0,
			Status:          StatusNoResult,
			Sources:         []Source{},
			Candidates:      []entity.SearchCandidate{},
			AmountCondition: cond,
			Elapsed:         e.nowFn().Sub(start),
		}, nil
	}

	ranked, stats := Rerank(raw, cond, topK, now)
	confidence := EstimateConfidence(ranked)

	logger.Info(ctx, "최종 검색 결과",
		"session_id", input.SessionID,
		"total", len(ranked),
		"applicable", stats.ApplicableCount,
		"current_year", stats.CurrentYearCount,
		"urgent", stats.UrgentCount,
		"amount_matched", stats.AmountMatchedCount)

	metrics.RerankCandidates.WithLabelValues("applicable").Add(float64(stats.ApplicableCount))
	metrics.RerankCandidates.WithLabelValues("current_year").Add(float64(stats.CurrentYearCount))
	metrics.RerankCandidates.WithLabelValues("urgent").Add(float64(stats.UrgentCount))
	metrics.RerankCandidates.WithLabelValues("amount_matched").Add(float64(stats.AmountMatchedCount))

	searchContext := BuildSearchContext(ranked, e.opts.ContextMaxCandidates, e.opts.ContextSnippetRunes)
	conversationContext := BuildConversationContext(memory.Turns())
	systemPrompt := BuildSystemPrompt(now)
	userMessage := BuildUserMessage(input.Query, searchContext)

	status := StatusAnswered
	answer, err := e.llm.Generate(ctx, systemPrompt, conversationContext, userMessage)
	if err != nil {
		// LLM 장애는 최상위 후보 기반 템플릿 응답으로 강등
		logger.Warn(ctx, "LLM 응답 생성 실패, 템플릿 응답으로 대체",
			"session_id", input.SessionID, "error", err)
		answer = FallbackResponse(input.Query, ranked, now)
		status = StatusFallback
	}

	// 강등된 응답도 대화 기억에 남겨 연속성을 유지한다
	memory.Append(input.Query, answer, now)

	metrics.ChatQueriesTotal.WithLabelValues(string(status)).Inc()
	metrics.ChatQueryDuration.Observe(e.nowFn().Sub(start).Seconds())
	metrics.ChatConfidence.Observe(confidence)

	return &QueryResult{
		Answer:          answer,
		Confidence:      confidence,
		Status:          status,
		Sources:         extractSources(ranked),
		Candidates:      ranked,
		AmountCondition: cond,
		Stats:           stats,
		Elapsed:         e.nowFn().Sub(start),
	}, nil
}

// extractSources 후보 목록에서 근거 공고 요약 추출
func extractSources(candidates []entity.SearchCandidate) []Source {
	sources := make([]Source, 0, len(candidates))
	for _, c := range candidates {
		sources = append(sources, Source{
			ID:           c.ID,
			Title:        c.Metadata.Title,
			Organization: c.Metadata.Organization,
			Score:        c.SimilarityScore,
		})
	}
	return sources
}

// MemorySummary 세션의 대화 요약 반환
func (e *Engine) MemorySummary(sessionID string) string {
	memory, release := e.sessions.Acquire(sessionID)
	defer release()
	return memory.Summary()
}

// MemoryStatus 세션의 대화 기억 상태 반환
func (e *Engine) MemoryStatus(sessionID string) entity.MemoryStatus {
	memory, release := e.sessions.Acquire(sessionID)
	defer release()
	return memory.Status()
}

// ClearMemory 세션의 대화 기억 초기화
func (e *Engine) ClearMemory(ctx context.Context, sessionID string) {
	memory, release := e.sessions.Acquire(sessionID)
	defer release()
	memory.Clear()
	logger.Info(ctx, "대화 기억 초기화", "session_id", sessionID)
}

// Status 시스템 상태 요약 반환
func (e *Engine) Status(ctx context.Context) (SystemStatus, error) {
	count, err := e.vectors.Count(ctx)
	if err != nil {
		return SystemStatus{}, errors.Wrap(err, errors.CodeVectorDBError, "벡터 스토어 상태 조회 실패")
	}
	return SystemStatus{
		VectorCount:    count,
		ActiveSessions: e.sessions.Len(),
	}, nil
}
