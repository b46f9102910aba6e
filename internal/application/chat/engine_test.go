package chat

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"kstartup-rag-api/internal/domain/entity"
	"kstartup-rag-api/internal/domain/repository"
)

type stubEmbedder struct {
	embedFn func(ctx context.Context, text string) ([]float32, error)
}

func (s *stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return s.embedFn(ctx, text)
}

func (s *stubEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for _, t := range texts {
		v, err := s.embedFn(ctx, t)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

type stubVectorRepo struct {
	searchFn func(ctx context.Context, vector []float32, topK int) ([]entity.SearchCandidate, error)
	countFn  func(ctx context.Context) (int64, error)
}

func (s *stubVectorRepo) EnsureCollection(ctx context.Context) error { return nil }

func (s *stubVectorRepo) Upsert(ctx context.Context, records []repository.VectorRecord) error {
	return nil
}

func (s *stubVectorRepo) Search(ctx context.Context, vector []float32, topK int) ([]entity.SearchCandidate, error) {
	return s.searchFn(ctx, vector, topK)
}

func (s *stubVectorRepo) Count(ctx context.Context) (int64, error) {
	if s.countFn != nil {
		return s.countFn(ctx)
	}
	return 0, nil
}

func (s *stubVectorRepo) Close() error { return nil }

type stubGenerator struct {
	generateFn func(ctx context.Context, systemPrompt, conversationContext, userMessage string) (string, error)
}

func (s *stubGenerator) Generate(ctx context.Context, systemPrompt, conversationContext, userMessage string) (string, error) {
	return s.generateFn(ctx, systemPrompt, conversationContext, userMessage)
}

func okEmbedder() *stubEmbedder {
	return &stubEmbedder{
		embedFn: func(ctx context.Context, text string) ([]float32, error) {
			return []float32{0.1, 0.2, 0.3}, nil
		},
	}
}

func newTestEngine(vectors *stubVectorRepo, llm *stubGenerator) *Engine {
	e := NewEngine(okEmbedder(), vectors, llm, NewSessionStore(5), DefaultOptions())
	e.nowFn = testNow
	return e
}

func TestEngineQueryAnswered(t *testing.T) {
	vectors := &stubVectorRepo{
		searchFn: func(ctx context.Context, vector []float32, topK int) ([]entity.SearchCandidate, error) {
			// 확장 검색 배수가 적용되어야 한다
			require.Equal(t, 50, topK)
			return []entity.SearchCandidate{
				candidate("a", "20250101 ~ 20250320", 0.7, 500_000_000),
			}, nil
		},
	}
	llm := &stubGenerator{
		generateFn: func(ctx context.Context, systemPrompt, conversationContext, userMessage string) (string, error) {
			require.Contains(t, systemPrompt, "K-Startup 지원사업 전문 상담사")
			require.Contains(t, userMessage, "청년 창업 지원사업")
			require.Contains(t, userMessage, "테스트 공고 a")
			return "추천 답변입니다", nil
		},
	}
	e := newTestEngine(vectors, llm)

	result, err := e.Query(context.Background(), QueryInput{SessionID: "s1", Query: "청년 창업 지원사업 알려줘"})

	require.NoError(t, err)
	require.Equal(t, StatusAnswered, result.Status)
	require.Equal(t, "추천 답변입니다", result.Answer)
	require.InDelta(t, 0.8875, result.Confidence, 1e-9)
	require.Len(t, result.Sources, 1)
	require.Equal(t, "테스트 공고 a", result.Sources[0].Title)

	// 대화 기억이 갱신되어야 한다
	status := e.MemoryStatus("s1")
	require.Equal(t, 1, status.Count)
}

func TestEngineQueryFallbackOnLLMFailure(t *testing.T) {
	vectors := &stubVectorRepo{
		searchFn: func(ctx context.Context, vector []float32, topK int) ([]entity.SearchCandidate, error) {
			return []entity.SearchCandidate{
				candidate("a", "20250101 ~ 20250320", 0.7, 0),
			}, nil
		},
	}
	llm := &stubGenerator{
		generateFn: func(ctx context.Context, systemPrompt, conversationContext, userMessage string) (string, error) {
			return "", errors.New("llm timeout")
		},
	}
	e := newTestEngine(vectors, llm)

	result, err := e.Query(context.Background(), QueryInput{SessionID: "s1", Query: "창업 지원"})

	// LLM 장애는 에러가 아니라 템플릿 응답으로 강등된다
	require.NoError(t, err)
	require.Equal(t, StatusFallback, result.Status)
	require.Contains(t, result.Answer, "테스트 공고 a")
	require.Contains(t, result.Answer, "테스트 기관")

	// 강등 응답도 대화 기억에 남는다
	require.Equal(t, 1, e.MemoryStatus("s1").Count)
}

func TestEngineQueryNoResult(t *testing.T) {
	vectors := &stubVectorRepo{
		searchFn: func(ctx context.Context, vector []float32, topK int) ([]entity.SearchCandidate, error) {
			return nil, nil
		},
	}
	llm := &stubGenerator{
		generateFn: func(ctx context.Context, systemPrompt, conversationContext, userMessage string) (string, error) {
			t.Fatal("검색 결과가 없으면 LLM을 호출하지 않는다")
			return "", nil
		},
	}
	e := newTestEngine(vectors, llm)

	result, err := e.Query(context.Background(), QueryInput{SessionID: "s1", Query: "존재하지 않는 주제"})

	require.NoError(t, err)
	require.Equal(t, StatusNoResult, result.Status)
	require.Equal(t, 0.0, result.Confidence)
	require.Contains(t, result.Answer, "관련된 지원사업 정보를 찾을 수 없습니다")
	require.Equal(t, 1, e.MemoryStatus("s1").Count)
}

func TestEngineQueryEmbedFailureAborts(t *testing.T) {
	e := NewEngine(
		&stubEmbedder{embedFn: func(ctx context.Context, text string) ([]float32, error) {
			return nil, errors.New("embedding down")
		}},
		&stubVectorRepo{},
		&stubGenerator{},
		NewSessionStore(5),
		DefaultOptions(),
	)
	e.nowFn = testNow

	result, err := e.Query(context.Background(), QueryInput{SessionID: "s1", Query: "창업"})

	require.Error(t, err)
	require.Nil(t, result)
	require.Equal(t, 0, e.MemoryStatus("s1").Count)
}

func TestEngineConversationContextFlowsToLLM(t *testing.T) {
	vectors := &stubVectorRepo{
		searchFn: func(ctx context.Context, vector []float32, topK int) ([]entity.SearchCandidate, error) {
			return []entity.SearchCandidate{
				candidate("a", "20250101 ~ 20250320", 0.7, 0),
			}, nil
		},
	}
	var lastConversationContext string
	llm := &stubGenerator{
		generateFn: func(ctx context.Context, systemPrompt, conversationContext, userMessage string) (string, error) {
			lastConversationContext = conversationContext
			return "답변", nil
		},
	}
	e := newTestEngine(vectors, llm)

	_, err := e.Query(context.Background(), QueryInput{SessionID: "s1", Query: "첫 번째 질문"})
	require.NoError(t, err)
	require.Empty(t, lastConversationContext)

	_, err = e.Query(context.Background(), QueryInput{SessionID: "s1", Query: "두 번째 질문"})
	require.NoError(t, err)
	require.Contains(t, lastConversationContext, "이전 대화 내용:")
	require.Contains(t, lastConversationContext, "첫 번째 질문")
}

func TestEngineClearMemory(t *testing.T) {
	e := newTestEngine(&stubVectorRepo{}, &stubGenerator{})

	memory, release := e.sessions.Acquire("s1")
	memory.Append("질문", "답변", testNow())
	release()

	e.ClearMemory(context.Background(), "s1")
	require.Equal(t, 0, e.MemoryStatus("s1").Count)
}

func TestEngineStatus(t *testing.T) {
	vectors := &stubVectorRepo{
		countFn: func(ctx context.Context) (int64, error) { return 321, nil },
	}
	e := newTestEngine(vectors, &stubGenerator{})
	e.MemoryStatus("s1")

	status, err := e.Status(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(321), status.VectorCount)
	require.Equal(t, 1, status.ActiveSessions)
}
