// Package port 외부 협력자 인터페이스를 정의한다
// 구현체는 infrastructure 계층에 있으며 재시도/타임아웃 정책은 구현체가 소유한다
package port

import "context"

// Embedder 텍스트 임베딩 인터페이스
// 같은 모델 버전에서는 같은 입력에 같은 벡터를 반환한다
type Embedder interface {
	// Embed 단일 텍스트 임베딩
	Embed(ctx context.Context, text string) ([]float32, error)
	// EmbedBatch 배치 임베딩, 입력 순서가 유지된다
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// Generator LLM 응답 생성 인터페이스
type Generator interface {
	// Generate 시스템 프롬프트와 대화 맥락을 바탕으로 응답 생성
	// conversationContext가 비어 있으면 이전 대화 없이 생성한다
	Generate(ctx context.Context, systemPrompt, conversationContext, userMessage string) (string, error)
}
