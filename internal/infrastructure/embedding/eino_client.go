// Package embedding Eino 기반 임베딩 클라이언트를 제공한다
package embedding

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/embedding/openai"
	"github.com/cloudwego/eino/components/embedding"

	"kstartup-rag-api/internal/application/port"
	"kstartup-rag-api/internal/config"
)

// EinoEmbedder Eino OpenAI 어댑터 기반 임베더
type EinoEmbedder struct {
	embedder embedding.Embedder
}

var _ port.Embedder = (*EinoEmbedder)(nil)

// NewEinoEmbedder Eino 임베더 생성
func NewEinoEmbedder(ctx context.Context, cfg *config.EmbeddingConfig) (*EinoEmbedder, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("embedding endpoint is required")
	}

	embedder, err := openai.NewEmbedder(ctx, &openai.EmbeddingConfig{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.Endpoint,
		Model:   cfg.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create eino embedder: %w", err)
	}

	return &EinoEmbedder{embedder: embedder}, nil
}

// Embed 단일 텍스트 임베딩
func (e *EinoEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch 배치 임베딩, 입력 순서가 유지된다
func (e *EinoEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	raw, err := e.embedder.EmbedStrings(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to embed texts: %w", err)
	}
	if len(raw) != len(texts) {
		return nil, fmt.Errorf("embedding count mismatch: got %d, want %d", len(raw), len(texts))
	}

	vectors := make([][]float32, len(raw))
	for i, v := range raw {
		vec := make([]float32, len(v))
		for j, f := range v {
			vec[j] = float32(f)
		}
		vectors[i] = vec
	}
	return vectors, nil
}
