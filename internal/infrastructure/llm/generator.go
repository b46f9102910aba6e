package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/schema"

	"kstartup-rag-api/internal/application/port"
	"kstartup-rag-api/internal/config"
	"kstartup-rag-api/pkg/metrics"
)

// Generator 챗봇 응답 생성기
// 시스템 프롬프트와 대화 맥락을 Eino 메시지로 변환해 ChatModel을 호출한다
type Generator struct {
	factory  *EinoFactory
	provider string
	model    string
}

var _ port.Generator = (*Generator)(nil)

// NewGenerator 기본 Provider를 쓰는 응답 생성기 생성
func NewGenerator(factory *EinoFactory, cfg *config.LLMConfig) *Generator {
	modelName := ""
	if providerCfg, ok := cfg.Providers[cfg.DefaultProvider]; ok {
		modelName = providerCfg.Model
	}
	return &Generator{
		factory:  factory,
		provider: cfg.DefaultProvider,
		model:    modelName,
	}
}

// Generate 응답 생성
func (g *Generator) Generate(ctx context.Context, systemPrompt, conversationContext, userMessage string) (string, error) {
	chatModel, err := g.factory.Default(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get chat model: %w", err)
	}

	messages := []*schema.Message{
		schema.SystemMessage(systemPrompt),
	}
	if conversationContext != "" {
		messages = append(messages, schema.SystemMessage("참고할 이전 대화:\n"+conversationContext))
	}
	messages = append(messages, schema.UserMessage(userMessage))

	start := time.Now()
	outMsg, err := chatModel.Generate(ctx, messages)
	metrics.LLMCallDuration.WithLabelValues(g.provider, g.model).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.LLMCallTotal.WithLabelValues(g.provider, g.model, "error").Inc()
		return "", fmt.Errorf("failed to generate response: %w", err)
	}
	metrics.LLMCallTotal.WithLabelValues(g.provider, g.model, "success").Inc()

	if outMsg.ResponseMeta != nil && outMsg.ResponseMeta.Usage != nil {
		usage := outMsg.ResponseMeta.Usage
		metrics.LLMTokensUsed.WithLabelValues(g.provider, g.model, "prompt").Add(float64(usage.PromptTokens))
		metrics.LLMTokensUsed.WithLabelValues(g.provider, g.model, "completion").Add(float64(usage.CompletionTokens))
	}

	return strings.TrimSpace(outMsg.Content), nil
}
