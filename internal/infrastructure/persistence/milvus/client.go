// Package milvus 공고 벡터 스토어의 Milvus 구현을 제공한다
package milvus

import (
	"context"
	"fmt"

	"github.com/milvus-io/milvus-sdk-go/v2/client"
	"go.opentelemetry.io/otel"

	"kstartup-rag-api/internal/config"
)

var tracer = otel.Tracer("milvus")

// Client Milvus 클라이언트
type Client struct {
	milvus client.Client
	config *config.MilvusConfig
}

// NewClient Milvus 클라이언트 생성
func NewClient(ctx context.Context, cfg *config.MilvusConfig) (*Client, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	var milvusClient client.Client
	var err error

	if cfg.User != "" && cfg.Password != "" {
		milvusClient, err = client.NewClient(ctx, client.Config{
			Address:  addr,
			Username: cfg.User,
			Password: cfg.Password,
		})
	} else {
		milvusClient, err = client.NewClient(ctx, client.Config{
			Address: addr,
		})
	}

	if err != nil {
		return nil, fmt.Errorf("failed to connect to milvus: %w", err)
	}

	return &Client{
		milvus: milvusClient,
		config: cfg,
	}, nil
}

// Milvus 하위 Milvus 클라이언트 반환
func (c *Client) Milvus() client.Client {
	return c.milvus
}

// Close Milvus 연결 종료
func (c *Client) Close() error {
	return c.milvus.Close()
}

// HealthCheck 연결 상태 확인
func (c *Client) HealthCheck(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "milvus.HealthCheck")
	defer span.End()

	_, err := c.milvus.HasCollection(ctx, "health_check")
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("health check failed: %w", err)
	}
	return nil
}

// CollectionName 접두사가 붙은 컬렉션 이름 반환
func (c *Client) CollectionName(name string) string {
	if c.config.CollectionPrefix != "" {
		return c.config.CollectionPrefix + "_" + name
	}
	return name
}
