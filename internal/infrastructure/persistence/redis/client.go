// Package redis Redis 기반 요청 제한 기능을 제공한다
package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"

	"kstartup-rag-api/internal/config"
)

var tracer = otel.Tracer("redis")

// Client Redis 클라이언트
type Client struct {
	rdb    *redis.Client
	config *config.RedisConfig
}

// NewClient Redis 클라이언트 생성
func NewClient(ctx context.Context, cfg *config.RedisConfig) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &Client{
		rdb:    rdb,
		config: cfg,
	}, nil
}

// Redis 하위 클라이언트 반환
func (c *Client) Redis() *redis.Client {
	return c.rdb
}

// Close Redis 연결 종료
func (c *Client) Close() error {
	return c.rdb.Close()
}

// HealthCheck 연결 상태 확인
func (c *Client) HealthCheck(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "redis.HealthCheck")
	defer span.End()

	if err := c.rdb.Ping(ctx).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("health check failed: %w", err)
	}
	return nil
}
