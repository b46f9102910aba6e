// Package main 챗봇 API 서비스 진입점
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"kstartup-rag-api/internal/application/chat"
	"kstartup-rag-api/internal/application/ingest"
	"kstartup-rag-api/internal/config"
	"kstartup-rag-api/internal/infrastructure/embedding"
	"kstartup-rag-api/internal/infrastructure/llm"
	"kstartup-rag-api/internal/infrastructure/persistence/milvus"
	"kstartup-rag-api/internal/infrastructure/persistence/postgres"
	"kstartup-rag-api/internal/infrastructure/persistence/redis"
	"kstartup-rag-api/internal/interfaces/http/handler"
	"kstartup-rag-api/internal/interfaces/http/router"
	"kstartup-rag-api/pkg/logger"
	"kstartup-rag-api/pkg/tracer"
)

// 빌드 시 주입되는 버전 정보
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(
		cfg.Observability.Logging.Level,
		cfg.Observability.Logging.Format,
	)

	ctx := context.Background()
	log := logger.FromContext(ctx)
	log.Info("starting chat-api",
		"version", Version,
		"build_time", BuildTime,
		"env", cfg.App.Env,
	)

	shutdownTracer, err := tracer.Init(ctx, tracer.Config{
		ServiceName: cfg.App.Name,
		Endpoint:    cfg.Observability.Tracing.Endpoint,
		SampleRate:  cfg.Observability.Tracing.SampleRate,
		Enabled:     cfg.Observability.Tracing.Enabled,
	})
	if err != nil {
		log.Error("failed to init tracer", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := shutdownTracer(ctx); err != nil {
			log.Error("failed to shutdown tracer", "error", err)
		}
	}()

	// 외부 의존성 연결
	pgClient, err := postgres.NewClient(&cfg.Database.Postgres)
	if err != nil {
		logger.Fatal(ctx, "failed to connect to postgres", err)
	}
	defer pgClient.Close()

	milvusClient, err := milvus.NewClient(ctx, &cfg.Vector.Milvus)
	if err != nil {
		logger.Fatal(ctx, "failed to connect to milvus", err)
	}
	defer milvusClient.Close()

	redisClient, err := redis.NewClient(ctx, &cfg.Cache.Redis)
	if err != nil {
		logger.Fatal(ctx, "failed to connect to redis", err)
	}
	defer redisClient.Close()

	embedder, err := embedding.NewEinoEmbedder(ctx, &cfg.Embedding)
	if err != nil {
		logger.Fatal(ctx, "failed to init embedder", err)
	}

	vectorRepo := milvus.NewRepository(milvusClient)
	if err := vectorRepo.EnsureCollection(ctx); err != nil {
		logger.Fatal(ctx, "failed to ensure vector collection", err)
	}

	llmFactory := llm.NewEinoFactory(cfg)
	generator := llm.NewGenerator(llmFactory, &cfg.LLM)

	sessions := chat.NewSessionStore(cfg.RAG.MaxMemoryTurns)
	engine := chat.NewEngine(embedder, vectorRepo, generator, sessions, chat.Options{
		TopK:                 cfg.RAG.TopK,
		OversampleFactor:     cfg.RAG.OversampleFactor,
		OversampleCap:        cfg.RAG.OversampleCap,
		ContextMaxCandidates: cfg.RAG.ContextMaxCandidates,
		ContextSnippetRunes:  cfg.RAG.ContextSnippetRunes,
	})

	announcementRepo := postgres.NewAnnouncementRepo(pgClient)
	ingester := ingest.NewIngester(announcementRepo, embedder, vectorRepo, ingest.Options{
		UpsertBatchSize: cfg.Ingest.UpsertBatchSize,
		EmbedWorkers:    cfg.Ingest.EmbedWorkers,
		EmbedTextRunes:  cfg.Ingest.EmbedTextRunes,
	})

	r := router.New(cfg, router.Handlers{
		Chat:   handler.NewChatHandler(engine),
		Ingest: handler.NewIngestHandler(ingester),
		Health: handler.NewHealthHandler(engine, pgClient, redisClient, milvusClient),
	}, redis.NewRateLimiter(redisClient))

	addr := fmt.Sprintf("%s:%d", cfg.Server.HTTP.Host, cfg.Server.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.HTTP.ReadTimeout,
		WriteTimeout: cfg.Server.HTTP.WriteTimeout,
		IdleTimeout:  cfg.Server.HTTP.IdleTimeout,
	}

	go func() {
		log.Info("http server starting", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("http server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", "error", err)
	}

	log.Info("server exited")
}
