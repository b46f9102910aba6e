// Package main 공고 인제스트 워커 진입점
// 공고 원본 저장소를 읽어 벡터 스토어를 재구축하고 종료하는 일회성 작업이다
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"kstartup-rag-api/internal/application/ingest"
	"kstartup-rag-api/internal/config"
	"kstartup-rag-api/internal/infrastructure/embedding"
	"kstartup-rag-api/internal/infrastructure/persistence/milvus"
	"kstartup-rag-api/internal/infrastructure/persistence/postgres"
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

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log := logger.FromContext(ctx)
	log.Info("starting ingest-worker",
		"version", Version,
		"build_time", BuildTime,
		"env", cfg.App.Env,
	)

	shutdownTracer, err := tracer.Init(ctx, tracer.Config{
		ServiceName: cfg.App.Name + "-ingest",
		Endpoint:    cfg.Observability.Tracing.Endpoint,
		SampleRate:  cfg.Observability.Tracing.SampleRate,
		Enabled:     cfg.Observability.Tracing.Enabled,
	})
	if err != nil {
		log.Error("failed to init tracer", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := shutdownTracer(shutdownCtx); err != nil {
			log.Error("failed to shutdown tracer", "error", err)
		}
	}()

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

	embedder, err := embedding.NewEinoEmbedder(ctx, &cfg.Embedding)
	if err != nil {
		logger.Fatal(ctx, "failed to init embedder", err)
	}

	ingester := ingest.NewIngester(
		postgres.NewAnnouncementRepo(pgClient),
		embedder,
		milvus.NewRepository(milvusClient),
		ingest.Options{
			UpsertBatchSize: cfg.Ingest.UpsertBatchSize,
			EmbedWorkers:    cfg.Ingest.EmbedWorkers,
			EmbedTextRunes:  cfg.Ingest.EmbedTextRunes,
		},
	)

	start := time.Now()
	report, err := ingester.Run(ctx)
	if err != nil {
		logger.Fatal(ctx, "ingest failed", err,
			"total", report.Total,
			"upserted", report.Upserted,
			"skipped", report.Skipped,
		)
	}

	log.Info("ingest completed",
		"total", report.Total,
		"upserted", report.Upserted,
		"skipped", report.Skipped,
		"elapsed", time.Since(start).String(),
	)
}
