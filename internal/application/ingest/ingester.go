package ingest

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"kstartup-rag-api/internal/application/nlp"
	"kstartup-rag-api/internal/application/port"
	"kstartup-rag-api/internal/domain/entity"
	"kstartup-rag-api/internal/domain/repository"
	"kstartup-rag-api/pkg/errors"
	"kstartup-rag-api/pkg/logger"
	"kstartup-rag-api/pkg/metrics"
)

var tracer = otel.Tracer("application/ingest")

// DefaultUpsertBatchSize 벡터 스토어 업서트 배치 크기 상한
const DefaultUpsertBatchSize = 100

// DefaultEmbedWorkers 기본 임베딩 병렬 워커 수
const DefaultEmbedWorkers = 4

// Options 인제스트 파이프라인 설정
type Options struct {
	UpsertBatchSize int
	EmbedWorkers    int
	EmbedTextRunes  int
}

// Report 인제스트 실행 결과
// 배치 실패로 중단된 경우에도 Upserted는 실패 전까지 저장된 수를 담는다
type Report struct {
	Total    int `json:"total"`
	Upserted int `json:"upserted"`
	Skipped  int `json:"skipped"`
}

// Ingester 공고 인제스트 파이프라인
// 레코드별로 금액을 정규화해 메타데이터에 캐시하고, 임베딩 후 배치 업서트한다
// 벡터 ID는 레코드 ID의 결정적 함수이므로 재실행해도 중복이 생기지 않는다
type Ingester struct {
	source   repository.AnnouncementRepository
	embedder port.Embedder
	vectors  repository.AnnouncementVectorRepository
	opts     Options
}

// NewIngester 인제스트 파이프라인 생성
func NewIngester(source repository.AnnouncementRepository, embedder port.Embedder, vectors repository.AnnouncementVectorRepository, opts Options) *Ingester {
	if opts.UpsertBatchSize <= 0 || opts.UpsertBatchSize > DefaultUpsertBatchSize {
		opts.UpsertBatchSize = DefaultUpsertBatchSize
	}
	if opts.EmbedWorkers <= 0 {
		opts.EmbedWorkers = DefaultEmbedWorkers
	}
	if opts.EmbedTextRunes <= 0 {
		opts.EmbedTextRunes = DefaultEmbedTextRunes
	}
	return &Ingester{
		source:   source,
		embedder: embedder,
		vectors:  vectors,
		opts:     opts,
	}
}

// VectorID 레코드 ID에서 벡터 ID 유도
func VectorID(recordID string) string {
	return fmt.Sprintf("announcement_%s", recordID)
}

// Run 전체 공고를 인제스트
// 임베딩 실패는 해당 레코드만 스킵하고, 업서트 배치 실패는 전체를 중단한다
func (g *Ingester) Run(ctx context.Context) (Report, error) {
	ctx, span := tracer.Start(ctx, "ingest.run")
	defer span.End()

	var report Report

	if err := g.vectors.EnsureCollection(ctx); err != nil {
		return report, errors.Wrap(err, errors.CodeVectorDBError, "컬렉션 준비 실패")
	}

	records, err := g.source.ListAll(ctx)
	if err != nil {
		return report, errors.Wrap(err, errors.CodeDatabaseError, "공고 목록 조회 실패")
	}
	report.Total = len(records)
	span.SetAttributes(attribute.Int("ingest.total", report.Total))

	logger.Info(ctx, "공고 인제스트 시작", "total", report.Total)

	prepared := g.prepare(ctx, records)
	embedded := g.embedAll(ctx, prepared)
	report.Skipped = report.Total - len(embedded)

	upserted, err := g.upsertBatches(ctx, embedded)
	report.Upserted = upserted
	if err != nil {
		return report, err
	}

	logger.Info(ctx, "공고 인제스트 완료",
		"upserted", report.Upserted, "skipped", report.Skipped)
	return report, nil
}

// preparedRecord 금액 정규화와 임베딩 텍스트 구성이 끝난 레코드
type preparedRecord struct {
	id       string
	text     string
	metadata entity.AnnouncementMetadata
}

// prepare 레코드별 금액 정규화와 임베딩 텍스트 구성
// 임베딩할 텍스트가 비는 레코드는 버린다
func (g *Ingester) prepare(ctx context.Context, records []entity.AnnouncementRecord) []preparedRecord {
	prepared := make([]preparedRecord, 0, len(records))
	for _, record := range records {
		metadata := record.Metadata
		metadata.ApplyAmountInfo(nlp.NormalizeAmount(AmountSourceText(metadata)))

		text := BuildEmbedText(metadata, g.opts.EmbedTextRunes)
		if text == "" {
			metrics.IngestRecordsTotal.WithLabelValues("skipped").Inc()
			continue
		}

		prepared = append(prepared, preparedRecord{
			id:       record.ID,
			text:     text,
			metadata: metadata,
		})
	}
	return prepared
}

// embedAll 레코드를 병렬로 임베딩
// 실패한 레코드는 스킵으로 집계하고 나머지는 입력 순서를 유지한 채 반환한다
func (g *Ingester) embedAll(ctx context.Context, prepared []preparedRecord) []repository.VectorRecord {
	vectors := make([][]float32, len(prepared))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(g.opts.EmbedWorkers)
	for i := range prepared {
		eg.Go(func() error {
			vec, err := g.embedder.Embed(egCtx, prepared[i].text)
			if err != nil {
				logger.Warn(egCtx, "공고 임베딩 실패, 스킵",
					"record_id", prepared[i].id, "error", err)
				return nil
			}
			vectors[i] = vec
			return nil
		})
	}
	// 워커는 에러를 반환하지 않으므로 Wait은 항상 nil이다
	_ = eg.Wait()

	out := make([]repository.VectorRecord, 0, len(prepared))
	for i, p := range prepared {
		if vectors[i] == nil {
			metrics.IngestRecordsTotal.WithLabelValues("skipped").Inc()
			continue
		}
		out = append(out, repository.VectorRecord{
			ID:       VectorID(p.id),
			Vector:   vectors[i],
			Metadata: p.metadata,
		})
	}
	return out
}

// upsertBatches 배치 단위 업서트
// 한 배치가 실패하면 남은 배치를 진행하지 않고 그때까지 저장된 수를 반환한다
func (g *Ingester) upsertBatches(ctx context.Context, records []repository.VectorRecord) (int, error) {
	upserted := 0
	for start := 0; start < len(records); start += g.opts.UpsertBatchSize {
		end := start + g.opts.UpsertBatchSize
		if end > len(records) {
			end = len(records)
		}
		batch := records[start:end]

		batchStart := time.Now()
		if err := g.vectors.Upsert(ctx, batch); err != nil {
			metrics.IngestRecordsTotal.WithLabelValues("failed").Add(float64(len(batch)))
			logger.Error(ctx, "배치 업서트 실패", err,
				"upserted", upserted, "batch_size", len(batch))
			return upserted, errors.Wrap(err, errors.CodeIngestFailed,
				fmt.Sprintf("벡터 업서트 실패 (처리된 데이터: %d개)", upserted))
		}
		metrics.IngestBatchDuration.Observe(time.Since(batchStart).Seconds())
		metrics.IngestRecordsTotal.WithLabelValues("upserted").Add(float64(len(batch)))

		upserted += len(batch)
		logger.Info(ctx, "진행상황", "upserted", upserted, "total", len(records))
	}
	return upserted, nil
}
