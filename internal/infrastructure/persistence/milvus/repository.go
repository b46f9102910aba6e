package milvus

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/milvus-io/milvus-sdk-go/v2/entity"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	domainentity "kstartup-rag-api/internal/domain/entity"
	"kstartup-rag-api/internal/domain/repository"
	"kstartup-rag-api/pkg/logger"
)

// Repository 공고 벡터 저장소
type Repository struct {
	client *Client
}

// NewRepository 공고 벡터 저장소 생성
func NewRepository(client *Client) *Repository {
	return &Repository{client: client}
}

var _ repository.AnnouncementVectorRepository = (*Repository)(nil)

// EnsureCollection 컬렉션과 인덱스가 없으면 생성하고 메모리에 로드
// drop/rebuild 같은 파괴적 작업은 하지 않는다
func (r *Repository) EnsureCollection(ctx context.Context) error {
	if r == nil || r.client == nil || r.client.milvus == nil {
		return fmt.Errorf("milvus client not configured")
	}
	ctx, span := tracer.Start(ctx, "milvus.EnsureCollection")
	defer span.End()

	collName := r.client.CollectionName(CollectionAnnouncements)

	exists, err := r.client.milvus.HasCollection(ctx, collName)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to check collection: %w", err)
	}
	if !exists {
		schema := AnnouncementsSchema(r.client.config.VectorDimension)
		schema.CollectionName = collName
		if err := r.client.milvus.CreateCollection(ctx, schema, entity.DefaultShardNumber); err != nil {
			span.RecordError(err)
			return fmt.Errorf("failed to create collection: %w", err)
		}
		if err := r.createIndex(ctx, collName); err != nil {
			return err
		}
	}

	if err := r.client.milvus.LoadCollection(ctx, collName, false); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to load collection: %w", err)
	}
	return nil
}

// createIndex HNSW 인덱스 생성
func (r *Repository) createIndex(ctx context.Context, collName string) error {
	idx, err := entity.NewIndexHNSW(
		entity.COSINE,
		r.client.config.HNSWM,
		r.client.config.HNSWEfConstruction,
	)
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}

	if err := r.client.milvus.CreateIndex(ctx, collName, "vector", idx, false); err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	return nil
}

// Upsert 레코드 일괄 업서트
// 같은 ID로 다시 저장하면 덮어쓰므로 인제스트 재실행이 안전하다
func (r *Repository) Upsert(ctx context.Context, records []repository.VectorRecord) error {
	if r == nil || r.client == nil || r.client.milvus == nil {
		return fmt.Errorf("milvus client not configured")
	}
	ctx, span := tracer.Start(ctx, "milvus.Upsert",
		trace.WithAttributes(attribute.Int("count", len(records))))
	defer span.End()

	if len(records) == 0 {
		return nil
	}

	collName := r.client.CollectionName(CollectionAnnouncements)

	ids := make([]string, len(records))
	vectors := make([][]float32, len(records))
	metadatas := make([]string, len(records))

	dim := r.client.config.VectorDimension
	if dim <= 0 {
		dim = DefaultVectorDimension
	}

	for i, record := range records {
		raw, err := json.Marshal(record.Metadata)
		if err != nil {
			span.RecordError(err)
			return fmt.Errorf("failed to marshal metadata for %s: %w", record.ID, err)
		}
		ids[i] = record.ID
		vectors[i] = record.Vector
		metadatas[i] = string(raw)
	}

	idCol := entity.NewColumnVarChar("id", ids)
	vectorCol := entity.NewColumnFloatVector("vector", dim, vectors)
	metadataCol := entity.NewColumnVarChar("metadata", metadatas)

	if _, err := r.client.milvus.Upsert(ctx, collName, "", idCol, vectorCol, metadataCol); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to upsert announcements: %w", err)
	}
	return nil
}

// Search 벡터 유사도 검색
// 메타데이터 JSON이 깨진 레코드는 빈 메타데이터로 반환해 후보에서 제외하지 않는다
func (r *Repository) Search(ctx context.Context, vector []float32, topK int) ([]domainentity.SearchCandidate, error) {
	if r == nil || r.client == nil || r.client.milvus == nil {
		return nil, fmt.Errorf("milvus client not configured")
	}
	ctx, span := tracer.Start(ctx, "milvus.Search",
		trace.WithAttributes(attribute.Int("top_k", topK)))
	defer span.End()

	collName := r.client.CollectionName(CollectionAnnouncements)

	sp, err := entity.NewIndexHNSWSearchParam(128)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to create search param: %w", err)
	}

	results, err := r.client.milvus.Search(ctx,
		collName,
		nil,
		"",
		[]string{"id", "metadata"},
		[]entity.Vector{entity.FloatVector(vector)},
		"vector",
		entity.COSINE,
		topK,
		sp,
	)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	var candidates []domainentity.SearchCandidate
	for _, result := range results {
		idCol, _ := result.Fields.GetColumn("id").(*entity.ColumnVarChar)
		metadataCol, _ := result.Fields.GetColumn("metadata").(*entity.ColumnVarChar)

		for i := 0; i < result.ResultCount; i++ {
			candidate := domainentity.SearchCandidate{
				SimilarityScore: float64(result.Scores[i]),
			}
			if idCol != nil {
				candidate.ID = idCol.Data()[i]
			}
			if metadataCol != nil {
				if err := json.Unmarshal([]byte(metadataCol.Data()[i]), &candidate.Metadata); err != nil {
					logger.Warn(ctx, "공고 메타데이터 역직렬화 실패",
						"id", candidate.ID, "error", err)
					candidate.Metadata = domainentity.AnnouncementMetadata{}
				}
			}
			candidates = append(candidates, candidate)
		}
	}

	span.SetAttributes(attribute.Int("result_count", len(candidates)))
	return candidates, nil
}

// Count 저장된 공고 수 조회
func (r *Repository) Count(ctx context.Context) (int64, error) {
	if r == nil || r.client == nil || r.client.milvus == nil {
		return 0, fmt.Errorf("milvus client not configured")
	}
	ctx, span := tracer.Start(ctx, "milvus.Count")
	defer span.End()

	collName := r.client.CollectionName(CollectionAnnouncements)

	stats, err := r.client.milvus.GetCollectionStatistics(ctx, collName)
	if err != nil {
		span.RecordError(err)
		return 0, fmt.Errorf("failed to get collection statistics: %w", err)
	}

	count, err := strconv.ParseInt(stats["row_count"], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse row count: %w", err)
	}
	return count, nil
}

// Close 연결 종료
func (r *Repository) Close() error {
	if r == nil || r.client == nil {
		return nil
	}
	return r.client.Close()
}
