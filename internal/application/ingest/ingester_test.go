package ingest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"kstartup-rag-api/internal/domain/entity"
	"kstartup-rag-api/internal/domain/repository"
)

type stubSource struct {
	records []entity.AnnouncementRecord
	err     error
}

func (s *stubSource) ListAll(ctx context.Context) ([]entity.AnnouncementRecord, error) {
	return s.records, s.err
}

type stubEmbedder struct {
	embedFn func(ctx context.Context, text string) ([]float32, error)
}

func (s *stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if s.embedFn != nil {
		return s.embedFn(ctx, text)
	}
	return []float32{0.1, 0.2}, nil
}

func (s *stubEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for _, t := range texts {
		v, err := s.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

type stubVectorRepo struct {
	mu       sync.Mutex
	upserted map[string]repository.VectorRecord
	batches  []int
	upsertFn func(ctx context.Context, records []repository.VectorRecord) error
}

func newStubVectorRepo() *stubVectorRepo {
	return &stubVectorRepo{upserted: make(map[string]repository.VectorRecord)}
}

func (s *stubVectorRepo) EnsureCollection(ctx context.Context) error { return nil }

func (s *stubVectorRepo) Upsert(ctx context.Context, records []repository.VectorRecord) error {
	if s.upsertFn != nil {
		if err := s.upsertFn(ctx, records); err != nil {
			return err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batches = append(s.batches, len(records))
	for _, r := range records {
		s.upserted[r.ID] = r
	}
	return nil
}

func (s *stubVectorRepo) Search(ctx context.Context, vector []float32, topK int) ([]entity.SearchCandidate, error) {
	return nil, nil
}

func (s *stubVectorRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(s.upserted)), nil
}

func (s *stubVectorRepo) Close() error { return nil }

func record(id, title, description string) entity.AnnouncementRecord {
	return entity.AnnouncementRecord{
		ID: id,
		Metadata: entity.AnnouncementMetadata{
			Title:       title,
			Description: description,
		},
	}
}

func TestIngesterRun(t *testing.T) {
	source := &stubSource{records: []entity.AnnouncementRecord{
		record("1", "청년 창업 지원", "최대 5억원 지원"),
		record("2", "기술 개발 과제", "총 100억원 규모"),
	}}
	vectors := newStubVectorRepo()
	g := NewIngester(source, &stubEmbedder{}, vectors, Options{})

	report, err := g.Run(context.Background())

	require.NoError(t, err)
	require.Equal(t, Report{Total: 2, Upserted: 2, Skipped: 0}, report)

	// 벡터 ID는 레코드 ID에서 결정적으로 유도된다
	stored, ok := vectors.upserted["announcement_1"]
	require.True(t, ok)
	// 금액 정규화 결과가 메타데이터에 캐시된다
	require.Equal(t, int64(500_000_000), stored.Metadata.AmountValue)
	require.Equal(t, entity.AmountTypeMax, stored.Metadata.AmountType)
	require.Equal(t, "최대 5억원", stored.Metadata.NormalizedAmountText)
	require.Equal(t, entity.AmountCategoryMedium, stored.Metadata.AmountCategory)

	big, ok := vectors.upserted["announcement_2"]
	require.True(t, ok)
	require.Equal(t, int64(10_000_000_000), big.Metadata.AmountValue)
	require.Equal(t, entity.AmountCategoryMega, big.Metadata.AmountCategory)
}

func TestIngesterRunIdempotent(t *testing.T) {
	source := &stubSource{records: []entity.AnnouncementRecord{
		record("1", "청년 창업 지원", "최대 5억원 지원"),
	}}
	vectors := newStubVectorRepo()
	g := NewIngester(source, &stubEmbedder{}, vectors, Options{})

	first, err := g.Run(context.Background())
	require.NoError(t, err)
	firstStored := vectors.upserted["announcement_1"]

	second, err := g.Run(context.Background())
	require.NoError(t, err)

	// 재실행해도 같은 ID에 같은 금액 필드가 저장되고 중복이 생기지 않는다
	require.Equal(t, first, second)
	require.Len(t, vectors.upserted, 1)
	require.Equal(t, firstStored.Metadata.AmountValue, vectors.upserted["announcement_1"].Metadata.AmountValue)
	require.Equal(t, firstStored.Metadata.NormalizedAmountText, vectors.upserted["announcement_1"].Metadata.NormalizedAmountText)
}

func TestIngesterBatchesUpserts(t *testing.T) {
	records := make([]entity.AnnouncementRecord, 0, 250)
	for i := 0; i < 250; i++ {
		records = append(records, record(fmt.Sprintf("%d", i), fmt.Sprintf("공고 %d", i), "설명"))
	}
	vectors := newStubVectorRepo()
	g := NewIngester(&stubSource{records: records}, &stubEmbedder{}, vectors, Options{UpsertBatchSize: 100})

	report, err := g.Run(context.Background())

	require.NoError(t, err)
	require.Equal(t, 250, report.Upserted)
	require.Equal(t, []int{100, 100, 50}, vectors.batches)
}

func TestIngesterAbortsOnBatchFailure(t *testing.T) {
	records := make([]entity.AnnouncementRecord, 0, 250)
	for i := 0; i < 250; i++ {
		records = append(records, record(fmt.Sprintf("%d", i), fmt.Sprintf("공고 %d", i), "설명"))
	}
	vectors := newStubVectorRepo()
	calls := 0
	vectors.upsertFn = func(ctx context.Context, batch []repository.VectorRecord) error {
		calls++
		if calls == 2 {
			return errors.New("payload too large")
		}
		return nil
	}
	g := NewIngester(&stubSource{records: records}, &stubEmbedder{}, vectors, Options{UpsertBatchSize: 100})

	report, err := g.Run(context.Background())

	// 실패한 배치 이후는 진행하지 않고 그때까지 저장된 수를 보고한다
	require.Error(t, err)
	require.ErrorContains(t, err, "처리된 데이터: 100개")
	require.Equal(t, 100, report.Upserted)
	require.Equal(t, 2, calls)
}

func TestIngesterSkipsEmptyAndFailedRecords(t *testing.T) {
	source := &stubSource{records: []entity.AnnouncementRecord{
		record("1", "정상 공고", "설명"),
		record("2", "", ""), // 임베딩할 텍스트 없음
		record("3", "임베딩 실패 공고", "설명"),
	}}
	embedder := &stubEmbedder{
		embedFn: func(ctx context.Context, text string) ([]float32, error) {
			if text == "제목: 임베딩 실패 공고 | 설명: 설명" {
				return nil, errors.New("embedding down")
			}
			return []float32{0.1}, nil
		},
	}
	vectors := newStubVectorRepo()
	g := NewIngester(source, embedder, vectors, Options{})

	report, err := g.Run(context.Background())

	require.NoError(t, err)
	require.Equal(t, Report{Total: 3, Upserted: 1, Skipped: 2}, report)
	require.Len(t, vectors.upserted, 1)
}
