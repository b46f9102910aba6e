package repository

import (
	"context"

	"kstartup-rag-api/internal/domain/entity"
)

// VectorRecord 벡터 스토어에 저장되는 단위 레코드
type VectorRecord struct {
	ID       string
	Vector   []float32
	Metadata entity.AnnouncementMetadata
}

// AnnouncementVectorRepository 공고 벡터 스토어 인터페이스
type AnnouncementVectorRepository interface {
	// EnsureCollection 컬렉션과 인덱스 준비
	EnsureCollection(ctx context.Context) error
	// Upsert 레코드 일괄 업서트 (ID가 같으면 덮어쓴다)
	Upsert(ctx context.Context, records []VectorRecord) error
	// Search 벡터 유사도 검색, 스토어 자체 순위로 정렬된 후보 반환
	Search(ctx context.Context, vector []float32, topK int) ([]entity.SearchCandidate, error)
	// Count 저장된 레코드 수
	Count(ctx context.Context) (int64, error)
	// Close 연결 종료
	Close() error
}
