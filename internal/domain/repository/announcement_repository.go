// Package repository 도메인 계층의 저장소 인터페이스를 정의한다
package repository

import (
	"context"

	"kstartup-rag-api/internal/domain/entity"
)

// AnnouncementRepository 공고 원본 저장소 (읽기 전용)
// 원본 데이터는 크롤러가 소유하며 이 시스템은 절대 쓰지 않는다
type AnnouncementRepository interface {
	// ListAll 전체 공고 목록 조회
	ListAll(ctx context.Context) ([]entity.AnnouncementRecord, error)
}
