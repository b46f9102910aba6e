package milvus

import (
	"strconv"

	"github.com/milvus-io/milvus-sdk-go/v2/entity"
)

const (
	// CollectionAnnouncements 지원사업 공고 컬렉션
	CollectionAnnouncements = "announcements"

	// DefaultVectorDimension 기본 벡터 차원
	DefaultVectorDimension = 512
)

// AnnouncementsSchema 공고 컬렉션 스키마
// 메타데이터는 전체를 JSON으로 직렬화해 한 컬럼에 담는다
// 필터링이 아니라 재정렬 입력으로만 쓰이므로 스칼라 컬럼을 따로 두지 않는다
func AnnouncementsSchema(dim int) *entity.Schema {
	if dim <= 0 {
		dim = DefaultVectorDimension
	}
	return &entity.Schema{
		CollectionName: CollectionAnnouncements,
		Description:    "K-Startup grant announcements for semantic search",
		Fields: []*entity.Field{
			{
				Name:       "id",
				DataType:   entity.FieldTypeVarChar,
				PrimaryKey: true,
				AutoID:     false,
				TypeParams: map[string]string{
					"max_length": "64",
				},
			},
			{
				Name:     "vector",
				DataType: entity.FieldTypeFloatVector,
				TypeParams: map[string]string{
					"dim": strconv.Itoa(dim),
				},
			},
			{
				Name:     "metadata",
				DataType: entity.FieldTypeVarChar,
				TypeParams: map[string]string{
					"max_length": "65535",
				},
			},
		},
	}
}
