package postgres

import (
	"context"
	"fmt"
	"strconv"

	"kstartup-rag-api/internal/domain/entity"
	"kstartup-rag-api/internal/domain/repository"
)

// announcementModel 크롤러가 적재하는 공고 테이블
// 이 시스템은 읽기만 하며 스키마를 변경하지 않는다
type announcementModel struct {
	ID                  int64  `gorm:"column:id;primaryKey"`
	Title               string `gorm:"column:title"`
	OrgNameRef          string `gorm:"column:org_name_ref"`
	Organization        string `gorm:"column:organization"`
	Department          string `gorm:"column:department"`
	SupportField        string `gorm:"column:support_field"`
	TargetAudience      string `gorm:"column:target_audience"`
	TargetAge           string `gorm:"column:target_age"`
	StartupExperience   string `gorm:"column:startup_experience"`
	Region              string `gorm:"column:region"`
	ApplicationPeriod   string `gorm:"column:application_period"`
	Description         string `gorm:"column:description"`
	SupportContent      string `gorm:"column:support_content"`
	Contact             string `gorm:"column:contact"`
	Inquiry             string `gorm:"column:inquiry"`
	ApplicationMethod   string `gorm:"column:application_method"`
	SubmissionDocuments string `gorm:"column:submission_documents"`
}

func (announcementModel) TableName() string {
	return "announcements"
}

// AnnouncementRepo 공고 원본 저장소 (읽기 전용)
type AnnouncementRepo struct {
	client *Client
}

var _ repository.AnnouncementRepository = (*AnnouncementRepo)(nil)

// NewAnnouncementRepo 공고 저장소 생성
func NewAnnouncementRepo(client *Client) *AnnouncementRepo {
	return &AnnouncementRepo{client: client}
}

// ListAll 전체 공고 목록 조회
// 동의어 컬럼의 대체 해석은 여기서 한 번만 수행한다
// 질의 시점 코드는 항상 확정된 필드만 읽는다
func (r *AnnouncementRepo) ListAll(ctx context.Context) ([]entity.AnnouncementRecord, error) {
	ctx, span := tracer.Start(ctx, "postgres.ListAllAnnouncements")
	defer span.End()

	var models []announcementModel
	if err := r.client.db.WithContext(ctx).Find(&models).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list announcements: %w", err)
	}

	records := make([]entity.AnnouncementRecord, 0, len(models))
	for _, m := range models {
		organization := m.Organization
		if organization == "" {
			organization = m.OrgNameRef
		}
		contact := m.Contact
		if contact == "" {
			contact = m.Inquiry
		}

		records = append(records, entity.AnnouncementRecord{
			ID: strconv.FormatInt(m.ID, 10),
			Metadata: entity.AnnouncementMetadata{
				Title:               m.Title,
				Organization:        organization,
				Department:          m.Department,
				SupportField:        m.SupportField,
				TargetAudience:      m.TargetAudience,
				TargetAge:           m.TargetAge,
				StartupExperience:   m.StartupExperience,
				Region:              m.Region,
				ApplicationPeriod:   m.ApplicationPeriod,
				Description:         m.Description,
				SupportContent:      m.SupportContent,
				Contact:             contact,
				ApplicationMethod:   m.ApplicationMethod,
				SubmissionDocuments: m.SubmissionDocuments,
			},
		})
	}
	return records, nil
}
