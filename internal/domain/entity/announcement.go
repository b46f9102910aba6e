// Package entity 핵심 도메인 모델을 정의한다
package entity

// AmountType 금액 표현의 해석 유형
type AmountType string

const (
	AmountTypeExact  AmountType = "exact"  // 수식어 없는 일반 금액
	AmountTypeMax    AmountType = "max"    // 최대/최고
	AmountTypeMin    AmountType = "min"    // 최소/최저
	AmountTypeApprox AmountType = "approx" // 약/대략
	AmountTypeTotal  AmountType = "total"  // 총/전체
	AmountTypeScale  AmountType = "scale"  // 규모
)

// AmountCategory 금액 규모 분류
type AmountCategory string

const (
	AmountCategoryUnknown AmountCategory = "미상" // 금액 정보 없음
	AmountCategorySmall   AmountCategory = "소액" // 1억원 미만
	AmountCategoryMedium  AmountCategory = "중형" // 1억원 이상 10억원 미만
	AmountCategoryLarge   AmountCategory = "대형" // 10억원 이상 100억원 미만
	AmountCategoryMega    AmountCategory = "초대형" // 100억원 이상
)

// CategoryForAmount 금액 값을 규모 분류로 변환
func CategoryForAmount(value int64) AmountCategory {
	switch {
	case value <= 0:
		return AmountCategoryUnknown
	case value < 100_000_000:
		return AmountCategorySmall
	case value < 1_000_000_000:
		return AmountCategoryMedium
	case value < 10_000_000_000:
		return AmountCategoryLarge
	default:
		return AmountCategoryMega
	}
}

// AmountDetail 텍스트에서 발견된 개별 금액 표현
type AmountDetail struct {
	Amount int64      `json:"amount"`
	Text   string     `json:"text"`
	Type   AmountType `json:"type"`
	Unit   string     `json:"unit"`
}

// AmountInfo 텍스트에서 추출한 대표 금액 정보
// 여러 금액 표현 중 최대값이 대표값이 된다
type AmountInfo struct {
	AmountValue    int64          `json:"amount_value"`
	AmountText     string         `json:"amount_text"`
	NormalizedText string         `json:"normalized_text"`
	AmountType     AmountType     `json:"amount_type"`
	AllAmounts     []AmountDetail `json:"all_amounts"`
}

// AmountCondition 사용자 질문에서 추출한 금액 조건
// MaxAmount는 항상 0 (상한 조건은 추출하지 않음)
type AmountCondition struct {
	MinAmount     int64  `json:"min_amount"`
	MaxAmount     int64  `json:"max_amount"`
	ConditionText string `json:"condition_text"`
}

// HasCondition 금액 조건이 존재하는지 여부
func (c AmountCondition) HasCondition() bool {
	return c.MinAmount > 0
}

// AnnouncementMetadata 지원사업 공고 메타데이터
// 원본 필드는 크롤링 시점에 확정되며, 파생 금액 필드는 인제스트 시점에
// 한 번 계산되어 벡터 스토어에 캐시된다 (재인제스트 외에는 불변)
type AnnouncementMetadata struct {
	Title               string `json:"title"`
	Organization        string `json:"organization"`
	Department          string `json:"department"`
	SupportField        string `json:"support_field"`
	TargetAudience      string `json:"target_audience"`
	TargetAge           string `json:"target_age"`
	StartupExperience   string `json:"startup_experience"`
	Region              string `json:"region"`
	ApplicationPeriod   string `json:"application_period"`
	Description         string `json:"description"`
	SupportContent      string `json:"support_content"`
	Contact             string `json:"contact"`
	ApplicationMethod   string `json:"application_method"`
	SubmissionDocuments string `json:"submission_documents"`

	// 인제스트 시점에 계산되는 파생 필드
	AmountValue          int64          `json:"amount_value"`
	AmountText           string         `json:"amount_text"`
	NormalizedAmountText string         `json:"normalized_amount_text"`
	AmountType           AmountType     `json:"amount_type"`
	AmountCategory       AmountCategory `json:"amount_category"`
	AllAmountDetails     []AmountDetail `json:"all_amount_details"`
}

// AnnouncementRecord 원본 저장소의 공고 한 건
// ID는 원본 시스템이 부여한 고유 식별자로, 벡터 ID의 유도 기반이 된다
type AnnouncementRecord struct {
	ID       string
	Metadata AnnouncementMetadata
}

// ApplyAmountInfo 금액 추출 결과를 파생 필드에 반영
func (m *AnnouncementMetadata) ApplyAmountInfo(info AmountInfo) {
	m.AmountValue = info.AmountValue
	m.AmountText = info.AmountText
	m.NormalizedAmountText = info.NormalizedText
	m.AmountType = info.AmountType
	m.AmountCategory = CategoryForAmount(info.AmountValue)
	m.AllAmountDetails = info.AllAmounts
}
