package entity

// SearchCandidate 벡터 검색이 돌려준 후보 공고
// 재정렬 단계에서 파생 필드가 메모리 내에서만 채워지며 저장되지 않는다
type SearchCandidate struct {
	ID              string               `json:"id"`
	SimilarityScore float64              `json:"similarity_score"`
	Metadata        AnnouncementMetadata `json:"metadata"`

	// 질의 시점 파생 필드
	DeadlineStatus       DeadlineStatus `json:"deadline_status"`
	IsCurrentYear        bool           `json:"is_current_year"`
	IsApplicable         bool           `json:"is_applicable"`
	MeetsAmountCondition bool           `json:"meets_amount_condition"`
	PriorityScore        float64        `json:"priority_score"`
}

// RerankStats 재정렬 결과의 집계 지표
type RerankStats struct {
	ApplicableCount    int `json:"applicable_count"`
	CurrentYearCount   int `json:"current_year_count"`
	UrgentCount        int `json:"urgent_count"`
	AmountMatchedCount int `json:"amount_matched_count"`
}
