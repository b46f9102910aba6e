package entity

import "time"

// DeadlineStatusKind 마감 상태 구분
type DeadlineStatusKind string

const (
	DeadlineUnknown DeadlineStatusKind = "unknown" // 기간 해석 불가
	DeadlineExpired DeadlineStatusKind = "expired" // 마감됨
	DeadlineToday   DeadlineStatusKind = "today"   // 오늘 마감
	DeadlineUrgent  DeadlineStatusKind = "urgent"  // 3일 이내
	DeadlineSoon    DeadlineStatusKind = "soon"    // 7일 이내
	DeadlineActive  DeadlineStatusKind = "active"  // 여유 있음
)

// DeadlineStatus 접수 기간 문자열을 해석한 마감 상태
// 벽시계 시간에 의존하므로 항상 질의 시점에 새로 계산한다
type DeadlineStatus struct {
	Status        DeadlineStatusKind `json:"status"`
	DaysRemaining *int               `json:"days_remaining,omitempty"`
	DeadlineDate  *time.Time         `json:"deadline_date,omitempty"`
	IsExpired     bool               `json:"is_expired"`
	IsUrgent      bool               `json:"is_urgent"`
}

// UnknownDeadline 해석 불가 상태
func UnknownDeadline() DeadlineStatus {
	return DeadlineStatus{Status: DeadlineUnknown}
}
