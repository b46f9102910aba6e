package nlp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"kstartup-rag-api/internal/domain/entity"
)

func TestAnalyzeDeadline(t *testing.T) {
	now := time.Date(2025, 1, 10, 9, 0, 0, 0, KST)

	tests := []struct {
		name       string
		period     string
		wantStatus entity.DeadlineStatusKind
		wantDays   *int
	}{
		{
			name:       "오늘 마감",
			period:     "20250101 ~ 20250110",
			wantStatus: entity.DeadlineToday,
			wantDays:   intPtr(0),
		},
		{
			name:       "마감됨",
			period:     "20241201 ~ 20241231",
			wantStatus: entity.DeadlineExpired,
			wantDays:   intPtr(-10),
		},
		{
			name:       "3일 남음",
			period:     "20250101 ~ 20250113",
			wantStatus: entity.DeadlineUrgent,
			wantDays:   intPtr(3),
		},
		{
			name:       "7일 이내",
			period:     "20250101 ~ 20250116",
			wantStatus: entity.DeadlineSoon,
			wantDays:   intPtr(6),
		},
		{
			name:       "여유 있음",
			period:     "20250101 ~ 20250320",
			wantStatus: entity.DeadlineActive,
			wantDays:   intPtr(69),
		},
		{
			name:       "점 구분 형식",
			period:     "2025.1.1 ~ 2025.1.13",
			wantStatus: entity.DeadlineUrgent,
			wantDays:   intPtr(3),
		},
		{
			name:       "빈 문자열",
			period:     "",
			wantStatus: entity.DeadlineUnknown,
		},
		{
			name:       "형식 불일치",
			period:     "상시 접수",
			wantStatus: entity.DeadlineUnknown,
		},
		{
			name:       "존재하지 않는 날짜",
			period:     "20250101 ~ 20250132",
			wantStatus: entity.DeadlineUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AnalyzeDeadline(tt.period, now)
			require.Equal(t, tt.wantStatus, got.Status)
			if tt.wantDays == nil {
				require.Nil(t, got.DaysRemaining)
				require.False(t, got.IsExpired)
				require.False(t, got.IsUrgent)
				return
			}
			require.NotNil(t, got.DaysRemaining)
			require.Equal(t, *tt.wantDays, *got.DaysRemaining)
			require.Equal(t, *tt.wantDays < 0, got.IsExpired)
			require.Equal(t, *tt.wantDays >= 0 && *tt.wantDays <= 3, got.IsUrgent)
		})
	}
}

func TestAnalyzeDeadlineAnchorsEndOfDay(t *testing.T) {
	// 마감 당일 밤에도 아직 today여야 한다
	now := time.Date(2025, 1, 10, 23, 0, 0, 0, KST)
	got := AnalyzeDeadline("20250101 ~ 20250110", now)

	require.Equal(t, entity.DeadlineToday, got.Status)
	require.NotNil(t, got.DeadlineDate)
	require.Equal(t, 23, got.DeadlineDate.Hour())
	require.Equal(t, 59, got.DeadlineDate.Minute())
}

func TestAnalyzeDeadlineUsesSecondToken(t *testing.T) {
	// 시작일이 아니라 종료일이 마감 기준이다
	now := time.Date(2025, 1, 10, 9, 0, 0, 0, KST)
	got := AnalyzeDeadline("20240601 ~ 20250613", now)

	require.Equal(t, entity.DeadlineActive, got.Status)
	require.False(t, got.IsExpired)
}

func intPtr(v int) *int {
	return &v
}
