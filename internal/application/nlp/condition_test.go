package nlp

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractAmountCondition(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		wantMin  int64
		wantText string
	}{
		{
			name:     "명시적 이상 조건",
			query:    "1000억 이상의 지원사업 알려줘",
			wantMin:  100_000_000_000,
			wantText: "1000억 이상",
		},
		{
			name:     "최소 접두 조건",
			query:    "최소 10억원 지원되는 사업",
			wantMin:  1_000_000_000,
			wantText: "최소 10억원",
		},
		{
			name:     "여러 조건 중 최대값",
			query:    "1억 이상, 가능하면 100억 이상인 사업",
			wantMin:  10_000_000_000,
			wantText: "100억 이상",
		},
		{
			name:     "대규모 키워드",
			query:    "대규모 지원사업",
			wantMin:  50_000_000_000,
			wantText: "대규모",
		},
		{
			name:     "유니콘 키워드",
			query:    "유니콘 기업 대상 프로그램",
			wantMin:  50_000_000_000,
			wantText: "유니콘",
		},
		{
			name:     "중간 규모 키워드",
			query:    "중간 규모 지원사업 찾아줘",
			wantMin:  10_000_000_000,
			wantText: "중간 규모",
		},
		{
			name:    "조건 없음",
			query:   "청년 창업 지원사업 알려줘",
			wantMin: 0,
		},
		{
			name:    "빈 질문",
			query:   "",
			wantMin: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractAmountCondition(tt.query)
			require.Equal(t, tt.wantMin, got.MinAmount)
			require.Equal(t, int64(0), got.MaxAmount)
			require.Equal(t, tt.wantText, got.ConditionText)
			require.Equal(t, tt.wantMin > 0, got.HasCondition())
		})
	}
}

func TestExtractAmountConditionExplicitBeatsKeyword(t *testing.T) {
	// 명시적 숫자 조건이 있으면 키워드 추정은 무시된다
	got := ExtractAmountCondition("대규모 말고 5억 이상이면 돼")

	require.Equal(t, int64(500_000_000), got.MinAmount)
	require.Equal(t, "5억 이상", got.ConditionText)
}
