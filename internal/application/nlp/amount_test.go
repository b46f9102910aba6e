package nlp

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"kstartup-rag-api/internal/domain/entity"
)

func TestNormalizeAmount(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		wantValue int64
		wantType  entity.AmountType
	}{
		{
			name:      "최대 수식어",
			text:      "최대 5천만원 지원",
			wantValue: 50_000_000,
			wantType:  entity.AmountTypeMax,
		},
		{
			name:      "규모 후행 수식어",
			text:      "1,000억원 규모",
			wantValue: 100_000_000_000,
			wantType:  entity.AmountTypeScale,
		},
		{
			name:      "총 수식어",
			text:      "총 1.5조원",
			wantValue: 1_500_000_000_000,
			wantType:  entity.AmountTypeTotal,
		},
		{
			name:      "수식어 없음",
			text:      "3억원 지원",
			wantValue: 300_000_000,
			wantType:  entity.AmountTypeExact,
		},
		{
			name:      "추정 표현",
			text:      "수십억원 투자 유치",
			wantValue: 50_000_000_000,
			wantType:  entity.AmountTypeApprox,
		},
		{
			name:      "한글 숫자",
			text:      "오억원 내외",
			wantValue: 500_000_000,
			wantType:  entity.AmountTypeExact,
		},
		{
			name:      "원 단위 숫자",
			text:      "지원금 50,000,000원",
			wantValue: 50_000_000,
			wantType:  entity.AmountTypeExact,
		},
		{
			name:      "여러 금액 중 최대값",
			text:      "최대 5억원, 총 10억원 지원",
			wantValue: 1_000_000_000,
			wantType:  entity.AmountTypeTotal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeAmount(tt.text)
			require.Equal(t, tt.wantValue, got.AmountValue)
			require.Equal(t, tt.wantType, got.AmountType)
			require.NotEmpty(t, got.AllAmounts)
		})
	}
}

func TestNormalizeAmountNoMatch(t *testing.T) {
	got := NormalizeAmount("정보 없음")

	require.Equal(t, int64(0), got.AmountValue)
	require.Empty(t, got.AmountText)
	require.Empty(t, got.NormalizedText)
	require.Empty(t, got.AllAmounts)
}

func TestNormalizeAmountMarkerPrefix(t *testing.T) {
	got := NormalizeAmount("최대 5천만원 지원")

	require.True(t, strings.HasPrefix(got.NormalizedText, "최대"))
	require.Equal(t, "최대 5000만원", got.NormalizedText)
}

func TestNormalizeAmountRendering(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"1.5조원 펀드", "1.5조원"},
		{"500억원 지원", "500억원"},
		{"3,000만원 지원", "3000만원"},
		{"지원금 1,234원", "1234원"},
	}

	for _, tt := range tests {
		got := NormalizeAmount(tt.text)
		require.Equal(t, tt.want, got.NormalizedText, "text=%s", tt.text)
	}
}

func TestNormalizeAmountCollectsAllMatches(t *testing.T) {
	got := NormalizeAmount("1차 최대 3억원, 2차 5억원 지원")

	require.Len(t, got.AllAmounts, 2)
	// 수식어가 붙은 표현이 먼저 집계된다
	require.Equal(t, entity.AmountTypeMax, got.AllAmounts[0].Type)
	require.Equal(t, int64(300_000_000), got.AllAmounts[0].Amount)
	require.Equal(t, entity.AmountTypeExact, got.AllAmounts[1].Type)
	// 대표값은 최대 금액을 따른다
	require.Equal(t, int64(500_000_000), got.AmountValue)
	require.Equal(t, entity.AmountTypeExact, got.AmountType)
}

func TestKoreanWordValue(t *testing.T) {
	tests := []struct {
		word string
		want int64
	}{
		{"오", 5},
		{"십", 10},
		{"삼십", 30},
		{"십오", 15},
		{"이십삼", 23},
		{"잘못된값", 1},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, koreanWordValue(tt.word), "word=%s", tt.word)
	}
}
