package chat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"kstartup-rag-api/internal/application/nlp"
	"kstartup-rag-api/internal/domain/entity"
)

func testNow() time.Time {
	return time.Date(2025, 1, 10, 9, 0, 0, 0, nlp.KST)
}

func candidate(id, period string, similarity float64, amount int64) entity.SearchCandidate {
	return entity.SearchCandidate{
		ID:              id,
		SimilarityScore: similarity,
		Metadata: entity.AnnouncementMetadata{
			Title:             "테스트 공고 " + id,
			Organization:      "테스트 기관",
			ApplicationPeriod: period,
			AmountValue:       amount,
		},
	}
}

func TestExtendedK(t *testing.T) {
	require.Equal(t, 50, ExtendedK(10, 5, 100))
	require.Equal(t, 100, ExtendedK(30, 5, 100))
	require.Equal(t, 5, ExtendedK(1, 5, 100))
}

func TestRerankApplicableBeatsExpired(t *testing.T) {
	// 유사도가 같으면 신청 가능한 공고가 마감된 공고보다 먼저 온다
	expired := candidate("expired", "20241201 ~ 20241231", 0.8, 0)
	active := candidate("active", "20250101 ~ 20250320", 0.8, 0)

	ranked, _ := Rerank([]entity.SearchCandidate{expired, active}, entity.AmountCondition{}, 10, testNow())

	require.Equal(t, "active", ranked[0].ID)
	require.Equal(t, "expired", ranked[1].ID)
	require.True(t, ranked[0].IsApplicable)
	require.False(t, ranked[1].IsApplicable)
}

func TestRerankAmountConditionDominatesSimilarity(t *testing.T) {
	// 금액 조건을 충족하는 후보는 유사도가 다소 낮아도 먼저 온다
	big := candidate("big", "20250101 ~ 20250320", 0.5, 20_000_000_000)
	small := candidate("small", "20250101 ~ 20250320", 0.9, 500_000_000)
	cond := entity.AmountCondition{MinAmount: 10_000_000_000}

	ranked, stats := Rerank([]entity.SearchCandidate{small, big}, cond, 10, testNow())

	require.Equal(t, "big", ranked[0].ID)
	require.True(t, ranked[0].MeetsAmountCondition)
	require.False(t, ranked[1].MeetsAmountCondition)
	require.Equal(t, 1, stats.AmountMatchedCount)
}

func TestRerankNoConditionMeetsAll(t *testing.T) {
	// 조건이 없으면 금액이 없는 공고도 조건 충족으로 본다
	c := candidate("a", "20250101 ~ 20250320", 0.5, 0)

	ranked, stats := Rerank([]entity.SearchCandidate{c}, entity.AmountCondition{}, 10, testNow())

	require.True(t, ranked[0].MeetsAmountCondition)
	require.Equal(t, 1, stats.AmountMatchedCount)
}

func TestRerankUrgencyOrder(t *testing.T) {
	today := candidate("today", "20250101 ~ 20250110", 0.5, 0)
	urgent := candidate("urgent", "20250101 ~ 20250113", 0.5, 0)
	soon := candidate("soon", "20250101 ~ 20250116", 0.5, 0)
	active := candidate("far", "20250101 ~ 20250320", 0.5, 0)

	ranked, stats := Rerank([]entity.SearchCandidate{active, soon, urgent, today}, entity.AmountCondition{}, 10, testNow())

	require.Equal(t, []string{"today", "urgent", "soon", "far"},
		[]string{ranked[0].ID, ranked[1].ID, ranked[2].ID, ranked[3].ID})
	require.Equal(t, 2, stats.UrgentCount)
}

func TestRerankSimilarityBreaksTies(t *testing.T) {
	low := candidate("low", "20250101 ~ 20250320", 0.3, 0)
	high := candidate("high", "20250101 ~ 20250320", 0.9, 0)

	ranked, _ := Rerank([]entity.SearchCandidate{low, high}, entity.AmountCondition{}, 10, testNow())

	require.Equal(t, "high", ranked[0].ID)
}

func TestRerankTruncatesToTopK(t *testing.T) {
	candidates := []entity.SearchCandidate{
		candidate("a", "20250101 ~ 20250320", 0.9, 0),
		candidate("b", "20250101 ~ 20250320", 0.8, 0),
		candidate("c", "20250101 ~ 20250320", 0.7, 0),
	}

	ranked, _ := Rerank(candidates, entity.AmountCondition{}, 2, testNow())

	require.Len(t, ranked, 2)
}

func TestRerankEmptyMetadataCompetesAtLowestTier(t *testing.T) {
	// 메타데이터가 빈 후보도 제외되지 않고 최하위 등급에서 경쟁한다
	empty := entity.SearchCandidate{ID: "empty", SimilarityScore: 0.99}
	normal := candidate("normal", "20250101 ~ 20250320", 0.1, 0)

	ranked, _ := Rerank([]entity.SearchCandidate{empty, normal}, entity.AmountCondition{}, 10, testNow())

	require.Len(t, ranked, 2)
	require.Equal(t, "normal", ranked[0].ID)
	require.Equal(t, "empty", ranked[1].ID)
	require.Equal(t, entity.DeadlineUnknown, ranked[1].DeadlineStatus.Status)
	require.False(t, ranked[1].IsApplicable)
	require.False(t, ranked[1].MeetsAmountCondition)
}

func TestRerankCurrentYearDetection(t *testing.T) {
	// 접수 기간의 가장 큰 4자리 숫자가 현재 연도 이상이면 현재 연도 공고
	ranked, stats := Rerank([]entity.SearchCandidate{
		candidate("old", "20240101 ~ 20240320", 0.5, 0),
		candidate("new", "20241201 ~ 20250320", 0.5, 0),
	}, entity.AmountCondition{}, 10, testNow())

	require.Equal(t, "new", ranked[0].ID)
	require.True(t, ranked[0].IsCurrentYear)
	require.False(t, ranked[1].IsCurrentYear)
	require.Equal(t, 1, stats.CurrentYearCount)
}

func TestRerankDoesNotMutateInput(t *testing.T) {
	input := []entity.SearchCandidate{candidate("a", "20250101 ~ 20250320", 0.5, 0)}

	Rerank(input, entity.AmountCondition{}, 10, testNow())

	require.Zero(t, input[0].PriorityScore)
	require.Empty(t, input[0].DeadlineStatus.Status)
}
