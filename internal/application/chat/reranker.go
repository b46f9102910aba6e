package chat

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"time"

	"kstartup-rag-api/internal/application/nlp"
	"kstartup-rag-api/internal/domain/entity"
)

// 우선순위 점수 구성 요소
// 유사도는 동률일 때의 보조 기준일 뿐, 신청 가능 여부와 사용자 조건이 항상 우선한다
const (
	amountMatchBonus    = 2000.0
	amountMagnitudeCap  = 500.0
	tierApplicableYear  = 1000.0
	tierApplicable      = 500.0
	tierCurrentYear     = 100.0
	tierOther           = 10.0
	urgencyBonusToday   = 200.0
	urgencyBonusUrgent  = 100.0
	urgencyBonusSoon    = 50.0
)

var fourDigitRe = regexp.MustCompile(`\d{4}`)

// ExtendedK 재정렬 전 벡터 스토어에서 가져올 확장 후보 수
// 신청 가능 여부와 금액 조건으로 걸러지는 양을 보상하기 위해 넉넉히 가져온다
func ExtendedK(topK, factor, limit int) int {
	extended := topK * factor
	if extended > limit {
		return limit
	}
	return extended
}

// Rerank 벡터 검색 후보를 우선순위 점수로 재정렬하고 상위 topK 반환
// 각 후보의 마감 상태는 벽시계 시간에 의존하므로 호출 시점에 새로 계산한다
// 저장된 메타데이터는 변경하지 않는다
func Rerank(candidates []entity.SearchCandidate, cond entity.AmountCondition, topK int, now time.Time) ([]entity.SearchCandidate, entity.RerankStats) {
	ranked := make([]entity.SearchCandidate, len(candidates))
	copy(ranked, candidates)

	for i := range ranked {
		annotate(&ranked[i], cond, now)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].PriorityScore != ranked[j].PriorityScore {
			return ranked[i].PriorityScore > ranked[j].PriorityScore
		}
		return ranked[i].SimilarityScore > ranked[j].SimilarityScore
	})

	if topK > 0 && len(ranked) > topK {
		ranked = ranked[:topK]
	}

	var stats entity.RerankStats
	for _, c := range ranked {
		if c.IsApplicable {
			stats.ApplicableCount++
		}
		if c.IsCurrentYear {
			stats.CurrentYearCount++
		}
		if c.DeadlineStatus.Status == entity.DeadlineToday || c.DeadlineStatus.Status == entity.DeadlineUrgent {
			stats.UrgentCount++
		}
		if c.MeetsAmountCondition {
			stats.AmountMatchedCount++
		}
	}

	return ranked, stats
}

// annotate 후보 하나의 파생 필드와 우선순위 점수 계산
func annotate(c *entity.SearchCandidate, cond entity.AmountCondition, now time.Time) {
	// 메타데이터가 비어 있는 후보는 모든 판정에서 최악으로 취급하되
	// 제외하지 않고 최하위 등급에서 유사도로만 경쟁시킨다
	if c.Metadata.Title == "" && c.Metadata.Organization == "" && c.Metadata.ApplicationPeriod == "" {
		c.DeadlineStatus = entity.UnknownDeadline()
		c.IsCurrentYear = false
		c.IsApplicable = false
		c.MeetsAmountCondition = false
		c.PriorityScore = tierOther
		return
	}

	c.DeadlineStatus = nlp.AnalyzeDeadline(c.Metadata.ApplicationPeriod, now)
	c.IsCurrentYear = isCurrentYear(c.Metadata.ApplicationPeriod, now)
	c.IsApplicable = !c.DeadlineStatus.IsExpired
	c.MeetsAmountCondition = meetsAmountCondition(c.Metadata.AmountValue, cond)
	c.PriorityScore = priorityScore(c)
}

// isCurrentYear 접수 기간에 등장하는 가장 큰 4자리 숫자가 현재 연도 이상인지 판정
func isCurrentYear(period string, now time.Time) bool {
	maxYear := 0
	for _, m := range fourDigitRe.FindAllString(period, -1) {
		year, err := strconv.Atoi(m)
		if err != nil {
			continue
		}
		if year > maxYear {
			maxYear = year
		}
	}
	return maxYear >= now.In(nlp.KST).Year()
}

// meetsAmountCondition 금액 조건 충족 여부
// 조건이 없으면 항상 충족, 있으면 캐시된 금액이 조건 이상이어야 한다
func meetsAmountCondition(amountValue int64, cond entity.AmountCondition) bool {
	if cond.MinAmount == 0 {
		return true
	}
	return amountValue > 0 && amountValue >= cond.MinAmount
}

// priorityScore 가산식 우선순위 점수 계산
func priorityScore(c *entity.SearchCandidate) float64 {
	score := 0.0

	if c.MeetsAmountCondition {
		score += amountMatchBonus
		if c.Metadata.AmountValue > 100_000_000 {
			bonus := math.Log10(float64(c.Metadata.AmountValue)/100_000_000) * 100
			score += math.Min(amountMagnitudeCap, math.Max(0, bonus))
		}
	}

	switch {
	case c.IsApplicable && c.IsCurrentYear:
		score += tierApplicableYear
	case c.IsApplicable:
		score += tierApplicable
	case c.IsCurrentYear:
		score += tierCurrentYear
	default:
		score += tierOther
	}

	switch c.DeadlineStatus.Status {
	case entity.DeadlineToday:
		score += urgencyBonusToday
	case entity.DeadlineUrgent:
		score += urgencyBonusUrgent
	case entity.DeadlineSoon:
		score += urgencyBonusSoon
	}

	return score
}
