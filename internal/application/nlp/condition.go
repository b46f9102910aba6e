package nlp

import (
	"regexp"

	"kstartup-rag-api/internal/domain/entity"
)

var (
	// "1000억 이상" / "1,000억원 이상" 형식
	minAmountRe = regexp.MustCompile(`(` + numPattern + `)\s*(` + unitPattern + `)\s*원?\s*이상`)
	// "최소 100억" 형식
	minPrefixRe = regexp.MustCompile(`최소\s*(` + numPattern + `)\s*(` + unitPattern + `)\s*원?`)
)

// 명시적 숫자 조건이 없을 때의 키워드 추정값
var conditionKeywords = []struct {
	re     *regexp.Regexp
	amount int64
}{
	{regexp.MustCompile(`대규모|큰\s*규모|대형|대기업|유니콘`), 50_000_000_000},
	{regexp.MustCompile(`중규모|중간\s*규모`), 10_000_000_000},
}

// ExtractAmountCondition 사용자 질문에서 최소 금액 조건 추출
// 명시적 숫자 조건 중 가장 큰 값을 채택하고, 없으면 키워드로 추정한다
// 상한 조건은 추출하지 않는다 (MaxAmount는 항상 0)
func ExtractAmountCondition(query string) entity.AmountCondition {
	cond := entity.AmountCondition{}
	if query == "" {
		return cond
	}

	for _, re := range []*regexp.Regexp{minAmountRe, minPrefixRe} {
		for _, idx := range re.FindAllStringSubmatchIndex(query, -1) {
			num := query[idx[2]:idx[3]]
			unit := query[idx[4]:idx[5]]
			value, ok := scaledValue(num, unit)
			if !ok {
				continue
			}
			if value > cond.MinAmount {
				cond.MinAmount = value
				cond.ConditionText = query[idx[0]:idx[1]]
			}
		}
	}
	if cond.MinAmount > 0 {
		return cond
	}

	for _, kw := range conditionKeywords {
		if loc := kw.re.FindStringIndex(query); loc != nil {
			cond.MinAmount = kw.amount
			cond.ConditionText = query[loc[0]:loc[1]]
			return cond
		}
	}

	return cond
}
