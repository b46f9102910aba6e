// Package nlp 공고 텍스트와 사용자 질문의 한국어 패턴 해석 기능을 제공한다
// 모든 파서는 예외 없이 동작하며, 매칭 실패는 기본값 반환으로 흡수한다
package nlp

import (
	"math"
	"regexp"
	"strconv"
	"time"

	"kstartup-rag-api/internal/domain/entity"
)

// KST 한국 표준시, 마감일 계산의 기준 시간대
var KST = time.FixedZone("KST", 9*60*60)

var (
	// 20250101 ~ 20250110 형식
	compactPeriodRe = regexp.MustCompile(`(\d{8})\s*~\s*(\d{8})`)
	// 2025.1.1 ~ 2025.01.10 형식
	dottedPeriodRe = regexp.MustCompile(`(\d{4})\.(\d{1,2})\.(\d{1,2})\s*~\s*(\d{4})\.(\d{1,2})\.(\d{1,2})`)
)

// AnalyzeDeadline 접수 기간 문자열을 마감 상태로 해석
// 패턴을 우선순위 순서로 시도하고 첫 매칭에서 반환한다
// 두 번째 날짜 토큰이 마감일이며, 시각은 당일 23:59:59 KST로 고정한다
func AnalyzeDeadline(period string, now time.Time) entity.DeadlineStatus {
	deadline, ok := parseCompactPeriod(period)
	if !ok {
		deadline, ok = parseDottedPeriod(period)
	}
	if !ok {
		return entity.UnknownDeadline()
	}

	days := int(math.Floor(deadline.Sub(now.In(KST)).Hours() / 24))

	status := entity.DeadlineStatus{
		DaysRemaining: &days,
		DeadlineDate:  &deadline,
		IsExpired:     days < 0,
		IsUrgent:      days >= 0 && days <= 3,
	}

	switch {
	case days < 0:
		status.Status = entity.DeadlineExpired
	case days == 0:
		status.Status = entity.DeadlineToday
	case days <= 3:
		status.Status = entity.DeadlineUrgent
	case days <= 7:
		status.Status = entity.DeadlineSoon
	default:
		status.Status = entity.DeadlineActive
	}

	return status
}

// parseCompactPeriod YYYYMMDD ~ YYYYMMDD 패턴 파싱
func parseCompactPeriod(period string) (time.Time, bool) {
	m := compactPeriodRe.FindStringSubmatch(period)
	if m == nil {
		return time.Time{}, false
	}
	end := m[2]
	year, _ := strconv.Atoi(end[:4])
	month, _ := strconv.Atoi(end[4:6])
	day, _ := strconv.Atoi(end[6:8])
	return makeDeadline(year, month, day)
}

// parseDottedPeriod YYYY.MM.DD ~ YYYY.MM.DD 패턴 파싱
func parseDottedPeriod(period string) (time.Time, bool) {
	m := dottedPeriodRe.FindStringSubmatch(period)
	if m == nil {
		return time.Time{}, false
	}
	year, _ := strconv.Atoi(m[4])
	month, _ := strconv.Atoi(m[5])
	day, _ := strconv.Atoi(m[6])
	return makeDeadline(year, month, day)
}

// makeDeadline 연/월/일을 당일 23:59:59 KST 시각으로 변환
// 존재하지 않는 날짜(예: 32일)는 매칭 실패로 처리한다
func makeDeadline(year, month, day int) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 23, 59, 59, 0, KST)
	if t.Year() != year || t.Month() != time.Month(month) || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}
