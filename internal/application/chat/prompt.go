package chat

import (
	"fmt"
	"strings"
	"time"

	"kstartup-rag-api/internal/application/nlp"
	"kstartup-rag-api/internal/domain/entity"
)

var koreanWeekdays = [...]string{"일요일", "월요일", "화요일", "수요일", "목요일", "금요일", "토요일"}

// timeInfo 프롬프트에 넣는 현재 시간 정보
type timeInfo struct {
	Date     string
	Time     string
	DateTime string
	Weekday  string
}

func currentTimeInfo(now time.Time) timeInfo {
	kst := now.In(nlp.KST)
	return timeInfo{
		Date:     kst.Format("2006-01-02"),
		Time:     kst.Format("15:04"),
		DateTime: kst.Format("2006-01-02 15:04:05"),
		Weekday:  koreanWeekdays[kst.Weekday()],
	}
}

// deadlineMarker 마감 상태별 이모지와 안내 문구
func deadlineMarker(status entity.DeadlineStatus) string {
	days := 0
	if status.DaysRemaining != nil {
		days = *status.DaysRemaining
	}

	switch status.Status {
	case entity.DeadlineExpired:
		return "❌ 마감됨"
	case entity.DeadlineToday:
		return "🚨 오늘 마감!"
	case entity.DeadlineUrgent:
		return fmt.Sprintf("⚠️ 긴급! %d일 남음", days)
	case entity.DeadlineSoon:
		return fmt.Sprintf("⏰ %d일 남음", days)
	case entity.DeadlineActive:
		if status.DaysRemaining != nil {
			return fmt.Sprintf("✅ %d일 남음", days)
		}
		return "✅ 신청 가능"
	default:
		return "❓ 마감일 확인 필요"
	}
}

// orDefault 빈 필드를 안내 문구로 대체
func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

// BuildSearchContext 재정렬된 후보를 LLM 컨텍스트 문자열로 구성
// 후보의 모든 메타데이터와 마감 상태를 항목별로 나열한다
func BuildSearchContext(candidates []entity.SearchCandidate, maxCandidates, snippetRunes int) string {
	if len(candidates) == 0 {
		return ""
	}
	if maxCandidates > 0 && len(candidates) > maxCandidates {
		candidates = candidates[:maxCandidates]
	}

	pieces := make([]string, 0, len(candidates))
	for i, c := range candidates {
		m := c.Metadata
		piece := fmt.Sprintf(`=== 지원사업 %d ===
📢 제목: %s
🏢 기관: %s (%s)
🎯 분야: %s
👥 대상: %s
👶 연령대: %s
🚀 창업경험: %s
📍 지역: %s
📅 접수기간: %s
⏰ 마감상태: %s
💰 지원금액: %s
📝 설명: %s...
💰 지원내용: %s...
📋 신청방법: %s
📄 제출서류: %s
📞 연락처: %s
📊 유사도: %.3f`,
			i+1,
			orDefault(m.Title, "제목 없음"),
			orDefault(m.Organization, "기관 정보 없음"),
			orDefault(m.Department, "부서 정보 없음"),
			orDefault(m.SupportField, "분야 정보 없음"),
			orDefault(m.TargetAudience, "대상 정보 없음"),
			orDefault(m.TargetAge, "연령 정보 없음"),
			orDefault(m.StartupExperience, "경험 정보 없음"),
			orDefault(m.Region, "지역 정보 없음"),
			m.ApplicationPeriod,
			deadlineMarker(c.DeadlineStatus),
			orDefault(m.NormalizedAmountText, "금액 정보 없음"),
			truncateRunes(orDefault(m.Description, "설명 없음"), snippetRunes),
			truncateRunes(orDefault(m.SupportContent, "지원내용 정보 없음"), snippetRunes),
			orDefault(m.ApplicationMethod, "신청방법 정보 없음"),
			orDefault(m.SubmissionDocuments, "제출서류 정보 없음"),
			orDefault(m.Contact, "연락처 정보 없음"),
			c.SimilarityScore,
		)
		pieces = append(pieces, piece)
	}

	return "\n\n" + strings.Join(pieces, "\n\n")
}

// BuildConversationContext 대화 기록을 컨텍스트 문자열로 구성
func BuildConversationContext(turns []entity.ConversationTurn) string {
	if len(turns) == 0 {
		return ""
	}

	parts := []string{"이전 대화 내용:"}
	for _, turn := range turns {
		parts = append(parts, fmt.Sprintf("대화 %d:", turn.Turn))
		parts = append(parts, fmt.Sprintf("사용자: %s", turn.UserQuery))
		parts = append(parts, fmt.Sprintf("답변: %s...", truncateRunes(turn.Response, 100)))
		parts = append(parts, "---")
	}
	return strings.Join(parts, "\n")
}

// BuildSystemPrompt 상담사 역할과 현재 시간 정보를 담은 시스템 프롬프트 구성
func BuildSystemPrompt(now time.Time) string {
	info := currentTimeInfo(now)
	return fmt.Sprintf(`당신은 K-Startup 지원사업 전문 상담사입니다.
사용자의 질문에 대해 제공된 지원사업 정보와 이전 대화 내용을 바탕으로 정확하고 도움이 되는 답변을 제공하세요.

=== 현재 시간 정보 ===
📅 현재 날짜: %s (%s)
🕐 현재 시간: %s
📊 정확한 시각: %s

답변 시 유의사항:
1. **신청 가능한 지원사업만 추천**: ❌ 마감됨 표시가 있는 지원사업은 절대 추천하지 마세요
2. **현재 날짜 기준 엄격 필터링**: 현재 %s를 기준으로 신청 기간이 남은 지원사업만 추천하세요
3. **마감된 지원사업 완전 제외**: 이미 마감된 지원사업은 언급조차 하지 마세요
4. **시의성 최우선**: 🚨 오늘 마감, ⚠️ 긴급 표시가 있는 지원사업을 최우선으로 안내하세요
5. **명확한 상태 표시**: 각 지원사업의 마감 상태와 남은 일수를 반드시 표시하세요
6. **연속성 있는 대화**: 이전 대화 내용을 참고하여 맥락에 맞는 답변을 제공하세요
7. **구체적인 정보 제공**: 지원사업명, 기관명, 정확한 마감일, 남은 일수를 포함하세요
8. **사용자 맞춤 추천**: 사용자의 조건(지역, 분야, 창업경험, 지원 금액 등)에 맞는 지원사업을 우선 추천하세요
9. **실용적 정보 제공**: 신청 방법, 제출 서류, 연락처 등 즉시 활용 가능한 정보를 제공하세요
10. **정확성 최우선**: 불확실한 정보보다는 확실하고 신청 가능한 정보만 제공하세요

마감일 상태 표시 가이드:
- ❌ 마감됨: 이미 접수가 종료된 지원사업
- 🚨 오늘 마감: 오늘이 마감일인 지원사업 (긴급!)
- ⚠️ 긴급: 3일 이내 마감 예정
- ⏰ 곧 마감: 7일 이내 마감 예정
- ✅ 신청 가능: 여유 있게 신청 가능한 지원사업`,
		info.Date, info.Weekday, info.Time, info.DateTime, info.Date)
}

// BuildUserMessage 현재 질문과 검색 컨텍스트를 사용자 메시지로 구성
func BuildUserMessage(userQuery, searchContext string) string {
	message := fmt.Sprintf("현재 질문: %s", userQuery)
	if searchContext != "" {
		message += fmt.Sprintf("\n\n관련 지원사업 정보:\n%s", searchContext)
	}
	return message
}

// FallbackResponse LLM 없이 최상위 후보의 메타데이터로 만드는 대체 응답
func FallbackResponse(userQuery string, candidates []entity.SearchCandidate, now time.Time) string {
	info := currentTimeInfo(now)
	if len(candidates) == 0 {
		return NoResultResponse(userQuery, now)
	}

	best := candidates[0]
	m := best.Metadata

	return fmt.Sprintf(`현재 시간: %s %s

'%s'와 관련하여 다음 지원사업을 찾았습니다:

📌 **%s**
🏢 주관기관: %s
📅 접수기간: %s
⏰ 마감상태: %s
🎯 분야: %s
👥 대상: %s
💰 지원금액: %s

📝 설명: %s...

더 자세한 정보는 해당 기관에 직접 문의하시기 바랍니다.
📞 연락처: %s`,
		info.Date, info.Time,
		userQuery,
		orDefault(m.Title, "제목 정보 없음"),
		orDefault(m.Organization, "기관 정보 없음"),
		m.ApplicationPeriod,
		deadlineMarker(best.DeadlineStatus),
		orDefault(m.SupportField, "분야 정보 없음"),
		orDefault(m.TargetAudience, "대상 정보 없음"),
		orDefault(m.NormalizedAmountText, "금액 정보 없음"),
		truncateRunes(orDefault(m.Description, "상세 설명이 없습니다."), 200),
		orDefault(m.Contact, "연락처 정보 없음"),
	)
}

// NoResultResponse 검색 결과가 없을 때의 안내 응답
func NoResultResponse(userQuery string, now time.Time) string {
	info := currentTimeInfo(now)
	return fmt.Sprintf(`현재 시간: %s %s

죄송합니다. '%s'와 관련된 지원사업 정보를 찾을 수 없습니다.
다른 키워드로 다시 시도해보시거나, 더 구체적인 조건을 말씀해 주세요.

예시: "AI 스타트업", "서울 지역", "3년 미만 기업" 등`,
		info.Date, info.Time, userQuery)
}
