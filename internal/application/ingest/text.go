// Package ingest 공고 데이터의 임베딩 인제스트 파이프라인을 담당한다
package ingest

import (
	"strings"

	"kstartup-rag-api/internal/domain/entity"
)

// DefaultEmbedTextRunes 임베딩 입력에서 긴 필드의 기본 절단 길이
const DefaultEmbedTextRunes = 500

// BuildEmbedText 공고 메타데이터를 임베딩용 텍스트로 변환
// 비어 있지 않은 필드만 라벨을 붙여 " | "로 연결하고, 긴 필드는 절단한다
func BuildEmbedText(m entity.AnnouncementMetadata, maxRunes int) string {
	if maxRunes <= 0 {
		maxRunes = DefaultEmbedTextRunes
	}

	var parts []string
	add := func(label, value string) {
		if value != "" {
			parts = append(parts, label+": "+value)
		}
	}

	add("제목", m.Title)
	add("기관", m.Organization)
	add("분야", m.SupportField)
	add("대상", m.TargetAudience)
	add("연령대", m.TargetAge)
	add("창업경험", m.StartupExperience)
	add("지역", m.Region)
	add("지원내용", truncateRunes(m.SupportContent, maxRunes))
	add("설명", truncateRunes(m.Description, maxRunes))
	add("신청방법", m.ApplicationMethod)
	add("접수기간", m.ApplicationPeriod)
	add("담당부서", m.Department)

	return strings.Join(parts, " | ")
}

// AmountSourceText 금액 추출의 입력이 되는 필드 결합
func AmountSourceText(m entity.AnnouncementMetadata) string {
	return strings.Join([]string{m.Description, m.SupportContent, m.Title}, "\n")
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
