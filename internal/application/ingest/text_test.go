package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"kstartup-rag-api/internal/domain/entity"
)

func TestBuildEmbedText(t *testing.T) {
	m := entity.AnnouncementMetadata{
		Title:             "청년 창업 지원사업",
		Organization:      "중소벤처기업부",
		SupportField:      "사업화",
		Region:            "서울",
		ApplicationPeriod: "20250101 ~ 20250320",
	}

	text := BuildEmbedText(m, 500)

	require.Contains(t, text, "제목: 청년 창업 지원사업")
	require.Contains(t, text, "기관: 중소벤처기업부")
	require.Contains(t, text, "접수기간: 20250101 ~ 20250320")
	// 빈 필드는 라벨조차 들어가지 않는다
	require.NotContains(t, text, "대상:")
	require.NotContains(t, text, "설명:")
	require.Equal(t, 4, strings.Count(text, " | "))
}

func TestBuildEmbedTextTruncatesLongFields(t *testing.T) {
	m := entity.AnnouncementMetadata{
		Title:       "공고",
		Description: strings.Repeat("가", 800),
	}

	text := BuildEmbedText(m, 500)

	require.Contains(t, text, "설명: "+strings.Repeat("가", 500))
	require.NotContains(t, text, strings.Repeat("가", 501))
}

func TestBuildEmbedTextEmptyMetadata(t *testing.T) {
	require.Empty(t, BuildEmbedText(entity.AnnouncementMetadata{}, 500))
}

func TestAmountSourceText(t *testing.T) {
	m := entity.AnnouncementMetadata{
		Title:          "최대 5억원 지원",
		Description:    "설명",
		SupportContent: "지원내용",
	}

	text := AmountSourceText(m)

	require.Contains(t, text, "최대 5억원 지원")
	require.Contains(t, text, "설명")
	require.Contains(t, text, "지원내용")
}
