package chat

import "kstartup-rag-api/internal/domain/entity"

// EstimateConfidence 후보 목록에서 응답 신뢰도를 [0,1] 범위로 추정
// 우선순위 1위가 아니라 전체 후보 중 최대 유사도 점수를 기준으로 한다
// 구간별 선형 보간이며 경계에서 연속이다
//   - 0.6 이상: 매우 높음 (0.85~1.0)
//   - 0.4~0.6: 높음 (0.6~0.85)
//   - 0.2~0.4: 보통 (0.3~0.6)
//   - 0.2 미만: 낮음 (0~0.3)
func EstimateConfidence(candidates []entity.SearchCandidate) float64 {
	if len(candidates) == 0 {
		return 0.0
	}

	maxScore := 0.0
	for _, c := range candidates {
		if c.SimilarityScore > maxScore {
			maxScore = c.SimilarityScore
		}
	}

	switch {
	case maxScore >= 0.6:
		confidence := 0.85 + (maxScore-0.6)*0.375
		if confidence > 1.0 {
			return 1.0
		}
		return confidence
	case maxScore >= 0.4:
		return 0.6 + (maxScore-0.4)*1.25
	case maxScore >= 0.2:
		return 0.3 + (maxScore-0.2)*1.5
	default:
		return maxScore * 1.5
	}
}
