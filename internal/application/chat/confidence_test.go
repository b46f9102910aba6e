package chat

import (
	"testing"

	"github.com/stretchr/testify/require"

	"kstartup-rag-api/internal/domain/entity"
)

func withScore(score float64) entity.SearchCandidate {
	return entity.SearchCandidate{SimilarityScore: score}
}

func TestEstimateConfidence(t *testing.T) {
	tests := []struct {
		score float64
		want  float64
	}{
		{0.0, 0.0},
		{0.1, 0.15},
		{0.2, 0.3},
		{0.3, 0.45},
		{0.4, 0.6},
		{0.5, 0.725},
		{0.6, 0.85},
		{0.8, 0.925},
		{1.0, 1.0},
	}

	for _, tt := range tests {
		got := EstimateConfidence([]entity.SearchCandidate{withScore(tt.score)})
		require.InDelta(t, tt.want, got, 1e-9, "score=%.2f", tt.score)
	}
}

func TestEstimateConfidenceEmptyList(t *testing.T) {
	require.Equal(t, 0.0, EstimateConfidence(nil))
	require.Equal(t, 0.0, EstimateConfidence([]entity.SearchCandidate{}))
}

func TestEstimateConfidenceUsesMaxScore(t *testing.T) {
	// 우선순위 1위가 아니라 전체 최대 유사도를 쓴다
	candidates := []entity.SearchCandidate{
		withScore(0.2),
		withScore(0.7),
		withScore(0.4),
	}

	require.InDelta(t, 0.85+(0.7-0.6)*0.375, EstimateConfidence(candidates), 1e-9)
}

func TestEstimateConfidenceMonotonic(t *testing.T) {
	prev := -1.0
	for score := 0.0; score <= 1.0; score += 0.01 {
		got := EstimateConfidence([]entity.SearchCandidate{withScore(score)})
		require.GreaterOrEqual(t, got, prev, "score=%.2f", score)
		require.LessOrEqual(t, got, 1.0)
		prev = got
	}
}
