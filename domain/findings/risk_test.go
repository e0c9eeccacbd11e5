package findings

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateRisk_AllRatingPairs(t *testing.T) {
	critical := map[int]bool{20: true, 25: true}
	high := map[int]bool{10: true, 12: true, 15: true, 16: true}
	medium := map[int]bool{5: true, 6: true, 8: true, 9: true}

	for l := MinRating; l <= MaxRating; l++ {
		for s := MinRating; s <= MaxRating; s++ {
			t.Run(fmt.Sprintf("L%d_S%d", l, s), func(t *testing.T) {
				result := CalculateRisk(l, s)

				assert.Equal(t, l*s, result.Score)

				var expected RiskLevel
				switch {
				case critical[result.Score]:
					expected = RiskCritical
				case high[result.Score]:
					expected = RiskHigh
				case medium[result.Score]:
					expected = RiskMedium
				default:
					expected = RiskLow
				}
				assert.Equal(t, expected, result.Level)
			})
		}
	}
}

func TestLevelForScore_Boundaries(t *testing.T) {
	tests := []struct {
		score    int
		expected RiskLevel
	}{
		{1, RiskLow},
		{4, RiskLow},
		{5, RiskMedium},
		{9, RiskMedium},
		{10, RiskHigh},
		{16, RiskHigh},
		{17, RiskCritical},
		{25, RiskCritical},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("score_%d", tt.score), func(t *testing.T) {
			assert.Equal(t, tt.expected, LevelForScore(tt.score))
		})
	}
}

func TestClampRating(t *testing.T) {
	assert.Equal(t, 1, ClampRating(0))
	assert.Equal(t, 1, ClampRating(-7))
	assert.Equal(t, 3, ClampRating(3))
	assert.Equal(t, 5, ClampRating(9))
}

func TestRiskLevel_RankFollowsSeverity(t *testing.T) {
	levels := RiskLevels()
	for i := 1; i < len(levels); i++ {
		assert.Less(t, levels[i-1].Rank(), levels[i].Rank())
	}
	assert.Equal(t, -1, RiskLevel("Extreme").Rank())
}
