package recommend

import (
	"testing"

	"github.com/ujblackjack-cmd/it-da/models"
	"github.com/ujblackjack-cmd/it-da/services/ml"

	"github.com/stretchr/testify/assert"
)

func TestScoreToRating(t *testing.T) {
	// The midpoint raw score lands on the middle of the review scale.
	assert.Equal(t, 3.0, scoreToRating(0))

	high := scoreToRating(10)
	assert.LessOrEqual(t, high, 5.0)
	assert.Greater(t, high, 4.5)

	low := scoreToRating(-10)
	assert.GreaterOrEqual(t, low, 1.0)
	assert.Less(t, low, 1.5)

	// Monotone in the raw score.
	assert.Greater(t, scoreToRating(1), scoreToRating(-1))
}

func TestRatingToStars(t *testing.T) {
	assert.Equal(t, "⭐⭐⭐", ratingToStars(3.2))
	assert.Equal(t, "⭐⭐⭐⭐", ratingToStars(3.5))
	assert.Equal(t, "⭐⭐⭐⭐⭐", ratingToStars(5.0))
	assert.Equal(t, "⭐", ratingToStars(1.0))
}

func TestSatisfactionLevel(t *testing.T) {
	assert.Equal(t, "VERY_HIGH", satisfactionLevel(4.5))
	assert.Equal(t, "HIGH", satisfactionLevel(3.9))
	assert.Equal(t, "MEDIUM", satisfactionLevel(2.5))
	assert.Equal(t, "LOW", satisfactionLevel(2.4))
}

func TestBuildReasonsCap(t *testing.T) {
	reasons := buildReasons(ml.Features{
		DistanceKm:        0.8,
		TimeMatch:         1,
		LocationTypeMatch: 1,
		CostMatch:         1,
		InterestMatch:     1,
	})
	assert.Len(t, reasons, 3)
	assert.Equal(t, "📍", reasons[0].Icon)
}

func TestBuildReasonsEmpty(t *testing.T) {
	reasons := buildReasons(ml.Features{DistanceKm: 20})
	assert.Empty(t, reasons)
}

func TestSplitInterests(t *testing.T) {
	assert.Equal(t, []string{"카페", "스포츠"}, splitInterests(`["카페","스포츠"]`))
	assert.Equal(t, []string{"카페", "스포츠"}, splitInterests("카페, 스포츠"))
	assert.Nil(t, splitInterests("  "))
	assert.Equal(t, []string{"카페"}, splitInterests("카페"))
}

func TestQueryTerms(t *testing.T) {
	terms := queryTerms("강남역 근처 보드게임 모임 추천")
	assert.Contains(t, terms, "강남역")
	assert.Contains(t, terms, "보드게임")
	// Stopwords and filler never become match terms.
	assert.NotContains(t, terms, "근처")
	assert.NotContains(t, terms, "추천")
	assert.NotContains(t, terms, "모임")
}

func TestCacheKeyStableAndPromptSensitive(t *testing.T) {
	s := &defaultService{}

	a := s.cacheKey(models.RecommendRequest{UserID: 1, UserPrompt: "카페", TopN: 5})
	b := s.cacheKey(models.RecommendRequest{UserID: 1, UserPrompt: "카페", TopN: 5})
	c := s.cacheKey(models.RecommendRequest{UserID: 1, UserPrompt: "맛집", TopN: 5})
	d := s.cacheKey(models.RecommendRequest{UserID: 2, UserPrompt: "카페", TopN: 5})

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.NotEqual(t, a, d)
}
