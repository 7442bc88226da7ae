package search

import (
	"testing"

	"github.com/ujblackjack-cmd/it-da/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreRelaxByConfidence(t *testing.T) {
	s := NewStrategy()

	t.Run("emotion-only switches to vibe-only mode", func(t *testing.T) {
		q := s.PreRelaxByConfidence(models.Query{
			Category:    "카페",
			Subcategory: "브런치",
			Vibe:        "힐링",
			EmotionOnly: true,
			Confidence:  0.9,
		})
		assert.Empty(t, q.Category)
		assert.Empty(t, q.Subcategory)
		assert.Equal(t, models.SearchModeVibeOnly, q.SearchMode)
	})

	t.Run("vibe without category switches to vibe-only mode", func(t *testing.T) {
		q := s.PreRelaxByConfidence(models.Query{Vibe: "즐거운", Confidence: 0.8})
		assert.Equal(t, models.SearchModeVibeOnly, q.SearchMode)
	})

	t.Run("low confidence sheds subcategory", func(t *testing.T) {
		q := s.PreRelaxByConfidence(models.Query{
			Category:    "스포츠",
			Subcategory: "러닝",
			Confidence:  0.55,
		})
		assert.Equal(t, "스포츠", q.Category)
		assert.Empty(t, q.Subcategory)
	})

	t.Run("very low confidence sheds category too", func(t *testing.T) {
		q := s.PreRelaxByConfidence(models.Query{
			Category:    "스포츠",
			Subcategory: "러닝",
			Confidence:  0.45,
		})
		assert.Empty(t, q.Category)
		assert.Empty(t, q.Subcategory)
	})

	t.Run("confident query untouched", func(t *testing.T) {
		q := s.PreRelaxByConfidence(models.Query{
			Category:    "스포츠",
			Subcategory: "러닝",
			Confidence:  0.9,
		})
		assert.Equal(t, "러닝", q.Subcategory)
	})
}

func TestRelaxationPlanLengths(t *testing.T) {
	s := NewStrategy()

	cases := []struct {
		conf   float64
		prompt string
		steps  int
	}{
		{0.95, "강남역 카페", 6},
		{0.95, "내 근처 카페", 6},
		{0.80, "강남역 카페", 4},
		{0.80, "조용한 카페", 4},
		{0.50, "조용한 카페", 4},
	}
	for _, tc := range cases {
		plan := s.RelaxationPlan(models.Query{Confidence: tc.conf}, tc.prompt)
		assert.Len(t, plan, tc.steps, "conf=%v prompt=%q", tc.conf, tc.prompt)
	}
}

func TestRelaxationPlanLocationOrdering(t *testing.T) {
	s := NewStrategy()

	// Concrete place name: location text is kept until the second-to-last step.
	explicit := s.RelaxationPlan(models.Query{Confidence: 0.95}, "홍대입구역에서 러닝")
	require.Len(t, explicit, 6)
	assert.Equal(t, []string{fieldVibe}, explicit[0].Fields)
	assert.Equal(t, []string{fieldLocationQuery}, explicit[4].Fields)

	// Near-me phrasing: location text is shed first.
	vague := s.RelaxationPlan(models.Query{Confidence: 0.95}, "집 근처에서 러닝")
	require.Len(t, vague, 6)
	assert.Equal(t, []string{fieldLocationQuery}, vague[0].Fields)

	// Category is always the last thing dropped.
	for _, plan := range [][]RelaxationStep{explicit, vague} {
		assert.Equal(t, []string{fieldCategory}, plan[len(plan)-1].Fields)
	}
}

func TestHasExplicitLocation(t *testing.T) {
	s := NewStrategy()

	assert.True(t, s.HasExplicitLocation("강남역 카페 추천", models.Query{}))
	assert.True(t, s.HasExplicitLocation("성수동 맛집", models.Query{}))
	assert.True(t, s.HasExplicitLocation("카페 가고 싶다", models.Query{LocationQuery: "홍대"}))
	assert.False(t, s.HasExplicitLocation("집 근처 카페", models.Query{}))
	assert.False(t, s.HasExplicitLocation("주변에 뭐 있나", models.Query{LocationQuery: "주변"}))
	assert.False(t, s.HasExplicitLocation("", models.Query{}))
}

func TestDropFields(t *testing.T) {
	q := models.Query{
		Category:      "스포츠",
		Subcategory:   "러닝",
		Vibe:          "활기찬",
		TimeSlot:      "EVENING",
		LocationQuery: "강남역",
		Keywords:      []string{"러닝"},
	}
	out := dropFields(q, fieldVibe, fieldKeywords)
	assert.Empty(t, out.Vibe)
	assert.Nil(t, out.Keywords)
	assert.Equal(t, "스포츠", out.Category)
	// The input query is untouched.
	assert.Equal(t, "활기찬", q.Vibe)
}
