package query

import (
	"testing"

	"github.com/ujblackjack-cmd/it-da/models"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTimeSlot(t *testing.T) {
	n := NewNormalizer()

	cases := []struct {
		in   string
		want string
	}{
		{"MORNING", "MORNING"},
		{"evening", "EVENING"},
		{"아침", "MORNING"},
		{"오전 10시", "MORNING"},
		{"점심시간", "AFTERNOON"},
		{"저녁", "EVENING"},
		{"밤늦게", "NIGHT"},
		{"", ""},
		{"언젠가", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, n.NormalizeTimeSlot(tc.in), "input %q", tc.in)
	}
}

func TestNormalizeLocationType(t *testing.T) {
	n := NewNormalizer()

	assert.Equal(t, "INDOOR", n.NormalizeLocationType("실내"))
	assert.Equal(t, "INDOOR", n.NormalizeLocationType("Indoor"))
	assert.Equal(t, "OUTDOOR", n.NormalizeLocationType("야외"))
	assert.Equal(t, "OUTDOOR", n.NormalizeLocationType("outdoor"))
	assert.Equal(t, "", n.NormalizeLocationType("  "))
	// Unknown values are uppercased and passed through.
	assert.Equal(t, "ANYWHERE", n.NormalizeLocationType("anywhere"))
}

func TestNormalizeVibe(t *testing.T) {
	n := NewNormalizer()

	assert.Equal(t, "활기찬", n.NormalizeVibe("격렬한"))
	assert.Equal(t, "편안한", n.NormalizeVibe("차분한"))
	assert.Equal(t, "힐링", n.NormalizeVibe("여유로운"))
	assert.Equal(t, "즐거운", n.NormalizeVibe("즐거운"))
	assert.Equal(t, "", n.NormalizeVibe(""))
}

func TestNormalizeBudgetType(t *testing.T) {
	n := NewNormalizer()

	assert.Equal(t, "low", n.NormalizeBudgetType("저렴한 곳"))
	assert.Equal(t, "value", n.NormalizeBudgetType("가성비"))
	assert.Equal(t, "premium", n.NormalizeBudgetType("고급"))
	assert.Equal(t, "value", n.NormalizeBudgetType(""))
	assert.Equal(t, "value", n.NormalizeBudgetType("모르겠음"))
}

func TestNormalizeTaxonomy(t *testing.T) {
	n := NewNormalizer()

	t.Run("subcategory implies parent category", func(t *testing.T) {
		q := n.NormalizeTaxonomy(models.Query{Category: "카페", Subcategory: "러닝"})
		assert.Equal(t, "스포츠", q.Category)
		assert.Equal(t, "러닝", q.Subcategory)
	})

	t.Run("invalid category is dropped with its subcategory", func(t *testing.T) {
		q := n.NormalizeTaxonomy(models.Query{Category: "게임", Subcategory: "롤"})
		assert.Empty(t, q.Category)
		assert.Empty(t, q.Subcategory)
	})

	t.Run("valid pair passes through", func(t *testing.T) {
		q := n.NormalizeTaxonomy(models.Query{Category: "소셜", Subcategory: "보드게임"})
		assert.Equal(t, "소셜", q.Category)
		assert.Equal(t, "보드게임", q.Subcategory)
	})
}

func TestNormalizeComposite(t *testing.T) {
	n := NewNormalizer()

	q := n.Normalize(models.Query{
		Category:     "스포츠",
		TimeSlot:     "저녁",
		LocationType: "실내",
		Vibe:         "격렬한",
	})
	assert.Equal(t, "EVENING", q.TimeSlot)
	assert.Equal(t, "INDOOR", q.LocationType)
	assert.Equal(t, "활기찬", q.Vibe)
	assert.Equal(t, "스포츠", q.Category)
}

func TestCleanKeywords(t *testing.T) {
	got := CleanKeywords([]string{"보드게임", "것", "  ", "카페", "보드게임", "수"})
	assert.Equal(t, []string{"보드게임", "카페"}, got)
}
