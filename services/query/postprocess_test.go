package query

import (
	"testing"

	"github.com/ujblackjack-cmd/it-da/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProcessor() *PostProcessor {
	return NewPostProcessor(NewNormalizer())
}

func TestPostFixEmotionOnlyClearsCategory(t *testing.T) {
	p := newTestProcessor()

	// Emotion word, no activity word: category is cleared, vibe survives.
	q := p.PostFix("요즘 너무 우울해", models.Query{Category: "카페", Confidence: 0.9})
	assert.Empty(t, q.Category)
	assert.Empty(t, q.Subcategory)
	assert.Equal(t, "힐링", q.Vibe)
	assert.True(t, q.EmotionOnly)
	assert.LessOrEqual(t, q.Confidence, 0.55)
}

func TestPostFixEmotionWithActivityKeepsCategory(t *testing.T) {
	p := newTestProcessor()

	// An activity word defeats the emotion-only rule.
	q := p.PostFix("우울해서 전시회 보고 싶어", models.Query{Category: "문화예술", Confidence: 0.8})
	assert.Equal(t, "문화예술", q.Category)
	assert.False(t, q.EmotionOnly)
}

func TestPostFixExclusion(t *testing.T) {
	p := newTestProcessor()

	q := p.PostFix("먹는 거 말고 실내에서 놀고 싶어", models.Query{
		Category:   "맛집",
		Confidence: 0.8,
		Keywords:   []string{"맛집", "보드게임"},
	})
	assert.NotEqual(t, "맛집", q.Category)
	assert.Equal(t, "INDOOR", q.LocationType)
	assert.NotContains(t, q.Keywords, "맛집")
	assert.Contains(t, q.Keywords, "보드게임")
}

func TestPostFixEmotionStateLocksVibe(t *testing.T) {
	p := newTestProcessor()

	// "스트레스" maps to sports with an intense vibe; the later culture rule
	// must not overwrite the locked vibe.
	q := p.PostFix("스트레스 받아서 운동하고 싶다", models.Query{Confidence: 0.4})
	assert.Equal(t, "스포츠", q.Category)
	assert.Equal(t, "격렬한", q.Vibe)
	assert.True(t, q.VibeLocked)
	assert.GreaterOrEqual(t, q.Confidence, 0.75)
}

func TestPostFixBallSportsFansOut(t *testing.T) {
	p := newTestProcessor()

	q := p.PostFix("공놀이 하고 싶어", models.Query{Subcategory: "축구", Confidence: 0.7})
	assert.Equal(t, "스포츠", q.Category)
	assert.Empty(t, q.Subcategory)
	assert.ElementsMatch(t, []string{"축구", "풋살", "농구", "배드민턴", "테니스"}, q.Keywords)
}

func TestPostFixPhotoIsAuthoritative(t *testing.T) {
	p := newTestProcessor()

	q := p.PostFix("인생샷 찍으러 가고 싶다", models.Query{Category: "소셜", Confidence: 0.5})
	assert.Equal(t, "문화예술", q.Category)
	assert.Equal(t, "사진촬영", q.Subcategory)
}

func TestPostFixDance(t *testing.T) {
	p := newTestProcessor()

	q := p.PostFix("kpop 댄스 배우고 싶어", models.Query{Confidence: 0.5})
	assert.Equal(t, "취미활동", q.Category)
	assert.Equal(t, "댄스", q.Subcategory)
	assert.Equal(t, "INDOOR", q.LocationType)
}

func TestPostFixLocationOnly(t *testing.T) {
	p := newTestProcessor()

	q := p.PostFix("집 근처에서 뭐든", models.Query{Category: "소셜", Confidence: 0.7})
	assert.Empty(t, q.Category)
	assert.Equal(t, "집 근처", q.LocationQuery)
}

func TestPostFixHungerStripsLocationQuery(t *testing.T) {
	p := newTestProcessor()

	q := p.PostFix("배고파 죽겠어", models.Query{LocationQuery: "배고파", Confidence: 0.5})
	assert.Empty(t, q.LocationQuery)
	assert.Equal(t, "맛집", q.Category)
}

func TestPostFixTemperature(t *testing.T) {
	p := newTestProcessor()

	cold := p.PostFix("너무 추워서 따뜻한 데 가고 싶어", models.Query{Confidence: 0.4})
	assert.Equal(t, "INDOOR", cold.LocationType)

	hot := p.PostFix("더운데 시원하게 놀자", models.Query{Confidence: 0.4})
	// "놀" assigns the social category before temperature runs, so the
	// hot-weather outdoor default must not fire.
	assert.Equal(t, "소셜", hot.Category)
}

func TestGuardCategoryByEvidence(t *testing.T) {
	p := newTestProcessor()

	t.Run("study with no evidence is demoted", func(t *testing.T) {
		q := p.GuardCategoryByEvidence("조용한 야외에서 쉬고 싶어", models.Query{
			Category:     "스터디",
			LocationType: "OUTDOOR",
			Confidence:   0.9,
		})
		require.NotEqual(t, "스터디", q.Category)
		assert.Equal(t, "문화예술", q.Category)
		assert.Contains(t, q.Keywords, "산책")
	})

	t.Run("focused indoor restores study", func(t *testing.T) {
		q := p.GuardCategoryByEvidence("조용한 실내에서 있고 싶어", models.Query{
			Category:     "스터디",
			LocationType: "INDOOR",
			Confidence:   0.9,
		})
		assert.Equal(t, "스터디", q.Category)
		assert.Contains(t, q.Keywords, "스터디카페")
	})

	t.Run("study with evidence stands", func(t *testing.T) {
		q := p.GuardCategoryByEvidence("토익 공부 모임", models.Query{
			Category:   "스터디",
			Confidence: 0.9,
		})
		assert.Equal(t, "스터디", q.Category)
		assert.Equal(t, 0.9, q.Confidence)
	})
}
