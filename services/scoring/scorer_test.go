package scoring

import (
	"testing"

	"github.com/ujblackjack-cmd/it-da/models"
	"github.com/ujblackjack-cmd/it-da/services/ml"
	"github.com/ujblackjack-cmd/it-da/services/query"

	"github.com/stretchr/testify/assert"
)

func TestIsEmotionSearch(t *testing.T) {
	cases := []struct {
		name string
		q    models.Query
		want bool
	}{
		{"emotion-only flag", models.Query{EmotionOnly: true}, true},
		{"vibe no category low confidence", models.Query{Vibe: "힐링", Confidence: 0.5}, true},
		{"vibe no category high confidence", models.Query{Vibe: "힐링", Confidence: 0.9}, false},
		{"category plus vibe moderate confidence", models.Query{Category: "카페", Vibe: "힐링", Confidence: 0.8}, true},
		{"category plus vibe certain", models.Query{Category: "카페", Vibe: "힐링", Confidence: 0.95}, false},
		{"plain category search", models.Query{Category: "카페", Confidence: 0.9}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsEmotionSearch(tc.q))
		})
	}
}

func newBareScorer() *Scorer {
	n := query.NewNormalizer()
	return &Scorer{normalizer: n, adjuster: NewIntentAdjuster(n)}
}

func TestBuildProfileBlanksInterests(t *testing.T) {
	s := newBareScorer()
	user := models.UserContext{Interests: []string{"카페", "스포츠"}, BudgetType: "가성비"}

	emotional := s.buildProfile(user, models.Query{EmotionOnly: true, Vibe: "힐링"})
	assert.Nil(t, emotional.Interests)
	assert.Equal(t, "value", emotional.BudgetType)

	// Category-plus-vibe emotion searches keep interests; only the vibe-wide
	// modes blank them.
	mixed := s.buildProfile(user, models.Query{Category: "카페", Vibe: "힐링", Confidence: 0.8})
	assert.Equal(t, user.Interests, mixed.Interests)
}

func TestNormalizeMeetingSportsTitle(t *testing.T) {
	s := newBareScorer()

	m := s.normalizeMeeting(models.Meeting{
		Category: "스포츠", Subcategory: "기타", Title: "한강 달리기 크루",
	})
	assert.Equal(t, "러닝", m.Subcategory)

	other := s.normalizeMeeting(models.Meeting{Category: "카페", Title: "달리기 얘기하는 카페"})
	assert.Empty(t, other.Subcategory)

	defaulted := s.normalizeMeeting(models.Meeting{Category: "카페"})
	assert.Equal(t, 10, defaulted.MaxParticipants)
}

func TestAdjustTimeSlot(t *testing.T) {
	s := newBareScorer()

	exact := s.adjustTimeSlot(60, models.Meeting{TimeSlot: "EVENING"}, models.Query{TimeSlot: "저녁"})
	assert.Equal(t, 70.0, exact)

	adjacent := s.adjustTimeSlot(60, models.Meeting{TimeSlot: "AFTERNOON"}, models.Query{TimeSlot: "EVENING"})
	assert.Equal(t, 62.0, adjacent)

	clash := s.adjustTimeSlot(60, models.Meeting{TimeSlot: "MORNING"}, models.Query{TimeSlot: "NIGHT"})
	assert.Equal(t, 45.0, clash)

	unset := s.adjustTimeSlot(60, models.Meeting{}, models.Query{TimeSlot: "NIGHT"})
	assert.Equal(t, 60.0, unset)
}

func TestAdjustLocationQuery(t *testing.T) {
	s := newBareScorer()

	hit := s.adjustLocationQuery(60, models.Meeting{LocationName: "강남역 스터디룸"},
		models.Query{LocationQuery: "강남역 근처"})
	assert.Equal(t, 80.0, hit)

	miss := s.adjustLocationQuery(60, models.Meeting{LocationName: "홍대입구역 카페"},
		models.Query{LocationQuery: "강남역"})
	assert.Equal(t, 55.0, miss)

	// A near-me phrase that strips to nothing leaves the score alone.
	generic := s.adjustLocationQuery(60, models.Meeting{LocationName: "어딘가"},
		models.Query{LocationQuery: "집 근처"})
	assert.Equal(t, 60.0, generic)
}

func TestAdjustSubcategory(t *testing.T) {
	q := models.Query{Subcategory: "러닝", Confidence: 0.8}

	assert.Equal(t, 78.0, adjustSubcategory(60, models.Meeting{Subcategory: "러닝"}, q))
	assert.Equal(t, 35.0, adjustSubcategory(60, models.Meeting{Subcategory: "축구"}, q))

	// Below the confidence gate the term is skipped.
	low := models.Query{Subcategory: "러닝", Confidence: 0.5}
	assert.Equal(t, 60.0, adjustSubcategory(60, models.Meeting{Subcategory: "축구"}, low))
}

func TestQueryTermBonus(t *testing.T) {
	m := models.Meeting{Title: "한강 러닝 크루", Category: "스포츠", LocationName: "여의도"}

	assert.Equal(t, 30.0, queryTermBonus(m, []string{"러닝", "한강"}))
	assert.Equal(t, 22.0, queryTermBonus(m, []string{"러닝", "축구"}))
	assert.Equal(t, -12.0, queryTermBonus(m, []string{"축구"}))
	assert.Equal(t, 0.0, queryTermBonus(m, nil))
}

func TestAdjustKeywords(t *testing.T) {
	m := models.Meeting{Title: "보드게임 카페 모임", Subcategory: "보드게임"}

	one := adjustKeywords(60, m, models.Query{Keywords: []string{"보드게임"}})
	assert.Equal(t, 62.0, one)

	// The bonus caps at +5 no matter how many keywords hit.
	many := adjustKeywords(60, m, models.Query{Keywords: []string{"보드게임", "카페", "모임"}})
	assert.LessOrEqual(t, many, 65.0)
}

func TestEmotionSearchBoost(t *testing.T) {
	s := newBareScorer()

	t.Run("active vibe kills food venues", func(t *testing.T) {
		got := s.emotionSearchBoost(60, models.Meeting{Category: "맛집"}, models.Query{Vibe: "신나는"})
		assert.Equal(t, -40.0, got)
	})

	t.Run("calm vibe lifts cafes", func(t *testing.T) {
		got := s.emotionSearchBoost(60,
			models.Meeting{Category: "카페", Vibe: "힐링"}, models.Query{Vibe: "힐링"})
		assert.Equal(t, 145.0, got) // +25 calm cafe, +60 exact vibe
	})

	t.Run("calm subcategory overrides listed vibe", func(t *testing.T) {
		got := s.emotionSearchBoost(60,
			models.Meeting{Category: "스포츠", Subcategory: "요가", Vibe: "활기찬"},
			models.Query{Vibe: "힐링"})
		assert.Equal(t, 120.0, got) // effective vibe becomes 힐링, exact match
	})

	t.Run("active versus calm cross penalty", func(t *testing.T) {
		got := s.emotionSearchBoost(60,
			models.Meeting{Category: "스포츠", Subcategory: "축구", Vibe: "활기찬"},
			models.Query{Vibe: "힐링"})
		assert.Equal(t, -20.0, got)
	})

	t.Run("missing vibe penalty", func(t *testing.T) {
		got := s.emotionSearchBoost(60,
			models.Meeting{Category: "문화예술"}, models.Query{Vibe: "힐링"})
		assert.Equal(t, 35.0, got)
	})
}

func TestBuildKeyPointsCap(t *testing.T) {
	points := buildKeyPoints(ml.Features{
		DistanceKm:        1.2,
		TimeMatch:         1,
		LocationTypeMatch: 1,
		InterestMatch:     1,
		CostMatch:         1,
	})
	assert.Len(t, points, 3)
}
