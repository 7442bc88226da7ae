package ml

import (
	"testing"

	"github.com/ujblackjack-cmd/it-da/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeWidthAndNames(t *testing.T) {
	e := NewFeatureEncoder()

	names := e.FeatureNames()
	require.Len(t, names, NumFeatures)

	_, vec, err := e.Encode(models.UserProfile{}, models.Meeting{}, models.MeetingStats{})
	require.NoError(t, err)
	assert.Len(t, vec, NumFeatures)
}

func TestEncodeBaseFeatures(t *testing.T) {
	e := NewFeatureEncoder()

	user := models.UserProfile{
		Lat:            37.55,
		Lng:            126.98,
		TimePreference: "EVENING",
		LocationPref:   "INDOOR",
		Interests:      []string{"카페"},
		BudgetType:     "value",
	}
	m := models.Meeting{
		MeetingID:    1,
		Lat:          37.55,
		Lng:          126.98,
		Category:     "카페",
		TimeSlot:     "EVENING",
		LocationType: "INDOOR",
		ExpectedCost: 15_000,
	}

	f, vec, err := e.Encode(user, m, models.MeetingStats{})
	require.NoError(t, err)

	assert.InDelta(t, 0, f.DistanceKm, 1e-9)
	assert.Equal(t, 1.0, f.TimeMatch)
	assert.Equal(t, 1.0, f.LocationTypeMatch)
	assert.Equal(t, 1.0, f.InterestMatch)
	assert.Equal(t, 1.0, f.CostMatch)

	// Zero-valued inputs fall back to defaults.
	assert.Equal(t, 3.0, vec[5]) // user avg rating
	assert.Equal(t, 3.0, vec[8]) // meeting avg rating
	assert.Equal(t, 10.0, vec[11])
}

func TestEncodeCategoryOneHot(t *testing.T) {
	e := NewFeatureEncoder()

	_, vec, err := e.Encode(models.UserProfile{}, models.Meeting{Category: "스터디"}, models.MeetingStats{})
	require.NoError(t, err)

	// Categories occupy indexes 12..18 in taxonomy order.
	catSlice := vec[12:19]
	assert.Equal(t, []float64{0, 0, 0, 0, 1, 0, 0}, catSlice)
}

func TestEncodeVibeMapping(t *testing.T) {
	e := NewFeatureEncoder()

	// "예술적인" is not a trained vibe and collapses onto "감성적인".
	_, vec, err := e.Encode(models.UserProfile{}, models.Meeting{Vibe: "예술적인"}, models.MeetingStats{})
	require.NoError(t, err)

	vibeSlice := vec[19:27]
	assert.Equal(t, []float64{0, 0, 0, 0, 0, 1, 0, 0}, vibeSlice)
}

func TestEncodeGenderDefault(t *testing.T) {
	e := NewFeatureEncoder()

	_, vec, err := e.Encode(models.UserProfile{}, models.Meeting{}, models.MeetingStats{})
	require.NoError(t, err)

	genderSlice := vec[27:30]
	assert.Equal(t, []float64{0, 0, 1}, genderSlice)
}

func TestInterestMatch(t *testing.T) {
	e := NewFeatureEncoder()

	t.Run("direct category hit", func(t *testing.T) {
		assert.Equal(t, 1.0, e.InterestMatch([]string{"카페"}, "카페", ""))
	})

	t.Run("expanded subcategory hit", func(t *testing.T) {
		// 러닝 is part of the 스포츠 expansion, so both tokens hit.
		assert.Equal(t, 2.0, e.InterestMatch([]string{"스포츠"}, "스포츠", "러닝"))
	})

	t.Run("no interests", func(t *testing.T) {
		assert.Equal(t, 0.0, e.InterestMatch(nil, "카페", ""))
	})

	t.Run("divided by interest count", func(t *testing.T) {
		assert.Equal(t, 0.5, e.InterestMatch([]string{"카페", "스포츠"}, "카페", ""))
	})
}

func TestCostMatch(t *testing.T) {
	e := NewFeatureEncoder()

	assert.Equal(t, 1.0, e.CostMatch("value", 20_000))
	assert.Equal(t, 1.0, e.CostMatch("low", 5_000))
	assert.Equal(t, 0.5, e.CostMatch("", 20_000))
	assert.Equal(t, 0.5, e.CostMatch("unknown", 20_000))
	// Outside the tier the score decays but stays non-negative.
	over := e.CostMatch("low", 50_000)
	assert.Less(t, over, 1.0)
	assert.GreaterOrEqual(t, over, 0.0)
}

func TestHaversine(t *testing.T) {
	// Seoul City Hall to Gangnam Station is roughly 9 km.
	d := Haversine(37.5663, 126.9779, 37.4979, 127.0276)
	assert.InDelta(t, 8.7, d, 1.0)

	assert.InDelta(t, 0, Haversine(37.5, 127.0, 37.5, 127.0), 1e-9)
}

func TestSentimentMatch(t *testing.T) {
	// Unknown MBTI sits at the neutral midpoint.
	assert.Equal(t, 0.5, sentimentMatch("", 0.8, 0.1, 0.1))
	assert.Equal(t, 0.5, sentimentMatch("EN", 0.8, 0.1, 0.1))

	// Extroverts pick up positive, high-variance rooms.
	e := sentimentMatch("ENFP", 0.8, 0.1, 0.5)
	i := sentimentMatch("INTP", 0.8, 0.1, 0.5)
	assert.Greater(t, e, i)
}
