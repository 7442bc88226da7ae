package query

import (
	"testing"

	"github.com/ujblackjack-cmd/it-da/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSearchRequest(t *testing.T) {
	b := NewBuilder(NewNormalizer())

	t.Run("category keyword is dropped from keywords", func(t *testing.T) {
		req := b.BuildSearchRequest(models.Query{
			Category: "카페",
			Keywords: []string{"카페", "브런치"},
		}, models.UserContext{}, "홍대 카페")
		assert.Equal(t, []string{"브런치"}, req.Keywords)
	})

	t.Run("time slot needs confidence or explicit mention", func(t *testing.T) {
		low := b.BuildSearchRequest(models.Query{TimeSlot: "EVENING", Confidence: 0.4},
			models.UserContext{}, "뭐하지")
		assert.Empty(t, low.TimeSlot)

		confident := b.BuildSearchRequest(models.Query{TimeSlot: "EVENING", Confidence: 0.8},
			models.UserContext{}, "뭐하지")
		assert.Equal(t, "EVENING", confident.TimeSlot)

		explicit := b.BuildSearchRequest(models.Query{TimeSlot: "저녁", Confidence: 0.3},
			models.UserContext{}, "저녁에 뭐하지")
		assert.Equal(t, "EVENING", explicit.TimeSlot)
	})

	t.Run("radius applied only for near-me intent", func(t *testing.T) {
		near := b.BuildSearchRequest(models.Query{LocationQuery: "집 근처", Radius: 5},
			models.UserContext{Lat: 37.5, Lng: 127.0}, "집 근처 카페")
		assert.Equal(t, 5.0, near.Radius)
		require.NotNil(t, near.UserLocation)
		assert.Equal(t, 37.5, near.UserLocation.Latitude)

		far := b.BuildSearchRequest(models.Query{LocationQuery: "강남역", Radius: 5},
			models.UserContext{}, "강남역 카페")
		assert.Zero(t, far.Radius)
		assert.Nil(t, far.UserLocation)
	})

	t.Run("near-me default radius", func(t *testing.T) {
		req := b.BuildSearchRequest(models.Query{}, models.UserContext{}, "내 근처 모임")
		assert.Equal(t, 10.0, req.Radius)
	})
}

func TestIsNearMePhrase(t *testing.T) {
	assert.True(t, IsNearMePhrase("집 근처"))
	assert.True(t, IsNearMePhrase("주변"))
	assert.False(t, IsNearMePhrase("강남역"))
	assert.False(t, IsNearMePhrase(""))
}
