package search

import (
	"context"
	"fmt"
	"testing"

	"github.com/ujblackjack-cmd/it-da/models"
	"github.com/ujblackjack-cmd/it-da/services/query"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClient replays canned responses per call and records every request.
type fakeClient struct {
	responses [][]models.Meeting
	calls     []models.SearchRequest
}

func (f *fakeClient) Search(_ context.Context, req models.SearchRequest) ([]models.Meeting, error) {
	f.calls = append(f.calls, req)
	i := len(f.calls) - 1
	if i < len(f.responses) {
		return f.responses[i], nil
	}
	return nil, nil
}

func newTestService(c Client) Service {
	n := query.NewNormalizer()
	return NewService(c, NewStrategy(), query.NewBuilder(n), n)
}

func meetingsN(n int, category string) []models.Meeting {
	out := make([]models.Meeting, n)
	for i := range out {
		out[i] = models.Meeting{
			MeetingID: int64(i + 1),
			Category:  category,
			Title:     fmt.Sprintf("%s 모임 %d", category, i+1),
		}
	}
	return out
}

func TestSearchWithRelaxationFirstHit(t *testing.T) {
	c := &fakeClient{responses: [][]models.Meeting{meetingsN(8, "카페")}}
	s := newTestService(c)

	trace := &models.RelaxationTrace{}
	got := s.SearchWithRelaxation(context.Background(),
		models.Query{Category: "카페", Confidence: 0.9}, models.UserContext{}, "조용한 카페", trace)

	require.Len(t, got, 8)
	assert.Len(t, c.calls, 1)
	require.Len(t, trace.Steps, 1)
	assert.Equal(t, 0, trace.Steps[0].Level)
	assert.Equal(t, 8, trace.Steps[0].ResultCount)
}

func TestSearchWithRelaxationWalksPlan(t *testing.T) {
	// Empty at L0 and L1, results at L2.
	c := &fakeClient{responses: [][]models.Meeting{nil, nil, meetingsN(3, "스포츠")}}
	s := newTestService(c)

	trace := &models.RelaxationTrace{}
	got := s.SearchWithRelaxation(context.Background(),
		models.Query{Category: "스포츠", Subcategory: "러닝", Keywords: []string{"한강"}, Confidence: 0.8},
		models.UserContext{}, "한강에서 러닝", trace)

	require.Len(t, got, 3)
	assert.Len(t, trace.Steps, 3)
	assert.Equal(t, 2, trace.Steps[2].Level)

	// The relaxation is cumulative: the winning request lost the constraints
	// dropped by every earlier step too.
	last := c.calls[len(c.calls)-1]
	assert.Equal(t, "스포츠", last.Category)
	assert.Empty(t, last.Subcategory)
}

func TestSearchWithRelaxationExhausted(t *testing.T) {
	c := &fakeClient{}
	s := newTestService(c)

	trace := &models.RelaxationTrace{}
	got := s.SearchWithRelaxation(context.Background(),
		models.Query{Category: "스터디", Confidence: 0.8}, models.UserContext{}, "스터디", trace)

	assert.Nil(t, got)
	// L0 plus the four plan levels of the mid tier.
	assert.Len(t, trace.Steps, 5)
}

func TestSearchWithRelaxationSubcategoryPriority(t *testing.T) {
	mixed := []models.Meeting{
		{MeetingID: 1, Category: "스포츠", Subcategory: "축구"},
		{MeetingID: 2, Category: "스포츠", Subcategory: "러닝"},
		{MeetingID: 3, Category: "스포츠", Subcategory: "러닝"},
	}
	c := &fakeClient{responses: [][]models.Meeting{mixed}}
	s := newTestService(c)

	got := s.SearchWithRelaxation(context.Background(),
		models.Query{Category: "스포츠", Subcategory: "러닝", Confidence: 0.9},
		models.UserContext{}, "러닝 모임", &models.RelaxationTrace{})

	require.Len(t, got, 2)
	for _, m := range got {
		assert.Equal(t, "러닝", m.Subcategory)
	}
}

func TestGuardCategoryRetriesWithoutLocationQuery(t *testing.T) {
	// First search returns only off-category results; the retry without the
	// location text finds the requested category.
	c := &fakeClient{responses: [][]models.Meeting{
		meetingsN(4, "소셜"),
		meetingsN(6, "카페"),
	}}
	s := newTestService(c)

	got := s.SearchWithRelaxation(context.Background(),
		models.Query{Category: "카페", LocationQuery: "망원동", Confidence: 0.92},
		models.UserContext{}, "망원동 카페", &models.RelaxationTrace{})

	require.Len(t, got, 6)
	assert.Equal(t, "카페", got[0].Category)
	require.Len(t, c.calls, 2)
	assert.Empty(t, c.calls[1].LocationQuery)
}

func TestVibeOnlySearchFansOutAllCategories(t *testing.T) {
	c := &fakeClient{responses: [][]models.Meeting{
		{{MeetingID: 1, Category: "스포츠", Vibe: "활기찬"}},
		{{MeetingID: 2, Category: "맛집", Vibe: "캐주얼"}},
		{{MeetingID: 3, Category: "카페", Vibe: "힐링"}},
	}}
	s := newTestService(c)

	got := s.SearchWithRelaxation(context.Background(),
		models.Query{Vibe: "힐링", EmotionOnly: true, Confidence: 0.5},
		models.UserContext{}, "힐링하고 싶다", &models.RelaxationTrace{})

	// One backend call per category in the taxonomy.
	assert.Len(t, c.calls, len(query.ValidCategories))
	require.NotEmpty(t, got)
	// Exact vibe match is ranked first.
	assert.Equal(t, int64(3), got[0].MeetingID)
}

func TestPrioritizeByVibe(t *testing.T) {
	meetings := []models.Meeting{
		{MeetingID: 1, Vibe: "캐주얼"},
		{MeetingID: 2, Vibe: "편안한"},
		{MeetingID: 3, Vibe: "힐링"},
	}
	got := prioritizeByVibe(meetings, "힐링")
	require.Len(t, got, 3)
	assert.Equal(t, int64(3), got[0].MeetingID) // exact
	assert.Equal(t, int64(2), got[1].MeetingID) // healing group
	assert.Equal(t, int64(1), got[2].MeetingID) // rest
}

func TestFilterByVibeSkippedWhenTooFew(t *testing.T) {
	n := query.NewNormalizer()
	svc := &defaultService{normalizer: n}

	// Only 2 of 10 match: below the keep floor of 5, so the filter is skipped.
	var meetings []models.Meeting
	for i := 0; i < 10; i++ {
		v := "캐주얼"
		if i < 2 {
			v = "힐링"
		}
		meetings = append(meetings, models.Meeting{MeetingID: int64(i + 1), Vibe: v})
	}
	got := svc.filterByVibe(meetings, "힐링")
	assert.Len(t, got, 10)
}

func TestFilterByVibeApplied(t *testing.T) {
	n := query.NewNormalizer()
	svc := &defaultService{normalizer: n}

	var meetings []models.Meeting
	for i := 0; i < 10; i++ {
		v := "캐주얼"
		if i < 6 {
			v = "힐링"
		}
		meetings = append(meetings, models.Meeting{MeetingID: int64(i + 1), Vibe: v})
	}
	got := svc.filterByVibe(meetings, "힐링")
	assert.Len(t, got, 6)
}

func TestFilterByLocationType(t *testing.T) {
	n := query.NewNormalizer()
	svc := &defaultService{normalizer: n}

	meetings := []models.Meeting{
		{MeetingID: 1, LocationType: "INDOOR"},
		{MeetingID: 2, LocationType: "실외"},
		{MeetingID: 3, LocationType: "indoor"},
	}
	got := svc.filterByLocationType(meetings, "실내", 0)
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].MeetingID)
	assert.Equal(t, int64(3), got[1].MeetingID)
}

func TestSameVibeGroup(t *testing.T) {
	assert.True(t, sameVibeGroup("힐링", "편안한"))
	assert.True(t, sameVibeGroup("즐거운", "신나는"))
	assert.False(t, sameVibeGroup("힐링", "신나는"))
	assert.False(t, sameVibeGroup("", ""))
	assert.True(t, sameVibeGroup("캐주얼", "캐주얼"))
}
