package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRawMeetingCanonical(t *testing.T) {
	t.Run("snake case wins when both are set", func(t *testing.T) {
		m := RawMeeting{
			MeetingID:      7,
			MeetingIDCamel: 8,
			TimeSlot:       "EVENING",
			TimeSlotCamel:  "MORNING",
		}.Canonical()
		assert.Equal(t, int64(7), m.MeetingID)
		assert.Equal(t, "EVENING", m.TimeSlot)
	})

	t.Run("camel case fills gaps", func(t *testing.T) {
		m := RawMeeting{
			MeetingIDCamel:    9,
			Latitude:          37.5,
			Longitude:         127.0,
			LocationTypeCamel: "INDOOR",
			MaxPartCamel:      12,
			AvgRatingCamel:    4.1,
		}.Canonical()
		assert.Equal(t, int64(9), m.MeetingID)
		assert.Equal(t, 37.5, m.Lat)
		assert.Equal(t, 127.0, m.Lng)
		assert.Equal(t, "INDOOR", m.LocationType)
		assert.Equal(t, 12, m.MaxParticipants)
		assert.Equal(t, 4.1, m.AvgRating)
	})
}

func TestMatchLevelFor(t *testing.T) {
	assert.Equal(t, MatchLevelVeryHigh, MatchLevelFor(85))
	assert.Equal(t, MatchLevelHigh, MatchLevelFor(78))
	assert.Equal(t, MatchLevelMedium, MatchLevelFor(65))
	assert.Equal(t, MatchLevelLow, MatchLevelFor(64))
}

func TestRelaxationTraceAppend(t *testing.T) {
	trace := &RelaxationTrace{}
	q := Query{Category: "카페", Keywords: []string{"브런치"}}
	trace.Append(0, "L0", q, []Meeting{
		{MeetingID: 1, Category: "카페", Subcategory: "브런치"},
		{MeetingID: 2, Category: "카페", Subcategory: "브런치"},
		{MeetingID: 3, Category: "카페", Subcategory: "디저트"},
	})

	assert.Len(t, trace.Steps, 1)
	step := trace.Steps[0]
	assert.Equal(t, 3, step.ResultCount)
	assert.Equal(t, 2, step.CategoryDist["카페/브런치"])

	// The recorded query is a snapshot; mutating the original must not
	// change it.
	q.Keywords[0] = "변경됨"
	assert.Equal(t, "브런치", step.Query.Keywords[0])
}
