// models/meeting.go
package models

// Meeting is a candidate meeting in canonical shape. The meeting backend
// returns both snake_case and camelCase variants; RawMeeting captures the
// wire form and Normalize unifies it.
type Meeting struct {
	MeetingID           int64   `json:"meeting_id"`
	Lat                 float64 `json:"lat"`
	Lng                 float64 `json:"lng"`
	Category            string  `json:"category"`
	Subcategory         string  `json:"subcategory"`
	TimeSlot            string  `json:"time_slot"`
	LocationType        string  `json:"location_type"`
	Vibe                string  `json:"vibe"`
	Title               string  `json:"title"`
	LocationName        string  `json:"location_name"`
	LocationAddress     string  `json:"location_address"`
	MeetingTime         string  `json:"meeting_time"`
	ImageURL            string  `json:"image_url,omitempty"`
	ExpectedCost        int     `json:"expected_cost"`
	MaxParticipants     int     `json:"max_participants"`
	CurrentParticipants int     `json:"current_participants"`
	AvgRating           float64 `json:"avg_rating"`
	RatingCount         int     `json:"rating_count"`
	DistanceKm          float64 `json:"distance_km,omitempty"`
}

// RawMeeting mirrors the backend search DTO before normalization.
type RawMeeting struct {
	MeetingID           int64   `json:"meeting_id"`
	MeetingIDCamel      int64   `json:"meetingId"`
	Latitude            float64 `json:"latitude"`
	Lat                 float64 `json:"lat"`
	Longitude           float64 `json:"longitude"`
	Lng                 float64 `json:"lng"`
	Category            string  `json:"category"`
	Subcategory         string  `json:"subcategory"`
	TimeSlot            string  `json:"time_slot"`
	TimeSlotCamel       string  `json:"timeSlot"`
	LocationType        string  `json:"location_type"`
	LocationTypeCamel   string  `json:"locationType"`
	Vibe                string  `json:"vibe"`
	Title               string  `json:"title"`
	LocationName        string  `json:"location_name"`
	LocationNameCamel   string  `json:"locationName"`
	LocationAddress     string  `json:"location_address"`
	LocationAddrCamel   string  `json:"locationAddress"`
	MeetingTime         string  `json:"meeting_time"`
	MeetingTimeCamel    string  `json:"meetingTime"`
	ImageURL            string  `json:"image_url"`
	ImageURLCamel       string  `json:"imageUrl"`
	ExpectedCost        int     `json:"expected_cost"`
	ExpectedCostCamel   int     `json:"expectedCost"`
	MaxParticipants     int     `json:"max_participants"`
	MaxPartCamel        int     `json:"maxParticipants"`
	CurrentParticipants int     `json:"current_participants"`
	CurrentPartCamel    int     `json:"currentParticipants"`
	AvgRating           float64 `json:"avg_rating"`
	AvgRatingCamel      float64 `json:"avgRating"`
	RatingCount         int     `json:"rating_count"`
	RatingCountCamel    int     `json:"ratingCount"`
	DistanceKm          float64 `json:"distance_km"`
	DistanceKmCamel     float64 `json:"distanceKm"`
}

// Canonical collapses the dual-cased wire fields into a Meeting, preferring
// the snake_case variant when both are set.
func (r RawMeeting) Canonical() Meeting {
	pickS := func(a, b string) string {
		if a != "" {
			return a
		}
		return b
	}
	pickI := func(a, b int) int {
		if a != 0 {
			return a
		}
		return b
	}
	pickF := func(a, b float64) float64 {
		if a != 0 {
			return a
		}
		return b
	}
	id := r.MeetingID
	if id == 0 {
		id = r.MeetingIDCamel
	}
	return Meeting{
		MeetingID:           id,
		Lat:                 pickF(r.Lat, r.Latitude),
		Lng:                 pickF(r.Lng, r.Longitude),
		Category:            r.Category,
		Subcategory:         r.Subcategory,
		TimeSlot:            pickS(r.TimeSlot, r.TimeSlotCamel),
		LocationType:        pickS(r.LocationType, r.LocationTypeCamel),
		Vibe:                r.Vibe,
		Title:               r.Title,
		LocationName:        pickS(r.LocationName, r.LocationNameCamel),
		LocationAddress:     pickS(r.LocationAddress, r.LocationAddrCamel),
		MeetingTime:         pickS(r.MeetingTime, r.MeetingTimeCamel),
		ImageURL:            pickS(r.ImageURL, r.ImageURLCamel),
		ExpectedCost:        pickI(r.ExpectedCost, r.ExpectedCostCamel),
		MaxParticipants:     pickI(r.MaxParticipants, r.MaxPartCamel),
		CurrentParticipants: pickI(r.CurrentParticipants, r.CurrentPartCamel),
		AvgRating:           pickF(r.AvgRating, r.AvgRatingCamel),
		RatingCount:         pickI(r.RatingCount, r.RatingCountCamel),
		DistanceKm:          pickF(r.DistanceKm, r.DistanceKmCamel),
	}
}

// MatchLevel buckets a match score for display.
type MatchLevel string

const (
	MatchLevelVeryHigh MatchLevel = "VERY_HIGH"
	MatchLevelHigh     MatchLevel = "HIGH"
	MatchLevelMedium   MatchLevel = "MEDIUM"
	MatchLevelLow      MatchLevel = "LOW"
)

// MatchLevelFor maps a final score to its display level.
func MatchLevelFor(score int) MatchLevel {
	switch {
	case score >= 85:
		return MatchLevelVeryHigh
	case score >= 78:
		return MatchLevelHigh
	case score >= 65:
		return MatchLevelMedium
	default:
		return MatchLevelLow
	}
}

// ScoreMeta records how a score was produced, for diagnostics.
type ScoreMeta struct {
	NCandidates     int     `json:"n_candidates"`
	Confidence      float64 `json:"confidence"`
	Ceil            int     `json:"ceil"`
	IsEmotionSearch bool    `json:"is_emotion_search"`
}

// ScoredMeeting is a meeting with its calibrated match score attached.
type ScoredMeeting struct {
	Meeting
	RankRaw         float64    `json:"rank_raw"`
	MatchScore      int        `json:"match_score"`
	MatchLevel      MatchLevel `json:"match_level"`
	KeyPoints       []string   `json:"key_points"`
	PredictedRating float64    `json:"predicted_rating,omitempty"`
	ScoreMeta       ScoreMeta  `json:"score_meta"`
}
