// models/recommendation.go
package models

// RecommendRequest is the body of POST /api/ai/recommendations/search.
type RecommendRequest struct {
	UserID     int64  `json:"user_id" binding:"required"`
	UserPrompt string `json:"user_prompt" binding:"required"`
	TopN       int    `json:"top_n"`
}

// RecommendResponse is the ranked recommendation list plus diagnostics.
type RecommendResponse struct {
	RequestID       string           `json:"request_id"`
	UserPrompt      string           `json:"user_prompt"`
	ParsedQuery     Query            `json:"parsed_query"`
	Intent          string           `json:"intent"`
	TotalCandidates int              `json:"total_candidates"`
	Recommendations []ScoredMeeting  `json:"recommendations"`
	Trace           []RelaxationStep `json:"trace,omitempty"`
	Fallback        bool             `json:"fallback,omitempty"`
}

// FallbackRecommendation is one collaborative-filtering result.
type FallbackRecommendation struct {
	MeetingID       int64   `json:"meeting_id"`
	PredictedRating float64 `json:"predicted_rating"`
	Rank            int     `json:"rank"`
}

// FallbackRequest is the body of POST /api/ai/recommendations/fallback.
type FallbackRequest struct {
	UserID int64 `json:"user_id" binding:"required"`
	TopN   int   `json:"top_n"`
}

// FallbackResponse carries collaborative-filtering recommendations.
type FallbackResponse struct {
	UserID          int64                    `json:"user_id"`
	Recommendations []FallbackRecommendation `json:"recommended_meetings"`
	TotalCount      int                      `json:"total_count"`
}

// SatisfactionRequest asks for a predicted rating of one user/meeting pair.
// The meeting backend sends both profiles inline.
type SatisfactionRequest struct {
	UserID                  int64   `json:"user_id" binding:"required"`
	MeetingID               int64   `json:"meeting_id" binding:"required"`
	UserLat                 float64 `json:"user_lat"`
	UserLng                 float64 `json:"user_lng"`
	UserInterests           string  `json:"user_interests"`
	UserTimePreference      string  `json:"user_time_preference"`
	UserLocationPref        string  `json:"user_location_pref"`
	UserBudgetType          string  `json:"user_budget_type"`
	UserAvgRating           float64 `json:"user_avg_rating"`
	UserMeetingCount        int     `json:"user_meeting_count"`
	UserRatingStd           float64 `json:"user_rating_std"`
	MeetingLat              float64 `json:"meeting_lat"`
	MeetingLng              float64 `json:"meeting_lng"`
	MeetingCategory         string  `json:"meeting_category"`
	MeetingSubcategory      string  `json:"meeting_subcategory"`
	MeetingTimeSlot         string  `json:"meeting_time_slot"`
	MeetingLocationType     string  `json:"meeting_location_type"`
	MeetingVibe             string  `json:"meeting_vibe"`
	MeetingMaxParticipants  int     `json:"meeting_max_participants"`
	MeetingExpectedCost     int     `json:"meeting_expected_cost"`
	MeetingAvgRating        float64 `json:"meeting_avg_rating"`
	MeetingRatingCount      int     `json:"meeting_rating_count"`
	MeetingParticipantCount int     `json:"meeting_participant_count"`
}

// SatisfactionReason is one human-readable prediction reason.
type SatisfactionReason struct {
	Icon string `json:"icon"`
	Text string `json:"text"`
}

// SatisfactionResponse is the predicted rating plus presentation fields.
type SatisfactionResponse struct {
	UserID            int64                `json:"user_id"`
	MeetingID         int64                `json:"meeting_id"`
	PredictedRating   float64              `json:"predicted_rating"`
	RatingStars       string               `json:"rating_stars"`
	SatisfactionLevel string               `json:"satisfaction_level"`
	Recommended       bool                 `json:"recommended"`
	Reasons           []SatisfactionReason `json:"reasons"`
}
