// models/user.go
package models

// UserContext is the profile snapshot fetched from the meeting backend for
// one recommendation request.
type UserContext struct {
	UserID           int64    `json:"user_id"`
	Lat              float64  `json:"lat"`
	Lng              float64  `json:"lng"`
	Interests        []string `json:"interests"`
	TimePreference   string   `json:"time_preference"`
	LocationPref     string   `json:"user_location_pref"`
	BudgetType       string   `json:"budget_type"`
	Gender           string   `json:"gender"`
	MBTI             string   `json:"mbti"`
	UserAvgRating    float64  `json:"user_avg_rating"`
	UserMeetingCount int      `json:"user_meeting_count"`
	UserRatingStd    float64  `json:"user_rating_std"`
}

// UserProfile is the view of the user the feature encoder consumes. Interests
// are blanked for emotion-only searches so the requested vibe dominates.
type UserProfile struct {
	Lat              float64
	Lng              float64
	Interests        []string
	TimePreference   string
	LocationPref     string
	BudgetType       string
	Gender           string
	MBTI             string
	UserAvgRating    float64
	UserMeetingCount int
	UserRatingStd    float64
	RequestedVibe    string
}
