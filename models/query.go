// models/query.go
package models

// SearchModeVibeOnly marks a query searched across every category and
// filtered by vibe instead of a single-category search.
const SearchModeVibeOnly = "vibe_only"

// Query is the structured interpretation of a free-text search prompt.
// Fields are optional; empty string / nil means "not requested".
type Query struct {
	Category      string   `json:"category,omitempty"`
	Subcategory   string   `json:"subcategory,omitempty"`
	Vibe          string   `json:"vibe,omitempty"`
	TimeSlot      string   `json:"time_slot,omitempty"`
	LocationType  string   `json:"location_type,omitempty"`
	LocationQuery string   `json:"location_query,omitempty"`
	Keywords      []string `json:"keywords,omitempty"`
	MaxCost       int      `json:"max_cost,omitempty"`
	Radius        float64  `json:"radius,omitempty"`

	// Confidence is how much the parser trusts its own interpretation, in [0,1].
	Confidence float64 `json:"confidence"`

	// EmotionOnly marks a prompt that carried emotion words but no concrete
	// activity; category search is then replaced by a vibe-wide search.
	EmotionOnly bool `json:"emotion_only_search,omitempty"`

	// VibeLocked is set when an emotion rule wrote the vibe; later rules may
	// not overwrite it.
	VibeLocked bool `json:"-"`

	// SearchMode is "vibe_only" when the query has a vibe but no category.
	SearchMode string `json:"search_mode,omitempty"`
}

// Clone returns a copy with its own keyword slice.
func (q Query) Clone() Query {
	out := q
	if q.Keywords != nil {
		out.Keywords = append([]string(nil), q.Keywords...)
	}
	return out
}

// SearchRequest is the payload sent to the meeting backend's search endpoint.
type SearchRequest struct {
	Category      string        `json:"category,omitempty"`
	Subcategory   string        `json:"subcategory,omitempty"`
	TimeSlot      string        `json:"timeSlot,omitempty"`
	LocationType  string        `json:"locationType,omitempty"`
	Vibe          string        `json:"vibe,omitempty"`
	Keywords      []string      `json:"keywords,omitempty"`
	UserLocation  *GeoPoint     `json:"userLocation,omitempty"`
	LocationQuery string        `json:"locationQuery,omitempty"`
	MaxCost       int           `json:"maxCost,omitempty"`
	Radius        float64       `json:"radius,omitempty"`
	Limit         int           `json:"limit,omitempty"`
}

// GeoPoint is a latitude/longitude pair.
type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}
