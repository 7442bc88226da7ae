package query

import (
	"strings"

	"github.com/ujblackjack-cmd/it-da/models"
	"github.com/ujblackjack-cmd/it-da/utils"

	"go.uber.org/zap"
)

// Builder turns an enriched query plus user context into the meeting
// backend's search payload.
type Builder struct {
	normalizer *Normalizer
}

func NewBuilder(n *Normalizer) *Builder {
	return &Builder{normalizer: n}
}

// BuildSearchRequest assembles the search payload. User time preferences are
// deliberately not mixed in: the time slot is only sent when the parser was
// confident or the prompt named a time explicitly.
func (b *Builder) BuildSearchRequest(q models.Query, user models.UserContext, prompt string) models.SearchRequest {
	keywords := CleanKeywords(q.Keywords)

	// Drop keywords that merely repeat the category.
	if q.Category != "" {
		cat := strings.ToLower(strings.TrimSpace(q.Category))
		filtered := keywords[:0]
		for _, k := range keywords {
			if k != cat {
				filtered = append(filtered, k)
			}
		}
		keywords = filtered
	}

	nearMe := IsNearMePhrase(q.LocationQuery) || IsNearMePhrase(prompt)

	timeSlot := ""
	if q.TimeSlot != "" && (q.Confidence >= 0.6 || hasExplicitTimeSlot(prompt)) {
		timeSlot = b.normalizer.NormalizeTimeSlot(q.TimeSlot)
	}

	req := models.SearchRequest{
		Category:      q.Category,
		Subcategory:   q.Subcategory,
		TimeSlot:      timeSlot,
		LocationType:  b.normalizer.NormalizeLocationType(q.LocationType),
		Vibe:          b.normalizer.NormalizeVibe(q.Vibe),
		Keywords:      keywords,
		LocationQuery: q.LocationQuery,
		MaxCost:       q.MaxCost,
	}
	if user.Lat != 0 || user.Lng != 0 {
		req.UserLocation = &models.GeoPoint{Latitude: user.Lat, Longitude: user.Lng}
	}

	// A search radius only makes sense for near-me intent.
	if nearMe {
		req.Radius = q.Radius
		if req.Radius == 0 {
			req.Radius = 10.0
		}
	}

	utils.GetLogger().Debug("search payload built",
		zap.String("category", req.Category),
		zap.String("subcategory", req.Subcategory),
		zap.String("vibe", req.Vibe),
		zap.Bool("near_me", nearMe),
		zap.String("time_slot", req.TimeSlot))

	return req
}

// IsNearMePhrase reports whether the text expresses "near me/home" intent
// rather than a concrete place name.
func IsNearMePhrase(s string) bool {
	t := strings.ToLower(strings.TrimSpace(s))
	if t == "" {
		return false
	}
	return strings.Contains(t, "근처") || strings.Contains(t, "주변") ||
		strings.Contains(t, "집") || strings.Contains(t, "내 근처")
}

func hasExplicitTimeSlot(text string) bool {
	t := strings.ToLower(text)
	return hasAny(t, []string{
		"아침", "오전", "점심", "오후", "저녁", "밤", "야간",
		"morning", "afternoon", "evening", "night",
	})
}
