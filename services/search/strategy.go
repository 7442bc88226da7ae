package search

import (
	"regexp"
	"strings"

	"github.com/ujblackjack-cmd/it-da/models"
	"github.com/ujblackjack-cmd/it-da/services/query"
	"github.com/ujblackjack-cmd/it-da/utils"

	"go.uber.org/zap"
)

// field names a relaxation step may drop from the query.
const (
	fieldVibe          = "vibe"
	fieldTimeSlot      = "time_slot"
	fieldSubcategory   = "subcategory"
	fieldKeywords      = "keywords"
	fieldLocationQuery = "location_query"
	fieldLocationType  = "location_type"
	fieldCategory      = "category"
)

// RelaxationStep names one constraint to drop.
type RelaxationStep struct {
	Label  string
	Fields []string
}

// Strategy decides the starting query and the ordered list of constraints to
// drop when a search comes back empty.
type Strategy struct{}

func NewStrategy() *Strategy {
	return &Strategy{}
}

// PreRelaxByConfidence trims the query before the first attempt. Emotion-only
// prompts switch to a vibe-wide search with no category. Low confidence sheds
// the subcategory, very low confidence sheds the category too.
func (s *Strategy) PreRelaxByConfidence(q models.Query) models.Query {
	out := q.Clone()

	if q.EmotionOnly || (q.Category == "" && q.Vibe != "") {
		utils.GetLogger().Info("vibe-only search mode",
			zap.String("vibe", q.Vibe))
		out.Category = ""
		out.Subcategory = ""
		out.SearchMode = models.SearchModeVibeOnly
		return out
	}

	if q.Confidence < 0.6 {
		out.Subcategory = ""
		if q.Confidence < 0.5 {
			out.Category = ""
		}
		utils.GetLogger().Info("low-confidence pre-relax",
			zap.Float64("confidence", q.Confidence))
	}
	return out
}

// RelaxationPlan builds the ordered drop plan for the query's confidence
// tier. A prompt naming a concrete place keeps its location text longer;
// generic "near me" phrasing sheds it first.
func (s *Strategy) RelaxationPlan(q models.Query, prompt string) []RelaxationStep {
	explicitLoc := s.HasExplicitLocation(prompt, q)

	utils.GetLogger().Info("relaxation plan",
		zap.Float64("confidence", q.Confidence),
		zap.Bool("explicit_location", explicitLoc))

	switch {
	case q.Confidence >= 0.90:
		if explicitLoc {
			return []RelaxationStep{
				{"L1 drop vibe", []string{fieldVibe}},
				{"L2 drop timeSlot", []string{fieldTimeSlot}},
				{"L3 drop subcategory", []string{fieldSubcategory}},
				{"L4 drop keywords", []string{fieldKeywords}},
				{"L5 drop locationQuery", []string{fieldLocationQuery}},
				{"L6 drop category", []string{fieldCategory}},
			}
		}
		return []RelaxationStep{
			{"L1 drop locationQuery", []string{fieldLocationQuery}},
			{"L2 drop vibe", []string{fieldVibe}},
			{"L3 drop timeSlot", []string{fieldTimeSlot}},
			{"L4 drop subcategory", []string{fieldSubcategory}},
			{"L5 drop keywords", []string{fieldKeywords}},
			{"L6 drop category", []string{fieldCategory}},
		}

	case q.Confidence >= 0.75:
		if explicitLoc {
			return []RelaxationStep{
				{"L1 drop subcategory", []string{fieldSubcategory}},
				{"L2 drop keywords", []string{fieldKeywords}},
				{"L3 drop locationQuery", []string{fieldLocationQuery}},
				{"L4 drop category", []string{fieldCategory}},
			}
		}
		return []RelaxationStep{
			{"L1 drop locationQuery", []string{fieldLocationQuery}},
			{"L2 drop subcategory", []string{fieldSubcategory}},
			{"L3 drop keywords", []string{fieldKeywords}},
			{"L4 drop category", []string{fieldCategory}},
		}

	default:
		if explicitLoc {
			return []RelaxationStep{
				{"L1 drop keywords", []string{fieldKeywords}},
				{"L2 drop subcategory", []string{fieldSubcategory}},
				{"L3 drop locationQuery", []string{fieldLocationQuery}},
				{"L4 drop category", []string{fieldCategory}},
			}
		}
		return []RelaxationStep{
			{"L1 drop locationQuery", []string{fieldLocationQuery}},
			{"L2 drop keywords", []string{fieldKeywords}},
			{"L3 drop subcategory", []string{fieldSubcategory}},
			{"L4 drop category", []string{fieldCategory}},
		}
	}
}

var placeNamePatterns = []*regexp.Regexp{
	regexp.MustCompile(`[가-힣]{1,10}역`),
	regexp.MustCompile(`[가-힣]{1,10}동`),
	regexp.MustCompile(`[가-힣]{1,10}구`),
	regexp.MustCompile(`[가-힣]{1,10}(로|길)`),
}

// HasExplicitLocation reports whether the prompt names a concrete place.
// "Near me" phrasing does not count even when a location query was extracted.
func (s *Strategy) HasExplicitLocation(prompt string, q models.Query) bool {
	text := strings.TrimSpace(prompt)
	if text == "" {
		return false
	}
	if query.IsNearMePhrase(text) {
		return false
	}
	if q.LocationQuery != "" && !query.IsNearMePhrase(q.LocationQuery) {
		return true
	}
	for _, p := range placeNamePatterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}

// dropFields clears the named fields on a copy of the query.
func dropFields(q models.Query, fields ...string) models.Query {
	out := q.Clone()
	for _, f := range fields {
		switch f {
		case fieldVibe:
			out.Vibe = ""
		case fieldTimeSlot:
			out.TimeSlot = ""
		case fieldSubcategory:
			out.Subcategory = ""
		case fieldKeywords:
			out.Keywords = nil
		case fieldLocationQuery:
			out.LocationQuery = ""
		case fieldLocationType:
			out.LocationType = ""
		case fieldCategory:
			out.Category = ""
		}
	}
	return out
}
