package scoring

import (
	"sort"

	"github.com/ujblackjack-cmd/it-da/models"
	"github.com/ujblackjack-cmd/it-da/utils"

	"go.uber.org/zap"
)

// EnsureCategoryDiversity guarantees at least one candidate per user
// interest category in the top-n, walking interests in order and taking the
// best-scoring candidate for each, then filling remaining slots by global
// score order. Input must already be sorted by score descending.
func EnsureCategoryDiversity(sorted []models.ScoredMeeting, interests []string, topN int) []models.ScoredMeeting {
	if len(interests) == 0 {
		if len(sorted) > topN {
			return sorted[:topN]
		}
		return sorted
	}

	var out []models.ScoredMeeting
	usedIDs := make(map[int64]struct{})
	usedCats := make(map[string]struct{})

	for _, interest := range interests {
		if _, done := usedCats[interest]; done {
			continue
		}
		for _, m := range sorted {
			if m.Category != interest {
				continue
			}
			if _, taken := usedIDs[m.MeetingID]; taken {
				continue
			}
			out = append(out, m)
			usedIDs[m.MeetingID] = struct{}{}
			usedCats[interest] = struct{}{}
			utils.GetLogger().Info("diversity slot reserved",
				zap.String("category", interest),
				zap.Int64("meeting_id", m.MeetingID),
				zap.Int("score", m.MatchScore))
			break
		}
	}

	for _, m := range sorted {
		if len(out) >= topN {
			break
		}
		if _, taken := usedIDs[m.MeetingID]; taken {
			continue
		}
		out = append(out, m)
		usedIDs[m.MeetingID] = struct{}{}
	}

	if len(out) > topN {
		out = out[:topN]
	}
	return out
}

// ApplyDiversityBoost is the lighter pass for non-emotion queries: each
// category present in the results contributes its best candidate first, then
// remaining slots fill by score.
func ApplyDiversityBoost(sorted []models.ScoredMeeting, topN int) []models.ScoredMeeting {
	seenCat := make(map[string]struct{})
	var representatives []models.ScoredMeeting
	for _, m := range sorted {
		if _, ok := seenCat[m.Category]; ok {
			continue
		}
		seenCat[m.Category] = struct{}{}
		representatives = append(representatives, m)
	}

	sort.SliceStable(representatives, func(i, j int) bool {
		return representatives[i].MatchScore > representatives[j].MatchScore
	})

	usedIDs := make(map[int64]struct{}, len(representatives))
	for _, m := range representatives {
		usedIDs[m.MeetingID] = struct{}{}
	}

	out := representatives
	for _, m := range sorted {
		if len(out) >= topN {
			break
		}
		if _, taken := usedIDs[m.MeetingID]; taken {
			continue
		}
		out = append(out, m)
		usedIDs[m.MeetingID] = struct{}{}
	}

	if len(out) > topN {
		out = out[:topN]
	}
	return out
}
