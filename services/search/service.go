package search

import (
	"context"
	"strings"

	"github.com/ujblackjack-cmd/it-da/models"
	"github.com/ujblackjack-cmd/it-da/services/query"
	"github.com/ujblackjack-cmd/it-da/utils"

	"go.uber.org/zap"
)

// Service finds candidate meetings for a query, progressively loosening
// constraints until something comes back.
type Service interface {
	// SearchWithRelaxation returns the first non-empty candidate set found
	// while walking the relaxation plan, or nil when every level is empty.
	// Every attempt is appended to the trace.
	SearchWithRelaxation(ctx context.Context, baseQuery models.Query, user models.UserContext, prompt string, trace *models.RelaxationTrace) []models.Meeting

	// SearchOnce runs a single search with no relaxation, used by the
	// diversity supplement pass.
	SearchOnce(ctx context.Context, q models.Query, user models.UserContext, prompt string) []models.Meeting
}

type defaultService struct {
	client     Client
	strategy   *Strategy
	builder    *query.Builder
	normalizer *query.Normalizer
}

// NewService wires the relaxation search over a backend client.
func NewService(client Client, strategy *Strategy, builder *query.Builder, normalizer *query.Normalizer) Service {
	return &defaultService{
		client:     client,
		strategy:   strategy,
		builder:    builder,
		normalizer: normalizer,
	}
}

var healingVibes = map[string]struct{}{
	"힐링": {}, "여유로운": {}, "차분한": {}, "조용한": {}, "편안한": {}, "잔잔한": {},
}

var funVibes = map[string]struct{}{
	"즐거운": {}, "신나는": {}, "재밌는": {}, "활기찬": {}, "흥미로운": {}, "재미있는": {},
}

func sameVibeGroup(a, b string) bool {
	if a == b {
		return a != ""
	}
	if _, ok := healingVibes[a]; ok {
		_, ok2 := healingVibes[b]
		return ok2
	}
	if _, ok := funVibes[a]; ok {
		_, ok2 := funVibes[b]
		return ok2
	}
	return false
}

func (s *defaultService) SearchWithRelaxation(
	ctx context.Context,
	baseQuery models.Query,
	user models.UserContext,
	prompt string,
	trace *models.RelaxationTrace,
) []models.Meeting {
	log := utils.GetLogger()

	baseCat := strings.TrimSpace(baseQuery.Category)
	if baseQuery.Vibe != "" {
		baseQuery.Vibe = s.normalizer.NormalizeVibe(baseQuery.Vibe)
	}

	q0 := s.strategy.PreRelaxByConfidence(baseQuery)

	cands := s.trySearch(ctx, "L0(confidence)", q0, 0, user, prompt, trace)
	if len(cands) > 0 {
		// Subcategory-exact priority: when the user asked for a specific
		// subcategory, prefer the matching subset if any survives.
		if sub := strings.TrimSpace(baseQuery.Subcategory); sub != "" {
			var exact []models.Meeting
			for _, m := range cands {
				if strings.TrimSpace(m.Subcategory) == sub {
					exact = append(exact, m)
				}
			}
			if len(exact) > 0 {
				log.Info("subcategory priority filter",
					zap.String("subcategory", sub),
					zap.Int("before", len(cands)),
					zap.Int("after", len(exact)))
				return exact
			}
		}

		if guarded, ok := s.guardCategory(ctx, baseCat, q0, cands, "L0-guard", 1, user, prompt, trace, true); ok {
			return guarded
		}
		return cands
	}

	plan := s.strategy.RelaxationPlan(baseQuery, prompt)

	current := q0
	level := 1
	for _, step := range plan {
		qn := dropFields(current, step.Fields...)
		cands = s.trySearch(ctx, step.Label, qn, level, user, prompt, trace)
		if len(cands) > 0 {
			if guarded, ok := s.guardCategory(ctx, baseCat, qn, cands, step.Label+"-guard", level+1, user, prompt, trace, false); ok {
				return guarded
			}
			return cands
		}
		current = qn
		level++
	}

	log.Warn("relaxation exhausted with no candidates")
	return nil
}

// guardCategory re-checks that a requested category survived the search. When
// every candidate lost it, the location text filter is dropped and the search
// retried; at level 0 the location type is additionally dropped on a second
// retry. Returns (results, true) only when a retry should replace the
// original set.
func (s *defaultService) guardCategory(
	ctx context.Context,
	baseCat string,
	q models.Query,
	cands []models.Meeting,
	label string,
	level int,
	user models.UserContext,
	prompt string,
	trace *models.RelaxationTrace,
	deepRetry bool,
) ([]models.Meeting, bool) {
	if baseCat == "" {
		return nil, false
	}
	for _, m := range cands {
		if strings.TrimSpace(m.Category) == baseCat {
			return nil, false
		}
	}

	qFix := dropFields(q, fieldLocationQuery)
	c2 := s.trySearch(ctx, label+"(drop locationQuery)", qFix, level, user, prompt, trace)
	if len(c2) > 0 {
		if !deepRetry {
			return c2, true
		}
		for _, m := range c2 {
			if strings.TrimSpace(m.Category) == baseCat {
				return c2, true
			}
		}
	}

	if deepRetry {
		qFix2 := dropFields(q, fieldLocationQuery, fieldLocationType)
		c3 := s.trySearch(ctx, label+"(drop locationType)", qFix2, level+1, user, prompt, trace)
		if len(c3) > 0 {
			return c3, true
		}
	}
	return nil, false
}

func (s *defaultService) SearchOnce(ctx context.Context, q models.Query, user models.UserContext, prompt string) []models.Meeting {
	req := s.builder.BuildSearchRequest(q, user, prompt)
	meetings, err := s.client.Search(ctx, req)
	if err != nil {
		utils.GetLogger().Warn("supplement search failed", zap.Error(err))
		return nil
	}
	return meetings
}

// trySearch runs one attempt: the backend call (fanned out across every
// category in vibe-only mode), the client-side vibe filter, and the
// location-type consistency filter. The attempt is always traced.
func (s *defaultService) trySearch(
	ctx context.Context,
	label string,
	q models.Query,
	level int,
	user models.UserContext,
	prompt string,
	trace *models.RelaxationTrace,
) []models.Meeting {
	log := utils.GetLogger()
	log.Info("relaxation attempt", zap.Int("level", level), zap.String("label", label))

	var meetings []models.Meeting
	if q.SearchMode == models.SearchModeVibeOnly || (q.Category == "" && q.Vibe != "") {
		meetings = s.searchAllCategories(ctx, q, user, prompt)
		meetings = prioritizeByVibe(meetings, q.Vibe)
	} else {
		req := s.builder.BuildSearchRequest(q, user, prompt)
		found, err := s.client.Search(ctx, req)
		if err != nil {
			log.Warn("meeting search failed", zap.String("label", label), zap.Error(err))
		}
		meetings = found
		meetings = s.filterByVibe(meetings, q.Vibe)
	}

	meetings = s.filterByLocationType(meetings, q.LocationType, level)

	log.Info("relaxation attempt done",
		zap.Int("level", level),
		zap.String("label", label),
		zap.Int("count", len(meetings)))

	trace.Append(level, label, q, meetings)
	return meetings
}

// searchAllCategories fans the query out across the whole taxonomy. A failed
// category search is skipped, not fatal.
func (s *defaultService) searchAllCategories(ctx context.Context, q models.Query, user models.UserContext, prompt string) []models.Meeting {
	var all []models.Meeting
	for _, cat := range query.ValidCategories {
		qc := q.Clone()
		qc.Category = cat
		req := s.builder.BuildSearchRequest(qc, user, prompt)
		found, err := s.client.Search(ctx, req)
		if err != nil {
			utils.GetLogger().Warn("category search failed",
				zap.String("category", cat), zap.Error(err))
			continue
		}
		all = append(all, found...)
	}
	utils.GetLogger().Info("vibe-only search merged",
		zap.String("vibe", q.Vibe), zap.Int("count", len(all)))
	return all
}

// prioritizeByVibe orders a merged vibe-only result set: exact vibe matches
// first, same-group matches next, then at most 20 of the rest, capped at 200.
func prioritizeByVibe(meetings []models.Meeting, requestedVibe string) []models.Meeting {
	if requestedVibe == "" || len(meetings) == 0 {
		return meetings
	}

	_, healing := healingVibes[requestedVibe]
	_, fun := funVibes[requestedVibe]
	if !healing && !fun {
		if len(meetings) > 100 {
			return meetings[:100]
		}
		return meetings
	}

	var exact, group, rest []models.Meeting
	for _, m := range meetings {
		mv := strings.TrimSpace(m.Vibe)
		switch {
		case mv == requestedVibe:
			exact = append(exact, m)
		case sameVibeGroup(requestedVibe, mv):
			group = append(group, m)
		default:
			rest = append(rest, m)
		}
	}
	if len(rest) > 20 {
		rest = rest[:20]
	}

	out := append(append(exact, group...), rest...)
	if len(out) > 200 {
		out = out[:200]
	}
	return out
}

// filterByVibe keeps candidates whose vibe matches the request exactly or by
// group. The filter is skipped when it would leave too few results.
func (s *defaultService) filterByVibe(meetings []models.Meeting, requestedVibe string) []models.Meeting {
	if requestedVibe == "" || len(meetings) == 0 {
		return meetings
	}
	req := s.normalizer.NormalizeVibe(requestedVibe)

	var filtered []models.Meeting
	for _, m := range meetings {
		mv := s.normalizer.NormalizeVibe(m.Vibe)
		if mv == req || sameVibeGroup(req, mv) {
			filtered = append(filtered, m)
		}
	}

	minKeep := min(30, int(float64(len(meetings))*0.4))
	if minKeep < 5 {
		minKeep = 5
	}
	if len(filtered) >= minKeep {
		utils.GetLogger().Info("vibe filter applied",
			zap.String("vibe", req),
			zap.Int("before", len(meetings)),
			zap.Int("after", len(filtered)))
		return filtered
	}
	utils.GetLogger().Warn("vibe filter skipped, too few matches",
		zap.String("vibe", req), zap.Int("matches", len(filtered)))
	return meetings
}

// filterByLocationType drops candidates whose raw location type disagrees
// with the requested one, independent of what the backend already filtered.
func (s *defaultService) filterByLocationType(meetings []models.Meeting, requestedType string, level int) []models.Meeting {
	if requestedType == "" || len(meetings) == 0 {
		return meetings
	}
	req := s.normalizer.NormalizeLocationType(requestedType)

	before := len(meetings)
	var kept []models.Meeting
	for _, m := range meetings {
		if s.normalizer.NormalizeLocationType(m.LocationType) == req {
			kept = append(kept, m)
		}
	}
	if len(kept) < before {
		utils.GetLogger().Info("locationType consistency filter",
			zap.Int("level", level),
			zap.String("location_type", req),
			zap.Int("before", before),
			zap.Int("after", len(kept)))
	}
	return kept
}
