package scoring

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ujblackjack-cmd/it-da/models"
	"github.com/ujblackjack-cmd/it-da/services/intent"
	"github.com/ujblackjack-cmd/it-da/services/ml"
	"github.com/ujblackjack-cmd/it-da/services/query"
	"github.com/ujblackjack-cmd/it-da/utils"

	"go.uber.org/zap"
)

// SupplementSearcher runs the single-category searches that backfill missing
// interest categories during emotion searches.
type SupplementSearcher interface {
	SearchOnce(ctx context.Context, q models.Query, user models.UserContext, prompt string) []models.Meeting
}

// Scorer converts raw ranker output into calibrated match scores.
type Scorer struct {
	models     *ml.ModelSet
	normalizer *query.Normalizer
	adjuster   *IntentAdjuster
	supplement SupplementSearcher
}

func NewScorer(modelSet *ml.ModelSet, normalizer *query.Normalizer, adjuster *IntentAdjuster, supplement SupplementSearcher) *Scorer {
	return &Scorer{
		models:     modelSet,
		normalizer: normalizer,
		adjuster:   adjuster,
		supplement: supplement,
	}
}

// IsEmotionSearch reports whether the query should be scored in emotion mode:
// vibe evidence dominates and interests are broadened instead of filtered.
func IsEmotionSearch(q models.Query) bool {
	if q.EmotionOnly {
		return true
	}
	if q.Category == "" && q.Vibe != "" && q.Confidence <= 0.6 {
		return true
	}
	return q.Category != "" && q.Vibe != "" && q.Confidence <= 0.85
}

// ScoreMeetings ranks the candidate set for one request. Candidates that
// fail feature construction are dropped, not fatal. Returns at most topN
// results, diversity-enforced and sorted by match score.
func (s *Scorer) ScoreMeetings(
	ctx context.Context,
	user models.UserContext,
	candidates []models.Meeting,
	q models.Query,
	it intent.Intent,
	prompt string,
	queryTerms []string,
	topN int,
) ([]models.ScoredMeeting, error) {
	log := utils.GetLogger()

	ranker := s.models.Ranker()
	if !ranker.Loaded() {
		return nil, fmt.Errorf("scoring candidates: %w", ml.ErrModelUnavailable)
	}

	emotionSearch := IsEmotionSearch(q)
	if emotionSearch {
		log.Info("emotion search mode",
			zap.Float64("confidence", q.Confidence), zap.String("vibe", q.Vibe))
		if len(user.Interests) > 0 {
			candidates = s.supplementMissingCategories(ctx, candidates, user, q, prompt)
		}
	}

	profile := s.buildProfile(user, q)
	stats := s.models.StatsTable()

	var (
		valid   []models.Meeting
		feats   []ml.Features
		vectors [][]float64
	)
	for _, raw := range candidates {
		m := s.normalizeMeeting(raw)
		f, vec, err := s.models.Encoder.Encode(profile, m, stats[m.MeetingID])
		if err != nil {
			log.Warn("feature build failed",
				zap.Int64("meeting_id", raw.MeetingID), zap.Error(err))
			continue
		}
		valid = append(valid, m)
		feats = append(feats, f)
		vectors = append(vectors, vec)
	}
	if len(valid) == 0 {
		return nil, nil
	}

	rawScores, err := ranker.Predict(vectors)
	if err != nil {
		return nil, fmt.Errorf("ranking candidates: %w", err)
	}
	n := len(rawScores)

	ceil := dynamicCeil(n)
	log.Info("scoring", zap.Int("n", n),
		zap.Float64("confidence", q.Confidence), zap.Int("ceil", ceil))

	var ratings []float64
	if regressor := s.models.Regressor(); regressor.Loaded() {
		if preds, err := regressor.Predict(vectors); err != nil {
			log.Warn("rating prediction failed", zap.Error(err))
		} else {
			ratings = preds
		}
	}

	matchScores := computeMatchScores(rawScores, q.Confidence, ceil, valid)

	results := make([]models.ScoredMeeting, 0, n)
	for i, m := range valid {
		ms := float64(matchScores[i])

		ms = s.adjustTimeSlot(ms, m, q)
		ms = s.adjustLocationQuery(ms, m, q)
		ms = adjustSubcategory(ms, m, q)
		ms += queryTermBonus(m, queryTerms)
		ms = adjustKeywords(ms, m, q)

		if emotionSearch {
			ms = s.emotionSearchBoost(ms, m, q)

			// Active vibes and food venues do not mix; drop rather than rank
			// them low.
			if isActiveVibe(q.Vibe) && (m.Category == "맛집" || m.Category == "카페") {
				log.Info("active filter dropped candidate",
					zap.Int64("meeting_id", m.MeetingID),
					zap.String("category", m.Category))
				continue
			}
		}

		ms += s.adjuster.Adjust(it, m, q)
		ms += tieBreak(m.MeetingID)

		ms = math.Min(ms, float64(ceil))
		ms = math.Max(0, math.Min(100, ms))
		final := int(math.Round(ms))

		scored := models.ScoredMeeting{
			Meeting:    m,
			RankRaw:    round4(rawScores[i]),
			MatchScore: final,
			MatchLevel: models.MatchLevelFor(final),
			KeyPoints:  buildKeyPoints(feats[i]),
			ScoreMeta: models.ScoreMeta{
				NCandidates:     n,
				Confidence:      round3(q.Confidence),
				Ceil:            ceil,
				IsEmotionSearch: emotionSearch,
			},
		}
		if ratings != nil {
			scored.PredictedRating = round3(ratings[i])
		}
		results = append(results, scored)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].MatchScore > results[j].MatchScore
	})

	if emotionSearch && len(user.Interests) > 0 {
		return EnsureCategoryDiversity(results, user.Interests, topN), nil
	}
	return ApplyDiversityBoost(results, topN), nil
}

// supplementMissingCategories backfills the candidate set with meetings from
// interest categories the relaxation search returned nothing for, so the
// diversity pass has something to pick from.
func (s *Scorer) supplementMissingCategories(
	ctx context.Context,
	candidates []models.Meeting,
	user models.UserContext,
	q models.Query,
	prompt string,
) []models.Meeting {
	present := make(map[string]struct{})
	for _, m := range candidates {
		if m.Category != "" {
			present[m.Category] = struct{}{}
		}
	}

	out := candidates
	for _, interest := range user.Interests {
		if _, ok := present[interest]; ok {
			continue
		}
		// Category-only fetch: no vibe or location constraints, since the
		// point is having at least one representative.
		found := s.supplement.SearchOnce(ctx, models.Query{Category: interest}, user, prompt)
		if len(found) == 0 {
			utils.GetLogger().Warn("supplement search empty",
				zap.String("category", interest))
			continue
		}
		if len(found) > 10 {
			found = found[:10]
		}
		utils.GetLogger().Info("supplemented missing category",
			zap.String("category", interest), zap.Int("added", len(found)))
		out = append(out, found...)
	}
	return out
}

// buildProfile shapes the user context for the encoder. Emotion searches
// blank the interests so the requested vibe drives the features instead of
// the user's usual categories.
func (s *Scorer) buildProfile(user models.UserContext, q models.Query) models.UserProfile {
	interests := user.Interests
	if q.EmotionOnly || (q.Category == "" && q.Vibe != "" && q.Confidence <= 0.6) {
		interests = nil
	}
	return models.UserProfile{
		Lat:              user.Lat,
		Lng:              user.Lng,
		Interests:        interests,
		TimePreference:   s.normalizer.NormalizeTimeSlot(user.TimePreference),
		LocationPref:     user.LocationPref,
		BudgetType:       s.normalizer.NormalizeBudgetType(user.BudgetType),
		Gender:           user.Gender,
		MBTI:             user.MBTI,
		UserAvgRating:    user.UserAvgRating,
		UserMeetingCount: user.UserMeetingCount,
		UserRatingStd:    user.UserRatingStd,
		RequestedVibe:    q.Vibe,
	}
}

// normalizeMeeting canonicalizes a candidate before encoding. Sports
// meetings with a recognizable activity in the title get their subcategory
// corrected, since listing owners frequently leave it generic.
func (s *Scorer) normalizeMeeting(m models.Meeting) models.Meeting {
	out := m
	out.Category = strings.TrimSpace(m.Category)
	out.Subcategory = strings.TrimSpace(m.Subcategory)
	out.TimeSlot = s.normalizer.NormalizeTimeSlot(m.TimeSlot)
	out.LocationType = s.normalizer.NormalizeLocationType(m.LocationType)

	if out.Category == "스포츠" && m.Title != "" {
		t := strings.ToLower(m.Title)
		switch {
		case strings.Contains(t, "러닝") || strings.Contains(t, "달리기"):
			out.Subcategory = "러닝"
		case strings.Contains(t, "축구") || strings.Contains(t, "풋살"):
			out.Subcategory = "축구"
		case strings.Contains(t, "배드민턴"):
			out.Subcategory = "배드민턴"
		case strings.Contains(t, "클라이밍"):
			out.Subcategory = "클라이밍"
		}
	}
	if out.MaxParticipants == 0 {
		out.MaxParticipants = 10
	}
	return out
}

// computeMatchScores maps raw ranker output to base match scores. Three
// regimes by candidate count: logistic for a singleton, a rank table for
// small sets, percentile mapping for everything larger.
func computeMatchScores(raw []float64, conf float64, ceil int, candidates []models.Meeting) []int {
	n := len(raw)
	scores := make([]int, n)
	for i := range scores {
		scores[i] = 55
	}

	switch {
	case n == 1:
		base := 58 + sigmoid(raw[0]*0.25)*15
		ms := base + conf*3
		ms = math.Max(60, math.Min(73, ms))
		scores[0] = int(math.Round(ms))

	case n <= 10:
		base := []float64{78, 74, 70, 66, 63, 60, 57, 55, 53, 51}
		order := make([]int, n)
		for i := range order {
			order[i] = i
		}
		sort.SliceStable(order, func(a, b int) bool {
			return raw[order[a]] > raw[order[b]]
		})

		top, bottom := raw[order[0]], raw[order[n-1]]
		span := top - bottom
		if span == 0 {
			span = 1
		}

		for rank, i := range order {
			b := 52.0
			if rank < len(base) {
				b = base[rank]
			}
			t := (raw[i] - bottom) / span
			ms := b + (t-0.5)*6
			ms = math.Max(50, math.Min(82, ms))
			ms = math.Min(ms, float64(ceil))
			scores[i] = int(math.Round(ms))
		}

	default:
		percentiles := midRankPercentiles(raw)
		for i := range raw {
			p := clamp01(percentiles[i] + percentileJitter(candidates[i].MeetingID, i))
			p = stretchPercentile(p)
			ms := matchFromPercentile(p, percentileFloor, ceil, percentileGamma)
			scores[i] = int(math.Min(ms, float64(ceil)))
		}
	}
	return scores
}

var timeSlotAdjacency = map[string][]string{
	"MORNING":   {"AFTERNOON"},
	"AFTERNOON": {"MORNING", "EVENING"},
	"EVENING":   {"AFTERNOON", "NIGHT"},
	"NIGHT":     {"EVENING"},
}

func (s *Scorer) adjustTimeSlot(ms float64, m models.Meeting, q models.Query) float64 {
	if q.TimeSlot == "" || m.TimeSlot == "" {
		return ms
	}
	req := s.normalizer.NormalizeTimeSlot(q.TimeSlot)
	meet := s.normalizer.NormalizeTimeSlot(m.TimeSlot)

	switch {
	case req == meet:
		return ms + 10
	case isAdjacentTimeSlot(req, meet):
		return ms + 2
	default:
		return ms - 15
	}
}

func isAdjacentTimeSlot(a, b string) bool {
	for _, adj := range timeSlotAdjacency[a] {
		if adj == b {
			return true
		}
	}
	return false
}

func (s *Scorer) adjustLocationQuery(ms float64, m models.Meeting, q models.Query) float64 {
	if q.LocationQuery == "" {
		return ms
	}
	loc := strings.ToLower(m.LocationName)
	keyword := strings.ToLower(q.LocationQuery)
	for _, generic := range []string{"근처", "주변", "집"} {
		keyword = strings.ReplaceAll(keyword, generic, "")
	}
	keyword = strings.TrimSpace(keyword)

	if keyword != "" && strings.Contains(loc, keyword) {
		return ms + 20
	}
	for _, tok := range []string{"구", "역", "동"} {
		if strings.Contains(loc, tok) {
			return ms - 5
		}
	}
	return ms
}

func adjustSubcategory(ms float64, m models.Meeting, q models.Query) float64 {
	sub := strings.TrimSpace(q.Subcategory)
	if sub == "" || q.Confidence < 0.7 {
		return ms
	}
	if strings.TrimSpace(m.Subcategory) == sub {
		return ms + 18
	}
	return ms - 25
}

// queryTermBonus rewards free-text hits against the candidate's visible
// fields: two or more hits +30, one +22, none -12.
func queryTermBonus(m models.Meeting, terms []string) float64 {
	if len(terms) == 0 {
		return 0
	}
	hay := strings.ToLower(m.Title + " " + m.Subcategory + " " + m.Category + " " + m.LocationName)

	hits := 0
	for _, t := range terms {
		if t != "" && strings.Contains(hay, strings.ToLower(t)) {
			hits++
		}
	}
	switch {
	case hits >= 2:
		return 30
	case hits == 1:
		return 22
	default:
		return -12
	}
}

func adjustKeywords(ms float64, m models.Meeting, q models.Query) float64 {
	keywords := query.CleanKeywords(q.Keywords)
	if len(keywords) == 0 {
		return ms
	}
	text := strings.ToLower(strings.Join([]string{
		m.Title, m.LocationName, m.LocationAddress, m.Subcategory, m.Vibe,
	}, " "))

	hits := 0
	for _, k := range keywords {
		if strings.Contains(text, k) {
			hits++
		}
	}
	return ms + math.Min(float64(hits*2), 5)
}

var calmSubcategories = map[string]struct{}{
	"요가": {}, "필라테스": {}, "명상": {}, "스트레칭": {}, "플라워": {},
	"뜨개질": {}, "독서": {}, "브런치": {}, "카페투어": {},
}

var activeSubcategories = map[string]struct{}{
	"볼링": {}, "노래방": {}, "클럽": {}, "방탈출": {}, "러닝": {},
	"축구": {}, "배드민턴": {}, "댄스": {}, "케이팝": {}, "힙합": {},
}

func isActiveVibe(vibe string) bool {
	switch vibe {
	case "즐거운", "활기찬", "신나는", "격렬한":
		return true
	}
	return false
}

func isCalmVibe(vibe string) bool {
	switch vibe {
	case "힐링", "편안한", "여유로운", "차분한":
		return true
	}
	return false
}

// emotionSearchBoost is the amplified vibe term used in emotion mode, where
// vibe fit outweighs everything else the models saw.
func (s *Scorer) emotionSearchBoost(ms float64, m models.Meeting, q models.Query) float64 {
	requested := strings.TrimSpace(q.Vibe)
	category := strings.TrimSpace(m.Category)
	sub := strings.TrimSpace(m.Subcategory)

	if isActiveVibe(requested) && (category == "맛집" || category == "카페") {
		return ms - 100
	}
	if isCalmVibe(requested) && (category == "맛집" || category == "카페") {
		ms += 25
	}

	// The listed vibe is unreliable for some subcategories; reclassify from
	// the activity itself.
	effective := strings.TrimSpace(m.Vibe)
	if _, ok := calmSubcategories[sub]; ok {
		effective = "힐링"
	} else if _, ok := activeSubcategories[sub]; ok {
		effective = "즐거운"
	}
	if effective == "" {
		return ms - 25
	}

	if requested == effective {
		return ms + 60
	}

	reqGroup := emotionVibeGroup(requested)
	meetGroup := emotionVibeGroup(effective)

	if reqGroup != "" && reqGroup == meetGroup {
		return ms + 25
	}
	if isCalmGroup(reqGroup) && isCalmGroup(meetGroup) {
		return ms + 15
	}
	if (reqGroup == "active" && isCalmGroup(meetGroup)) ||
		(isCalmGroup(reqGroup) && meetGroup == "active") {
		return ms - 80
	}
	if (requested == "힐링" || requested == "편안한") && hasCalmSub(sub) {
		return ms + 20
	}
	return ms - 50
}

func emotionVibeGroup(vibe string) string {
	switch vibe {
	case "즐거운", "활기찬", "신나는", "격렬한", "에너지 넘치는":
		return "active"
	case "힐링", "편안한":
		return "calm_healing"
	case "여유로운", "차분한", "감성적인":
		return "calm_relaxed"
	}
	return ""
}

func isCalmGroup(g string) bool {
	return g == "calm_healing" || g == "calm_relaxed"
}

func hasCalmSub(sub string) bool {
	_, ok := calmSubcategories[sub]
	return ok
}

// buildKeyPoints picks up to three human-readable reasons why the candidate
// fits.
func buildKeyPoints(f ml.Features) []string {
	var points []string
	if f.DistanceKm <= 3 {
		points = append(points, fmt.Sprintf("가까운 거리(%.1fkm)", f.DistanceKm))
	}
	if f.TimeMatch == 1 {
		points = append(points, "선호 시간대 일치")
	}
	if f.LocationTypeMatch == 1 {
		points = append(points, "실내/야외 선호 일치")
	}
	if f.CostMatch >= 0.7 {
		points = append(points, "예산에 잘 맞음")
	}
	if f.InterestMatch >= 0.5 {
		points = append(points, "관심사 매칭")
	}
	if len(points) > 3 {
		points = points[:3]
	}
	return points
}

func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
func round4(v float64) float64 { return math.Round(v*10000) / 10000 }
