package recommend

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/ujblackjack-cmd/it-da/config"
	"github.com/ujblackjack-cmd/it-da/models"
	"github.com/ujblackjack-cmd/it-da/services/cf"
	"github.com/ujblackjack-cmd/it-da/services/intent"
	"github.com/ujblackjack-cmd/it-da/services/ml"
	"github.com/ujblackjack-cmd/it-da/services/nlp"
	"github.com/ujblackjack-cmd/it-da/services/query"
	"github.com/ujblackjack-cmd/it-da/services/scoring"
	"github.com/ujblackjack-cmd/it-da/services/search"
	"github.com/ujblackjack-cmd/it-da/utils"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RecommendationService is the request-level API surface: prompt search,
// collaborative-filtering fallback, and satisfaction prediction.
type RecommendationService interface {
	Recommend(ctx context.Context, req models.RecommendRequest) (*models.RecommendResponse, error)
	Fallback(ctx context.Context, req models.FallbackRequest) (*models.FallbackResponse, error)
	PredictSatisfaction(ctx context.Context, req models.SatisfactionRequest) (*models.SatisfactionResponse, error)
}

type defaultService struct {
	parser        nlp.QueryParser
	normalizer    *query.Normalizer
	postProcessor *query.PostProcessor
	strategy      *search.Strategy
	searcher      search.Service
	detector      *intent.Detector
	scorer        *scoring.Scorer
	modelSet      *ml.ModelSet
	recommender   *cf.Recommender
	backend       BackendClient
	cache         *redis.Client
}

// NewService wires the pipeline.
func NewService(
	parser nlp.QueryParser,
	normalizer *query.Normalizer,
	postProcessor *query.PostProcessor,
	strategy *search.Strategy,
	searcher search.Service,
	detector *intent.Detector,
	scorer *scoring.Scorer,
	modelSet *ml.ModelSet,
	recommender *cf.Recommender,
	backend BackendClient,
	cache *redis.Client,
) RecommendationService {
	return &defaultService{
		parser:        parser,
		normalizer:    normalizer,
		postProcessor: postProcessor,
		strategy:      strategy,
		searcher:      searcher,
		detector:      detector,
		scorer:        scorer,
		modelSet:      modelSet,
		recommender:   recommender,
		backend:       backend,
		cache:         cache,
	}
}

func (s *defaultService) Recommend(ctx context.Context, req models.RecommendRequest) (*models.RecommendResponse, error) {
	log := utils.GetLogger()
	rid := uuid.New().String()[:8]

	topN := req.TopN
	if topN <= 0 {
		topN = config.AppConfig.RecommendationTopN
	}

	if cached := s.cachedResponse(ctx, req); cached != nil {
		log.Info("recommendation cache hit",
			zap.String("rid", rid), zap.Int64("user_id", req.UserID))
		cached.RequestID = rid
		return cached, nil
	}

	log.Info("recommendation request",
		zap.String("rid", rid),
		zap.Int64("user_id", req.UserID),
		zap.String("prompt", req.UserPrompt))

	// Parse, then correct: normalization first, the ordered rule pipeline
	// next, the study-evidence guard last.
	parsed := s.parser.ParseSearchQuery(ctx, req.UserPrompt)
	parsed = s.normalizer.Normalize(parsed)
	parsed = s.postProcessor.PostFix(req.UserPrompt, parsed)
	parsed = s.postProcessor.GuardCategoryByEvidence(req.UserPrompt, parsed)
	parsed = s.normalizer.NormalizeTaxonomy(parsed)

	user := s.backend.UserContext(ctx, req.UserID)

	trace := &models.RelaxationTrace{}
	candidates := s.searcher.SearchWithRelaxation(ctx, parsed, user, req.UserPrompt, trace)

	detected := s.detector.Detect(req.UserPrompt, parsed)

	if len(candidates) == 0 {
		log.Warn("no candidates after relaxation, using fallback",
			zap.String("rid", rid))
		return s.fallbackResponse(ctx, rid, req, parsed, detected, trace, topN)
	}

	terms := queryTerms(req.UserPrompt)
	scored, err := s.scorer.ScoreMeetings(ctx, user, candidates, parsed, detected, req.UserPrompt, terms, topN)
	if err != nil {
		return nil, fmt.Errorf("scoring recommendations: %w", err)
	}

	resp := &models.RecommendResponse{
		RequestID:       rid,
		UserPrompt:      req.UserPrompt,
		ParsedQuery:     parsed,
		Intent:          string(detected),
		TotalCandidates: len(candidates),
		Recommendations: scored,
		Trace:           trace.Steps,
	}
	s.cacheResponse(ctx, req, resp)

	log.Info("recommendation done",
		zap.String("rid", rid),
		zap.Int("candidates", len(candidates)),
		zap.Int("returned", len(scored)))
	return resp, nil
}

// fallbackResponse substitutes collaborative-filtering picks when relaxation
// found nothing to rank.
func (s *defaultService) fallbackResponse(
	ctx context.Context,
	rid string,
	req models.RecommendRequest,
	parsed models.Query,
	detected intent.Intent,
	trace *models.RelaxationTrace,
	topN int,
) (*models.RecommendResponse, error) {
	recs := s.recommender.Recommend(ctx, req.UserID, topN*2)

	ids := make([]int64, 0, len(recs))
	ratingByID := make(map[int64]float64, len(recs))
	for _, r := range recs {
		ids = append(ids, r.MeetingID)
		ratingByID[r.MeetingID] = r.PredictedRating
	}

	meetings := s.backend.MeetingsByIDs(ctx, ids)

	scored := make([]models.ScoredMeeting, 0, len(meetings))
	for _, m := range meetings {
		rating := ratingByID[m.MeetingID]
		if rating == 0 {
			rating = 3.5
		}
		score := int(math.Min(100, rating*20))
		scored = append(scored, models.ScoredMeeting{
			Meeting:         m,
			MatchScore:      score,
			MatchLevel:      models.MatchLevelFor(score),
			PredictedRating: math.Round(rating*10) / 10,
			KeyPoints:       []string{"참여 이력 기반 추천"},
		})
		if len(scored) >= topN {
			break
		}
	}

	return &models.RecommendResponse{
		RequestID:       rid,
		UserPrompt:      req.UserPrompt,
		ParsedQuery:     parsed,
		Intent:          string(detected),
		TotalCandidates: len(scored),
		Recommendations: scored,
		Trace:           trace.Steps,
		Fallback:        true,
	}, nil
}

func (s *defaultService) Fallback(ctx context.Context, req models.FallbackRequest) (*models.FallbackResponse, error) {
	topN := req.TopN
	if topN <= 0 {
		topN = config.AppConfig.RecommendationTopN
	}

	recs := s.recommender.Recommend(ctx, req.UserID, topN)
	out := make([]models.FallbackRecommendation, 0, len(recs))
	for i, r := range recs {
		out = append(out, models.FallbackRecommendation{
			MeetingID:       r.MeetingID,
			PredictedRating: math.Round(r.PredictedRating*100) / 100,
			Rank:            i + 1,
		})
	}
	return &models.FallbackResponse{
		UserID:          req.UserID,
		Recommendations: out,
		TotalCount:      len(out),
	}, nil
}

func (s *defaultService) PredictSatisfaction(ctx context.Context, req models.SatisfactionRequest) (*models.SatisfactionResponse, error) {
	ranker := s.modelSet.Ranker()
	if !ranker.Loaded() {
		return nil, ml.ErrModelUnavailable
	}

	profile := models.UserProfile{
		Lat:              req.UserLat,
		Lng:              req.UserLng,
		Interests:        splitInterests(req.UserInterests),
		TimePreference:   s.normalizer.NormalizeTimeSlot(req.UserTimePreference),
		LocationPref:     req.UserLocationPref,
		BudgetType:       s.normalizer.NormalizeBudgetType(req.UserBudgetType),
		UserAvgRating:    req.UserAvgRating,
		UserMeetingCount: req.UserMeetingCount,
		UserRatingStd:    req.UserRatingStd,
	}
	meeting := models.Meeting{
		MeetingID:           req.MeetingID,
		Lat:                 req.MeetingLat,
		Lng:                 req.MeetingLng,
		Category:            req.MeetingCategory,
		Subcategory:         req.MeetingSubcategory,
		TimeSlot:            req.MeetingTimeSlot,
		LocationType:        req.MeetingLocationType,
		Vibe:                req.MeetingVibe,
		MaxParticipants:     req.MeetingMaxParticipants,
		ExpectedCost:        req.MeetingExpectedCost,
		AvgRating:           req.MeetingAvgRating,
		RatingCount:         req.MeetingRatingCount,
		CurrentParticipants: req.MeetingParticipantCount,
	}

	stats, _ := s.modelSet.Stats(req.MeetingID)
	feat, vec, err := s.modelSet.Encoder.Encode(profile, meeting, stats)
	if err != nil {
		return nil, fmt.Errorf("encoding satisfaction features: %w", err)
	}
	raw, err := ranker.PredictSingle(vec)
	if err != nil {
		return nil, fmt.Errorf("predicting satisfaction: %w", err)
	}

	rating := scoreToRating(raw)
	return &models.SatisfactionResponse{
		UserID:            req.UserID,
		MeetingID:         req.MeetingID,
		PredictedRating:   rating,
		RatingStars:       ratingToStars(rating),
		SatisfactionLevel: satisfactionLevel(rating),
		Recommended:       rating >= 3.5,
		Reasons:           buildReasons(feat),
	}, nil
}

// scoreToRating squashes a raw model score onto the 1..5 review scale.
func scoreToRating(raw float64) float64 {
	s := 1 / (1 + math.Exp(-raw))
	r := math.Max(1, math.Min(5, 1+4*s))
	return math.Round(r*10) / 10
}

func ratingToStars(rating float64) string {
	full := int(rating)
	if rating-float64(full) >= 0.5 {
		full++
	}
	return strings.Repeat("⭐", full)
}

func satisfactionLevel(rating float64) string {
	switch {
	case rating >= 4.5:
		return "VERY_HIGH"
	case rating >= 3.5:
		return "HIGH"
	case rating >= 2.5:
		return "MEDIUM"
	default:
		return "LOW"
	}
}

func buildReasons(feat ml.Features) []models.SatisfactionReason {
	var reasons []models.SatisfactionReason
	if feat.DistanceKm <= 3 {
		reasons = append(reasons, models.SatisfactionReason{
			Icon: "📍", Text: fmt.Sprintf("집에서 %.1fkm로 가까워요", feat.DistanceKm),
		})
	}
	if feat.TimeMatch == 1 {
		reasons = append(reasons, models.SatisfactionReason{
			Icon: "⏰", Text: "선호하는 시간대와 잘 맞아요",
		})
	}
	if feat.LocationTypeMatch == 1 {
		reasons = append(reasons, models.SatisfactionReason{
			Icon: "🏠", Text: "실내/야외 선호와 일치해요",
		})
	}
	if feat.CostMatch >= 0.7 {
		reasons = append(reasons, models.SatisfactionReason{
			Icon: "💰", Text: "예산 성향에 잘 맞는 비용이에요",
		})
	}
	if feat.InterestMatch >= 0.5 {
		reasons = append(reasons, models.SatisfactionReason{
			Icon: "✨", Text: "관심사와 카테고리가 잘 맞아요",
		})
	}
	if len(reasons) > 3 {
		reasons = reasons[:3]
	}
	return reasons
}

// queryTerms extracts free-text match terms from the prompt.
func queryTerms(prompt string) []string {
	return query.CleanKeywords(strings.Fields(prompt))
}

func splitInterests(s string) []string {
	if s = strings.TrimSpace(s); s == "" {
		return nil
	}
	// The backend sends either a JSON array or a comma list.
	if strings.HasPrefix(s, "[") {
		var arr []string
		if err := json.Unmarshal([]byte(s), &arr); err == nil {
			return arr
		}
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (s *defaultService) cacheKey(req models.RecommendRequest) string {
	sum := sha256.Sum256([]byte(req.UserPrompt))
	return fmt.Sprintf("reco:%d:%s:%d", req.UserID, hex.EncodeToString(sum[:8]), req.TopN)
}

func (s *defaultService) cachedResponse(ctx context.Context, req models.RecommendRequest) *models.RecommendResponse {
	if s.cache == nil {
		return nil
	}
	data, err := s.cache.Get(ctx, s.cacheKey(req)).Bytes()
	if err != nil {
		return nil
	}
	var resp models.RecommendResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil
	}
	return &resp
}

func (s *defaultService) cacheResponse(ctx context.Context, req models.RecommendRequest, resp *models.RecommendResponse) {
	if s.cache == nil || resp.Fallback {
		return
	}
	data, err := json.Marshal(resp)
	if err != nil {
		return
	}
	ttl := time.Duration(config.AppConfig.RecommendationsTTL) * time.Second
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if err := s.cache.Set(ctx, s.cacheKey(req), data, ttl).Err(); err != nil {
		utils.GetLogger().Warn("recommendation cache write failed", zap.Error(err))
	}
}
