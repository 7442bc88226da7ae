// Package ml holds the recommendation models: the feature encoder, the
// linear ranker and regressor loaded from stored artifacts, and the model
// set that owns their startup order.
package ml

import (
	"fmt"
	"math"
	"strings"

	"github.com/ujblackjack-cmd/it-da/models"
)

const (
	// NumFeatures is the fixed width of the encoded vector:
	// 12 base + 7 category + 8 vibe + 3 gender + 5 sentiment.
	NumFeatures = 35

	defaultLat = 37.5
	defaultLng = 127.0
)

var (
	encoderCategories = []string{"스포츠", "맛집", "카페", "문화예술", "스터디", "취미활동", "소셜"}
	encoderVibes      = []string{"활기찬", "여유로운", "힐링", "진지한", "즐거운", "감성적인", "건강한", "배움"}
	encoderGenders    = []string{"M", "F", "N"}

	// Collapses the wider content vocabulary onto the eight vibes the models
	// were trained with.
	encoderVibeMapping = map[string]string{
		"활기찬":    "활기찬",
		"에너지 넘치는": "활기찬",
		"건강한":    "건강한",
		"여유로운":   "여유로운",
		"맛있는":    "여유로운",
		"힐링":     "힐링",
		"감성적인":   "감성적인",
		"예술적인":   "감성적인",
		"창의적인":   "감성적인",
		"진지한":    "진지한",
		"집중적인":   "진지한",
		"배움":     "배움",
		"즐거운":    "즐거운",
		"자유로운":   "즐거운",
	}

	// A top-level interest implies its concrete activities for matching.
	interestExpansion = map[string][]string{
		"문화예술":  {"전시회", "공연", "갤러리", "공방체험"},
		"스터디":   {"코딩", "영어회화", "독서토론", "재테크"},
		"취미활동":  {"그림", "베이킹", "쿠킹", "플라워"},
		"소셜":    {"보드게임", "방탈출", "볼링", "당구"},
		"스포츠":   {"러닝", "축구", "배드민턴", "요가", "사이클링", "등산", "클라이밍"},
		"맛집":    {"한식", "중식", "일식", "양식", "이자카야"},
		"카페":    {"브런치", "디저트", "카페투어", "베이커리"},
	}

	costRanges = map[string][2]float64{
		"low":     {0, 10_000},
		"value":   {10_000, 30_000},
		"medium":  {30_000, 50_000},
		"high":    {50_000, 100_000},
		"premium": {100_000, math.Inf(1)},
	}
)

// Features is the small named subset of the vector kept for diagnostics and
// scoring adjustments.
type Features struct {
	DistanceKm        float64
	TimeMatch         float64
	LocationTypeMatch float64
	InterestMatch     float64
	CostMatch         float64
}

// FeatureEncoder turns a (user, meeting) pair into the fixed-width vector
// the ranker and regressor consume. Stateless and safe for concurrent use.
type FeatureEncoder struct{}

func NewFeatureEncoder() *FeatureEncoder {
	return &FeatureEncoder{}
}

// FeatureNames returns the vector's column names in encode order.
func (e *FeatureEncoder) FeatureNames() []string {
	names := []string{
		"distance_km", "time_match", "location_type_match",
		"interest_match_score", "cost_match_score",
		"user_avg_rating", "user_meeting_count", "user_rating_std",
		"meeting_avg_rating", "meeting_rating_count",
		"meeting_participant_count", "meeting_max_participants",
	}
	for _, c := range encoderCategories {
		names = append(names, "category_"+c)
	}
	for _, v := range encoderVibes {
		names = append(names, "vibe_"+v)
	}
	for _, g := range encoderGenders {
		names = append(names, "gender_"+g)
	}
	return append(names,
		"avg_sentiment_score", "positive_review_ratio",
		"negative_review_ratio", "review_sentiment_variance",
		"user_sentiment_match")
}

// Encode builds the feature vector for one candidate. Stats may be zero-value
// when no review summary exists for the meeting.
func (e *FeatureEncoder) Encode(user models.UserProfile, m models.Meeting, stats models.MeetingStats) (Features, []float64, error) {
	uLat, uLng := orDefault(user.Lat, defaultLat), orDefault(user.Lng, defaultLng)
	mLat, mLng := orDefault(m.Lat, defaultLat), orDefault(m.Lng, defaultLng)

	distanceKm := Haversine(uLat, uLng, mLat, mLng)

	timeMatch := boolFeature(user.TimePreference != "" && user.TimePreference == m.TimeSlot)
	locTypeMatch := boolFeature(user.LocationPref != "" && user.LocationPref == m.LocationType)
	interestMatch := e.InterestMatch(user.Interests, m.Category, m.Subcategory)

	cost := m.ExpectedCost
	if cost == 0 {
		cost = 20_000
	}
	costMatch := e.CostMatch(user.BudgetType, cost)

	avgSentiment := orDefault(stats.AvgSentiment, 0.5)
	positiveRatio := orDefault(stats.PositiveRatio, 0.5)
	negativeRatio := orDefault(stats.NegativeRatio, 0.5)
	sentimentVar := stats.SentimentVariance

	vec := make([]float64, 0, NumFeatures)
	vec = append(vec,
		distanceKm, timeMatch, locTypeMatch, interestMatch, costMatch,
		orDefault(user.UserAvgRating, 3.0),
		float64(user.UserMeetingCount),
		orDefault(user.UserRatingStd, 0.5),
		orDefault(m.AvgRating, 3.0),
		float64(m.RatingCount),
		float64(m.CurrentParticipants),
		orDefault(float64(m.MaxParticipants), 10),
	)
	vec = append(vec, oneHot(m.Category, encoderCategories)...)
	vec = append(vec, oneHot(e.normalizeVibe(m.Vibe), encoderVibes)...)

	gender := user.Gender
	if gender == "" {
		gender = "N"
	}
	vec = append(vec, oneHot(gender, encoderGenders)...)

	vec = append(vec,
		avgSentiment, positiveRatio, negativeRatio, sentimentVar,
		sentimentMatch(user.MBTI, positiveRatio, negativeRatio, sentimentVar))

	if len(vec) != NumFeatures {
		return Features{}, nil, fmt.Errorf("feature vector width %d, want %d", len(vec), NumFeatures)
	}

	return Features{
		DistanceKm:        distanceKm,
		TimeMatch:         timeMatch,
		LocationTypeMatch: locTypeMatch,
		InterestMatch:     interestMatch,
		CostMatch:         costMatch,
	}, vec, nil
}

// EncodeBatch encodes one user against many meetings.
func (e *FeatureEncoder) EncodeBatch(user models.UserProfile, meetings []models.Meeting, stats map[int64]models.MeetingStats) ([]Features, [][]float64, error) {
	feats := make([]Features, 0, len(meetings))
	vecs := make([][]float64, 0, len(meetings))
	for _, m := range meetings {
		f, v, err := e.Encode(user, m, stats[m.MeetingID])
		if err != nil {
			return nil, nil, fmt.Errorf("encoding meeting %d: %w", m.MeetingID, err)
		}
		feats = append(feats, f)
		vecs = append(vecs, v)
	}
	return feats, vecs, nil
}

// InterestMatch scores the overlap between a user's interests (expanded to
// their concrete activities) and the meeting's category/subcategory. Both
// tokens hitting a single interest can push the score past 1.
func (e *FeatureEncoder) InterestMatch(interests []string, category, subcategory string) float64 {
	base := make(map[string]struct{})
	for _, i := range interests {
		if t := strings.ToLower(strings.TrimSpace(i)); t != "" {
			base[t] = struct{}{}
		}
	}
	if len(base) == 0 {
		return 0
	}

	expanded := make(map[string]struct{}, len(base))
	for k := range base {
		expanded[k] = struct{}{}
	}
	for top, subs := range interestExpansion {
		if _, ok := base[strings.ToLower(top)]; ok {
			for _, s := range subs {
				expanded[strings.ToLower(s)] = struct{}{}
			}
		}
	}

	hits := 0
	for _, tok := range []string{category, subcategory} {
		t := strings.ToLower(strings.TrimSpace(tok))
		if t == "" {
			continue
		}
		if _, ok := expanded[t]; ok {
			hits++
		}
	}
	return float64(hits) / float64(len(base))
}

// CostMatch scores how well the meeting cost fits the user's budget tier,
// 1.0 inside the tier's range, decaying linearly outside it.
func (e *FeatureEncoder) CostMatch(budgetType string, cost int) float64 {
	r, ok := costRanges[budgetType]
	if !ok {
		return 0.5
	}
	lo, hi := r[0], r[1]
	c := float64(cost)

	if c >= lo && c <= hi {
		return 1.0
	}
	if c < lo {
		return math.Max(0, 1.0-(lo-c)/math.Max(lo, 1))
	}
	return math.Max(0, 1.0-(c-hi)/math.Max(hi, 1))
}

// Haversine returns the great-circle distance between two points in km.
func Haversine(lat1, lng1, lat2, lng2 float64) float64 {
	const earthRadiusKm = 6371
	dLat := radians(lat2 - lat1)
	dLng := radians(lng2 - lng1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(lat1))*math.Cos(radians(lat2))*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// sentimentMatch estimates how well the meeting's review mood fits the
// user's MBTI, in [0,1]. 0.5 when the MBTI is unknown.
func sentimentMatch(mbti string, positiveRatio, negativeRatio, variance float64) float64 {
	mbti = strings.ToUpper(strings.TrimSpace(mbti))
	if len(mbti) < 4 {
		return 0.5
	}

	score := 0.5
	switch mbti[0] {
	case 'E':
		if positiveRatio > 0.6 {
			score += 0.2
		}
		if variance > 0.3 {
			score += 0.1
		}
	case 'I':
		if variance < 0.3 {
			score += 0.2
		}
		if negativeRatio < 0.2 {
			score += 0.1
		}
	}
	switch mbti[2] {
	case 'F':
		if positiveRatio > 0.5 {
			score += 0.1
		}
	case 'T':
		if variance < 0.4 {
			score += 0.1
		}
	}
	return math.Min(1, math.Max(0, score))
}

func (e *FeatureEncoder) normalizeVibe(vibe string) string {
	if vibe == "" {
		return ""
	}
	if mapped, ok := encoderVibeMapping[vibe]; ok {
		return mapped
	}
	return vibe
}

func oneHot(value string, categories []string) []float64 {
	out := make([]float64, len(categories))
	for i, c := range categories {
		if value == c {
			out[i] = 1
		}
	}
	return out
}

func boolFeature(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func orDefault(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
