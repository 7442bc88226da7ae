// Package cf is the item-based collaborative-filtering fallback used when
// relaxation search finds nothing to rank.
package cf

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/ujblackjack-cmd/it-da/models"
	"github.com/ujblackjack-cmd/it-da/services/ml"
	"github.com/ujblackjack-cmd/it-da/utils"

	"go.uber.org/zap"
)

// RatingsClient fetches a user's review history from the meeting backend.
// Failure degrades to an empty history.
type RatingsClient interface {
	UserRatings(ctx context.Context, userID int64) (map[int64]float64, error)
}

type httpRatingsClient struct {
	baseURL string
	http    *http.Client
}

// NewRatingsClient builds the default HTTP ratings client.
func NewRatingsClient(baseURL string, timeout time.Duration) RatingsClient {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &httpRatingsClient{baseURL: baseURL, http: &http.Client{Timeout: timeout}}
}

type reviewDTO struct {
	MeetingID int64   `json:"meetingId"`
	Rating    float64 `json:"rating"`
}

func (c *httpRatingsClient) UserRatings(ctx context.Context, userID int64) (map[int64]float64, error) {
	url := fmt.Sprintf("%s/api/reviews/user/%d", c.baseURL, userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building ratings request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching user ratings: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ratings endpoint status %d", resp.StatusCode)
	}

	var reviews []reviewDTO
	if err := json.NewDecoder(resp.Body).Decode(&reviews); err != nil {
		return nil, fmt.Errorf("decoding ratings response: %w", err)
	}

	ratings := make(map[int64]float64, len(reviews))
	for _, r := range reviews {
		ratings[r.MeetingID] = r.Rating
	}
	return ratings, nil
}

// Recommendation is one fallback pick with its predicted rating.
type Recommendation struct {
	MeetingID       int64   `json:"meeting_id"`
	PredictedRating float64 `json:"predicted_rating"`
}

// Recommender predicts ratings from the precomputed item-item similarity
// table and the user's own review history.
type Recommender struct {
	models  *ml.ModelSet
	ratings RatingsClient
}

func NewRecommender(modelSet *ml.ModelSet, ratings RatingsClient) *Recommender {
	return &Recommender{models: modelSet, ratings: ratings}
}

// Recommend returns the user's top-n unrated meetings by predicted rating.
// A user with no history gets the globally best-rated meetings instead.
func (r *Recommender) Recommend(ctx context.Context, userID int64, topN int) []Recommendation {
	userRatings, err := r.ratings.UserRatings(ctx, userID)
	if err != nil {
		utils.GetLogger().Warn("user ratings unavailable",
			zap.Int64("user_id", userID), zap.Error(err))
	}
	if len(userRatings) == 0 {
		return r.recommendPopular(topN)
	}

	var recs []Recommendation
	for meetingID, stats := range r.models.StatsTable() {
		if _, rated := userRatings[meetingID]; rated {
			continue
		}
		predicted, ok := r.predictFromSimilarity(meetingID, userRatings, stats)
		if !ok {
			continue
		}
		recs = append(recs, Recommendation{MeetingID: meetingID, PredictedRating: predicted})
	}

	if len(recs) == 0 {
		return r.recommendPopular(topN)
	}

	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].PredictedRating != recs[j].PredictedRating {
			return recs[i].PredictedRating > recs[j].PredictedRating
		}
		return recs[i].MeetingID < recs[j].MeetingID
	})
	if len(recs) > topN {
		recs = recs[:topN]
	}
	return recs
}

// PredictRating predicts the user's rating of one meeting, for satisfaction
// estimation. Falls back to the meeting's own average, then the scale
// midpoint.
func (r *Recommender) PredictRating(ctx context.Context, userID, meetingID int64) float64 {
	stats, hasStats := r.models.Stats(meetingID)

	userRatings, err := r.ratings.UserRatings(ctx, userID)
	if err != nil || len(userRatings) == 0 {
		if hasStats && stats.AvgRating > 0 {
			return stats.AvgRating
		}
		return 3.0
	}

	if predicted, ok := r.predictFromSimilarity(meetingID, userRatings, stats); ok {
		return predicted
	}
	if hasStats && stats.AvgRating > 0 {
		return stats.AvgRating
	}
	return 3.0
}

// predictFromSimilarity averages the user's ratings over the meeting's top
// ten most similar rated items, weighted by similarity, blended 70/30 with
// the meeting's own average, clamped to the 1..5 review scale.
func (r *Recommender) predictFromSimilarity(meetingID int64, userRatings map[int64]float64, stats models.MeetingStats) (float64, bool) {
	row, ok := r.models.Similarity(meetingID)
	if !ok {
		return 0, false
	}

	type neighbor struct {
		id  int64
		sim float64
	}
	var rated []neighbor
	for key, sim := range row.Neighbors {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			continue
		}
		if _, has := userRatings[id]; has {
			rated = append(rated, neighbor{id: id, sim: sim})
		}
	}
	if len(rated) == 0 {
		return 0, false
	}

	sort.SliceStable(rated, func(i, j int) bool { return rated[i].sim > rated[j].sim })
	if len(rated) > 10 {
		rated = rated[:10]
	}

	var simSum, weighted float64
	for _, nb := range rated {
		simSum += nb.sim
		weighted += nb.sim * userRatings[nb.id]
	}
	if simSum <= 0 {
		return 0, false
	}

	predicted := weighted / simSum
	if stats.AvgRating > 0 {
		predicted = 0.7*predicted + 0.3*stats.AvgRating
	}
	return math.Min(5, math.Max(1, predicted)), true
}

func (r *Recommender) recommendPopular(topN int) []Recommendation {
	var recs []Recommendation
	for meetingID, stats := range r.models.StatsTable() {
		recs = append(recs, Recommendation{MeetingID: meetingID, PredictedRating: stats.AvgRating})
	}
	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].PredictedRating != recs[j].PredictedRating {
			return recs[i].PredictedRating > recs[j].PredictedRating
		}
		return recs[i].MeetingID < recs[j].MeetingID
	})
	if len(recs) > topN {
		recs = recs[:topN]
	}
	utils.GetLogger().Info("popularity fallback", zap.Int("count", len(recs)))
	return recs
}
