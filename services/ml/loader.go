package ml

import (
	"context"
	"sync"

	artifactRepo "github.com/ujblackjack-cmd/it-da/database/repository/artifact"
	"github.com/ujblackjack-cmd/it-da/models"
	"github.com/ujblackjack-cmd/it-da/utils"

	"go.uber.org/zap"
)

const (
	rankerArtifactName    = "meeting_ranker"
	regressorArtifactName = "satisfaction_regressor"
)

// Status reports which parts of the model set loaded, in load order.
type Status struct {
	Encoder    bool `json:"encoder"`
	Ranker     bool `json:"ranker"`
	Regressor  bool `json:"regressor"`
	Sentiment  bool `json:"sentiment"`
	Similarity bool `json:"similarity"`
	Ready      bool `json:"ready"`
}

// ModelSet owns every model used per request: the feature encoder, the
// ranker, the satisfaction regressor, the sentiment stats table, and the
// collaborative-filtering similarity table. Loaded once at startup in that
// order;
// Refresh swaps the artifact-backed parts atomically so concurrent requests
// always see a consistent set.
type ModelSet struct {
	Encoder *FeatureEncoder

	mu         sync.RWMutex
	ranker     *Ranker
	regressor  *Regressor
	similarity map[int64]models.SimilarityRow
	stats      map[int64]models.MeetingStats
}

// NewModelSet loads everything from the artifact store. A missing artifact
// degrades that model to unloaded rather than failing startup; the scorer
// and fallback paths handle ErrModelUnavailable.
func NewModelSet(ctx context.Context, repo artifactRepo.ArtifactRepository) (*ModelSet, error) {
	log := utils.GetLogger()
	set := &ModelSet{Encoder: NewFeatureEncoder()}
	log.Info("model load 1/5: feature encoder ready",
		zap.Int("features", NumFeatures))

	if err := set.loadArtifacts(ctx, repo); err != nil {
		return nil, err
	}
	return set, nil
}

func (s *ModelSet) loadArtifacts(ctx context.Context, repo artifactRepo.ArtifactRepository) error {
	log := utils.GetLogger()

	rankerArt, err := repo.GetRanker(ctx, rankerArtifactName)
	if err != nil {
		log.Warn("ranker artifact load failed", zap.Error(err))
	}
	ranker, err := NewRanker(rankerArt)
	if err != nil {
		return err
	}
	log.Info("model load 2/5: ranker", zap.Bool("loaded", ranker.Loaded()))

	regressorArt, err := repo.GetRanker(ctx, regressorArtifactName)
	if err != nil {
		log.Warn("regressor artifact load failed", zap.Error(err))
	}
	regressor, err := NewRegressor(regressorArt)
	if err != nil {
		return err
	}
	log.Info("model load 3/5: regressor", zap.Bool("loaded", regressor.Loaded()))

	statRows, err := repo.GetMeetingStats(ctx)
	if err != nil {
		log.Warn("sentiment stats load failed", zap.Error(err))
	}
	stats := make(map[int64]models.MeetingStats, len(statRows))
	for _, st := range statRows {
		stats[st.MeetingID] = st
	}
	log.Info("model load 4/5: sentiment stats table",
		zap.Int("rows", len(stats)))

	rows, err := repo.GetSimilarityRows(ctx)
	if err != nil {
		log.Warn("similarity table load failed", zap.Error(err))
	}
	similarity := make(map[int64]models.SimilarityRow, len(rows))
	for _, r := range rows {
		similarity[r.MeetingID] = r
	}
	log.Info("model load 5/5: similarity table",
		zap.Int("rows", len(similarity)))

	s.mu.Lock()
	s.ranker = ranker
	s.regressor = regressor
	s.similarity = similarity
	s.stats = stats
	s.mu.Unlock()
	return nil
}

// Refresh reloads the artifact-backed models in place. Used by the periodic
// refresh task after the offline pipeline publishes new artifacts.
func (s *ModelSet) Refresh(ctx context.Context, repo artifactRepo.ArtifactRepository) error {
	return s.loadArtifacts(ctx, repo)
}

func (s *ModelSet) Ranker() *Ranker {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ranker
}

func (s *ModelSet) Regressor() *Regressor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.regressor
}

// Similarity returns the neighbour row for a meeting, if the table has one.
func (s *ModelSet) Similarity(meetingID int64) (models.SimilarityRow, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row, ok := s.similarity[meetingID]
	return row, ok
}

// Stats returns the offline rating/sentiment summary for a meeting.
func (s *ModelSet) Stats(meetingID int64) (models.MeetingStats, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.stats[meetingID]
	return st, ok
}

// StatsTable returns the whole stats map for batch encoding.
func (s *ModelSet) StatsTable() map[int64]models.MeetingStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats
}

// Status summarizes what is loaded, for the health endpoint.
func (s *ModelSet) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := Status{
		Encoder:    s.Encoder != nil,
		Ranker:     s.ranker.Loaded(),
		Regressor:  s.regressor.Loaded(),
		Sentiment:  len(s.stats) > 0,
		Similarity: len(s.similarity) > 0,
	}
	st.Ready = st.Encoder && st.Ranker && st.Regressor
	return st
}
