package ml

import (
	"errors"
	"fmt"

	"github.com/ujblackjack-cmd/it-da/models"
)

// ErrModelUnavailable is returned when a model artifact was never loaded or
// failed to load at startup.
var ErrModelUnavailable = errors.New("model artifact unavailable")

// Ranker scores candidate feature vectors with a trained linear artifact.
// Raw scores are only meaningful relative to each other within one request;
// the scorer's percentile pass turns them into calibrated match scores.
type Ranker struct {
	artifact *models.RankerArtifact
}

// NewRanker wraps a loaded artifact. A nil artifact yields an unloaded
// ranker whose Predict fails with ErrModelUnavailable.
func NewRanker(artifact *models.RankerArtifact) (*Ranker, error) {
	if artifact != nil && len(artifact.Weights) != NumFeatures {
		return nil, fmt.Errorf("ranker %q: %d weights, want %d",
			artifact.Name, len(artifact.Weights), NumFeatures)
	}
	return &Ranker{artifact: artifact}, nil
}

func (r *Ranker) Loaded() bool {
	return r != nil && r.artifact != nil
}

// Predict returns one raw score per feature vector.
func (r *Ranker) Predict(vectors [][]float64) ([]float64, error) {
	if !r.Loaded() {
		return nil, ErrModelUnavailable
	}
	scale := r.artifact.CalibScale
	if scale == 0 {
		scale = 1.0
	}

	out := make([]float64, len(vectors))
	for i, vec := range vectors {
		if len(vec) != len(r.artifact.Weights) {
			return nil, fmt.Errorf("vector %d has width %d, want %d",
				i, len(vec), len(r.artifact.Weights))
		}
		s := r.artifact.Intercept
		for j, w := range r.artifact.Weights {
			s += w * vec[j]
		}
		out[i] = s * scale
	}
	return out, nil
}

// PredictSingle scores one vector.
func (r *Ranker) PredictSingle(vec []float64) (float64, error) {
	scores, err := r.Predict([][]float64{vec})
	if err != nil {
		return 0, err
	}
	return scores[0], nil
}
