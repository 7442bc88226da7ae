package ml

import (
	"fmt"
	"math"

	"github.com/ujblackjack-cmd/it-da/models"
)

// Regressor predicts the satisfaction rating a user would give a meeting,
// on the 1..5 review scale. Backed by the same linear artifact format as
// the ranker.
type Regressor struct {
	artifact *models.RankerArtifact
}

func NewRegressor(artifact *models.RankerArtifact) (*Regressor, error) {
	if artifact != nil && len(artifact.Weights) != NumFeatures {
		return nil, fmt.Errorf("regressor %q: %d weights, want %d",
			artifact.Name, len(artifact.Weights), NumFeatures)
	}
	return &Regressor{artifact: artifact}, nil
}

func (r *Regressor) Loaded() bool {
	return r != nil && r.artifact != nil
}

// Predict returns a clamped rating per feature vector.
func (r *Regressor) Predict(vectors [][]float64) ([]float64, error) {
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
		out[i] = math.Min(5, math.Max(1, s*scale))
	}
	return out, nil
}

// PredictSingle predicts the rating for one vector.
func (r *Regressor) PredictSingle(vec []float64) (float64, error) {
	ratings, err := r.Predict([][]float64{vec})
	if err != nil {
		return 0, err
	}
	return ratings[0], nil
}
