// models/artifact.go
package models

// RankerArtifact is a trained linear scoring model stored in Mongo by the
// offline training pipeline. Raw output is monotonic but uncalibrated.
type RankerArtifact struct {
	Name          string    `bson:"name" json:"name"`
	SchemaVersion string    `bson:"schema_version" json:"schema_version"`
	FeatureNames  []string  `bson:"feature_names" json:"feature_names"`
	Weights       []float64 `bson:"weights" json:"weights"`
	Intercept     float64   `bson:"intercept" json:"intercept"`
	// Calibration scale applied before any sigmoid squashing; 0 means 1.0.
	CalibScale float64 `bson:"calib_scale" json:"calib_scale"`
}

// SimilarityRow holds the precomputed nearest neighbours of one meeting in
// the item-item collaborative-filtering table.
type SimilarityRow struct {
	MeetingID int64              `bson:"meeting_id" json:"meeting_id"`
	Neighbors map[string]float64 `bson:"neighbors" json:"neighbors"`
}

// MeetingStats is the rating and review-sentiment summary of one meeting,
// aggregated offline. The fallback recommender uses the rating fields; the
// feature encoder consumes the sentiment fields.
type MeetingStats struct {
	MeetingID   int64   `bson:"meeting_id" json:"meeting_id"`
	AvgRating   float64 `bson:"avg_rating" json:"avg_rating"`
	RatingCount int     `bson:"rating_count" json:"rating_count"`

	AvgSentiment      float64 `bson:"avg_sentiment_score" json:"avg_sentiment_score"`
	PositiveRatio     float64 `bson:"positive_review_ratio" json:"positive_review_ratio"`
	NegativeRatio     float64 `bson:"negative_review_ratio" json:"negative_review_ratio"`
	SentimentVariance float64 `bson:"review_sentiment_variance" json:"review_sentiment_variance"`
}
