package artifactRepo

import (
	"context"
	"fmt"

	"github.com/ujblackjack-cmd/it-da/models"

	"go.mongodb.org/mongo-driver/bson"
)

// GetRanker returns the named scoring model artifact.
func (r *mongoArtifactRepo) GetRanker(ctx context.Context, name string) (*models.RankerArtifact, error) {
	var art models.RankerArtifact
	if err := r.rankers.FindOne(ctx, bson.M{"name": name}).Decode(&art); err != nil {
		return nil, fmt.Errorf("load artifact %q: %w", name, err)
	}
	if len(art.Weights) == 0 {
		return nil, fmt.Errorf("artifact %q has no weights", name)
	}
	return &art, nil
}

// GetSimilarityRows returns the full item-item similarity table.
func (r *mongoArtifactRepo) GetSimilarityRows(ctx context.Context) ([]models.SimilarityRow, error) {
	cursor, err := r.similarity.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("load similarity table: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []models.SimilarityRow
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode similarity table: %w", err)
	}
	return rows, nil
}

// GetMeetingStats returns rating summaries for all known meetings.
func (r *mongoArtifactRepo) GetMeetingStats(ctx context.Context) ([]models.MeetingStats, error) {
	cursor, err := r.stats.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("load meeting stats: %w", err)
	}
	defer cursor.Close(ctx)

	var stats []models.MeetingStats
	if err := cursor.All(ctx, &stats); err != nil {
		return nil, fmt.Errorf("decode meeting stats: %w", err)
	}
	return stats, nil
}
