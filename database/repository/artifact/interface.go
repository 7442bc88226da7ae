package artifactRepo

import (
	"context"

	"github.com/ujblackjack-cmd/it-da/config"
	"github.com/ujblackjack-cmd/it-da/database"
	"github.com/ujblackjack-cmd/it-da/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ArtifactRepository loads the trained model artifacts the offline pipeline
// writes to Mongo. All reads happen at startup (and on scheduled refresh);
// the loaded tables are immutable afterwards.
type ArtifactRepository interface {
	GetRanker(ctx context.Context, name string) (*models.RankerArtifact, error)
	GetSimilarityRows(ctx context.Context) ([]models.SimilarityRow, error)
	GetMeetingStats(ctx context.Context) ([]models.MeetingStats, error)
}

type mongoArtifactRepo struct {
	rankers    *mongo.Collection
	similarity *mongo.Collection
	stats      *mongo.Collection
}

// NewMongoArtifactRepo returns an ArtifactRepository backed by MongoDB.
func NewMongoArtifactRepo() ArtifactRepository {
	db := database.MongoClient.Database(config.AppConfig.DatabaseName)
	return &mongoArtifactRepo{
		rankers:    db.Collection("model_artifacts"),
		similarity: db.Collection("meeting_similarity"),
		stats:      db.Collection("meeting_stats"),
	}
}
