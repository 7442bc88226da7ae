// Package database owns the MongoDB connection the artifact repositories
// read from.
package database

import (
	"context"
	"time"

	"github.com/ujblackjack-cmd/it-da/config"
	"github.com/ujblackjack-cmd/it-da/utils"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// MongoClient is shared by every repository in the process.
var MongoClient *mongo.Client

// InitDB connects to MongoDB and verifies the connection with a ping.
// Startup cannot proceed without the artifact store, so failure is fatal.
func InitDB() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(config.AppConfig.DatabaseURL))
	if err != nil {
		utils.GetLogger().Fatal("mongodb connect failed", zap.Error(err))
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		utils.GetLogger().Fatal("mongodb ping failed", zap.Error(err))
	}

	MongoClient = client
	utils.GetLogger().Info("connected to mongodb",
		zap.String("database", config.AppConfig.DatabaseName))
}
