// Package cron runs the background artifact-refresh worker. The offline
// training pipeline publishes new model artifacts to Mongo on its own
// schedule; this worker reloads them into the running process periodically.
package cron

import (
	"context"
	"time"

	"github.com/ujblackjack-cmd/it-da/config"
	artifactRepo "github.com/ujblackjack-cmd/it-da/database/repository/artifact"
	"github.com/ujblackjack-cmd/it-da/services/ml"
	"github.com/ujblackjack-cmd/it-da/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const TypeArtifactRefresh = "artifact:refresh"

// InitArtifactRefreshWorker starts the async worker and its periodic
// scheduler in the background.
func InitArtifactRefreshWorker(modelSet *ml.ModelSet, repo artifactRepo.ArtifactRepository) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(redisOpts, asynq.Config{
		Concurrency: 1,
		Queues: map[string]int{
			"default": 1,
		},
	})

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeArtifactRefresh, handleArtifactRefresh(modelSet, repo))

	go func() {
		log := utils.GetLogger()
		log.Info("starting artifact refresh worker")

		const maxAttempts = 5
		for attempt := 1; attempt <= maxAttempts; attempt++ {
			if err := srv.Run(mux); err != nil {
				log.Error("artifact refresh worker failed to start",
					zap.Int("attempt", attempt), zap.Error(err))
				if attempt == maxAttempts {
					log.Fatal("artifact refresh worker giving up")
				}
				time.Sleep(time.Duration(attempt*2) * time.Second)
				continue
			}
			break
		}
	}()

	go runScheduler(redisOpts)
}

// runScheduler enqueues a refresh task on the configured interval.
func runScheduler(redisOpts asynq.RedisClientOpt) {
	log := utils.GetLogger()

	interval := time.Duration(config.AppConfig.ArtifactRefreshHours) * time.Hour
	if interval <= 0 {
		interval = 6 * time.Hour
	}

	scheduler := asynq.NewScheduler(redisOpts, &asynq.SchedulerOpts{})
	entryID, err := scheduler.Register(
		"@every "+interval.String(),
		asynq.NewTask(TypeArtifactRefresh, nil),
	)
	if err != nil {
		log.Error("registering artifact refresh schedule", zap.Error(err))
		return
	}
	log.Info("artifact refresh scheduled",
		zap.String("entry", entryID), zap.Duration("interval", interval))

	if err := scheduler.Run(); err != nil {
		log.Error("artifact refresh scheduler stopped", zap.Error(err))
	}
}

func handleArtifactRefresh(modelSet *ml.ModelSet, repo artifactRepo.ArtifactRepository) asynq.HandlerFunc {
	return func(ctx context.Context, _ *asynq.Task) error {
		log := utils.GetLogger()
		log.Info("refreshing model artifacts")

		refreshCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
		defer cancel()

		if err := modelSet.Refresh(refreshCtx, repo); err != nil {
			log.Error("artifact refresh failed", zap.Error(err))
			return err
		}

		status := modelSet.Status()
		log.Info("artifact refresh done",
			zap.Bool("ranker", status.Ranker),
			zap.Bool("regressor", status.Regressor),
			zap.Bool("similarity", status.Similarity))
		return nil
	}
}
