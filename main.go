// File: it-da/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ujblackjack-cmd/it-da/config"
	"github.com/ujblackjack-cmd/it-da/cron"
	"github.com/ujblackjack-cmd/it-da/database"
	artifactRepo "github.com/ujblackjack-cmd/it-da/database/repository/artifact"
	"github.com/ujblackjack-cmd/it-da/handlers"
	"github.com/ujblackjack-cmd/it-da/routes"
	"github.com/ujblackjack-cmd/it-da/services/cf"
	"github.com/ujblackjack-cmd/it-da/services/intent"
	"github.com/ujblackjack-cmd/it-da/services/ml"
	"github.com/ujblackjack-cmd/it-da/services/nlp"
	"github.com/ujblackjack-cmd/it-da/services/query"
	"github.com/ujblackjack-cmd/it-da/services/recommend"
	"github.com/ujblackjack-cmd/it-da/services/scoring"
	"github.com/ujblackjack-cmd/it-da/services/search"
	"github.com/ujblackjack-cmd/it-da/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()

	ctx := context.Background()

	// Model artifacts live in Mongo and are refreshed by the cron worker.
	repo := artifactRepo.NewMongoArtifactRepo()
	modelSet, err := ml.NewModelSet(ctx, repo)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to load model artifacts: %v", err)
	}

	parser, err := nlp.NewGeminiParser(ctx, config.AppConfig.GeminiAPIKey)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize query parser: %v", err)
	}

	normalizer := query.NewNormalizer()
	builder := query.NewBuilder(normalizer)
	postProcessor := query.NewPostProcessor(normalizer)

	searchClient := search.NewClient(
		config.AppConfig.MeetingAPIURL,
		time.Duration(config.AppConfig.SearchTimeoutSecs)*time.Second,
	)
	strategy := search.NewStrategy()
	searcher := search.NewService(searchClient, strategy, builder, normalizer)

	detector := intent.NewDetector()
	adjuster := scoring.NewIntentAdjuster(normalizer)
	scorer := scoring.NewScorer(modelSet, normalizer, adjuster, searcher)

	ratingsClient := cf.NewRatingsClient(
		config.AppConfig.MeetingAPIURL,
		time.Duration(config.AppConfig.RatingsTimeoutSecs)*time.Second,
	)
	recommender := cf.NewRecommender(modelSet, ratingsClient)

	backend := recommend.NewBackendClient(
		config.AppConfig.MeetingAPIURL,
		time.Duration(config.AppConfig.UserCtxTimeoutSecs)*time.Second,
	)

	svc := recommend.NewService(
		parser,
		normalizer,
		postProcessor,
		strategy,
		searcher,
		detector,
		scorer,
		modelSet,
		recommender,
		backend,
		utils.GetCacheClient(),
	)

	handler := handlers.NewRecommendationHandler(svc, modelSet)

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())

	routes.RegisterRoutes(router, handler)

	// Background artifact refresh worker.
	cron.InitArtifactRefreshWorker(modelSet, repo)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8000"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
