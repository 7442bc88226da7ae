package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	ServiceJWTSecret  string `mapstructure:"SERVICE_JWT_SECRET"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Meeting backend (Spring) configuration.
	MeetingAPIURL        string `mapstructure:"MEETING_API_URL"`
	SearchTimeoutSecs    int    `mapstructure:"SEARCH_TIMEOUT_SECS"`
	RatingsTimeoutSecs   int    `mapstructure:"RATINGS_TIMEOUT_SECS"`
	UserCtxTimeoutSecs   int    `mapstructure:"USER_CTX_TIMEOUT_SECS"`
	RecommendationTopN   int    `mapstructure:"RECOMMENDATION_TOP_N"`
	RecommendationsTTL   int    `mapstructure:"RECOMMENDATIONS_TTL_SECS"`
	ArtifactRefreshHours int    `mapstructure:"ARTIFACT_REFRESH_HOURS"`

	// Mongo artifact store.
	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	DatabaseName string `mapstructure:"DATABASE_NAME"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// Gemini API key for query parsing.
	GeminiAPIKey string `mapstructure:"GEMINI_API_KEY"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8000")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("MEETING_API_URL", "http://localhost:8080")
	viper.SetDefault("SEARCH_TIMEOUT_SECS", 10)
	viper.SetDefault("RATINGS_TIMEOUT_SECS", 5)
	viper.SetDefault("USER_CTX_TIMEOUT_SECS", 5)
	viper.SetDefault("RECOMMENDATION_TOP_N", 5)
	viper.SetDefault("RECOMMENDATIONS_TTL_SECS", 300)
	viper.SetDefault("ARTIFACT_REFRESH_HOURS", 24)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "itda_ai")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_QUEUE_DB", 1)
	viper.SetDefault("GEMINI_API_KEY", "")

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
