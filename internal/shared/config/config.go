package config

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"support-backend/internal/shared/telemetry"
)

// Config holds application configuration.
type Config struct {
	Port            string
	Env             string
	APIBasePath     string
	CORSAllowOrigin []string

	LLMProvider   string
	LLMModel      string
	OpenAIAPIKey  string
	OpenAIBaseURL string

	DatabaseURL       string
	RedisURL          string
	RecommendationTTL time.Duration

	ObjectStoreType string
	LocalStoreDir   string
	AWSRegion       string
	S3Bucket        string
	S3Prefix        string
	SSEKMSKeyID     string

	FeedbackQueueURL  string
	WorkerConcurrency int

	HelpdeskBaseURL      string
	HelpdeskAPIToken     string
	HelpdeskClientID     string
	HelpdeskClientSecret string
	HelpdeskTokenURL     string

	LogFile  string
	LogLevel string

	SentimentBatchDelay time.Duration
	ManualChunkDelay    time.Duration

	RateLimitRPS   float64
	RateLimitBurst int
}

// Load reads configuration from environment variables with sensible defaults.
// Local .env files are merged first for dev convenience; real env vars win.
func Load() Config {
	return LoadFrom(".env", "cmd/.env")
}

// LoadFrom is Load with explicit env file locations.
func LoadFrom(envFiles ...string) Config {
	v := newViper(envFiles...)

	env := normalizeEnv(v.GetString("ENV"))
	dbURL := strings.TrimSpace(v.GetString("DATABASE_URL"))
	if env == "production" && dbURL == "" {
		telemetry.Warn("config.database_url_missing", map[string]any{"env": env})
	}

	return Config{
		Port:            v.GetString("PORT"),
		Env:             env,
		APIBasePath:     normalizeBasePath(v.GetString("API_BASE_PATH")),
		CORSAllowOrigin: splitAndTrim(v.GetString("CORS_ALLOW_ORIGINS")),

		LLMProvider:   normalizeProvider(v.GetString("LLM_PROVIDER")),
		LLMModel:      v.GetString("LLM_MODEL"),
		OpenAIAPIKey:  v.GetString("OPENAI_API_KEY"),
		OpenAIBaseURL: v.GetString("OPENAI_BASE_URL"),

		DatabaseURL:       dbURL,
		RedisURL:          strings.TrimSpace(v.GetString("REDIS_URL")),
		RecommendationTTL: v.GetDuration("RECOMMENDATION_TTL"),

		ObjectStoreType: normalizeStoreType(v.GetString("OBJECT_STORE")),
		LocalStoreDir:   v.GetString("LOCAL_STORE_DIR"),
		AWSRegion:       v.GetString("AWS_REGION"),
		S3Bucket:        v.GetString("S3_BUCKET"),
		S3Prefix:        v.GetString("S3_PREFIX"),
		SSEKMSKeyID:     v.GetString("SSE_KMS_KEY_ID"),

		FeedbackQueueURL:  strings.TrimSpace(v.GetString("FEEDBACK_SQS_QUEUE_URL")),
		WorkerConcurrency: v.GetInt("WORKER_CONCURRENCY"),

		HelpdeskBaseURL:      strings.TrimRight(strings.TrimSpace(v.GetString("HELPDESK_BASE_URL")), "/"),
		HelpdeskAPIToken:     v.GetString("HELPDESK_API_TOKEN"),
		HelpdeskClientID:     v.GetString("HELPDESK_CLIENT_ID"),
		HelpdeskClientSecret: v.GetString("HELPDESK_CLIENT_SECRET"),
		HelpdeskTokenURL:     v.GetString("HELPDESK_TOKEN_URL"),

		LogFile:  v.GetString("LOG_FILE"),
		LogLevel: v.GetString("LOG_LEVEL"),

		SentimentBatchDelay: v.GetDuration("SENTIMENT_BATCH_DELAY"),
		ManualChunkDelay:    v.GetDuration("MANUAL_CHUNK_DELAY"),

		RateLimitRPS:   v.GetFloat64("RATE_LIMIT_RPS"),
		RateLimitBurst: v.GetInt("RATE_LIMIT_BURST"),
	}
}

func newViper(envFiles ...string) *viper.Viper {
	v := viper.New()
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "dev")
	v.SetDefault("API_BASE_PATH", "/api")
	v.SetDefault("CORS_ALLOW_ORIGINS", "http://localhost:3000")
	v.SetDefault("LLM_PROVIDER", "openai")
	v.SetDefault("LLM_MODEL", "gpt-4o-mini")
	v.SetDefault("RECOMMENDATION_TTL", "0s")
	v.SetDefault("OBJECT_STORE", "local")
	v.SetDefault("LOCAL_STORE_DIR", "./data")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("SENTIMENT_BATCH_DELAY", "1s")
	v.SetDefault("MANUAL_CHUNK_DELAY", "500ms")
	v.SetDefault("RATE_LIMIT_RPS", 2)
	v.SetDefault("RATE_LIMIT_BURST", 10)
	v.SetDefault("WORKER_CONCURRENCY", 4)

	// Best-effort load of local env files; errors are ignored.
	for _, path := range envFiles {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		v.SetConfigFile(path)
		v.SetConfigType("env")
		if err := v.MergeInConfig(); err != nil {
			telemetry.Warn("config.env_file_invalid", map[string]any{"path": path, "error": err.Error()})
		}
	}
	v.AutomaticEnv()
	return v
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	default:
		return "local"
	}
}

func normalizeProvider(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "openai":
		return "openai"
	default:
		return "none"
	}
}

func normalizeBasePath(raw string) string {
	p := strings.TrimSpace(raw)
	if p == "" || p == "/" {
		return ""
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return strings.TrimRight(p, "/")
}
