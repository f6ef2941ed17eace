package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Keys     APIKeys
	Ai       AIConfig
	Suggest  SuggestConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

type APIKeys struct {
	GoogleGemini      string
	LedgerUpsertTopic string // Async reference-ledger persistence topic
}

type AIConfig struct {
	CompletionProvider string // "gemini" or "ollama"
	OllamaBaseURL      string
	OllamaModel        string
	CitationEndpoint   string // Empty means the Crossref default
}

// SuggestConfig carries the engine tunables. The quiet period has observed
// values between 1 and 5 seconds across deployments, so it is configuration
// rather than a constant.
type SuggestConfig struct {
	QuietPeriodMS   int
	MinBlockLength  int
	MinCharsBetween int
	ContextBlocks   int
	AcceptKey       string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Keys: APIKeys{
			GoogleGemini:      getEnv("GOOGLE_GEMINI_API_KEY", ""),
			LedgerUpsertTopic: getEnv("LEDGER_UPSERT_TOPIC_NAME", "LEDGER_UPSERT"),
		},
		Ai: AIConfig{
			CompletionProvider: getEnv("COMPLETION_PROVIDER", "gemini"),
			OllamaBaseURL:      getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:        getEnv("OLLAMA_MODEL", "llama3"),
			CitationEndpoint:   getEnv("CITATION_ENDPOINT", ""),
		},
		Suggest: SuggestConfig{
			QuietPeriodMS:   getEnvAsInt("SUGGEST_QUIET_PERIOD_MS", 2000),
			MinBlockLength:  getEnvAsInt("SUGGEST_MIN_BLOCK_LENGTH", 10),
			MinCharsBetween: getEnvAsInt("SUGGEST_MIN_CHARS_BETWEEN", 3),
			ContextBlocks:   getEnvAsInt("SUGGEST_CONTEXT_BLOCKS", 3),
			AcceptKey:       getEnv("SUGGEST_ACCEPT_KEY", "Tab"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}
