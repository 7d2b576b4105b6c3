package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Session   SessionConfig
	Workspace WorkspaceConfig
	Edgar     EdgarConfig
	Analytics AnalyticsConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	AuditLogFilePath   string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	EventsTopic        string
}

type SessionConfig struct {
	Store      string // "memory" or "redis"
	TTLMinutes int
}

type WorkspaceConfig struct {
	// CacheDir is the shared cache root used outside production mode.
	CacheDir string
	// ScratchDir is the parent of the per-session production roots
	// (cache_<session_id> is derived underneath it).
	ScratchDir string
	// AnalysisCacheDir is the tabular-analysis engine scratch, cleared
	// whenever a session is created.
	AnalysisCacheDir string
	ProdMode         bool
}

type EdgarConfig struct {
	Organization string
	Email        string
}

type AnalyticsConfig struct {
	MixpanelToken string
	KitName       string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:8501"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			AuditLogFilePath:   getEnv("AUDIT_LOG_FILE_PATH", "logs/workspace_events.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:8501"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			EventsTopic:        getEnv("WORKSPACE_EVENTS_TOPIC", "WORKSPACE_EVENTS"),
		},
		Session: SessionConfig{
			Store:      getEnv("SESSION_STORE", "memory"),
			TTLMinutes: getEnvAsInt("SESSION_TTL_MINUTES", 60),
		},
		Workspace: WorkspaceConfig{
			CacheDir:         getEnv("WORKSPACE_CACHE_DIR", "cache"),
			ScratchDir:       getEnv("WORKSPACE_SCRATCH_DIR", "scratch/financial_assistant/cache"),
			AnalysisCacheDir: getEnv("ANALYSIS_CACHE_DIR", "analysis_cache"),
			ProdMode:         getEnvAsBool("PROD_MODE", false),
		},
		Edgar: EdgarConfig{
			Organization: getEnv("SEC_API_ORGANIZATION", ""),
			Email:        getEnv("SEC_API_EMAIL", ""),
		},
		Analytics: AnalyticsConfig{
			MixpanelToken: getEnv("MIXPANEL_TOKEN", ""),
			KitName:       getEnv("ANALYTICS_KIT_NAME", "financial_assistant"),
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

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}
