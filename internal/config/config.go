package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config represents runtime configuration for the service.
type Config struct {
	BasicConfig BasicConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	LLM         ProviderConfig
	APIKeys     APIKeys
	Banking     BankingConfig
	Widgets     WidgetConfig
}

type BasicConfig struct {
	ServerAddress string
	Debug         bool
	CORSOrigins   []string
}

type DatabaseConfig struct {
	Driver string
	URL    string
}

type RedisConfig struct {
	URL string
}

// ProviderConfig selects the hosted model used for chat.
type ProviderConfig struct {
	Provider       string
	Model          string
	APIKey         string
	BaseURL        string
	GoogleProject  string
	VertexLocation string
}

type APIKeys struct {
	OpenWeather          string
	AlphaVantage         string
	News                 string
	GoogleSearch         string
	GoogleSearchEngineID string
	NewsWebSearch        bool
}

type BankingConfig struct {
	BaseURL     string
	MockEnabled bool
}

type WidgetConfig struct {
	CacheTTL              time.Duration
	CachePurgeInterval    time.Duration
	MaxWidgetsPerResponse int
}

// Load reads an optional .env file and then the process environment.
func Load() *Config {
	envFile := getEnvDefault("WIDGETCHAT_ENV_FILE", ".env")
	if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
		log.Printf("load env file %s: %v", envFile, err)
	}

	cfg := &Config{
		BasicConfig: BasicConfig{
			ServerAddress: getEnvDefault("SERVER_ADDRESS", ":8000"),
			Debug:         getEnvBoolDefault("DEBUG", true),
			CORSOrigins:   getEnvListDefault("CORS_ORIGINS", []string{"http://localhost:4200"}),
		},
		Database: DatabaseConfig{
			Driver: strings.ToLower(getEnvDefault("DATABASE_DRIVER", "sqlite")),
			URL:    getEnvDefault("DATABASE_URL", "./ai_widget_chat.db"),
		},
		Redis: RedisConfig{
			URL: os.Getenv("REDIS_URL"),
		},
		LLM: ProviderConfig{
			Provider:       strings.ToLower(getEnvDefault("LLM_PROVIDER", "vertex")),
			Model:          os.Getenv("LLM_MODEL"),
			APIKey:         os.Getenv("LLM_API_KEY"),
			BaseURL:        os.Getenv("LLM_BASE_URL"),
			GoogleProject:  os.Getenv("GOOGLE_CLOUD_PROJECT"),
			VertexLocation: getEnvDefault("VERTEX_AI_LOCATION", "us-central1"),
		},
		APIKeys: APIKeys{
			OpenWeather:          os.Getenv("OPENWEATHER_API_KEY"),
			AlphaVantage:         os.Getenv("ALPHA_VANTAGE_API_KEY"),
			News:                 os.Getenv("NEWS_API_KEY"),
			GoogleSearch:         os.Getenv("GOOGLE_API_KEY"),
			GoogleSearchEngineID: os.Getenv("GOOGLE_SEARCH_ENGINE_ID"),
			NewsWebSearch:        getEnvBoolDefault("NEWS_WEB_SEARCH_ENABLED", false),
		},
		Banking: BankingConfig{
			BaseURL:     getEnvDefault("BANKING_API_BASE_URL", "https://api.banking.example.com"),
			MockEnabled: getEnvBoolDefault("BANKING_MOCK_ENABLED", true),
		},
		Widgets: WidgetConfig{
			CacheTTL:              time.Duration(getEnvIntDefault("WIDGET_CACHE_TTL", 300)) * time.Second,
			CachePurgeInterval:    time.Duration(getEnvIntDefault("WIDGET_CACHE_PURGE_INTERVAL", 10)) * time.Minute,
			MaxWidgetsPerResponse: getEnvIntDefault("MAX_WIDGETS_PER_RESPONSE", 5),
		},
	}
	if cfg.LLM.Provider != "none" && cfg.LLM.APIKey == "" && cfg.LLM.GoogleProject == "" {
		log.Println("warning: no LLM credentials configured; chat falls back to keyword dispatch")
	}
	return cfg
}

func getEnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvListDefault(key string, def []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			s := strings.TrimSpace(p)
			if s != "" {
				out = append(out, s)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return def
}

func getEnvBoolDefault(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return def
}

func getEnvIntDefault(key string, def int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
		log.Printf("invalid integer for %s: %q", key, v)
	}
	return def
}
