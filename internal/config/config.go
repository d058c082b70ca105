package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	AppEnv        string
	HTTPAddr      string
	RedisAddr     string
	RedisPassword string

	LLMProvider     string
	GeminiAPIKey    string
	DefaultLLMModel string

	// History is a capped log: oldest entries beyond HistoryCap are evicted,
	// and long text fields are truncated at HistoryMaxFieldChars before persistence.
	HistoryCap           int
	HistoryMaxFieldChars int

	// Render-readiness polling for platforms that defer markup to client-side JS.
	RenderMaxAttempts int
	RenderInterval    time.Duration

	// Optional YAML file overriding the built-in selector candidate lists.
	SelectorsFile string

	BrowserEnabled bool
	TaskMaxRetries int
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getenvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func getenvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func Load() Config {
	cfg := Config{
		AppEnv:        getenv("APP_ENV", "development"),
		HTTPAddr:      getenv("HTTP_ADDR", ":8082"),
		RedisAddr:     getenv("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		LLMProvider:     getenv("LLM_PROVIDER", "gemini"),
		GeminiAPIKey:    os.Getenv("GEMINI_API_KEY"),
		DefaultLLMModel: getenv("DEFAULT_LLM_MODEL", "gemini-1.5-flash"),

		HistoryCap:           getenvInt("HISTORY_CAP", 50),
		HistoryMaxFieldChars: getenvInt("HISTORY_MAX_FIELD_CHARS", 12000),

		RenderMaxAttempts: getenvInt("RENDER_MAX_ATTEMPTS", 10),
		RenderInterval:    time.Duration(getenvInt("RENDER_INTERVAL_MS", 500)) * time.Millisecond,

		SelectorsFile: os.Getenv("SELECTORS_FILE"),

		BrowserEnabled: getenvBool("BROWSER_ENABLED", true),
		TaskMaxRetries: getenvInt("TASK_MAX_RETRIES", 3),
	}
	if cfg.RedisAddr == "" {
		panic(fmt.Errorf("REDIS_ADDR is required"))
	}
	return cfg
}
