package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	StoreBackendFile     = "file"
	StoreBackendPostgres = "postgres"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Log       LogConfig
	CORS      CORSConfig
	Store     StoreConfig
	Agent     AgentConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Stats     StatsConfig
	LLM       LLMConfig
	RateLimit RateLimitConfig
	Events    EventsConfig
}

type LogConfig struct {
	Level  string
	Format string
}

type CORSConfig struct {
	AllowedOrigins []string
}

// StoreConfig selects where record collections are persisted.
type StoreConfig struct {
	Backend string
	DataDir string
}

// AgentConfig tunes command extraction and creation policies.
type AgentConfig struct {
	LenientCreation bool
	QuoteAwareScan  bool
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// StatsConfig governs caching of the aggregate statistics.
type StatsConfig struct {
	CacheEnabled bool
	CacheTTL     time.Duration
}

// LLMConfig configures the chat completion collaborator.
type LLMConfig struct {
	Enabled     bool
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// RateLimitConfig bounds the chat endpoint.
type RateLimitConfig struct {
	ChatPerSecond float64
	ChatBurst     int
}

// EventsConfig toggles record mutation events.
type EventsConfig struct {
	Enabled    bool
	Brokers    []string
	Topic      string
	Workers    int
	BufferSize int
	MaxRetries int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Store = StoreConfig{
		Backend: strings.ToLower(strings.TrimSpace(v.GetString("STORE_BACKEND"))),
		DataDir: v.GetString("DATA_DIR"),
	}
	if cfg.Store.Backend != StoreBackendPostgres {
		cfg.Store.Backend = StoreBackendFile
	}

	cfg.Agent = AgentConfig{
		LenientCreation: v.GetBool("LENIENT_CREATION"),
		QuoteAwareScan:  v.GetBool("EXTRACTOR_QUOTE_AWARE"),
	}

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.Stats = StatsConfig{
		CacheEnabled: v.GetBool("ENABLE_STATS_CACHE"),
		CacheTTL:     parseDuration(v.GetString("STATS_CACHE_TTL"), 5*time.Minute),
	}

	maxTokens := v.GetInt("LLM_MAX_TOKENS")
	if maxTokens <= 0 {
		maxTokens = 500
	}
	cfg.LLM = LLMConfig{
		Enabled:     v.GetBool("LLM_ENABLED"),
		APIKey:      v.GetString("OPENAI_API_KEY"),
		Model:       v.GetString("LLM_MODEL"),
		BaseURL:     v.GetString("LLM_BASE_URL"),
		Temperature: v.GetFloat64("LLM_TEMPERATURE"),
		MaxTokens:   maxTokens,
		Timeout:     parseDuration(v.GetString("LLM_TIMEOUT"), 30*time.Second),
	}

	cfg.RateLimit = RateLimitConfig{
		ChatPerSecond: v.GetFloat64("CHAT_RATE_LIMIT"),
		ChatBurst:     v.GetInt("CHAT_RATE_BURST"),
	}

	cfg.Events = EventsConfig{
		Enabled:    v.GetBool("ENABLE_EVENTS"),
		Brokers:    splitAndTrim(v.GetString("KAFKA_BROKERS")),
		Topic:      v.GetString("KAFKA_TOPIC"),
		Workers:    v.GetInt("EVENTS_WORKERS"),
		BufferSize: v.GetInt("EVENTS_BUFFER"),
		MaxRetries: v.GetInt("EVENTS_MAX_RETRIES"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("ALLOWED_ORIGINS", "")

	v.SetDefault("STORE_BACKEND", StoreBackendFile)
	v.SetDefault("DATA_DIR", "./data")
	v.SetDefault("LENIENT_CREATION", true)
	v.SetDefault("EXTRACTOR_QUOTE_AWARE", false)

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "edu_agent")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("ENABLE_STATS_CACHE", false)
	v.SetDefault("STATS_CACHE_TTL", "5m")
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("LLM_ENABLED", false)
	v.SetDefault("OPENAI_API_KEY", "")
	v.SetDefault("LLM_MODEL", "gpt-3.5-turbo")
	v.SetDefault("LLM_BASE_URL", "")
	v.SetDefault("LLM_TEMPERATURE", 0.7)
	v.SetDefault("LLM_MAX_TOKENS", 500)
	v.SetDefault("LLM_TIMEOUT", "30s")

	v.SetDefault("CHAT_RATE_LIMIT", 5)
	v.SetDefault("CHAT_RATE_BURST", 10)

	v.SetDefault("ENABLE_EVENTS", false)
	v.SetDefault("KAFKA_BROKERS", "localhost:9092")
	v.SetDefault("KAFKA_TOPIC", "edu.records")
	v.SetDefault("EVENTS_WORKERS", 1)
	v.SetDefault("EVENTS_BUFFER", 64)
	v.SetDefault("EVENTS_MAX_RETRIES", 3)
}

// viper reports a missing explicit config file as a plain fs error rather than ConfigFileNotFoundError.
func isMissingFile(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
