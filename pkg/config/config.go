package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Upstream   UpstreamConfig
	Upload     UploadConfig
	Sessions   SessionsConfig
	Categories CategoriesConfig
	Redis      RedisConfig
	CORS       CORSConfig
	Log        LogConfig
}

// UpstreamConfig locates the external course-management and media-ingestion APIs.
type UpstreamConfig struct {
	CoursesBaseURL string
	MediaUploadURL string
	RequestTimeout time.Duration
}

// UploadConfig tunes the media upload pipeline.
type UploadConfig struct {
	FieldName        string
	MaxFileSizeBytes int64
	Timeout          time.Duration
}

// SessionsConfig controls the in-memory authoring session registry.
type SessionsConfig struct {
	IdleTTL       time.Duration
	SweepInterval time.Duration
}

// CategoriesConfig governs the read-through cache for upstream categories.
type CategoriesConfig struct {
	CacheEnabled bool
	CacheTTL     time.Duration
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
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
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Upstream = UpstreamConfig{
		CoursesBaseURL: strings.TrimRight(v.GetString("COURSES_API_BASE_URL"), "/"),
		MediaUploadURL: v.GetString("MEDIA_UPLOAD_URL"),
		RequestTimeout: parseDuration(v.GetString("UPSTREAM_REQUEST_TIMEOUT"), 15*time.Second),
	}

	maxUploadSize := v.GetInt64("UPLOAD_MAX_FILE_SIZE")
	if maxUploadSize <= 0 {
		maxUploadSize = 100 * 1024 * 1024
	}
	cfg.Upload = UploadConfig{
		FieldName:        v.GetString("UPLOAD_FIELD_NAME"),
		MaxFileSizeBytes: maxUploadSize,
		Timeout:          parseDuration(v.GetString("UPLOAD_TIMEOUT"), 10*time.Minute),
	}

	cfg.Sessions = SessionsConfig{
		IdleTTL:       parseDuration(v.GetString("SESSION_IDLE_TTL"), 30*time.Minute),
		SweepInterval: parseDuration(v.GetString("SESSION_SWEEP_INTERVAL"), 5*time.Minute),
	}

	cfg.Categories = CategoriesConfig{
		CacheEnabled: v.GetBool("ENABLE_CATEGORY_CACHE"),
		CacheTTL:     parseDuration(v.GetString("CATEGORY_CACHE_TTL"), 10*time.Minute),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("COURSES_API_BASE_URL", "http://localhost:3000/api")
	v.SetDefault("MEDIA_UPLOAD_URL", "http://localhost:3000/api/upload/video")
	v.SetDefault("UPSTREAM_REQUEST_TIMEOUT", "15s")

	v.SetDefault("UPLOAD_FIELD_NAME", "video")
	v.SetDefault("UPLOAD_MAX_FILE_SIZE", 100*1024*1024)
	v.SetDefault("UPLOAD_TIMEOUT", "10m")

	v.SetDefault("SESSION_IDLE_TTL", "30m")
	v.SetDefault("SESSION_SWEEP_INTERVAL", "5m")

	v.SetDefault("ENABLE_CATEGORY_CACHE", false)
	v.SetDefault("CATEGORY_CACHE_TTL", "10m")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
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
