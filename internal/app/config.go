package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	gormLogger "gorm.io/gorm/logger"

	"github.com/yungbote/promptcraft-backend/internal/data/db"
	"github.com/yungbote/promptcraft-backend/internal/observability"
	"github.com/yungbote/promptcraft-backend/internal/platform/llm"
)

const ServiceName = "promptcraft"

type Config struct {
	LogMode  string `validate:"required"`
	LogLevel string `validate:"omitempty,oneof=debug info warn error"`
	Port     string `validate:"required,numeric"`
	Version  string

	DB  db.Config
	LLM llm.Config

	RedisAddr string
	RedisTTL  time.Duration

	RateLimitRPS   float64 `validate:"gte=0"`
	RateLimitBurst int     `validate:"gte=0"`
	CORSOrigins    []string

	Otel observability.OtelConfig
}

// LoadConfig reads an optional .env, then the optional config file, then the
// environment. Environment values win.
func LoadConfig(cfgFile string) (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if strings.TrimSpace(cfgFile) != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	} else {
		v.SetConfigName("promptcraft")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	cfg := Config{
		LogMode:  v.GetString("LOG_MODE"),
		LogLevel: strings.ToLower(strings.TrimSpace(v.GetString("LOG_LEVEL"))),
		Port:     strings.TrimSpace(v.GetString("PORT")),
		DB: db.Config{
			Driver:           strings.ToLower(strings.TrimSpace(v.GetString("DB_DRIVER"))),
			PostgresDSN:      v.GetString("POSTGRES_DSN"),
			PostgresHost:     v.GetString("POSTGRES_HOST"),
			PostgresPort:     v.GetString("POSTGRES_PORT"),
			PostgresUser:     v.GetString("POSTGRES_USER"),
			PostgresPassword: v.GetString("POSTGRES_PASSWORD"),
			PostgresName:     v.GetString("POSTGRES_NAME"),
			SQLitePath:       v.GetString("SQLITE_PATH"),
			ConnectAttempts:  v.GetUint("DB_CONNECT_ATTEMPTS"),
			ConnectDelay:     time.Duration(v.GetInt("DB_CONNECT_DELAY_MS")) * time.Millisecond,
			LogLevel:         gormLevel(v.GetString("DB_LOG_LEVEL")),
		},
		LLM: llm.Config{
			Provider:      strings.ToLower(strings.TrimSpace(v.GetString("LLM_PROVIDER"))),
			Model:         strings.TrimSpace(v.GetString("LLM_MODEL")),
			Temperature:   v.GetFloat64("LLM_TEMPERATURE"),
			GoogleAPIKey:  v.GetString("GOOGLE_API_KEY"),
			OpenAIAPIKey:  v.GetString("OPENAI_API_KEY"),
			OpenAIBaseURL: v.GetString("OPENAI_BASE_URL"),
			Timeout:       time.Duration(v.GetInt("LLM_TIMEOUT_SECONDS")) * time.Second,
		},
		RedisAddr:      strings.TrimSpace(v.GetString("REDIS_ADDR")),
		RedisTTL:       time.Duration(v.GetInt("REDIS_TTL_SECONDS")) * time.Second,
		RateLimitRPS:   v.GetFloat64("RATE_LIMIT_RPS"),
		RateLimitBurst: v.GetInt("RATE_LIMIT_BURST"),
		CORSOrigins:    splitList(v.GetString("CORS_ORIGINS")),
		Otel: observability.OtelConfig{
			Enabled:      v.GetBool("OTEL_ENABLED"),
			ServiceName:  v.GetString("OTEL_SERVICE_NAME"),
			Environment:  v.GetString("LOG_MODE"),
			Exporter:     strings.ToLower(strings.TrimSpace(v.GetString("OTEL_EXPORTER"))),
			OTLPEndpoint: v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT"),
			OTLPInsecure: v.GetBool("OTEL_EXPORTER_OTLP_INSECURE"),
			SampleRatio:  v.GetFloat64("OTEL_SAMPLE_RATIO"),
		},
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("LOG_MODE", "development")
	v.SetDefault("LOG_LEVEL", "")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DB_DRIVER", db.DriverPostgres)
	v.SetDefault("POSTGRES_HOST", "localhost")
	v.SetDefault("POSTGRES_PORT", "5432")
	v.SetDefault("POSTGRES_USER", "postgres")
	v.SetDefault("POSTGRES_PASSWORD", "")
	v.SetDefault("POSTGRES_NAME", "promptcraft")
	v.SetDefault("POSTGRES_DSN", "")
	v.SetDefault("SQLITE_PATH", "promptcraft.db")
	v.SetDefault("DB_CONNECT_ATTEMPTS", 5)
	v.SetDefault("DB_CONNECT_DELAY_MS", 1000)
	v.SetDefault("DB_LOG_LEVEL", "warn")
	v.SetDefault("LLM_PROVIDER", llm.ProviderGemini)
	v.SetDefault("LLM_MODEL", "")
	v.SetDefault("LLM_TEMPERATURE", 0.2)
	v.SetDefault("GOOGLE_API_KEY", "")
	v.SetDefault("OPENAI_API_KEY", "")
	v.SetDefault("OPENAI_BASE_URL", "")
	v.SetDefault("LLM_TIMEOUT_SECONDS", 0)
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_TTL_SECONDS", 3600)
	v.SetDefault("RATE_LIMIT_RPS", 1.0)
	v.SetDefault("RATE_LIMIT_BURST", 5)
	v.SetDefault("CORS_ORIGINS", "")
	v.SetDefault("OTEL_ENABLED", false)
	v.SetDefault("OTEL_SERVICE_NAME", ServiceName)
	v.SetDefault("OTEL_EXPORTER", "stdout")
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	v.SetDefault("OTEL_EXPORTER_OTLP_INSECURE", false)
	v.SetDefault("OTEL_SAMPLE_RATIO", 1.0)
}

// Validate checks the settings that would otherwise fail late.
func (c Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := v.Var(c.DB.Driver, "oneof=postgres sqlite"); err != nil {
		return fmt.Errorf("invalid DB_DRIVER %q", c.DB.Driver)
	}
	if err := v.Var(c.LLM.Provider, "oneof=gemini openai"); err != nil {
		return fmt.Errorf("invalid LLM_PROVIDER %q", c.LLM.Provider)
	}
	if err := v.Var(c.LLM.Temperature, "gte=0,lte=2"); err != nil {
		return fmt.Errorf("invalid LLM_TEMPERATURE %v", c.LLM.Temperature)
	}
	if c.Otel.Enabled {
		if err := v.Var(c.Otel.Exporter, "oneof=stdout otlp none"); err != nil {
			return fmt.Errorf("invalid OTEL_EXPORTER %q", c.Otel.Exporter)
		}
	}
	return nil
}

func (c Config) Addr() string { return ":" + c.Port }

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func gormLevel(raw string) gormLogger.LogLevel {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "silent":
		return gormLogger.Silent
	case "error":
		return gormLogger.Error
	case "info":
		return gormLogger.Info
	default:
		return gormLogger.Warn
	}
}
