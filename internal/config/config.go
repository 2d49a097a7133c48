package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// app config, read once at startup
type Config struct {
	Port     string
	Provider string

	SessionStore   string // "memory" or "redis"
	RedisAddr      string
	SessionTTL     time.Duration
	SessionLockTTL time.Duration
	SweepSchedule  string

	QuestionSource      string // "llm" or "bank"
	MongoURI            string
	QuestionsDB         string
	QuestionsCollection string

	Postgres PostgresConfig

	HistoryExportEnabled  bool
	HistoryExportSchedule string
	HistoryExportDir      string

	ClosingWindow      float64
	MinDurationMinutes int
	MaxDurationMinutes int
	MaxTurns           int
	ResumeNameCheck    bool

	AllowedOrigins []string
}

type PostgresConfig struct {
	Host     string
	User     string
	Password string
	DB       string
	Port     string
	SSLMode  string
}

// Enabled reports whether enough is configured to try connecting
func (p PostgresConfig) Enabled() bool {
	return p.Host != "" && p.User != "" && p.DB != ""
}

func (p PostgresConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		p.Host, p.User, p.Password, p.DB, p.Port, p.SSLMode)
}

// loads configuration from environment variables
func LoadConfig() (*Config, error) {
	var errs []error

	config := &Config{
		Port:     getEnvOrDefault("PORT", "8080"),
		Provider: getEnvOrDefault("AI_PROVIDER", "gemini"),

		SessionStore:   strings.ToLower(getEnvOrDefault("SESSION_STORE", "memory")),
		RedisAddr:      getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		SessionTTL:     getDuration("SESSION_TTL", 2*time.Hour, &errs),
		SessionLockTTL: getDuration("SESSION_LOCK_TTL", 2*time.Minute, &errs),
		SweepSchedule:  getEnvOrDefault("SESSION_SWEEP_SCHEDULE", "@every 5m"),

		QuestionSource:      strings.ToLower(getEnvOrDefault("QUESTION_SOURCE", "llm")),
		MongoURI:            os.Getenv("MONGO_URI"),
		QuestionsDB:         getEnvOrDefault("QUESTIONS_DB_NAME", "peerprep"),
		QuestionsCollection: getEnvOrDefault("QUESTIONS_COLLECTION", "interview_questions"),

		Postgres: PostgresConfig{
			Host:     os.Getenv("POSTGRES_HOST"),
			User:     os.Getenv("POSTGRES_USER"),
			Password: os.Getenv("POSTGRES_PASSWORD"),
			DB:       os.Getenv("POSTGRES_DB"),
			Port:     getEnvOrDefault("POSTGRES_PORT", "5432"),
			SSLMode:  getEnvOrDefault("POSTGRES_SSLMODE", "disable"),
		},

		HistoryExportEnabled:  getBool("HISTORY_EXPORT_ENABLED", false, &errs),
		HistoryExportSchedule: getEnvOrDefault("HISTORY_EXPORT_SCHEDULE", "0 3 * * *"),
		HistoryExportDir:      getEnvOrDefault("HISTORY_EXPORT_DIR", "./exports"),

		ClosingWindow:      getFloat("CLOSING_WINDOW_FRACTION", 0.10, &errs),
		MinDurationMinutes: getInt("MIN_DURATION_MINUTES", 3, &errs),
		MaxDurationMinutes: getInt("MAX_DURATION_MINUTES", 45, &errs),
		MaxTurns:           getInt("MAX_TURNS", 20, &errs),
		ResumeNameCheck:    getBool("RESUME_NAME_CHECK", false, &errs),

		AllowedOrigins: splitList(getEnvOrDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173")),
	}

	if err := validateConfig(config); err != nil {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return config, nil
}

func validateConfig(config *Config) error {
	var errs []error
	if config.Provider != "gemini" {
		errs = append(errs, errors.New("unsupported AI provider: "+config.Provider+". Currently supported: gemini"))
	}
	// Gemini validation is handled by gemini.NewConfig()
	if config.SessionStore != "memory" && config.SessionStore != "redis" {
		errs = append(errs, fmt.Errorf("SESSION_STORE must be memory or redis, got %q", config.SessionStore))
	}
	if config.QuestionSource != "llm" && config.QuestionSource != "bank" {
		errs = append(errs, fmt.Errorf("QUESTION_SOURCE must be llm or bank, got %q", config.QuestionSource))
	}
	if config.QuestionSource == "bank" && config.MongoURI == "" {
		errs = append(errs, errors.New("MONGO_URI is required when QUESTION_SOURCE=bank"))
	}
	if config.ClosingWindow < 0 || config.ClosingWindow >= 1 {
		errs = append(errs, fmt.Errorf("CLOSING_WINDOW_FRACTION must be in [0, 1), got %v", config.ClosingWindow))
	}
	if config.MinDurationMinutes < 1 || config.MaxDurationMinutes < config.MinDurationMinutes {
		errs = append(errs, fmt.Errorf("invalid duration bounds %d..%d", config.MinDurationMinutes, config.MaxDurationMinutes))
	}
	if config.MaxTurns < 1 {
		errs = append(errs, fmt.Errorf("MAX_TURNS must be positive, got %d", config.MaxTurns))
	}
	if config.SessionLockTTL <= 0 {
		errs = append(errs, errors.New("SESSION_LOCK_TTL must be positive"))
	}
	return errors.Join(errs...)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, def int, errs *[]error) int {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return v
}

func getFloat(key string, def float64, errs *[]error) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return v
}

func getBool(key string, def bool, errs *[]error) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return v
}

func getDuration(key string, def time.Duration, errs *[]error) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return v
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
