package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/iamasit07/four-in-a-row-bot/internal/service/bot"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Port           string
	AllowedOrigins []string

	LogLevel  string
	LogPretty bool

	DepthSchedule bot.DepthSchedule
	Pruning       bool
	MoveTimeout   time.Duration
	RandomSeed    int64 // 0 seeds from system entropy

	DatabaseURL          string
	DBMaxOpenConns       int
	DBMaxIdleConns       int
	DBConnMaxLifetimeMin int
	DecisionRetention    int // days

	RedisURL      string
	RedisPassword string
	SessionTTL    time.Duration

	JWTSecret string
	TokenTTL  time.Duration
}

// LoadEnvFiles loads .env from the working directory or its parent. A
// missing file is not an error.
func LoadEnvFiles() {
	if err := godotenv.Load(); err != nil {
		if err := godotenv.Load("../.env"); err != nil {
			log.Debug().Msg("no .env file found")
		}
	}
}

func LoadConfig() (*Config, error) {
	schedule := bot.DefaultSchedule
	if raw := GetEnv("DEPTH_SCHEDULE", ""); raw != "" {
		parsed, err := bot.ParseDepthSchedule(raw)
		if err != nil {
			return nil, fmt.Errorf("DEPTH_SCHEDULE: %w", err)
		}
		schedule = parsed
	}

	allowedOrigins := []string{"http://localhost:5173"}
	for _, origin := range strings.Split(GetEnv("ALLOWED_ORIGINS", ""), ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			allowedOrigins = append(allowedOrigins, trimmed)
		}
	}

	cfg := &Config{
		Port:           GetEnv("PORT", "8080"),
		AllowedOrigins: allowedOrigins,

		LogLevel:  GetEnv("LOG_LEVEL", "info"),
		LogPretty: GetEnvAsBool("LOG_PRETTY", false),

		DepthSchedule: schedule,
		Pruning:       GetEnvAsBool("PRUNING", true),
		MoveTimeout:   time.Duration(GetEnvAsInt("MOVE_TIMEOUT_MS", 0)) * time.Millisecond,
		RandomSeed:    int64(GetEnvAsInt("RANDOM_SEED", 0)),

		DatabaseURL:          GetEnv("DATABASE_URL", GetEnv("DATABASE_URI", "")),
		DBMaxOpenConns:       GetEnvAsInt("DB_MAX_OPEN_CONNS", 10),
		DBMaxIdleConns:       GetEnvAsInt("DB_MAX_IDLE_CONNS", 10),
		DBConnMaxLifetimeMin: GetEnvAsInt("DB_CONN_MAX_LIFETIME_MINUTES", 5),
		DecisionRetention:    GetEnvAsInt("DECISION_RETENTION_DAYS", 30),

		RedisURL:      GetEnv("REDIS_URL", ""),
		RedisPassword: GetEnv("REDIS_PASSWORD", ""),
		SessionTTL:    time.Duration(GetEnvAsInt("SESSION_TTL_MINUTES", 120)) * time.Minute,

		JWTSecret: GetEnv("JWT_SECRET", "your-secret-key-change-this-in-production"),
		TokenTTL:  time.Duration(GetEnvAsInt("TOKEN_TTL_HOURS", 24*30)) * time.Hour,
	}
	return cfg, nil
}

// EngineOptions turns the search settings into engine options.
func (c *Config) EngineOptions() []bot.Option {
	opts := []bot.Option{
		bot.WithSchedule(c.DepthSchedule),
		bot.WithPruning(c.Pruning),
	}
	if c.RandomSeed != 0 {
		opts = append(opts, bot.WithSeed(c.RandomSeed))
	}
	return opts
}

func GetEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func GetEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Warn().Str("key", key).Str("value", valueStr).Int("default", defaultValue).Msg("invalid integer value, using default")
		return defaultValue
	}
	return value
}

func GetEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Warn().Str("key", key).Str("value", valueStr).Bool("default", defaultValue).Msg("invalid boolean value, using default")
		return defaultValue
	}
	return value
}
