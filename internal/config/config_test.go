package config

import (
	"errors"
	"testing"
	"time"

	"github.com/iamasit07/four-in-a-row-bot/internal/service/bot"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "DEPTH_SCHEDULE", "PRUNING", "MOVE_TIMEOUT_MS", "RANDOM_SEED", "SESSION_TTL_MINUTES"} {
		t.Setenv(key, "")
	}

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8080" || !cfg.Pruning || cfg.MoveTimeout != 0 {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.DepthSchedule.String() != bot.DefaultSchedule.String() {
		t.Fatalf("expected default schedule, got %s", cfg.DepthSchedule)
	}
	if cfg.SessionTTL != 2*time.Hour {
		t.Fatalf("expected 2h session ttl, got %s", cfg.SessionTTL)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("DEPTH_SCHEDULE", "0:3,10:6")
	t.Setenv("PRUNING", "false")
	t.Setenv("MOVE_TIMEOUT_MS", "750")
	t.Setenv("RANDOM_SEED", "17")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, ,https://b.example")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DepthSchedule.Depth(12) != 6 || cfg.Pruning || cfg.MoveTimeout != 750*time.Millisecond || cfg.RandomSeed != 17 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if len(cfg.AllowedOrigins) != 3 {
		t.Fatalf("expected 3 origins, got %v", cfg.AllowedOrigins)
	}
	if len(cfg.EngineOptions()) != 3 {
		t.Fatal("seeded config should add a seed option")
	}
}

func TestLoadConfigBadSchedule(t *testing.T) {
	t.Setenv("DEPTH_SCHEDULE", "0:9,5:3")
	if _, err := LoadConfig(); !errors.Is(err, bot.ErrInvalidSchedule) {
		t.Fatalf("expected ErrInvalidSchedule, got %v", err)
	}
}

func TestGetEnvAsIntFallsBack(t *testing.T) {
	t.Setenv("SOME_INT", "nope")
	if got := GetEnvAsInt("SOME_INT", 4); got != 4 {
		t.Fatalf("expected default 4, got %d", got)
	}
	t.Setenv("SOME_BOOL", "maybe")
	if got := GetEnvAsBool("SOME_BOOL", true); !got {
		t.Fatal("expected default true")
	}
}
