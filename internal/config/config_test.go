package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadReadsYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := []byte(`
env: production
server:
  port: "9090"
redis:
  addr: localhost:6379
  ttl: 5m
quiz:
  size: 5
  session_ttl: 10m
stats:
  recent_window: 4
storage:
  path: /tmp/questions.json
`)
	if err := os.WriteFile(path, yaml, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Env != "production" || cfg.Server.Port != "9090" || cfg.Redis.Addr != "localhost:6379" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.Quiz.Size != 5 || cfg.Stats.RecentWindow != 4 || cfg.Storage.Path != "/tmp/questions.json" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.Quiz.SessionTTL != "10m" {
		t.Fatalf("expected session ttl 10m, got %q", cfg.Quiz.SessionTTL)
	}
	if cfg.Mongo.Database != "vocab_quiz" {
		t.Fatalf("expected default mongo database, got %q", cfg.Mongo.Database)
	}
}

func TestLoadMissingFileUsesDefaultsAndEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "7070")
	t.Setenv("POSTGRES_URL", "postgres://example")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != "7070" || cfg.Postgres.URL != "postgres://example" {
		t.Fatalf("expected env overrides, got %+v", cfg)
	}
	if cfg.Env != "local" || cfg.Quiz.Size != 10 || cfg.Stats.RecentWindow != 3 || cfg.Quiz.SessionTTL != "30m" {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestTTLDuration(t *testing.T) {
	if d := TTLDuration("", time.Minute); d != time.Minute {
		t.Fatalf("expected fallback, got %v", d)
	}
	if d := TTLDuration("bogus", time.Minute); d != time.Minute {
		t.Fatalf("expected fallback for bad input, got %v", d)
	}
	if d := TTLDuration("90s", time.Minute); d != 90*time.Second {
		t.Fatalf("expected 90s, got %v", d)
	}
}
