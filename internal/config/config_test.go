package config_test

import (
	"strings"
	"testing"
	"time"

	"emergencyHub/internal/config"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := config.Parse()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Http.Port != ":8080" || cfg.Storage.Driver != config.StorageMemory {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Incident.MediaCap != 20 || cfg.Incident.MaxRetries != 3 {
		t.Fatalf("unexpected incident defaults: %+v", cfg.Incident)
	}
	if cfg.Scoring.DecayGrace != 24*time.Hour || cfg.Scoring.DecayInterval != 6*time.Hour {
		t.Fatalf("unexpected scoring defaults: %+v", cfg.Scoring)
	}
	if cfg.WebhookEnabled() {
		t.Fatalf("webhooks need a url and redis")
	}
}

func TestParse_Overrides(t *testing.T) {
	t.Setenv("HTTP_PORT", ":9090")
	t.Setenv("STORAGE_DRIVER", "postgres")
	t.Setenv("INCIDENT_MEDIA_CAP", "5")
	t.Setenv("SCORE_DECAY_INTERVAL", "1h")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("WEBHOOK_URL", "http://hooks.local/in")

	cfg, err := config.Parse()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Http.Port != ":9090" || cfg.Storage.Driver != config.StoragePostgres {
		t.Fatalf("overrides ignored: %+v", cfg)
	}
	if cfg.Incident.MediaCap != 5 || cfg.Scoring.DecayInterval != time.Hour {
		t.Fatalf("overrides ignored: %+v %+v", cfg.Incident, cfg.Scoring)
	}
	if !cfg.WebhookEnabled() {
		t.Fatalf("expected webhooks enabled")
	}
}

func TestParse_Invalid(t *testing.T) {
	cases := map[string][2]string{
		"port":    {"HTTP_PORT", "8080"},
		"driver":  {"STORAGE_DRIVER", "mongo"},
		"media":   {"INCIDENT_MEDIA_CAP", "0"},
		"retries": {"INCIDENT_MAX_RETRIES", "0"},
		"decay":   {"SCORE_DECAY_INTERVAL", "0s"},
		"garbage": {"INCIDENT_CACHE_TTL", "soon"},
	}

	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv(kv[0], kv[1])
			if _, err := config.Parse(); err == nil {
				t.Fatalf("expected error for %s=%s", kv[0], kv[1])
			}
		})
	}
}

func TestValidate_PostgresHost(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "postgres")

	cfg, err := config.Parse()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	cfg.Postgres.Host = ""
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "POSTGRES_HOST") {
		t.Fatalf("expected POSTGRES_HOST error, got %v", err)
	}
}
