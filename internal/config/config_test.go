package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.DB.Host != "localhost" || cfg.DB.Port != "5432" {
		t.Errorf("unexpected database defaults: %+v", cfg.DB)
	}
	if cfg.Notify.BigEventsPattern != "due" {
		t.Errorf("expected default bigevents pattern due, got %q", cfg.Notify.BigEventsPattern)
	}
	if cfg.Webhook.Timeout != 10*time.Second {
		t.Errorf("expected 10s webhook timeout, got %v", cfg.Webhook.Timeout)
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("BIGEVENTS_PATTERN", "due|overdue")
	t.Setenv("WEBHOOK_TIMEOUT", "3s")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("JWT_EXPIRATION_HOURS", "72")

	cfg := Load()
	if cfg.DB.Host != "db.internal" {
		t.Errorf("DB_HOST not honored, got %q", cfg.DB.Host)
	}
	if cfg.Notify.BigEventsPattern != "due|overdue" {
		t.Errorf("BIGEVENTS_PATTERN not honored, got %q", cfg.Notify.BigEventsPattern)
	}
	if cfg.Webhook.Timeout != 3*time.Second {
		t.Errorf("WEBHOOK_TIMEOUT not honored, got %v", cfg.Webhook.Timeout)
	}
	if !cfg.MinIO.UseSSL {
		t.Error("MINIO_USE_SSL not honored")
	}
	if cfg.JWT.ExpirationHours != 72 {
		t.Errorf("JWT_EXPIRATION_HOURS not honored, got %d", cfg.JWT.ExpirationHours)
	}
}

func TestLoadIgnoresMalformedEnvironment(t *testing.T) {
	t.Setenv("JWT_EXPIRATION_HOURS", "not-a-number")
	t.Setenv("WEBHOOK_TIMEOUT", "soon")
	t.Setenv("MINIO_USE_SSL", "perhaps")

	cfg := Load()
	if cfg.JWT.ExpirationHours != 24 {
		t.Errorf("malformed int must fall back, got %d", cfg.JWT.ExpirationHours)
	}
	if cfg.Webhook.Timeout != 10*time.Second {
		t.Errorf("malformed duration must fall back, got %v", cfg.Webhook.Timeout)
	}
	if cfg.MinIO.UseSSL {
		t.Error("malformed bool must fall back")
	}
}

func TestCompileBigEventsPattern(t *testing.T) {
	pattern, err := NotifyConfig{BigEventsPattern: "due"}.CompileBigEventsPattern()
	if err != nil {
		t.Fatalf("valid pattern rejected: %v", err)
	}
	if !pattern.MatchString("a-dueAt") || !pattern.MatchString("duenow") {
		t.Error("default pattern must match due-related activity types")
	}
	if pattern.MatchString("createCard") {
		t.Error("default pattern must not match unrelated types")
	}

	if _, err := (NotifyConfig{BigEventsPattern: "("}).CompileBigEventsPattern(); err == nil {
		t.Error("invalid pattern must fail compilation")
	}
}
