package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("ENV", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("CALL_PROVIDER", "")
	t.Setenv("DISPATCH_TIMEOUT", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")
	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port, got %s", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Fatalf("expected default env, got %s", cfg.Env)
	}
	if cfg.CallProvider != "auto" {
		t.Fatalf("expected default provider auto, got %s", cfg.CallProvider)
	}
	if cfg.DispatchTimeout != 15*time.Second {
		t.Fatalf("expected default dispatch timeout, got %s", cfg.DispatchTimeout)
	}
	if len(cfg.CORSAllowedOrigins) != 0 {
		t.Fatalf("expected no CORS origins by default, got %v", cfg.CORSAllowedOrigins)
	}
	if cfg.RateLimitBurst != 5 {
		t.Fatalf("expected default rate limit burst, got %d", cfg.RateLimitBurst)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CALL_PROVIDER", "Twilio")
	t.Setenv("TWILIO_ACCOUNT_SID", "AC123")
	t.Setenv("CALL_FROM_NUMBER", "+15550001111")
	t.Setenv("DISPATCH_TIMEOUT", "5s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com,")
	t.Setenv("RATE_LIMIT_RPS", "0.5")
	cfg := Load()
	if cfg.Port != "9090" {
		t.Fatalf("expected override port, got %s", cfg.Port)
	}
	if cfg.CallProvider != "twilio" {
		t.Fatalf("expected provider lowercased, got %s", cfg.CallProvider)
	}
	if cfg.TwilioAccountSID != "AC123" {
		t.Fatalf("expected twilio sid override, got %s", cfg.TwilioAccountSID)
	}
	if cfg.FromNumber != "+15550001111" {
		t.Fatalf("expected from number override, got %s", cfg.FromNumber)
	}
	if cfg.DispatchTimeout != 5*time.Second {
		t.Fatalf("expected dispatch timeout override, got %s", cfg.DispatchTimeout)
	}
	if len(cfg.CORSAllowedOrigins) != 2 {
		t.Fatalf("expected two CORS origins, got %v", cfg.CORSAllowedOrigins)
	}
	if cfg.RateLimitRPS != 0.5 {
		t.Fatalf("expected rate limit override, got %f", cfg.RateLimitRPS)
	}
}

func TestLoadInvalidDuration(t *testing.T) {
	t.Setenv("DISPATCH_TIMEOUT", "not-a-duration")
	cfg := Load()
	if cfg.DispatchTimeout != 15*time.Second {
		t.Fatalf("expected fallback to default timeout, got %s", cfg.DispatchTimeout)
	}
}
