package config

import (
	"testing"
	"time"

	"github.com/quinielago/quiniela-api/internal/platform/logging"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_JWTSecretRequired(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("JWT_SECRET", "")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error when JWT_SECRET is empty")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.ServiceName != "quiniela-api" {
		t.Fatalf("unexpected ServiceName: %q", cfg.ServiceName)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("unexpected HTTPAddr: %q", cfg.HTTPAddr)
	}
	if cfg.JWTTTL != 168*time.Hour {
		t.Fatalf("unexpected JWTTTL: %s", cfg.JWTTTL)
	}
	if cfg.FrontendBaseURL != "http://localhost:5173" {
		t.Fatalf("unexpected FrontendBaseURL: %q", cfg.FrontendBaseURL)
	}
	if cfg.ScoringWorkers != 4 {
		t.Fatalf("unexpected ScoringWorkers: %d", cfg.ScoringWorkers)
	}
	if !cfg.CacheEnabled || cfg.CacheTTL != time.Minute {
		t.Fatalf("unexpected cache config: %v %s", cfg.CacheEnabled, cfg.CacheTTL)
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
		t.Fatalf("unexpected CORSAllowedOrigins: %v", cfg.CORSAllowedOrigins)
	}
	if cfg.LogLevel != logging.LevelInfo {
		t.Fatalf("unexpected LogLevel: %v", cfg.LogLevel)
	}
}

func TestLoad_FrontendBaseURLTrimsTrailingSlash(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("FRONTEND_BASE_URL", "https://quiniela.example.com/")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.FrontendBaseURL != "https://quiniela.example.com" {
		t.Fatalf("unexpected FrontendBaseURL: %q", cfg.FrontendBaseURL)
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_PyroscopeRequiresServerAddressWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when PYROSCOPE_ENABLED=true without server address")
	}
}

func TestLoad_ScoringWorkersValidation(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("SCORING_WORKERS", "0")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for SCORING_WORKERS=0")
	}
}
