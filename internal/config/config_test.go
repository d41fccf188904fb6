package config

import (
	"strings"
	"testing"
	"time"

	"go.uber.org/zap/zapcore"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPAddr != "127.0.0.1:8080" || cfg.TaxYear != 2020 || cfg.Locale != "de" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.SessionTTL != time.Hour {
		t.Fatalf("session ttl = %v", cfg.SessionTTL)
	}
	if cfg.Period().Year != 2020 {
		t.Fatalf("period = %v", cfg.Period())
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("LOTSE_HTTP_ADDR", ":9000")
	t.Setenv("LOTSE_TAX_YEAR", "2021")
	t.Setenv("LOTSE_DEBUG_DATA", "true")
	t.Setenv("LOTSE_LOG_LEVEL", "debug")
	t.Setenv("LOTSE_SESSION_TTL", "30m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPAddr != ":9000" || cfg.TaxYear != 2021 || !cfg.DebugData || cfg.SessionTTL != 30*time.Minute {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	logger, err := cfg.Logger()
	if err != nil {
		t.Fatalf("Logger: %v", err)
	}
	if !logger.Core().Enabled(zapcore.DebugLevel) {
		t.Fatalf("expected debug level to be enabled")
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string][2]string{
		"year":  {"LOTSE_TAX_YEAR", "12"},
		"level": {"LOTSE_LOG_LEVEL", "loud"},
		"ttl":   {"LOTSE_SESSION_TTL", "0s"},
		"parse": {"LOTSE_TAX_YEAR", "twenty"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv(kv[0], kv[1])
			_, err := Load()
			if err == nil || !strings.HasPrefix(err.Error(), "config:") {
				t.Fatalf("expected config error, got %v", err)
			}
		})
	}
}
