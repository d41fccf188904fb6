// Package config reads the process configuration of the lotse binary from
// environment variables. Command line flags override the values afterwards.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/goliatone/go-lotse/pkg/taxperiod"
)

// Config holds every setting of the server and the CLI commands.
type Config struct {
	HTTPAddr string `env:"LOTSE_HTTP_ADDR" envDefault:"127.0.0.1:8080"`
	TaxYear  int    `env:"LOTSE_TAX_YEAR"  envDefault:"2020"`
	Locale   string `env:"LOTSE_LOCALE"    envDefault:"de"`

	LogLevel string `env:"LOTSE_LOG_LEVEL" envDefault:"info"`
	LogDev   bool   `env:"LOTSE_LOG_DEV"`

	// FlowDir points at a directory of step definition files. The
	// embedded definition is used when empty.
	FlowDir string `env:"LOTSE_FLOW_DIR"`
	// DebugData prefills new sessions with sample answers.
	DebugData bool `env:"LOTSE_DEBUG_DATA"`

	ReadTimeout     time.Duration `env:"LOTSE_READ_TIMEOUT"     envDefault:"10s"`
	WriteTimeout    time.Duration `env:"LOTSE_WRITE_TIMEOUT"    envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"LOTSE_SHUTDOWN_TIMEOUT" envDefault:"5s"`
	SessionTTL      time.Duration `env:"LOTSE_SESSION_TTL"      envDefault:"1h"`
	// SecureCookies marks the session cookie Secure; enable behind TLS.
	SecureCookies bool `env:"LOTSE_SECURE_COOKIES"`
}

// Load parses the environment into a Config and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values env parsing cannot.
func (c Config) Validate() error {
	if c.HTTPAddr == "" {
		return errors.New("config: LOTSE_HTTP_ADDR is empty")
	}
	if _, err := taxperiod.New(c.TaxYear); err != nil {
		return fmt.Errorf("config: LOTSE_TAX_YEAR: %w", err)
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: LOTSE_LOG_LEVEL: %w", err)
	}
	if c.SessionTTL <= 0 {
		return errors.New("config: LOTSE_SESSION_TTL must be positive")
	}
	return nil
}

// Period returns the configured tax period.
func (c Config) Period() taxperiod.Period {
	period, err := taxperiod.New(c.TaxYear)
	if err != nil {
		return taxperiod.Default()
	}
	return period
}

// Logger builds the process logger: JSON in production, console output in
// development mode.
func (c Config) Logger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("config: log level: %w", err)
	}
	zc := zap.NewProductionConfig()
	if c.LogDev {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("config: build logger: %w", err)
	}
	return logger, nil
}
