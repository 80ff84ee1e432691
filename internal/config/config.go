// Package config loads and validates TimeSheet's startup configuration
// (spec §6). All required variables are validated on load; a missing or
// out-of-range value fails fast rather than surfacing later as a runtime
// error deep in a handler.
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config holds every environment-driven setting the core and its
// composition root (cmd/timesheetd) need. TelegramBotToken and
// JWTSecretKey are parsed and validated here even though the transport
// that consumes them is out of scope for this module (spec §1) — the core
// owns configuration loading, and hands a validated Config down to
// whatever composition wires the excluded transport in.
type Config struct {
	TelegramBotToken     string   `validate:"required"`
	DatabasePath         string   `validate:"required"`
	JWTSecretKey         string   `validate:"required,min=32"`
	JWTExpirationMinutes int      `validate:"required,gt=0"`
	CORSAllowedOrigins   []string
	LogLevel             string `validate:"omitempty,oneof=debug info warn error"`

	// Tracking bounds (spec §4.1).
	MaxTimeOffsetBound time.Duration `validate:"required,gt=0"`

	// Worker cadences (spec §4.4).
	AutoShutdownInterval time.Duration `validate:"required,gt=0"`
	LunchReminderInterval time.Duration `validate:"required,gt=0"`
	ExpirySweepInterval  time.Duration `validate:"required,gt=0"`

	// Credential defaults (spec §4.5).
	DefaultMnemonicTTL time.Duration `validate:"required,gt=0"`
}

// Load reads Config from the process environment, applying the defaults
// spec.md names, then validates it.
func Load() (*Config, error) {
	c := newConf()

	cfg := &Config{
		TelegramBotToken:      c.get("TELEGRAM_BOT_TOKEN", ""),
		DatabasePath:          c.get("DATABASE_PATH", ""),
		JWTSecretKey:          c.get("JWT_SECRET_KEY", ""),
		JWTExpirationMinutes:  c.getInt("JWT_EXPIRATION_MINUTES", 60),
		CORSAllowedOrigins:    c.getList("CORS_ALLOWED_ORIGINS", nil),
		LogLevel:              c.get("LOG_LEVEL", "info"),
		MaxTimeOffsetBound:    12 * time.Hour,
		AutoShutdownInterval:  5 * time.Minute,
		LunchReminderInterval: time.Minute,
		ExpirySweepInterval:   time.Hour,
		DefaultMnemonicTTL:    time.Hour,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every field's bounds declaratively via struct tags,
// matching the corpus's validator-driven approach to bound checking.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
