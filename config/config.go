// Package config loads application configuration from the environment, with
// an optional .env file for local development.
package config

import (
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type DB struct {
	Url string `envconfig:"URL" required:"true"`
}

type Jwt struct {
	Secret string        `envconfig:"SECRET_KEY" required:"true"`
	Expiry time.Duration `envconfig:"EXPIRY" default:"24h"`
}

type RateLimit struct {
	MaxRequests int           `envconfig:"MAX_REQUESTS" default:"100"`
	Window      time.Duration `envconfig:"WINDOW" default:"1m"`
}

// Ledger holds the balance-policy switches. RevalidateOnEdit turns on
// overdraft/limit re-checks for edit and restore paths; the default keeps
// the original trust-the-edit behavior.
type Ledger struct {
	RevalidateOnEdit bool `envconfig:"REVALIDATE_ON_EDIT" default:"false"`
}

// Recurring configures the background catch-up sweep.
type Recurring struct {
	SweepInterval time.Duration `envconfig:"SWEEP_INTERVAL" default:"24h"`
	SweepOnBoot   bool          `envconfig:"SWEEP_ON_BOOT" default:"true"`
	LockKey       int64         `envconfig:"LOCK_KEY" default:"7811770516829245442"`
}

type App struct {
	Env       string    `envconfig:"APP_ENV" default:"development"`
	Host      string    `envconfig:"APP_HOST" default:"localhost"`
	Port      int       `envconfig:"APP_PORT" default:"3000"`
	DB        DB        `envconfig:"DATABASE"`
	Jwt       Jwt       `envconfig:"JWT"`
	RateLimit RateLimit `envconfig:"RATE_LIMIT"`
	Ledger    Ledger    `envconfig:"LEDGER"`
	Recurring Recurring `envconfig:"RECURRING"`
}

// Load reads configuration from the environment, preferring an optional .env
// file when present.
func Load(logger *slog.Logger, envFilePath ...string) (*App, error) {
	var err error
	if len(envFilePath) > 0 && envFilePath[0] != "" {
		err = godotenv.Load(envFilePath[0])
	} else {
		err = godotenv.Load()
	}
	if err != nil {
		logger.Warn("no .env file found, using system environment variables")
	}

	var cfg App
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	logger.Info("config loaded",
		"env", cfg.Env,
		"port", cfg.Port,
		"jwt_expiry", cfg.Jwt.Expiry,
		"rate_limit_max_requests", cfg.RateLimit.MaxRequests,
		"recurring_sweep_interval", cfg.Recurring.SweepInterval,
		"ledger_revalidate_on_edit", cfg.Ledger.RevalidateOnEdit,
	)
	return &cfg, nil
}
