// Package config loads process settings from the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/tourvisto/trip-admin-api/internal/app/pricing"
	"github.com/tourvisto/trip-admin-api/internal/domain"
)

const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"

	AuthModeDev = "dev"
	AuthModeJWT = "jwt"
)

type Config struct {
	Env string `env:"APP_ENV" env-default:"local"`

	HTTP        HTTPServer
	Storage     Storage
	Redis       Redis
	NavState    NavState
	Countries   Countries
	Payments    Payments
	Pricing     Pricing
	Auth        Auth
	RateLimit   RateLimit
	Idempotency Idempotency
}

type HTTPServer struct {
	Addr              string        `env:"HTTP_ADDR" env-default:":8080"`
	ReadHeaderTimeout time.Duration `env:"HTTP_READ_HEADER_TIMEOUT" env-default:"5s"`
	ReadTimeout       time.Duration `env:"HTTP_READ_TIMEOUT" env-default:"15s"`
	WriteTimeout      time.Duration `env:"HTTP_WRITE_TIMEOUT" env-default:"30s"`
	IdleTimeout       time.Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
	ShutdownTimeout   time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

type Storage struct {
	Backend     string `env:"TRIP_STORE" env-default:"memory"`
	DatabaseURL string `env:"DATABASE_URL"`
	MaxConns    int32  `env:"DATABASE_MAX_CONNS" env-default:"10"`
	// Migrate applies embedded schema migrations at startup.
	Migrate bool `env:"DATABASE_MIGRATE" env-default:"true"`
}

type Redis struct {
	Addr     string `env:"REDIS_ADDR" env-default:"localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" env-default:"0"`
}

type NavState struct {
	Backend string        `env:"NAVSTATE_STORE" env-default:"memory"`
	TTL     time.Duration `env:"NAVSTATE_TTL" env-default:"30m"`
}

type Countries struct {
	BaseURL string        `env:"COUNTRIES_BASE_URL" env-default:"https://restcountries.com"`
	Timeout time.Duration `env:"COUNTRIES_TIMEOUT" env-default:"5s"`
}

type Payments struct {
	Delay      time.Duration `env:"PAYMENT_DELAY" env-default:"2s"`
	SessionTTL time.Duration `env:"PAYMENT_SESSION_TTL" env-default:"30m"`
}

type Pricing struct {
	BasePerDay float64 `env:"PRICING_BASE_PER_DAY" env-default:"50"`
	Budget     float64 `env:"PRICING_MULTIPLIER_BUDGET" env-default:"0.7"`
	MidRange   float64 `env:"PRICING_MULTIPLIER_MID_RANGE" env-default:"1.0"`
	Luxury     float64 `env:"PRICING_MULTIPLIER_LUXURY" env-default:"2.0"`
	Premium    float64 `env:"PRICING_MULTIPLIER_PREMIUM" env-default:"3.0"`
	Default    float64 `env:"PRICING_MULTIPLIER_DEFAULT" env-default:"1.0"`
}

type Auth struct {
	Mode      string        `env:"AUTH_MODE" env-default:"dev"`
	JWTSecret string        `env:"JWT_SECRET"`
	Issuer    string        `env:"JWT_ISSUER" env-default:"trip-admin-dev"`
	Audience  string        `env:"JWT_AUDIENCE" env-default:"trip-admin-api"`
	ClockSkew time.Duration `env:"JWT_CLOCK_SKEW" env-default:"30s"`
}

type RateLimit struct {
	// RPS <= 0 disables limiting.
	RPS   float64 `env:"RATE_LIMIT_RPS" env-default:"20"`
	Burst int     `env:"RATE_LIMIT_BURST" env-default:"40"`
}

type Idempotency struct {
	Retention time.Duration `env:"IDEMPOTENCY_RETENTION" env-default:"24h"`
}

// Load reads the environment and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: read env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	switch c.Storage.Backend {
	case BackendMemory:
	case BackendPostgres:
		if strings.TrimSpace(c.Storage.DatabaseURL) == "" {
			errs = append(errs, errors.New("DATABASE_URL is required when TRIP_STORE=postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("TRIP_STORE must be %q or %q, got %q", BackendMemory, BackendPostgres, c.Storage.Backend))
	}
	switch c.NavState.Backend {
	case BackendMemory, BackendRedis:
	default:
		errs = append(errs, fmt.Errorf("NAVSTATE_STORE must be %q or %q, got %q", BackendMemory, BackendRedis, c.NavState.Backend))
	}
	if c.NavState.TTL <= 0 {
		errs = append(errs, errors.New("NAVSTATE_TTL must be positive"))
	}
	switch c.Auth.Mode {
	case AuthModeDev:
	case AuthModeJWT:
		if c.Auth.JWTSecret == "" {
			errs = append(errs, errors.New("JWT_SECRET is required when AUTH_MODE=jwt"))
		}
	default:
		errs = append(errs, fmt.Errorf("AUTH_MODE must be %q or %q, got %q", AuthModeDev, AuthModeJWT, c.Auth.Mode))
	}
	if c.Pricing.BasePerDay < 0 {
		errs = append(errs, errors.New("PRICING_BASE_PER_DAY must not be negative"))
	}
	if c.Payments.Delay < 0 {
		errs = append(errs, errors.New("PAYMENT_DELAY must not be negative"))
	}
	if c.Payments.SessionTTL <= 0 {
		errs = append(errs, errors.New("PAYMENT_SESSION_TTL must be positive"))
	}
	return errors.Join(errs...)
}

// Rates converts the pricing settings into estimator rates.
func (p Pricing) Rates() pricing.Rates {
	return pricing.Rates{
		BasePerDay: p.BasePerDay,
		Multipliers: map[domain.Budget]float64{
			domain.BudgetBudget:   p.Budget,
			domain.BudgetMidRange: p.MidRange,
			domain.BudgetLuxury:   p.Luxury,
			domain.BudgetPremium:  p.Premium,
		},
		Default: p.Default,
	}
}
