package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const envDevelopment = "development"

type Config struct {
	Port      string        `env:"PORT,      default=8080"`
	Env       string        `env:"ENV,       default=development"`
	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL, default=24h"`
	LogLevel  string        `env:"LOG_LEVEL, default=info"`

	// PolicyFile overrides the embedded role grants when set.
	PolicyFile       string `env:"POLICY_FILE"`
	SeedDemoAccounts bool   `env:"SEED_DEMO_ACCOUNTS, default=false"`

	Mongo    MongoConfig
	Redis    RedisConfig
	Workflow WorkflowConfig
	Leave    LeaveConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=employee_portal"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

type WorkflowConfig struct {
	// InvalidTransition is "reject" or "ignore".
	InvalidTransition string `env:"WORKFLOW_INVALID_TRANSITION, default=reject"`
}

// LeaveConfig holds the yearly entitlements, in days.
type LeaveConfig struct {
	AnnualDays   int `env:"LEAVE_ANNUAL_DAYS,   default=25"`
	SickDays     int `env:"LEAVE_SICK_DAYS,     default=10"`
	PersonalDays int `env:"LEAVE_PERSONAL_DAYS, default=5"`
}

// IsDevelopment reports whether the service runs in the development
// environment.
func (c *Config) IsDevelopment() bool {
	return c.Env == envDevelopment
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	if c.JWTSecret == "" && !c.IsDevelopment() {
		errs = append(errs, errors.New("JWT_SECRET is required outside development"))
	}
	switch c.Workflow.InvalidTransition {
	case "reject", "ignore":
	default:
		errs = append(errs, fmt.Errorf("WORKFLOW_INVALID_TRANSITION must be reject or ignore, got %q", c.Workflow.InvalidTransition))
	}
	if c.Leave.AnnualDays < 0 || c.Leave.SickDays < 0 || c.Leave.PersonalDays < 0 {
		errs = append(errs, errors.New("leave entitlements cannot be negative"))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, errors.New("TOKEN_TTL must be positive"))
	}
	return errors.Join(errs...)
}
