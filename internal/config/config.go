package config

import (
	"fmt"
	"time"
	_ "time/tzdata"

	"github.com/caarlos0/env/v11"
)

type StoreDriver string

const (
	DriverFirestore StoreDriver = "firestore"
	DriverSQLite    StoreDriver = "sqlite"
)

type Config struct {
	ProjectID         string        `env:"PROJECTID"`
	LogLevel          string        `env:"LOGLEVEL" envDefault:"info"`
	Port              string        `env:"PORT" envDefault:"8080"`
	Tenant            string        `env:"TENANT" envDefault:"ascend"`
	StoreDriver       StoreDriver   `env:"STORE_DRIVER" envDefault:"firestore"`
	SQLitePath        string        `env:"SQLITE_PATH" envDefault:"ascend.db"`
	FirebaseAPIKey    string        `env:"FIREBASE_API_KEY"`
	Timezone          string        `env:"TIMEZONE" envDefault:"America/Sao_Paulo"`
	BootstrapAdmin    bool          `env:"BOOTSTRAP_FIRST_ADMIN" envDefault:"false"`
	EscalationTimeout time.Duration `env:"ESCALATION_TIMEOUT" envDefault:"10s"`
	EscalationQueue   int           `env:"ESCALATION_QUEUE" envDefault:"256"`
	OTLPEndpoint      string        `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`

	location *time.Location
}

func New() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	switch cfg.StoreDriver {
	case DriverFirestore:
		if cfg.ProjectID == "" {
			return nil, fmt.Errorf("PROJECTID is required for the firestore driver")
		}
	case DriverSQLite:
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", cfg.Timezone, err)
	}
	cfg.location = loc
	return &cfg, nil
}

// Location is the timezone date-only values are read in.
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.UTC
	}
	return c.location
}

// Now is the clock every service reads.
func (c *Config) Now() time.Time {
	return time.Now().In(c.Location())
}
