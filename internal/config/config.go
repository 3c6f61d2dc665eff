package config

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/fx"

	"github.com/slicenferqin/sql-zen/pkg/errorbank"
)

// Database holds backend selection and connection settings.
type Database struct {
	Driver          string
	Host            string
	Port            int
	Name            string
	User            string
	Password        string
	Path            string
	MaxOpenConns    int
	MaxIdleConns    int
	MaxConnLifetime time.Duration
}

// Seed controls how much data a seeding run produces.
type Seed struct {
	Users      int
	Orders     int
	RandomSeed int64
}

// Metadata configures where the schema and cube documents are written.
type Metadata struct {
	SchemaDir string
}

// Observability contains logging and tracing configuration.
type Observability struct {
	ServiceName   string
	Environment   string
	LogLevel      string
	LogEncoding   string
	EnableTracing bool
	TraceExporter string
	TraceEndpoint string
	TraceInsecure bool
}

// Config wraps all application configuration knobs.
type Config struct {
	Database      Database
	Seed          Seed
	Metadata      Metadata
	Observability Observability
}

// Module wires the configuration loader into the Fx graph.
var Module = fx.Provide(New)

var loadEnvOnce sync.Once

// New builds a Config from environment variables or defaults.
func New() (Config, error) {
	loadEnvOnce.Do(func() {
		_ = godotenv.Load()
	})

	driver := strings.ToLower(strings.TrimSpace(getEnv("DB_DRIVER", "postgres")))

	cfg := Config{
		Database: Database{
			Driver:          driver,
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvAsInt("DB_PORT", defaultPort(driver)),
			Name:            getEnv("DB_NAME", "test"),
			User:            getEnv("DB_USER", defaultUser(driver)),
			Password:        getEnv("DB_PASSWORD", ""),
			Path:            getEnv("DB_PATH", "sqlzen.db"),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 10),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", time.Minute*5),
		},
		Seed: Seed{
			Users:      getEnvAsInt("SEED_USERS", 100),
			Orders:     getEnvAsInt("SEED_ORDERS", 500),
			RandomSeed: int64(getEnvAsInt("SEED_RANDOM_SEED", 0)),
		},
		Metadata: Metadata{
			SchemaDir: getEnv("SCHEMA_DIR", "schema"),
		},
		Observability: Observability{
			ServiceName:   getEnv("OBS_SERVICE_NAME", "sql-zen"),
			Environment:   getEnv("OBS_ENVIRONMENT", "local"),
			LogLevel:      getEnv("OBS_LOG_LEVEL", "info"),
			LogEncoding:   getEnv("OBS_LOG_ENCODING", "console"),
			EnableTracing: getEnvAsBool("OBS_ENABLE_TRACING", false),
			TraceExporter: getEnv("OBS_TRACE_EXPORTER", "stdout"),
			TraceEndpoint: getEnv("OBS_OTLP_ENDPOINT", "localhost:4317"),
			TraceInsecure: getEnvAsBool("OBS_OTLP_INSECURE", true),
		},
	}

	switch cfg.Database.Driver {
	case "postgres", "mysql", "sqlite":
		// supported
	default:
		return Config{}, errorbank.Configuration(
			fmt.Sprintf("unsupported database driver: %s", cfg.Database.Driver),
			errorbank.WithHint("set DB_DRIVER to postgres, mysql, or sqlite"))
	}

	if cfg.Database.Driver == "sqlite" {
		if cfg.Database.Path == "" {
			return Config{}, errorbank.Configuration("missing DB_PATH for sqlite backend")
		}
	} else {
		if cfg.Database.Host == "" {
			return Config{}, errorbank.Configuration("missing DB_HOST")
		}
		if cfg.Database.Port <= 0 {
			return Config{}, errorbank.Configuration(fmt.Sprintf("invalid DB_PORT: %d", cfg.Database.Port))
		}
		if cfg.Database.Name == "" {
			return Config{}, errorbank.Configuration("missing DB_NAME")
		}
		if cfg.Database.User == "" {
			return Config{}, errorbank.Configuration("missing DB_USER")
		}
	}

	cfg.Observability.LogLevel = strings.ToLower(strings.TrimSpace(cfg.Observability.LogLevel))
	if cfg.Observability.LogLevel == "" {
		cfg.Observability.LogLevel = "info"
	}
	cfg.Observability.LogEncoding = strings.ToLower(strings.TrimSpace(cfg.Observability.LogEncoding))
	if cfg.Observability.LogEncoding == "" {
		cfg.Observability.LogEncoding = "console"
	}
	cfg.Observability.TraceExporter = strings.ToLower(strings.TrimSpace(cfg.Observability.TraceExporter))
	if cfg.Observability.TraceExporter == "" {
		cfg.Observability.TraceExporter = "stdout"
	}

	return cfg, nil
}

// DSN renders the driver-specific connection string.
func (d Database) DSN() string {
	switch d.Driver {
	case "postgres":
		return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
			d.User, d.Password, d.Host, d.Port, d.Name)
	case "mysql":
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true",
			d.User, d.Password, d.Host, d.Port, d.Name)
	case "sqlite":
		return fmt.Sprintf("file:%s?_fk=1", d.Path)
	default:
		return ""
	}
}

func defaultPort(driver string) int {
	switch driver {
	case "mysql":
		return 3306
	default:
		return 5432
	}
}

func defaultUser(driver string) string {
	switch driver {
	case "mysql":
		return "root"
	default:
		return "postgres"
	}
}
