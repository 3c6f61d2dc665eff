package config_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slicenferqin/sql-zen/internal/config"
	"github.com/slicenferqin/sql-zen/pkg/errorbank"
)

var envKeys = []string{
	"DB_DRIVER", "DB_HOST", "DB_PORT", "DB_NAME", "DB_USER", "DB_PASSWORD",
	"DB_PATH", "SEED_USERS", "SEED_ORDERS", "SEED_RANDOM_SEED", "SCHEMA_DIR",
	"OBS_LOG_LEVEL", "OBS_LOG_ENCODING", "OBS_ENABLE_TRACING",
}

// resetEnv gives each test a clean slate while restoring the process env
// afterwards via t.Setenv bookkeeping.
func resetEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		if _, ok := os.LookupEnv(key); ok {
			t.Setenv(key, os.Getenv(key))
		}
		os.Unsetenv(key)
	}
}

func TestDefaultsArePostgres(t *testing.T) {
	resetEnv(t)

	cfg, err := config.New()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "test", cfg.Database.Name)
	assert.Equal(t, "postgres", cfg.Database.User)
	assert.Equal(t, 100, cfg.Seed.Users)
	assert.Equal(t, 500, cfg.Seed.Orders)
	assert.Equal(t, "schema", cfg.Metadata.SchemaDir)
	assert.Equal(t, "console", cfg.Observability.LogEncoding)
	assert.False(t, cfg.Observability.EnableTracing)
}

func TestMySQLDefaults(t *testing.T) {
	resetEnv(t)
	t.Setenv("DB_DRIVER", "mysql")
	t.Setenv("DB_PASSWORD", "secret")

	cfg, err := config.New()
	require.NoError(t, err)

	assert.Equal(t, 3306, cfg.Database.Port)
	assert.Equal(t, "root", cfg.Database.User)
	assert.Equal(t, "root:secret@tcp(localhost:3306)/test?parseTime=true", cfg.Database.DSN())
}

func TestPostgresDSN(t *testing.T) {
	resetEnv(t)
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("DB_NAME", "analytics")
	t.Setenv("DB_USER", "seeder")
	t.Setenv("DB_PASSWORD", "pw")

	cfg, err := config.New()
	require.NoError(t, err)
	assert.Equal(t, "postgres://seeder:pw@db.internal:5433/analytics?sslmode=disable", cfg.Database.DSN())
}

func TestSqliteDSN(t *testing.T) {
	resetEnv(t)
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_PATH", "/tmp/demo.db")

	cfg, err := config.New()
	require.NoError(t, err)
	assert.Equal(t, "file:/tmp/demo.db?_fk=1", cfg.Database.DSN())
}

func TestDriverIsNormalized(t *testing.T) {
	resetEnv(t)
	t.Setenv("DB_DRIVER", "  Postgres ")

	cfg, err := config.New()
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Database.Driver)
}

func TestUnsupportedDriver(t *testing.T) {
	resetEnv(t)
	t.Setenv("DB_DRIVER", "oracle")

	_, err := config.New()
	require.Error(t, err)
	assert.True(t, errorbank.IsKind(err, errorbank.KindConfiguration))
	assert.Contains(t, errorbank.From(err).Hint(), "DB_DRIVER")
}

func TestInvalidPort(t *testing.T) {
	resetEnv(t)
	t.Setenv("DB_PORT", "-1")

	_, err := config.New()
	require.Error(t, err)
	assert.True(t, errorbank.IsKind(err, errorbank.KindConfiguration))
}

func TestSeedOverrides(t *testing.T) {
	resetEnv(t)
	t.Setenv("SEED_USERS", "25")
	t.Setenv("SEED_ORDERS", "75")
	t.Setenv("SEED_RANDOM_SEED", "42")

	cfg, err := config.New()
	require.NoError(t, err)
	assert.Equal(t, 25, cfg.Seed.Users)
	assert.Equal(t, 75, cfg.Seed.Orders)
	assert.Equal(t, int64(42), cfg.Seed.RandomSeed)
}
