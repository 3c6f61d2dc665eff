package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/mysqldialect"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/schema"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/slicenferqin/sql-zen/internal/config"
	"github.com/slicenferqin/sql-zen/pkg/errorbank"
)

// Module registers the database connection with Fx.
var Module = fx.Provide(New)

// New establishes a Bun connection for the configured backend. The seeding
// pipeline is a single synchronous writer, so one pool is enough.
func New(lc fx.Lifecycle, cfg config.Config, logger *zap.Logger) (*bun.DB, error) {
	dial, err := selectDialect(cfg.Database.Driver)
	if err != nil {
		return nil, err
	}

	sqlDB, err := openSQLDB(cfg.Database)
	if err != nil {
		return nil, errorbank.Connection("open database", errorbank.WithCause(err))
	}

	applyPoolSettings(sqlDB, cfg.Database)

	db := bun.NewDB(sqlDB, dial)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := pingContext(ctx, db); err != nil {
				return errorbank.Connection(
					fmt.Sprintf("database unreachable (%s)", cfg.Database.Driver),
					errorbank.WithCause(err),
					errorbank.WithHint("check DB_HOST, DB_PORT, DB_USER, and DB_PASSWORD"))
			}
			logger.Info("database connected",
				zap.String("driver", cfg.Database.Driver),
				zap.String("database", cfg.Database.Name))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return db.Close()
		},
	})

	return db, nil
}

func selectDialect(driver string) (schema.Dialect, error) {
	switch driver {
	case "postgres":
		return pgdialect.New(), nil
	case "mysql":
		return mysqldialect.New(), nil
	case "sqlite":
		return sqlitedialect.New(), nil
	default:
		return nil, errorbank.Configuration(fmt.Sprintf("unsupported database driver: %s", driver))
	}
}

func openSQLDB(cfg config.Database) (*sql.DB, error) {
	dsn := cfg.DSN()
	if dsn == "" {
		return nil, fmt.Errorf("empty DSN for driver %s", cfg.Driver)
	}

	switch cfg.Driver {
	case "postgres":
		connector := pgdriver.NewConnector(pgdriver.WithDSN(dsn))
		return sql.OpenDB(connector), nil
	case "mysql":
		return sql.Open("mysql", dsn)
	case "sqlite":
		return sql.Open("sqlite3", dsn)
	default:
		return nil, fmt.Errorf("unsupported driver: %s", cfg.Driver)
	}
}

func applyPoolSettings(db *sql.DB, cfg config.Database) {
	if cfg.Driver == "sqlite" {
		// mattn/go-sqlite3 file handles do not tolerate concurrent writers.
		db.SetMaxOpenConns(1)
		return
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.MaxConnLifetime > 0 {
		db.SetConnMaxLifetime(cfg.MaxConnLifetime)
	}
}

func pingContext(ctx context.Context, db *bun.DB) error {
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return db.DB.PingContext(pingCtx)
}
