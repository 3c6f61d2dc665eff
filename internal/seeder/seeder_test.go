package seeder_test

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"go.uber.org/zap"

	"github.com/slicenferqin/sql-zen/internal/catalog"
	"github.com/slicenferqin/sql-zen/internal/config"
	"github.com/slicenferqin/sql-zen/internal/entity"
	"github.com/slicenferqin/sql-zen/internal/metadata"
	"github.com/slicenferqin/sql-zen/internal/seeder"
	"github.com/slicenferqin/sql-zen/internal/sink"
	"github.com/slicenferqin/sql-zen/pkg/errorbank"
)

var dbSeq atomic.Int64

func newTestSeeder(t *testing.T, cfg config.Config) (*seeder.Seeder, *bun.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:seeder_test_%d?mode=memory&cache=shared&_fk=1", dbSeq.Add(1))
	sqldb, err := sql.Open("sqlite3", dsn)
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)
	sqldb.SetMaxIdleConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { db.Close() })

	cat := catalog.Default()
	logger := zap.NewNop()
	return seeder.NewSeeder(seeder.Params{
		Sink:    sink.New(db, logger),
		Writer:  metadata.NewWriter(cfg, cat, logger),
		Catalog: cat,
		Config:  cfg,
		Logger:  logger,
	}), db
}

func TestRunSeedsEverything(t *testing.T) {
	schemaDir := t.TempDir()
	cfg := config.Config{Metadata: config.Metadata{SchemaDir: schemaDir}}
	s, db := newTestSeeder(t, cfg)
	ctx := context.Background()

	require.NoError(t, s.Run(ctx, seeder.Options{Users: 20, Orders: 60, RandomSeed: 42}))

	userCount, err := db.NewSelect().Model((*entity.User)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 20, userCount)

	productCount, err := db.NewSelect().Model((*entity.Product)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 17, productCount)

	orderCount, err := db.NewSelect().Model((*entity.Order)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 60, orderCount)

	itemCount, err := db.NewSelect().Model((*entity.OrderItem)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, itemCount, 60)

	// No line item may point at a missing order or product.
	var orphans int
	err = db.NewRaw(
		"SELECT COUNT(*) FROM order_items oi " +
			"LEFT JOIN orders o ON oi.order_id = o.id " +
			"LEFT JOIN products p ON oi.product_id = p.id " +
			"WHERE o.id IS NULL OR p.id IS NULL",
	).Scan(ctx, &orphans)
	require.NoError(t, err)
	assert.Zero(t, orphans)

	// Metadata lands alongside the data.
	for _, rel := range []string{
		filepath.Join("tables", "orders.yaml"),
		filepath.Join("joins", "relationships.yaml"),
		filepath.Join("cubes", "business-metrics.yaml"),
	} {
		_, err := os.Stat(filepath.Join(schemaDir, rel))
		assert.NoError(t, err, "missing %s", rel)
	}
}

func TestRunFallsBackToConfiguredCounts(t *testing.T) {
	schemaDir := t.TempDir()
	cfg := config.Config{
		Seed:     config.Seed{Users: 5, Orders: 8},
		Metadata: config.Metadata{SchemaDir: schemaDir},
	}
	s, db := newTestSeeder(t, cfg)
	ctx := context.Background()

	require.NoError(t, s.Run(ctx, seeder.Options{Users: -1, Orders: -1, RandomSeed: 7}))

	userCount, err := db.NewSelect().Model((*entity.User)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, userCount)

	orderCount, err := db.NewSelect().Model((*entity.Order)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 8, orderCount)
}

func TestRunIsRepeatable(t *testing.T) {
	schemaDir := t.TempDir()
	cfg := config.Config{Metadata: config.Metadata{SchemaDir: schemaDir}}
	s, db := newTestSeeder(t, cfg)
	ctx := context.Background()

	require.NoError(t, s.Run(ctx, seeder.Options{Users: 5, Orders: 10, RandomSeed: 1}))
	require.NoError(t, s.Run(ctx, seeder.Options{Users: 5, Orders: 10, RandomSeed: 1}))

	// The second run re-provisions, so counts do not accumulate.
	orderCount, err := db.NewSelect().Model((*entity.Order)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10, orderCount)
}

func TestRunExplicitZeroUsersFails(t *testing.T) {
	cfg := config.Config{
		Seed:     config.Seed{Users: 100, Orders: 500},
		Metadata: config.Metadata{SchemaDir: t.TempDir()},
	}
	s, db := newTestSeeder(t, cfg)
	ctx := context.Background()

	// Zero is an explicit request, not a fallback to the configured counts.
	err := s.Run(ctx, seeder.Options{Users: 0, Orders: 10})
	require.Error(t, err)
	assert.True(t, errorbank.IsKind(err, errorbank.KindGeneration))

	userCount, err := db.NewSelect().Model((*entity.User)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, userCount)
}
