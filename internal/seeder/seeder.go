// Package seeder sequences one seeding run: provision schema, insert
// products, users, then orders with their line items, and finally write the
// metadata documents. Stages run strictly in order because each one needs the
// identifiers committed by the previous one; any failure aborts the rest of
// the pipeline, and metadata is only written after all data landed.
package seeder

import (
	"context"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/slicenferqin/sql-zen/internal/catalog"
	"github.com/slicenferqin/sql-zen/internal/config"
	"github.com/slicenferqin/sql-zen/internal/entity"
	"github.com/slicenferqin/sql-zen/internal/generator"
	"github.com/slicenferqin/sql-zen/internal/metadata"
	"github.com/slicenferqin/sql-zen/internal/sink"
)

var seederTracer = otel.Tracer("github.com/slicenferqin/sql-zen/internal/seeder")

// Module provides the seeder to Fx.
var Module = fx.Provide(NewSeeder)

// Options override the configured run parameters. Negative counts defer to
// config; an explicit zero passes through and is rejected by the generator.
// A zero RandomSeed defers to config, where zero means non-reproducible.
type Options struct {
	Users      int
	Orders     int
	RandomSeed int64
}

// Params collects the seeder dependencies via Fx.
type Params struct {
	fx.In

	Sink    *sink.Sink
	Writer  *metadata.Writer
	Catalog catalog.Catalog
	Config  config.Config
	Logger  *zap.Logger
}

// Seeder runs the seeding pipeline.
type Seeder struct {
	sink    *sink.Sink
	writer  *metadata.Writer
	catalog catalog.Catalog
	cfg     config.Config
	logger  *zap.Logger
}

// NewSeeder constructs a Seeder.
func NewSeeder(p Params) *Seeder {
	return &Seeder{
		sink:    p.Sink,
		writer:  p.Writer,
		catalog: p.Catalog,
		cfg:     p.Config,
		logger:  p.Logger,
	}
}

// Run executes the full pipeline once.
func (s *Seeder) Run(ctx context.Context, opts Options) error {
	runID := uuid.NewString()
	logger := s.logger.With(zap.String("run_id", runID))

	userCount := opts.Users
	if userCount < 0 {
		userCount = s.cfg.Seed.Users
	}
	orderCount := opts.Orders
	if orderCount < 0 {
		orderCount = s.cfg.Seed.Orders
	}
	seed := opts.RandomSeed
	if seed == 0 {
		seed = s.cfg.Seed.RandomSeed
	}

	ctx, span := seederTracer.Start(ctx, "Seeder.Run", trace.WithAttributes(
		attribute.String("run.id", runID),
		attribute.Int("run.users", userCount),
		attribute.Int("run.orders", orderCount),
	))
	defer span.End()

	var rng *rand.Rand
	if seed != 0 {
		rng = rand.New(rand.NewSource(seed))
		logger.Info("using fixed random seed", zap.Int64("seed", seed))
	}

	gen, err := generator.New(s.catalog, generator.DefaultConfig(), rng)
	if err != nil {
		return s.fail(span, logger, "generator configuration rejected", err)
	}

	started := time.Now()

	logger.Info("provisioning schema", zap.String("driver", s.cfg.Database.Driver))
	if err := s.sink.Provision(ctx); err != nil {
		return s.fail(span, logger, "schema provisioning failed", err)
	}

	products := gen.Products()
	productIDs, err := s.sink.InsertProducts(ctx, products)
	if err != nil {
		return s.fail(span, logger, "product insertion failed", err)
	}
	logger.Info("products inserted", zap.Int("count", len(productIDs)))

	users, err := gen.Users(userCount)
	if err != nil {
		return s.fail(span, logger, "user generation failed", err)
	}
	userIDs, err := s.sink.InsertUsers(ctx, users)
	if err != nil {
		return s.fail(span, logger, "user insertion failed", err)
	}
	logger.Info("users inserted", zap.Int("count", len(userIDs)))

	orders, err := gen.Orders(userIDs, products, orderCount)
	if err != nil {
		return s.fail(span, logger, "order generation failed", err)
	}
	orderIDs, err := s.sink.InsertOrders(ctx, orders)
	if err != nil {
		return s.fail(span, logger, "order insertion failed", err)
	}

	items := collectItems(orders, orderIDs)
	if _, err := s.sink.InsertOrderItems(ctx, items); err != nil {
		return s.fail(span, logger, "order item insertion failed", err)
	}
	logger.Info("orders inserted",
		zap.Int("orders", len(orderIDs)),
		zap.Int("items", len(items)))

	if err := s.writer.WriteAll(); err != nil {
		return s.fail(span, logger, "metadata emission failed", err)
	}

	logger.Info("seeding complete",
		zap.Int("users", len(userIDs)),
		zap.Int("products", len(productIDs)),
		zap.Int("orders", len(orderIDs)),
		zap.Int("order_items", len(items)),
		zap.Duration("elapsed", time.Since(started)))
	return nil
}

func (s *Seeder) fail(span trace.Span, logger *zap.Logger, message string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, message)
	logger.Error(message, zap.Error(err))
	return err
}

// collectItems flattens the per-order line items, binding each to its
// freshly committed order id.
func collectItems(orders []entity.Order, orderIDs []int64) []entity.OrderItem {
	var items []entity.OrderItem
	for i, order := range orders {
		for _, item := range order.Items {
			row := *item
			row.OrderID = orderIDs[i]
			items = append(items, row)
		}
	}
	return items
}
