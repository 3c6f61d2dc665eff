// Package sink is the persistence boundary of the pipeline: idempotent schema
// provisioning plus batched inserts that report the backend-assigned
// identifiers in submission order. Dialect differences (RETURNING vs
// auto-increment arithmetic) live entirely here.
package sink

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/slicenferqin/sql-zen/internal/entity"
	"github.com/slicenferqin/sql-zen/pkg/errorbank"
)

var sinkTracer = otel.Tracer("github.com/slicenferqin/sql-zen/internal/sink")

// Module provides the sink to Fx.
var Module = fx.Provide(New)

// Sink writes generated entities to the configured backend.
type Sink struct {
	db     *bun.DB
	logger *zap.Logger
}

// New constructs a Sink over the shared bun connection.
func New(db *bun.DB, logger *zap.Logger) *Sink {
	return &Sink{db: db, logger: logger}
}

// Provision drops and recreates the four tables with their foreign keys and
// secondary indexes. Dropping in dependency order keeps the operation
// idempotent on every supported backend.
func (s *Sink) Provision(ctx context.Context) error {
	ctx, span := sinkTracer.Start(ctx, "Sink.Provision")
	defer span.End()

	drops := []any{
		(*entity.OrderItem)(nil),
		(*entity.Order)(nil),
		(*entity.Product)(nil),
		(*entity.User)(nil),
	}
	for _, model := range drops {
		if _, err := s.db.NewDropTable().Model(model).IfExists().Exec(ctx); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "drop failed")
			return errorbank.Provisioning("drop table failed", errorbank.WithCause(err))
		}
	}

	if _, err := s.db.NewCreateTable().Model((*entity.User)(nil)).Exec(ctx); err != nil {
		return s.createFailed(span, "users", err)
	}
	if _, err := s.db.NewCreateTable().Model((*entity.Product)(nil)).Exec(ctx); err != nil {
		return s.createFailed(span, "products", err)
	}
	if _, err := s.db.NewCreateTable().Model((*entity.Order)(nil)).
		ForeignKey("(?) REFERENCES ? (?)", bun.Ident("user_id"), bun.Ident("users"), bun.Ident("id")).
		Exec(ctx); err != nil {
		return s.createFailed(span, "orders", err)
	}
	if _, err := s.db.NewCreateTable().Model((*entity.OrderItem)(nil)).
		ForeignKey("(?) REFERENCES ? (?)", bun.Ident("order_id"), bun.Ident("orders"), bun.Ident("id")).
		ForeignKey("(?) REFERENCES ? (?)", bun.Ident("product_id"), bun.Ident("products"), bun.Ident("id")).
		Exec(ctx); err != nil {
		return s.createFailed(span, "order_items", err)
	}

	indexes := []struct {
		name   string
		model  any
		column string
	}{
		{"idx_orders_user_id", (*entity.Order)(nil), "user_id"},
		{"idx_orders_status", (*entity.Order)(nil), "status"},
		{"idx_orders_created_at", (*entity.Order)(nil), "created_at"},
		{"idx_order_items_order_id", (*entity.OrderItem)(nil), "order_id"},
		{"idx_order_items_product_id", (*entity.OrderItem)(nil), "product_id"},
	}
	for _, idx := range indexes {
		if _, err := s.db.NewCreateIndex().Model(idx.model).
			Index(idx.name).Column(idx.column).Exec(ctx); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "index failed")
			return errorbank.Provisioning(
				fmt.Sprintf("create index %s failed", idx.name), errorbank.WithCause(err))
		}
	}

	if s.logger != nil {
		s.logger.Info("schema provisioned",
			zap.Strings("tables", []string{"users", "products", "orders", "order_items"}))
	}
	return nil
}

func (s *Sink) createFailed(span trace.Span, table string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, "create failed")
	return errorbank.Provisioning(
		fmt.Sprintf("create table %s failed", table),
		errorbank.WithCause(err),
		errorbank.WithHint("verify the configured user has DDL privileges"))
}

// InsertUsers persists a user batch and returns the assigned ids in order.
func (s *Sink) InsertUsers(ctx context.Context, users []entity.User) ([]int64, error) {
	ctx, span := sinkTracer.Start(ctx, "Sink.InsertUsers",
		trace.WithAttributes(attribute.Int("batch.size", len(users))))
	defer span.End()

	return s.insertBatch(ctx, span, "users", &users, len(users), func(i int) *int64 {
		return &users[i].ID
	})
}

// InsertProducts persists a product batch and returns the assigned ids in order.
func (s *Sink) InsertProducts(ctx context.Context, products []entity.Product) ([]int64, error) {
	ctx, span := sinkTracer.Start(ctx, "Sink.InsertProducts",
		trace.WithAttributes(attribute.Int("batch.size", len(products))))
	defer span.End()

	return s.insertBatch(ctx, span, "products", &products, len(products), func(i int) *int64 {
		return &products[i].ID
	})
}

// InsertOrders persists an order batch and returns the assigned ids in order.
// Line items are not written here; the caller assigns order ids to items and
// submits them through InsertOrderItems once this batch has committed.
func (s *Sink) InsertOrders(ctx context.Context, orders []entity.Order) ([]int64, error) {
	ctx, span := sinkTracer.Start(ctx, "Sink.InsertOrders",
		trace.WithAttributes(attribute.Int("batch.size", len(orders))))
	defer span.End()

	return s.insertBatch(ctx, span, "orders", &orders, len(orders), func(i int) *int64 {
		return &orders[i].ID
	})
}

// InsertOrderItems persists a line-item batch and returns the assigned ids.
func (s *Sink) InsertOrderItems(ctx context.Context, items []entity.OrderItem) ([]int64, error) {
	ctx, span := sinkTracer.Start(ctx, "Sink.InsertOrderItems",
		trace.WithAttributes(attribute.Int("batch.size", len(items))))
	defer span.End()

	return s.insertBatch(ctx, span, "order_items", &items, len(items), func(i int) *int64 {
		return &items[i].ID
	})
}

// insertBatch runs one multi-row insert and recovers the generated ids.
// Postgres and SQLite hand them back via RETURNING; MySQL/InnoDB allocates a
// consecutive block starting at LastInsertId for a single multi-row insert.
func (s *Sink) insertBatch(ctx context.Context, span trace.Span, table string, models any, count int, id func(int) *int64) ([]int64, error) {
	if count == 0 {
		return nil, nil
	}

	switch s.db.Dialect().Name() {
	case dialect.MySQL:
		res, err := s.db.NewInsert().Model(models).Exec(ctx)
		if err != nil {
			return nil, s.insertFailed(span, table, err)
		}
		first, err := res.LastInsertId()
		if err != nil {
			return nil, s.insertFailed(span, table, err)
		}
		for i := 0; i < count; i++ {
			*id(i) = first + int64(i)
		}
	default:
		if _, err := s.db.NewInsert().Model(models).Returning("id").Exec(ctx); err != nil {
			return nil, s.insertFailed(span, table, err)
		}
	}

	ids := make([]int64, count)
	for i := range ids {
		ids[i] = *id(i)
	}
	return ids, nil
}

func (s *Sink) insertFailed(span trace.Span, table string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, "insert failed")
	return errorbank.Insertion(fmt.Sprintf("insert into %s failed", table), errorbank.WithCause(err))
}
