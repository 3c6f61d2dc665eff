package entity

import (
	"time"

	"github.com/uptrace/bun"
)

// Order represents a purchase order. TotalAmount is always derived from the
// order's line items, never set independently. The three stage timestamps are
// gated on Status: paid_at requires a revenue-eligible status, shipped_at
// additionally requires paid_at, completed_at requires shipped_at and
// status=completed.
type Order struct {
	bun.BaseModel `bun:"table:orders"`

	ID              int64      `bun:",pk,autoincrement"`
	UserID          int64      `bun:"user_id,notnull"`
	TotalAmount     float64    `bun:"total_amount,notnull"`
	Status          string     `bun:"status,notnull"`
	PaymentMethod   *string    `bun:"payment_method"`
	ShippingAddress string     `bun:"shipping_address"`
	CreatedAt       time.Time  `bun:"created_at,nullzero,notnull,default:CURRENT_TIMESTAMP"`
	PaidAt          *time.Time `bun:"paid_at"`
	ShippedAt       *time.Time `bun:"shipped_at"`
	CompletedAt     *time.Time `bun:"completed_at"`

	Items []*OrderItem `bun:"rel:has-many,join:id=order_id"`
}

// OrderItem is one line of an order. UnitPrice snapshots the product price at
// order time so historical orders are immune to later price changes.
type OrderItem struct {
	bun.BaseModel `bun:"table:order_items"`

	ID        int64     `bun:",pk,autoincrement"`
	OrderID   int64     `bun:"order_id,notnull"`
	ProductID int64     `bun:"product_id,notnull"`
	Quantity  int       `bun:"quantity,notnull"`
	UnitPrice float64   `bun:"unit_price,notnull"`
	Subtotal  float64   `bun:"subtotal,notnull"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:CURRENT_TIMESTAMP"`
}
