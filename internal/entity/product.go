package entity

import (
	"time"

	"github.com/uptrace/bun"
)

// Product represents an item offered for sale. Price is the sale price and
// Cost the purchase cost; cost exceeding price is legal (loss-making SKU).
type Product struct {
	bun.BaseModel `bun:"table:products"`

	ID        int64     `bun:",pk,autoincrement"`
	Name      string    `bun:"name,notnull"`
	Category  string    `bun:"category,notnull"`
	Price     float64   `bun:"price,notnull"`
	Cost      float64   `bun:"cost,notnull"`
	Stock     int       `bun:"stock"`
	Status    string    `bun:"status"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:CURRENT_TIMESTAMP"`
}
