// Package generator produces in-memory candidate rows for every entity type.
// It is pure: no database access, all randomness comes from an injectable
// source, and every cross-entity invariant (referential integrity, exact
// monetary totals, stage-gated timestamps) holds for every emitted record.
package generator

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/slicenferqin/sql-zen/internal/catalog"
	"github.com/slicenferqin/sql-zen/internal/entity"
	"github.com/slicenferqin/sql-zen/pkg/errorbank"
)

// Config bounds the random sampling performed by the generator.
type Config struct {
	UserWindowDays  int // users registered 1..N days ago
	OrderWindowDays int // orders placed 0..N days ago

	MinItems    int // line items per order, clamped to catalog size
	MaxItems    int
	MinQuantity int
	MaxQuantity int

	MinPaidDelay     time.Duration // paid_at offset from created_at
	MaxPaidDelay     time.Duration
	MinShipDelay     time.Duration // shipped_at offset from paid_at
	MaxShipDelay     time.Duration
	MinCompleteDelay time.Duration // completed_at offset from shipped_at
	MaxCompleteDelay time.Duration
}

// DefaultConfig mirrors the sampling windows of the reference dataset.
func DefaultConfig() Config {
	return Config{
		UserWindowDays:   365,
		OrderWindowDays:  90,
		MinItems:         1,
		MaxItems:         5,
		MinQuantity:      1,
		MaxQuantity:      3,
		MinPaidDelay:     time.Hour,
		MaxPaidDelay:     24 * time.Hour,
		MinShipDelay:     24 * time.Hour,
		MaxShipDelay:     3 * 24 * time.Hour,
		MinCompleteDelay: 24 * time.Hour,
		MaxCompleteDelay: 7 * 24 * time.Hour,
	}
}

// Validate rejects configurations that cannot satisfy the data invariants.
func (c Config) Validate() error {
	if c.UserWindowDays <= 0 || c.OrderWindowDays < 0 {
		return errorbank.Generation("backdating windows must be positive")
	}
	for _, r := range []struct {
		name     string
		min, max int
	}{
		{"items per order", c.MinItems, c.MaxItems},
		{"quantity per item", c.MinQuantity, c.MaxQuantity},
	} {
		if r.min < 1 || r.max < r.min {
			return errorbank.Generation(fmt.Sprintf("invalid %s range [%d, %d]", r.name, r.min, r.max))
		}
	}
	for _, r := range []struct {
		name     string
		min, max time.Duration
	}{
		{"paid delay", c.MinPaidDelay, c.MaxPaidDelay},
		{"ship delay", c.MinShipDelay, c.MaxShipDelay},
		{"complete delay", c.MinCompleteDelay, c.MaxCompleteDelay},
	} {
		if r.min < 0 || r.max < r.min {
			return errorbank.Generation(fmt.Sprintf("invalid %s range [%s, %s]", r.name, r.min, r.max))
		}
	}
	return nil
}

// Generator emits candidate entity rows from the shared catalog.
type Generator struct {
	catalog catalog.Catalog
	cfg     Config
	rng     *rand.Rand
	now     time.Time
}

// New constructs a Generator. Passing a seeded rand source makes output
// reproducible; a nil source falls back to a time-seeded one.
func New(cat catalog.Catalog, cfg Config, rng *rand.Rand) (*Generator, error) {
	if err := cat.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Generator{
		catalog: cat,
		cfg:     cfg,
		rng:     rng,
		now:     time.Now().UTC().Truncate(time.Second),
	}, nil
}

// Users produces n user rows with pairwise-distinct emails. Email uniqueness
// is index-based, so it holds without collision checking.
func (g *Generator) Users(n int) ([]entity.User, error) {
	if n <= 0 {
		return nil, errorbank.Generation(fmt.Sprintf("requested user count must be positive, got %d", n))
	}

	users := make([]entity.User, 0, n)
	for i := 1; i <= n; i++ {
		createdAt := g.now.AddDate(0, 0, -g.randRange(1, g.cfg.UserWindowDays))
		users = append(users, entity.User{
			Name:      fmt.Sprintf("User %04d", i),
			Email:     fmt.Sprintf("user%04d@example.com", i),
			Phone:     fmt.Sprintf("138%08d", g.rng.Intn(90000000)+10000000),
			City:      g.catalog.Cities[g.rng.Intn(len(g.catalog.Cities))],
			Country:   g.catalog.DefaultCountry,
			Status:    g.weightedChoice(g.catalog.UserStatuses),
			CreatedAt: createdAt,
			UpdatedAt: createdAt,
		})
	}
	return users, nil
}

// Products produces one row per catalog product, all active with random stock.
func (g *Generator) Products() []entity.Product {
	products := make([]entity.Product, 0, len(g.catalog.Products))
	for _, p := range g.catalog.Products {
		products = append(products, entity.Product{
			Name:      p.Name,
			Category:  p.Category,
			Price:     centsToAmount(p.PriceCents),
			Cost:      centsToAmount(p.CostCents),
			Stock:     g.randRange(10, 100),
			Status:    catalog.ProductActive,
			CreatedAt: g.now,
		})
	}
	return products
}

// Orders produces n orders, each carrying between MinItems and MaxItems
// distinct line items. Every order references one of userIDs and only
// products from the supplied (already persisted) product rows; total_amount
// is the exact sum of the item subtotals.
func (g *Generator) Orders(userIDs []int64, products []entity.Product, n int) ([]entity.Order, error) {
	if n <= 0 {
		return nil, errorbank.Generation(fmt.Sprintf("requested order count must be positive, got %d", n))
	}
	if len(userIDs) == 0 {
		return nil, errorbank.Generation("cannot generate orders without users")
	}
	if len(products) == 0 {
		return nil, errorbank.Generation("cannot generate orders without products")
	}

	orders := make([]entity.Order, 0, n)
	for i := 0; i < n; i++ {
		createdAt := g.now.AddDate(0, 0, -g.randRange(0, g.cfg.OrderWindowDays))

		maxItems := g.cfg.MaxItems
		if maxItems > len(products) {
			maxItems = len(products)
		}
		minItems := g.cfg.MinItems
		if minItems > maxItems {
			minItems = maxItems
		}
		itemCount := g.randRange(minItems, maxItems)

		var totalCents int64
		items := make([]*entity.OrderItem, 0, itemCount)
		for _, idx := range g.sampleDistinct(len(products), itemCount) {
			product := products[idx]
			quantity := g.randRange(g.cfg.MinQuantity, g.cfg.MaxQuantity)
			priceCents := amountToCents(product.Price)
			subtotalCents := int64(quantity) * priceCents
			totalCents += subtotalCents

			items = append(items, &entity.OrderItem{
				ProductID: product.ID,
				Quantity:  quantity,
				UnitPrice: centsToAmount(priceCents),
				Subtotal:  centsToAmount(subtotalCents),
				CreatedAt: createdAt,
			})
		}

		status := g.weightedChoice(g.catalog.OrderStatuses)
		order := entity.Order{
			UserID:          userIDs[g.rng.Intn(len(userIDs))],
			TotalAmount:     centsToAmount(totalCents),
			Status:          status,
			ShippingAddress: g.shippingAddress(),
			CreatedAt:       createdAt,
			Items:           items,
		}
		if status != catalog.OrderPending {
			method := g.catalog.PaymentMethods[g.rng.Intn(len(g.catalog.PaymentMethods))]
			order.PaymentMethod = &method
		}
		order.PaidAt, order.ShippedAt, order.CompletedAt = g.stageTimestamps(status, createdAt)

		orders = append(orders, order)
	}
	return orders, nil
}

// stageTimestamps derives the monotonic, status-gated lifecycle timestamps.
// Later stages are only populated when every earlier stage is, so a partial
// timestamp set can never escape the generator.
func (g *Generator) stageTimestamps(status string, createdAt time.Time) (paid, shipped, completed *time.Time) {
	switch status {
	case catalog.OrderPaid, catalog.OrderShipped, catalog.OrderCompleted:
	default:
		return nil, nil, nil
	}

	paidAt := createdAt.Add(g.randDuration(g.cfg.MinPaidDelay, g.cfg.MaxPaidDelay))
	paid = &paidAt
	if status == catalog.OrderPaid {
		return paid, nil, nil
	}

	shippedAt := paidAt.Add(g.randDuration(g.cfg.MinShipDelay, g.cfg.MaxShipDelay))
	shipped = &shippedAt
	if status == catalog.OrderShipped {
		return paid, shipped, nil
	}

	completedAt := shippedAt.Add(g.randDuration(g.cfg.MinCompleteDelay, g.cfg.MaxCompleteDelay))
	return paid, shipped, &completedAt
}

func (g *Generator) shippingAddress() string {
	city := g.catalog.Cities[g.rng.Intn(len(g.catalog.Cities))]
	return fmt.Sprintf("No. %d Sample Street, %s", g.rng.Intn(999)+1, city)
}

func amountToCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func centsToAmount(cents int64) float64 {
	return float64(cents) / 100
}
