package generator_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slicenferqin/sql-zen/internal/catalog"
	"github.com/slicenferqin/sql-zen/internal/entity"
	"github.com/slicenferqin/sql-zen/internal/generator"
	"github.com/slicenferqin/sql-zen/pkg/errorbank"
)

func newGenerator(t *testing.T, cat catalog.Catalog, seed int64) *generator.Generator {
	t.Helper()
	gen, err := generator.New(cat, generator.DefaultConfig(), rand.New(rand.NewSource(seed)))
	require.NoError(t, err)
	return gen
}

// persistedProducts simulates the product batch after the sink assigned ids.
func persistedProducts(t *testing.T, gen *generator.Generator) []entity.Product {
	t.Helper()
	products := gen.Products()
	for i := range products {
		products[i].ID = int64(i + 1)
	}
	return products
}

func cents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// statusForced returns a catalog whose order status weights force one value.
func statusForced(status string) catalog.Catalog {
	cat := catalog.Default()
	weighted := make([]catalog.Weighted, len(cat.OrderStatuses))
	for i, w := range cat.OrderStatuses {
		weight := 0.0
		if w.Value == status {
			weight = 1.0
		}
		weighted[i] = catalog.Weighted{Value: w.Value, Weight: weight}
	}
	cat.OrderStatuses = weighted
	return cat
}

func TestUsersHaveDistinctEmails(t *testing.T) {
	gen := newGenerator(t, catalog.Default(), 1)

	users, err := gen.Users(200)
	require.NoError(t, err)
	require.Len(t, users, 200)

	seen := make(map[string]struct{}, len(users))
	for _, u := range users {
		_, dup := seen[u.Email]
		assert.False(t, dup, "duplicate email %s", u.Email)
		seen[u.Email] = struct{}{}

		assert.Contains(t, []string{catalog.UserActive, catalog.UserInactive}, u.Status)
		assert.Equal(t, u.CreatedAt, u.UpdatedAt)
		assert.Equal(t, "China", u.Country)
		assert.NotEmpty(t, u.City)
	}
}

func TestUsersCountMustBePositive(t *testing.T) {
	gen := newGenerator(t, catalog.Default(), 1)

	for _, n := range []int{0, -5} {
		_, err := gen.Users(n)
		require.Error(t, err)
		assert.True(t, errorbank.IsKind(err, errorbank.KindGeneration))
	}
}

func TestOrderTotalsMatchLineItems(t *testing.T) {
	gen := newGenerator(t, catalog.Default(), 42)
	products := persistedProducts(t, gen)
	userIDs := []int64{1, 2, 3, 4, 5}

	orders, err := gen.Orders(userIDs, products, 500)
	require.NoError(t, err)
	require.Len(t, orders, 500)

	priceByID := make(map[int64]float64, len(products))
	for _, p := range products {
		priceByID[p.ID] = p.Price
	}

	for _, order := range orders {
		require.NotEmpty(t, order.Items, "order without line items")
		assert.GreaterOrEqual(t, len(order.Items), 1)
		assert.LessOrEqual(t, len(order.Items), 5)
		assert.Contains(t, userIDs, order.UserID)

		var sum int64
		distinct := make(map[int64]struct{}, len(order.Items))
		for _, item := range order.Items {
			_, dup := distinct[item.ProductID]
			assert.False(t, dup, "product %d repeated within one order", item.ProductID)
			distinct[item.ProductID] = struct{}{}

			assert.GreaterOrEqual(t, item.Quantity, 1)
			assert.LessOrEqual(t, item.Quantity, 3)
			assert.Equal(t, cents(priceByID[item.ProductID]), cents(item.UnitPrice))
			assert.Equal(t, int64(item.Quantity)*cents(item.UnitPrice), cents(item.Subtotal))
			sum += cents(item.Subtotal)
		}
		assert.Equal(t, sum, cents(order.TotalAmount), "total_amount drifted from item subtotals")
	}
}

func TestStageTimestampsGatedByStatus(t *testing.T) {
	for _, status := range catalog.Default().OrderStatusValues() {
		t.Run(status, func(t *testing.T) {
			gen := newGenerator(t, statusForced(status), 7)
			products := persistedProducts(t, gen)

			orders, err := gen.Orders([]int64{1}, products, 50)
			require.NoError(t, err)

			for _, order := range orders {
				require.Equal(t, status, order.Status)

				if status == catalog.OrderPending {
					assert.Nil(t, order.PaymentMethod)
				} else {
					require.NotNil(t, order.PaymentMethod)
					assert.NotEmpty(t, *order.PaymentMethod)
				}

				switch status {
				case catalog.OrderPending, catalog.OrderCancelled:
					assert.Nil(t, order.PaidAt)
					assert.Nil(t, order.ShippedAt)
					assert.Nil(t, order.CompletedAt)
				case catalog.OrderPaid:
					require.NotNil(t, order.PaidAt)
					assert.Nil(t, order.ShippedAt)
					assert.Nil(t, order.CompletedAt)
					assert.False(t, order.PaidAt.Before(order.CreatedAt))
				case catalog.OrderShipped:
					require.NotNil(t, order.PaidAt)
					require.NotNil(t, order.ShippedAt)
					assert.Nil(t, order.CompletedAt)
					assert.False(t, order.PaidAt.Before(order.CreatedAt))
					assert.False(t, order.ShippedAt.Before(*order.PaidAt))
				case catalog.OrderCompleted:
					require.NotNil(t, order.PaidAt)
					require.NotNil(t, order.ShippedAt)
					require.NotNil(t, order.CompletedAt)
					assert.False(t, order.PaidAt.Before(order.CreatedAt))
					assert.False(t, order.ShippedAt.Before(*order.PaidAt))
					assert.False(t, order.CompletedAt.Before(*order.ShippedAt))
				}
			}
		})
	}
}

func TestOrderStatusDistributionApproximatesWeights(t *testing.T) {
	gen := newGenerator(t, catalog.Default(), 42)
	products := persistedProducts(t, gen)

	orders, err := gen.Orders([]int64{1, 2, 3}, products, 500)
	require.NoError(t, err)

	completed := 0
	for _, order := range orders {
		if order.Status == catalog.OrderCompleted {
			completed++
		}
	}

	// Configured weight is 0.60; allow a generous band for N=500.
	share := float64(completed) / float64(len(orders))
	assert.InDelta(t, 0.60, share, 0.08)
}

func TestOrdersRequireUsersAndProducts(t *testing.T) {
	gen := newGenerator(t, catalog.Default(), 1)
	products := persistedProducts(t, gen)

	_, err := gen.Orders(nil, products, 10)
	assert.True(t, errorbank.IsKind(err, errorbank.KindGeneration))

	_, err = gen.Orders([]int64{1}, nil, 10)
	assert.True(t, errorbank.IsKind(err, errorbank.KindGeneration))

	_, err = gen.Orders([]int64{1}, products, 0)
	assert.True(t, errorbank.IsKind(err, errorbank.KindGeneration))
}

func TestItemCountClampedToCatalogSize(t *testing.T) {
	cat := catalog.Default()
	cat.Products = cat.Products[:3]
	gen := newGenerator(t, cat, 9)
	products := persistedProducts(t, gen)
	require.Len(t, products, 3)

	orders, err := gen.Orders([]int64{1}, products, 100)
	require.NoError(t, err)

	for _, order := range orders {
		assert.LessOrEqual(t, len(order.Items), 3)
		assert.GreaterOrEqual(t, len(order.Items), 1)
	}
}

func TestSeededRunsAreReproducible(t *testing.T) {
	run := func() []entity.Order {
		gen := newGenerator(t, catalog.Default(), 123)
		products := persistedProducts(t, gen)
		orders, err := gen.Orders([]int64{1, 2, 3}, products, 100)
		require.NoError(t, err)
		return orders
	}

	first := run()
	second := run()
	require.Len(t, second, len(first))

	for i := range first {
		assert.Equal(t, first[i].Status, second[i].Status)
		assert.Equal(t, first[i].UserID, second[i].UserID)
		assert.Equal(t, cents(first[i].TotalAmount), cents(second[i].TotalAmount))
		require.Len(t, second[i].Items, len(first[i].Items))
		for j := range first[i].Items {
			assert.Equal(t, first[i].Items[j].ProductID, second[i].Items[j].ProductID)
			assert.Equal(t, first[i].Items[j].Quantity, second[i].Items[j].Quantity)
		}
	}
}

func TestLossMakingProductsAreLegal(t *testing.T) {
	cat := catalog.Default()
	cat.Products = append(cat.Products, catalog.Product{
		Name:       "Clearance Gadget",
		Category:   "electronics",
		PriceCents: 5000,
		CostCents:  9000,
	})

	gen := newGenerator(t, cat, 5)
	products := gen.Products()

	var clearance *entity.Product
	for i := range products {
		if products[i].Name == "Clearance Gadget" {
			clearance = &products[i]
		}
	}
	require.NotNil(t, clearance)
	assert.Greater(t, clearance.Cost, clearance.Price)

	// Profit per unit (subtotal - cost*quantity) must come out negative.
	quantity := 2
	profit := float64(quantity)*clearance.Price - float64(quantity)*clearance.Cost
	assert.Less(t, profit, 0.0)
}

func TestConfigValidation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*generator.Config)
	}{
		{"zero item range", func(c *generator.Config) { c.MinItems = 0 }},
		{"inverted quantity range", func(c *generator.Config) { c.MinQuantity = 3; c.MaxQuantity = 1 }},
		{"negative window", func(c *generator.Config) { c.UserWindowDays = -1 }},
		{"inverted paid delay", func(c *generator.Config) { c.MinPaidDelay = 10; c.MaxPaidDelay = 1 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := generator.DefaultConfig()
			tc.mutate(&cfg)
			_, err := generator.New(catalog.Default(), cfg, nil)
			require.Error(t, err)
			assert.True(t, errorbank.IsKind(err, errorbank.KindGeneration))
		})
	}
}

func TestEmptyCatalogRejected(t *testing.T) {
	cat := catalog.Default()
	cat.Products = nil

	_, err := generator.New(cat, generator.DefaultConfig(), nil)
	require.Error(t, err)
	assert.True(t, errorbank.IsKind(err, errorbank.KindGeneration))
}
