// Package catalog is the single source of truth for the vocabulary shared by
// the entity generator and the metadata synthesizer: enum value sets, sampling
// weights, and the fixed product list. Both sides read the same Catalog value
// so generated rows and declared metadata can never drift apart.
package catalog

import (
	"fmt"

	"go.uber.org/fx"

	"github.com/slicenferqin/sql-zen/pkg/errorbank"
)

// Module provides the default catalog to Fx.
var Module = fx.Provide(Default)

// Order status vocabulary.
const (
	OrderPending   = "pending"
	OrderPaid      = "paid"
	OrderShipped   = "shipped"
	OrderCompleted = "completed"
	OrderCancelled = "cancelled"
)

// User status vocabulary.
const (
	UserActive   = "active"
	UserInactive = "inactive"
)

// Product status vocabulary.
const (
	ProductActive     = "active"
	ProductInactive   = "inactive"
	ProductOutOfStock = "out_of_stock"
)

// Weighted pairs an enum value with its sampling weight.
type Weighted struct {
	Value  string
	Weight float64
}

// Product is one entry of the fixed product list. Prices are kept in currency
// minor units (cents) so downstream totals stay exact.
type Product struct {
	Name       string
	Category   string
	PriceCents int64
	CostCents  int64
}

// Catalog bundles the reference data every component samples from.
type Catalog struct {
	Cities          []string
	Categories      []string
	PaymentMethods  []string
	OrderStatuses   []Weighted
	UserStatuses    []Weighted
	ProductStatuses []string
	DefaultCountry  string
	Products        []Product
}

// Default returns the built-in catalog mirroring the test dataset vocabulary.
func Default() Catalog {
	return Catalog{
		Cities: []string{
			"Beijing", "Shanghai", "Guangzhou", "Shenzhen", "Hangzhou",
			"Chengdu", "Wuhan", "Xi'an", "Nanjing", "Chongqing",
		},
		Categories: []string{"electronics", "clothing", "food", "home", "books"},
		PaymentMethods: []string{
			"alipay", "wechat", "credit_card", "bank_transfer",
		},
		OrderStatuses: []Weighted{
			{Value: OrderPending, Weight: 0.05},
			{Value: OrderPaid, Weight: 0.15},
			{Value: OrderShipped, Weight: 0.10},
			{Value: OrderCompleted, Weight: 0.60},
			{Value: OrderCancelled, Weight: 0.10},
		},
		UserStatuses: []Weighted{
			{Value: UserActive, Weight: 0.9},
			{Value: UserInactive, Weight: 0.1},
		},
		ProductStatuses: []string{ProductActive, ProductInactive, ProductOutOfStock},
		DefaultCountry:  "China",
		Products: []Product{
			{Name: "iPhone 15 Pro", Category: "electronics", PriceCents: 899900, CostCents: 650000},
			{Name: "MacBook Pro 14", Category: "electronics", PriceCents: 1699900, CostCents: 1200000},
			{Name: "AirPods Pro 2", Category: "electronics", PriceCents: 189900, CostCents: 120000},
			{Name: "iPad Air", Category: "electronics", PriceCents: 479900, CostCents: 320000},
			{Name: "Apple Watch", Category: "electronics", PriceCents: 299900, CostCents: 200000},
			{Name: "Sports T-Shirt", Category: "clothing", PriceCents: 19900, CostCents: 8000},
			{Name: "Jeans", Category: "clothing", PriceCents: 39900, CostCents: 15000},
			{Name: "Down Jacket", Category: "clothing", PriceCents: 129900, CostCents: 50000},
			{Name: "Running Shoes", Category: "clothing", PriceCents: 69900, CostCents: 28000},
			{Name: "Casual Jacket", Category: "clothing", PriceCents: 59900, CostCents: 22000},
			{Name: "Organic Milk", Category: "food", PriceCents: 6800, CostCents: 4000},
			{Name: "Imported Nuts", Category: "food", PriceCents: 12800, CostCents: 7000},
			{Name: "Coffee Beans", Category: "food", PriceCents: 9800, CostCents: 4500},
			{Name: "Smart Desk Lamp", Category: "home", PriceCents: 29900, CostCents: 12000},
			{Name: "Bedding Set", Category: "home", PriceCents: 49900, CostCents: 18000},
			{Name: "Python Programming", Category: "books", PriceCents: 8900, CostCents: 3500},
			{Name: "Data Structures", Category: "books", PriceCents: 7900, CostCents: 3000},
		},
	}
}

// OrderStatusValues lists the order status vocabulary in declaration order.
func (c Catalog) OrderStatusValues() []string {
	return values(c.OrderStatuses)
}

// UserStatusValues lists the user status vocabulary in declaration order.
func (c Catalog) UserStatusValues() []string {
	return values(c.UserStatuses)
}

// RevenueEligibleStatuses is the set of order statuses counted toward
// monetary metrics.
func (c Catalog) RevenueEligibleStatuses() []string {
	return []string{OrderPaid, OrderShipped, OrderCompleted}
}

// Validate checks that the catalog can drive weighted sampling.
func (c Catalog) Validate() error {
	if len(c.Products) == 0 {
		return errorbank.Generation("product catalog is empty")
	}
	if len(c.Cities) == 0 {
		return errorbank.Generation("city list is empty")
	}
	if len(c.PaymentMethods) == 0 {
		return errorbank.Generation("payment method list is empty")
	}
	if err := validateWeights("order status", c.OrderStatuses); err != nil {
		return err
	}
	return validateWeights("user status", c.UserStatuses)
}

func validateWeights(name string, ws []Weighted) error {
	if len(ws) == 0 {
		return errorbank.Generation(fmt.Sprintf("%s weights are empty", name))
	}
	var sum float64
	for _, w := range ws {
		if w.Weight < 0 {
			return errorbank.Generation(
				fmt.Sprintf("%s weight for %q is negative", name, w.Value))
		}
		sum += w.Weight
	}
	if sum <= 0 {
		return errorbank.Generation(fmt.Sprintf("%s weights sum to zero", name))
	}
	return nil
}

func values(ws []Weighted) []string {
	out := make([]string, len(ws))
	for i, w := range ws {
		out[i] = w.Value
	}
	return out
}
