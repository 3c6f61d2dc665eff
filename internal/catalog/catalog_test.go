package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slicenferqin/sql-zen/internal/catalog"
	"github.com/slicenferqin/sql-zen/pkg/errorbank"
)

func TestDefaultCatalogIsValid(t *testing.T) {
	cat := catalog.Default()
	require.NoError(t, cat.Validate())

	assert.Len(t, cat.Products, 17)
	assert.Len(t, cat.Cities, 10)
	assert.Equal(t, []string{"electronics", "clothing", "food", "home", "books"}, cat.Categories)

	for _, p := range cat.Products {
		assert.Contains(t, cat.Categories, p.Category)
		assert.Positive(t, p.PriceCents)
		assert.Positive(t, p.CostCents)
	}
}

func TestStatusVocabularies(t *testing.T) {
	cat := catalog.Default()

	assert.Equal(t,
		[]string{"pending", "paid", "shipped", "completed", "cancelled"},
		cat.OrderStatusValues())
	assert.Equal(t, []string{"active", "inactive"}, cat.UserStatusValues())

	for _, s := range cat.RevenueEligibleStatuses() {
		assert.Contains(t, cat.OrderStatusValues(), s)
	}
	assert.NotContains(t, cat.RevenueEligibleStatuses(), catalog.OrderPending)
	assert.NotContains(t, cat.RevenueEligibleStatuses(), catalog.OrderCancelled)
}

func TestValidateRejectsBrokenCatalogs(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*catalog.Catalog)
	}{
		{"no products", func(c *catalog.Catalog) { c.Products = nil }},
		{"no cities", func(c *catalog.Catalog) { c.Cities = nil }},
		{"no payment methods", func(c *catalog.Catalog) { c.PaymentMethods = nil }},
		{"negative weight", func(c *catalog.Catalog) {
			c.OrderStatuses[0].Weight = -0.1
		}},
		{"zero weight sum", func(c *catalog.Catalog) {
			for i := range c.UserStatuses {
				c.UserStatuses[i].Weight = 0
			}
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cat := catalog.Default()
			tc.mutate(&cat)
			err := cat.Validate()
			require.Error(t, err)
			assert.True(t, errorbank.IsKind(err, errorbank.KindGeneration))
		})
	}
}
