package metadata

import (
	"fmt"
	"strings"

	"github.com/slicenferqin/sql-zen/internal/catalog"
)

// CubeDocuments builds the three semantic cubes: business metrics, user
// analytics, and product analytics. Every status literal in a formula is
// taken from the catalog, and every ratio guards its denominator with NULLIF
// so an empty dataset yields NULL/zero instead of a division error.
func CubeDocuments(cat catalog.Catalog) []CubeDocument {
	return []CubeDocument{
		businessMetricsCube(cat),
		userAnalyticsCube(cat),
		productAnalyticsCube(cat),
	}
}

func businessMetricsCube(cat catalog.Catalog) CubeDocument {
	revenue := sqlIn(cat.RevenueEligibleStatuses())

	return CubeDocument{
		Cube:        "business_metrics",
		Description: "Core business indicators: revenue, orders, conversion",
		Dimensions: []Dimension{
			{
				Name:        "time",
				Description: "Time dimension based on order creation time",
				Column:      "orders.created_at",
				Granularity: []GranularityLevel{
					{Name: "day", SQL: "DATE(orders.created_at)", Description: "By day"},
					{Name: "week", SQL: "DATE_TRUNC('week', orders.created_at)", Description: "By week"},
					{Name: "month", SQL: "DATE_TRUNC('month', orders.created_at)", Description: "By month"},
					{Name: "year", SQL: "DATE_TRUNC('year', orders.created_at)", Description: "By year"},
				},
			},
			{
				Name:        "city",
				Description: "City of the ordering user",
				Column:      "users.city",
				Join:        "JOIN users ON orders.user_id = users.id",
			},
			{
				Name:        "category",
				Description: "Category of the ordered products",
				Column:      "products.category",
				Join: "JOIN order_items ON orders.id = order_items.order_id\n" +
					"JOIN products ON order_items.product_id = products.id",
			},
			{
				Name:        "payment_method",
				Description: "How the order was paid",
				Column:      "orders.payment_method",
			},
		},
		Metrics: []Metric{
			{
				Name:        "revenue",
				Description: "Total revenue over paid, shipped, and completed orders",
				SQL:         fmt.Sprintf("SUM(CASE WHEN orders.status IN %s THEN orders.total_amount ELSE 0 END)", revenue),
				Type:        "sum",
				Unit:        "CNY",
			},
			{
				Name:        "total_orders",
				Description: "Total number of orders",
				SQL:         "COUNT(DISTINCT orders.id)",
				Type:        "count",
			},
			{
				Name:        "paid_orders",
				Description: "Number of revenue-eligible orders",
				SQL:         fmt.Sprintf("COUNT(DISTINCT CASE WHEN orders.status IN %s THEN orders.id END)", revenue),
				Type:        "count",
			},
			{
				Name:        "avg_order_value",
				Description: "Average order value (AOV) over revenue-eligible orders",
				SQL: fmt.Sprintf("SUM(CASE WHEN orders.status IN %s THEN orders.total_amount ELSE 0 END) /\n"+
					"NULLIF(COUNT(DISTINCT CASE WHEN orders.status IN %s THEN orders.id END), 0)", revenue, revenue),
				Type: "avg",
				Unit: "CNY",
			},
			{
				Name:        "order_completion_rate",
				Description: "Share of orders that reached completed",
				SQL: fmt.Sprintf("COUNT(DISTINCT CASE WHEN orders.status = '%s' THEN orders.id END)::DECIMAL /\n"+
					"NULLIF(COUNT(DISTINCT orders.id), 0) * 100", catalog.OrderCompleted),
				Type: "percentage",
				Unit: "%",
			},
			{
				Name:        "cancellation_rate",
				Description: "Share of orders that were cancelled",
				SQL: fmt.Sprintf("COUNT(DISTINCT CASE WHEN orders.status = '%s' THEN orders.id END)::DECIMAL /\n"+
					"NULLIF(COUNT(DISTINCT orders.id), 0) * 100", catalog.OrderCancelled),
				Type: "percentage",
				Unit: "%",
			},
		},
		Filters: []Filter{
			{Name: "last_7_days", SQL: "orders.created_at >= CURRENT_DATE - INTERVAL '7 days'", Description: "Last 7 days"},
			{Name: "last_30_days", SQL: "orders.created_at >= CURRENT_DATE - INTERVAL '30 days'", Description: "Last 30 days"},
			{Name: "last_90_days", SQL: "orders.created_at >= CURRENT_DATE - INTERVAL '90 days'", Description: "Last 90 days"},
			{Name: "this_month", SQL: "DATE_TRUNC('month', orders.created_at) = DATE_TRUNC('month', CURRENT_DATE)", Description: "Current month"},
			{Name: "last_month", SQL: "DATE_TRUNC('month', orders.created_at) = DATE_TRUNC('month', CURRENT_DATE - INTERVAL '1 month')", Description: "Previous month"},
			{Name: "paid_only", SQL: fmt.Sprintf("orders.status IN %s", revenue), Description: "Revenue-eligible orders only"},
		},
	}
}

func userAnalyticsCube(cat catalog.Catalog) CubeDocument {
	revenue := sqlIn(cat.RevenueEligibleStatuses())
	ordersJoin := "LEFT JOIN orders ON users.id = orders.user_id"

	return CubeDocument{
		Cube:        "user_analytics",
		Description: "User indicators: volume, activity, lifetime value",
		Dimensions: []Dimension{
			{
				Name:        "registration_time",
				Description: "User registration time",
				Column:      "users.created_at",
				Granularity: []GranularityLevel{
					{Name: "day", SQL: "DATE(users.created_at)", Description: "By day"},
					{Name: "month", SQL: "DATE_TRUNC('month', users.created_at)", Description: "By month"},
				},
			},
			{
				Name:        "city",
				Description: "City of residence",
				Column:      "users.city",
			},
			{
				Name:        "user_status",
				Description: "Account status",
				Column:      "users.status",
			},
		},
		Metrics: []Metric{
			{
				Name:        "total_users",
				Description: "Total number of users",
				SQL:         "COUNT(DISTINCT users.id)",
				Type:        "count",
			},
			{
				Name:        "active_users",
				Description: "Users with an active account",
				SQL:         fmt.Sprintf("COUNT(DISTINCT CASE WHEN users.status = '%s' THEN users.id END)", catalog.UserActive),
				Type:        "count",
			},
			{
				Name:        "new_users",
				Description: "Users registered in the last 30 days",
				SQL:         "COUNT(DISTINCT CASE WHEN users.created_at >= CURRENT_DATE - INTERVAL '30 days' THEN users.id END)",
				Type:        "count",
			},
			{
				Name:        "paying_users",
				Description: "Users with at least one revenue-eligible order",
				SQL: fmt.Sprintf("COUNT(DISTINCT CASE\n"+
					"  WHEN EXISTS (\n"+
					"    SELECT 1 FROM orders o\n"+
					"    WHERE o.user_id = users.id\n"+
					"    AND o.status IN %s\n"+
					"  ) THEN users.id\n"+
					"END)", revenue),
				Type: "count",
			},
			{
				Name:        "customer_lifetime_value",
				Description: "Customer lifetime value (CLV): average total spend per paying user",
				SQL: fmt.Sprintf("COALESCE(\n"+
					"  SUM(CASE WHEN orders.status IN %s THEN orders.total_amount ELSE 0 END) /\n"+
					"  NULLIF(COUNT(DISTINCT CASE WHEN orders.status IN %s THEN orders.user_id END), 0),\n"+
					"  0\n"+
					")", revenue, revenue),
				Type: "avg",
				Unit: "CNY",
				Join: ordersJoin,
			},
			{
				Name:        "avg_orders_per_user",
				Description: "Average revenue-eligible orders per paying user",
				SQL: fmt.Sprintf("COUNT(DISTINCT CASE WHEN orders.status IN %s THEN orders.id END)::DECIMAL /\n"+
					"NULLIF(COUNT(DISTINCT CASE WHEN orders.status IN %s THEN orders.user_id END), 0)", revenue, revenue),
				Type: "avg",
				Join: ordersJoin,
			},
			{
				Name:        "conversion_rate",
				Description: "Share of registered users with at least one purchase",
				SQL: fmt.Sprintf("COUNT(DISTINCT CASE\n"+
					"  WHEN EXISTS (\n"+
					"    SELECT 1 FROM orders o\n"+
					"    WHERE o.user_id = users.id\n"+
					"    AND o.status IN %s\n"+
					"  ) THEN users.id\n"+
					"END)::DECIMAL /\n"+
					"NULLIF(COUNT(DISTINCT users.id), 0) * 100", revenue),
				Type: "percentage",
				Unit: "%",
			},
		},
		Filters: []Filter{
			{Name: "active_only", SQL: fmt.Sprintf("users.status = '%s'", catalog.UserActive), Description: "Active users only"},
			{Name: "registered_last_30_days", SQL: "users.created_at >= CURRENT_DATE - INTERVAL '30 days'", Description: "Registered in the last 30 days"},
		},
	}
}

func productAnalyticsCube(cat catalog.Catalog) CubeDocument {
	revenue := sqlIn(cat.RevenueEligibleStatuses())
	salesJoin := "LEFT JOIN order_items ON products.id = order_items.product_id\n" +
		"LEFT JOIN orders ON order_items.order_id = orders.id"

	return CubeDocument{
		Cube:        "product_analytics",
		Description: "Product indicators: sales volume, revenue, profit",
		Dimensions: []Dimension{
			{
				Name:        "category",
				Description: "Product category",
				Column:      "products.category",
			},
			{
				Name:        "product_name",
				Description: "Product name",
				Column:      "products.name",
			},
			{
				Name:        "order_time",
				Description: "Time of the orders the product appeared on",
				Column:      "orders.created_at",
				Join: "JOIN order_items ON products.id = order_items.product_id\n" +
					"JOIN orders ON order_items.order_id = orders.id",
				Granularity: []GranularityLevel{
					{Name: "day", SQL: "DATE(orders.created_at)", Description: "By day"},
					{Name: "month", SQL: "DATE_TRUNC('month', orders.created_at)", Description: "By month"},
				},
			},
		},
		Metrics: []Metric{
			{
				Name:        "total_products",
				Description: "Total number of products",
				SQL:         "COUNT(DISTINCT products.id)",
				Type:        "count",
			},
			{
				Name:        "products_sold",
				Description: "Units sold on revenue-eligible orders",
				SQL:         fmt.Sprintf("SUM(CASE WHEN orders.status IN %s THEN order_items.quantity ELSE 0 END)", revenue),
				Type:        "sum",
				Join:        salesJoin,
			},
			{
				Name:        "product_revenue",
				Description: "Revenue attributed to the product",
				SQL:         fmt.Sprintf("SUM(CASE WHEN orders.status IN %s THEN order_items.subtotal ELSE 0 END)", revenue),
				Type:        "sum",
				Unit:        "CNY",
				Join:        salesJoin,
			},
			{
				Name:        "product_profit",
				Description: "Profit = revenue - cost; negative when a product sells below cost",
				SQL: fmt.Sprintf("SUM(CASE WHEN orders.status IN %s\n"+
					"  THEN order_items.subtotal - (products.cost * order_items.quantity)\n"+
					"  ELSE 0 END)", revenue),
				Type: "sum",
				Unit: "CNY",
				Join: salesJoin,
			},
			{
				Name:        "profit_margin",
				Description: "Profit as a share of revenue; zero when there is no revenue",
				SQL: fmt.Sprintf("CASE\n"+
					"  WHEN SUM(CASE WHEN orders.status IN %s THEN order_items.subtotal ELSE 0 END) > 0\n"+
					"  THEN (\n"+
					"    SUM(CASE WHEN orders.status IN %s\n"+
					"      THEN order_items.subtotal - (products.cost * order_items.quantity)\n"+
					"      ELSE 0 END)::DECIMAL /\n"+
					"    NULLIF(SUM(CASE WHEN orders.status IN %s THEN order_items.subtotal ELSE 0 END), 0)\n"+
					"  ) * 100\n"+
					"  ELSE 0\n"+
					"END", revenue, revenue, revenue),
				Type: "percentage",
				Unit: "%",
				Join: salesJoin,
			},
			{
				Name:        "avg_unit_price",
				Description: "Average listed price",
				SQL:         "AVG(products.price)",
				Type:        "avg",
				Unit:        "CNY",
			},
		},
		Filters: []Filter{
			{Name: "active_products", SQL: fmt.Sprintf("products.status = '%s'", catalog.ProductActive), Description: "Listed products only"},
			{Name: "electronics", SQL: fmt.Sprintf("products.category = '%s'", cat.Categories[0]), Description: "Electronics category"},
			{Name: "clothing", SQL: fmt.Sprintf("products.category = '%s'", cat.Categories[1]), Description: "Clothing category"},
		},
	}
}

// sqlIn renders a SQL IN-list from a value set: ('a', 'b', 'c').
func sqlIn(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = "'" + v + "'"
	}
	return "(" + strings.Join(quoted, ", ") + ")"
}
