package metadata

import (
	"github.com/slicenferqin/sql-zen/internal/catalog"
)

// TableDocuments builds the schema-layer descriptor for every table the
// generator can populate. Enumerated value sets come straight from the
// catalog so declared metadata and generated rows share one vocabulary.
func TableDocuments(cat catalog.Catalog) []TableDocument {
	return []TableDocument{
		usersTable(cat),
		productsTable(cat),
		ordersTable(cat),
		orderItemsTable(),
	}
}

func usersTable(cat catalog.Catalog) TableDocument {
	return TableDocument{
		Table: TableInfo{
			Name:        "users",
			Description: "Registered platform users",
		},
		Columns: []Column{
			{Name: "id", Type: "SERIAL", Description: "Unique user identifier", PrimaryKey: true},
			{Name: "name", Type: "VARCHAR(100)", Description: "User display name"},
			{Name: "email", Type: "VARCHAR(255)", Description: "User email, unique across the platform", Unique: true},
			{Name: "phone", Type: "VARCHAR(20)", Description: "Phone number"},
			{Name: "city", Type: "VARCHAR(50)", Description: "City of residence", Enum: cat.Cities},
			{Name: "country", Type: "VARCHAR(50)", Description: "Country of residence", Default: cat.DefaultCountry},
			{Name: "status", Type: "VARCHAR(20)", Description: "Account status", Enum: cat.UserStatusValues(), Default: catalog.UserActive},
			{Name: "created_at", Type: "TIMESTAMP", Description: "Registration time"},
			{Name: "updated_at", Type: "TIMESTAMP", Description: "Last modification time"},
		},
		BusinessContext: "Users are the core actors of the platform. Each user can place " +
			"multiple orders. The status column marks whether an account is active; " +
			"inactive users may have deregistered or been suspended.\n",
	}
}

func productsTable(cat catalog.Catalog) TableDocument {
	return TableDocument{
		Table: TableInfo{
			Name:        "products",
			Description: "Products offered for sale",
		},
		Columns: []Column{
			{Name: "id", Type: "SERIAL", Description: "Unique product identifier", PrimaryKey: true},
			{Name: "name", Type: "VARCHAR(200)", Description: "Product name"},
			{Name: "category", Type: "VARCHAR(50)", Description: "Product category", Enum: cat.Categories},
			{Name: "price", Type: "DECIMAL(10, 2)", Description: "Sale price in CNY"},
			{Name: "cost", Type: "DECIMAL(10, 2)", Description: "Purchase cost in CNY"},
			{Name: "stock", Type: "INTEGER", Description: "Units in stock", Default: "0"},
			{Name: "status", Type: "VARCHAR(20)", Description: "Listing status", Enum: cat.ProductStatuses, Default: catalog.ProductActive},
			{Name: "created_at", Type: "TIMESTAMP", Description: "Listing time"},
		},
		BusinessContext: "Products are what orders are made of. price is the customer-facing " +
			"sale price and cost the acquisition cost; profit = price - cost, and cost may " +
			"legitimately exceed price for loss-making items. category drives per-category " +
			"aggregation.\n",
	}
}

func ordersTable(cat catalog.Catalog) TableDocument {
	return TableDocument{
		Table: TableInfo{
			Name:        "orders",
			Description: "Customer purchase orders",
		},
		Columns: []Column{
			{Name: "id", Type: "SERIAL", Description: "Unique order identifier", PrimaryKey: true},
			{Name: "user_id", Type: "INTEGER", Description: "User who placed the order", ForeignKey: "users.id"},
			{Name: "total_amount", Type: "DECIMAL(12, 2)", Description: "Order total in CNY, equal to the sum of its line-item subtotals"},
			{Name: "status", Type: "VARCHAR(20)", Description: "Order lifecycle status", Enum: cat.OrderStatusValues(), Default: catalog.OrderPending},
			{Name: "payment_method", Type: "VARCHAR(50)", Description: "How the order was paid; absent while still pending", Enum: cat.PaymentMethods, Nullable: true},
			{Name: "shipping_address", Type: "TEXT", Description: "Delivery address"},
			{Name: "created_at", Type: "TIMESTAMP", Description: "Time the order was placed"},
			{Name: "paid_at", Type: "TIMESTAMP", Description: "Payment time; set once the order is paid", Nullable: true},
			{Name: "shipped_at", Type: "TIMESTAMP", Description: "Shipment time; set once the order is shipped", Nullable: true},
			{Name: "completed_at", Type: "TIMESTAMP", Description: "Completion time; set once the order is completed", Nullable: true},
		},
		BusinessContext: "Orders are the central business entity. Status flows " +
			"pending -> paid -> shipped -> completed; cancelled marks an aborted order.\n" +
			"\n" +
			"Key business rules:\n" +
			"- only orders with status in (paid, shipped, completed) count toward revenue\n" +
			"- total_amount covers every item on the order\n" +
			"- an order can contain several products, linked through order_items\n",
	}
}

func orderItemsTable() TableDocument {
	return TableDocument{
		Table: TableInfo{
			Name:        "order_items",
			Description: "Line items linking orders to products",
		},
		Columns: []Column{
			{Name: "id", Type: "SERIAL", Description: "Unique line-item identifier", PrimaryKey: true},
			{Name: "order_id", Type: "INTEGER", Description: "Order this line belongs to", ForeignKey: "orders.id"},
			{Name: "product_id", Type: "INTEGER", Description: "Product sold on this line", ForeignKey: "products.id"},
			{Name: "quantity", Type: "INTEGER", Description: "Units purchased"},
			{Name: "unit_price", Type: "DECIMAL(10, 2)", Description: "Product price at order time, in CNY"},
			{Name: "subtotal", Type: "DECIMAL(12, 2)", Description: "Line total = quantity * unit_price"},
			{Name: "created_at", Type: "TIMESTAMP", Description: "Creation time"},
		},
		BusinessContext: "Order items are the association between orders and products. " +
			"unit_price snapshots the price at order time so later price changes never " +
			"affect historical orders. subtotal = quantity * unit_price.\n",
	}
}
