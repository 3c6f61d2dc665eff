package metadata

// JoinsDocumentFor declares the three relationships of the dataset plus a
// documentation block of common join patterns. The edge list covers exactly
// the foreign keys the sink provisions.
func JoinsDocumentFor() JoinsDocument {
	return JoinsDocument{
		Relationships: []Relationship{
			{
				Name:        "user_orders",
				Description: "A user places many orders",
				From:        "users",
				To:          "orders",
				Type:        "one_to_many",
				Join:        "users.id = orders.user_id",
			},
			{
				Name:        "order_items_relation",
				Description: "An order contains many line items",
				From:        "orders",
				To:          "order_items",
				Type:        "one_to_many",
				Join:        "orders.id = order_items.order_id",
			},
			{
				Name:        "product_order_items",
				Description: "A product appears on many line items",
				From:        "products",
				To:          "order_items",
				Type:        "one_to_many",
				Join:        "products.id = order_items.product_id",
			},
		},
		CommonJoins: `# Common JOIN patterns

## Orders of a user
SELECT u.*, o.*
FROM users u
JOIN orders o ON u.id = o.user_id

## Products on an order
SELECT o.*, oi.*, p.*
FROM orders o
JOIN order_items oi ON o.id = oi.order_id
JOIN products p ON oi.product_id = p.id

## Products bought by a user
SELECT u.name, p.name, oi.quantity
FROM users u
JOIN orders o ON u.id = o.user_id
JOIN order_items oi ON o.id = oi.order_id
JOIN products p ON oi.product_id = p.id
`,
	}
}
