package dataset

// HeaderAliases maps normalized header spellings seen in real uploads to the
// canonical column names the planner expects. Applied during Normalize so the
// rest of the pipeline only ever sees canonical names.
var HeaderAliases = map[string]string{
	// product identifier
	"sku":     "product_id",
	"item_id": "product_id",
	"product": "product_id",

	// sales quantity
	"quantity_sold": "quantity",
	"qty":           "quantity",
	"units_sold":    "quantity",

	// sales date
	"order_date": "date",
	"sale_date":  "date",

	// order status
	"order_status": "status",

	// inventory fields
	"stock":          "current_stock",
	"stock_on_hand":  "current_stock",
	"on_hand":        "current_stock",
	"lead_time":      "lead_time_days",
	"lead_time_day":  "lead_time_days",
	"safety":         "safety_stock",
	"buffer_stock":   "safety_stock",
	"open_orders":    "open_orders",
	"open_po_qty":    "open_orders",
	"reorder_points": "reorder_point",
}

// CanonicalColumn maps a raw header to its canonical name: normalized, then
// alias-resolved. Headers without a known alias pass through unchanged.
func CanonicalColumn(name string) string {
	normalized := NormalizeColumn(name)
	if canonical, ok := HeaderAliases[normalized]; ok {
		return canonical
	}
	return normalized
}
