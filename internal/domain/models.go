// internal/domain/models.go
package domain

import "time"

// SalesRecord is a single sales/orders row after decoding.
// Rows with unparseable dates or negative quantities never become SalesRecords.
type SalesRecord struct {
	Date      time.Time `json:"date"`
	ProductID string    `json:"product_id"`
	Quantity  float64   `json:"quantity"`
	Status    string    `json:"status,omitempty"`
}

// InventoryRecord is a single inventory/stock row. All numeric fields are
// required; decoding fails the run when any of them is missing or non-numeric.
type InventoryRecord struct {
	ProductID    string  `json:"product_id"`
	CurrentStock float64 `json:"current_stock"`
	SafetyStock  float64 `json:"safety_stock"`
	LeadTimeDays float64 `json:"lead_time_days"`
}

// ProductMasterRecord carries optional enrichment attributes keyed by
// normalized column name. It never influences the reorder computation.
type ProductMasterRecord struct {
	ProductID  string            `json:"product_id"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// OpenOrderRecord is the per-product sum of quantities from sales/orders
// rows whose status marks them as open (placed, not yet fulfilled).
type OpenOrderRecord struct {
	ProductID string  `json:"product_id"`
	Quantity  float64 `json:"quantity"`
}

// DemandSummary is the per-product demand aggregate over the trailing window.
// Computed fresh on every run, never persisted.
type DemandSummary struct {
	ProductID          string  `json:"product_id"`
	TotalQuantity      float64 `json:"total_quantity_in_window"`
	AverageDailyDemand float64 `json:"average_daily_demand"`
}

// PlanRow is one output row of the replenishment plan, one per inventory
// product. DaysInventoryLeft is nil when average daily demand is zero.
type PlanRow struct {
	ProductID          string            `json:"product_id"`
	CurrentStock       float64           `json:"current_stock"`
	SafetyStock        float64           `json:"safety_stock"`
	LeadTimeDays       float64           `json:"lead_time_days"`
	AverageDailyDemand float64           `json:"average_daily_demand"`
	OpenOrders         float64           `json:"open_orders"`
	ProjectedInventory float64           `json:"projected_inventory"`
	ReorderPoint       float64           `json:"reorder_point"`
	DaysInventoryLeft  *float64          `json:"days_inventory_left"`
	StockStatus        string            `json:"stock_status"`
	Attributes         map[string]string `json:"attributes,omitempty"`
}
