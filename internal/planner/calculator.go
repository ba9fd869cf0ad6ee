package planner

import (
	"github.com/andresuchdata/replenish-go/internal/domain"
)

// ReorderCalculator derives the replenishment signals for a joined row.
// The computation is pure: same inputs always produce the same row.
type ReorderCalculator struct{}

// NewReorderCalculator creates a new reorder calculator.
func NewReorderCalculator() *ReorderCalculator {
	return &ReorderCalculator{}
}

// Calculate computes reorder point, projected inventory, days of inventory
// left, and the stock status classification for one joined row.
//
//	reorder_point       = ADD x lead_time_days + safety_stock
//	projected_inventory = current_stock - open_orders (not clamped)
//	days_inventory_left = current_stock / ADD, nil when ADD is 0
//	stock_status        = "Reorder Needed" when projected < reorder point,
//	                      "OK" otherwise (ties resolve to OK)
func (rc *ReorderCalculator) Calculate(row joinedRow) domain.PlanRow {
	reorderPoint := row.AverageDailyDemand*row.LeadTimeDays + row.SafetyStock
	projected := row.CurrentStock - row.OpenOrders

	var daysLeft *float64
	if row.AverageDailyDemand > 0 {
		d := row.CurrentStock / row.AverageDailyDemand
		daysLeft = &d
	}

	return domain.PlanRow{
		ProductID:          row.ProductID,
		CurrentStock:       row.CurrentStock,
		SafetyStock:        row.SafetyStock,
		LeadTimeDays:       row.LeadTimeDays,
		AverageDailyDemand: row.AverageDailyDemand,
		OpenOrders:         row.OpenOrders,
		ProjectedInventory: projected,
		ReorderPoint:       reorderPoint,
		DaysInventoryLeft:  daysLeft,
		StockStatus:        domain.StockStatusFor(projected, reorderPoint),
		Attributes:         row.Attributes,
	}
}
