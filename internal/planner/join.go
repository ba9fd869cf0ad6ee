package planner

import (
	"github.com/andresuchdata/replenish-go/internal/domain"
	"github.com/rs/zerolog/log"
)

// joinedRow is an inventory record augmented with the auxiliary columns
// merged onto it. Demand and open orders default to zero when unmatched.
type joinedRow struct {
	domain.InventoryRecord
	AverageDailyDemand float64
	OpenOrders         float64
	Attributes         map[string]string
}

// join left-joins demand summaries, optional product master attributes, and
// open-order aggregates onto the inventory set by product id. Every
// inventory row survives regardless of matches; auxiliary products without
// an inventory anchor are dropped and surfaced as warnings.
func join(
	inventory []domain.InventoryRecord,
	demand []domain.DemandSummary,
	master []domain.ProductMasterRecord,
	openOrders []domain.OpenOrderRecord,
) ([]joinedRow, []JoinWarning) {
	demandByProduct := make(map[string]domain.DemandSummary, len(demand))
	for _, d := range demand {
		demandByProduct[d.ProductID] = d
	}
	openByProduct := make(map[string]float64, len(openOrders))
	for _, o := range openOrders {
		openByProduct[o.ProductID] = o.Quantity
	}
	attrsByProduct := make(map[string]map[string]string, len(master))
	for _, m := range master {
		attrsByProduct[m.ProductID] = m.Attributes
	}

	anchored := make(map[string]bool, len(inventory))
	rows := make([]joinedRow, 0, len(inventory))
	var warnings []JoinWarning

	for _, inv := range inventory {
		anchored[inv.ProductID] = true

		row := joinedRow{InventoryRecord: inv}
		if d, ok := demandByProduct[inv.ProductID]; ok {
			row.AverageDailyDemand = d.AverageDailyDemand
		} else {
			warnings = append(warnings, JoinWarning{
				ProductID: inv.ProductID,
				Source:    "demand",
				Reason:    "has no sales in window, average daily demand defaulted to 0",
			})
		}
		// Absent open orders mean no quantity is committed; default 0.
		row.OpenOrders = openByProduct[inv.ProductID]
		row.Attributes = attrsByProduct[inv.ProductID]

		rows = append(rows, row)
	}

	// Auxiliary products without an inventory anchor are silently excluded
	// from the output; surface them so the mismatch is visible.
	for _, d := range demand {
		if !anchored[d.ProductID] {
			warnings = append(warnings, JoinWarning{
				ProductID: d.ProductID,
				Source:    "sales",
				Reason:    "has sales but no inventory row, excluded from plan",
			})
		}
	}
	for _, o := range openOrders {
		if !anchored[o.ProductID] {
			warnings = append(warnings, JoinWarning{
				ProductID: o.ProductID,
				Source:    "open_orders",
				Reason:    "has open orders but no inventory row, excluded from plan",
			})
		}
	}

	for _, w := range warnings {
		log.Warn().Str("product_id", w.ProductID).Str("source", w.Source).Msg(w.Reason)
	}

	return rows, warnings
}
