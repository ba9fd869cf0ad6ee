package domain

// Stock status labels for a plan row.
const (
	StatusOK            = "OK"
	StatusReorderNeeded = "Reorder Needed"
)

// StockStatusFor classifies a row by comparing projected inventory against
// the reorder point. The comparison is strict: a tie resolves to OK.
func StockStatusFor(projectedInventory, reorderPoint float64) string {
	if projectedInventory < reorderPoint {
		return StatusReorderNeeded
	}

	return StatusOK
}
