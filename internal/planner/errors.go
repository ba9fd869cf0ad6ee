package planner

import "fmt"

// ComputationError reports a required numeric inventory field that is
// missing, non-numeric, or negative. It fails the whole run: a missing lead
// time or stock level has no safe default, unlike absent demand or open
// orders which legitimately mean "no activity".
type ComputationError struct {
	Dataset string
	Row     int // 1-indexed data row, excluding the header
	Field   string
	Value   string
}

func (e *ComputationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("dataset %s row %d: required field %q is missing", e.Dataset, e.Row, e.Field)
	}
	return fmt.Sprintf("dataset %s row %d: required field %q has invalid value %q", e.Dataset, e.Row, e.Field, e.Value)
}

// JoinWarning records a join mismatch: a product present on one side of the
// inventory join but not the other. Informational only, never blocks output.
type JoinWarning struct {
	ProductID string `json:"product_id"`
	Source    string `json:"source"`
	Reason    string `json:"reason"`
}

func (w JoinWarning) String() string {
	return fmt.Sprintf("%s: product %s %s", w.Source, w.ProductID, w.Reason)
}
