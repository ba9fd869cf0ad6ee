package planner

import (
	"strconv"
	"strings"
	"time"

	"github.com/andresuchdata/replenish-go/internal/dataset"
	"github.com/andresuchdata/replenish-go/internal/domain"
	"github.com/rs/zerolog/log"
)

// Date layouts accepted in sales uploads, tried in order.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006/01/02",
	"01/02/2006",
	"02-01-2006",
}

func parseDate(v string) (time.Time, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseNumber(v string) (float64, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, false
	}
	// Tolerate thousands separators from spreadsheet exports.
	v = strings.ReplaceAll(v, ",", "")
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// decodeSales converts a normalized sales table into typed records. Rows
// with unparseable dates, unparseable or negative quantities, or an empty
// product id are dropped and counted; dropping is never fatal.
func decodeSales(t *dataset.Table) ([]domain.SalesRecord, int) {
	idxDate := t.ColumnIndex("date")
	idxProduct := t.ColumnIndex("product_id")
	idxQty := t.ColumnIndex("quantity")
	idxStatus := t.ColumnIndex("status")

	records := make([]domain.SalesRecord, 0, len(t.Rows))
	dropped := 0
	for i, row := range t.Rows {
		date, ok := parseDate(t.Cell(row, idxDate))
		if !ok {
			dropped++
			log.Debug().Str("dataset", t.Name).Int("row", i+1).Msg("dropping sales row with unparseable date")
			continue
		}

		product := strings.ToLower(t.Cell(row, idxProduct))
		if product == "" {
			dropped++
			continue
		}

		qty, ok := parseNumber(t.Cell(row, idxQty))
		if !ok || qty < 0 {
			dropped++
			log.Debug().Str("dataset", t.Name).Int("row", i+1).Msg("dropping sales row with invalid quantity")
			continue
		}

		records = append(records, domain.SalesRecord{
			Date:      date,
			ProductID: product,
			Quantity:  qty,
			Status:    t.Cell(row, idxStatus),
		})
	}

	return records, dropped
}

// decodeInventory converts a normalized inventory table into typed records.
// Every numeric field is required: a missing, non-numeric, or negative value
// fails the run with a *ComputationError identifying the row and field.
func decodeInventory(t *dataset.Table) ([]domain.InventoryRecord, error) {
	idxProduct := t.ColumnIndex("product_id")
	numericFields := []struct {
		name string
		idx  int
	}{
		{"current_stock", t.ColumnIndex("current_stock")},
		{"safety_stock", t.ColumnIndex("safety_stock")},
		{"lead_time_days", t.ColumnIndex("lead_time_days")},
	}

	records := make([]domain.InventoryRecord, 0, len(t.Rows))
	for i, row := range t.Rows {
		product := strings.ToLower(t.Cell(row, idxProduct))
		if product == "" {
			log.Warn().Str("dataset", t.Name).Int("row", i+1).Msg("skipping inventory row with empty product_id")
			continue
		}

		values := make(map[string]float64, len(numericFields))
		for _, field := range numericFields {
			raw := t.Cell(row, field.idx)
			v, ok := parseNumber(raw)
			if !ok || v < 0 {
				return nil, &ComputationError{Dataset: t.Name, Row: i + 1, Field: field.name, Value: raw}
			}
			values[field.name] = v
		}

		records = append(records, domain.InventoryRecord{
			ProductID:    product,
			CurrentStock: values["current_stock"],
			SafetyStock:  values["safety_stock"],
			LeadTimeDays: values["lead_time_days"],
		})
	}

	return records, nil
}

// decodeProductMaster converts an optional product master table into
// enrichment records. Every non-key column becomes an attribute.
func decodeProductMaster(t *dataset.Table) []domain.ProductMasterRecord {
	idxProduct := t.ColumnIndex("product_id")

	records := make([]domain.ProductMasterRecord, 0, len(t.Rows))
	for _, row := range t.Rows {
		product := strings.ToLower(t.Cell(row, idxProduct))
		if product == "" {
			continue
		}

		attrs := make(map[string]string)
		for c, col := range t.Columns {
			if c == idxProduct {
				continue
			}
			if v := t.Cell(row, c); v != "" {
				attrs[col] = v
			}
		}

		records = append(records, domain.ProductMasterRecord{ProductID: product, Attributes: attrs})
	}

	return records
}
